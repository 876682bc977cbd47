package providers

import (
	"github.com/samber/do/v2"

	"github.com/readstackapp/readstack-server/internal/auth"
	"github.com/readstackapp/readstack-server/internal/logger"
	"github.com/readstackapp/readstack-server/internal/service"
)

// ProvideServices provides the bundled business services.
func ProvideServices(i do.Injector) (*service.Services, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.New(storeHandle.Store, tokens, log), nil
}
