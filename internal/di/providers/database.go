package providers

import (
	"os"

	"github.com/samber/do/v2"

	"github.com/readstackapp/readstack-server/internal/config"
	"github.com/readstackapp/readstack-server/internal/logger"
	"github.com/readstackapp/readstack-server/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the SQLite store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if err := os.MkdirAll(cfg.Database.DataDir, 0o755); err != nil {
		return nil, err
	}

	dbPath := cfg.DatabasePath()
	db, err := sqlite.Open(dbPath, log)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", dbPath)

	return &StoreHandle{Store: db}, nil
}
