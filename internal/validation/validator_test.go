package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/readstackapp/readstack-server/internal/errors"
)

type bookPayload struct {
	Title           string `json:"title" validate:"required"`
	PublicationYear int    `json:"publication_year" validate:"required,pastyear"`
}

type shelfPayload struct {
	ISBN string `json:"isbn" validate:"required,isbn"`
}

func TestValidate_PastYear(t *testing.T) {
	v := New()
	currentYear := time.Now().Year()

	tests := []struct {
		name    string
		year    int
		wantErr bool
	}{
		{"current year ok", currentYear, false},
		{"past year ok", 2001, false},
		{"ancient year ok", 1605, false},
		{"next year rejected", currentYear + 1, true},
		{"far future rejected", currentYear + 100, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(bookPayload{Title: "First Book", PublicationYear: tt.year})
			if tt.wantErr {
				require.Error(t, err)

				var domainErr *domainerrors.Error
				require.ErrorAs(t, err, &domainErr)
				assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)

				details, ok := domainErr.Details.(map[string]string)
				require.True(t, ok)
				assert.Contains(t, details, "publication_year")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_ISBNDigitsOnly(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		isbn    string
		wantErr bool
	}{
		{"all digits", "9780140449136", false},
		{"short digits", "42", false},
		{"letters rejected", "97801404491X", true},
		{"hyphens rejected", "978-0140449136", true},
		{"spaces rejected", "978 0140449136", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(shelfPayload{ISBN: tt.isbn})
			if tt.wantErr {
				require.Error(t, err)

				var domainErr *domainerrors.Error
				require.ErrorAs(t, err, &domainErr)

				details, ok := domainErr.Details.(map[string]string)
				require.True(t, ok)
				assert.Equal(t, "must contain only digits", details["isbn"])
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_UsesJSONFieldNames(t *testing.T) {
	v := New()

	err := v.Validate(bookPayload{PublicationYear: 2001})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)

	details, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "title")
	assert.Equal(t, "is required", details["title"])
}
