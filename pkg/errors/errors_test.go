package errors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/digestiflow/flowsheet/pkg/errors"
)

func TestNotFoundError(t *testing.T) {
	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewNotFoundError("barcode set", "idx96")
		assert.Equal(t, `barcode set "idx96" not found`, err.Error())
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("wrapped error", func(t *testing.T) {
		wrapped := fmt.Errorf("lookup: %w", pkgerrors.NewNotFoundError("project", "p1"))
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	err := pkgerrors.NewValidationError("lanes", "1-", "dangling range")
	assert.Equal(t, "invalid lanes: dangling range", err.Error())
	assert.True(t, pkgerrors.IsValidationError(err))

	err = &pkgerrors.ValidationError{Message: "empty"}
	assert.Equal(t, "invalid input: empty", err.Error())
}

func TestParseError(t *testing.T) {
	t.Run("with offset", func(t *testing.T) {
		err := &pkgerrors.ParseError{Format: "multirange", Input: "1,x", Offset: 2, Message: "expected integer"}
		assert.Equal(t, `cannot parse multirange "1,x" at offset 2: expected integer`, err.Error())
	})

	t.Run("constructor has no offset", func(t *testing.T) {
		err := pkgerrors.NewParseError("json", "{", "unexpected end", nil)
		assert.Equal(t, `cannot parse json "{": unexpected end`, err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("unwrap", func(t *testing.T) {
		base := errors.New("boom")
		err := pkgerrors.WrapParse("yaml", "", base)
		require.Error(t, err)
		assert.ErrorIs(t, err, base)
		assert.Equal(t, "cannot parse yaml: boom", err.Error())
	})
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		notFound    bool
		unavailable bool
	}{
		{"not found", http.StatusNotFound, true, false},
		{"server error", http.StatusBadGateway, false, true},
		{"client error", http.StatusForbidden, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pkgerrors.NewAPIError("http://catalog/api/barcodesets/p/", tt.status, "nope")
			assert.Equal(t, tt.notFound, pkgerrors.IsNotFound(err))
			assert.Equal(t, tt.unavailable, pkgerrors.IsUnavailable(err))
			assert.Contains(t, err.Error(), fmt.Sprintf("status %d", tt.status))
		})
	}
}

func TestWrapHelpersNil(t *testing.T) {
	assert.NoError(t, pkgerrors.WrapValidation("x", nil))
	assert.NoError(t, pkgerrors.WrapIO("read", "/tmp/x", nil))
	assert.NoError(t, pkgerrors.WrapParse("json", "", nil))
	assert.NoError(t, pkgerrors.WrapAPI("x", 500, nil))
}

func TestIOError(t *testing.T) {
	base := errors.New("permission denied")
	err := pkgerrors.WrapIO("read", "/etc/snapshot.json", base)
	assert.Equal(t, "read /etc/snapshot.json: permission denied", err.Error())
	assert.ErrorIs(t, err, base)
}

func TestConfigError(t *testing.T) {
	err := pkgerrors.NewConfigError("catalog", "no source configured", nil)
	assert.Equal(t, "config catalog: no source configured", err.Error())
}
