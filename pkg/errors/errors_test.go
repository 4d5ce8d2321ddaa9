// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, and code classification

package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/arthur-debert/codeguard/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "config_invalid",
			code:    errors.ErrConfigValid,
			message: "duplicate rule id",
			wantStr: "[CONFIG_INVALID] duplicate rule id",
		},
		{
			name:    "file_read",
			code:    errors.ErrFileRead,
			message: "permission denied",
			wantStr: "[FILE_READ] permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.NotNil(t, err.Details)
			assert.Equal(t, tt.wantStr, err.Error())
		})
	}
}

func TestWrap(t *testing.T) {
	t.Run("nil_error_stays_nil", func(t *testing.T) {
		assert.Nil(t, errors.Wrap(nil, errors.ErrInternal, "ignored"))
		assert.Nil(t, errors.Wrapf(nil, errors.ErrInternal, "ignored %d", 1))
	})

	t.Run("wrapped_error_is_reachable", func(t *testing.T) {
		base := stderrors.New("disk on fire")
		err := errors.Wrapf(base, errors.ErrCacheIO, "failed to save %s", "cache.json")

		assert.Equal(t, "[CACHE_IO] failed to save cache.json: disk on fire", err.Error())
		assert.True(t, stderrors.Is(err, base))
	})

	t.Run("codes_survive_fmt_wrapping", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", errors.New(errors.ErrPathResolve, "root missing"))

		assert.True(t, errors.IsErrorCode(err, errors.ErrPathResolve))
		assert.Equal(t, errors.ErrPathResolve, errors.GetErrorCode(err))
		assert.True(t, stderrors.Is(err, errors.New(errors.ErrPathResolve, "")))
	})

	t.Run("plain_errors_are_unknown", func(t *testing.T) {
		assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(stderrors.New("x")))
	})
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrPatternCompile, "bad regex").
		WithDetail("rule", "todo_comments").
		WithDetail("pattern", "(")

	require.Len(t, err.Details, 2)
	assert.Equal(t, "todo_comments", err.Details["rule"])
}

func TestIsFatal(t *testing.T) {
	fatal := []errors.ErrorCode{
		errors.ErrConfigLoad, errors.ErrConfigParse, errors.ErrConfigValid, errors.ErrPatternCompile,
	}
	for _, code := range fatal {
		assert.True(t, errors.IsFatal(errors.New(code, "x")), code)
	}

	scoped := []errors.ErrorCode{
		errors.ErrPathResolve, errors.ErrFileRead, errors.ErrStructuralParse, errors.ErrCacheIO,
	}
	for _, code := range scoped {
		assert.False(t, errors.IsFatal(errors.New(code, "x")), code)
	}
}
