package rankmdx_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/rankmdx"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := rankmdx.Errorf(rankmdx.ENOTFOUND, "article %q not found", "mejores-freidoras")

	assert.Equal(t, rankmdx.ENOTFOUND, rankmdx.ErrorCode(err))
	assert.Equal(t, "article \"mejores-freidoras\" not found", rankmdx.ErrorMessage(err))
}

func TestErrorCode(t *testing.T) {
	t.Parallel()

	t.Run("nil error has no code", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, rankmdx.ErrorCode(nil))
	})

	t.Run("wrapped application error keeps its code", func(t *testing.T) {
		t.Parallel()
		err := fmt.Errorf("writing article: %w", rankmdx.Errorf(rankmdx.ECONFLICT, "slug taken"))
		assert.Equal(t, rankmdx.ECONFLICT, rankmdx.ErrorCode(err))
		assert.Equal(t, "slug taken", rankmdx.ErrorMessage(err))
	})

	t.Run("plain errors are internal", func(t *testing.T) {
		t.Parallel()
		err := errors.New("disk full")
		assert.Equal(t, rankmdx.EINTERNAL, rankmdx.ErrorCode(err))
		assert.Equal(t, "disk full", rankmdx.ErrorMessage(err))
	})
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, rankmdx.ErrorMessage(nil))
}
