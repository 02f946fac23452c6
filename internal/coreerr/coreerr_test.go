package coreerr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lineforge/lineforge/internal/coreerr"
)

func TestError_IsMatchesSentinel(t *testing.T) {
	t.Parallel()

	err := coreerr.NotFound("block.get_block_info", nil)

	assert.ErrorIs(t, err, coreerr.ErrNotFound)
	assert.NotErrorIs(t, err, coreerr.ErrOverlap)
}

func TestError_WrapsCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := coreerr.Storage("store.save", cause)

	assert.ErrorIs(t, err, coreerr.ErrStorage)
	assert.ErrorIs(t, err, cause)
}

func TestPanicInvariant_CaughtByRecover(t *testing.T) {
	t.Parallel()

	run := func() (err error) {
		defer coreerr.Recover(&err)

		coreerr.PanicInvariant("block.current_version", errors.New("no claimed lines"))

		return nil
	}

	err := run()
	require.Error(t, err)

	var iv *coreerr.InvariantViolation

	require.ErrorAs(t, err, &iv)
	assert.Equal(t, "block.current_version", iv.Op)
}

func TestRecover_RepanicsOnOtherValues(t *testing.T) {
	t.Parallel()

	run := func() (err error) {
		defer coreerr.Recover(&err)

		panic("not an invariant violation")
	}

	assert.Panics(t, func() { _ = run() })
}
