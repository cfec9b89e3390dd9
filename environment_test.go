package htmlrender

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderAsync(t *testing.T) {
	t.Parallel()

	t.Run("returns render result", func(t *testing.T) {
		t.Parallel()

		got, err := renderAsync(context.Background(), func() (string, error) {
			return "done", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "done", got)
	})

	t.Run("returns render error", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		_, err := renderAsync(context.Background(), func() (string, error) {
			return "", boom
		})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("already canceled context never renders", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		called := false
		_, err := renderAsync(ctx, func() (string, error) {
			called = true
			return "", nil
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called)
	})

	t.Run("raises render panic on caller", func(t *testing.T) {
		t.Parallel()

		assert.PanicsWithValue(t, "render bug", func() {
			_, _ = renderAsync(context.Background(), func() (string, error) {
				panic("render bug")
			})
		})
	})

	t.Run("stops waiting on deadline", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		release := make(chan struct{})
		defer close(release)

		_, err := renderAsync(ctx, func() (string, error) {
			<-release
			return "late", nil
		})
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
