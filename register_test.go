package htmlrender

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	t.Parallel()

	env := newStubEnvironment(map[string]string{"greet.html": "Hello {{name}}"})

	t.Run("default key", func(t *testing.T) {
		t.Parallel()

		info := NewInfo()
		p := Register(info, env)

		got, err := info.Provider(DefaultKey)
		require.NoError(t, err)
		assert.Same(t, p, got)
		assert.Same(t, env, got.Environment())
	})

	t.Run("custom key round trip", func(t *testing.T) {
		t.Parallel()

		info := NewInfo()
		Register(info, env, WithRegisterKey("k"))

		registered, err := info.Provider("k")
		require.NoError(t, err)

		direct := NewProvider(env)
		vars := Vars{"name": "rob"}

		want, err := direct.Respond(context.Background(), http.StatusOK, "greet.html", vars, "")
		require.NoError(t, err)
		got, err := registered.Respond(context.Background(), http.StatusOK, "greet.html", vars, "")
		require.NoError(t, err)

		assert.Equal(t, want.Status, got.Status)
		assert.Equal(t, want.Headers, got.Headers)
		assert.Equal(t, want.Body.String(), got.Body.String())

		_, err = info.Provider(DefaultKey)
		assert.True(t, IsProviderNotRegistered(err))
	})

	t.Run("empty key keeps default", func(t *testing.T) {
		t.Parallel()

		info := NewInfo()
		Register(info, env, WithRegisterKey(""))

		_, err := info.Provider(DefaultKey)
		assert.NoError(t, err)
	})

	t.Run("second registration overwrites", func(t *testing.T) {
		t.Parallel()

		info := NewInfo()
		first := Register(info, env)
		second := Register(info, newStubEnvironment(nil))

		got, err := info.Provider(DefaultKey)
		require.NoError(t, err)
		assert.Same(t, second, got)
		assert.NotSame(t, first, got)
	})

	t.Run("distinct keys stay independent", func(t *testing.T) {
		t.Parallel()

		info := NewInfo()
		otherEnv := newStubEnvironment(map[string]string{"greet.html": "Hi {{name}}"})

		one := Register(info, env, WithRegisterKey("one"))
		two := Register(info, otherEnv, WithRegisterKey("two"))

		gotOne, err := info.Provider("one")
		require.NoError(t, err)
		gotTwo, err := info.Provider("two")
		require.NoError(t, err)

		assert.Same(t, one, gotOne)
		assert.Same(t, two, gotTwo)
		assert.Same(t, env, gotOne.Environment())
		assert.Same(t, otherEnv, gotTwo.Environment())
	})

	t.Run("nil environment surfaces on render", func(t *testing.T) {
		t.Parallel()

		info := NewInfo()
		p := Register(info, nil)

		_, err := p.Respond(context.Background(), http.StatusOK, "greet.html", nil, "")
		assert.Error(t, err)
	})

	t.Run("zero app panics", func(t *testing.T) {
		t.Parallel()

		assert.PanicsWithValue(t, "htmlrender: Set on a nil Info; use NewInfo or NewApp", func() {
			Register(&App{}, newStubEnvironment(nil))
		})
	})
}

func TestRegister_Logger(t *testing.T) {
	t.Parallel()

	var lines []string
	logger := funcr.New(func(prefix, args string) {
		lines = append(lines, args)
	}, funcr.Options{})

	info := NewInfo()
	p := Register(info, newStubEnvironment(nil), WithRegisterLogger(logger))

	resp, err := p.Respond(context.Background(), http.StatusOK, "missing.html", nil, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.Status)

	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "template not found")
	assert.Contains(t, lines[0], "missing.html")
}

func TestNewProvider_DiscardsLogsByDefault(t *testing.T) {
	t.Parallel()

	p := NewProvider(newStubEnvironment(nil))
	assert.Equal(t, logr.Discard(), p.logger)
}
