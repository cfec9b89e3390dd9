package htmlrender

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Render(t *testing.T) {
	t.Parallel()

	env := newStubEnvironment(map[string]string{
		"greet.html": "Hello {{name}}",
	})
	p := NewProvider(env)

	t.Run("renders existing template", func(t *testing.T) {
		t.Parallel()

		got, err := p.Render(context.Background(), "greet.html", Vars{"name": "rob"})
		require.NoError(t, err)
		assert.Equal(t, "Hello rob", got)
	})

	t.Run("missing template", func(t *testing.T) {
		t.Parallel()

		got, err := p.Render(context.Background(), "missing.html", nil)
		require.Error(t, err)
		assert.True(t, IsTemplateNotFound(err))
		assert.Empty(t, got)
	})

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()

		vars := Vars{"name": "rob"}
		first, err := p.Render(context.Background(), "greet.html", vars)
		require.NoError(t, err)
		second, err := p.Render(context.Background(), "greet.html", vars)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}

func TestProvider_RenderWithoutEnvironment(t *testing.T) {
	t.Parallel()

	_, err := NewProvider(nil).Render(context.Background(), "greet.html", nil)
	assert.Error(t, err)
}

func TestProvider_Respond(t *testing.T) {
	t.Parallel()

	env := newStubEnvironment(map[string]string{
		"greet.html": "Hello {{name}}",
		"cafe.html":  "café {{name}}",
	})
	p := NewProvider(env)

	testCases := []struct {
		name            string
		status          int
		template        string
		encoding        string
		wantStatus      int
		wantContentType string
		wantBody        string
	}{
		{
			name:            "ok with default encoding",
			status:          http.StatusOK,
			template:        "greet.html",
			wantStatus:      http.StatusOK,
			wantContentType: "text/html; charset=utf-8",
			wantBody:        "Hello rob",
		},
		{
			name:            "custom status",
			status:          http.StatusCreated,
			template:        "greet.html",
			encoding:        "utf-8",
			wantStatus:      http.StatusCreated,
			wantContentType: "text/html; charset=utf-8",
			wantBody:        "Hello rob",
		},
		{
			name:            "latin1 encoding",
			status:          http.StatusOK,
			template:        "cafe.html",
			encoding:        "iso-8859-1",
			wantStatus:      http.StatusOK,
			wantContentType: "text/html; charset=iso-8859-1",
			wantBody:        "caf\xe9 rob",
		},
		{
			name:            "encoding name is trimmed",
			status:          http.StatusOK,
			template:        "greet.html",
			encoding:        " UTF-8 ",
			wantStatus:      http.StatusOK,
			wantContentType: "text/html; charset=UTF-8",
			wantBody:        "Hello rob",
		},
		{
			name:            "missing name outside the charset",
			status:          http.StatusOK,
			template:        "日本.html",
			encoding:        "iso-8859-1",
			wantStatus:      http.StatusInternalServerError,
			wantContentType: "text/plain",
			wantBody:        "template '\x1a\x1a.html' not found",
		},
		{
			name:            "missing template ignores requested status",
			status:          http.StatusOK,
			template:        "nope.html",
			wantStatus:      http.StatusInternalServerError,
			wantContentType: "text/plain",
			wantBody:        "template 'nope.html' not found",
		},
		{
			name:            "missing template with custom status",
			status:          http.StatusAccepted,
			template:        "nope.html",
			encoding:        "utf-8",
			wantStatus:      http.StatusInternalServerError,
			wantContentType: "text/plain",
			wantBody:        "template 'nope.html' not found",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			resp, err := p.Respond(context.Background(), tc.status, tc.template, Vars{"name": "rob"}, tc.encoding)
			require.NoError(t, err)

			assert.Equal(t, tc.wantStatus, resp.Status)
			require.Len(t, resp.Headers, 1)
			assert.Equal(t, HeaderContentType, resp.Headers[0].Name)
			assert.Equal(t, tc.wantContentType, resp.ContentType())

			body, err := resp.Bytes()
			require.NoError(t, err)
			assert.Equal(t, tc.wantBody, string(body))
		})
	}
}

func TestProvider_RespondMatchesRender(t *testing.T) {
	t.Parallel()

	env := newStubEnvironment(map[string]string{"greet.html": "Hello {{name}}"})
	p := NewProvider(env)
	vars := Vars{"name": "rob"}

	rendered, err := p.Render(context.Background(), "greet.html", vars)
	require.NoError(t, err)

	resp, err := p.Respond(context.Background(), http.StatusOK, "greet.html", vars, "")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.ContentType(), "text/html; charset="))
	assert.Equal(t, rendered, resp.Body.String())
}

func TestProvider_RespondPropagatesOtherErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	p := NewProvider(failingEnvironment{err: boom})

	resp, err := p.Respond(context.Background(), http.StatusOK, "broken.html", nil, "")
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, boom)
	assert.False(t, IsTemplateNotFound(err))
}

func TestProvider_RespondUnknownEncoding(t *testing.T) {
	t.Parallel()

	env := newStubEnvironment(map[string]string{"greet.html": "Hello"})
	p := NewProvider(env)

	resp, err := p.Respond(context.Background(), http.StatusOK, "greet.html", nil, "klingon")
	require.Error(t, err)
	assert.Nil(t, resp)

	var unknown ErrUnknownEncoding
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "klingon", unknown.Name)
	assert.Zero(t, env.lookups.Load())
}

func TestProvider_RespondCanceledContext(t *testing.T) {
	t.Parallel()

	env := newStubEnvironment(map[string]string{"greet.html": "Hello"})
	p := NewProvider(env)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Respond(ctx, http.StatusOK, "greet.html", nil, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProvider_Check(t *testing.T) {
	t.Parallel()

	env := newStubEnvironment(map[string]string{
		"a.html": "a",
		"b.html": "b",
	})
	p := NewProvider(env)

	assert.NoError(t, p.Check("a.html", "b.html"))
	assert.NoError(t, p.Check())

	err := p.Check("a.html", "x.html", "y.html")
	require.Error(t, err)
	assert.True(t, IsTemplateNotFound(err))
	assert.Contains(t, err.Error(), "x.html")
	assert.Contains(t, err.Error(), "y.html")

	assert.Error(t, NewProvider(nil).Check("a.html"))
}
