package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/partgrid/internal/contract"
	"github.com/vk/partgrid/internal/part"
	"github.com/vk/partgrid/internal/part/parttest"
	"github.com/vk/partgrid/modules/envvars"
)

func environment(t *testing.T, vars ...string) *envvars.Environment {
	t.Helper()
	m := &envvars.Module{Environ: func() []string { return vars }}
	v, err := m.NewEnvironment(context.Background(), &parttest.Inputs{})
	require.NoError(t, err)
	return v.(*envvars.Environment)
}

func TestNewHTTPClient(t *testing.T) {
	testCases := []struct {
		name    string
		in      *parttest.Inputs
		want    time.Duration
		wantErr string
	}{
		{name: "defaults", in: &parttest.Inputs{}, want: 30 * time.Second},
		{
			name: "settings",
			in:   &parttest.Inputs{Set: part.MustMetadata(map[string]any{"timeout": "5s", "max_idle_conns": 3})},
			want: 5 * time.Second,
		},
		{
			name: "environment override",
			in: &parttest.Inputs{
				Set:   part.MustMetadata(map[string]any{"timeout": "5s"}),
				Eager: map[contract.ID][]any{envvars.Contract: {environment(t, "HTTP_TIMEOUT=250ms")}},
			},
			want: 250 * time.Millisecond,
		},
		{
			name:    "bad timeout",
			in:      &parttest.Inputs{Set: part.MustMetadata(map[string]any{"timeout": "soon"})},
			wantErr: "invalid timeout",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := NewHTTPClient(context.Background(), tc.in)
			if tc.wantErr != "" {
				require.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			client := v.(*http.Client)
			assert.Equal(t, tc.want, client.Timeout)
		})
	}
}

func TestRequester(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte(r.Method + " " + r.URL.Path))
	}))
	defer srv.Close()

	v, err := NewHTTPRequester(context.Background(), &parttest.Inputs{
		Set:   part.MustMetadata(map[string]any{"base_url": srv.URL}),
		Eager: map[contract.ID][]any{Contract: {srv.Client()}},
	})
	require.NoError(t, err)
	r := v.(*Requester)

	resp, err := r.Do(context.Background(), "", "/ping")
	require.NoError(t, err)
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	assert.Equal(t, "GET /ping", string(resp.Body))

	_, err = NewHTTPRequester(context.Background(), &parttest.Inputs{})
	assert.ErrorContains(t, err, "not injected")
}
