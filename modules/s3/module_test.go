package s3

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/partgrid/internal/contract"
	"github.com/vk/partgrid/internal/part/parttest"
	"github.com/vk/partgrid/modules/httpclient"
)

func TestUploader(t *testing.T) {
	var gotType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		body, _ := io.ReadAll(r.Body)
		gotType, gotBody = r.Header.Get("Content-Type"), string(body)
		if r.URL.Path == "/denied" {
			w.WriteHeader(http.StatusForbidden)
		}
	}))
	defer srv.Close()

	v, err := NewS3Uploader(context.Background(), &parttest.Inputs{
		Eager: map[contract.ID][]any{httpclient.Contract: {srv.Client()}},
	})
	require.NoError(t, err)
	u := v.(*Uploader)

	src := filepath.Join(t.TempDir(), "report.unknownext")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))

	status, err := u.Upload(context.Background(), src, srv.URL+"/bucket/report")
	require.NoError(t, err)
	assert.Equal(t, "200 OK", status)
	assert.Equal(t, "application/octet-stream", gotType)
	assert.Equal(t, "payload", gotBody)

	_, err = u.Upload(context.Background(), src, srv.URL+"/denied")
	assert.ErrorContains(t, err, "403")

	_, err = u.Upload(context.Background(), filepath.Join(t.TempDir(), "missing"), srv.URL)
	assert.ErrorContains(t, err, "failed to open source file")
}

func TestNewS3Uploader_RequiresClient(t *testing.T) {
	_, err := NewS3Uploader(context.Background(), &parttest.Inputs{
		Eager: map[contract.ID][]any{httpclient.Contract: {"not a client"}},
	})
	assert.ErrorContains(t, err, "not *http.Client")
}
