// Package s3 provides an Uploader part that PUTs files to pre-signed S3
// URLs through an imported HTTPClient.
package s3

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/vk/partgrid/internal/contract"
	"github.com/vk/partgrid/internal/ctxlog"
	"github.com/vk/partgrid/internal/part"
	"github.com/vk/partgrid/internal/registry"
	"github.com/vk/partgrid/modules/httpclient"
)

// Contract is exported by uploader parts as an *Uploader.
var Contract = contract.MustParse("Uploader")

// Module implements the registry.Module interface for this package.
type Module struct{}

// Uploader sends local files to pre-signed URLs.
type Uploader struct {
	client             *http.Client
	defaultContentType string
}

// Upload PUTs the file at sourcePath to uploadURL and returns the response
// status. Any status other than 200 is an error.
func (u *Uploader) Upload(ctx context.Context, sourcePath, uploadURL string) (string, error) {
	logger := ctxlog.FromContext(ctx).With("action", "upload")

	file, err := os.Open(sourcePath)
	if err != nil {
		return "", fmt.Errorf("failed to open source file '%s': %w", sourcePath, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to get file stats for '%s': %w", sourcePath, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, file)
	if err != nil {
		return "", fmt.Errorf("failed to create S3 upload request: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(sourcePath))
	if contentType == "" {
		contentType = u.defaultContentType
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = stat.Size()

	logger.Info("Uploading file to S3", "source", sourcePath, "size", stat.Size(), "contentType", contentType)

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute S3 upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("S3 upload failed with status: %s", resp.Status)
	}
	logger.Info("Successfully uploaded file", "status", resp.Status)
	return resp.Status, nil
}

// NewS3Uploader imports exactly one HTTPClient. Setting
// default_content_type applies when the file extension has no known type.
func NewS3Uploader(_ context.Context, in part.Inputs) (any, error) {
	v, ok := in.One(httpclient.Contract)
	if !ok {
		return nil, errors.New("http client dependency was not injected")
	}
	client, ok := v.(*http.Client)
	if !ok {
		return nil, fmt.Errorf("HTTPClient export is %T, not *http.Client", v)
	}
	return &Uploader{
		client:             client,
		defaultContentType: in.Settings().String("default_content_type", "application/octet-stream"),
	}, nil
}

// Register registers the constructor with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterConstructor("NewS3Uploader", NewS3Uploader)
}
