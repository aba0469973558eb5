// Package socketio provides a shared socket.io client part. The client is
// connected during construction, so a composed provider hands out live
// connections only.
package socketio

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/vk/partgrid/internal/contract"
	"github.com/vk/partgrid/internal/ctxlog"
	"github.com/vk/partgrid/internal/part"
	"github.com/vk/partgrid/internal/registry"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Contract is exported by socket.io client parts as a *Client.
var Contract = contract.MustParse("SocketIOClient")

// Module implements the registry.Module interface for this package.
type Module struct{}

// Settings are the part settings of a socket.io client.
type Settings struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
	ConnectTimeout     time.Duration
}

func decodeSettings(m part.Metadata) (*Settings, error) {
	s := &Settings{
		URL:       m.String("url", ""),
		Namespace: m.String("namespace", "/"),
	}
	if s.URL == "" {
		return nil, errors.New("setting \"url\" is required")
	}
	if _, err := m.Decode("insecure_skip_verify", &s.InsecureSkipVerify); err != nil {
		return nil, err
	}
	d, err := time.ParseDuration(m.String("connect_timeout", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid connect_timeout: %w", err)
	}
	s.ConnectTimeout = d
	return s, nil
}

// NewSocketIOClient connects a client from the part settings:
//
//	url                  = "ws://host:port/socket.io/" (required)
//	namespace            = string (default "/")
//	insecure_skip_verify = bool
//	connect_timeout      = duration string (default "15s")
func NewSocketIOClient(ctx context.Context, in part.Inputs) (any, error) {
	s, err := decodeSettings(in.Settings())
	if err != nil {
		return nil, err
	}
	logger := ctxlog.FromContext(ctx).With("part", in.Part(), "url", s.URL)
	logger.Info("Creating socket.io client...")

	parsedURL, err := url.Parse(s.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if s.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(s.Namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Successfully connected", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err, _ := errs[0].(error)
		if err == nil {
			err = fmt.Errorf("%v", errs[0])
		}
		connectChan <- err
	})

	io.Connect()

	timer := time.NewTimer(s.ConnectTimeout)
	defer timer.Stop()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return &Client{socket: io}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("waiting for socket.io connection: %w", ctx.Err())
	case <-timer.C:
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", s.ConnectTimeout)
	}
}

// Register registers the constructor with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterConstructor("NewSocketIOClient", NewSocketIOClient)
}
