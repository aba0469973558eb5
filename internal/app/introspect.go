package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vk/partgrid/internal/composition"
	"github.com/vk/partgrid/internal/contract"
)

type dependencyView struct {
	Contract    string   `json:"contract"`
	Cardinality string   `json:"cardinality"`
	Lazy        bool     `json:"lazy"`
	Suppliers   []string `json:"suppliers"`
}

type partView struct {
	ID           string           `json:"id"`
	Module       string           `json:"module"`
	Sharing      string           `json:"sharing"`
	Creation     string           `json:"creation"`
	Constructor  string           `json:"constructor,omitempty"`
	Exports      []string         `json:"exports"`
	Imports      []dependencyView `json:"imports"`
	DependsOn    []string         `json:"depends_on"`
	Dependents   []string         `json:"dependents"`
	Instantiated bool             `json:"instantiated"`
}

// Handler returns the introspection API.
func (a *App) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", a.healthHandler)
	r.Get("/parts", a.partsHandler)
	r.Get("/exports/{contract}", a.exportsHandler)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(a.metrics, promhttp.HandlerOpts{}))
	return r
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	if a.Provider() == nil {
		http.Error(w, "not composed", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (a *App) partsHandler(w http.ResponseWriter, r *http.Request) {
	p := a.Provider()
	if p == nil {
		http.Error(w, "not composed", http.StatusServiceUnavailable)
		return
	}
	parts := p.Composition().Parts()
	views := make([]partView, 0, len(parts))
	for _, rp := range parts {
		views = append(views, a.view(rp))
	}
	a.writeJSON(w, views)
}

func (a *App) exportsHandler(w http.ResponseWriter, r *http.Request) {
	p := a.Provider()
	if p == nil {
		http.Error(w, "not composed", http.StatusServiceUnavailable)
		return
	}
	c, err := contract.Parse(chi.URLParam(r, "contract"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	exporters := p.Composition().Exporters(c)
	if len(exporters) == 0 {
		http.Error(w, fmt.Sprintf("no part exports %q", c), http.StatusNotFound)
		return
	}
	views := make([]partView, 0, len(exporters))
	for _, rp := range exporters {
		views = append(views, a.view(rp))
	}
	a.writeJSON(w, views)
}

func (a *App) view(rp *composition.Part) partView {
	v := partView{
		ID:           rp.ID,
		Module:       rp.Module,
		Sharing:      rp.Sharing.String(),
		Creation:     rp.Creation.String(),
		Constructor:  rp.ConstructorName,
		Exports:      make([]string, 0, len(rp.Exports)),
		Imports:      make([]dependencyView, 0, len(rp.Eager)+len(rp.Lazy)),
		DependsOn:    append([]string{}, rp.DependsOn...),
		Dependents:   append([]string{}, rp.Dependents...),
		Instantiated: a.Provider().Instantiated(rp.ID),
	}
	for _, c := range rp.Exports {
		v.Exports = append(v.Exports, c.String())
	}
	add := func(deps []*composition.Dependency, lazy bool) {
		for _, d := range deps {
			dv := dependencyView{
				Contract:    d.Contract.String(),
				Cardinality: d.Cardinality.String(),
				Lazy:        lazy,
				Suppliers:   make([]string, 0, len(d.Suppliers)),
			}
			for _, s := range d.Suppliers {
				dv.Suppliers = append(dv.Suppliers, s.ID)
			}
			v.Imports = append(v.Imports, dv)
		}
	}
	add(rp.Eager, false)
	add(rp.Lazy, true)
	return v
}

func (a *App) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Error("Failed to encode response.", "error", err)
	}
}

// serveIntrospection blocks until ctx is done, then shuts the server down.
func (a *App) serveIntrospection(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	srv := &http.Server{Addr: addr, Handler: a.Handler(), ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Introspection server starting.", "address", fmt.Sprintf("http://localhost%s/parts", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("introspection server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.logger.Info("Shutting down introspection server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("introspection server shutdown failed: %w", err)
	}
	a.logger.Debug("Introspection server shut down gracefully.")
	return nil
}
