package httpx

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/gamercart/pkg/logger"
)

// Module is one route group: a name for logs, the prefix it is mounted under
// and the factory that builds its handler.
type Module struct {
	Name   string
	Prefix string
	Build  func() (http.Handler, error)
}

// MountModules builds and mounts every module in order. A module whose
// factory returns an error or panics is logged and skipped; the remaining
// modules are still mounted. It returns the names of the mounted modules.
//
// Set the router's NotFound handler before calling so mounted sub-routers
// inherit it.
func MountModules(r chi.Router, log logger.Logger, modules []Module) []string {
	mounted := make([]string, 0, len(modules))
	for _, m := range modules {
		h, err := buildModule(m)
		if err != nil {
			log.Warn("route module unavailable", "module", m.Name, "prefix", m.Prefix, "error", err)
			continue
		}
		r.Mount(m.Prefix, h)
		mounted = append(mounted, m.Name)
	}
	log.Info("route modules mounted", "modules", mounted)
	return mounted
}

func buildModule(m Module) (h http.Handler, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("module %s panicked: %v", m.Name, p)
		}
	}()
	if m.Build == nil {
		return nil, fmt.Errorf("module %s has no factory", m.Name)
	}
	h, err = m.Build()
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, fmt.Errorf("module %s returned no handler", m.Name)
	}
	return h, nil
}
