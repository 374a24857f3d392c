package webserver

import (
	"context"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

const shutdownTimeout = 10 * time.Second

type Manager struct {
	r          *mux.Router
	addr       string
	onShutdown []func()
}

func NewManager(addr string) *Manager {
	return &Manager{
		r:    mux.NewRouter(),
		addr: addr,
	}
}

func (m *Manager) Router() *mux.Router {
	return m.r
}

// RegisterOnShutdown adds f to the functions run when the server shuts down.
// Handlers that hijack their connection (websockets) use it to stop.
func (m *Manager) RegisterOnShutdown(f func()) {
	m.onShutdown = append(m.onShutdown, f)
}

func (m *Manager) Debug() {
	_ = m.r.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}
		methods, err := route.GetMethods()
		if err != nil {
			methods = []string{"ANY"}
		}
		queries, _ := route.GetQueriesTemplates()
		log.Printf("route %s %s %s\n", strings.Join(methods, ","), pathTemplate, strings.Join(queries, ","))
		return nil
	})
}

// Serve binds the configured address and serves until ctx is done, then
// shuts the server down gracefully.
func (m *Manager) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", m.addr)
	if err != nil {
		return errors.Wrapf(err, "listening on %s", m.addr)
	}
	return m.serve(ctx, ln)
}

func (m *Manager) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		WriteTimeout: time.Second * 15,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      m.r,
	}
	for _, f := range m.onShutdown {
		srv.RegisterOnShutdown(f)
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("webserver listening on %s\n", ln.Addr())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return errors.Wrap(err, "serving http")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Println("webserver shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutting down http")
	}
	return nil
}
