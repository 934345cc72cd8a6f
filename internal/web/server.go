// Package web serves the appliance status over HTTP.
package web

import (
	"context"
	"net/http"

	"github.com/sweeney/seg-clock/internal/status"
)

// Server renders tracker snapshots as an HTML page, the full JSON status and
// a small clock-only JSON document for display mirrors.
type Server struct {
	srv     *http.Server
	tracker *status.Tracker
}

// New creates a Server for addr. Nothing listens until ListenAndServe.
func New(addr string, tracker *status.Tracker) *Server {
	s := &Server{tracker: tracker}

	mux := http.NewServeMux()
	mux.Handle("/", readOnly(s.handleIndex))
	mux.Handle("/index.json", readOnly(s.handleJSON))
	mux.Handle("/clock.json", readOnly(s.handleClock))

	s.srv = &http.Server{Addr: addr, Handler: mux}
	return s
}

func (s *Server) ListenAndServe() error             { return s.srv.ListenAndServe() }
func (s *Server) Shutdown(ctx context.Context) error { return s.srv.Shutdown(ctx) }
func (s *Server) Handler() http.Handler              { return s.srv.Handler }

// readOnly rejects anything but GET and HEAD and marks responses uncacheable.
func readOnly(h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		h(w, r)
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, s.tracker.Snapshot())
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(s.tracker.Snapshot()))
}

func (s *Server) handleClock(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatClockJSON(s.tracker.Snapshot()))
}
