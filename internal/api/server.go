// Package api exposes finished analysis artifacts over HTTP. The server is
// read-only: it lists and serves the JSON reports and renders the Markdown
// summary as HTML.
package api

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"semdrift/internal"
)

// Server serves analysis artifacts from an output directory.
type Server struct {
	router    *chi.Mux
	outputDir string
	logger    *internal.Logger
}

// NewServer creates a server rooted at outputDir.
func NewServer(outputDir string) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		outputDir: outputDir,
		logger:    internal.DefaultLogger.WithStage("server"),
	}
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/api/reports", s.handleListReports)
	s.router.Get("/api/reports/{name}", s.handleGetReport)
	s.router.Get("/summary", s.handleSummary)

	return s
}

// Handler returns the HTTP handler for mounting or serving.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the server on the given port.
func (s *Server) ListenAndServe(port string) error {
	addr := ":" + port
	s.logger.Info("report server listening on %s (artifacts: %s)", addr, s.outputDir)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(s.outputDir)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "output directory unreadable"})
		return
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	writeJSON(w, http.StatusOK, map[string]interface{}{"reports": names})
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name != filepath.Base(name) || strings.Contains(name, "..") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid report name"})
		return
	}

	data, err := os.ReadFile(filepath.Join(s.outputDir, name+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "report not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "report unreadable"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(filepath.Join(s.outputDir, "summary.md"))
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "summary not found", http.StatusNotFound)
			return
		}
		http.Error(w, "summary unreadable", http.StatusInternalServerError)
		return
	}

	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	html := markdown.ToHTML(data, p, renderer)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(html)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
