// Package http serves the finance tracker UI: the index page, HTMX
// partials for the summary and transaction list, the category chart, the
// printable report and the theme toggle.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/repository"
	appweb "fintrack/web"
)

// ThemeStore persists the light/dark preference.
type ThemeStore interface {
	Theme(ctx context.Context) (string, error)
	SetTheme(ctx context.Context, theme string) error
}

type Server struct {
	http.Server
	templates   *template.Template
	repo        *repository.Repository
	themes      ThemeStore
	symbol      string
	topN        int
	rateLimiter *rateLimiter

	// Previous balance snapshot for the trend indicator. Written on every
	// summary render; the first render baselines against the loaded
	// balance so a fresh session starts neutral.
	trendMu     sync.Mutex
	prevBalance int64
	trendPrimed bool

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run
// http.Server.
func NewServer(addr string, repo *repository.Repository, themes ThemeStore, symbol string, topN int) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		repo:        repo,
		themes:      themes,
		symbol:      symbol,
		topN:        topN,
		rateLimiter: newRateLimiter(),
	}

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/", s.withSecurityHeaders(s.handleIndex))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	mux.HandleFunc("/transactions", s.withSecurityHeaders(s.handleCreateTransaction))
	mux.HandleFunc("/transactions/update", s.withSecurityHeaders(s.handleUpdateTransaction))
	mux.HandleFunc("/transactions/delete", s.withSecurityHeaders(s.handleDeleteTransaction))
	// UI partials
	mux.HandleFunc("/ui/summary", s.withSecurityHeaders(s.handleSummary))
	mux.HandleFunc("/ui/transactions", s.withSecurityHeaders(s.handleTransactionList))
	mux.HandleFunc("/ui/months", s.withSecurityHeaders(s.handleMonthOptions))
	mux.HandleFunc("/chart.png", s.withSecurityHeaders(s.handleChart))
	mux.HandleFunc("/report", s.withSecurityHeaders(s.handleReport))
	mux.HandleFunc("/theme", s.withSecurityHeaders(s.handleThemeToggle))

	return s
}

// Shutdown stops the rate limiter cleanup goroutine before shutting down
// the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	theme, err := s.themes.Theme(r.Context())
	if err != nil {
		slog.WarnContext(r.Context(), "Theme load error, using light", "error", err)
		theme = "light"
	}

	now := time.Now()
	filter := filterFromRequest(r)
	data := struct {
		Theme      string
		Today      string
		Categories []categoryOption
		Summary    summaryData
		List       listData
		Months     monthsData
	}{
		Theme:      theme,
		Today:      now.Format("2006-01-02"),
		Categories: categoryOptions(),
		Summary:    s.summaryData(now),
		List:       s.listData(filter),
		Months:     s.monthsData(filter.Month),
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type categoryOption struct {
	Value string
	Label string
}

func categoryOptions() []categoryOption {
	cats := core.Categories()
	out := make([]categoryOption, len(cats))
	for i, c := range cats {
		out[i] = categoryOption{Value: string(c), Label: c.Title()}
	}
	return out
}

func filterFromRequest(r *http.Request) core.Filter {
	f := core.Filter{Type: core.FilterAll, Month: core.FilterAll}
	if v := r.URL.Query().Get("type"); v != "" {
		f.Type = v
	}
	if v := r.URL.Query().Get("month"); v != "" {
		f.Month = v
	}
	return f
}
