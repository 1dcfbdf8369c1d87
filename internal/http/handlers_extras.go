package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"fintrack/internal/chart"
	"fintrack/internal/core"
	"fintrack/internal/report"
	"fintrack/internal/storage"
)

// handleChart renders the current-month category donut as a PNG. With no
// expense data there is nothing to draw and the client hides the panel.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	month := r.URL.Query().Get("month")
	if month == "" {
		month = time.Now().Format("2006-01")
	}

	txns := s.repo.All()
	totals := core.TopCategories(core.CategoryTotals(txns, core.ExpensesInMonth(month)), s.topN)

	png, err := chart.RenderCategoryDonut(totals)
	if err != nil {
		if errors.Is(err, chart.ErrNoData) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		slog.ErrorContext(r.Context(), "Chart render failed", "error", err, "month", month)
		http.Error(w, "chart render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

// handleReport serves the printable monthly report for the requested
// month, defaulting to the current one.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	month := r.URL.Query().Get("month")
	if month == "" {
		month = time.Now().Format("2006-01")
	}

	data := report.Build(s.repo.All(), month, s.symbol, time.Now())
	html, err := report.Generate(data)
	if err != nil {
		slog.ErrorContext(r.Context(), "Report generation failed", "error", err, "month", month)
		http.Error(w, "report generation failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(html)
}

// handleThemeToggle flips the persisted theme and tells the frontend to
// re-apply it.
func (s *Server) handleThemeToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	current, err := s.themes.Theme(r.Context())
	if err != nil {
		slog.WarnContext(r.Context(), "Theme load error, assuming light", "error", err)
		current = storage.ThemeLight
	}

	next := storage.ThemeDark
	if current == storage.ThemeDark {
		next = storage.ThemeLight
	}

	resp := newHXResponse().
		Trigger("theme:changed", map[string]string{"theme": next}).
		BodyHTML(next)
	if err := s.themes.SetTheme(r.Context(), next); err != nil {
		slog.WarnContext(r.Context(), "Theme persist failed", "error", err, "theme", next)
		resp.Notify(notifyWarning, "Theme applied for this session, but saving it failed")
	}
	resp.Write(r.Context(), w)
}
