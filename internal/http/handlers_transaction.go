package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/repository"
)

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		newHXResponse().Status(http.StatusBadRequest).
			Notify(notifyError, "Invalid request format").
			Write(r.Context(), w)
		return
	}

	draft, err := draftFromForm(r)
	if err != nil {
		newHXResponse().Status(http.StatusUnprocessableEntity).
			Notify(notifyError, validationMessage(err)).
			Write(r.Context(), w)
		return
	}

	txn, err := s.repo.Add(r.Context(), draft)
	if err != nil && !isStorageFailure(err) {
		newHXResponse().Status(http.StatusUnprocessableEntity).
			Notify(notifyError, validationMessage(err)).
			Write(r.Context(), w)
		return
	}

	resp := newHXResponse().
		Trigger("transaction:created", map[string]int64{"id": txn.ID}).
		Trigger("form:reset", struct{}{}).
		Trigger("refresh", struct{}{})
	if err != nil {
		// Persisted state is behind the in-memory list; the session keeps
		// working and the user gets a warning instead of a failure.
		slog.WarnContext(r.Context(), "Transaction added but not persisted", "error", err, "id", txn.ID)
		resp.Notify(notifyWarning, "Saved for this session, but writing to disk failed")
	} else {
		resp.Notify(notifySuccess, "Transaction added successfully!")
	}
	resp.Write(r.Context(), w)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		newHXResponse().Status(http.StatusBadRequest).
			Notify(notifyError, "Invalid request format").
			Write(r.Context(), w)
		return
	}

	id, err := strconv.ParseInt(strings.TrimSpace(r.Form.Get("id")), 10, 64)
	if err != nil {
		newHXResponse().Status(http.StatusBadRequest).
			Notify(notifyError, "Missing transaction id").
			Write(r.Context(), w)
		return
	}

	fields, err := fieldsFromForm(r)
	if err != nil {
		newHXResponse().Status(http.StatusUnprocessableEntity).
			Notify(notifyError, validationMessage(err)).
			Write(r.Context(), w)
		return
	}

	found, err := s.repo.Update(r.Context(), id, fields)
	if err != nil && !isStorageFailure(err) {
		newHXResponse().Status(http.StatusUnprocessableEntity).
			Notify(notifyError, validationMessage(err)).
			Write(r.Context(), w)
		return
	}

	resp := newHXResponse().Trigger("refresh", struct{}{})
	switch {
	case err != nil:
		slog.WarnContext(r.Context(), "Transaction updated but not persisted", "error", err, "id", id)
		resp.Notify(notifyWarning, "Saved for this session, but writing to disk failed")
	case !found:
		// Editing an already-deleted record is deliberately ignored.
		slog.InfoContext(r.Context(), "Update for unknown id ignored", "id", id)
	default:
		resp.Notify(notifySuccess, "Transaction updated successfully!")
	}
	resp.Write(r.Context(), w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		w.Header().Set("Allow", "POST, DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		newHXResponse().Status(http.StatusBadRequest).
			Notify(notifyError, "Invalid request format").
			Write(r.Context(), w)
		return
	}

	id, err := strconv.ParseInt(strings.TrimSpace(r.Form.Get("id")), 10, 64)
	if err != nil {
		newHXResponse().Status(http.StatusBadRequest).
			Notify(notifyError, "Missing transaction id").
			Write(r.Context(), w)
		return
	}

	found, err := s.repo.Remove(r.Context(), id)
	resp := newHXResponse().Trigger("refresh", struct{}{})
	switch {
	case err != nil:
		slog.WarnContext(r.Context(), "Transaction removed but not persisted", "error", err, "id", id)
		resp.Notify(notifyWarning, "Removed for this session, but writing to disk failed")
	case found:
		resp.Trigger("transaction:deleted", map[string]int64{"id": id}).
			Notify(notifySuccess, "Transaction deleted successfully!")
	}
	resp.Write(r.Context(), w)
}

func (s *Server) handleTransactionList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "transactions", s.listData(filterFromRequest(r))); err != nil {
		slog.ErrorContext(r.Context(), "Transaction list template failed", "error", err)
		_, _ = w.Write([]byte(`<div class="placeholder">Error rendering transactions</div>`))
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "summary", s.summaryData(time.Now())); err != nil {
		slog.ErrorContext(r.Context(), "Summary template failed", "error", err)
		_, _ = w.Write([]byte(`<div class="placeholder">Error rendering summary</div>`))
	}
}

func (s *Server) handleMonthOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	selected := r.URL.Query().Get("month")
	if err := s.templates.ExecuteTemplate(w, "month_options", s.monthsData(selected)); err != nil {
		slog.ErrorContext(r.Context(), "Month options template failed", "error", err)
	}
}

// draftFromForm validates and converts the add form. Sign handling
// mirrors the repository contract: the form carries a positive magnitude
// and an explicit type.
func draftFromForm(r *http.Request) (repository.Draft, error) {
	desc := sanitizeInput(r.Form.Get("description"))
	if desc == "" {
		return repository.Draft{}, core.ErrEmptyDescription
	}
	cents, err := core.ParseDecimalToCents(r.Form.Get("amount"))
	if err != nil {
		return repository.Draft{}, err
	}
	date, err := core.ParseDate(r.Form.Get("date"))
	if err != nil {
		return repository.Draft{}, err
	}
	category := core.Category(strings.TrimSpace(r.Form.Get("category")))
	if !category.Valid() {
		return repository.Draft{}, core.ErrUnknownCategory
	}
	typ := core.TxnType(strings.TrimSpace(r.Form.Get("type")))
	if typ != core.TypeIncome && typ != core.TypeExpense {
		return repository.Draft{}, core.ErrInvalidAmount
	}
	return repository.Draft{
		Description: desc,
		AmountCents: cents,
		Date:        date,
		Category:    category,
		Type:        typ,
	}, nil
}

func fieldsFromForm(r *http.Request) (repository.Fields, error) {
	desc := sanitizeInput(r.Form.Get("description"))
	if desc == "" {
		return repository.Fields{}, core.ErrEmptyDescription
	}
	cents, err := core.ParseDecimalToCents(r.Form.Get("amount"))
	if err != nil {
		return repository.Fields{}, err
	}
	date, err := core.ParseDate(r.Form.Get("date"))
	if err != nil {
		return repository.Fields{}, err
	}
	category := core.Category(strings.TrimSpace(r.Form.Get("category")))
	if !category.Valid() {
		return repository.Fields{}, core.ErrUnknownCategory
	}
	return repository.Fields{
		Description: desc,
		AmountCents: cents,
		Date:        date,
		Category:    category,
	}, nil
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrEmptyDescription):
		return "Please fill in all fields"
	case errors.Is(err, core.ErrInvalidDate):
		return "Please provide a valid date"
	case errors.Is(err, core.ErrInvalidAmount):
		return "Amount must be greater than 0"
	case errors.Is(err, core.ErrUnknownCategory):
		return "Please pick a category"
	default:
		return "Invalid data: " + err.Error()
	}
}

// isStorageFailure distinguishes persist errors (state already changed,
// warn and continue) from validation errors (nothing happened, reject).
func isStorageFailure(err error) bool {
	return errors.Is(err, repository.ErrPersist)
}
