package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/repository"
	"fintrack/internal/storage"
)

// fakeKV backs both the repository and the theme preference in memory.
type fakeKV struct {
	txns  []core.Transaction
	theme string
}

func (f *fakeKV) LoadTransactions(ctx context.Context) ([]core.Transaction, error) {
	return f.txns, nil
}

func (f *fakeKV) SaveTransactions(ctx context.Context, txns []core.Transaction) error {
	f.txns = txns
	return nil
}

func (f *fakeKV) Theme(ctx context.Context) (string, error) {
	if f.theme == "" {
		return storage.ThemeLight, nil
	}
	return f.theme, nil
}

func (f *fakeKV) SetTheme(ctx context.Context, theme string) error {
	f.theme = theme
	return nil
}

func newTestServer(t *testing.T, kv *fakeKV) *Server {
	t.Helper()
	repo := repository.New(kv)
	if err := repo.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	srv := NewServer(":0", repo, kv, "₹", 8)
	t.Cleanup(func() { srv.rateLimiter.stop() })
	return srv
}

func postForm(srv *Server, path string, form url.Values) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func get(srv *Server, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func validForm() url.Values {
	return url.Values{
		"description": {"Groceries"},
		"amount":      {"150.00"},
		"type":        {"expense"},
		"category":    {"food"},
		"date":        {"2024-03-05"},
	}
}

func TestIndexAndHealth(t *testing.T) {
	srv := newTestServer(t, &fakeKV{})

	rr := get(srv, "/")
	if rr.Code != http.StatusOK {
		t.Fatalf("index status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "FinTrack") {
		t.Fatal("index body missing heading")
	}
	if !strings.Contains(rr.Body.String(), `data-theme="light"`) {
		t.Fatal("index should carry the light theme by default")
	}

	for _, path := range []string{"/healthz", "/readyz"} {
		if rr := get(srv, path); rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}

	if rr := get(srv, "/nope"); rr.Code != http.StatusNotFound {
		t.Fatalf("unknown path status=%d", rr.Code)
	}
}

func TestCreateTransactionValidationAndSuccess(t *testing.T) {
	srv := newTestServer(t, &fakeKV{})

	rr := get(srv, "/transactions")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}

	cases := []struct {
		name  string
		mut   func(url.Values)
		wantC int
	}{
		{"bad amount", func(f url.Values) { f.Set("amount", "abc") }, 422},
		{"zero amount", func(f url.Values) { f.Set("amount", "0") }, 422},
		{"missing description", func(f url.Values) { f.Set("description", "  ") }, 422},
		{"bad date", func(f url.Values) { f.Set("date", "2024-13-01") }, 422},
		{"bad category", func(f url.Values) { f.Set("category", "misc") }, 422},
		{"bad type", func(f url.Values) { f.Set("type", "transfer") }, 422},
	}
	for _, tc := range cases {
		form := validForm()
		tc.mut(form)
		if rr := postForm(srv, "/transactions", form); rr.Code != tc.wantC {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.wantC, rr.Code)
		}
	}
	if got := len(srv.repo.All()); got != 0 {
		t.Fatalf("failed creates must not add transactions, have %d", got)
	}

	rr = postForm(srv, "/transactions", validForm())
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	trigger := rr.Header().Get("HX-Trigger")
	for _, want := range []string{"transaction:created", "form:reset", "show-notification", "refresh"} {
		if !strings.Contains(trigger, want) {
			t.Fatalf("HX-Trigger missing %s: %s", want, trigger)
		}
	}

	txns := srv.repo.All()
	if len(txns) != 1 {
		t.Fatalf("expected one transaction, have %d", len(txns))
	}
	if txns[0].Amount.Cents != -15000 {
		t.Fatalf("expense must be stored negative, got %d", txns[0].Amount.Cents)
	}
}

func TestUpdateAndDeleteTransaction(t *testing.T) {
	srv := newTestServer(t, &fakeKV{})

	postForm(srv, "/transactions", validForm())
	id := srv.repo.All()[0].ID

	form := validForm()
	form.Set("id", strconv.FormatInt(id, 10))
	form.Set("description", "Weekly groceries")
	form.Set("amount", "175.50")
	rr := postForm(srv, "/transactions/update", form)
	if rr.Code != http.StatusOK {
		t.Fatalf("update status=%d: %s", rr.Code, rr.Body.String())
	}
	got, _ := srv.repo.FindByID(id)
	if got.Description != "Weekly groceries" || got.Amount.Cents != -17550 {
		t.Fatalf("update not applied: %+v", got)
	}

	// Unknown id: silently accepted, nothing changes.
	form.Set("id", "999")
	if rr := postForm(srv, "/transactions/update", form); rr.Code != http.StatusOK {
		t.Fatalf("unknown id update status=%d", rr.Code)
	}

	del := url.Values{"id": {strconv.FormatInt(id, 10)}}
	rr = postForm(srv, "/transactions/delete", del)
	if rr.Code != http.StatusOK {
		t.Fatalf("delete status=%d", rr.Code)
	}
	if !strings.Contains(rr.Header().Get("HX-Trigger"), "transaction:deleted") {
		t.Fatal("delete should announce transaction:deleted")
	}
	if len(srv.repo.All()) != 0 {
		t.Fatal("transaction should be gone")
	}

	// Deleting again is a quiet no-op.
	rr = postForm(srv, "/transactions/delete", del)
	if rr.Code != http.StatusOK {
		t.Fatalf("repeat delete status=%d", rr.Code)
	}
	if strings.Contains(rr.Header().Get("HX-Trigger"), "transaction:deleted") {
		t.Fatal("repeat delete must not announce a deletion")
	}
}

func TestTransactionListFilter(t *testing.T) {
	srv := newTestServer(t, &fakeKV{})

	postForm(srv, "/transactions", validForm())
	income := validForm()
	income.Set("description", "Salary")
	income.Set("type", "income")
	income.Set("category", "salary")
	income.Set("amount", "50000")
	postForm(srv, "/transactions", income)

	rr := get(srv, "/ui/transactions?type=income")
	if rr.Code != http.StatusOK {
		t.Fatalf("list status=%d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Salary") || strings.Contains(body, "Groceries") {
		t.Fatalf("type filter not applied: %s", body)
	}

	rr = get(srv, "/ui/transactions?month=1999-01")
	if !strings.Contains(rr.Body.String(), "No transactions found") {
		t.Fatal("empty month should show the placeholder")
	}
}

func TestSummaryPartial(t *testing.T) {
	srv := newTestServer(t, &fakeKV{})
	income := validForm()
	income.Set("type", "income")
	income.Set("category", "salary")
	postForm(srv, "/transactions", income)

	rr := get(srv, "/ui/summary")
	if rr.Code != http.StatusOK {
		t.Fatalf("summary status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "₹150.00") {
		t.Fatalf("summary missing balance: %s", rr.Body.String())
	}
}

func TestChartEmptyMonthIsNoContent(t *testing.T) {
	srv := newTestServer(t, &fakeKV{})

	if rr := get(srv, "/chart.png"); rr.Code != http.StatusNoContent {
		t.Fatalf("empty chart status=%d", rr.Code)
	}

	form := validForm()
	form.Set("date", "2024-03-05")
	postForm(srv, "/transactions", form)
	rr := get(srv, "/chart.png?month=2024-03")
	if rr.Code != http.StatusOK {
		t.Fatalf("chart status=%d", rr.Code)
	}
	if got := rr.Header().Get("Content-Type"); got != "image/png" {
		t.Fatalf("chart content type = %s", got)
	}
}

func TestReport(t *testing.T) {
	srv := newTestServer(t, &fakeKV{})
	postForm(srv, "/transactions", validForm())

	rr := get(srv, "/report?month=2024-03")
	if rr.Code != http.StatusOK {
		t.Fatalf("report status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Groceries") {
		t.Fatal("report missing the month's transactions")
	}

	rr = get(srv, "/report?month=1999-01")
	if !strings.Contains(rr.Body.String(), "No transactions for this month") {
		t.Fatal("empty report should show the placeholder")
	}
}

func TestThemeToggle(t *testing.T) {
	kv := &fakeKV{}
	srv := newTestServer(t, kv)

	rr := postForm(srv, "/theme", url.Values{})
	if rr.Code != http.StatusOK {
		t.Fatalf("toggle status=%d", rr.Code)
	}
	if kv.theme != storage.ThemeDark {
		t.Fatalf("theme after first toggle = %q", kv.theme)
	}
	if !strings.Contains(rr.Header().Get("HX-Trigger"), "theme:changed") {
		t.Fatal("toggle should announce theme:changed")
	}

	postForm(srv, "/theme", url.Values{})
	if kv.theme != storage.ThemeLight {
		t.Fatalf("theme after second toggle = %q", kv.theme)
	}
}

func TestRateLimitOnPost(t *testing.T) {
	srv := newTestServer(t, &fakeKV{})

	var last int
	for i := 0; i < 61; i++ {
		last = postForm(srv, "/theme", url.Values{}).Code
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("61st POST status=%d, want 429", last)
	}
}
