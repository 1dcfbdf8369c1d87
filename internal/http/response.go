package http

import (
	"context"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
)

// notifyType selects the toast style shown by the frontend.
type notifyType string

const (
	notifySuccess notifyType = "success"
	notifyError   notifyType = "error"
	notifyWarning notifyType = "warning"
)

// hxResponse builds HTMX responses: HX-Trigger headers, status code and
// an optional HTML body.
type hxResponse struct {
	triggers   map[string]any
	statusCode int
	body       []byte
	headers    map[string]string
}

func newHXResponse() *hxResponse {
	return &hxResponse{
		triggers:   make(map[string]any),
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *hxResponse) Status(code int) *hxResponse {
	b.statusCode = code
	return b
}

// Trigger adds a named trigger with optional data to the HX-Trigger header.
func (b *hxResponse) Trigger(name string, data any) *hxResponse {
	b.triggers[name] = data
	return b
}

// Notify adds a show-notification trigger. Error toasts linger longer
// than success ones.
func (b *hxResponse) Notify(typ notifyType, message string) *hxResponse {
	duration := 3000
	if typ == notifyError || typ == notifyWarning {
		duration = 5000
	}
	b.Trigger("show-notification", map[string]any{
		"type":     string(typ),
		"message":  message,
		"duration": duration,
	})
	if typ == notifyError {
		b.body = []byte(`<div class="error">` + template.HTMLEscapeString(message) + `</div>`)
		b.headers["Content-Type"] = "text/html; charset=utf-8"
	}
	return b
}

// Header adds a custom header to the response.
func (b *hxResponse) Header(name, value string) *hxResponse {
	b.headers[name] = value
	return b
}

// BodyHTML sets the response body as HTML content.
func (b *hxResponse) BodyHTML(html string) *hxResponse {
	b.headers["Content-Type"] = "text/html; charset=utf-8"
	b.body = []byte(html)
	return b
}

// Write sends the built response.
func (b *hxResponse) Write(ctx context.Context, w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}

	if len(b.triggers) > 0 {
		triggerJSON, err := json.Marshal(b.triggers)
		if err != nil {
			slog.ErrorContext(ctx, "Marshal HX-Trigger failed", "error", err)
		} else {
			w.Header().Set("HX-Trigger", string(triggerJSON))
		}
	}

	w.WriteHeader(b.statusCode)
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}
