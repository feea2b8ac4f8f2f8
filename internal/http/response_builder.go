package http

import (
	"encoding/json"
	"html/template"
	"net/http"
)

// HTMXResponse builds HX-Trigger headers and response bodies with a
// fluent API so handlers stay readable.
type HTMXResponse struct {
	triggers   map[string]any
	statusCode int
	body       []byte
	headers    map[string]string
}

func NewHTMXResponse() *HTMXResponse {
	return &HTMXResponse{
		triggers:   make(map[string]any),
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

func (b *HTMXResponse) Status(code int) *HTMXResponse {
	b.statusCode = code
	return b
}

func (b *HTMXResponse) Trigger(name string, data any) *HTMXResponse {
	b.triggers[name] = data
	return b
}

// TriggerMonthChanged tells listening partials to reload a month partition.
func (b *HTMXResponse) TriggerMonthChanged(month string) *HTMXResponse {
	return b.Trigger("month:changed", map[string]string{"month": month})
}

// TriggerExpenseSaved fires after a create or update. Both the old and the
// new month partition may need a refresh when an edit moved the record.
func (b *HTMXResponse) TriggerExpenseSaved(months ...string) *HTMXResponse {
	return b.Trigger("expense:saved", map[string][]string{"months": months})
}

func (b *HTMXResponse) TriggerExpenseDeleted(month string) *HTMXResponse {
	return b.Trigger("expense:deleted", map[string]string{"month": month})
}

func (b *HTMXResponse) TriggerBudgetSet(month string) *HTMXResponse {
	return b.Trigger("budget:set", map[string]string{"month": month})
}

func (b *HTMXResponse) TriggerFormReset() *HTMXResponse {
	return b.Trigger("form:reset", struct{}{})
}

// NotificationType selects the toast style on the client.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
	NotificationWarning NotificationType = "warning"
)

func (b *HTMXResponse) TriggerNotification(kind NotificationType, message string, durationMs int) *HTMXResponse {
	return b.Trigger("show-notification", map[string]any{
		"type":     string(kind),
		"message":  message,
		"duration": durationMs,
	})
}

func (b *HTMXResponse) TriggerSuccessNotification(message string) *HTMXResponse {
	return b.TriggerNotification(NotificationSuccess, message, 3000)
}

func (b *HTMXResponse) TriggerErrorNotification(message string) *HTMXResponse {
	return b.TriggerNotification(NotificationError, message, 5000)
}

func (b *HTMXResponse) TriggerWarningNotification(message string) *HTMXResponse {
	return b.TriggerNotification(NotificationWarning, message, 5000)
}

func (b *HTMXResponse) Header(name, value string) *HTMXResponse {
	b.headers[name] = value
	return b
}

func (b *HTMXResponse) BodyHTML(html string) *HTMXResponse {
	b.headers["Content-Type"] = "text/html; charset=utf-8"
	b.body = []byte(html)
	return b
}

// Write sends the built response.
func (b *HTMXResponse) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}

	if len(b.triggers) > 0 {
		if triggerJSON, err := json.Marshal(b.triggers); err == nil {
			w.Header().Set("HX-Trigger", string(triggerJSON))
		}
	}

	w.WriteHeader(b.statusCode)
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}

// ErrorResponse renders an HTML-escaped error fragment.
func ErrorResponse(statusCode int, message string) *HTMXResponse {
	escaped := template.HTMLEscapeString(message)
	return NewHTMXResponse().
		Status(statusCode).
		BodyHTML(`<div class="error">` + escaped + `</div>`)
}

func BadRequestError(message string) *HTMXResponse {
	return ErrorResponse(http.StatusBadRequest, message)
}

func UnprocessableEntityError(message string) *HTMXResponse {
	return ErrorResponse(http.StatusUnprocessableEntity, message)
}

func InternalServerError(message string) *HTMXResponse {
	return ErrorResponse(http.StatusInternalServerError, message)
}

func NotFoundError(message string) *HTMXResponse {
	return ErrorResponse(http.StatusNotFound, message)
}

func ForbiddenError(message string) *HTMXResponse {
	return ErrorResponse(http.StatusForbidden, message)
}

func MethodNotAllowedError(allowedMethods string) *HTMXResponse {
	return NewHTMXResponse().
		Status(http.StatusMethodNotAllowed).
		Header("Allow", allowedMethods)
}
