package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"spendtrack/internal/core"
)

// handleProfile renders the profile page with the historical spend chart
// loading as a partial.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w)
		return
	}
	identity, _ := identityFrom(r.Context())

	start, end := summaryRange(r.URL.Query())
	data := struct {
		Name       string
		Email      string
		PhotoURL   string
		Start      string
		End        string
		StartLabel string
		EndLabel   string
	}{
		Name:       identity.DisplayName,
		Email:      identity.Email,
		PhotoURL:   identity.PhotoURL,
		Start:      start,
		End:        end,
		StartLabel: core.MonthLabel(start),
		EndLabel:   core.MonthLabel(end),
	}
	s.render(w, r, "profile.html", data)
}

// handleMonthSummary renders the per-month totals bar chart over an
// inclusive month range.
func (s *Server) handleMonthSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	identity, _ := identityFrom(r.Context())
	start, end := summaryRange(r.URL.Query())

	totals, err := s.summary.MonthlyTotals(r.Context(), identity.UID, start, end)
	if err != nil {
		slog.ErrorContext(r.Context(), "Month summary error", "error", err, "uid", identity.UID, "start", start, "end", end)
		_, _ = w.Write([]byte(`<section id="month-summary" class="month-summary"><div class="placeholder">Could not load the summary</div></section>`))
		return
	}

	var maxCents int64
	for _, t := range totals {
		if t.Total.Cents > maxCents {
			maxCents = t.Total.Cents
		}
	}

	type bar struct {
		Month  string
		Label  string
		Amount string
		Width  int
	}
	data := struct {
		Start string
		End   string
		Empty bool
		Bars  []bar
	}{Start: start, End: end, Empty: len(totals) == 0}

	for _, t := range totals {
		width := 0
		if maxCents > 0 && t.Total.Cents > 0 {
			width = int((t.Total.Cents*100 + maxCents/2) / maxCents)
			if width < 2 {
				width = 2
			}
			if width > 100 {
				width = 100
			}
		}
		data.Bars = append(data.Bars, bar{
			Month:  t.Month,
			Label:  core.MonthLabel(t.Month),
			Amount: formatEuros(t.Total.Cents),
			Width:  width,
		})
	}

	s.render(w, r, "month_summary.html", data)
}

// summaryRange reads start/end month keys from the query, defaulting to
// January of the current year through the current month.
func summaryRange(query url.Values) (string, string) {
	now := time.Now()
	start := core.MonthKey(time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC))
	end := core.MonthKey(now)

	if v := strings.TrimSpace(query.Get("start")); core.ValidMonthKey(v) {
		start = v
	}
	if v := strings.TrimSpace(query.Get("end")); core.ValidMonthKey(v) {
		end = v
	}
	return start, end
}
