package http

import (
	"fmt"
	"log/slog"
	"net/http"
)

// handleSettings renders the settings page: display name editing and the
// destructive delete-all section.
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w)
		return
	}
	identity, _ := identityFrom(r.Context())

	data := struct {
		Name  string
		Email string
	}{Name: identity.DisplayName, Email: identity.Email}
	s.render(w, r, "settings.html", data)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	identity, _ := identityFrom(r.Context())
	name := sanitizeInput(r.Form.Get("display_name"))
	if name == "" {
		UnprocessableEntityError("Display name cannot be empty").Write(w)
		return
	}

	if err := s.auth.UpdateDisplayName(r.Context(), identity.UID, name); err != nil {
		slog.ErrorContext(r.Context(), "Display name update failed", "error", err, "uid", identity.UID)
		InternalServerError("Could not update the profile").Write(w)
		return
	}

	slog.InfoContext(r.Context(), "Display name updated", "uid", identity.UID)

	NewHTMXResponse().
		TriggerSuccessNotification("Profile updated").
		Write(w)
}

// handleDeleteAll purges every expense and budget the user owns. Partial
// failures report how many records survived so the user can retry.
func (s *Server) handleDeleteAll(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	if r.Form.Get("confirm") != "delete" {
		UnprocessableEntityError(`Type "delete" to confirm`).Write(w)
		return
	}

	identity, _ := identityFrom(r.Context())

	result, err := s.settings.DeleteAllUserData(r.Context(), identity.UID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Data purge failed", "error", err, "uid", identity.UID)
		InternalServerError("Could not delete your data").Write(w)
		return
	}

	// Every month partition may be stale after a purge.
	s.invalidateUser(identity.UID)

	if result.Failed() {
		slog.WarnContext(r.Context(), "Data purge incomplete",
			"uid", identity.UID,
			"expenses_deleted", result.ExpensesDeleted,
			"budgets_deleted", result.BudgetsDeleted,
			"failed", len(result.FailedKeys))
		NewHTMXResponse().
			TriggerWarningNotification(fmt.Sprintf("Deleted %d expenses and %d budgets, but %d records could not be removed. Run it again to retry.",
				result.ExpensesDeleted, result.BudgetsDeleted, len(result.FailedKeys))).
			Write(w)
		return
	}

	slog.InfoContext(r.Context(), "Data purged",
		"uid", identity.UID,
		"expenses_deleted", result.ExpensesDeleted,
		"budgets_deleted", result.BudgetsDeleted)

	NewHTMXResponse().
		TriggerSuccessNotification(fmt.Sprintf("Deleted %d expenses and %d budgets", result.ExpensesDeleted, result.BudgetsDeleted)).
		Write(w)
}
