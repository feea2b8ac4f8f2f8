package http

import (
	"errors"
	"log/slog"
	"net/http"

	"spendtrack/internal/auth"
)

// handleHome serves the landing page with login and registration forms.
// A visitor with a valid session goes straight to the dashboard.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w)
		return
	}

	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		if _, err := s.auth.Resolve(r.Context(), cookie.Value); err == nil {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		clearSessionCookie(w)
	}

	s.render(w, r, "home.html", nil)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	email := sanitizeInput(r.Form.Get("email"))
	displayName := sanitizeInput(r.Form.Get("display_name"))
	password := r.Form.Get("password")

	identity, token, err := s.auth.Register(r.Context(), email, displayName, password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidEmail):
			UnprocessableEntityError("Please enter a valid email address").Write(w)
		case errors.Is(err, auth.ErrWeakPassword):
			UnprocessableEntityError("Password must be at least 8 characters").Write(w)
		case errors.Is(err, auth.ErrEmailTaken):
			UnprocessableEntityError("An account with this email already exists").Write(w)
		default:
			slog.ErrorContext(r.Context(), "Registration failed", "error", err, "email", email)
			InternalServerError("Could not create the account").Write(w)
		}
		return
	}

	slog.InfoContext(r.Context(), "User registered", "uid", identity.UID, "email", identity.Email)
	setSessionCookie(w, token, s.sessionTTL)
	s.redirectAfterAuth(w, r)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	email := sanitizeInput(r.Form.Get("email"))
	password := r.Form.Get("password")

	identity, token, err := s.auth.SignIn(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			ErrorResponse(http.StatusUnauthorized, "Wrong email or password").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Sign-in failed", "error", err, "email", email)
		InternalServerError("Could not sign in").Write(w)
		return
	}

	slog.InfoContext(r.Context(), "User signed in", "uid", identity.UID)
	setSessionCookie(w, token, s.sessionTTL)
	s.redirectAfterAuth(w, r)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	clearSessionCookie(w)
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// redirectAfterAuth sends the browser to the dashboard. HTMX form posts
// need the HX-Redirect header instead of a 3xx it would swallow.
func (s *Server) redirectAfterAuth(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/dashboard")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
