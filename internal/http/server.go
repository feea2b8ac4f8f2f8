// Package http provides the web server: authenticated pages, HTMX
// partials and the write endpoints for expenses and budgets.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"spendtrack/internal/auth"
	"spendtrack/internal/cache"
	"spendtrack/internal/core"
	"spendtrack/internal/services"
	"spendtrack/internal/storage"
	appweb "spendtrack/web"
)

// ExpenseAPI is the slice of the expense service the handlers use.
type ExpenseAPI interface {
	Add(ctx context.Context, uid string, in services.ExpenseInput) (core.Expense, error)
	Update(ctx context.Context, uid, id string, in services.ExpenseInput) (core.Expense, string, error)
	Delete(ctx context.Context, uid, id string) error
	ListMonth(ctx context.Context, uid, month string) ([]core.Expense, error)
	Search(ctx context.Context, uid string, filter core.Filter) ([]core.Expense, error)
}

// BudgetAPI reconciles and sets monthly budgets.
type BudgetAPI interface {
	Reconcile(ctx context.Context, uid, month string) (core.BudgetState, error)
	Set(ctx context.Context, uid, month, amount string) (core.Budget, error)
}

// SummaryAPI computes totals across a month range.
type SummaryAPI interface {
	MonthlyTotals(ctx context.Context, uid, start, end string) ([]services.MonthTotal, error)
}

// AuthAPI is the session surface: registration, sign-in and token resolution.
type AuthAPI interface {
	Register(ctx context.Context, email, displayName, password string) (auth.Identity, string, error)
	SignIn(ctx context.Context, email, password string) (auth.Identity, string, error)
	Resolve(ctx context.Context, token string) (auth.Identity, error)
	UpdateDisplayName(ctx context.Context, uid, displayName string) error
}

// SettingsStore is the destructive maintenance surface.
type SettingsStore interface {
	DeleteAllUserData(ctx context.Context, uid string) (storage.PurgeResult, error)
}

type Server struct {
	http.Server
	templates *template.Template

	expenses ExpenseAPI
	budgets  BudgetAPI
	summary  SummaryAPI
	auth     AuthAPI
	settings SettingsStore

	sessionTTL  time.Duration
	rateLimiter *rateLimiter

	// Per-(uid,month) view caches, invalidated on writes.
	stateCache *cache.LRU[core.BudgetState]
	listCache  *cache.LRU[[]core.Expense]
	janitor    *cache.Janitor

	shutdownOnce sync.Once
}

// NewServer wires routes, templates and caches into a ready-to-run server.
func NewServer(addr string, exp ExpenseAPI, bud BudgetAPI, sum SummaryAPI, authSvc AuthAPI, settings SettingsStore, sessionTTL time.Duration) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		expenses:    exp,
		budgets:     bud,
		summary:     sum,
		auth:        authSvc,
		settings:    settings,
		sessionTTL:  sessionTTL,
		rateLimiter: newRateLimiter(),
		stateCache:  cache.NewLRU[core.BudgetState](200, 5*time.Minute),
		listCache:   cache.NewLRU[[]core.Expense](200, 5*time.Minute),
		janitor:     cache.NewJanitor(),
	}

	s.janitor.Register(s.stateCache)
	s.janitor.Register(s.listCache)
	s.janitor.Start(10 * time.Minute)

	t, err := template.New("").Funcs(templateFuncs()).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	// Public pages.
	mux.HandleFunc("/", s.guard(s.handleHome))
	mux.HandleFunc("/auth/register", s.guard(s.handleRegister))
	mux.HandleFunc("/auth/login", s.guard(s.handleLogin))
	mux.HandleFunc("/auth/logout", s.guard(s.handleLogout))

	// Authenticated pages and partials.
	mux.HandleFunc("/dashboard", s.guard(s.requireSession(s.handleDashboard)))
	mux.HandleFunc("/ui/budget-card", s.guard(s.requireSession(s.handleBudgetCard)))
	mux.HandleFunc("/ui/expense-list", s.guard(s.requireSession(s.handleExpenseList)))
	mux.HandleFunc("/ui/expense-search", s.guard(s.requireSession(s.handleExpenseSearch)))
	mux.HandleFunc("/ui/month-summary", s.guard(s.requireSession(s.handleMonthSummary)))

	mux.HandleFunc("/budget", s.guard(s.requireSession(s.handleSetBudget)))
	mux.HandleFunc("/expenses", s.guard(s.requireSession(s.handleCreateExpense)))
	mux.HandleFunc("/expenses/", s.guard(s.requireSession(s.handleExpenseByID)))

	mux.HandleFunc("/profile", s.guard(s.requireSession(s.handleProfile)))
	mux.HandleFunc("/settings", s.guard(s.requireSession(s.handleSettings)))
	mux.HandleFunc("/settings/profile", s.guard(s.requireSession(s.handleUpdateProfile)))
	mux.HandleFunc("/settings/delete-all", s.guard(s.requireSession(s.handleDeleteAll)))

	return s
}

// Shutdown stops background routines before draining the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.janitor.Stop()
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) invalidateMonth(uid, month string) {
	key := cache.Key(uid, month)
	s.stateCache.Delete(key)
	s.listCache.Delete(key)
}

func (s *Server) invalidateUser(uid string) {
	s.stateCache.DeletePrefix(uid + ":")
	s.listCache.DeletePrefix(uid + ":")
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed", "error", err, "template", name)
		http.Error(w, "rendering failed", http.StatusInternalServerError)
	}
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"euros":      func(m core.Money) string { return formatEuros(m.Cents) },
		"eurosCents": formatEuros,
		"monthLabel": core.MonthLabel,
	}
}
