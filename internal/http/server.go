// Package http wires the web surface: dashboard, entry mutation and,
// in multi-tenant mode, login/registration. Handlers stay synchronous,
// one request loads the ledger, mutates it in memory and writes it
// back; there is no cross-request state beyond the session store.
package http

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"financas/internal/auth"
	"financas/internal/charts"
	"financas/internal/config"
	"financas/internal/ledger"
	applog "financas/internal/log"
	"financas/web"
)

type contextKey string

const sessionKey contextKey = "session"

// Server serves the ledger web app. Gateway is nil in single-tenant
// mode, which removes the auth routes and pins every request to the
// default account.
type Server struct {
	http.Server
	templates      *template.Template
	store          *ledger.Store
	renderer       *charts.Renderer
	gateway        auth.Gateway
	defaultAccount string
	logger         *applog.Logger
	now            func() time.Time
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(cfg *config.Config, store *ledger.Store, renderer *charts.Renderer, gateway auth.Gateway, logger *applog.Logger) (*Server, error) {
	s := &Server{
		store:          store,
		renderer:       renderer,
		gateway:        gateway,
		defaultAccount: cfg.DefaultAccount,
		logger:         logger.WithComponent(applog.ComponentHTTP),
		now:            time.Now,
	}

	funcs := template.FuncMap{
		"money": func(d decimal.Decimal) string { return "R$ " + d.StringFixed(2) },
	}
	t, err := template.New("").Funcs(funcs).ParseFS(web.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	s.templates = t

	r := chi.NewRouter()
	r.Use(s.requestLog)
	r.Use(securityHeaders)

	// Chart images are written to disk at request time, so they are
	// served from the directory, not from an embedded FS.
	static := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
	r.Get("/static/*", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		static.ServeHTTP(w, req)
	})

	if s.gateway != nil {
		r.Group(func(pr chi.Router) {
			pr.Use(s.withSession)

			pr.Get("/login", s.handleLoginPage)
			pr.Post("/login", s.handleLogin)
			pr.Get("/logout", s.handleLogout)
			pr.Get("/register", s.handleRegisterPage)
			pr.Post("/register", s.handleRegister)

			pr.Group(func(ar chi.Router) {
				ar.Use(s.requireSession)
				ar.Get("/", s.handleDashboard)
				ar.Post("/", s.handleAddEntry)
				ar.Post("/delete/{position}", s.handleDelete)
			})
		})
	} else {
		r.Get("/", s.handleDashboard)
		r.Post("/", s.handleAddEntry)
		r.Post("/delete/{position}", s.handleDelete)
	}

	s.Server = http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}
	return s, nil
}

// account resolves which ledger the request operates on.
func (s *Server) account(r *http.Request) string {
	if sess, ok := r.Context().Value(sessionKey).(*auth.Session); ok {
		return sess.Account
	}
	return s.defaultAccount
}

// session returns the authenticated session, if any.
func (s *Server) session(r *http.Request) *auth.Session {
	sess, _ := r.Context().Value(sessionKey).(*auth.Session)
	return sess
}

// withSession resolves the session cookie into the request context.
// Invalid or expired sessions clear the cookie and continue anonymous.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(auth.CookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		sess, err := s.gateway.SessionByToken(r.Context(), cookie.Value)
		if err != nil {
			clearSessionCookie(w)
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireSession redirects anonymous requests to the login page.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.session(r) == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func setSessionCookie(w http.ResponseWriter, sess *auth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   auth.CookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}
