package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"financas/internal/auth"
	"financas/internal/core"
	applog "financas/internal/log"
	"financas/internal/report"
)

// dashboardData feeds index.html.
type dashboardData struct {
	Entries      []report.Row
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Balance      decimal.Decimal
	Graph1URL    string
	Graph2URL    string

	Months       []string
	Responsibles []string
	Categories   []string

	SelectedMonth       string
	SelectedResponsible string
	SelectedCategory    string

	Username    string
	AuthEnabled bool
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	account := s.account(r)

	table, err := s.store.Load(ctx, account)
	if err != nil {
		s.logger.ErrorContext(ctx, "Ledger load failed", applog.FieldAccount, account, applog.FieldError, err)
		http.Error(w, "erro ao carregar o livro de registros", http.StatusInternalServerError)
		return
	}

	rows := report.Normalize(table)
	opts := report.Options(rows)

	filters := report.Filters{
		Month:       r.URL.Query().Get("filtro_mes"),
		Responsible: r.URL.Query().Get("filtro_responsavel"),
		Category:    r.URL.Query().Get("filtro_categoria"),
	}
	filtered := report.Apply(rows, filters)
	summary := report.Summarize(filtered)

	// Single-tenant charts carry no owner suffix; the timestamp alone
	// busts the browser cache.
	owner := ""
	if s.gateway != nil {
		owner = account
	}
	graph1, err := s.renderer.RenderCategoryChart(summary.SpendByCategory, owner)
	if err != nil {
		s.logger.ErrorContext(ctx, "Category chart failed", applog.FieldAccount, account, applog.FieldError, err)
	}
	graph2, err := s.renderer.RenderMonthlyChart(summary.MonthlyFlows, owner)
	if err != nil {
		s.logger.ErrorContext(ctx, "Monthly chart failed", applog.FieldAccount, account, applog.FieldError, err)
	}

	data := dashboardData{
		Entries:             filtered,
		TotalIncome:         summary.TotalIncome,
		TotalExpense:        summary.TotalExpense,
		Balance:             summary.Balance,
		Graph1URL:           graph1,
		Graph2URL:           graph2,
		Months:              opts.Months,
		Responsibles:        opts.Responsibles,
		Categories:          opts.Categories,
		SelectedMonth:       filters.Month,
		SelectedResponsible: filters.Responsible,
		SelectedCategory:    filters.Category,
		AuthEnabled:         s.gateway != nil,
	}
	if sess := s.session(r); sess != nil {
		data.Username = sess.Username
	}

	s.renderTemplate(w, r, "index.html", data)
}

func (s *Server) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	account := s.account(r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "formulário inválido", http.StatusBadRequest)
		return
	}

	amount, err := core.ParseAmount(r.Form.Get("Valor"))
	if err != nil {
		http.Error(w, "valor inválido", http.StatusUnprocessableEntity)
		return
	}

	entry := core.Entry{
		Date:        core.FormatEntryDate(s.now()),
		Kind:        core.Kind(r.Form.Get("Tipo")),
		Category:    strings.TrimSpace(r.Form.Get("Categoria")),
		Description: strings.TrimSpace(r.Form.Get("Descricao")),
		Amount:      amount,
		Responsible: strings.TrimSpace(r.Form.Get("Responsavel")),
	}
	if err := entry.Validate(); err != nil {
		http.Error(w, "dados inválidos: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	if err := s.store.Append(ctx, account, entry); err != nil {
		s.logger.ErrorContext(ctx, "Entry append failed", applog.FieldAccount, account, applog.FieldError, err)
		http.Error(w, "erro ao salvar o registro", http.StatusInternalServerError)
		return
	}

	s.logger.InfoContext(ctx, "Entry added",
		applog.FieldAccount, account,
		applog.FieldKind, string(entry.Kind),
		applog.FieldCategory, entry.Category,
		applog.FieldAmount, entry.Amount.String())

	// Redirect-after-post so a refresh does not resubmit the form.
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	account := s.account(r)

	position, err := strconv.Atoi(chi.URLParam(r, "position"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	// Deleting a position that no longer exists is a no-op; the
	// position was only ever valid against the snapshot the page
	// rendered from.
	if err := s.store.Delete(ctx, account, position); err != nil {
		s.logger.ErrorContext(ctx, "Entry delete failed",
			applog.FieldAccount, account,
			applog.FieldPosition, position,
			applog.FieldError, err)
		http.Error(w, "erro ao excluir o registro", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// authPageData feeds login.html and register.html.
type authPageData struct {
	Error string
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if s.session(r) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.renderTemplate(w, r, "login.html", authPageData{})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		http.Error(w, "formulário inválido", http.StatusBadRequest)
		return
	}

	username := r.Form.Get("usuario")
	password := r.Form.Get("senha")

	user, err := s.gateway.Authenticate(ctx, username, password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		// Same message for unknown user and wrong password.
		s.renderTemplate(w, r, "login.html", authPageData{Error: "Usuário ou senha inválidos."})
		return
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Login failed", applog.FieldUsername, username, applog.FieldError, err)
		http.Error(w, "erro interno", http.StatusInternalServerError)
		return
	}

	sess, err := s.gateway.CreateSession(ctx, user)
	if err != nil {
		s.logger.ErrorContext(ctx, "Session create failed", applog.FieldUsername, username, applog.FieldError, err)
		http.Error(w, "erro interno", http.StatusInternalServerError)
		return
	}

	setSessionCookie(w, sess)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.CookieName); err == nil {
		if err := s.gateway.DeleteSession(r.Context(), cookie.Value); err != nil {
			s.logger.WarnContext(r.Context(), "Session delete failed", applog.FieldError, err)
		}
	}
	clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	if s.session(r) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.renderTemplate(w, r, "register.html", authPageData{})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		http.Error(w, "formulário inválido", http.StatusBadRequest)
		return
	}

	username := r.Form.Get("usuario")
	password := r.Form.Get("senha")
	accountType := r.Form.Get("tipo_conta")
	accountName := r.Form.Get("nome_conta")

	user, err := s.gateway.Register(ctx, username, password, accountType, accountName)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUsernameTaken),
			errors.Is(err, auth.ErrInvalidUsername),
			errors.Is(err, auth.ErrBlankPassword),
			errors.Is(err, auth.ErrBlankAccountName),
			errors.Is(err, auth.ErrInvalidAccountType):
			s.renderTemplate(w, r, "register.html", authPageData{Error: err.Error()})
		default:
			s.logger.ErrorContext(ctx, "Registration failed", applog.FieldUsername, username, applog.FieldError, err)
			http.Error(w, "erro interno", http.StatusInternalServerError)
		}
		return
	}

	s.logger.InfoContext(ctx, "Account registered",
		applog.FieldUsername, user.Username,
		applog.FieldAccount, user.Account)

	sess, err := s.gateway.CreateSession(ctx, user)
	if err != nil {
		s.logger.ErrorContext(ctx, "Session create failed", applog.FieldUsername, username, applog.FieldError, err)
		http.Error(w, "erro interno", http.StatusInternalServerError)
		return
	}

	setSessionCookie(w, sess)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any) {
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.ErrorContext(r.Context(), "Template execution failed",
			"template", name, applog.FieldError, err)
		http.Error(w, "erro interno", http.StatusInternalServerError)
	}
}
