package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"wealthway/internal/core"
	"wealthway/internal/log"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	m := s.month(r.URL.Query().Get)
	txs := s.transactions.Month(m.Year, m.Month)
	s.insights.Observe(ctx, m, txs)

	theme := s.theme(r)
	now := s.now()
	data := pageView{
		Theme:   string(theme),
		Dark:    theme == core.Dark,
		Today:   now.Format(core.DateLayout),
		Month:   newMonthView(txs, m, now),
		Insight: newInsightView(s.insights.Current(m)),
	}
	html, ok := s.render(w, r, "index.html", data)
	if !ok {
		return
	}
	NewHTMXResponse().
		Header("Vary", "Sec-CH-Prefers-Color-Scheme").
		BodyHTML(html).
		Write(w)
}

func (s *Server) handleMonth(w http.ResponseWriter, r *http.Request) {
	m := s.month(r.URL.Query().Get)
	s.writeMonth(w, r, m, NewHTMXResponse())
}

// writeMonth renders the month partial for m into resp.
func (s *Server) writeMonth(w http.ResponseWriter, r *http.Request, m core.MonthPointer, resp *HTMXResponseBuilder) {
	txs := s.transactions.Month(m.Year, m.Month)
	html, ok := s.render(w, r, "month", newMonthView(txs, m, s.now()))
	if !ok {
		return
	}
	resp.BodyHTML(html).Write(w)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}
	m := s.month(p.Get)
	in := p.ParseNewTransaction()

	// An incomplete form is silently ignored.
	if !in.Complete() {
		NoContent().Write(w)
		return
	}

	nt, err := in.Transaction()
	if err != nil {
		logger.InfoContext(ctx, "Rejected transaction input",
			log.FieldOperation, log.OpValidate,
			log.FieldError, err.Error())
		UnprocessableEntityError(validationMessage(err)).Write(w)
		return
	}

	tx, err := s.transactions.Add(ctx, nt)
	switch {
	case errors.Is(err, core.ErrIncomplete):
		NoContent().Write(w)
		return
	case isValidationError(err):
		UnprocessableEntityError(validationMessage(err)).Write(w)
		return
	case err != nil:
		logger.ErrorContext(ctx, "Failed to add transaction",
			log.FieldOperation, log.OpCreate,
			log.FieldError, err.Error())
		InternalServerError("Could not save the transaction. Please try again.").Write(w)
		return
	}

	if p.IsJSON() {
		writeJSON(w, r, http.StatusCreated, tx)
		return
	}

	s.writeMonth(w, r, m, NewHTMXResponse().
		TriggerTransactionsChanged(m).
		TriggerFormReset().
		TriggerSuccessNotification(successMessage(tx)))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := sanitizeInput(chi.URLParam(r, "id"))
	m := s.month(r.FormValue)

	removed, err := s.transactions.Delete(ctx, id)
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Failed to delete transaction",
			log.FieldOperation, log.OpDelete,
			log.FieldTxID, id,
			log.FieldError, err.Error())
		InternalServerError("Could not delete the transaction. Please try again.").Write(w)
		return
	}

	resp := NewHTMXResponse()
	if removed {
		resp.TriggerTransactionsChanged(m)
	}
	s.writeMonth(w, r, m, resp)
}

func (s *Server) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	theme, err := s.themes.Toggle(ctx, s.fallbackTheme(r))
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Failed to persist theme",
			log.FieldOperation, log.OpToggle,
			log.FieldError, err.Error())
		InternalServerError("Could not save the theme.").Write(w)
		return
	}

	html, ok := s.render(w, r, "theme-toggle", pageView{Theme: string(theme), Dark: theme == core.Dark})
	if !ok {
		return
	}
	NewHTMXResponse().
		TriggerThemeChanged(theme).
		BodyHTML(html).
		Write(w)
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrInvalidType) ||
		errors.Is(err, core.ErrNameTooLong)
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		return "Amount must be a non-negative number."
	case errors.Is(err, core.ErrInvalidDate):
		return "Date must be a valid YYYY-MM-DD date."
	case errors.Is(err, core.ErrInvalidType):
		return "Type must be income or expense."
	case errors.Is(err, core.ErrNameTooLong):
		return "Name is too long (max 200 characters)."
	default:
		return "Invalid transaction."
	}
}

func successMessage(tx core.Transaction) string {
	if tx.Type == core.Income {
		return "Income added: " + core.FormatMoney(tx.Amount)
	}
	return "Expense added: " + core.FormatMoney(tx.Amount)
}
