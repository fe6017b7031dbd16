package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/yurifrl/tally/pkg/config"
	"github.com/yurifrl/tally/pkg/csv"
	"github.com/yurifrl/tally/pkg/executors"
	"github.com/yurifrl/tally/pkg/ledger"
	"github.com/yurifrl/tally/pkg/models"
	"github.com/yurifrl/tally/pkg/parser"
	"github.com/yurifrl/tally/pkg/plan"
	"github.com/yurifrl/tally/pkg/reconcile"
	"github.com/yurifrl/tally/pkg/service"
)

const maxUploadSize = 32 << 20

// Server exposes one ledger session as a local JSON API.
type Server struct {
	config   *config.Config
	logger   *log.Logger
	mux      *http.ServeMux
	session  *service.Session
	executor *executors.Executor
}

func New(cfg *config.Config, logger *log.Logger, session *service.Session) *Server {
	s := &Server{
		config:   cfg,
		logger:   logger,
		mux:      http.NewServeMux(),
		session:  session,
		executor: executors.New(logger, session, cfg.MatchByFingerprint),
	}
	s.setupRoutes()
	return s
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/transactions", s.withLogging(s.handleTransactions))
	s.mux.HandleFunc("/api/transactions/", s.withLogging(s.handleTransaction))
	s.mux.HandleFunc("/api/balance", s.withLogging(s.handleBalance))
	s.mux.HandleFunc("/api/totals", s.withLogging(s.handleTotals))
	s.mux.HandleFunc("/api/import", s.withLogging(s.handleImport))
	s.mux.HandleFunc("/api/export", s.withLogging(s.handleExport))
	s.mux.HandleFunc("/api/plan", s.withLogging(s.handlePlan))
	s.mux.HandleFunc("/api/apply", s.withLogging(s.handleApply))
}

// transactionRequest is the body of POST /api/transactions.
type transactionRequest struct {
	Kind          string          `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Source        string          `json:"source"`
	PaymentMethod string          `json:"payment_method"`
}

func (req transactionRequest) build() (*models.Transaction, error) {
	kind, err := models.ParseKind(req.Kind)
	if err != nil {
		return nil, err
	}
	b := models.NewTransaction(req.Category, req.Description).SetAmount(req.Amount)
	switch kind {
	case models.KindIncome:
		b.AsIncome(req.Source)
	case models.KindExpense:
		b.AsExpense(req.PaymentMethod)
	}
	return b.Build()
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		txs := s.session.Transactions()
		if err := s.writeJSON(w, http.StatusOK, map[string]any{
			"status":       "success",
			"transactions": txs,
			"balance":      s.session.Balance(),
		}); err != nil {
			s.logger.Warn("failed to write json response", "err", err)
		}

	case http.MethodPost:
		var req transactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.respondError(w, r, http.StatusBadRequest, "invalid request body", err)
			return
		}
		tx, err := req.build()
		if err != nil {
			s.respondError(w, r, http.StatusBadRequest, err.Error(), err)
			return
		}
		if err := s.session.Record(tx); err != nil {
			if errors.Is(err, parser.ErrKindRequired) {
				s.respondError(w, r, http.StatusBadRequest, err.Error(), err)
				return
			}
			s.respondError(w, r, http.StatusInternalServerError, "failed to record transaction", err)
			return
		}
		if err := s.writeJSON(w, http.StatusCreated, map[string]any{
			"status":      "success",
			"transaction": tx,
			"balance":     s.session.Balance(),
		}); err != nil {
			s.logger.Warn("failed to write json response", "err", err)
		}

	default:
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
	}
}

func (s *Server) handleTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	position, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/api/transactions/"))
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "position must be a number", err)
		return
	}

	removed, err := s.session.Remove(position)
	if errors.Is(err, ledger.ErrIndexOutOfRange) {
		s.respondError(w, r, http.StatusNotFound, err.Error(), err)
		return
	}
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to remove transaction", err)
		return
	}

	if err := s.writeJSON(w, http.StatusOK, map[string]any{
		"status":      "success",
		"transaction": removed,
		"balance":     s.session.Balance(),
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	if err := s.writeJSON(w, http.StatusOK, map[string]any{
		"status":   "success",
		"balance":  s.session.Balance(),
		"negative": s.session.IsNegative(),
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}
	totals := s.session.CategoryTotals()
	if err := s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"totals": totals.Sorted(),
		"sum":    totals.Sum(),
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// rowErrorJSON describes a skipped row in import responses.
type rowErrorJSON struct {
	Line  int      `json:"line"`
	Row   []string `json:"row"`
	Error string   `json:"error"`
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid upload", err)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "failed to read file", err)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to read file", err)
		return
	}

	rows, err := s.session.Parser().ProcessBytes(data, header.Filename)
	if errors.Is(err, parser.ErrUnsupportedFile) {
		s.respondError(w, r, http.StatusUnsupportedMediaType, err.Error(), err)
		return
	}
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "failed to process file", err)
		return
	}

	report := s.session.ImportRows(rows, header.Filename)
	skipped := make([]rowErrorJSON, len(report.Skipped))
	for i, e := range report.Skipped {
		skipped[i] = rowErrorJSON{Line: e.Line, Row: e.Row, Error: e.Err.Error()}
	}

	if err := s.writeJSON(w, http.StatusOK, map[string]any{
		"status":   "success",
		"file":     header.Filename,
		"imported": len(report.Imported),
		"skipped":  skipped,
		"balance":  report.Balance,
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// handleExport serves the ledger as csv. ?kind= and ?category= narrow it.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	var filter csv.FilterFunc[*models.Transaction]
	query := r.URL.Query()
	if k := query.Get("kind"); k != "" {
		kind, err := models.ParseKind(k)
		if err != nil {
			s.respondError(w, r, http.StatusBadRequest, err.Error(), err)
			return
		}
		filter = csv.ByKind[*models.Transaction](kind)
	}
	if c := query.Get("category"); c != "" {
		byCategory := csv.ByCategory[*models.Transaction](c)
		if filter == nil {
			filter = byCategory
		} else {
			byKind := filter
			filter = func(t *models.Transaction) bool { return byKind(t) && byCategory(t) }
		}
	}

	out, err := csv.Create(s.session.Transactions(), filter)
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to build csv", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=\"ledger.csv\"")
	if _, err := w.Write(out); err != nil {
		s.logger.Warn("failed to write csv response", "err", err)
	}
}

func (s *Server) readPlan(w http.ResponseWriter, r *http.Request) (*plan.Plan, bool) {
	if r.Method != http.MethodPost {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return nil, false
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, maxUploadSize))
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "failed to read plan", err)
		return nil, false
	}
	p, err := plan.Parse(data)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, err.Error(), err)
		return nil, false
	}
	return p, true
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	p, ok := s.readPlan(w, r)
	if !ok {
		return
	}

	report, err := s.executor.Plan(p, io.Discard)
	if err != nil {
		s.respondError(w, r, http.StatusUnprocessableEntity, "failed to plan", err)
		return
	}

	lines := make([]string, 0, len(report.Items))
	for _, entry := range report.Items {
		prefix := "="
		if entry.Status == reconcile.ToAdd {
			prefix = "+"
		}
		lines = append(lines, fmt.Sprintf("%s %s", prefix, entry.Local.Render()))
	}

	if err := s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"lines":   lines,
		"to_add":  report.MissingCount(),
		"in_sync": report.InSyncCount(),
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	p, ok := s.readPlan(w, r)
	if !ok {
		return
	}

	added, err := s.executor.Apply(p)
	if err != nil {
		s.respondError(w, r, http.StatusUnprocessableEntity, "apply failed", err)
		return
	}

	if err := s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "applied",
		"added":   added,
		"balance": s.session.Balance(),
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// --- helpers ---

// writeJSON encodes v as JSON with the given status and writes headers.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// respondError logs the error and returns a minimal JSON error body.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		s.logger.Warn("request error", "status", status, "msg", message, "err", err, "method", r.Method, "path", r.URL.Path)
	} else {
		s.logger.Warn("request error", "status", status, "msg", message, "method", r.Method, "path", r.URL.Path)
	}
	_ = s.writeJSON(w, status, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// withLogging wraps a handler to log request start/end and recover panics.
func (s *Server) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", "panic", rec, "method", r.Method, "path", r.URL.Path)
				s.respondError(w, r, http.StatusInternalServerError, "internal server error", fmt.Errorf("panic: %v", rec))
			}
		}()
		next(w, r)
	}
}
