package executors

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/tally/pkg/config"
	"github.com/yurifrl/tally/pkg/parser"
	"github.com/yurifrl/tally/pkg/plan"
	"github.com/yurifrl/tally/pkg/reconcile"
	"github.com/yurifrl/tally/pkg/service"
)

type Executor struct {
	logger        *log.Logger
	session       *service.Session
	byFingerprint bool
}

func New(logger *log.Logger, session *service.Session, byFingerprint bool) *Executor {
	return &Executor{
		logger:        logger,
		session:       session,
		byFingerprint: byFingerprint,
	}
}

// target is the file a plan writes to: its own file when set, the session's
// backing file otherwise.
func (e *Executor) target(p *plan.Plan) (string, error) {
	if p.File != "" {
		return config.ExpandPath(p.File), nil
	}
	if file := e.session.BackingFile(); file != "" {
		return file, nil
	}
	return "", service.ErrNoBackingFile
}

// reconcile builds the report for p. A target file that does not exist yet
// has no rows, so every entry is to be added.
func (e *Executor) reconcile(p *plan.Plan) (*reconcile.Report, string, bool, error) {
	file, err := e.target(p)
	if err != nil {
		return nil, "", false, err
	}

	local, err := p.Build()
	if err != nil {
		return nil, "", false, err
	}

	exists := true
	existing, _, err := e.session.Parser().Transactions(file)
	if errors.Is(err, parser.ErrSourceNotFound) {
		exists = false
	} else if err != nil {
		return nil, "", false, fmt.Errorf("failed to read %s: %w", file, err)
	}

	report := reconcile.Build(local, existing, e.byFingerprint)
	e.logger.Debug("processing plan report", "file", file, "total", len(report.Items), "in_sync", report.InSyncCount(), "to_add", report.MissingCount())
	return report, file, exists, nil
}
