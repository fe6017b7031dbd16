package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/yurifrl/tally/pkg/config"
	"github.com/yurifrl/tally/pkg/importer"
	"github.com/yurifrl/tally/pkg/ledger"
	"github.com/yurifrl/tally/pkg/models"
	"github.com/yurifrl/tally/pkg/parser"
	"github.com/yurifrl/tally/pkg/summary"
)

var ErrNoBackingFile = errors.New("no backing file configured")

// Session is the state shared by the front ends: one ledger and the file
// that backs it. Every method is atomic with respect to the others.
type Session struct {
	mu          sync.Mutex
	logger      *log.Logger
	parser      *parser.Parser
	importer    *importer.Importer
	ledger      *ledger.Ledger
	backingFile string
}

func NewSession(cfg *config.Config, logger *log.Logger) *Session {
	p := parser.New(logger, parser.WithSheet(cfg.Sheet))
	return &Session{
		logger:      logger,
		parser:      p,
		importer:    importer.New(p, logger),
		ledger:      ledger.New(),
		backingFile: cfg.File,
	}
}

// Parser returns the parser the session reads and writes files with.
func (s *Session) Parser() *parser.Parser {
	return s.parser
}

// Import loads the rows of path into the ledger. The first imported file
// that can be appended to becomes the backing file when none is set.
func (s *Session) Import(path string) (*importer.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, err := s.importer.Import(s.ledger, path)
	if err != nil {
		return nil, err
	}
	s.adopt(path)
	return report, nil
}

// ImportRows adds rows that were already read, for example from an upload.
// The backing file is not changed.
func (s *Session) ImportRows(rows []parser.Row, source string) *importer.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.importer.ImportRows(s.ledger, rows, source)
}

// ImportDirectory imports every supported file in dir, in name order.
// Files that fail are logged and skipped.
func (s *Session) ImportDirectory(ctx context.Context, dir string) ([]*importer.Report, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error reading directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !parser.Supported(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reports := make([]*importer.Report, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		report, err := s.importer.Import(s.ledger, path)
		if err != nil {
			s.logger.Error("failed to import file", "file", path, "error", err)
			continue
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// ImportFiles reads the given files concurrently and adds them in order.
// Nothing is added if any file cannot be read.
func (s *Session) ImportFiles(ctx context.Context, paths ...string) ([]*importer.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reports, err := s.importer.ImportFiles(ctx, s.ledger, paths...)
	if err != nil {
		return nil, err
	}
	for _, path := range paths {
		s.adopt(path)
	}
	return reports, nil
}

// adopt makes path the backing file if none is set and rows can be
// appended to it. Callers hold s.mu.
func (s *Session) adopt(path string) {
	if s.backingFile != "" {
		return
	}
	if !parser.Appendable(path) {
		s.logger.Debug("not using read-only file as backing file", "file", path)
		return
	}
	s.backingFile = path
	s.logger.Debug("using backing file", "file", path)
}

// Record adds tx to the ledger. With a backing file the row is appended
// first and the ledger only changes if that succeeds.
func (s *Session) Record(tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.backingFile != "" {
		if err := s.parser.Append(s.backingFile, tx); err != nil {
			return fmt.Errorf("failed to record transaction: %w", err)
		}
	}
	s.ledger.Add(tx)
	s.logger.Debug("recorded transaction", "id", tx.ID(), "balance", s.ledger.Balance())
	return nil
}

// Remove drops the transaction at the 1-based position from the ledger.
// The backing file keeps its rows.
func (s *Session) Remove(position int) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Remove(position)
}

// Existing returns the transactions decoded from the backing file.
func (s *Session) Existing() ([]*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.backingFile == "" {
		return nil, ErrNoBackingFile
	}
	txs, _, err := s.parser.Transactions(s.backingFile)
	return txs, err
}

func (s *Session) Balance() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Balance()
}

func (s *Session) IsNegative() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.IsNegative()
}

func (s *Session) Transactions() []*models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Transactions()
}

func (s *Session) CategoryTotals() summary.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.CategoryTotals()
}

func (s *Session) BackingFile() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backingFile
}

// SetBackingFile points the session at path. The file must exist and be a
// format rows can be appended to.
func (s *Session) SetBackingFile(path string) error {
	if !parser.Appendable(path) {
		return fmt.Errorf("%w: %s", parser.ErrReadOnlyFormat, filepath.Base(path))
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s", parser.ErrSourceNotFound, path)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.backingFile = path
	return nil
}
