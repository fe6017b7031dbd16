package parser

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/yurifrl/tally/pkg/models"
)

type FileType string

const (
	XLSX FileType = "xlsx"
	XLS  FileType = "xls"
	CSV  FileType = "csv"
)

var (
	ErrSourceNotFound   = errors.New("source not found")
	ErrUnsupportedFile  = errors.New("unsupported file type")
	ErrReadOnlyFormat   = errors.New("file format does not support appending")
	ErrUnrecognizedKind = errors.New("unrecognized transaction kind")
	ErrKindRequired     = errors.New("only Income or Expense transactions can be written to a file")
)

// Parser reads and appends ledger rows in spreadsheet files.
type Parser struct {
	logger *log.Logger
	sheet  string
	comma  rune
}

type Option func(*Parser)

// WithSheet selects the worksheet used in xlsx files. The first sheet is used
// when empty.
func WithSheet(name string) Option {
	return func(p *Parser) {
		p.sheet = name
	}
}

// WithComma sets the field delimiter for csv files.
func WithComma(r rune) Option {
	return func(p *Parser) {
		if r != 0 {
			p.comma = r
		}
	}
}

func New(logger *log.Logger, opts ...Option) *Parser {
	p := &Parser{
		logger: logger,
		comma:  ',',
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ReadRows returns every row of the file at path, header included.
func (p *Parser) ReadRows(path string) ([]Row, error) {
	if err := checkSource(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return p.ProcessBytes(data, filepath.Base(path))
}

// ProcessBytes decodes the raw contents of a file named filename into rows.
func (p *Parser) ProcessBytes(data []byte, filename string) ([]Row, error) {
	fileType := detectType(filename)
	p.logger.Debug("detected file type", "type", fileType, "filename", filename)

	switch fileType {
	case XLSX:
		return p.readXLSX(data)
	case XLS:
		return p.readXLS(data)
	case CSV:
		return p.readCSV(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, filename)
	}
}

// Transactions reads the file at path and decodes its rows.
func (p *Parser) Transactions(path string) ([]*models.Transaction, []RowError, error) {
	rows, err := p.ReadRows(path)
	if err != nil {
		return nil, nil, err
	}
	txs, skipped := p.DecodeAll(rows)
	return txs, skipped, nil
}

// Supported reports whether the file name has an extension the parser reads.
func Supported(filename string) bool {
	return detectType(filename) != ""
}

// Appendable reports whether Append can write to the file.
func Appendable(filename string) bool {
	t := detectType(filename)
	return t == XLSX || t == CSV
}

func detectType(filename string) FileType {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return XLSX
	case ".xls":
		return XLS
	case ".csv":
		return CSV
	}
	return ""
}

func checkSource(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrSourceNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrSourceNotFound, path)
	}
	return nil
}
