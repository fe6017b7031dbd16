package parser

import (
	"fmt"
	"path/filepath"

	"github.com/yurifrl/tally/pkg/models"
)

// Append writes tx as a new last row of the file at path, laid out in the
// file's own header order. Existing rows are left as they are. A file with
// no rows gets DefaultHeader first. Transactions without a kind are refused
// with ErrKindRequired since Decode could not read them back.
func (p *Parser) Append(path string, tx *models.Transaction) error {
	if tx.Kind() == models.KindNone {
		return fmt.Errorf("%w: %s", ErrKindRequired, tx.Render())
	}
	if err := checkSource(path); err != nil {
		return err
	}

	encode := func(existing []Row) []Row {
		if len(existing) == 0 {
			return []Row{Row(DefaultHeader), Encode(tx, DefaultHeader)}
		}
		return []Row{Encode(tx, headerOf(existing))}
	}

	var err error
	switch detectType(path) {
	case XLSX:
		err = p.appendXLSX(path, encode)
	case CSV:
		err = p.appendCSV(path, encode)
	case XLS:
		return fmt.Errorf("%w: %s", ErrReadOnlyFormat, filepath.Base(path))
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Base(path))
	}
	if err != nil {
		return err
	}

	p.logger.Info("appended transaction", "file", path, "id", tx.ID())
	return nil
}

// Create makes a new backing file holding only DefaultHeader.
func (p *Parser) Create(path string) error {
	switch detectType(path) {
	case XLSX:
		return p.createXLSX(path)
	case CSV:
		return p.createCSV(path)
	case XLS:
		return fmt.Errorf("%w: %s", ErrReadOnlyFormat, filepath.Base(path))
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Base(path))
	}
}
