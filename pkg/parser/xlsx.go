package parser

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"

	"github.com/xuri/excelize/v2"
)

func (p *Parser) readXLSX(data []byte) ([]Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("error opening workbook: %w", err)
	}
	defer f.Close()

	sheet, err := p.sheetName(f)
	if err != nil {
		return nil, err
	}

	cells, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("error reading sheet %s: %w", sheet, err)
	}

	rows := make([]Row, len(cells))
	for i, c := range cells {
		rows[i] = Row(c)
	}
	p.logger.Debug("read xlsx rows", "sheet", sheet, "rows", len(rows))
	return rows, nil
}

func (p *Parser) appendXLSX(path string, encode func(existing []Row) []Row) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("error opening workbook: %w", err)
	}
	defer f.Close()

	sheet, err := p.sheetName(f)
	if err != nil {
		return err
	}

	cells, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return fmt.Errorf("error reading sheet %s: %w", sheet, err)
	}
	existing := make([]Row, len(cells))
	for i, c := range cells {
		existing[i] = Row(c)
	}

	header := headerOf(existing)
	next := len(existing) + 1
	for _, row := range encode(existing) {
		cell, err := excelize.CoordinatesToCellName(1, next)
		if err != nil {
			return err
		}
		values := xlsxValues(row, header)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("error writing row %d: %w", next, err)
		}
		next++
	}

	if err := f.Save(); err != nil {
		return fmt.Errorf("error saving workbook: %w", err)
	}
	return nil
}

func (p *Parser) sheetName(f *excelize.File) (string, error) {
	if p.sheet != "" {
		if idx, err := f.GetSheetIndex(p.sheet); err != nil || idx < 0 {
			return "", fmt.Errorf("sheet %q not found", p.sheet)
		}
		return p.sheet, nil
	}
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("no sheets found in workbook")
	}
	return sheets[0], nil
}

// xlsxValues stores the amount column as a number so spreadsheet formulas
// keep working on it.
func xlsxValues(row Row, header []string) []any {
	if len(header) == 0 {
		header = DefaultHeader
	}
	values := make([]any, len(row))
	for i, cell := range row {
		values[i] = cell
		if i >= len(header) || fieldFor(header[i]) != fieldAmount {
			continue
		}
		if amount, err := parseAmount(cell); err == nil {
			values[i] = amount.InexactFloat64()
		}
	}
	return values
}

func (p *Parser) createXLSX(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", fs.ErrExist, path)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetList()[0]
	if p.sheet != "" && p.sheet != sheet {
		if err := f.SetSheetName(sheet, p.sheet); err != nil {
			return fmt.Errorf("error naming sheet: %w", err)
		}
		sheet = p.sheet
	}

	header := make([]any, len(DefaultHeader))
	for i, name := range DefaultHeader {
		header[i] = name
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("error saving workbook: %w", err)
	}
	return nil
}
