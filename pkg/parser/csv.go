package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

func (p *Parser) readCSV(data []byte) ([]Row, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = p.comma
	r.FieldsPerRecord = -1 // rows are validated one by one
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	rows := make([]Row, len(records))
	for i, rec := range records {
		rows[i] = Row(rec)
	}
	p.logger.Debug("read csv rows", "rows", len(rows))
	return rows, nil
}

func (p *Parser) appendCSV(path string, encode func(existing []Row) []Row) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	existing, err := p.readCSV(data)
	if err != nil {
		return err
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if len(data) > 0 && data[len(data)-1] != '\n' {
		if _, err := io.WriteString(file, "\n"); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
	}

	w := csv.NewWriter(file)
	w.Comma = p.comma
	for _, row := range encode(existing) {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("error writing row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

func (p *Parser) createCSV(path string) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	w.Comma = p.comma
	if err := w.Write(DefaultHeader); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}
	w.Flush()
	return w.Error()
}
