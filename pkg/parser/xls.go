package parser

import (
	"bytes"
	"fmt"

	"github.com/extrame/xls"
)

const maxXLSRows = 10000

// readXLS reads legacy Excel 97 workbooks. They can be imported but not
// appended to.
func (p *Parser) readXLS(data []byte) ([]Row, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("error creating workbook: %w", err)
	}

	cells := workbook.ReadAllCells(maxXLSRows)
	rows := make([]Row, len(cells))
	for i, c := range cells {
		rows[i] = Row(c)
	}
	p.logger.Debug("read xls rows", "rows", len(rows))
	return rows, nil
}
