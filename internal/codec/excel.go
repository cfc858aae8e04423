package codec

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SheetHeaderPrefix starts the line naming each sheet in extracted text.
const SheetHeaderPrefix = "Sheet: "

var (
	rowLineRe = regexp.MustCompile(`^(\d+): ?(.*)$`)
	numericRe = regexp.MustCompile(`^-?\d+(\.\d+)?([eE][-+]?\d+)?$`)

	// cellSeparators would split a row line or a column in extracted text.
	cellSeparators = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ")
)

func extractExcel(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	var text strings.Builder
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			return "", fmt.Errorf("read sheet %q: %w", sheetName, err)
		}
		text.WriteString(SheetHeaderPrefix + sheetName + "\n")
		for i, row := range rows {
			for j, cell := range row {
				row[j] = cellSeparators.Replace(cell)
			}
			text.WriteString(fmt.Sprintf("%d: %s\n", i+1, strings.Join(row, "\t")))
		}
		text.WriteString("\n")
	}
	return text.String(), nil
}

// reconstructExcel rebuilds a workbook from extracted-style text. A sheet
// header switches the target sheet, "N: cells" writes row N and any other
// non-blank line is written as the row after the previous one.
func reconstructExcel(edited string, coerceNumbers bool) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	sheet := defaultSheet
	claimed := false
	next := 1

	for _, line := range nonBlankLines(edited) {
		if name, ok := strings.CutPrefix(line, SheetHeaderPrefix); ok {
			name = strings.TrimSpace(name)
			if !claimed {
				if name != defaultSheet {
					if err := f.SetSheetName(defaultSheet, name); err != nil {
						return nil, fmt.Errorf("rename sheet to %q: %w", name, err)
					}
				}
			} else if _, err := f.NewSheet(name); err != nil {
				return nil, fmt.Errorf("create sheet %q: %w", name, err)
			}
			claimed = true
			sheet = name
			next = 1
			continue
		}
		claimed = true

		row, cells := next, line
		if m := rowLineRe.FindStringSubmatch(line); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				row, cells = n, m[2]
			}
		}

		values := cellValues(strings.Split(cells, "\t"), coerceNumbers)
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d of %q: %w", row, sheet, err)
		}
		next = row + 1
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func cellValues(cells []string, coerceNumbers bool) []interface{} {
	values := make([]interface{}, len(cells))
	for i, cell := range cells {
		values[i] = cell
		if coerceNumbers && numericRe.MatchString(cell) {
			if n, err := strconv.ParseFloat(cell, 64); err == nil {
				values[i] = n
			}
		}
	}
	return values
}
