package export

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const (
	minColWidth = 8.0
	maxColWidth = 50.0

	placeholder = "--"
	totalLabel  = "TOTAL"
)

// sheetSpec is one sheet's content: a header row, data rows and an
// optional TOTAL row
type sheetSpec struct {
	name    string
	headers []string
	rows    [][]interface{}
	total   []interface{}
}

// workbookWriter lays out styled sheets into a single excelize file
type workbookWriter struct {
	file        *excelize.File
	headerStyle int
	totalStyle  int
	sheets      []string
	rowCount    int
}

func newWorkbookWriter() (*workbookWriter, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1F4E78"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	totalStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFF2CC"}},
		Border: []excelize.Border{
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 6},
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create total style: %w", err)
	}

	return &workbookWriter{file: f, headerStyle: headerStyle, totalStyle: totalStyle}, nil
}

// addSheet writes a sheet. The first sheet reuses the default one.
func (w *workbookWriter) addSheet(spec sheetSpec) error {
	if len(w.sheets) == 0 {
		if err := w.file.SetSheetName(w.file.GetSheetName(0), spec.name); err != nil {
			return fmt.Errorf("failed to name sheet %s: %w", spec.name, err)
		}
	} else if _, err := w.file.NewSheet(spec.name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", spec.name, err)
	}

	header := make([]interface{}, len(spec.headers))
	for i, h := range spec.headers {
		header[i] = h
	}
	if err := w.writeRow(spec.name, 1, header); err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(len(spec.headers))
	if err != nil {
		return fmt.Errorf("failed to resolve last column: %w", err)
	}
	if err := w.file.SetCellStyle(spec.name, "A1", lastCol+"1", w.headerStyle); err != nil {
		return fmt.Errorf("failed to style header of %s: %w", spec.name, err)
	}

	for i, row := range spec.rows {
		if err := w.writeRow(spec.name, i+2, row); err != nil {
			return err
		}
	}

	if spec.total != nil {
		totalRow := len(spec.rows) + 2
		if err := w.writeRow(spec.name, totalRow, spec.total); err != nil {
			return err
		}
		row := strconv.Itoa(totalRow)
		if err := w.file.SetCellStyle(spec.name, "A"+row, lastCol+row, w.totalStyle); err != nil {
			return fmt.Errorf("failed to style total of %s: %w", spec.name, err)
		}
	}

	if err := w.file.SetPanes(spec.name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header of %s: %w", spec.name, err)
	}

	if err := w.autosize(spec); err != nil {
		return err
	}

	w.sheets = append(w.sheets, spec.name)
	w.rowCount += len(spec.rows)
	return nil
}

func (w *workbookWriter) writeRow(sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to resolve row %d: %w", row, err)
	}
	if err := w.file.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}

// autosize fits each column to its longest rendered value
func (w *workbookWriter) autosize(spec sheetSpec) error {
	widths := make([]float64, len(spec.headers))
	measure := func(values []interface{}) {
		for i, v := range values {
			if i >= len(widths) {
				break
			}
			if n := float64(utf8.RuneCountInString(cellText(v))) + 2; n > widths[i] {
				widths[i] = n
			}
		}
	}

	header := make([]interface{}, len(spec.headers))
	for i, h := range spec.headers {
		header[i] = h
	}
	measure(header)
	for _, row := range spec.rows {
		measure(row)
	}
	if spec.total != nil {
		measure(spec.total)
	}

	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to resolve column %d: %w", i+1, err)
		}
		if width < minColWidth {
			width = minColWidth
		}
		if width > maxColWidth {
			width = maxColWidth
		}
		if err := w.file.SetColWidth(spec.name, col, col, width); err != nil {
			return fmt.Errorf("failed to size column %s of %s: %w", col, spec.name, err)
		}
	}
	return nil
}

func (w *workbookWriter) finish(fileName string) (*Result, error) {
	w.file.SetActiveSheet(0)
	buf, err := w.file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return &Result{
		FileName: fileName,
		Content:  buf.Bytes(),
		Sheets:   append([]string(nil), w.sheets...),
		RowCount: w.rowCount,
	}, nil
}

func (w *workbookWriter) close() {
	_ = w.file.Close()
}

func cellText(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	default:
		return fmt.Sprint(val)
	}
}

func orDash(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}
