package imports

import (
	"fmt"
	"io"
	"strings"

	pkgerrors "github.com/angelmondragon/ayurcart-backend/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// sheet is the first worksheet split into a header and data rows.
type sheet struct {
	header []string
	rows   [][]string
}

// readFirstSheet loads only the first worksheet; other sheets are ignored.
func readFirstSheet(r io.Reader) (*sheet, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file is not a readable spreadsheet")
	}
	defer func() { _ = book.Close() }()

	names := book.GetSheetList()
	if len(names) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "spreadsheet has no sheets")
	}
	rows, err := book.GetRows(names[0])
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("read sheet %q", names[0]))
	}
	if len(rows) == 0 || isBlank(rows[0]) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "spreadsheet is empty")
	}
	return &sheet{header: rows[0], rows: rows[1:]}, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// column declares one logical field and the header spellings that map onto it.
type column struct {
	key      string
	aliases  []string
	required bool
}

// normalizeHeader folds case and drops spaces, underscores and hyphens, so
// "State ID", "state_id" and "stateid" compare equal.
func normalizeHeader(value string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(value)) {
		switch r {
		case ' ', '_', '-', '\t':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// mapColumns resolves each declared column to its index in the header row.
func mapColumns(header []string, columns []column) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		key := normalizeHeader(name)
		if key == "" {
			continue
		}
		if _, seen := positions[key]; !seen {
			positions[key] = i
		}
	}

	index := make(map[string]int, len(columns))
	var missing []string
	for _, col := range columns {
		found := false
		for _, alias := range col.aliases {
			if pos, ok := positions[normalizeHeader(alias)]; ok {
				index[col.key] = pos
				found = true
				break
			}
		}
		if !found && col.required {
			missing = append(missing, col.key)
		}
	}
	if len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "missing required column: "+strings.Join(missing, ", ")).
			WithDetails(map[string]any{"missing": missing})
	}
	return index, nil
}

// cell returns the trimmed value of a mapped column, or "" when absent.
func cell(row []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[pos])
}
