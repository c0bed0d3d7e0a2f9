// Package export writes YNAB entries as the CSV file YNAB imports.
package export

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wsynab/wsynab/internal/model"
)

// Header is the first row of every export.
const Header = `"Date","Payee","Memo","Outflow","Inflow"`

const dateFormat = "2006-01-02"

// ToCSV renders entries with every field quoted, rows separated by "\n"
// and no trailing newline.
func ToCSV(entries []model.YnabEntry) string {
	rows := make([]string, 0, len(entries)+1)
	rows = append(rows, Header)

	for _, e := range entries {
		cells := []string{
			e.Date.Format(dateFormat),
			quoteEscape(e.Payee),
			quoteEscape(e.Memo),
			formatAmount(e.Outflow),
			formatAmount(e.Inflow),
		}
		for i, c := range cells {
			cells[i] = `"` + c + `"`
		}
		rows = append(rows, strings.Join(cells, ","))
	}

	return strings.Join(rows, "\n")
}

// quoteEscape doubles embedded double quotes. Nothing else is escaped.
func quoteEscape(s string) string {
	return strings.ReplaceAll(s, `"`, `""`)
}

func formatAmount(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.StringFixed(2)
}
