package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrAmountFormat is returned for amount text that is not "[−]$N,NNN.NN CUR".
var ErrAmountFormat = errors.New("unrecognized amount format")

// parseAmount parses text such as "−$1,234.56 CAD". negative is true when the
// U+2212 minus sign leads the text.
func parseAmount(text string) (negative bool, amount decimal.Decimal, err error) {
	m := amountPattern.FindStringSubmatch(text)
	if m == nil {
		return false, decimal.Zero, fmt.Errorf("%w: %q", ErrAmountFormat, text)
	}

	negative = m[amountPattern.SubexpIndex("negativeSign")] == minusSign
	raw := strings.ReplaceAll(m[amountPattern.SubexpIndex("amount")], ",", "")

	amount, err = decimal.NewFromString(raw)
	if err != nil {
		return false, decimal.Zero, fmt.Errorf("parsing amount %q: %w", raw, err)
	}
	return negative, amount, nil
}
