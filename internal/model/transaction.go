package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// YnabEntry is one transaction row in the YNAB import format.
type YnabEntry struct {
	Date    time.Time // calendar date, midnight local
	Payee   string
	Memo    string
	Inflow  decimal.Decimal // zero if outflow
	Outflow decimal.Decimal // zero if inflow
}

