package core

import "github.com/shopspring/decimal"

// MonthTotal is the spending total of one month, labelled for a chart axis.
type MonthTotal struct {
	Month YearMonth
	Label string
	Total decimal.Decimal
}
