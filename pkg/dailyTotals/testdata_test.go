package dailyTotals

import (
	"time"

	"github.com/shopspring/decimal"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func tx(day string, amount, ref string, dir Direction) RawTransaction {
	return RawTransaction{
		AccountID:       "UA001",
		Date:            date(day).Add(12 * time.Hour),
		Amount:          decimal.RequireFromString(amount),
		Currency:        "USD",
		Direction:       dir,
		AmountReference: decimal.RequireFromString(ref),
	}
}

// scenarioTransactions are three transactions over two days.
func scenarioTransactions() []RawTransaction {
	return []RawTransaction{
		tx("2024-03-01", "1000", "27000", DirectionIn),
		tx("2024-03-01", "500", "13500", DirectionOut),
		tx("2024-03-02", "1500", "40500", DirectionIn),
	}
}
