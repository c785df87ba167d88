package dailyTotals

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeOfIsOrderIndependent(t *testing.T) {
	assert.Equal(t, scopeOf([]string{"UA2", "UA1"}), scopeOf([]string{"UA1", "UA2"}))
	assert.Equal(t, "UA1,UA2", scopeOf([]string{"UA2", "UA1"}))
}

func TestDocumentMapping(t *testing.T) {
	day := DailyTotals{
		Date:              date("2024-03-01").Add(5 * time.Hour),
		MoneyIn:           decimal.RequireFromString("1000.50"),
		MoneyOut:          decimal.RequireFromString("0.01"),
		MoneyInReference:  decimal.RequireFromString("41234.99"),
		MoneyOutReference: decimal.Zero,
	}
	now := time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)

	doc, err := toDocument([]string{"UA2", "UA1"}, day, now)
	require.NoError(t, err)
	assert.Equal(t, "UA1,UA2", doc.Scope)
	assert.Equal(t, date("2024-03-01"), doc.Date)
	assert.Equal(t, "UAH", doc.ReferenceCurrency)
	assert.Equal(t, now, doc.LastUpdated)

	back, err := fromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, date("2024-03-01"), back.Date)
	assert.True(t, back.MoneyIn.Equal(day.MoneyIn))
	assert.True(t, back.MoneyOut.Equal(day.MoneyOut))
	assert.True(t, back.MoneyInReference.Equal(day.MoneyInReference))
	assert.True(t, back.MoneyOutReference.IsZero())
}
