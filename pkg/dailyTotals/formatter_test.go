package dailyTotals

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVFormatterScenario(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSVFormatter{}.Format(&buf, Aggregate(scenarioTransactions())))

	want := "date,money_in,money_out,money_in_UAH,money_out_UAH\n" +
		"2024-03-01,1000.00,500.00,27000.00,13500.00\n" +
		"2024-03-02,1500.00,0.00,40500.00,0.00\n"
	assert.Equal(t, want, buf.String())
}

func TestCSVFormatterRounding(t *testing.T) {
	days := []DailyTotals{{
		Date:    date("2024-03-01"),
		MoneyIn: decimal.RequireFromString("10.005"),
	}}

	var buf bytes.Buffer
	require.NoError(t, CSVFormatter{}.Format(&buf, days))
	assert.Contains(t, buf.String(), "2024-03-01,10.01,0.00,0.00,0.00\n")
}

func TestJSONFormatterRoundTrip(t *testing.T) {
	days := Aggregate(append(scenarioTransactions(), tx("2024-03-02", "0.1", "4.13", DirectionOut)))

	var buf bytes.Buffer
	require.NoError(t, JSONFormatter{}.Format(&buf, days))

	var raw []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	require.Len(t, raw, len(days))
	for _, obj := range raw {
		assert.Len(t, obj, 5)
		for _, key := range []string{"money_in", "money_out", "money_in_UAH", "money_out_UAH"} {
			require.Contains(t, obj, key)
			assert.NotEqual(t, byte('"'), obj[key][0], "%s must be a number", key)
		}
	}

	var rows []ReportRow
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	for i, row := range rows {
		assert.Equal(t, days[i].Date.Format("2006-01-02"), row.Date)
		pairs := []struct {
			got  json.Number
			want decimal.Decimal
		}{
			{row.MoneyIn, days[i].MoneyIn},
			{row.MoneyOut, days[i].MoneyOut},
			{row.MoneyInReference, days[i].MoneyInReference},
			{row.MoneyOutReference, days[i].MoneyOutReference},
		}
		for _, p := range pairs {
			got := decimal.RequireFromString(p.got.String())
			assert.True(t, got.Equal(p.want.Round(2)), "got %s want %s", got, p.want)
		}
	}
	assert.Equal(t, "0.10", rows[1].MoneyOut.String())
}

func TestFormattersEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSVFormatter{}.Format(&buf, nil))
	assert.Equal(t, "date,money_in,money_out,money_in_UAH,money_out_UAH\n", buf.String())

	buf.Reset()
	require.NoError(t, JSONFormatter{Indent: "    "}.Format(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestFormattersRejectUndatedRows(t *testing.T) {
	days := []DailyTotals{{MoneyIn: decimal.NewFromInt(1)}}

	err := CSVFormatter{}.Format(&bytes.Buffer{}, days)
	assert.ErrorIs(t, err, ErrSerialization)

	err = JSONFormatter{}.Format(&bytes.Buffer{}, days)
	assert.ErrorIs(t, err, ErrSerialization)
}

func TestNewFormatter(t *testing.T) {
	f, err := NewFormatter("csv")
	require.NoError(t, err)
	assert.Equal(t, "csv", f.Extension())

	f, err = NewFormatter("JSON")
	require.NoError(t, err)
	assert.Equal(t, "json", f.Extension())

	_, err = NewFormatter("xml")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	assert.Equal(t, []string{"csv", "json"}, FormatNames())
}
