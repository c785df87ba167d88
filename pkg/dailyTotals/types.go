package dailyTotals

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"bankStatementReport/constants"
)

// Direction tells whether a transaction increases or decreases the account balance.
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// RawTransaction is a single realized statement entry as returned by the bank.
type RawTransaction struct {
	ID              string
	AccountID       string
	AccountName     string
	Date            time.Time
	Amount          decimal.Decimal
	Currency        string
	Direction       Direction
	AmountReference decimal.Decimal
	Description     string
}

// DailyTotals accumulates all transactions of one calendar day.
type DailyTotals struct {
	Date              time.Time
	MoneyIn           decimal.Decimal
	MoneyOut          decimal.Decimal
	MoneyInReference  decimal.Decimal
	MoneyOutReference decimal.Decimal
}

// Add folds tx into the bucket.
func (d *DailyTotals) Add(tx RawTransaction) {
	if tx.Direction == DirectionIn {
		d.MoneyIn = d.MoneyIn.Add(tx.Amount)
		d.MoneyInReference = d.MoneyInReference.Add(tx.AmountReference)
		return
	}
	d.MoneyOut = d.MoneyOut.Add(tx.Amount)
	d.MoneyOutReference = d.MoneyOutReference.Add(tx.AmountReference)
}

// ReportRow is the serialized shape of DailyTotals. Field names and order are
// fixed; downstream consumers depend on them.
type ReportRow struct {
	Date              string      `json:"date"`
	MoneyIn           json.Number `json:"money_in"`
	MoneyOut          json.Number `json:"money_out"`
	MoneyInReference  json.Number `json:"money_in_UAH"`
	MoneyOutReference json.Number `json:"money_out_UAH"`
}

// ReportHeader is the CSV header matching ReportRow.
var ReportHeader = []string{
	"date",
	"money_in",
	"money_out",
	"money_in_" + constants.REFERENCE_CURRENCY,
	"money_out_" + constants.REFERENCE_CURRENCY,
}

// Row projects the totals into their serialized form.
func (d DailyTotals) Row() ReportRow {
	return ReportRow{
		Date:              d.Date.Format(constants.REPORT_DATE_LAYOUT),
		MoneyIn:           json.Number(d.MoneyIn.StringFixed(2)),
		MoneyOut:          json.Number(d.MoneyOut.StringFixed(2)),
		MoneyInReference:  json.Number(d.MoneyInReference.StringFixed(2)),
		MoneyOutReference: json.Number(d.MoneyOutReference.StringFixed(2)),
	}
}

// Record returns the row as CSV fields in ReportHeader order.
func (r ReportRow) Record() []string {
	return []string{
		r.Date,
		r.MoneyIn.String(),
		r.MoneyOut.String(),
		r.MoneyInReference.String(),
		r.MoneyOutReference.String(),
	}
}

// Report is the result of one pipeline run.
type Report struct {
	Accounts    []string
	AccountName string
	Start       time.Time
	End         time.Time
	Days        []DailyTotals
}

// FileName mirrors the per-account report naming of the statements exporter.
func (r Report) FileName(ext string) string {
	name := r.AccountName
	if name == "" {
		name = "Unknown"
	}
	name = strings.NewReplacer("/", "_", "\\", "_").Replace(name)
	account := "all"
	if len(r.Accounts) == 1 {
		account = r.Accounts[0]
	}
	return name + "_" + account + "_report_" +
		r.Start.Format(constants.CLI_DATE_LAYOUT) + "_" +
		r.End.Format(constants.CLI_DATE_LAYOUT) + "." + ext
}

// DayOf truncates t to its calendar date in UTC.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
