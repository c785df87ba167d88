package dailyTotals

import (
	"sort"
	"time"
)

// Aggregate buckets transactions by calendar date and returns the buckets in
// ascending date order. Dates without transactions are not present.
func Aggregate(transactions []RawTransaction) []DailyTotals {
	buckets := make(map[time.Time]*DailyTotals)
	for _, tx := range transactions {
		day := DayOf(tx.Date)
		bucket, ok := buckets[day]
		if !ok {
			bucket = &DailyTotals{Date: day}
			buckets[day] = bucket
		}
		bucket.Add(tx)
	}

	days := make([]DailyTotals, 0, len(buckets))
	for _, bucket := range buckets {
		days = append(days, *bucket)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date)
	})

	return days
}

// FillGaps inserts zero rows for every date in [start, end] missing from days.
// Rows outside the range are kept.
func FillGaps(days []DailyTotals, start, end time.Time) []DailyTotals {
	start, end = DayOf(start), DayOf(end)
	if start.After(end) {
		return days
	}

	seen := make(map[time.Time]bool, len(days))
	for _, d := range days {
		seen[d.Date] = true
	}

	filled := append([]DailyTotals(nil), days...)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if !seen[day] {
			filled = append(filled, DailyTotals{Date: day})
		}
	}
	sort.Slice(filled, func(i, j int) bool {
		return filled[i].Date.Before(filled[j].Date)
	})

	return filled
}
