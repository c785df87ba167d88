package dailyTotals

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Formatter renders aggregated days. Implementations must not aggregate.
type Formatter interface {
	Format(w io.Writer, days []DailyTotals) error
	Extension() string
}

var formatters = map[string]func() Formatter{
	"csv":  func() Formatter { return CSVFormatter{} },
	"json": func() Formatter { return JSONFormatter{Indent: "    "} },
}

// NewFormatter returns the formatter registered under name.
func NewFormatter(name string) (Formatter, error) {
	newFormatter, ok := formatters[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown format %q (want one of %s)",
			ErrInvalidArgument, name, strings.Join(FormatNames(), ", "))
	}
	return newFormatter(), nil
}

// FormatNames lists the registered format names.
func FormatNames() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type CSVFormatter struct{}

func (CSVFormatter) Extension() string { return "csv" }

func (CSVFormatter) Format(w io.Writer, days []DailyTotals) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ReportHeader); err != nil {
		return fmt.Errorf("%w: failed to write header: %v", ErrSerialization, err)
	}
	for _, day := range days {
		if day.Date.IsZero() {
			return fmt.Errorf("%w: row without date", ErrSerialization)
		}
		if err := writer.Write(day.Row().Record()); err != nil {
			return fmt.Errorf("%w: failed to write row: %v", ErrSerialization, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return nil
}

type JSONFormatter struct {
	Indent string
}

func (JSONFormatter) Extension() string { return "json" }

func (f JSONFormatter) Format(w io.Writer, days []DailyTotals) error {
	rows := make([]ReportRow, 0, len(days))
	for _, day := range days {
		if day.Date.IsZero() {
			return fmt.Errorf("%w: row without date", ErrSerialization)
		}
		rows = append(rows, day.Row())
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", f.Indent)
	if err := encoder.Encode(rows); err != nil {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return nil
}
