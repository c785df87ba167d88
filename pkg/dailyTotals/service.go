package dailyTotals

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Fetcher returns the realized transactions of one account within [start, end].
type Fetcher interface {
	GetTransactions(ctx context.Context, account string, start, end time.Time) ([]RawTransaction, error)
}

// Sink stores an aggregated report, e.g. the Mongo repository.
type Sink interface {
	SaveReport(ctx context.Context, report Report) error
}

// Archive reads totals stored by an earlier run.
type Archive interface {
	GetDailyTotalsByDateRange(ctx context.Context, accounts []string, start, end time.Time) ([]DailyTotals, error)
}

// Request describes one report run.
type Request struct {
	Accounts []string
	Start    time.Time
	End      time.Time
	FillGaps bool
}

type Service struct {
	fetcher     Fetcher
	sink        Sink
	concurrency int
	logger      *zap.Logger
}

// NewService wires a report service. sink may be nil.
func NewService(fetcher Fetcher, sink Sink, concurrency int, logger *zap.Logger) *Service {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		fetcher:     fetcher,
		sink:        sink,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Generate fetches every account, merges their transactions and aggregates
// them into one report. Any fetch failure aborts the whole run.
func (s *Service) Generate(ctx context.Context, req Request) (*Report, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	perAccount, err := s.fetchAll(ctx, req)
	if err != nil {
		return nil, err
	}

	var merged []RawTransaction
	for _, txs := range perAccount {
		merged = append(merged, txs...)
	}

	report := s.build(req, req.Accounts, merged)
	if err := s.save(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// GenerateSplit builds one report per account. Accounts without transactions
// produce no report.
func (s *Service) GenerateSplit(ctx context.Context, req Request) ([]*Report, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	perAccount, err := s.fetchAll(ctx, req)
	if err != nil {
		return nil, err
	}

	reports := make([]*Report, 0, len(req.Accounts))
	for i, account := range req.Accounts {
		if len(perAccount[i]) == 0 {
			continue
		}
		report := s.build(req, []string{account}, perAccount[i])
		if err := s.save(ctx, report); err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (s *Service) validate(req Request) error {
	if len(req.Accounts) == 0 {
		return fmt.Errorf("%w: no accounts given", ErrInvalidArgument)
	}
	return ValidateRange(req.Start, req.End)
}

// fetchAll returns transactions indexed like req.Accounts.
func (s *Service) fetchAll(ctx context.Context, req Request) ([][]RawTransaction, error) {
	results := make([][]RawTransaction, len(req.Accounts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, account := range req.Accounts {
		i, account := i, account
		g.Go(func() error {
			s.logger.Info("processing account", zap.String("account", account))
			txs, err := s.fetcher.GetTransactions(ctx, account, req.Start, req.End)
			if err != nil {
				return fmt.Errorf("account %s: %w", account, err)
			}
			if len(txs) == 0 {
				s.logger.Warn("no transactions found", zap.String("account", account))
			}
			results[i] = txs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (s *Service) build(req Request, accounts []string, txs []RawTransaction) *Report {
	days := Aggregate(txs)
	if req.FillGaps {
		days = FillGaps(days, req.Start, req.End)
	}

	report := &Report{
		Accounts: accounts,
		Start:    DayOf(req.Start),
		End:      DayOf(req.End),
		Days:     days,
	}
	for _, tx := range txs {
		if tx.AccountName != "" {
			report.AccountName = tx.AccountName
			break
		}
	}
	return report
}

func (s *Service) save(ctx context.Context, report *Report) error {
	if s.sink == nil {
		return nil
	}
	if err := s.sink.SaveReport(ctx, *report); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// LoadArchived builds a report from stored totals instead of fetching transactions.
func LoadArchived(ctx context.Context, archive Archive, req Request) (*Report, error) {
	if len(req.Accounts) == 0 {
		return nil, fmt.Errorf("%w: no accounts given", ErrInvalidArgument)
	}
	if err := ValidateRange(req.Start, req.End); err != nil {
		return nil, err
	}

	days, err := archive.GetDailyTotalsByDateRange(ctx, req.Accounts, req.Start, req.End)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}
	if req.FillGaps {
		days = FillGaps(days, req.Start, req.End)
	}

	return &Report{
		Accounts: req.Accounts,
		Start:    DayOf(req.Start),
		End:      DayOf(req.End),
		Days:     days,
	}, nil
}
