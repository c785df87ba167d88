package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"bankStatementReport/constants"
	"bankStatementReport/pkg/dailyTotals"
	"bankStatementReport/statements"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config holds application configuration
type Config struct {
	Accounts      []string
	Token         string
	TokenFile     string
	Start         time.Time
	End           time.Time
	Format        string
	Output        string
	OutDir        string
	SplitAccounts bool
	FromArchive   bool
	FillGaps      bool
	MongoURI      string
	APIURL        string
	Concurrency   int
	Timeout       time.Duration
	Verbose       bool
}

func main() {
	config, err := parseFlags(os.Args[1:], time.Now())
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCode(err))
	}

	logger, err := newLogger(config.Verbose)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt)
	go func() {
		<-shutdown
		logger.Info("Shutting down gracefully...")
		cancel()
	}()

	if err := run(ctx, config, logger, os.Stdout); err != nil {
		logger.Error("report failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		cancel()
		logger.Sync()
		os.Exit(exitCode(err))
	}
}

func parseFlags(args []string, now time.Time) (Config, error) {
	config := Config{}
	fset := flag.NewFlagSet("bankStatementReport", flag.ContinueOnError)

	today := dailyTotals.DayOf(now)
	defaultStart := time.Date(today.Year(), today.Month()-1, 1, 0, 0, 0, 0, time.UTC)

	var accounts, startDate, endDate string
	stringFlag(fset, &accounts, "", "Comma-separated list of account numbers (required)", "accounts", "a")
	stringFlag(fset, &config.Token, "", "Authorization token for API access. This or --token-file must be provided", "token", "t")
	stringFlag(fset, &config.TokenFile, "", "Path to a file containing the authorization token", "token-file", "tf")
	stringFlag(fset, &startDate, defaultStart.Format(constants.CLI_DATE_LAYOUT),
		"Start date in format 'dd-MM-yyyy'. Default is first day of previous month", "start-date", "s")
	stringFlag(fset, &endDate, "", "End date in format 'dd-MM-yyyy'. Default is the current date", "end-date", "e")
	stringFlag(fset, &config.Format, "csv",
		"Format of the report ("+strings.Join(dailyTotals.FormatNames(), ", ")+")", "format", "f")
	stringFlag(fset, &config.Output, "", "Write the report to this file instead of standard output", "output", "o")
	fset.StringVar(&config.OutDir, "out-dir", ".", "Directory for per-account reports")
	fset.BoolVar(&config.SplitAccounts, "split-accounts", false, "Write one report file per account")
	fset.BoolVar(&config.FromArchive, "from-archive", false,
		"Render the totals stored in MongoDB instead of calling the bank API")
	fset.BoolVar(&config.FillGaps, "fill-gaps", false, "Emit zero rows for days without transactions")
	fset.StringVar(&config.MongoURI, "mongo-uri", os.Getenv("MONGODB_CONNECTION_URL"),
		"MongoDB connection string; when set daily totals are archived")
	fset.StringVar(&config.APIURL, "api-url", getEnv("PRIVATBANK_API_URL", constants.PRIVATBANK_TX_STATEMENTS_URL),
		"Statements endpoint")
	fset.IntVar(&config.Concurrency, "concurrency", 4, "Number of accounts fetched in parallel")
	fset.DurationVar(&config.Timeout, "timeout", 30*time.Second, "HTTP request timeout")
	fset.BoolVar(&config.Verbose, "verbose", false, "Enable debug logging")

	if err := fset.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return config, err
		}
		return config, fmt.Errorf("%w: %v", dailyTotals.ErrInvalidArgument, err)
	}

	config.Accounts = splitAccounts(accounts)
	if len(config.Accounts) == 0 {
		return config, fmt.Errorf("%w: --accounts is required", dailyTotals.ErrInvalidArgument)
	}

	switch {
	case config.Token != "" && config.TokenFile != "":
		return config, fmt.Errorf("%w: only one of --token and --token-file may be provided", dailyTotals.ErrInvalidArgument)
	case config.FromArchive && config.MongoURI == "":
		return config, fmt.Errorf("%w: --from-archive requires --mongo-uri", dailyTotals.ErrInvalidArgument)
	case config.FromArchive && config.SplitAccounts:
		return config, fmt.Errorf("%w: --from-archive cannot be combined with --split-accounts", dailyTotals.ErrInvalidArgument)
	case !config.FromArchive && config.Token == "" && config.TokenFile == "":
		return config, fmt.Errorf("%w: either --token or --token-file must be provided", dailyTotals.ErrInvalidArgument)
	}

	var err error
	if config.Start, err = parseDate(startDate); err != nil {
		return config, err
	}
	config.End = today
	if endDate != "" {
		if config.End, err = parseDate(endDate); err != nil {
			return config, err
		}
	}

	if _, err := dailyTotals.NewFormatter(config.Format); err != nil {
		return config, err
	}
	if config.Concurrency < 1 {
		return config, fmt.Errorf("%w: --concurrency must be positive", dailyTotals.ErrInvalidArgument)
	}

	return config, nil
}

func stringFlag(fset *flag.FlagSet, p *string, value, usage string, names ...string) {
	for _, name := range names {
		fset.StringVar(p, name, value, usage)
	}
}

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(constants.CLI_DATE_LAYOUT, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, want dd-MM-yyyy", dailyTotals.ErrInvalidArgument, s)
	}
	return t, nil
}

// splitAccounts drops blanks and duplicates, keeping the first occurrence order.
func splitAccounts(s string) []string {
	var accounts []string
	seen := make(map[string]bool)
	for _, account := range strings.Split(s, ",") {
		account = strings.TrimSpace(account)
		if account == "" || seen[account] {
			continue
		}
		seen[account] = true
		accounts = append(accounts, account)
	}
	return accounts
}

// resolveToken returns the credential from --token or the contents of --token-file.
func resolveToken(config Config) (string, error) {
	if config.TokenFile == "" {
		return config.Token, nil
	}

	data, err := os.ReadFile(config.TokenFile)
	if err != nil {
		return "", fmt.Errorf("%w: error reading token from file: %v", dailyTotals.ErrInvalidArgument, err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("%w: token file %s is empty", dailyTotals.ErrInvalidArgument, config.TokenFile)
	}
	return token, nil
}

func run(ctx context.Context, config Config, logger *zap.Logger, stdout io.Writer) error {
	// Fail on a bad range before touching the network or the token file
	if err := dailyTotals.ValidateRange(config.Start, config.End); err != nil {
		return err
	}

	formatter, err := dailyTotals.NewFormatter(config.Format)
	if err != nil {
		return err
	}

	if config.FromArchive && config.MongoURI == "" {
		return fmt.Errorf("%w: --from-archive requires --mongo-uri", dailyTotals.ErrInvalidArgument)
	}

	var token string
	if !config.FromArchive {
		if token, err = resolveToken(config); err != nil {
			return err
		}
	}

	var sink dailyTotals.Sink
	if config.MongoURI != "" {
		mongoClient, err := dailyTotals.Connect(ctx, config.MongoURI)
		if err != nil {
			return err
		}
		defer func() {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				logger.Warn("Error closing MongoDB connection", zap.Error(err))
			}
		}()

		repo, err := dailyTotals.NewRepository(ctx, mongoClient.Database(constants.DB_NAME))
		if err != nil {
			return err
		}
		if config.FromArchive {
			return renderArchive(ctx, repo, config, formatter, stdout, logger)
		}
		sink = repo
	}

	client := statements.NewClient(config.APIURL, token, config.Timeout, logger)
	service := dailyTotals.NewService(client, sink, config.Concurrency, logger)

	req := dailyTotals.Request{
		Accounts: config.Accounts,
		Start:    config.Start,
		End:      config.End,
		FillGaps: config.FillGaps,
	}

	if config.SplitAccounts {
		reports, err := service.GenerateSplit(ctx, req)
		if err != nil {
			return err
		}
		for _, report := range reports {
			path := filepath.Join(config.OutDir, report.FileName(formatter.Extension()))
			if err := writeReport(path, nil, formatter, report); err != nil {
				return err
			}
			logger.Info("report generated",
				zap.Strings("accounts", report.Accounts),
				zap.String("file", path))
		}
		return nil
	}

	report, err := service.Generate(ctx, req)
	if err != nil {
		return err
	}
	if err := writeReport(config.Output, stdout, formatter, report); err != nil {
		return err
	}
	logger.Info("report generated",
		zap.Strings("accounts", report.Accounts),
		zap.Int("days", len(report.Days)))
	return nil
}

// renderArchive writes the stored totals of config.Accounts without calling the bank.
func renderArchive(ctx context.Context, archive dailyTotals.Archive, config Config, formatter dailyTotals.Formatter, stdout io.Writer, logger *zap.Logger) error {
	report, err := dailyTotals.LoadArchived(ctx, archive, dailyTotals.Request{
		Accounts: config.Accounts,
		Start:    config.Start,
		End:      config.End,
		FillGaps: config.FillGaps,
	})
	if err != nil {
		return err
	}
	if err := writeReport(config.Output, stdout, formatter, report); err != nil {
		return err
	}
	logger.Info("archived report rendered",
		zap.Strings("accounts", report.Accounts),
		zap.Int("days", len(report.Days)))
	return nil
}

// writeReport renders report to path, or to fallback when path is empty.
func writeReport(path string, fallback io.Writer, formatter dailyTotals.Formatter, report *dailyTotals.Report) error {
	if path == "" {
		return formatter.Format(fallback, report.Days)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := formatter.Format(file, report.Days); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, dailyTotals.ErrInvalidArgument):
		return 2
	case errors.Is(err, dailyTotals.ErrAuthentication):
		return 3
	case errors.Is(err, dailyTotals.ErrInvalidRange):
		return 4
	case errors.Is(err, dailyTotals.ErrUpstream):
		return 5
	case errors.Is(err, dailyTotals.ErrSerialization):
		return 6
	default:
		return 1
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func init() {
	// Load .env file
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatal("Error loading .env file: ", err)
	}
}
