package statements

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bankStatementReport/constants"
	"bankStatementReport/pkg/dailyTotals"
)

// Client fetches statement transactions from the bank's API.
type Client struct {
	baseURL    string
	token      string
	pageLimit  int
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a statements client. token is the resolved credential.
func NewClient(baseURL, token string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = constants.PRIVATBANK_TX_STATEMENTS_URL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:   baseURL,
		token:     token,
		pageLimit: constants.STATEMENTS_PAGE_LIMIT,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// GetTransactions returns all realized transactions of account within
// [start, end] in arrival order, following pagination until the API reports
// no further page.
func (c *Client) GetTransactions(ctx context.Context, account string, start, end time.Time) ([]dailyTotals.RawTransaction, error) {
	if err := dailyTotals.ValidateRange(start, end); err != nil {
		return nil, err
	}

	var (
		transactions []dailyTotals.RawTransaction
		followID     string
		seen         = make(map[string]bool)
	)

	for page := 1; ; page++ {
		resp, err := c.fetchPage(ctx, account, start, end, followID)
		if err != nil {
			return nil, err
		}

		for _, t := range resp.Transactions {
			if t.State != stateRealized {
				continue
			}
			tx, err := t.toRaw(account)
			if err != nil {
				return nil, fmt.Errorf("%w: account %s: %v", dailyTotals.ErrUpstream, account, err)
			}
			transactions = append(transactions, tx)
		}

		c.logger.Info("fetched statement page",
			zap.String("account", account),
			zap.Int("page", page),
			zap.Int("count", len(resp.Transactions)),
			zap.Int("total", len(transactions)))

		if !resp.ExistNextPage {
			break
		}
		if resp.NextPageID == "" || seen[resp.NextPageID] {
			return nil, fmt.Errorf("%w: account %s: invalid next page id %q",
				dailyTotals.ErrUpstream, account, resp.NextPageID)
		}
		seen[resp.NextPageID] = true
		followID = resp.NextPageID
	}

	return transactions, nil
}

func (c *Client) fetchPage(ctx context.Context, account string, start, end time.Time, followID string) (*statementsResponse, error) {
	query := url.Values{}
	query.Set("acc", account)
	query.Set("startDate", start.Format(constants.CLI_DATE_LAYOUT))
	query.Set("endDate", end.Format(constants.CLI_DATE_LAYOUT))
	query.Set("followId", followID)
	query.Set("limit", strconv.Itoa(c.pageLimit))
	endpoint := c.baseURL + "?" + query.Encode()

	resp, err := c.do(ctx, endpoint)
	if err != nil {
		// one immediate retry on transport failure
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", dailyTotals.ErrUpstream, err)
		}
		c.logger.Warn("statements request failed, retrying",
			zap.String("account", account),
			zap.Error(err))
		resp, err = c.do(ctx, endpoint)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to execute request: %v", dailyTotals.ErrUpstream, err)
		}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status %d", dailyTotals.ErrAuthentication, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: API error (status %d): %s",
			dailyTotals.ErrUpstream, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result statementsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", dailyTotals.ErrUpstream, err)
	}
	if result.Status != statusSuccess {
		return nil, fmt.Errorf("%w: unexpected status %q", dailyTotals.ErrUpstream, result.Status)
	}

	return &result, nil
}

func (c *Client) do(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json;utf8")
	req.Header.Set("User-Agent", "bankStatementReport")
	req.Header.Set("token", c.token)

	return c.httpClient.Do(req)
}

func (t apiTransaction) toRaw(account string) (dailyTotals.RawTransaction, error) {
	date, err := time.Parse(constants.API_DATE_LAYOUT, t.DateTime)
	if err != nil {
		return dailyTotals.RawTransaction{}, fmt.Errorf("transaction %s: bad date %q", t.ID, t.DateTime)
	}
	amount, err := parseAmount(t.Sum)
	if err != nil {
		return dailyTotals.RawTransaction{}, fmt.Errorf("transaction %s: bad SUM: %w", t.ID, err)
	}
	amountRef, err := parseAmount(t.SumRef)
	if err != nil {
		return dailyTotals.RawTransaction{}, fmt.Errorf("transaction %s: bad SUM_E: %w", t.ID, err)
	}

	var direction dailyTotals.Direction
	switch t.TranType {
	case tranTypeCredit:
		direction = dailyTotals.DirectionIn
	case tranTypeDebit:
		direction = dailyTotals.DirectionOut
	default:
		return dailyTotals.RawTransaction{}, fmt.Errorf("transaction %s: unknown TRANTYPE %q", t.ID, t.TranType)
	}

	accountID := t.AccountID
	if accountID == "" {
		accountID = account
	}

	return dailyTotals.RawTransaction{
		ID:              t.ID,
		AccountID:       accountID,
		AccountName:     t.AccountName,
		Date:            date,
		Amount:          amount,
		Currency:        t.Currency,
		Direction:       direction,
		AmountReference: amountRef,
		Description:     t.Purpose,
	}, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, errors.New("empty amount")
	}
	return decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
}
