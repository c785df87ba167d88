package constants

const (
	PRIVATBANK_TX_STATEMENTS_URL = "https://acp.privatbank.ua/api/statements/transactions"

	// Date layouts
	CLI_DATE_LAYOUT    = "02-01-2006"
	REPORT_DATE_LAYOUT = "2006-01-02"
	API_DATE_LAYOUT    = "02.01.2006 15:04:05"

	REFERENCE_CURRENCY = "UAH"

	// Page size requested from the statements endpoint
	STATEMENTS_PAGE_LIMIT = 100

	DB_NAME             = "bankStatements"
	DAILY_TOTALS_SCHEMA = "daily_totals"
)
