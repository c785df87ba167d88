package statements

// statementsResponse is one page of the statements endpoint.
type statementsResponse struct {
	Status        string           `json:"status"`
	Type          string           `json:"type"`
	ExistNextPage bool             `json:"exist_next_page"`
	NextPageID    string           `json:"next_page_id"`
	Transactions  []apiTransaction `json:"transactions"`
}

type apiTransaction struct {
	ID          string `json:"ID"`
	AccountID   string `json:"AUT_MY_ACC"`
	AccountName string `json:"AUT_MY_NAM"`
	Currency    string `json:"CCY"`
	Sum         string `json:"SUM"`
	SumRef      string `json:"SUM_E"`
	TranType    string `json:"TRANTYPE"`
	State       string `json:"PR_PR"`
	DateTime    string `json:"DATE_TIME_DAT_OD_TIM_P"`
	Purpose     string `json:"OSND"`
}

const (
	statusSuccess = "SUCCESS"

	// realized transactions; pending and rejected ones are skipped
	stateRealized = "r"

	tranTypeCredit = "C"
	tranTypeDebit  = "D"
)
