package quotes

import "fmt"

// quoteResponse is one symbol's end-of-day row as returned by the API.
type quoteResponse struct {
	Symbol        string  `json:"symbol"`
	Value         float64 `json:"value"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
}

// APIError represents an error response from the quotes API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("quotes API error %d: %s", e.StatusCode, e.Message)
}
