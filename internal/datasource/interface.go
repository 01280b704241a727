package datasource

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/yourusername/clever-picks/internal/models"
)

// TabularSource supplies keyed rows of team statistics per category.
type TabularSource interface {
	// FetchCategory retrieves every row of the named category (e.g. "Batting Stats")
	FetchCategory(ctx context.Context, category string) ([]models.RawRecord, error)

	// Name returns the name of the data source
	Name() string
}

// MarketSource supplies live moneyline quotes.
type MarketSource interface {
	// FetchQuotes returns the games currently listed; an empty slice is not an error
	FetchQuotes(ctx context.Context) ([]models.MarketQuote, error)

	// Name returns the name of the data source
	Name() string
}

// QuotaReporter is implemented by metered sources that report their
// remaining request allowance.
type QuotaReporter interface {
	RequestsRemaining() (float64, bool)
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

// Unwrap collapses every transport failure into models.ErrSourceUnavailable.
func (e DataSourceError) Unwrap() error {
	return models.ErrSourceUnavailable
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeUnknown              = "unknown"
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ErrorCode extracts the code of a DataSourceError, or ErrCodeUnknown.
func ErrorCode(err error) string {
	var dsErr DataSourceError
	if errors.As(err, &dsErr) {
		return dsErr.Code
	}
	return ErrCodeUnknown
}

// statusError maps a non-200 status to a DataSourceError.
func statusError(source string, status int, body string) DataSourceError {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return NewDataSourceError(source, ErrCodeAuthenticationFailed, "credentials rejected", nil)
	case status == http.StatusNotFound:
		return NewDataSourceError(source, ErrCodeNotFound, "resource not found", nil)
	case status == http.StatusTooManyRequests:
		return NewDataSourceError(source, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	default:
		return NewDataSourceError(source, ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", status, body), nil)
	}
}
