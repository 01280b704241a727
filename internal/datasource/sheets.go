package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/clever-picks/internal/metrics"
	"github.com/yourusername/clever-picks/internal/models"
)

const sheetsSourceName = "google_sheets"

// SheetsClient implements TabularSource over the Google Sheets values API.
// Each category is a worksheet whose first row is the header.
type SheetsClient struct {
	httpClient    *RateLimitedHTTPClient
	baseURL       string
	spreadsheetID string
	apiKey        string
	accessToken   string
	logger        *logrus.Entry
}

// sheetValues is the body of a values.get response
type sheetValues struct {
	Range          string          `json:"range"`
	MajorDimension string          `json:"majorDimension"`
	Values         [][]interface{} `json:"values"`
}

// NewSheetsClient creates a new Sheets values API client
func NewSheetsClient(httpClient *RateLimitedHTTPClient, baseURL, spreadsheetID, apiKey, accessToken string, logger *logrus.Logger) *SheetsClient {
	if logger == nil {
		logger = logrus.New()
	}
	return &SheetsClient{
		httpClient:    httpClient,
		baseURL:       strings.TrimRight(baseURL, "/"),
		spreadsheetID: spreadsheetID,
		apiKey:        apiKey,
		accessToken:   accessToken,
		logger:        logger.WithField("source", sheetsSourceName),
	}
}

// Name returns the data source name
func (c *SheetsClient) Name() string {
	return sheetsSourceName
}

// FetchCategory retrieves all rows of one worksheet keyed by its header row
func (c *SheetsClient) FetchCategory(ctx context.Context, category string) ([]models.RawRecord, error) {
	if c.spreadsheetID == "" {
		return nil, NewDataSourceError(sheetsSourceName, ErrCodeAuthenticationFailed, "spreadsheet id not configured", nil)
	}

	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s", c.baseURL, url.PathEscape(c.spreadsheetID), url.PathEscape(category))
	query := url.Values{}
	query.Set("valueRenderOption", "UNFORMATTED_VALUE")
	query.Set("majorDimension", "ROWS")
	if c.apiKey != "" {
		query.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, NewDataSourceError(sheetsSourceName, ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	timer := metrics.NewSourceTimer(sheetsSourceName)
	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		timer.Observe(ErrCodeNetworkError)
		return nil, NewDataSourceError(sheetsSourceName, ErrCodeNetworkError, "failed to fetch "+category, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		dsErr := statusError(sheetsSourceName, resp.StatusCode, string(body))
		timer.Observe(dsErr.Code)
		return nil, dsErr
	}

	var payload sheetValues
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		timer.Observe(ErrCodeInvalidData)
		return nil, NewDataSourceError(sheetsSourceName, ErrCodeInvalidData, "failed to parse response", err)
	}
	timer.Observe("ok")

	records := rowsToRecords(payload.Values)
	c.logger.WithFields(logrus.Fields{
		"category": category,
		"rows":     len(records),
	}).Debug("Fetched sheet category")

	return records, nil
}

// rowsToRecords turns a header row plus data rows into keyed records.
// Empty header cells are skipped and short rows are padded with "".
func rowsToRecords(rows [][]interface{}) []models.RawRecord {
	if len(rows) == 0 {
		return []models.RawRecord{}
	}

	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = strings.TrimSpace(cellText(cell))
	}

	records := make([]models.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(models.RawRecord, len(header))
		blank := true
		for i, name := range header {
			if name == "" {
				continue
			}
			var text string
			if i < len(row) {
				text = cellText(row[i])
			}
			if strings.TrimSpace(text) != "" {
				blank = false
			}
			record[name] = text
		}
		if blank {
			continue
		}
		records = append(records, record)
	}
	return records
}

func cellText(cell interface{}) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	default:
		return fmt.Sprint(v)
	}
}
