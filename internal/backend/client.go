package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fleetops/fleet-reports/internal/models"
	"go.uber.org/zap"
)

// Config holds fleet backend client configuration
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	Paths   map[models.Kind]string // collection path per kind, defaults applied for missing kinds
}

// DefaultPaths are the collection endpoints of the fleet backend
var DefaultPaths = map[models.Kind]string{
	models.KindAttendance:  "/api/attendance",
	models.KindFuel:        "/api/fuel",
	models.KindMaintenance: "/api/maintenance",
	models.KindAdvance:     "/api/advances",
	models.KindBorderTax:   "/api/border-tax",
	models.KindFastag:      "/api/fastag-recharges",
	models.KindParking:     "/api/parking",
	models.KindAccident:    "/api/accident-logs",
}

// Client reads record collections from the fleet backend and dispatches deletes
type Client struct {
	baseURL    string
	token      string
	paths      map[models.Kind]string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new fleet backend client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	paths := make(map[models.Kind]string, len(DefaultPaths))
	for k, p := range DefaultPaths {
		paths[k] = p
	}
	for k, p := range cfg.Paths {
		if p != "" {
			paths[k] = p
		}
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		paths:      paths,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// FetchAttendance lists duty sessions
func (c *Client) FetchAttendance(ctx context.Context, q models.RangeQuery) ([]models.Attendance, error) {
	return fetchList[models.Attendance](ctx, c, models.KindAttendance, q)
}

// FetchFuel lists fuel purchases
func (c *Client) FetchFuel(ctx context.Context, q models.RangeQuery) ([]models.Fuel, error) {
	return fetchList[models.Fuel](ctx, c, models.KindFuel, q)
}

// FetchMaintenance lists garage bills
func (c *Client) FetchMaintenance(ctx context.Context, q models.RangeQuery) ([]models.Maintenance, error) {
	return fetchList[models.Maintenance](ctx, c, models.KindMaintenance, q)
}

// FetchAdvances lists driver advances
func (c *Client) FetchAdvances(ctx context.Context, q models.RangeQuery) ([]models.Advance, error) {
	return fetchList[models.Advance](ctx, c, models.KindAdvance, q)
}

// FetchBorderTax lists border tax payments
func (c *Client) FetchBorderTax(ctx context.Context, q models.RangeQuery) ([]models.BorderTax, error) {
	return fetchList[models.BorderTax](ctx, c, models.KindBorderTax, q)
}

// FetchFastag lists fastag recharges
func (c *Client) FetchFastag(ctx context.Context, q models.RangeQuery) ([]models.FastagRecharge, error) {
	return fetchList[models.FastagRecharge](ctx, c, models.KindFastag, q)
}

// FetchParking lists parking charges
func (c *Client) FetchParking(ctx context.Context, q models.RangeQuery) ([]models.Parking, error) {
	return fetchList[models.Parking](ctx, c, models.KindParking, q)
}

// FetchAccidents lists accident logs
func (c *Client) FetchAccidents(ctx context.Context, q models.RangeQuery) ([]models.Accident, error) {
	return fetchList[models.Accident](ctx, c, models.KindAccident, q)
}

// Delete removes one record through the kind's delete endpoint
func (c *Client) Delete(ctx context.Context, kind models.Kind, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrMissingRecordID
	}
	endpoint, err := c.endpoint(kind, url.PathEscape(id))
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build delete request: %w", err)
	}

	if _, err := c.do(req); err != nil {
		c.logger.Warn("Backend delete failed",
			zap.String("kind", string(kind)),
			zap.String("record_id", id),
			zap.Error(err))
		return err
	}

	c.logger.Info("Backend record deleted",
		zap.String("kind", string(kind)),
		zap.String("record_id", id))
	return nil
}

func fetchList[T any](ctx context.Context, c *Client, kind models.Kind, q models.RangeQuery) ([]T, error) {
	endpoint, err := c.endpoint(kind, "")
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("companyId", q.CompanyID)
	if q.StartDate != "" {
		params.Set("startDate", q.StartDate)
	}
	if q.EndDate != "" {
		params.Set("endDate", q.EndDate)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", kind, err)
	}

	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", kind, err)
	}

	items, err := unwrapList(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", kind, err)
	}

	records := make([]T, 0, len(items))
	skipped := 0
	for _, raw := range items {
		var rec T
		if err := json.Unmarshal(raw, &rec); err != nil {
			var typeErr *json.UnmarshalTypeError
			if !errors.As(err, &typeErr) {
				skipped++
				continue
			}
			// Field-level type mismatch: keep what decoded
		}
		records = append(records, rec)
	}

	if skipped > 0 {
		c.logger.Warn("Skipped undecodable records",
			zap.String("kind", string(kind)),
			zap.Int("skipped", skipped))
	}

	c.logger.Debug("Fetched records",
		zap.String("kind", string(kind)),
		zap.String("company_id", q.CompanyID),
		zap.Int("count", len(records)))

	return records, nil
}

func (c *Client) endpoint(kind models.Kind, id string) (string, error) {
	path, ok := c.paths[kind]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	endpoint := c.baseURL + path
	if id != "" {
		endpoint += "/" + id
	}
	return endpoint, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}
	return body, nil
}

// unwrapList accepts a bare JSON array or an envelope with a "data" array
func unwrapList(body []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var items []json.RawMessage
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var envelope struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
