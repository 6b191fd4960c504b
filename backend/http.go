package backend

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/stocksense/procurebot/document"
)

const requestTimeout = 30 * time.Second

// HTTPClient implements Client against the procurement backend's REST API.
type HTTPClient struct {
	baseURL string
	tempDir string
	http    *http.Client
	log     zerolog.Logger
}

// HTTPClientOption defines a function type to modify the HTTPClient instance.
type HTTPClientOption func(*HTTPClient)

// WithHTTPClient overrides the underlying http.Client (primarily for testing).
func WithHTTPClient(c *http.Client) HTTPClientOption {
	return func(h *HTTPClient) {
		h.http = c
	}
}

// WithLogger sets the client's logger.
func WithLogger(log zerolog.Logger) HTTPClientOption {
	return func(h *HTTPClient) {
		h.log = log
	}
}

// NewHTTPClient creates a backend client. Chart images received as base64 are
// staged under tempDir for the transport adapter to pick up and delete.
func NewHTTPClient(baseURL, tempDir string, options ...HTTPClientOption) (*HTTPClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("[NewHTTPClient] baseURL is required")
	}
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return nil, fmt.Errorf("[NewHTTPClient] create temp dir: %w", err)
	}

	h := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		tempDir: tempDir,
		http:    &http.Client{Timeout: requestTimeout},
		log:     zerolog.Nop(),
	}
	for _, opt := range options {
		opt(h)
	}
	return h, nil
}

// SearchProducts returns catalog item names matching the query
func (h *HTTPClient) SearchProducts(ctx context.Context, query string) ([]string, error) {
	var names []string
	err := h.getJSON(ctx, "/search-product", url.Values{"product": {query}}, &names)
	if err != nil {
		return nil, err
	}
	return names, nil
}

// StockSnapshot reports current stock for an exact product name
func (h *HTTPClient) StockSnapshot(ctx context.Context, product string) (*StockSnapshot, error) {
	var payload struct {
		Message string `json:"message"`
		Image   string `json:"image"`
	}
	if err := h.getJSON(ctx, "/check-remainings", url.Values{"product": {product}}, &payload); err != nil {
		return nil, err
	}

	imagePath, err := h.stageImage(payload.Image)
	if err != nil {
		return nil, fmt.Errorf("[HTTPClient.StockSnapshot] %w", err)
	}
	return &StockSnapshot{Message: payload.Message, ImagePath: imagePath}, nil
}

// Forecast predicts demand for a product over the given number of months
func (h *HTTPClient) Forecast(ctx context.Context, product string, months int) (*Forecast, error) {
	var payload struct {
		Message string `json:"message"`
		Image1  string `json:"image1"`
		Image2  string `json:"image2"`
	}
	params := url.Values{"product": {product}, "month": {strconv.Itoa(months)}}
	if err := h.getJSON(ctx, "/predict", params, &payload); err != nil {
		return nil, err
	}

	consumption, err := h.stageImage(payload.Image1)
	if err != nil {
		return nil, fmt.Errorf("[HTTPClient.Forecast] consumption chart: %w", err)
	}
	forecast, err := h.stageImage(payload.Image2)
	if err != nil {
		return nil, fmt.Errorf("[HTTPClient.Forecast] forecast chart: %w", err)
	}
	return &Forecast{
		Message:              payload.Message,
		ConsumptionImagePath: consumption,
		ForecastImagePath:    forecast,
	}, nil
}

// AssembleDocument builds a draft purchase request
func (h *HTTPClient) AssembleDocument(ctx context.Context, product string, userID int64, quantity int, startDate, endDate string) (*document.Draft, bool, error) {
	var payload struct {
		MP struct {
			document.Draft
			HasWarning bool `json:"has_warning"`
		} `json:"mp"`
	}
	params := url.Values{
		"product":    {product},
		"id_user":    {strconv.FormatInt(userID, 10)},
		"predict":    {strconv.Itoa(quantity)},
		"start_date": {startDate},
		"end_date":   {endDate},
	}
	if err := h.getJSON(ctx, "/get-json", params, &payload); err != nil {
		return nil, false, err
	}

	draft := payload.MP.Draft
	draft.Normalize()
	return &draft, payload.MP.HasWarning, nil
}

// ClassifyIntent extracts the (action, product, period) triple from free text.
// The classifier endpoint answers with a comma-separated code line like
// "2, бумага А4, 90"; "-" marks an unextracted slot.
func (h *HTTPClient) ClassifyIntent(ctx context.Context, text string) (*Intent, error) {
	raw, err := h.getText(ctx, "/user-action", url.Values{"message": {text}})
	if err != nil {
		return nil, err
	}
	return parseIntentCode(raw), nil
}

// AddTrackedItem puts a product on the user's monitoring list
func (h *HTTPClient) AddTrackedItem(ctx context.Context, userID int64, product string) (bool, error) {
	return h.monitoringCall(ctx, http.MethodPost, "/monitoring/add", userID, product)
}

// RemoveTrackedItem removes a product from the user's monitoring list
func (h *HTTPClient) RemoveTrackedItem(ctx context.Context, userID int64, product string) (bool, error) {
	return h.monitoringCall(ctx, http.MethodDelete, "/monitoring/delete", userID, product)
}

// ListTrackedItems lists the user's monitored products
func (h *HTTPClient) ListTrackedItems(ctx context.Context, userID int64) ([]string, error) {
	var names []string
	params := url.Values{"user_id": {strconv.FormatInt(userID, 10)}}
	if err := h.getJSON(ctx, "/monitoring/all", params, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// StockAlerts returns low-stock notifications for the user's tracked items
func (h *HTTPClient) StockAlerts(ctx context.Context, userID int64) ([]string, error) {
	var alerts []string
	params := url.Values{"user_id": {strconv.FormatInt(userID, 10)}}
	if err := h.getJSON(ctx, "/monitoring/schedule", params, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

// UploadSpreadsheet ingests an admin-supplied xlsx file via multipart upload
func (h *HTTPClient) UploadSpreadsheet(ctx context.Context, kind UploadKind, filename string, data []byte) error {
	path := "/upload/remainings"
	if kind == UploadAccountTurnovers {
		path = "/upload/turnovers"
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("[HTTPClient.UploadSpreadsheet] create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("[HTTPClient.UploadSpreadsheet] write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("[HTTPClient.UploadSpreadsheet] close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+path, &body)
	if err != nil {
		return fmt.Errorf("[HTTPClient.UploadSpreadsheet] build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := h.http.Do(req)
	if err != nil {
		return fmt.Errorf("[HTTPClient.UploadSpreadsheet] %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("[HTTPClient.UploadSpreadsheet] backend returned %s", resp.Status)
	}
	return nil
}

// PollLawUpdates returns a procurement-law news digest, or "" when quiet
func (h *HTTPClient) PollLawUpdates(ctx context.Context) (string, error) {
	raw, err := h.getText(ctx, "/law-update", nil)
	if err != nil {
		return "", err
	}
	if raw == "No updates in law" {
		return "", nil
	}
	return raw, nil
}

func (h *HTTPClient) monitoringCall(ctx context.Context, method, path string, userID int64, product string) (bool, error) {
	params := url.Values{"user_id": {strconv.FormatInt(userID, 10)}, "product": {product}}
	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return false, fmt.Errorf("[HTTPClient.monitoringCall] build request: %w", err)
	}
	resp, err := h.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("[HTTPClient.monitoringCall] %s: %w", path, err)
	}
	defer resp.Body.Close()
	return resp.StatusCode/100 == 2, nil
}

func (h *HTTPClient) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	body, err := h.get(ctx, path, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("[HTTPClient.getJSON] decode %s: %w", path, err)
	}
	return nil
}

func (h *HTTPClient) getText(ctx context.Context, path string, params url.Values) (string, error) {
	body, err := h.get(ctx, path, params)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

func (h *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	target := h.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("[HTTPClient.get] build request: %w", err)
	}

	resp, err := h.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("[HTTPClient.get] %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("[HTTPClient.get] %s returned %s", path, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("[HTTPClient.get] read %s: %w", path, err)
	}
	return body, nil
}

// stageImage decodes a base64 chart into a temp png and returns its path.
// An empty payload stages nothing and returns "".
func (h *HTTPClient) stageImage(encoded string) (string, error) {
	if encoded == "" {
		return "", nil
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	name := filepath.Join(h.tempDir, fmt.Sprintf("%d.png", time.Now().UnixNano()))
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return "", fmt.Errorf("stage image: %w", err)
	}
	return name, nil
}

// parseIntentCode parses the classifier's "kind, product, days" answer. Any
// malformed line collapses to IntentUnknown so the dialog re-prompts instead
// of failing.
func parseIntentCode(raw string) *Intent {
	parts := strings.Split(raw, ",")
	if len(parts) != 3 {
		return &Intent{Kind: IntentUnknown}
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	intent := &Intent{}
	switch parts[0] {
	case "1":
		intent.Kind = IntentStock
	case "2":
		intent.Kind = IntentForecast
	default:
		return &Intent{Kind: IntentUnknown}
	}

	if parts[1] != "-" {
		intent.Product = parts[1]
	}
	if parts[2] != "-" {
		days, err := strconv.Atoi(parts[2])
		if err != nil {
			return &Intent{Kind: IntentUnknown}
		}
		intent.PeriodDays = days
	}
	return intent
}
