package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"carousel/pkg/httputil"
)

const (
	defaultBaseURL     = "https://api.telegram.org"
	defaultPollTimeout = 30
	// Added to the long-poll timeout so the HTTP client never gives up first.
	timeoutSlack = 5 * time.Second
)

type Client struct {
	token       string
	baseURL     string
	pollTimeout int
	retry       httputil.RetryConfig
	httpClient  *httputil.RetryClient
}

type Option func(*Client)

// WithBaseURL points the client at a Bot API compatible server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithPollTimeout sets the getUpdates long-poll timeout in seconds.
func WithPollTimeout(seconds int) Option {
	return func(c *Client) {
		if seconds > 0 {
			c.pollTimeout = seconds
		}
	}
}

func WithRetryConfig(cfg httputil.RetryConfig) Option {
	return func(c *Client) { c.retry = cfg }
}

func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		token:       token,
		baseURL:     defaultBaseURL,
		pollTimeout: defaultPollTimeout,
		retry:       httputil.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}

	timeout := time.Duration(c.pollTimeout)*time.Second + timeoutSlack
	c.httpClient = httputil.NewRetryClient(&http.Client{Timeout: timeout}, c.retry)
	return c
}

func (c *Client) methodURL(method string) string {
	return c.baseURL + "/bot" + c.token + "/" + method
}

func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	payload := map[string]any{
		"chat_id": chatID,
		"text":    text,
	}
	return c.postJSON(ctx, "sendMessage", payload, nil)
}

// SendDocument uploads r as a file attachment named filename.
func (c *Client) SendDocument(ctx context.Context, chatID int64, filename string, r io.Reader, caption string) (*MessageResponse, error) {
	return c.sendFile(ctx, "sendDocument", "document", chatID, filename, r, caption)
}

func (c *Client) SendPhoto(ctx context.Context, chatID int64, filename string, r io.Reader, caption string) (*MessageResponse, error) {
	return c.sendFile(ctx, "sendPhoto", "photo", chatID, filename, r, caption)
}

func (c *Client) sendFile(ctx context.Context, method, field string, chatID int64, filename string, r io.Reader, caption string) (*MessageResponse, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	_ = writer.WriteField("chat_id", strconv.FormatInt(chatID, 10))
	if caption != "" {
		_ = writer.WriteField("caption", caption)
	}

	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("copy %s: %w", field, err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL(method), bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var result MessageResponse
	if err := c.do(req, &result); err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	return &result, nil
}

// GetUpdates long-polls for updates with IDs at or above offset.
func (c *Client) GetUpdates(ctx context.Context, offset int) ([]Update, error) {
	query := url.Values{}
	query.Set("offset", strconv.Itoa(offset))
	query.Set("timeout", strconv.Itoa(c.pollTimeout))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.methodURL("getUpdates")+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	var updates []Update
	if err := c.do(req, &updates); err != nil {
		return nil, fmt.Errorf("get updates: %w", err)
	}
	return updates, nil
}

func (c *Client) postJSON(ctx context.Context, method string, payload, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL(method), bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if err := c.do(req, out); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var result apiResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("request failed: %s - %s", resp.Status, string(body))
	}
	if !result.Ok {
		return fmt.Errorf("telegram error %d: %s", result.ErrorCode, result.Description)
	}

	if out == nil || len(result.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(result.Result, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
