package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"
)

const defaultBaseURL = "https://api.telegram.org"

const (
	textTimeout     = 10 * time.Second
	documentTimeout = 30 * time.Second
	defaultAttempts = 3
)

// DeliveryError is returned once all attempts for one send are exhausted.
// It wraps the last underlying failure.
type DeliveryError struct {
	Op       string
	Attempts int
	Err      error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%s failed after %d attempts: %v", e.Op, e.Attempts, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

type Config struct {
	Token       string
	BaseURL     string
	MaxAttempts int
}

// Client sends messages and documents to Telegram chats with bounded
// retries. A rate-limited response waits exactly the server-specified
// duration; any other failure backs off exponentially. Cancellation is
// honored only at the inter-attempt sleep, never mid-transmission.
type Client struct {
	token       string
	baseURL     string
	maxAttempts int

	textClient *http.Client
	docClient  *http.Client

	sleep func(ctx context.Context, d time.Duration) error
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("telegram bot token is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultAttempts
	}

	return &Client{
		token:       cfg.Token,
		baseURL:     baseURL,
		maxAttempts: maxAttempts,
		textClient:  &http.Client{Timeout: textTimeout},
		docClient:   &http.Client{Timeout: documentTimeout},
		sleep:       sleepCtx,
	}, nil
}

// SendMessage delivers a plain text message to a chat.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	payload, err := json.Marshal(map[string]any{
		"chat_id": chatID,
		"text":    text,
	})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return c.withRetry(ctx, "sendMessage", func(ctx context.Context) (time.Duration, error) {
		req, err := http.NewRequestWithContext(
			ctx, http.MethodPost, c.methodURL("sendMessage"), bytes.NewReader(payload))
		if err != nil {
			return 0, err
		}
		req.Header.Set("Content-Type", "application/json")
		return c.do(c.textClient, req)
	})
}

// SendDocument uploads a binary document with a caption to a chat.
func (c *Client) SendDocument(ctx context.Context, chatID int64, doc []byte, filename, caption string) error {
	return c.withRetry(ctx, "sendDocument", func(ctx context.Context) (time.Duration, error) {
		var body bytes.Buffer
		w := multipart.NewWriter(&body)

		if err := w.WriteField("chat_id", strconv.FormatInt(chatID, 10)); err != nil {
			return 0, err
		}
		if caption != "" {
			if err := w.WriteField("caption", caption); err != nil {
				return 0, err
			}
		}
		part, err := w.CreateFormFile("document", filename)
		if err != nil {
			return 0, err
		}
		if _, err := part.Write(doc); err != nil {
			return 0, err
		}
		if err := w.Close(); err != nil {
			return 0, err
		}

		req, err := http.NewRequestWithContext(
			ctx, http.MethodPost, c.methodURL("sendDocument"), &body)
		if err != nil {
			return 0, err
		}
		req.Header.Set("Content-Type", w.FormDataContentType())
		return c.do(c.docClient, req)
	})
}

// withRetry runs one attempt function up to maxAttempts times. A returned
// retryAfter overrides the exponential backoff for that attempt's wait.
func (c *Client) withRetry(
	ctx context.Context,
	op string,
	attempt func(ctx context.Context) (time.Duration, error),
) error {
	var lastErr error
	for n := 1; n <= c.maxAttempts; n++ {
		retryAfter, err := attempt(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if n == c.maxAttempts {
			break
		}

		wait := time.Duration(1<<uint(n)) * time.Second
		if retryAfter > 0 {
			wait = retryAfter
		}
		if err := c.sleep(ctx, wait); err != nil {
			return err
		}
	}
	return &DeliveryError{Op: op, Attempts: c.maxAttempts, Err: lastErr}
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
	Parameters  *struct {
		RetryAfter int `json:"retry_after"`
	} `json:"parameters"`
}

// do executes one attempt and extracts the server-specified wait from
// rate-limited responses.
func (c *Client) do(client *http.Client, req *http.Request) (time.Duration, error) {
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("read response: %w", err)
	}

	var api apiResponse
	if err := json.Unmarshal(body, &api); err == nil && api.OK {
		return 0, nil
	}

	if resp.StatusCode == http.StatusTooManyRequests && api.Parameters != nil {
		retryAfter := time.Duration(api.Parameters.RetryAfter) * time.Second
		return retryAfter, fmt.Errorf("rate limited, retry after %s", retryAfter)
	}

	if api.Description != "" {
		return 0, fmt.Errorf("telegram api: %s", api.Description)
	}
	return 0, fmt.Errorf("telegram api: unexpected status %d", resp.StatusCode)
}

func (c *Client) methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
