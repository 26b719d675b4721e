package feeds

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"dsu-attendance/app/payload"
)

const (
	defaultTimeout = 15 * time.Second
	maxRedirects   = 5
	userAgent      = "dsu-attendance/1.0"
)

var (
	ErrNotConfigured    = errors.New("feed url is not configured")
	ErrUnexpectedStatus = errors.New("unexpected feed status")
	ErrTooManyRedirects = errors.New("too many redirects")
)

// Client fetches the spreadsheet-backed JSON feeds.
type Client struct {
	logger  *zap.Logger
	timeout time.Duration
}

func NewClient(timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{logger: logger.Named("feeds"), timeout: timeout}
}

// Fetch GETs rawURL and decodes the body. Apps Script endpoints answer with
// a redirect to a different content host, so redirects are followed hop by
// hop, each hop with its own agent.
func (c *Client) Fetch(ctx context.Context, rawURL string) (payload.Value, error) {
	if rawURL == "" {
		return payload.Null(), ErrNotConfigured
	}

	start := time.Now()
	resp := fiber.AcquireResponse()
	defer fiber.ReleaseResponse(resp)

	target := rawURL
	for hop := 0; ; hop++ {
		timeout, err := c.hopTimeout(ctx)
		if err != nil {
			return payload.Null(), err
		}

		resp.Reset()
		code, body, errs := fiber.Get(target).
			Timeout(timeout).
			UserAgent(userAgent).
			Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON).
			SetResponse(resp).
			Bytes()
		if len(errs) > 0 {
			return payload.Null(), fmt.Errorf("fetch %s: %w", rawURL, errors.Join(errs...))
		}

		if isRedirect(code) {
			if hop >= maxRedirects {
				return payload.Null(), fmt.Errorf("fetch %s: %w", rawURL, ErrTooManyRedirects)
			}
			next, err := resolveLocation(target, string(resp.Header.Peek(fiber.HeaderLocation)))
			if err != nil {
				return payload.Null(), fmt.Errorf("fetch %s: %w", rawURL, err)
			}
			target = next
			continue
		}

		if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
			return payload.Null(), fmt.Errorf("fetch %s: %w: %d", rawURL, ErrUnexpectedStatus, code)
		}

		v, err := payload.Decode(body)
		if err != nil {
			return payload.Null(), fmt.Errorf("fetch %s: %w", rawURL, err)
		}

		c.logger.Debug("fetched feed",
			zap.String("url", rawURL),
			zap.Int("status", code),
			zap.Int("redirects", hop),
			zap.Int("bytes", len(body)),
			zap.Duration("took", time.Since(start)),
		)
		return v, nil
	}
}

// hopTimeout is the client timeout, shortened to the context deadline.
func (c *Client) hopTimeout(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return 0, context.DeadlineExceeded
	}
	return timeout, nil
}

func isRedirect(code int) bool {
	switch code {
	case fiber.StatusMovedPermanently, fiber.StatusFound, fiber.StatusSeeOther,
		fiber.StatusTemporaryRedirect, fiber.StatusPermanentRedirect:
		return true
	}
	return false
}

func resolveLocation(base, location string) (string, error) {
	if location == "" {
		return "", errors.New("redirect without location")
	}
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	l, err := url.Parse(location)
	if err != nil {
		return "", err
	}
	return b.ResolveReference(l).String(), nil
}
