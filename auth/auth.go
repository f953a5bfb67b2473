// Package auth acquires and caches the CAS ticket granting ticket (TGT)
// used to call the EPIAS transparency platform.
package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	coremetrics "github.com/santralytics/santralytics/core/metrics"
	"github.com/santralytics/santralytics/infra/logger"
)

// ErrAuthFailed reports rejected credentials.
var ErrAuthFailed = errors.New("cas authentication failed")

const (
	// ticketTTL is the documented CAS ticket lifetime.
	ticketTTL = 2 * time.Hour
	// expiryMargin renews the ticket before it lapses so an in-flight
	// request does not outlive it.
	expiryMargin = 5 * time.Minute
)

// Client obtains ticket granting tickets from the CAS endpoint and hands
// them out to API calls. Safe for concurrent use.
type Client struct {
	conf Conf
	http *http.Client
	log  logger.Logger
	sink coremetrics.Sink

	mu      sync.Mutex
	ticket  string
	expires time.Time
}

// Option customizes the Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithSink records ticket acquisitions in the given sink.
func WithSink(s coremetrics.Sink) Option {
	return func(c *Client) { c.sink = s }
}

// WithLogger overrides the component logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient builds a Client for the configured credentials.
func NewClient(conf Conf, opts ...Option) *Client {
	conf.SetDefaults()
	c := &Client{
		conf: conf,
		http: &http.Client{Timeout: 30 * time.Second},
		log:  logger.New("auth"),
		sink: coremetrics.NopSink{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// GetToken returns a valid ticket, serving it from the in-memory or
// on-disk cache when possible and requesting a fresh one otherwise.
func (c *Client) GetToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	if c.valid(now) {
		return c.ticket, nil
	}
	if c.conf.CacheFile != "" {
		if tgt, exp, ok := loadTicket(c.conf.CacheFile, c.conf.Username, now); ok {
			c.ticket, c.expires = tgt, exp
			c.recordAuth(coremetrics.AuthEvent{Cached: true, Time: now})
			c.log.Debugf("ticket loaded from cache, valid until %s", exp.Format(time.RFC3339))
			return c.ticket, nil
		}
	}
	return c.requestTicket(ctx)
}

// ForceRefresh discards any cached ticket and requests a new one.
func (c *Client) ForceRefresh(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requestTicket(ctx)
}

// SetAuthHeader places the ticket in the TGT header expected by the
// transparency platform.
func (c *Client) SetAuthHeader(r *http.Request) error {
	tgt, err := c.GetToken(r.Context())
	if err != nil {
		return err
	}
	r.Header.Set("TGT", tgt)
	return nil
}

// requestTicket performs the CAS form post. Callers hold c.mu.
func (c *Client) requestTicket(ctx context.Context) (string, error) {
	started := time.Now()
	form := url.Values{"username": {c.conf.Username}, "password": {c.conf.Password}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.conf.CasURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/plain")

	resp, err := c.http.Do(req)
	if err != nil {
		c.recordAuth(coremetrics.AuthEvent{Duration: time.Since(started), Error: err.Error(), Time: started})
		return "", fmt.Errorf("cas request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.recordAuth(coremetrics.AuthEvent{Duration: time.Since(started), Error: err.Error(), Time: started})
		return "", fmt.Errorf("cas response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(body))
		reqErr := fmt.Errorf("cas status %d: %s", resp.StatusCode, msg)
		switch resp.StatusCode {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
			reqErr = fmt.Errorf("%w: status %d: %s", ErrAuthFailed, resp.StatusCode, msg)
		}
		c.recordAuth(coremetrics.AuthEvent{Duration: time.Since(started), Error: reqErr.Error(), Time: started})
		return "", reqErr
	}

	tgt := strings.TrimSpace(string(body))
	if tgt == "" {
		reqErr := fmt.Errorf("%w: empty ticket in response", ErrAuthFailed)
		c.recordAuth(coremetrics.AuthEvent{Duration: time.Since(started), Error: reqErr.Error(), Time: started})
		return "", reqErr
	}

	c.ticket = tgt
	c.expires = started.Add(ticketTTL)
	if c.conf.CacheFile != "" {
		if err := saveTicket(c.conf.CacheFile, c.conf.Username, tgt, c.expires); err != nil {
			c.log.Warnf("ticket cache not saved: %v", err)
		}
	}
	c.recordAuth(coremetrics.AuthEvent{Duration: time.Since(started), Time: started})
	c.log.Infof("cas ticket acquired, valid until %s", c.expires.Format(time.RFC3339))
	return tgt, nil
}

func (c *Client) valid(now time.Time) bool {
	return c.ticket != "" && now.Add(expiryMargin).Before(c.expires)
}

func (c *Client) recordAuth(ev coremetrics.AuthEvent) {
	r, ok := c.sink.(coremetrics.AuthRecorder)
	if !ok {
		return
	}
	if err := r.RecordAuth(ev); err != nil {
		c.log.Warnf("auth metric not recorded: %v", err)
	}
}
