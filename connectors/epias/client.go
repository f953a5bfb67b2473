// Package epias implements the connectors.MarketSource port against the
// EPIAS transparency platform.
package epias

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	coremetrics "github.com/santralytics/santralytics/core/metrics"
	"github.com/santralytics/santralytics/core/model"
	"github.com/santralytics/santralytics/infra/logger"
)

const (
	mcpPath      = "/electricity-service/v1/markets/dam/data/mcp"
	smpPath      = "/electricity-service/v1/markets/bpm/data/system-marginal-price"
	dppPath      = "/electricity-service/v1/generation/data/dpp-first-version"
	realtimePath = "/electricity-service/v1/generation/data/realtime-generation"
)

// ErrUnauthorized reports a ticket the platform refused even after a
// refresh.
var ErrUnauthorized = errors.New("transparency platform rejected the ticket")

// Authorizer places credentials on outgoing requests.
type Authorizer interface {
	SetAuthHeader(r *http.Request) error
}

// TicketRefresher is implemented by auth clients able to discard a
// rejected ticket and fetch a new one.
type TicketRefresher interface {
	ForceRefresh(ctx context.Context) (string, error)
}

// Client calls the EPIAS transparency platform. Ranges spanning several
// months are fetched in calendar-month chunks with a pause between
// requests.
type Client struct {
	conf Conf
	http *http.Client
	auth Authorizer
	log  logger.Logger
	sink coremetrics.Sink
}

// Option customizes the Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithSink records fetches in the given sink.
func WithSink(s coremetrics.Sink) Option {
	return func(c *Client) { c.sink = s }
}

// WithLogger overrides the component logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient builds a transparency platform client. auth provides the
// TGT header on every request.
func NewClient(conf Conf, auth Authorizer, opts ...Option) *Client {
	conf.SetDefaults()
	c := &Client{
		conf: conf,
		http: &http.Client{Timeout: time.Duration(conf.TimeoutSeconds) * time.Second},
		auth: auth,
		log:  logger.New("epias"),
		sink: coremetrics.NopSink{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// FetchMCP retrieves the day-ahead market clearing price (PTF).
func (c *Client) FetchMCP(ctx context.Context, rng model.DateRange) (model.HourlySeries, error) {
	return c.fetchSeries(ctx, seriesCall{
		endpoint: "mcp",
		path:     mcpPath,
		delay:    time.Duration(c.conf.PriceDelayMS) * time.Millisecond,
		body:     priceBody,
		decode:   decodeMCP,
	}, rng)
}

// FetchSMP retrieves the balancing market system marginal price (SMF).
func (c *Client) FetchSMP(ctx context.Context, rng model.DateRange) (model.HourlySeries, error) {
	return c.fetchSeries(ctx, seriesCall{
		endpoint: "smp",
		path:     smpPath,
		delay:    time.Duration(c.conf.PriceDelayMS) * time.Millisecond,
		body:     priceBody,
		decode:   decodeSMP,
	}, rng)
}

// FetchDPP retrieves the plant's final day-ahead production plan (KGUP).
func (c *Client) FetchDPP(ctx context.Context, rng model.DateRange, plant model.Plant) (model.HourlySeries, error) {
	if plant.OrganizationID == 0 || plant.UEVCBID == 0 {
		return nil, fmt.Errorf("plant %q carries no organization or uevcb id", plant.Name)
	}
	return c.fetchSeries(ctx, seriesCall{
		endpoint: "dpp",
		path:     dppPath,
		plant:    plant.Name,
		delay:    time.Duration(c.conf.PlantDelayMS) * time.Millisecond,
		body: func(chunk model.DateRange) any {
			return seriesRequest{
				StartDate:      stamp(chunk.Start),
				EndDate:        stamp(chunk.End),
				Region:         "TR1",
				OrganizationID: plant.OrganizationID,
				UEVCBID:        plant.UEVCBID,
			}
		},
		decode: decodeDPP,
	}, rng)
}

// FetchRealtime retrieves the plant's realized hourly generation.
func (c *Client) FetchRealtime(ctx context.Context, rng model.DateRange, plant model.Plant) (model.HourlySeries, error) {
	if plant.PlantID == 0 {
		return nil, fmt.Errorf("plant %q carries no power plant id", plant.Name)
	}
	return c.fetchSeries(ctx, seriesCall{
		endpoint: "realtime",
		path:     realtimePath,
		plant:    plant.Name,
		delay:    time.Duration(c.conf.PlantDelayMS) * time.Millisecond,
		body: func(chunk model.DateRange) any {
			return seriesRequest{
				StartDate:    stamp(chunk.Start),
				EndDate:      stamp(chunk.End),
				PowerPlantID: plant.PlantID,
			}
		},
		decode: decodeRealtime,
	}, rng)
}

func priceBody(chunk model.DateRange) any {
	return seriesRequest{StartDate: stamp(chunk.Start), EndDate: stamp(chunk.End)}
}

// seriesCall binds one endpoint to its request body and decoder.
type seriesCall struct {
	endpoint string // short name used in logs and metrics
	path     string
	plant    string // metric tag, empty for market-wide series
	delay    time.Duration
	body     func(chunk model.DateRange) any
	decode   func(data []byte) (model.HourlySeries, error)
}

func (c *Client) fetchSeries(ctx context.Context, call seriesCall, rng model.DateRange) (model.HourlySeries, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	var out model.HourlySeries
	for i, chunk := range rng.MonthChunks() {
		if i > 0 {
			if err := pause(ctx, call.delay); err != nil {
				return nil, err
			}
		}
		part, err := c.post(ctx, call, chunk)
		if err != nil {
			return nil, err
		}
		out = append(out, part...)
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, call seriesCall, chunk model.DateRange) (model.HourlySeries, error) {
	started := time.Now()
	payload, err := json.Marshal(call.body(chunk))
	if err != nil {
		return nil, err
	}

	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.conf.BaseURL+call.path, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Accept-Language", "en")
		if err := c.auth.SetAuthHeader(req); err != nil {
			return nil, fmt.Errorf("set auth header: %w", err)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			c.recordFetch(call, chunk, 0, started, err)
			return nil, fmt.Errorf("%s request: %w", call.endpoint, err)
		}
		data, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			c.recordFetch(call, chunk, 0, started, err)
			return nil, fmt.Errorf("%s response: %w", call.endpoint, err)
		}

		if resp.StatusCode == http.StatusUnauthorized && attempt == 0 {
			if r, ok := c.auth.(TicketRefresher); ok {
				c.log.Warnf("%s: ticket rejected, refreshing", call.endpoint)
				if _, err := r.ForceRefresh(ctx); err != nil {
					c.recordFetch(call, chunk, 0, started, err)
					return nil, fmt.Errorf("refresh ticket: %w", err)
				}
				continue
			}
		}
		if resp.StatusCode == http.StatusUnauthorized {
			err := fmt.Errorf("%s: %w (status %d)", call.endpoint, ErrUnauthorized, resp.StatusCode)
			c.recordFetch(call, chunk, 0, started, err)
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("%s: unexpected status code: %d, body: %s", call.endpoint, resp.StatusCode, data)
			c.recordFetch(call, chunk, 0, started, err)
			return nil, err
		}

		series, err := call.decode(data)
		if err != nil {
			c.recordFetch(call, chunk, 0, started, err)
			return nil, fmt.Errorf("%s decode: %w", call.endpoint, err)
		}
		c.recordFetch(call, chunk, len(series), started, nil)
		c.log.Debugw("series chunk fetched", map[string]any{
			"endpoint": call.endpoint,
			"start":    chunk.Start.Format("2006-01-02"),
			"end":      chunk.End.Format("2006-01-02"),
			"points":   len(series),
		})
		return series, nil
	}
}

func (c *Client) recordFetch(call seriesCall, chunk model.DateRange, points int, started time.Time, err error) {
	ev := coremetrics.FetchEvent{
		Endpoint: call.endpoint,
		Plant:    call.plant,
		Start:    chunk.Start,
		End:      chunk.End,
		Points:   points,
		Duration: time.Since(started),
		Time:     started,
	}
	if err != nil {
		ev.Error = err.Error()
	}
	if rerr := c.sink.RecordFetch(ev); rerr != nil {
		c.log.Warnf("fetch metric not recorded: %v", rerr)
	}
}

// pause waits for the rate-limit delay or the context, whichever ends
// first.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
