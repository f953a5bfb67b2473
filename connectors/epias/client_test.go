package epias

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/santralytics/santralytics/core/metrics"
	"github.com/santralytics/santralytics/core/model"
)

type staticAuth struct {
	ticket string
}

func (a staticAuth) SetAuthHeader(r *http.Request) error {
	r.Header.Set("TGT", a.ticket)
	return nil
}

type refreshingAuth struct {
	ticket    string
	refreshes int
}

func (a *refreshingAuth) SetAuthHeader(r *http.Request) error {
	r.Header.Set("TGT", a.ticket)
	return nil
}

func (a *refreshingAuth) ForceRefresh(_ context.Context) (string, error) {
	a.refreshes++
	a.ticket = "TGT-fresh"
	return a.ticket, nil
}

type recordSink struct {
	coremetrics.NopSink
	events []coremetrics.FetchEvent
}

func (s *recordSink) RecordFetch(ev coremetrics.FetchEvent) error {
	s.events = append(s.events, ev)
	return nil
}

type capturedRequest struct {
	path   string
	ticket string
	accept string
	body   seriesRequest
}

// newSeriesServer records every request the client sends and lets the
// test choose the reply by request number, starting at 1.
func newSeriesServer(t *testing.T, reqs *[]capturedRequest, respond func(n int, w http.ResponseWriter)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var body seriesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		*reqs = append(*reqs, capturedRequest{
			path:   r.URL.Path,
			ticket: r.Header.Get("TGT"),
			accept: r.Header.Get("Accept-Language"),
			body:   body,
		})
		respond(len(*reqs), w)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeItems(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func testConf(url string) Conf {
	return Conf{BaseURL: url, PriceDelayMS: 1, PlantDelayMS: 1}
}

/*
Cases:
  - the request carries the TGT and Accept-Language headers
  - start and end stamps are inclusive days in the market zone
  - response items come back as a sparse series in the market zone
  - the sink sees one event with the decoded point count
*/
func TestFetchMCP(t *testing.T) {
	var reqs []capturedRequest
	srv := newSeriesServer(t, &reqs, func(_ int, w http.ResponseWriter) {
		writeItems(w, `{"items":[
			{"date":"2024-01-10T00:00:00+03:00","hour":"00:00","price":1850},
			{"date":"2024-01-10T05:00:00+03:00","hour":"05:00","price":1900.25}
		]}`)
	})

	sink := &recordSink{}
	client := NewClient(testConf(srv.URL), staticAuth{ticket: "TGT-abc"}, WithSink(sink))

	rng, err := model.NewDateRange("2024-01-10", "2024-01-12")
	require.NoError(t, err)

	series, err := client.FetchMCP(context.Background(), rng)
	require.NoError(t, err)

	require.Len(t, reqs, 1)
	assert.Equal(t, mcpPath, reqs[0].path)
	assert.Equal(t, "TGT-abc", reqs[0].ticket)
	assert.Equal(t, "en", reqs[0].accept)
	assert.Equal(t, "2024-01-10T00:00:00+03:00", reqs[0].body.StartDate)
	assert.Equal(t, "2024-01-12T00:00:00+03:00", reqs[0].body.EndDate)
	assert.Empty(t, reqs[0].body.Region)
	assert.Zero(t, reqs[0].body.PowerPlantID)

	require.Len(t, series, 2)
	assert.True(t, series[0].Time.Equal(time.Date(2024, 1, 10, 0, 0, 0, 0, model.MarketZone)))
	assert.Equal(t, 1850.0, series[0].Value)
	assert.Equal(t, 1900.25, series[1].Value)

	require.Len(t, sink.events, 1)
	assert.Equal(t, "mcp", sink.events[0].Endpoint)
	assert.Equal(t, 2, sink.events[0].Points)
	assert.Empty(t, sink.events[0].Error)
}

/*
Cases:
  - a day-granular date takes its clock from the hour field
  - hour values carrying seconds still match on the HH:MM prefix
  - without an hour the date's own clock stands
  - points land on distinct hours instead of collapsing onto midnight
*/
func TestFetchMCPDayGranularDates(t *testing.T) {
	var reqs []capturedRequest
	srv := newSeriesServer(t, &reqs, func(_ int, w http.ResponseWriter) {
		writeItems(w, `{"items":[
			{"date":"2024-01-10T00:00:00+03:00","hour":"00:00","price":1700},
			{"date":"2024-01-10T00:00:00+03:00","hour":"13:00","price":1850},
			{"date":"2024-01-10T00:00:00+03:00","hour":"14:00:00","price":1900},
			{"date":"2024-01-10T21:00:00+03:00","price":2000}
		]}`)
	})

	client := NewClient(testConf(srv.URL), staticAuth{ticket: "TGT-abc"})
	rng, err := model.NewDateRange("2024-01-10", "2024-01-10")
	require.NoError(t, err)

	series, err := client.FetchMCP(context.Background(), rng)
	require.NoError(t, err)

	require.Len(t, series, 4)
	assert.True(t, series[0].Time.Equal(time.Date(2024, 1, 10, 0, 0, 0, 0, model.MarketZone)))
	assert.True(t, series[1].Time.Equal(time.Date(2024, 1, 10, 13, 0, 0, 0, model.MarketZone)))
	assert.True(t, series[2].Time.Equal(time.Date(2024, 1, 10, 14, 0, 0, 0, model.MarketZone)))
	assert.True(t, series[3].Time.Equal(time.Date(2024, 1, 10, 21, 0, 0, 0, model.MarketZone)))
	assert.Len(t, series.Index(), 4)
}

/*
Cases:
  - a range spanning three calendar months issues three requests
  - edge chunks are clipped to the requested days
  - chunk series are concatenated in order
*/
func TestFetchSMPMonthChunks(t *testing.T) {
	var reqs []capturedRequest
	srv := newSeriesServer(t, &reqs, func(n int, w http.ResponseWriter) {
		if n == 2 {
			writeItems(w, `{"items":[{"date":"2024-02-01T00:00:00+03:00","hour":"00:00","systemMarginalPrice":2100}]}`)
			return
		}
		writeItems(w, `{"items":[]}`)
	})

	client := NewClient(testConf(srv.URL), staticAuth{ticket: "TGT-abc"})

	rng, err := model.NewDateRange("2024-01-15", "2024-03-10")
	require.NoError(t, err)

	series, err := client.FetchSMP(context.Background(), rng)
	require.NoError(t, err)

	require.Len(t, reqs, 3)
	assert.Equal(t, "2024-01-15T00:00:00+03:00", reqs[0].body.StartDate)
	assert.Equal(t, "2024-01-31T00:00:00+03:00", reqs[0].body.EndDate)
	assert.Equal(t, "2024-02-01T00:00:00+03:00", reqs[1].body.StartDate)
	assert.Equal(t, "2024-02-29T00:00:00+03:00", reqs[1].body.EndDate)
	assert.Equal(t, "2024-03-01T00:00:00+03:00", reqs[2].body.StartDate)
	assert.Equal(t, "2024-03-10T00:00:00+03:00", reqs[2].body.EndDate)

	require.Len(t, series, 1)
	assert.Equal(t, 2100.0, series[0].Value)
}

/*
Cases:
  - the production plan body carries organization id, uevcb id and region
  - the plan clock rides in the time field of a day-granular date
  - a plant without those ids is rejected before any request
*/
func TestFetchDPP(t *testing.T) {
	var reqs []capturedRequest
	srv := newSeriesServer(t, &reqs, func(_ int, w http.ResponseWriter) {
		writeItems(w, `{"items":[
			{"date":"2024-01-10T00:00:00+03:00","time":"00:00","toplam":42.5},
			{"date":"2024-01-10T00:00:00+03:00","time":"09:00","toplam":55}
		]}`)
	})

	client := NewClient(testConf(srv.URL), staticAuth{ticket: "TGT-abc"})
	rng, err := model.NewDateRange("2024-01-10", "2024-01-10")
	require.NoError(t, err)

	plant := model.Plant{Name: "Soma RES", OrganizationID: 123, UEVCBID: 456}
	series, err := client.FetchDPP(context.Background(), rng, plant)
	require.NoError(t, err)

	require.Len(t, reqs, 1)
	assert.Equal(t, dppPath, reqs[0].path)
	assert.Equal(t, "TR1", reqs[0].body.Region)
	assert.Equal(t, int64(123), reqs[0].body.OrganizationID)
	assert.Equal(t, int64(456), reqs[0].body.UEVCBID)

	require.Len(t, series, 2)
	assert.Equal(t, 42.5, series[0].Value)
	assert.True(t, series[1].Time.Equal(time.Date(2024, 1, 10, 9, 0, 0, 0, model.MarketZone)))
	assert.Equal(t, 55.0, series[1].Value)

	_, err = client.FetchDPP(context.Background(), rng, model.Plant{Name: "Kayma HES"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Kayma HES")
	assert.Len(t, reqs, 1)
}

/*
Cases:
  - the realized generation body carries the power plant id
  - a plant without one is rejected before any request
*/
func TestFetchRealtime(t *testing.T) {
	var reqs []capturedRequest
	srv := newSeriesServer(t, &reqs, func(_ int, w http.ResponseWriter) {
		writeItems(w, `{"items":[{"date":"2024-01-10T07:00:00+03:00","hour":"07:00","total":61.2}]}`)
	})

	client := NewClient(testConf(srv.URL), staticAuth{ticket: "TGT-abc"})
	rng, err := model.NewDateRange("2024-01-10", "2024-01-10")
	require.NoError(t, err)

	plant := model.Plant{Name: "Soma RES", PlantID: 789}
	series, err := client.FetchRealtime(context.Background(), rng, plant)
	require.NoError(t, err)

	require.Len(t, reqs, 1)
	assert.Equal(t, realtimePath, reqs[0].path)
	assert.Equal(t, int64(789), reqs[0].body.PowerPlantID)
	require.Len(t, series, 1)
	assert.Equal(t, 61.2, series[0].Value)

	_, err = client.FetchRealtime(context.Background(), rng, model.Plant{Name: "Kayma HES"})
	require.Error(t, err)
	assert.Len(t, reqs, 1)
}

/*
Cases:
  - a 401 triggers one ticket refresh and a retry with the new ticket
  - a second 401 surfaces ErrUnauthorized
  - an authorizer without refresh support fails on the first 401
*/
func TestUnauthorizedRetry(t *testing.T) {
	var reqs []capturedRequest
	srv := newSeriesServer(t, &reqs, func(n int, w http.ResponseWriter) {
		if n == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeItems(w, `{"items":[]}`)
	})

	auth := &refreshingAuth{ticket: "TGT-stale"}
	client := NewClient(testConf(srv.URL), auth)
	rng, err := model.NewDateRange("2024-01-10", "2024-01-10")
	require.NoError(t, err)

	_, err = client.FetchMCP(context.Background(), rng)
	require.NoError(t, err)
	assert.Equal(t, 1, auth.refreshes)
	require.Len(t, reqs, 2)
	assert.Equal(t, "TGT-stale", reqs[0].ticket)
	assert.Equal(t, "TGT-fresh", reqs[1].ticket)

	var rejected []capturedRequest
	deny := newSeriesServer(t, &rejected, func(_ int, w http.ResponseWriter) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	stubborn := NewClient(testConf(deny.URL), &refreshingAuth{ticket: "TGT-stale"})
	_, err = stubborn.FetchMCP(context.Background(), rng)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Len(t, rejected, 2)

	rejected = nil
	plain := NewClient(testConf(deny.URL), staticAuth{ticket: "TGT-stale"})
	_, err = plain.FetchMCP(context.Background(), rng)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Len(t, rejected, 1)
}

/*
Cases:
  - a non-200 reply surfaces the status and body
  - the sink records the failure
*/
func TestFetchServerError(t *testing.T) {
	var reqs []capturedRequest
	srv := newSeriesServer(t, &reqs, func(_ int, w http.ResponseWriter) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("platform down"))
	})

	sink := &recordSink{}
	client := NewClient(testConf(srv.URL), staticAuth{ticket: "TGT-abc"}, WithSink(sink))
	rng, err := model.NewDateRange("2024-01-10", "2024-01-10")
	require.NoError(t, err)

	_, err = client.FetchMCP(context.Background(), rng)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code: 500")
	assert.Contains(t, err.Error(), "platform down")

	require.Len(t, sink.events, 1)
	assert.NotEmpty(t, sink.events[0].Error)
	assert.Zero(t, sink.events[0].Points)
}
