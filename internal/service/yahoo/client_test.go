package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinBeta/internal/domain/models"
	pkghttp "FinBeta/pkg/http"
	"FinBeta/pkg/logger"
)

// 2024-01-01, 2024-02-01, 2024-03-01 at 05:00 UTC (midnight New York)
var monthStamps = []int64{1704085200, 1706763600, 1709269200}

func chartJSON(symbol string, closes, adj []string) string {
	ts := make([]string, len(monthStamps))
	for i, s := range monthStamps {
		ts[i] = fmt.Sprint(s)
	}
	adjPart := ""
	if adj != nil {
		adjPart = fmt.Sprintf(`,"adjclose":[{"adjclose":[%s]}]`, strings.Join(adj, ","))
	}
	return fmt.Sprintf(`{"chart":{"result":[{"meta":{"symbol":%q,"gmtoffset":-18000},
		"timestamp":[%s],
		"indicators":{"quote":[{"close":[%s]}]%s}}],"error":null}}`,
		symbol, strings.Join(ts, ","), strings.Join(closes, ","), adjPart)
}

func newTestClient(hosts ...string) *Client {
	hc := pkghttp.NewClient(pkghttp.WithRetries(1), pkghttp.WithBackoff(time.Millisecond))
	c := NewClient(hc, hosts, logger.NewNop())
	c.now = func() time.Time { return time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC) }
	return c
}

func TestFetchPrefersAdjustedClose(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1mo", r.URL.Query().Get("interval"))
		assert.NotEmpty(t, r.URL.Query().Get("period1"))
		switch strings.TrimPrefix(r.URL.Path, chartPath) {
		case "MSFT":
			fmt.Fprint(w, chartJSON("MSFT", []string{"100", "110", "121"}, []string{"99", "109", "120"}))
		case "^IRX":
			fmt.Fprint(w, chartJSON("^IRX", []string{"5.2", "null", "5.3"}, nil))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	got, err := newTestClient(srv.URL).Fetch(context.Background(), []string{"MSFT", "^IRX"}, "1y", models.IntervalMonthly)
	require.NoError(t, err)

	msft := got["MSFT"]
	require.Equal(t, 3, msft.Len())
	assert.Equal(t, []float64{99, 109, 120}, msft.Values())
	assert.True(t, msft.Points[0].Time.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))

	irx := got["^IRX"]
	require.Equal(t, 2, irx.Len(), "null close skipped")
	assert.Equal(t, []float64{5.2, 5.3}, irx.Values())
}

func TestFetchFailsOverToSecondHost(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, "Edge: Too Many Requests")
	}))
	defer bad.Close()
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartJSON("^GSPC", []string{"4000", "4100", "4200"}, nil))
	}))
	defer good.Close()

	got, err := newTestClient(bad.URL, good.URL).Fetch(context.Background(), []string{"^GSPC"}, "5y", models.IntervalMonthly)
	require.NoError(t, err)
	assert.Equal(t, 3, got["^GSPC"].Len())
}

func TestFetchReportsTickerOnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Fetch(context.Background(), []string{"NOPE"}, "1y", models.IntervalDaily)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrFetch)
	assert.Contains(t, err.Error(), "NOPE")
	assert.Contains(t, err.Error(), "delisted")
}

func TestFetchRejectsBadPeriodAndInterval(t *testing.T) {
	c := newTestClient("http://unused")
	_, err := c.Fetch(context.Background(), []string{"MSFT"}, "forever", models.IntervalDaily)
	assert.ErrorIs(t, err, models.ErrFetch)

	_, err = c.Fetch(context.Background(), []string{"MSFT"}, "1y", models.Interval("quarterly"))
	assert.ErrorIs(t, err, models.ErrUnsupportedInterval)
}

func TestSeriesCollapsesPartialMonth(t *testing.T) {
	one, two, three := 10.0, 11.0, 12.0
	var cr chartResponse
	cr.Chart.Result = []chartResult{{Timestamp: []int64{1704085200, 1706763600, 1707955200}}}
	cr.Chart.Result[0].Meta.GmtOffset = -18000
	cr.Chart.Result[0].Indicators.Quote = append(cr.Chart.Result[0].Indicators.Quote, struct {
		Close []*float64 `json:"close"`
	}{Close: []*float64{&one, &two, &three}})

	s, err := cr.series("X", models.IntervalMonthly)
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())
	assert.Equal(t, []float64{10, 12}, s.Values())
}
