package scrape

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/check-efy/internal/domain"
)

type row struct {
	session, date, unused, seats string
}

func schedulePage(rows ...row) string {
	var b strings.Builder
	b.WriteString(`<html><body><h1>Available Sessions</h1><table id="efySchedule"><thead><tr><th>Session</th><th>Date</th><th>Location</th><th>Seats</th></tr></thead><tbody>`)
	for _, r := range rows {
		fmt.Fprintf(&b, "<tr><td>\n  %s  </td><td>%s</td><td>%s</td><td> %s </td></tr>", r.session, r.date, r.unused, r.seats)
	}
	b.WriteString(`</tbody></table></body></html>`)
	return b.String()
}

func newChecker(t *testing.T, handler http.HandlerFunc) Checker {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return Checker{URL: server.URL, HTTPClient: server.Client()}
}

func servePage(page string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = fmt.Fprint(w, page)
	}
}

func TestCheckReportsFullSession(t *testing.T) {
	t.Parallel()

	checker := newChecker(t, servePage(schedulePage(row{"UT Provo 04B", "2024-06-01", "-", "Full"})))

	got, err := checker.Check(context.Background(), "UT Provo 04B")
	require.NoError(t, err)
	assert.False(t, got.Available)
	assert.Equal(t, "0", got.Seats)
	assert.Equal(t, "2024-06-01", got.Date)
}

func TestCheckReportsRawSeatCount(t *testing.T) {
	t.Parallel()

	checker := newChecker(t, servePage(schedulePage(
		row{"UT Provo 04A", "2024-05-25", "-", "Full"},
		row{"UT Provo 04B", "2024-06-01", "-", "3"},
	)))

	got, err := checker.Check(context.Background(), "UT Provo 04B")
	require.NoError(t, err)
	assert.Equal(t, domain.Availability{Session: "UT Provo 04B", Date: "2024-06-01", Seats: "3", Available: true}, got)
}

func TestCheckKeepsNonNumericSeatText(t *testing.T) {
	t.Parallel()

	checker := newChecker(t, servePage(schedulePage(row{"UT Provo 04B", "2024-06-01", "-", "10+"})))

	got, err := checker.Check(context.Background(), "UT Provo 04B")
	require.NoError(t, err)
	assert.True(t, got.Available)
	assert.Equal(t, "10+", got.Seats)
}

func TestCheckSendsBrowserHeaders(t *testing.T) {
	t.Parallel()

	checker := newChecker(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla/5.0")
		servePage(schedulePage(row{"UT Provo 04B", "2024-06-01", "-", "Full"}))(w, r)
	})

	_, err := checker.Check(context.Background(), "UT Provo 04B")
	require.NoError(t, err)
}

func TestCheckReturnsSessionNotFound(t *testing.T) {
	t.Parallel()

	checker := newChecker(t, servePage(schedulePage(row{"UT Provo 04A", "2024-05-25", "-", "2"})))

	_, err := checker.Check(context.Background(), "UT Provo 04B")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSessionNotFound))
	assert.Contains(t, err.Error(), "UT Provo 04B")
}

func TestCheckReturnsScheduleNotFoundWithoutTable(t *testing.T) {
	t.Parallel()

	checker := newChecker(t, servePage(`<html><body><p>Registration is closed.</p></body></html>`))

	_, err := checker.Check(context.Background(), "UT Provo 04B")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrScheduleNotFound))
}

func TestCheckRejectsOversizedPage(t *testing.T) {
	t.Parallel()

	page := schedulePage(row{"UT Provo 04B", "2024-06-01", "-", "3"})
	checker := newChecker(t, servePage(page))
	checker.MaxPageBytes = int64(len(page) - 1)

	_, err := checker.Check(context.Background(), "UT Provo 04B")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPageTooLarge)
	assert.NotErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestCheckReadsPageAtExactLimit(t *testing.T) {
	t.Parallel()

	page := schedulePage(row{"UT Provo 04B", "2024-06-01", "-", "3"})
	checker := newChecker(t, servePage(page))
	checker.MaxPageBytes = int64(len(page))

	got, err := checker.Check(context.Background(), "UT Provo 04B")
	require.NoError(t, err)
	assert.True(t, got.Available)
	assert.Equal(t, "3", got.Seats)
}

func TestCheckTreatsServerErrorAsUnavailable(t *testing.T) {
	t.Parallel()

	checker := newChecker(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	got, err := checker.Check(context.Background(), "UT Provo 04B")
	require.NoError(t, err)
	assert.Equal(t, domain.Unavailable("UT Provo 04B"), got)
}

func TestCheckTreatsConnectionResetAsUnavailable(t *testing.T) {
	t.Parallel()

	checker := newChecker(t, func(w http.ResponseWriter, r *http.Request) {
		hj, ok := w.(http.Hijacker)
		if !assert.True(t, ok) {
			return
		}
		conn, _, err := hj.Hijack()
		if !assert.NoError(t, err) {
			return
		}
		_ = conn.Close()
	})

	got, err := checker.Check(context.Background(), "UT Provo 04B")
	require.NoError(t, err)
	assert.False(t, got.Available)
	assert.Equal(t, "0", got.Seats)
}

func TestCheckDoesNotRetry(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	checker := newChecker(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := checker.Check(context.Background(), "UT Provo 04B")
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCheckTimesOutWithoutCallerDeadline(t *testing.T) {
	t.Parallel()

	checker := newChecker(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})
	checker.RequestTimeout = 20 * time.Millisecond

	started := time.Now()
	got, err := checker.Check(context.Background(), "UT Provo 04B")
	require.NoError(t, err)
	assert.False(t, got.Available)
	assert.Less(t, time.Since(started), 900*time.Millisecond)
}

func TestCheckReturnsContextErrorWhenCancelled(t *testing.T) {
	t.Parallel()

	checker := newChecker(t, servePage(schedulePage(row{"UT Provo 04B", "2024-06-01", "-", "3"})))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := checker.Check(ctx, "UT Provo 04B")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestFindSessionSkipsShortRows(t *testing.T) {
	t.Parallel()

	page := `<table id="efySchedule"><tbody>
<tr><td>UT Provo 04B</td></tr>
<tr><td colspan="4">Summer 2024</td></tr>
<tr></tr>
<tr><td>UT Provo 04B</td><td>2024-06-01</td><td>-</td><td>5</td></tr>
</tbody></table>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)

	var got domain.Availability
	require.NotPanics(t, func() {
		got, err = FindSession(doc, "UT Provo 04B")
	})
	require.NoError(t, err)
	assert.Equal(t, "5", got.Seats)
}

func TestFindSessionRequiresExactMatch(t *testing.T) {
	t.Parallel()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(schedulePage(
		row{"UT Provo 04B (Spanish)", "2024-06-01", "-", "4"},
		row{"ut provo 04b", "2024-06-01", "-", "4"},
	)))
	require.NoError(t, err)

	_, err = FindSession(doc, "UT Provo 04B")
	assert.True(t, errors.Is(err, domain.ErrSessionNotFound))
}

func TestFindSessionUsesFirstMatchingRow(t *testing.T) {
	t.Parallel()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(schedulePage(
		row{"UT Provo 04B", "2024-06-01", "-", "Full"},
		row{"UT Provo 04B", "2024-06-08", "-", "6"},
	)))
	require.NoError(t, err)

	got, err := FindSession(doc, "UT Provo 04B")
	require.NoError(t, err)
	assert.False(t, got.Available)
	assert.Equal(t, "2024-06-01", got.Date)
}
