package scrape

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/bnema/check-efy/internal/domain"
	"github.com/bnema/check-efy/internal/logx"
	"github.com/bnema/check-efy/internal/ports"
)

const (
	DefaultURL            = "https://efy.byu.edu/available-sessions"
	defaultRequestTimeout = 30 * time.Second
	maxPageBytes          = 4 << 20
	userAgent             = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

	scheduleRowsSelector = "table#efySchedule tbody tr"
	sessionColumn        = 0
	dateColumn           = 1
	seatsColumn          = 3
)

var errUnexpectedStatus = errors.New("unexpected status")

// ErrPageTooLarge is returned when the schedule page exceeds the read limit.
var ErrPageTooLarge = errors.New("schedule page too large")

// Checker reads seat availability from the EFY available-sessions page.
type Checker struct {
	URL            string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	// MaxPageBytes caps the page size. Zero means 4 MiB.
	MaxPageBytes   int64
	Log            logx.Logger
}

var _ ports.AvailabilityChecker = Checker{}

// Check never retries. Fetch failures are logged and reported as unavailable
// with a nil error. An oversized page or a missing table or row is reported
// as an error.
func (c Checker) Check(ctx context.Context, session domain.SessionID) (domain.Availability, error) {
	c.Log.Info(fmt.Sprintf("Checking availability for session %s", session))

	doc, err := c.fetch(ctx)
	if err != nil {
		if errors.Is(err, ErrPageTooLarge) {
			return domain.Availability{}, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.Availability{}, ctxErr
		}
		c.Log.Error("Connection closed ... try again.", logx.Err(err))
		return domain.Unavailable(session), nil
	}

	availability, err := FindSession(doc, session)
	if err != nil {
		return domain.Availability{}, err
	}

	if availability.Available {
		c.Log.Info(fmt.Sprintf("%s spots left for %s on %s", availability.Seats, session, availability.Date))
	} else {
		c.Log.Info(fmt.Sprintf("%s. No spots left for %s on %s", domain.SeatsFull, session, availability.Date))
	}

	return availability, nil
}

// FindSession scans the schedule table for the row whose session cell equals
// session exactly. Rows with fewer than four cells are skipped.
func FindSession(doc *goquery.Document, session domain.SessionID) (domain.Availability, error) {
	table := doc.Find("table#efySchedule")
	if table.Length() == 0 {
		return domain.Availability{}, domain.ErrScheduleNotFound
	}

	var (
		found  bool
		result domain.Availability
	)
	doc.Find(scheduleRowsSelector).EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := cellTexts(row)
		if len(cells) <= seatsColumn {
			return true
		}
		if cells[sessionColumn] != string(session) {
			return true
		}

		found = true
		result = domain.AvailabilityFromCells(session, cells[dateColumn], cells[seatsColumn])
		return false
	})

	if !found {
		return domain.Availability{}, fmt.Errorf("%w: %q", domain.ErrSessionNotFound, session)
	}

	return result, nil
}

func cellTexts(row *goquery.Selection) []string {
	cells := row.Find("td")
	texts := make([]string, 0, cells.Length())
	cells.Each(func(_ int, cell *goquery.Selection) {
		texts = append(texts, strings.TrimSpace(cell.Text()))
	})
	return texts
}

func (c Checker) fetch(ctx context.Context) (*goquery.Document, error) {
	endpoint := c.URL
	if endpoint == "" {
		endpoint = DefaultURL
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create schedule request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch schedule page: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("fetch schedule page: %w %d", errUnexpectedStatus, resp.StatusCode)
	}

	limit := c.MaxPageBytes
	if limit <= 0 {
		limit = maxPageBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read schedule page: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w: over %d bytes", ErrPageTooLarge, limit)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse schedule page: %w", err)
	}

	return doc, nil
}

func (c Checker) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c Checker) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	timeout := c.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	return context.WithTimeout(ctx, timeout)
}
