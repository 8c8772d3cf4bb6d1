package availability

import (
	"strings"
	"testing"
	"time"

	"github.com/bnema/check-efy/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const link = "https://efy.byu.edu/efy_session/10091862"

func TestRenderFullSession(t *testing.T) {
	now := time.Date(2026, 2, 14, 11, 0, 0, 0, time.UTC)

	output, err := Render([]domain.Availability{
		domain.AvailabilityFromCells("UT Provo 04B", "Jun 23 - Jun 28", "Full"),
	}, RenderOptions{Now: now, Link: link})

	require.NoError(t, err)
	assert.Contains(t, output, "EFY Session Availability")
	assert.Contains(t, output, "sessions: 1")
	assert.Contains(t, output, "checked: 2026-02-14 11:00:00")
	assert.Contains(t, output, "UT Provo 04B")
	assert.Contains(t, output, "date: Jun 23 - Jun 28")
	assert.Contains(t, output, "Full")
	assert.Contains(t, output, "["+strings.Repeat("-", 20)+"]")
	assert.NotContains(t, output, "register:")
	assert.NotContains(t, output, link)
}

func TestRenderAvailableSession(t *testing.T) {
	output, err := Render([]domain.Availability{
		domain.AvailabilityFromCells("UT Provo 04B", "Jun 23 - Jun 28", "3"),
	}, RenderOptions{Link: link})

	require.NoError(t, err)
	assert.Contains(t, output, "3 spots left")
	assert.Contains(t, output, "register: "+link)
	assert.Contains(t, output, "["+strings.Repeat("=", 6)+strings.Repeat("-", 14)+"]")
	assert.NotContains(t, output, "checked:")
}

func TestRenderUnavailableFallback(t *testing.T) {
	output, err := Render([]domain.Availability{domain.Unavailable("UT Provo 04B")}, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "date: unknown")
	assert.Contains(t, output, "unavailable")
	assert.NotContains(t, output, "Full")
}

func TestRenderEmpty(t *testing.T) {
	output, err := Render(nil, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "sessions: 0")
	assert.Contains(t, output, "No sessions checked.")
}

func TestSeatCount(t *testing.T) {
	tests := []struct {
		seats string
		want  int
	}{
		{seats: "3", want: 3},
		{seats: "10+", want: 10},
		{seats: " 7 ", want: 7},
		{seats: "Full", want: 0},
		{seats: "", want: 0},
		{seats: "-2", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.seats, func(t *testing.T) {
			assert.Equal(t, tt.want, seatCount(tt.seats))
		})
	}
}

func TestRenderGaugeCapsAtTen(t *testing.T) {
	s := newStyles()

	assert.Equal(t, "["+strings.Repeat("=", 20)+"]", renderGauge(25, 20, s))
	assert.Equal(t, "[="+strings.Repeat("-", 9)+"]", renderGauge(1, 10, s))
	assert.Empty(t, renderGauge(3, 0, s))
}
