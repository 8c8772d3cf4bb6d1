package availability

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/check-efy/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// gaugeSeats is the seat count at which the gauge reads full. The site
// reports anything above it as "10+".
const gaugeSeats = 10

type RenderOptions struct {
	Now  time.Time
	Link string
}

func renderView(results []domain.Availability, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("EFY Session Availability"),
		s.header.Render(headerLine(len(results), opts.Now)),
	}

	if len(results) == 0 {
		lines = append(lines, s.empty.Render("No sessions checked."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, result := range results {
		lines = append(lines, s.section.Render(renderSession(result, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func headerLine(count int, now time.Time) string {
	line := fmt.Sprintf("sessions: %d", count)
	if now.IsZero() {
		return line
	}
	return line + "  checked: " + now.Format("2006-01-02 15:04:05")
}

func renderSession(result domain.Availability, opts RenderOptions, s styles) string {
	parts := []string{
		s.session.Render(string(result.Session)),
		s.detail.Render("date: " + dateLabel(result.Date)),
		seatsLine(result, s),
	}

	if result.Available && strings.TrimSpace(opts.Link) != "" {
		parts = append(parts, s.detail.Render("register:")+" "+s.link.Render(opts.Link))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func dateLabel(date string) string {
	if strings.TrimSpace(date) == "" {
		return "unknown"
	}
	return date
}

func seatsLine(result domain.Availability, s styles) string {
	bar := renderGauge(seatCount(result.Seats), 20, s)

	var status string
	switch {
	case result.Available:
		status = s.open.Render(fmt.Sprintf("%s spots left", result.Seats))
	case strings.TrimSpace(result.Date) == "":
		// No matched row: the fetch failed or the session is not listed.
		status = s.full.Render("unavailable")
	default:
		status = s.full.Render(domain.SeatsFull)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, s.detail.Render("seats:"), " ", bar, " ", status)
}

// seatCount reads the leading number of a seats cell such as "3" or "10+".
func seatCount(seats string) int {
	digits := strings.TrimRight(strings.TrimSpace(seats), "+")
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func renderGauge(seats, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	if seats > gaugeSeats {
		seats = gaugeSeats
	}
	filled := seats * width / gaugeSeats
	if seats > 0 && filled == 0 {
		filled = 1
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}
