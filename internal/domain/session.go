package domain

type SessionID string

const DefaultSessionID SessionID = "UT Provo 04B"

// SeatsFull is the literal seat-count cell text for a session with no seats left.
const SeatsFull = "Full"

type Availability struct {
	Session SessionID `json:"session"`
	Date    string    `json:"date,omitempty"`
	// Seats is the raw seat-count cell text. It is "0" when the session is
	// full or the page could not be fetched.
	Seats     string `json:"seats"`
	Available bool   `json:"available"`
}

func Unavailable(session SessionID) Availability {
	return Availability{Session: session, Seats: "0"}
}

// AvailabilityFromCells maps the date and seat-count cells of a matched row.
func AvailabilityFromCells(session SessionID, date, seats string) Availability {
	if seats == SeatsFull {
		a := Unavailable(session)
		a.Date = date
		return a
	}

	return Availability{
		Session:   session,
		Date:      date,
		Seats:     seats,
		Available: true,
	}
}
