package ports

import (
	"context"

	"github.com/bnema/check-efy/internal/domain"
)

type AvailabilityChecker interface {
	Check(ctx context.Context, session domain.SessionID) (domain.Availability, error)
}
