package repository

import (
	"context"

	"github.com/yourusername/permit-odds/internal/models"
)

// WinsRepository defines read access to one year's record store
type WinsRepository interface {
	ResolveZone(ctx context.Context, zoneName string) (int64, error)
	ResolveDate(ctx context.Context, dateString string) (int64, error)
	ZoneNames(ctx context.Context) ([]string, error)
	FindExact(ctx context.Context, slots []models.Slot, coreZoneID int64) ([]float64, error)
	FetchCoreSingle(ctx context.Context, coreZoneID, dateID int64) ([]models.GroupOdds, error)
	FindSecondChoiceCandidates(ctx context.Context, first, secondAsFirst models.Window) ([]models.Candidate, error)
	FindThirdChoiceCandidates(ctx context.Context, first, secondSet, thirdAsFirst models.Window) ([]models.Candidate, error)
	Close() error
}

// Provider opens the WinsRepository for a data year
type Provider interface {
	Open(ctx context.Context, year int) (WinsRepository, error)
}
