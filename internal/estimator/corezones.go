package estimator

import "github.com/yourusername/permit-odds/internal/config"

// CoreZones answers which zone id is the core zone in a data year.
type CoreZones struct {
	byYear   map[int]int64
	fallback int64
}

// NewCoreZones builds the lookup from configuration
func NewCoreZones(cfg config.CoreZonesConfig) CoreZones {
	z := CoreZones{
		byYear:   make(map[int]int64, len(cfg.Years)),
		fallback: int64(cfg.DefaultZoneID),
	}
	for year, id := range cfg.CoreZoneMap() {
		z.byYear[year] = int64(id)
	}
	return z
}

// For returns the core zone id for year, or the default id for unlisted years.
func (z CoreZones) For(year int) int64 {
	if id, ok := z.byYear[year]; ok {
		return id
	}
	return z.fallback
}
