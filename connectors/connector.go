// Package connectors defines the data source ports the report pipeline
// consumes. The concrete transparency platform client lives under
// connectors/epias.
package connectors

import (
	"context"

	"github.com/santralytics/santralytics/core/model"
)

// MarketSource fetches the four hourly series a report needs. The price
// series are market wide; the generation series belong to one plant.
// Implementations return points only for hours the platform has data
// for; gaps are the caller's concern.
type MarketSource interface {
	// FetchMCP retrieves the day-ahead market clearing price (PTF).
	FetchMCP(ctx context.Context, rng model.DateRange) (model.HourlySeries, error)
	// FetchSMP retrieves the balancing market system marginal price (SMF).
	FetchSMP(ctx context.Context, rng model.DateRange) (model.HourlySeries, error)
	// FetchDPP retrieves the plant's final day-ahead production plan (KGUP).
	FetchDPP(ctx context.Context, rng model.DateRange, plant model.Plant) (model.HourlySeries, error)
	// FetchRealtime retrieves the plant's realized hourly generation.
	FetchRealtime(ctx context.Context, rng model.DateRange, plant model.Plant) (model.HourlySeries, error)
}
