package market

import (
	"time"

	"github.com/wecar/marketing-platform/internal/models"
)

// Service provides Windsor-Essex real estate market statistics and trends.
// Figures are static placeholders rather than live WECAR data; only the
// report period is derived from the clock.
type Service struct {
	now func() time.Time
}

// NewService creates a market data service using the system clock
func NewService() *Service {
	return &Service{now: time.Now}
}

// Current returns the current market snapshot. Placeholder implementation:
// all figures are constants, the report period tracks the current month.
func (s *Service) Current() models.MarketSnapshot {
	now := s.now().UTC()
	return models.MarketSnapshot{
		Source:               "WECAR",
		ReportPeriod:         now.Format("January 2006"),
		NewListings:          1200,
		PropertiesSold:       450,
		AveragePrice:         550000,
		NewListingsChange:    "+5%",
		PropertiesSoldChange: "-3%",
		AveragePriceChange:   "+2%",
		MarketInsights: models.MarketInsights{
			MarketTrend:  "rising",
			BuyerMarket:  false,
			SellerMarket: true,
			KeyPoints: []string{
				"Home prices increased by 2% year-over-year",
				"Low inventory levels favor sellers",
			},
		},
		Status:      "success",
		LastUpdated: now.Format(time.RFC3339),
	}
}

// Trends returns six synthetic monthly entries for the first half of the
// current year, computed by a fixed linear formula in the month index
func (s *Service) Trends() []models.MonthlyTrend {
	year := s.now().UTC().Year()
	trends := make([]models.MonthlyTrend, 0, 6)
	for month := 1; month <= 6; month++ {
		trends = append(trends, models.MonthlyTrend{
			Month:          time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("January 2006"),
			NewListings:    1000 + month*20,
			PropertiesSold: 400 + month*15,
			AveragePrice:   525000 + month*3000,
		})
	}
	return trends
}
