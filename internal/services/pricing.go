package services

import (
	"database/sql"
	"errors"

	applog "flowmarket/internal/log"
	"flowmarket/internal/repos"
)

// Price tiers, whole currency units.
const (
	PriceEarlyBird int64 = 400
	PriceRegular   int64 = 600
)

const (
	KeyEarlyBirdCounter = "early_bird_counter"
	KeyEarlyBirdLimit   = "early_bird_limit"

	defaultEarlyBirdLimit = 50
)

// PricingService computes the current tier from the early-bird counter and
// limit. It fails closed: any storage or parse problem yields the regular
// (higher) price so an outage can never under-charge.
type PricingService struct {
	Settings *repos.SettingsRepo
}

func NewPricingService(settings *repos.SettingsRepo) *PricingService {
	return &PricingService{Settings: settings}
}

func (s *PricingService) CurrentPrice() int64 {
	counter, err := s.Settings.GetInt(KeyEarlyBirdCounter)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		counter = 0
	case err != nil:
		applog.Error("pricing.read", 0, err, map[string]any{"key": KeyEarlyBirdCounter})
		return PriceRegular
	}

	limit, err := s.Settings.GetInt(KeyEarlyBirdLimit)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		limit = defaultEarlyBirdLimit
	case err != nil:
		applog.Error("pricing.read", 0, err, map[string]any{"key": KeyEarlyBirdLimit})
		return PriceRegular
	}

	if counter < limit {
		return PriceEarlyBird
	}
	return PriceRegular
}

// RecordPromoSale bumps the early-bird counter by one. The increment is a
// single server-side statement but there is no check-and-cap transaction:
// concurrent last-slot purchases may overshoot the limit, which is an
// accepted business tolerance.
func (s *PricingService) RecordPromoSale() error {
	return s.Settings.Increment(KeyEarlyBirdCounter, 1)
}
