package services

import (
	"sync"

	"storefront-service/internal/domain"
)

// StoreSettings holds the live store configuration. The checkout flow
// reads a copy per request instead of reaching into shared state, so a
// concurrent admin update never tears a submission.
type StoreSettings struct {
	mu  sync.RWMutex
	cfg domain.StoreConfig
}

func NewStoreSettings(cfg domain.StoreConfig) *StoreSettings {
	if len(cfg.FeeTable) == 0 {
		cfg.FeeTable = domain.DefaultFeeTable()
	}
	if cfg.Currency == "" {
		cfg.Currency = "BRL"
	}
	return &StoreSettings{cfg: cfg}
}

func (s *StoreSettings) Get() domain.StoreConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

func (s *StoreSettings) Update(cfg domain.StoreConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(cfg.FeeTable) == 0 {
		cfg.FeeTable = s.cfg.FeeTable
	}
	if cfg.Currency == "" {
		cfg.Currency = s.cfg.Currency
	}
	s.cfg = cfg
}
