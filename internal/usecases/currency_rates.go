package usecases

import (
	"strings"
	"sync"
	"time"

	domainerrors "github.com/dalikhouaja008/B-rich-backend/internal/domain/errors"
)

// rateTable holds conversion factors per fiat currency: ToSOL is SOL per
// unit of the currency, Shadow is the advisory fiat-per-SOL factor used
// for a wallet's OriginalAmount bookkeeping.
type rateTable struct {
	ToSOL  map[string]float64
	Shadow map[string]float64
}

// cachedRates pairs a rate snapshot with the moment it stops being valid.
type cachedRates struct {
	data   rateTable
	expiry time.Time
}

func (c cachedRates) expired(now time.Time) bool {
	return c.data.ToSOL == nil || !now.Before(c.expiry)
}

// RateSource serves currency conversion rates from a lazily refreshed
// cache. Rates are currently a fixed table; the cache keeps the call
// shape ready for a live provider.
type RateSource struct {
	mu     sync.Mutex
	ttl    time.Duration
	cached cachedRates
	now    func() time.Time
}

// NewRateSource creates a rate source with the given cache TTL.
func NewRateSource(ttl time.Duration) *RateSource {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RateSource{ttl: ttl, now: time.Now}
}

// RateToSOL returns how many SOL one unit of currency buys.
func (r *RateSource) RateToSOL(currency string) (float64, error) {
	table, err := r.snapshot()
	if err != nil {
		return 0, err
	}
	rate, ok := table.ToSOL[strings.ToUpper(currency)]
	if !ok {
		return 0, domainerrors.ErrUnsupportedCurrency
	}
	return rate, nil
}

// ShadowRate returns the advisory fiat-per-SOL factor for OriginalAmount.
func (r *RateSource) ShadowRate(currency string) (float64, error) {
	table, err := r.snapshot()
	if err != nil {
		return 0, err
	}
	rate, ok := table.Shadow[strings.ToUpper(currency)]
	if !ok {
		return 0, domainerrors.ErrUnsupportedCurrency
	}
	return rate, nil
}

func (r *RateSource) snapshot() (rateTable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cached.expired(r.now()) {
		r.cached = cachedRates{
			data:   fetchRates(),
			expiry: r.now().Add(r.ttl),
		}
	}
	return r.cached.data, nil
}

// fetchRates returns the current rate table. Fixed values for now; a
// live provider would slot in here behind the same cache.
func fetchRates() rateTable {
	return rateTable{
		ToSOL: map[string]float64{
			"EUR": 0.001,
			"USD": 0.0005,
			"GBP": 0.0008,
		},
		Shadow: map[string]float64{
			"EUR": 10,
			"USD": 12,
			"GBP": 8,
		},
	}
}
