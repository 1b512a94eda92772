// internal/domain/resource/freshness.go

package resource

import "time"

// DefaultTTLs is the fixed staleness threshold per resource kind. Weather
// moves fast; the search-result kinds are good for a day. Locations have no
// entry because location identity never expires.
func DefaultTTLs() map[Kind]time.Duration {
	return map[Kind]time.Duration{
		Weather:     15 * time.Second,
		Restaurants: 24 * time.Hour,
		Movies:      24 * time.Hour,
		Meetups:     24 * time.Hour,
		Trails:      24 * time.Hour,
	}
}

// FreshnessPolicy decides whether a stored batch may still be served.
// It is pure: equal inputs always yield equal answers.
type FreshnessPolicy struct {
	ttls map[Kind]time.Duration
}

// NewFreshnessPolicy creates a policy from a TTL table.
func NewFreshnessPolicy(ttls map[Kind]time.Duration) FreshnessPolicy {
	return FreshnessPolicy{ttls: ttls}
}

// TTL returns the time-to-live for a kind. Unknown kinds get zero, which
// makes every batch of that kind stale.
func (p FreshnessPolicy) TTL(kind Kind) time.Duration {
	return p.ttls[kind]
}

// IsFresh reports whether a batch created at createdAt is still within its
// kind's TTL at the given instant. createdAt and now must come from the same
// clock domain.
func (p FreshnessPolicy) IsFresh(kind Kind, createdAt, now time.Time) bool {
	return now.Sub(createdAt) < p.ttls[kind]
}
