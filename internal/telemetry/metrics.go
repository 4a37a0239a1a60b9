// Package telemetry provides application-level observability for the identity
// store.
//
// All metrics are registered against the default Prometheus registry via
// promauto, so any process embedding this module can expose them by mounting
// promhttp.Handler() on a side-channel listener. Label cardinality is bounded:
// the only labelled metric uses a small fixed outcome vocabulary, never
// tenant- or key-derived values, so a hostile caller cannot blow up the series
// count by presenting junk credentials.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Resolution outcomes for KeyResolutionsTotal.
const (
	OutcomeHit  = "hit"
	OutcomeMiss = "miss"
)

var (
	// KeyResolutionsTotal counts API key resolution attempts by outcome
	// ("hit" or "miss"). A rising miss rate usually means a rotated or
	// revoked credential is still configured somewhere.
	KeyResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "identity_key_resolutions_total",
			Help: "Total number of API key resolution attempts, by outcome.",
		},
		[]string{"outcome"},
	)

	// KeyRotationsTotal counts successful API key rotations.
	KeyRotationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "identity_key_rotations_total",
			Help: "Total number of API keys rotated.",
		},
	)

	// KeySetsCreatedTotal counts key sets created across all organizations.
	KeySetsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "identity_keysets_created_total",
			Help: "Total number of key sets created.",
		},
	)

	// StoreSavesTotal counts full-document writes of the identity store.
	StoreSavesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "identity_store_saves_total",
			Help: "Total number of identity document writes.",
		},
	)

	// StoreBootstrapsTotal counts bootstrap events (first-run document
	// synthesis). Anything above 1 per deployment lifetime means the document
	// went missing or unreadable and was re-seeded.
	StoreBootstrapsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "identity_store_bootstraps_total",
			Help: "Total number of identity document bootstraps.",
		},
	)
)
