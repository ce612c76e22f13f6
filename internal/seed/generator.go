package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Benchmark keys the generator fills; matches the service defaults.
var benchmarkKeys = []string{"teleqna", "3gpp_tsg", "math500", "teletables", "netops"} //nolint:gochecknoglobals // fixed benchmark suite

// Synthetic fleet shape constants.
const (
	providerCount = 6

	// Capability tiers on the 0-100 benchmark scale.
	tierFrontierBase = 82.0
	tierStrongBase   = 68.0
	tierMidBase      = 52.0
	tierWeakBase     = 35.0
	tierJitter       = 8.0

	// Each benchmark deviates from the model's base level by +-perBenchSpread.
	perBenchSpread = 10.0

	// missingRate is the chance a model simply has no result for a benchmark.
	missingRate = 0.15

	// Release dates are spread over this many days before now.
	releaseWindowDays = 900
)

var providers = []string{"acme", "nimbus", "quanta", "vertex", "helios", "arcadia"} //nolint:gochecknoglobals // fixed provider pool

// generateFleet creates n synthetic model records. The rand source makes
// the fleet reproducible for a given seed.
func generateFleet(n int, seedVal int64) []Record {
	rng := rand.New(rand.NewSource(seedVal)) //nolint:gosec // reproducible synthetic data, not crypto

	records := make([]Record, n)
	now := time.Now().UTC()
	for i := 0; i < n; i++ {
		base := tierBase(rng) + rng.Float64()*tierJitter - tierJitter/2
		provider := providers[rng.Intn(providerCount)]
		name := fmt.Sprintf("%s-%d.%d-%s", provider, 1+rng.Intn(3), rng.Intn(10), uuid.New().String()[:8])

		scores := make(map[string]*Score, len(benchmarkKeys))
		for _, key := range benchmarkKeys {
			if rng.Float64() < missingRate {
				continue
			}
			v := clampScore(base + (rng.Float64()*2-1)*perBenchSpread)
			scores[key] = &Score{Value: v}
		}

		released := now.AddDate(0, 0, -rng.Intn(releaseWindowDays))
		records[i] = Record{
			Model:       name,
			Provider:    provider,
			ReleaseDate: released.Format("2006-01-02"),
			Scores:      scores,
		}
	}
	return records
}

// tierBase picks a capability tier with frontier models rarest.
func tierBase(rng *rand.Rand) float64 {
	switch rng.Intn(10) {
	case 0:
		return tierFrontierBase
	case 1, 2:
		return tierStrongBase
	case 3, 4, 5, 6:
		return tierMidBase
	default:
		return tierWeakBase
	}
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
