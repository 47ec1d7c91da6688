package footprint

import (
	"math/rand"
	"sync"
	"time"
)

// FallbackTip is returned when no category in the submission has advice.
const FallbackTip = "Try to reduce your overall energy consumption."

// ecoTips is the canonical category -> advice table.
var ecoTips = map[string]string{
	"car":         "Consider carpooling or using an electric vehicle to reduce emissions.",
	"bus":         "Great job using public transport! Try to use it more often.",
	"train":       "Trains are an eco-friendly option. Keep it up!",
	"plane":       "Try to reduce air travel or offset your flights when possible.",
	"electricity": "Switch to energy-efficient appliances and use renewable energy sources.",
	"natural_gas": "Improve your home's insulation to reduce heating needs.",
	"waste":       "Increase recycling and composting to reduce waste emissions.",
	"water":       "Fix leaks and use water-saving fixtures to reduce water consumption.",
	"meat":        "Consider reducing meat consumption, especially beef, to lower your footprint.",
	"vegetables":  "Keep up the plant-based diet! It's great for the environment.",
}

// TipSelector picks one piece of advice for a submission. The random
// source is injectable so tests can pin the seed. A *rand.Rand is not
// safe for concurrent use, so draws are serialized behind a mutex;
// Pick may be called from any number of request goroutines.
type TipSelector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewTipSelector(rng *rand.Rand) *TipSelector {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &TipSelector{rng: rng}
}

// Pick selects uniformly at random among the tips whose category appears
// in the submission. Presence is what qualifies a category, not the
// magnitude of its quantity. Candidates are gathered in schema order so
// a seeded selector is reproducible.
func (s *TipSelector) Pick(sub Submission) string {
	candidates := make([]string, 0, len(sub))
	for _, name := range categories {
		if _, ok := sub[name]; !ok {
			continue
		}
		if tip, ok := ecoTips[name]; ok {
			candidates = append(candidates, tip)
		}
	}

	if len(candidates) == 0 {
		return FallbackTip
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return candidates[s.rng.Intn(len(candidates))]
}

// Tips returns a copy of the advice table.
func Tips() map[string]string {
	out := make(map[string]string, len(ecoTips))
	for name, tip := range ecoTips {
		out[name] = tip
	}
	return out
}
