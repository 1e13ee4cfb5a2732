package gateway

import (
	"context"
	"math/rand"
	"sync"
)

const DefaultSuccessRate = 0.9

// Simulator is the reference ProviderGateway: it succeeds with a fixed
// probability. The rand source and reference generator are injected so the
// behavior is reproducible under test.
type Simulator struct {
	successRate float64
	refs        RefGenerator

	mu  sync.Mutex
	rng *rand.Rand
}

func NewSimulator(successRate float64, seed int64, refs RefGenerator) *Simulator {
	if successRate < 0 || successRate > 1 {
		successRate = DefaultSuccessRate
	}
	if refs == nil {
		refs = UUIDRefs()
	}
	return &Simulator{
		successRate: successRate,
		refs:        refs,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

func (s *Simulator) Fulfil(ctx context.Context, transactionID, itemID uint, targetIdentifier string) (Fulfilment, error) {
	if err := ctx.Err(); err != nil {
		return Fulfilment{}, err
	}

	s.mu.Lock()
	roll := s.rng.Float64()
	s.mu.Unlock()

	return Fulfilment{
		Success:   roll < s.successRate,
		Reference: "PRV-" + s.refs(),
	}, nil
}
