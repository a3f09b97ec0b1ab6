package bot

import (
	"errors"
	"math/rand"
)

// FeePicker draws an entry fee by uniform random index into a fixed
// list. Repeated values weight the distribution; the list itself is
// the configuration, not a range.
type FeePicker struct {
	fees []float64
	rnd  *rand.Rand
}

func NewFeePicker(fees []float64, rnd *rand.Rand) (*FeePicker, error) {
	if len(fees) == 0 {
		return nil, errors.New("entry fee list must not be empty")
	}
	owned := make([]float64, len(fees))
	copy(owned, fees)
	return &FeePicker{fees: owned, rnd: rnd}, nil
}

func (p *FeePicker) Pick() float64 {
	return p.fees[p.rnd.Intn(len(p.fees))]
}
