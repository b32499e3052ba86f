// Package generator draws random practice numbers.
package generator

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"zahlentrainer/internal/models"
	"zahlentrainer/internal/validation"
)

// Generator produces random numbers within configured bounds.
// It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns a Generator using rnd. A nil rnd is replaced by a source seeded
// from crypto/rand, falling back to the current time.
func New(rnd *rand.Rand) *Generator {
	if rnd == nil {
		var b [8]byte
		if _, err := crand.Read(b[:]); err != nil {
			rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
		} else {
			rnd = rand.New(rand.NewSource(int64(binary.LittleEndian.Uint64(b[:]))))
		}
	}
	return &Generator{rnd: rnd}
}

// NewSeeded returns a deterministic Generator for the given seed
func NewSeeded(seed int64) *Generator {
	return New(rand.New(rand.NewSource(seed)))
}

// Generate validates the settings and draws a number.
func (g *Generator) Generate(s models.Settings) (float64, error) {
	if err := validation.ValidateSettings(s); err != nil {
		return 0, err
	}
	return g.Number(s.Min, s.Max, s.AllowDecimal, s.DecimalPlaces), nil
}

// Number draws a value in [min, max]. The caller guarantees 0 <= min <= max
// and, for decimal mode, places in {1, 2}.
//
// Integer mode picks uniformly among the integers in the range. Decimal mode
// picks a real value and rounds it half away from zero to the given places.
func (g *Generator) Number(min, max int, allowDecimal bool, places int) float64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !allowDecimal {
		return float64(min + g.rnd.Intn(max-min+1))
	}

	x := float64(min) + g.rnd.Float64()*float64(max-min)
	return round(x, places)
}

// round rounds x half away from zero to the given decimal places
func round(x float64, places int) float64 {
	return decimal.NewFromFloat(x).Round(int32(places)).InexactFloat64()
}
