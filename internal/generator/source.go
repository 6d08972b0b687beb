package generator

import (
	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
)

// Source supplies the random draws behind every generated value.
// Ranges are inclusive for integers and half-open for floats.
type Source interface {
	IntRange(min, max int) int
	Float64Range(min, max float64) float64
	UUID() string
}

// FakerSource is the production Source backed by a private gofakeit instance.
type FakerSource struct {
	faker *gofakeit.Faker
}

// NewFakerSource returns a Source seeded from crypto/rand.
func NewFakerSource() *FakerSource {
	return &FakerSource{faker: gofakeit.New(0)}
}

func (s *FakerSource) IntRange(min, max int) int {
	return s.faker.Number(min, max)
}

func (s *FakerSource) Float64Range(min, max float64) float64 {
	return s.faker.Float64Range(min, max)
}

// UUID returns a canonical v4 UUID drawn from the faker's own stream.
func (s *FakerSource) UUID() string {
	id, err := uuid.NewRandomFromReader(s.faker.Rand)
	if err != nil {
		return s.faker.UUID()
	}
	return id.String()
}
