package location

import (
	"errors"
	"strings"

	"github.com/illenko/location-pay/model"
)

var ErrNotFound = errors.New("location not found")

// Resolver looks up locations from a fixed table. It is safe for concurrent
// use since the table is never mutated after construction.
type Resolver struct {
	locations []model.Location
	byID      map[string]int
}

func NewResolver(locations []model.Location) *Resolver {
	r := &Resolver{
		locations: make([]model.Location, len(locations)),
		byID:      make(map[string]int, len(locations)),
	}
	copy(r.locations, locations)
	for i, loc := range r.locations {
		key := strings.ToLower(loc.ID)
		if _, ok := r.byID[key]; !ok {
			r.byID[key] = i
		}
	}
	return r
}

// Resolve matches id case-insensitively. No other normalisation is applied.
func (r *Resolver) Resolve(id string) (model.Location, error) {
	i, ok := r.byID[strings.ToLower(id)]
	if !ok {
		return model.Location{}, ErrNotFound
	}
	return r.locations[i], nil
}

func (r *Resolver) All() []model.Location {
	out := make([]model.Location, len(r.locations))
	copy(out, r.locations)
	return out
}
