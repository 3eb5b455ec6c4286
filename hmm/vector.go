package hmm

import (
	"fmt"
	"slices"
)

// Vector is a discrete distribution over states.
type Vector[S comparable] map[S]float64

// NewUniform spreads probability evenly over states. Duplicates count once.
func NewUniform[S comparable](states []S) (Vector[S], error) {
	if len(states) == 0 {
		return nil, fmt.Errorf("%w: no states", ErrInvalidArgument)
	}
	v := make(Vector[S], len(states))
	for _, s := range states {
		v[s] = 1
	}
	return v.Normalize(), nil
}

// Sum returns the total mass.
func (v Vector[S]) Sum() float64 {
	total := 0.0
	for _, p := range v {
		total += p
	}
	return total
}

// Normalize returns a copy scaled to sum to 1. A vector with no positive
// mass is returned unchanged.
func (v Vector[S]) Normalize() Vector[S] {
	total := v.Sum()
	if !(total > 0) {
		return v
	}
	result := make(Vector[S], len(v))
	for s, p := range v {
		result[s] = p / total
	}
	return result
}

// Clone returns an independent copy.
func (v Vector[S]) Clone() Vector[S] {
	result := make(Vector[S], len(v))
	for s, p := range v {
		result[s] = p
	}
	return result
}

// Support returns the states with positive probability ordered by cmp.
func (v Vector[S]) Support(cmp func(a, b S) int) []S {
	states := make([]S, 0, len(v))
	for s, p := range v {
		if p > 0 {
			states = append(states, s)
		}
	}
	slices.SortFunc(states, cmp)
	return states
}

// Argmax returns the most probable state; ties go to the lowest state by cmp.
// ok is false for an empty vector.
func (v Vector[S]) Argmax(cmp func(a, b S) int) (best S, ok bool) {
	bestP := 0.0
	for s, p := range v {
		if !ok || p > bestP || (p == bestP && cmp(s, best) < 0) {
			best, bestP, ok = s, p, true
		}
	}
	return best, ok
}
