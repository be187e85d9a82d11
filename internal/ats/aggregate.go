package ats

import (
	"errors"
	"math"
	"sort"
)

// ErrNoWeights is returned when there is nothing to weight. It indicates a programming error.
var ErrNoWeights = errors.New("ats: section weights are empty")

// Aggregate combines section scores into round(Σ score·weight / Σ weight), clamped to [0,100].
func Aggregate(sections Sections) (int, error) {
	names := make([]Section, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}
	// Fixed summation order keeps the float result reproducible.
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	var weighted, total float64
	for _, name := range names {
		s := sections[name]
		if s.Weight <= 0 {
			continue
		}
		weighted += float64(s.Score) * s.Weight
		total += s.Weight
	}

	if total == 0 {
		return 0, ErrNoWeights
	}

	return clampScore(int(math.Round(weighted / total))), nil
}
