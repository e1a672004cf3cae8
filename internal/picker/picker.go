// Package picker chooses unseen problems at random from a difficulty band.
package picker

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/chrismacdonaldw/kattis-grind/internal/extract"
	"github.com/chrismacdonaldw/kattis-grind/internal/kgerrors"
	log "github.com/sirupsen/logrus"
)

// SeenSet is the part of the seen store the picker needs.
type SeenSet interface {
	Contains(id string) bool
	Add(ctx context.Context, id string) (bool, error)
}

// Candidates returns the unseen entries with lo <= difficulty <= hi, one per
// id, in catalog order.
func Candidates(catalog []extract.CatalogEntry, seen SeenSet, lo, hi float64) []extract.CatalogEntry {
	dup := make(map[string]struct{}, len(catalog))
	var out []extract.CatalogEntry
	for _, e := range catalog {
		if _, ok := dup[e.ID]; ok {
			continue
		}
		dup[e.ID] = struct{}{}
		if e.Difficulty < lo || e.Difficulty > hi || seen.Contains(e.ID) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Pick chooses one unseen problem uniformly at random and records it as
// seen before returning. rng may be nil.
func Pick(ctx context.Context, catalog []extract.CatalogEntry, seen SeenSet, lo, hi float64, rng *rand.Rand) (extract.CatalogEntry, error) {
	if lo > hi {
		return extract.CatalogEntry{}, fmt.Errorf("%w, minimum %.1f is above maximum %.1f", kgerrors.ErrEmptyRange, lo, hi)
	}

	candidates := Candidates(catalog, seen, lo, hi)
	if len(candidates) == 0 {
		return extract.CatalogEntry{}, fmt.Errorf("%w, %.1f-%.1f", kgerrors.ErrEmptyRange, lo, hi)
	}

	var i int
	if rng != nil {
		i = rng.IntN(len(candidates))
	} else {
		i = rand.IntN(len(candidates))
	}
	choice := candidates[i]

	if _, err := seen.Add(ctx, choice.ID); err != nil {
		return extract.CatalogEntry{}, fmt.Errorf("failed to record %s as seen: %w", choice.ID, err)
	}
	log.WithFields(log.Fields{
		"id":         choice.ID,
		"difficulty": choice.Difficulty,
		"candidates": len(candidates),
	}).Debug("picked problem")
	return choice, nil
}

// PickN picks up to n distinct problems. If the band runs dry first, the
// problems picked so far are returned together with ErrEmptyRange.
func PickN(ctx context.Context, catalog []extract.CatalogEntry, seen SeenSet, lo, hi float64, n int, rng *rand.Rand) ([]extract.CatalogEntry, error) {
	var picked []extract.CatalogEntry
	for len(picked) < n {
		choice, err := Pick(ctx, catalog, seen, lo, hi, rng)
		if err != nil {
			return picked, err
		}
		picked = append(picked, choice)
	}
	return picked, nil
}
