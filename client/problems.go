package client

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"

	"github.com/chrismacdonaldw/kattis-grind/internal/extract"
	"github.com/chrismacdonaldw/kattis-grind/internal/kgerrors"
	log "github.com/sirupsen/logrus"
)

// maxCatalogPages bounds the listing walk in case the judge keeps serving
// the last page for out-of-range page numbers.
const maxCatalogPages = 200

// ProblemListPage fetches page n of the problem listing, ordered by
// difficulty. found is false when the page has no problems table.
func (c *Client) ProblemListPage(ctx context.Context, n int) (entries []extract.CatalogEntry, found bool, err error) {
	q := url.Values{}
	q.Set("order", "difficulty_data")
	q.Set("page", fmt.Sprint(n))
	raw, err := c.get(ctx, c.opts.BaseURL+"/problems?"+q.Encode())
	if err != nil {
		return nil, false, err
	}
	return extract.ProblemList(raw)
}

// Catalog walks the problem listing from page 0 until a page comes back
// empty.
func (c *Client) Catalog(ctx context.Context) ([]extract.CatalogEntry, error) {
	return c.CatalogUpTo(ctx, math.Inf(1))
}

// CatalogUpTo is Catalog, but stops after the first page whose last row is
// harder than hi. The listing is ordered by difficulty, so nothing after
// that page can be in range.
func (c *Client) CatalogUpTo(ctx context.Context, hi float64) ([]extract.CatalogEntry, error) {
	var all []extract.CatalogEntry
	var firstOfPrevious string
	for page := 0; page < maxCatalogPages; page++ {
		entries, found, err := c.ProblemListPage(ctx, page)
		if err != nil {
			return nil, err
		}
		if !found {
			if page == 0 {
				return nil, fmt.Errorf("%w, no problems table on the listing page", kgerrors.ErrParse)
			}
			break
		}
		if len(entries) == 0 || entries[0].ID == firstOfPrevious {
			break
		}
		firstOfPrevious = entries[0].ID
		all = append(all, entries...)
		log.WithFields(log.Fields{"page": page, "rows": len(entries)}).Debug("read problem listing page")
		if entries[len(entries)-1].Difficulty > hi {
			break
		}
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("%w, problem listing has no rows", kgerrors.ErrParse)
	}
	return all, nil
}

// Problem downloads and extracts the statement page of id.
func (c *Client) Problem(ctx context.Context, id string) (*extract.Problem, error) {
	raw, err := c.get(ctx, c.ProblemURL(id))
	if err != nil {
		if errors.Is(err, kgerrors.ErrNotFound) {
			return nil, fmt.Errorf("%w, problem '%s' does not exist", kgerrors.ErrNotFound, id)
		}
		return nil, err
	}
	return extract.Statement(id, raw)
}

// SampleBundle downloads the samples.zip attached to the statement of id.
func (c *Client) SampleBundle(ctx context.Context, id string) ([]extract.Sample, error) {
	raw, err := c.get(ctx, c.ProblemURL(id)+"/file/statement/samples.zip")
	if err != nil {
		return nil, err
	}
	return extract.SampleBundle(raw)
}

// Hint looks id up in the methods-to-solve table. ok is false when the
// table has no row for it.
func (c *Client) Hint(ctx context.Context, id string) (hint *extract.Hint, ok bool, err error) {
	raw, err := c.get(ctx, c.opts.HintURL)
	if err != nil {
		return nil, false, err
	}
	return extract.MethodsToSolve(id, raw)
}
