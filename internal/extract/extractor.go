package extract

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Extractor turns OCR text into a Record. Implementations return an error
// when they could not produce a usable result so a Chain can try the next
// tier.
type Extractor interface {
	Extract(ctx context.Context, text string) (Record, error)
}

// Func adapts a function to Extractor.
type Func func(ctx context.Context, text string) (Record, error)

func (f Func) Extract(ctx context.Context, text string) (Record, error) { return f(ctx, text) }

// Tier is a named Extractor inside a Chain.
type Tier struct {
	Name      string
	Extractor Extractor
}

// Chain tries each tier in order and returns the first success.
type Chain struct {
	Tiers []Tier
}

// NewChain builds a Chain from tiers, skipping nil extractors.
func NewChain(tiers ...Tier) *Chain {
	c := &Chain{}
	for _, t := range tiers {
		if t.Extractor != nil {
			c.Tiers = append(c.Tiers, t)
		}
	}
	return c
}

func (c *Chain) Extract(ctx context.Context, text string) (Record, error) {
	r, _, err := c.ExtractTier(ctx, text)
	return r, err
}

// ExtractTier is Extract that also reports which tier produced the record.
func (c *Chain) ExtractTier(ctx context.Context, text string) (Record, string, error) {
	if c == nil || len(c.Tiers) == 0 {
		return Record{}, "", errors.New("no extraction tiers configured")
	}
	var errs []error
	for i, t := range c.Tiers {
		if err := ctx.Err(); err != nil {
			return Record{}, "", err
		}
		r, err := t.Extractor.Extract(ctx, text)
		if err == nil {
			return r, t.Name, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", t.Name, err))
		if i < len(c.Tiers)-1 {
			log.Warn().Err(err).Str("tier", t.Name).Msg("extraction tier failed; falling back")
		}
	}
	return Record{}, "", errors.Join(errs...)
}
