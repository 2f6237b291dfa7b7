package provider

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Registry holds providers in priority order. Specific providers (URL
// pattern matchers) come first; the generic HTML provider is the catch-all
// and belongs last, since its validation costs a network round trip.
type Registry struct {
	providers []Provider
	log       zerolog.Logger
}

// NewRegistry builds a registry trying providers in the given order.
func NewRegistry(log zerolog.Logger, providers ...Provider) *Registry {
	return &Registry{providers: providers, log: log}
}

// Match returns the first provider whose Validate accepts rawURL.
func (r *Registry) Match(ctx context.Context, rawURL string) (Provider, error) {
	for _, p := range r.providers {
		if p.Validate(ctx, rawURL) {
			r.log.Debug().Str("provider", p.Name()).Str("url", rawURL).Msg("provider matched")
			return p, nil
		}
	}
	return nil, fmt.Errorf("no provider accepts %s", rawURL)
}
