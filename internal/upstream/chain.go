package upstream

import (
	"context"
	"errors"
	"fmt"

	"github.com/guttosm/giga-bot/internal/circuitbreaker"
	"github.com/rs/zerolog/log"
)

// ErrNoProviders is returned when every step of a Chain failed.
var ErrNoProviders = errors.New("upstream: all providers failed")

// Step is one provider in a fallback Chain.
type Step[V any] struct {
	Name  string
	Fetch func(ctx context.Context) (V, error)
	// Breaker is optional. An open breaker skips the step.
	Breaker *circuitbreaker.CircuitBreaker
}

// Chain tries its steps in order and returns the first success.
type Chain[V any] struct {
	name  string
	steps []Step[V]
}

// NewChain builds a Chain. Order of steps is the fallback order.
func NewChain[V any](name string, steps ...Step[V]) *Chain[V] {
	return &Chain[V]{name: name, steps: steps}
}

// Names returns the step names in fallback order.
func (c *Chain[V]) Names() []string {
	names := make([]string, len(c.steps))
	for i, s := range c.steps {
		names[i] = s.Name
	}
	return names
}

// Fetch runs the chain. On total failure the error joins ErrNoProviders with each step's error.
func (c *Chain[V]) Fetch(ctx context.Context) (V, error) {
	var zero V
	errs := []error{ErrNoProviders}

	for i, step := range c.steps {
		v, err := c.run(ctx, step)
		if err == nil {
			if i > 0 {
				log.Info().
					Str("chain", c.name).
					Str("provider", step.Name).
					Msg("Served by fallback provider")
			}
			return v, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", step.Name, err))

		if ctx.Err() != nil {
			break
		}
		log.Warn().
			Err(err).
			Str("chain", c.name).
			Str("provider", step.Name).
			Msg("Provider failed, trying next")
	}
	return zero, fmt.Errorf("%s: %w", c.name, errors.Join(errs...))
}

func (c *Chain[V]) run(ctx context.Context, step Step[V]) (V, error) {
	if step.Breaker == nil {
		return step.Fetch(ctx)
	}
	var v V
	err := step.Breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		v, err = step.Fetch(ctx)
		return err
	})
	return v, err
}
