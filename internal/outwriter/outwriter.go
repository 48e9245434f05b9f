// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/destiny/internal/contract"
	"github.com/huangsam/destiny/schema"
)

// OutWriter provides a unified interface for all output operations.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteResult prints a compatibility result using the configured output format.
func (ow *OutWriter) WriteResult(r schema.EnrichedResult, cfg *contract.Config, duration time.Duration) error {
	return PrintResult(r, cfg, duration)
}

// WriteSigns prints the sign list using the configured output format.
func (ow *OutWriter) WriteSigns(signs []schema.ZodiacSign, cfg *contract.Config) error {
	return PrintSigns(signs, cfg)
}

// WriteTiers prints the tier list using the configured output format.
func (ow *OutWriter) WriteTiers(tiers []schema.EnrichedTier, cfg *contract.Config) error {
	return PrintTiers(tiers, cfg)
}

// WriteSession prints a session view using the configured output format.
func (ow *OutWriter) WriteSession(view schema.SessionView, cfg *contract.Config) error {
	return PrintSession(view, cfg)
}

// WriteShareOutcome prints the outcome of a share attempt.
func (ow *OutWriter) WriteShareOutcome(outcome schema.ShareOutcome, cfg *contract.Config) error {
	return PrintShareOutcome(outcome, cfg)
}
