package cmd

import (
	"github.com/huangsam/destiny/core"
	"github.com/huangsam/destiny/internal/contract"
	"github.com/huangsam/destiny/internal/metrics"
	"github.com/spf13/cobra"
)

// matchCmd evaluates the compatibility of two signs.
var matchCmd = &cobra.Command{
	Use:   "match [sign-a] [sign-b]",
	Short: "Reveal the compatibility of two zodiac signs.",
	Long: `Score two zodiac signs across every compatibility category.

Signs can be given by id (0-11), name (case-insensitive) or icon. Signs given
here are stored in the session, so later runs can omit them. Order matters:
"match aries cancer" and "match cancer aries" can score differently.

The result shows:
- Total score out of 35 and the percentage
- A 1 to 5 star rating with its label
- A prediction drawn from the matching tier
- A per-category breakdown

Examples:
  # Check a pair by name
  destiny match aries leo

  # Use ids or icons
  destiny match 1 ♓

  # Re-run the stored session with a fixed seed
  destiny match --seed 42

  # Export the result as JSON
  destiny match taurus pisces --output json --output-file result.json`,
	Args:    cobra.MaximumNArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		ctx := core.ContextWithObserver(rootCtx, metrics.Observer{Source: "cli"})
		if err := core.ExecuteMatch(ctx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run match", err)
		}
	},
}
