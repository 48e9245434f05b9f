package cmd

import (
	"github.com/huangsam/destiny/core"
	"github.com/huangsam/destiny/internal/contract"
	"github.com/spf13/cobra"
)

// signsCmd lists the selectable signs.
var signsCmd = &cobra.Command{
	Use:     "signs",
	Short:   "List the zodiac signs with their ids and icons.",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSigns(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot list signs", err)
		}
	},
}

// tiersCmd lists the score tiers.
var tiersCmd = &cobra.Command{
	Use:   "tiers",
	Short: "List the score tiers used for star ratings.",
	Long: `Show every tier with its score range, star rating, label and a sample prediction.

Tiers are scanned in order and the first tier containing the total wins.
A total outside every range falls back to the first tier.`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTiers(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot list tiers", err)
		}
	},
}
