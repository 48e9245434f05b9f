package cmd

import (
	"github.com/huangsam/destiny/core"
	"github.com/huangsam/destiny/internal/contract"
	"github.com/huangsam/destiny/internal/metrics"
	"github.com/spf13/cobra"
)

// selectCmd sets one selector of the session.
var selectCmd = &cobra.Command{
	Use:   "select <a|b> <sign>",
	Short: "Choose the sign for one side of the session.",
	Long: `Store a sign in selector a or b of the session.

Changing a selector clears the shown result, so run match again to see
the new compatibility.

Examples:
  destiny select a gemini
  destiny select b 7`,
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		slot, err := core.ParseSlot(args[0])
		if err != nil {
			contract.LogFatal("Cannot select sign", err)
		}
		if err := core.ExecuteSelect(rootCtx, cfg, cacheManager, slot, args[1]); err != nil {
			contract.LogFatal("Cannot select sign", err)
		}
	},
}

// resetCmd clears both selectors and the result.
var resetCmd = &cobra.Command{
	Use:     "reset",
	Short:   "Clear both signs and the shown result.",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteReset(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot reset session", err)
		}
	},
}

// shareCmd shares the last result of the session.
var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Share the last compatibility result.",
	Long: `Share the result currently shown in the session.

Sinks:
- native: POST the share payload to --share-webhook
- clipboard: copy the text and link to the clipboard
- manual: print the text to copy by hand
- auto (default): native when a webhook is set, else clipboard when
  available, else manual

A failed share is reported but never ends the session.

Examples:
  destiny share
  destiny share --share-mode manual | pbcopy
  destiny share --share-mode native --share-webhook https://example.com/share`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		ctx := core.ContextWithObserver(rootCtx, metrics.Observer{Source: "cli"})
		if err := core.ExecuteShare(ctx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot share result", err)
		}
	},
}
