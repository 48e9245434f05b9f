// Package cmd defines the command-line interface for destiny.
package cmd

import (
	"github.com/huangsam/destiny/internal/contract"
	"github.com/huangsam/destiny/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(shareCmd)
	rootCmd.AddCommand(signsCmd)
	rootCmd.AddCommand(tiersCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the session subcommands to the parent session command
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionDropCmd)
	sessionCmd.AddCommand(sessionStatusCmd)
	sessionCmd.AddCommand(sessionClearCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("emoji", "yes", "Enable sign icons and emojis in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored stars and labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("data-file", "", "Path to a YAML or JSON data table replacing the built-in one")
	rootCmd.PersistentFlags().String("seed", "", "Seed for prediction selection (empty = random)")
	rootCmd.PersistentFlags().String("session-name", contract.DefaultSessionName, "Name of the session to use")
	rootCmd.PersistentFlags().String("session-ttl", contract.DefaultSessionTTL.String(), "Sessions older than this start over")
	rootCmd.PersistentFlags().String("session-backend", string(schema.SQLiteBackend), "Session backend: sqlite or mysql or postgresql or redis or none")
	rootCmd.PersistentFlags().String("session-db-connect", "", "Connection string for mysql/postgresql/redis sessions (e.g., redis://localhost:6379/0)")
	rootCmd.PersistentFlags().String("history-backend", "", "Prediction history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Connection string for prediction history (must differ from session-db-connect)")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Diagnostic log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("log-format", string(schema.ConsoleLog), "Diagnostic log format: console or json")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of matchCmd to Viper
	matchCmd.Flags().String("reveal-delay", schema.DefaultRevealDelay.String(), "Pause before revealing a text result")
	if err := viper.BindPFlags(matchCmd.Flags()); err != nil {
		contract.LogFatal("Error binding match flags", err)
	}

	// Bind all flags of shareCmd to Viper
	shareCmd.Flags().String("share-mode", string(schema.AutoShare), "Share sink: auto or native or clipboard or manual")
	shareCmd.Flags().String("share-webhook", "", "HTTP endpoint receiving native shares as JSON")
	shareCmd.Flags().String("share-url", "", "Link attached to shared results")
	shareCmd.Flags().String("share-header", "", "First line of the share text")
	shareCmd.Flags().String("share-footer", "", "Last line of the share text, usually hashtags")
	if err := viper.BindPFlags(shareCmd.Flags()); err != nil {
		contract.LogFatal("Error binding share flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("addr", contract.DefaultAddr, "Listen address for the HTTP API")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
