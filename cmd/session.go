package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/destiny/core"
	"github.com/huangsam/destiny/internal/contract"
	"github.com/huangsam/destiny/internal/iocache"
	"github.com/huangsam/destiny/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// sessionSetup loads minimal configuration needed for session store operations.
// This is used by commands that need store access without full shared setup.
func sessionSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("session-backend"))
	connStr := viper.GetString("session-db-connect")
	if _, ok := schema.ValidSessionBackends[backend]; !ok {
		return fmt.Errorf("invalid session backend '%s'. must be sqlite, mysql, postgresql, redis, none", backend)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Initialize the session store only
	if err := iocache.InitStores(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}

	cfg.SessionBackend = backend
	cfg.SessionDBConnect = connStr

	return nil
}

// sessionSetupWrapper wraps sessionSetup to provide PreRunE for session store commands.
func sessionSetupWrapper(_ *cobra.Command, _ []string) error {
	return sessionSetup()
}

// sessionCmd focused on session management.
//
// Note: status and clear use minimal initialization (sessionSetup) instead of
// the full sharedSetup, since they only touch the store.
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect and manage the saved session",
	Long: `Manage the session that remembers both selected signs and the last result.

Supported backends: SQLite (default), MySQL, PostgreSQL, Redis, or None (no persistence)

Subcommands:
  show   - Show the selected signs and the last result
  drop   - Forget the current session
  status - Show session store statistics and connection info
  clear  - Remove every stored session

Examples:
  # Show the current session
  destiny session show

  # Use a named session stored in Redis
  DESTINY_SESSION_BACKEND=redis DESTINY_SESSION_DB_CONNECT=redis://localhost:6379/0 destiny session show --session-name alice`,
}

// sessionShowCmd prints the session.
var sessionShowCmd = &cobra.Command{
	Use:     "show",
	Short:   "Show the selected signs and the last result",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSessionShow(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot show session", err)
		}
	},
}

// sessionDropCmd removes the named session.
var sessionDropCmd = &cobra.Command{
	Use:     "drop",
	Short:   "Forget the current session",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSessionDrop(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot drop session", err)
		}
		fmt.Printf("Session %q dropped.\n", cfg.SessionName)
	},
}

// sessionClearCmd clears the session store.
var sessionClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every stored session",
	Long: `Delete all sessions from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the session table
For Redis: Deletes every destiny session key

Examples:
  # Clear SQLite sessions (default)
  destiny session clear

  # Clear MySQL sessions (set connection string via env variable)
  DESTINY_SESSION_BACKEND=mysql DESTINY_SESSION_DB_CONNECT="..." destiny session clear`,
	PreRunE: sessionSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		iocache.CloseStores()
		if err := iocache.ClearSession(cfg.SessionBackend, sqlitePath(cfg.SessionBackend, cfg.SessionDBConnect, contract.GetSessionDBFilePath()), cfg.SessionDBConnect); err != nil {
			contract.LogFatal("Failed to clear sessions", err)
		}
		fmt.Println("Sessions cleared successfully.")
	},
}

// sessionStatusCmd shows session store status.
var sessionStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display session store statistics and connection details",
	Long: `Show detailed information about the session store.

Displays:
- Backend type and connection status
- Total number of stored sessions
- Last and oldest save timestamps
- Store size`,
	PreRunE: sessionSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetSessionStore()
		if store == nil {
			contract.LogFatal("Failed to get session status", fmt.Errorf("session store is not configured"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get session status", err)
		}
		iocache.PrintSessionStatus(os.Stdout, status)
	},
}

// sqlitePath returns the SQLite file a backend writes to, preferring an explicit connStr.
func sqlitePath(backend schema.DatabaseBackend, connStr, defaultPath string) string {
	if backend == schema.SQLiteBackend && connStr != "" {
		return connStr
	}
	return defaultPath
}
