// ABOUTME: Sync CLI command for the Charm-hosted backend
// ABOUTME: Loads the Charm config and hands off to the charm subcommands
package cli

import (
	"fmt"

	"github.com/harperreed/dealdesk/charm"
)

// SyncCommand runs "sync <status|now|auto|wipe>" against the Charm KV store.
// Wiping local data requires a session.
func SyncCommand(env *Env, args []string) error {
	if len(args) > 0 && args[0] == "wipe" {
		if _, err := env.requireSession(); err != nil {
			return err
		}
	}

	cfg, err := charm.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load charm config: %w", err)
	}
	env.Logger.Debug("running sync command", "args", args, "host", cfg.Host)
	return charm.SyncCommand(cfg, env.Out, args)
}
