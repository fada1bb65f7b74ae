// ABOUTME: CLI commands for Charm KV sync operations
// ABOUTME: Status, manual sync, auto-sync toggle and local wipe for the hosted backend

package charm

import (
	"flag"
	"fmt"
	"io"

	"github.com/harperreed/dealdesk/schema"
)

// SyncCommand dispatches "sync <status|now|auto|wipe>".
func SyncCommand(cfg *Config, out io.Writer, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: dealdesk sync <status|now|auto|wipe>")
	}

	switch args[0] {
	case "status":
		return syncStatus(cfg, out, args[1:])
	case "now":
		return syncNow(cfg, out, args[1:])
	case "auto":
		return setAutoSync(cfg, out, args[1:])
	case "wipe":
		return syncWipe(cfg, out, args[1:])
	default:
		return fmt.Errorf("unknown sync command: %s", args[0])
	}
}

func syncStatus(cfg *Config, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("sync status", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := Open(cfg)
	if err != nil {
		return err
	}
	return WriteStatus(c, out)
}

// WriteStatus prints the connection state and per-table record counts.
func WriteStatus(c *Client, out io.Writer) error {
	cfg := c.Config()
	_, _ = fmt.Fprintln(out, "Charm Sync Status")
	_, _ = fmt.Fprintln(out, "─────────────────")
	_, _ = fmt.Fprintf(out, "Server:    %s\n", cfg.Host)
	_, _ = fmt.Fprintf(out, "Auto-sync: %v\n", cfg.AutoSync)

	if id, err := c.ID(); err != nil {
		_, _ = fmt.Fprintln(out, "Status:    Not connected")
	} else {
		_, _ = fmt.Fprintln(out, "Status:    Connected")
		_, _ = fmt.Fprintf(out, "ID:        %s\n", id)
	}

	_, _ = fmt.Fprintln(out)
	for _, entity := range schema.All() {
		keys, err := c.KeysWithPrefix([]byte(entity.Table + ":"))
		if err != nil {
			return fmt.Errorf("failed to count %s records: %w", entity.Name, err)
		}
		_, _ = fmt.Fprintf(out, "%-12s %d\n", entity.Name+":", len(keys))
	}
	return nil
}

func syncNow(cfg *Config, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("sync now", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := Open(cfg)
	if err != nil {
		return err
	}
	if err := c.Sync(); err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	_, _ = fmt.Fprintln(out, "✓ Synced")
	return nil
}

func setAutoSync(cfg *Config, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("sync auto", flag.ContinueOnError)
	enable := fs.Bool("enable", false, "Enable auto-sync")
	disable := fs.Bool("disable", false, "Disable auto-sync")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *enable == *disable {
		return fmt.Errorf("usage: dealdesk sync auto --enable|--disable")
	}
	if err := cfg.SetAutoSync(*enable); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	if *enable {
		_, _ = fmt.Fprintln(out, "✓ Auto-sync enabled")
	} else {
		_, _ = fmt.Fprintln(out, "✓ Auto-sync disabled")
	}
	return nil
}

func syncWipe(cfg *Config, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("sync wipe", flag.ContinueOnError)
	confirm := fs.Bool("confirm", false, "Confirm data wipe")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*confirm {
		_, _ = fmt.Fprintln(out, "WARNING: This will delete ALL local data!")
		_, _ = fmt.Fprintln(out)
		_, _ = fmt.Fprintln(out, "To confirm, run:")
		_, _ = fmt.Fprintln(out, "  dealdesk sync wipe --confirm")
		return nil
	}

	c, err := Open(cfg)
	if err != nil {
		return err
	}
	if err := c.Reset(); err != nil {
		return fmt.Errorf("failed to reset KV store: %w", err)
	}

	_, _ = fmt.Fprintln(out, "✓ All data wiped")
	return nil
}
