// ABOUTME: Interactive board subcommand
// ABOUTME: Launches the bubbletea TUI, read-only unless a user is logged in
package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/harperreed/dealdesk/tui"
)

// TUICommand starts the full-screen pipeline board.
func TUICommand(env *Env, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal")
	}

	opts := []tui.Option{tui.WithLogger(env.Logger)}
	if _, err := env.requireSession(); err != nil {
		env.Logger.Info("no session, opening board read-only")
		opts = append(opts, tui.ReadOnly())
	}

	p := tea.NewProgram(tui.NewModel(env.Repos, opts...), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
