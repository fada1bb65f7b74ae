// ABOUTME: Web server subcommand
// ABOUTME: Serves read-only JSON views, graphs and metrics until interrupted
package cli

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/dealdesk/web"
)

// WebCommand starts the read-only HTTP server.
func WebCommand(env *Env, args []string) error {
	fs := flag.NewFlagSet("web", flag.ExitOnError)
	port := fs.Int("port", 8080, "Port to listen on")
	_ = fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return web.NewServer(env.Repos, env.Logger).Start(ctx, *port)
}
