// ABOUTME: Login, logout and whoami commands
// ABOUTME: Manage the on-disk session flag that gates mutating commands
package cli

import (
	"errors"
	"flag"
	"fmt"

	"github.com/harperreed/dealdesk/session"
)

// LoginCommand starts a session.
func LoginCommand(env *Env, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	user := fs.String("user", "", "User name (required)")
	_ = fs.Parse(args)

	if *user == "" {
		return fmt.Errorf("--user is required")
	}

	sess, err := env.Session.Login(*user)
	if err != nil {
		return err
	}
	env.printf("✓ Logged in as %s\n", sess.User)
	return nil
}

// LogoutCommand ends the current session.
func LogoutCommand(env *Env, args []string) error {
	fs := flag.NewFlagSet("logout", flag.ExitOnError)
	_ = fs.Parse(args)

	if err := env.Session.Logout(); err != nil {
		return err
	}
	env.println("✓ Logged out")
	return nil
}

// WhoAmICommand prints the logged-in user.
func WhoAmICommand(env *Env, args []string) error {
	fs := flag.NewFlagSet("whoami", flag.ExitOnError)
	_ = fs.Parse(args)

	sess, err := env.Session.Current()
	if errors.Is(err, session.ErrNotLoggedIn) {
		env.println("Not logged in")
		return nil
	}
	if err != nil {
		return err
	}
	env.printf("%s (since %s)\n", sess.User, sess.LoggedInAt.Local().Format("2006-01-02 15:04"))
	return nil
}
