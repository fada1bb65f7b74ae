// ABOUTME: Shared command environment and backend selection
// ABOUTME: Opens the configured record stores behind the guard decorator
package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/dealdesk/charm"
	"github.com/harperreed/dealdesk/config"
	"github.com/harperreed/dealdesk/db"
	"github.com/harperreed/dealdesk/mockdata"
	"github.com/harperreed/dealdesk/repository"
	"github.com/harperreed/dealdesk/schema"
	"github.com/harperreed/dealdesk/session"
)

// Env is what every command runs against.
type Env struct {
	Repos   *repository.Repositories
	Session *session.Store
	Logger  *log.Logger
	Out     io.Writer
	Now     func() time.Time
}

// Open selects the configured backend and returns an Env plus a closer.
func Open(cfg config.Config, logger *log.Logger) (*Env, func() error, error) {
	if logger == nil {
		logger = log.Default()
	}

	factory, closer, err := OpenStores(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	env := &Env{
		Repos:   repository.Open(factory),
		Session: session.NewStore(cfg.SessionPath),
		Logger:  logger,
		Out:     os.Stdout,
		Now:     time.Now,
	}
	return env, closer, nil
}

// OpenStores builds a store factory for cfg.Backend. Every store is wrapped
// with db.Guard.
func OpenStores(cfg config.Config, logger *log.Logger) (repository.StoreFactory, func() error, error) {
	guarded := func(s db.Store) db.Store { return db.Guard(s, logger) }

	switch cfg.Backend {
	case config.BackendSQLite:
		database, err := db.OpenDatabase(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		logger.Debug("opened sqlite backend", "path", cfg.DBPath)
		return func(entity schema.Entity) db.Store {
			return guarded(db.NewSQLiteStore(database, entity))
		}, database.Close, nil

	case config.BackendMemory:
		stores := make(map[string]db.Store)
		for _, entity := range schema.All() {
			store, err := mockdata.NewStore(entity, cfg.MockLatency)
			if err != nil {
				return nil, nil, err
			}
			stores[entity.Table] = guarded(store)
		}
		logger.Debug("opened mock backend", "latency", cfg.MockLatency)
		return func(entity schema.Entity) db.Store {
			return stores[entity.Table]
		}, noClose, nil

	case config.BackendCharm:
		charmCfg, err := charm.LoadConfig()
		if err != nil {
			return nil, nil, err
		}
		client, err := charm.Open(charmCfg)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("opened charm backend", "host", charmCfg.Host)
		return func(entity schema.Entity) db.Store {
			return guarded(charm.NewKVStore(client, entity))
		}, noClose, nil

	default:
		return nil, nil, config.ValidateBackend(cfg.Backend)
	}
}

func noClose() error { return nil }

// requireSession fails unless a user is logged in.
func (e *Env) requireSession() (*session.Session, error) {
	sess, err := e.Session.Current()
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func (e *Env) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(e.Out, format, args...)
}

func (e *Env) println(args ...any) {
	_, _ = fmt.Fprintln(e.Out, args...)
}

// parseID reads the single positional record Id.
func parseID(kind string, args []string) (int64, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("%s ID is required", kind)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s ID: %s", kind, args[0])
	}
	return id, nil
}

// parseDate accepts YYYY-MM-DD or RFC 3339. Empty input yields nil.
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", value)
}

// optionalID parses an optional reference flag. Zero means unset.
func optionalID(v int64) *int64 {
	if v <= 0 {
		return nil
	}
	return &v
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}
