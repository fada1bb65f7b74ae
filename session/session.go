// ABOUTME: Login/logout flag persisted as a small JSON file
// ABOUTME: Mutating commands require a current session; there is no authorization model

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotLoggedIn is returned when no session file exists.
var ErrNotLoggedIn = errors.New("not logged in (run: dealdesk login --user <name>)")

type Session struct {
	User       string    `json:"user"`
	Token      uuid.UUID `json:"token"`
	LoggedInAt time.Time `json:"logged_in_at"`
}

// Store reads and writes the session file.
type Store struct {
	path string
	now  func() time.Time
}

func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Login starts a session for user, replacing any current one.
func (s *Store) Login(user string) (*Session, error) {
	user = strings.TrimSpace(user)
	if user == "" {
		return nil, fmt.Errorf("user is required")
	}

	sess := &Session{User: user, Token: uuid.New(), LoggedInAt: s.now().UTC()}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return nil, fmt.Errorf("failed to write session: %w", err)
	}
	return sess, nil
}

// Logout ends the current session. Logging out twice is not an error.
func (s *Store) Logout() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

// Current returns the active session or ErrNotLoggedIn.
func (s *Store) Current() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotLoggedIn
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil || sess.User == "" {
		return nil, ErrNotLoggedIn
	}
	return &sess, nil
}
