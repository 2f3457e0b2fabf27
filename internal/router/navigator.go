package router

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/parle/internal/shared"
)

// MaxRedirects bounds the guard redirects followed by a single navigation.
const MaxRedirects = 5

// Authenticator is the session view the guard needs.
type Authenticator interface {
	IsAuthenticated() bool
}

// Hook runs before a navigation is committed. Hooks run in registration order and the
// first redirect wins.
type Hook func(to Match, authenticated bool) Decision

// AuthHook applies [Guard] to the matched route.
func AuthHook(to Match, authenticated bool) Decision {
	return Guard(to.Route, authenticated)
}

// Navigator tracks the current location and checks every move against its hooks.
type Navigator struct {
	table  *Table
	auth   Authenticator
	logger *log.Logger

	mu      sync.Mutex
	hooks   []Hook
	current Match
	history []string
}

// NewNavigator creates a [Navigator] positioned at [HomePath] with [AuthHook] installed.
func NewNavigator(table *Table, auth Authenticator, logger *log.Logger) *Navigator {
	if table == nil {
		table = NewTable()
	}
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &Navigator{
		table:   table,
		auth:    auth,
		logger:  logger,
		hooks:   []Hook{AuthHook},
		current: Match{Route: Route{Path: HomePath, Name: "home"}, Path: HomePath},
	}
}

// Use appends hooks after the ones already registered.
func (n *Navigator) Use(hooks ...Hook) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.hooks = append(n.hooks, hooks...)
}

// Table returns the route table.
func (n *Navigator) Table() *Table {
	return n.table
}

// Resolve runs the hooks for path and follows redirects without moving the navigator.
func (n *Navigator) Resolve(path string) (Match, error) {
	n.mu.Lock()
	hooks := append([]Hook(nil), n.hooks...)
	n.mu.Unlock()

	authenticated := n.auth != nil && n.auth.IsAuthenticated()
	target := path
	from := ""

	for hop := 0; hop <= MaxRedirects; hop++ {
		m, err := n.table.Match(target)
		if err != nil {
			return Match{}, err
		}

		next := ""
		for _, h := range hooks {
			if d := h(m, authenticated); d.Action == Redirect {
				next = d.Location
				break
			}
		}
		if next == "" {
			m.RedirectedFrom = from
			return m, nil
		}

		n.logger.Debug("navigation redirected", "from", m.Path, "to", next)
		if from == "" {
			from = m.Path
		}
		target = next
	}

	return Match{}, fmt.Errorf("%w: %s", shared.ErrRedirectLoop, path)
}

// Navigate resolves path and, when it succeeds, makes the result the current location.
func (n *Navigator) Navigate(path string) (Match, error) {
	m, err := n.Resolve(path)
	if err != nil {
		return Match{}, err
	}
	n.commit(m)
	return m, nil
}

// ForceLogin moves to the login screen regardless of hooks. It backs the 401 handler,
// so it must succeed even when the session has not been cleared yet.
func (n *Navigator) ForceLogin() Match {
	m, err := n.table.Match(LoginPath)
	if err != nil {
		m = Match{Route: Route{Path: LoginPath, Name: "login"}, Path: LoginPath}
	}

	n.mu.Lock()
	if n.current.Path != LoginPath {
		m.RedirectedFrom = n.current.Path
	}
	n.mu.Unlock()

	n.commit(m)
	return m
}

func (n *Navigator) commit(m Match) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current.Path == m.Path {
		n.current = m
		return
	}
	n.current = m
	n.history = append(n.history, m.Path)
}

// Current returns the committed location.
func (n *Navigator) Current() Match {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// History lists committed paths, oldest first. Repeated moves to the same path are recorded once.
func (n *Navigator) History() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.history...)
}
