// Package queue implements the named waitlist system: any number of named
// FIFO queues, with the invariant that a user is a member of at most one
// queue across all of them. Callers are expected to serialize access (the
// bot routes every chat event through a single handler); the Manager itself
// holds no locks.
package queue

import (
	"fmt"
	"strings"
)

// AlreadyQueuedError reports a join attempt by a user who is waiting in a
// different queue.
type AlreadyQueuedError struct {
	Queue string
}

func (e *AlreadyQueuedError) Error() string {
	return fmt.Sprintf("already waiting in queue %q", e.Queue)
}

// ReservedNameError reports a Configure call that tried to name a queue after
// an existing bot command.
type ReservedNameError struct {
	Name string
}

func (e *ReservedNameError) Error() string {
	return fmt.Sprintf("queue name %q collides with a command keyword", e.Name)
}

type Manager struct {
	names   []string
	members map[string][]string
	scores  map[string]int
}

func NewManager() *Manager {
	return &Manager{
		members: map[string][]string{},
		scores:  map[string]int{},
	}
}

// Configure atomically replaces the queue name set, clearing all membership
// and win counters. It rejects the whole call if any proposed name collides
// with a reserved command keyword, so a queue name can never shadow a
// command. Names are normalized lowercase; duplicates are dropped keeping
// first occurrence order.
func (m *Manager) Configure(names []string, reserved map[string]bool) error {
	cleaned := make([]string, 0, len(names))
	seen := map[string]bool{}
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		if reserved[name] {
			return &ReservedNameError{Name: name}
		}
		seen[name] = true
		cleaned = append(cleaned, name)
	}

	m.names = cleaned
	m.members = make(map[string][]string, len(cleaned))
	m.scores = make(map[string]int, len(cleaned))
	for _, name := range cleaned {
		m.members[name] = nil
		m.scores[name] = 0
	}
	return nil
}

// Names returns the configured queue names in declaration order.
func (m *Manager) Names() []string {
	return append([]string(nil), m.names...)
}

// Has reports whether a queue with the given name is configured.
func (m *Manager) Has(name string) bool {
	_, ok := m.members[name]
	return ok
}

// Empty reports whether no queues are configured at all.
func (m *Manager) Empty() bool {
	return len(m.names) == 0
}

// Join appends the user to the named queue and returns their 1-based
// position. Joining a queue the user is already in is idempotent and returns
// the current position. Joining while a member of a different queue fails
// with AlreadyQueuedError and mutates nothing.
func (m *Manager) Join(user, name string) (int, error) {
	if !m.Has(name) {
		return 0, fmt.Errorf("no such queue %q", name)
	}
	if current, pos, ok := m.Position(user); ok {
		if current == name {
			return pos, nil
		}
		return 0, &AlreadyQueuedError{Queue: current}
	}
	m.members[name] = append(m.members[name], user)
	return len(m.members[name]), nil
}

// Leave removes the user from whichever queue they are in, returning that
// queue's name. A user in no queue is a no-op with ok=false; the caller
// decides whether that deserves a reply (it does not).
func (m *Manager) Leave(user string) (string, bool) {
	for _, name := range m.names {
		for i, member := range m.members[name] {
			if member == user {
				m.members[name] = append(m.members[name][:i], m.members[name][i+1:]...)
				return name, true
			}
		}
	}
	return "", false
}

// Advance pops the head of the named queue. It returns the advanced user and
// the new head (empty string if the queue is now empty). An empty or unknown
// queue returns ok=false.
func (m *Manager) Advance(name string) (advanced, next string, ok bool) {
	members := m.members[name]
	if len(members) == 0 {
		return "", "", false
	}
	advanced = members[0]
	m.members[name] = members[1:]
	if len(m.members[name]) > 0 {
		next = m.members[name][0]
	}
	return advanced, next, true
}

// RecordWin increments the named queue's win counter and returns the new
// total.
func (m *Manager) RecordWin(name string) int {
	m.scores[name]++
	return m.scores[name]
}

// Score returns the named queue's win counter.
func (m *Manager) Score(name string) int {
	return m.scores[name]
}

// Members returns the ordered membership of the named queue.
func (m *Manager) Members(name string) []string {
	return append([]string(nil), m.members[name]...)
}

// Position reports the queue holding the user and their 1-based index.
// Positions are recomputed from the live list on every call, never cached.
func (m *Manager) Position(user string) (string, int, bool) {
	for _, name := range m.names {
		for i, member := range m.members[name] {
			if member == user {
				return name, i + 1, true
			}
		}
	}
	return "", 0, false
}
