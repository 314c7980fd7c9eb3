package queue

import (
	"errors"
	"testing"
)

func newTestManager(t *testing.T, names ...string) *Manager {
	t.Helper()
	m := NewManager()
	if err := m.Configure(names, nil); err != nil {
		t.Fatalf("Configure() error: %v", err)
	}
	return m
}

func TestJoinPositions(t *testing.T) {
	m := newTestManager(t, "alpha", "beta")
	pos, err := m.Join("u1", "alpha")
	if err != nil || pos != 1 {
		t.Fatalf("Join(u1) = %d, %v; want 1, nil", pos, err)
	}
	pos, err = m.Join("u2", "alpha")
	if err != nil || pos != 2 {
		t.Fatalf("Join(u2) = %d, %v; want 2, nil", pos, err)
	}
}

func TestJoinIdempotentSameQueue(t *testing.T) {
	m := newTestManager(t, "alpha")
	if _, err := m.Join("u1", "alpha"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Join("u2", "alpha"); err != nil {
		t.Fatal(err)
	}
	pos, err := m.Join("u1", "alpha")
	if err != nil || pos != 1 {
		t.Errorf("repeat Join(u1) = %d, %v; want 1, nil", pos, err)
	}
	if len(m.Members("alpha")) != 2 {
		t.Errorf("membership grew on repeat join: %v", m.Members("alpha"))
	}
}

func TestJoinCrossQueueExclusivity(t *testing.T) {
	m := newTestManager(t, "alpha", "beta")
	if _, err := m.Join("u1", "alpha"); err != nil {
		t.Fatal(err)
	}
	_, err := m.Join("u1", "beta")
	var aqe *AlreadyQueuedError
	if !errors.As(err, &aqe) {
		t.Fatalf("Join across queues = %v, want AlreadyQueuedError", err)
	}
	if aqe.Queue != "alpha" {
		t.Errorf("AlreadyQueuedError.Queue = %q, want alpha", aqe.Queue)
	}
	if len(m.Members("beta")) != 0 {
		t.Errorf("beta mutated: %v", m.Members("beta"))
	}
	if q, pos, ok := m.Position("u1"); !ok || q != "alpha" || pos != 1 {
		t.Errorf("Position(u1) = %q, %d, %v; want alpha, 1, true", q, pos, ok)
	}
}

func TestLeaveThenPositionNotQueued(t *testing.T) {
	m := newTestManager(t, "alpha")
	if _, err := m.Join("u1", "alpha"); err != nil {
		t.Fatal(err)
	}
	name, ok := m.Leave("u1")
	if !ok || name != "alpha" {
		t.Fatalf("Leave(u1) = %q, %v; want alpha, true", name, ok)
	}
	if _, _, ok := m.Position("u1"); ok {
		t.Errorf("Position(u1) reported queued after leave")
	}
}

func TestLeaveNonMemberIsSilentNoop(t *testing.T) {
	m := newTestManager(t, "alpha")
	if name, ok := m.Leave("ghost"); ok || name != "" {
		t.Errorf("Leave(ghost) = %q, %v; want empty, false", name, ok)
	}
}

func TestAdvance(t *testing.T) {
	m := newTestManager(t, "alpha")
	for _, u := range []string{"u1", "u2"} {
		if _, err := m.Join(u, "alpha"); err != nil {
			t.Fatal(err)
		}
	}
	advanced, next, ok := m.Advance("alpha")
	if !ok || advanced != "u1" || next != "u2" {
		t.Fatalf("Advance() = %q, %q, %v; want u1, u2, true", advanced, next, ok)
	}
	if _, _, ok := m.Position("u1"); ok {
		t.Errorf("u1 still queued after advance")
	}
	advanced, next, ok = m.Advance("alpha")
	if !ok || advanced != "u2" || next != "" {
		t.Errorf("Advance() = %q, %q, %v; want u2, empty, true", advanced, next, ok)
	}
	if _, _, ok := m.Advance("alpha"); ok {
		t.Errorf("Advance() on empty queue reported ok")
	}
}

func TestRecordWin(t *testing.T) {
	m := newTestManager(t, "alpha", "beta")
	if got := m.RecordWin("alpha"); got != 1 {
		t.Errorf("RecordWin = %d, want 1", got)
	}
	if got := m.RecordWin("alpha"); got != 2 {
		t.Errorf("RecordWin = %d, want 2", got)
	}
	if got := m.Score("beta"); got != 0 {
		t.Errorf("Score(beta) = %d, want 0", got)
	}
}

func TestConfigureRejectsReservedNames(t *testing.T) {
	m := NewManager()
	reserved := map[string]bool{"catch": true}
	err := m.Configure([]string{"alpha", "catch"}, reserved)
	var rne *ReservedNameError
	if !errors.As(err, &rne) {
		t.Fatalf("Configure() = %v, want ReservedNameError", err)
	}
	if !m.Empty() {
		t.Errorf("queue set partially applied after rejected Configure")
	}
}

func TestConfigureWipesStateAndScores(t *testing.T) {
	m := newTestManager(t, "alpha")
	if _, err := m.Join("u1", "alpha"); err != nil {
		t.Fatal(err)
	}
	m.RecordWin("alpha")
	if err := m.Configure([]string{"alpha", "gamma"}, nil); err != nil {
		t.Fatalf("Configure() error: %v", err)
	}
	if len(m.Members("alpha")) != 0 {
		t.Errorf("membership survived reconfigure: %v", m.Members("alpha"))
	}
	if m.Score("alpha") != 0 {
		t.Errorf("score survived reconfigure: %d", m.Score("alpha"))
	}
	names := m.Names()
	if len(names) != 2 || names[0] != "alpha" || names[1] != "gamma" {
		t.Errorf("Names() = %v", names)
	}
}

func TestConfigureNormalizesAndDedupes(t *testing.T) {
	m := NewManager()
	if err := m.Configure([]string{" Alpha ", "BETA", "alpha", ""}, nil); err != nil {
		t.Fatalf("Configure() error: %v", err)
	}
	names := m.Names()
	if len(names) != 2 || names[0] != "alpha" || names[1] != "beta" {
		t.Errorf("Names() = %v, want [alpha beta]", names)
	}
}
