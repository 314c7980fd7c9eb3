package game

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/xcornflowerx/flowerbot/store"
)

func ledgerWith(users map[string][]string) map[string]*store.LedgerEntry {
	ledger := map[string]*store.LedgerEntry{}
	for user, species := range users {
		entry := &store.LedgerEntry{Caught: map[string]bool{}, Shiny: map[string]bool{}}
		for _, s := range species {
			entry.Caught[s] = true
		}
		ledger[user] = entry
	}
	return ledger
}

func TestBalanceLazyInit(t *testing.T) {
	e := NewEngine([]string{"rose"}, nil, 3, 10, nil)
	if got := e.Balance("u1", false); got != 3 {
		t.Errorf("Balance(non-sub) = %d, want 3", got)
	}
	if got := e.Balance("u2", true); got != 10 {
		t.Errorf("Balance(sub) = %d, want 10", got)
	}
	// First sight decides; a later subscription does not reinitialize.
	if got := e.Balance("u1", true); got != 3 {
		t.Errorf("Balance(u1) after sub upgrade = %d, want 3", got)
	}
}

func TestCatchDecrementsAndStopsAtZero(t *testing.T) {
	e := NewEngine([]string{"a", "b", "c", "d"}, nil, 3, 10, nil)
	e.SetRand(rand.New(rand.NewSource(1)))
	for i := 2; i >= 0; i-- {
		res, err := e.Catch("u1", false)
		if err != nil {
			t.Fatalf("Catch() error: %v", err)
		}
		if res.BallsLeft != i {
			t.Errorf("BallsLeft = %d, want %d", res.BallsLeft, i)
		}
	}
	caughtBefore, _ := e.CaughtCount("u1")
	if _, err := e.Catch("u1", false); !errors.Is(err, ErrNoBalls) {
		t.Fatalf("Catch at zero = %v, want ErrNoBalls", err)
	}
	if got := e.Balance("u1", false); got != 0 {
		t.Errorf("balance after refused catch = %d, want 0", got)
	}
	caughtAfter, _ := e.CaughtCount("u1")
	if caughtAfter != caughtBefore {
		t.Errorf("caught set mutated by refused catch: %d -> %d", caughtBefore, caughtAfter)
	}
}

func TestCatchRequiresDex(t *testing.T) {
	e := NewEngine(nil, nil, 3, 10, nil)
	if _, err := e.Catch("u1", false); !errors.Is(err, ErrNoDex) {
		t.Errorf("Catch with empty dex = %v, want ErrNoDex", err)
	}
}

func TestShinySubsetInvariant(t *testing.T) {
	e := NewEngine([]string{"a", "b", "c"}, nil, 3, 10, nil)
	e.SetRand(rand.New(rand.NewSource(42)))
	if _, err := e.AddCurrency("u1", "balls", 3000, true); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3000; i++ {
		if _, err := e.Catch("u1", true); err != nil {
			t.Fatalf("Catch() error at %d: %v", i, err)
		}
	}
	entry := e.ledger["u1"]
	for s := range entry.Shiny {
		if !entry.Caught[s] {
			t.Errorf("shiny %q not in caught set", s)
		}
	}
	if got := e.Balance("u1", true); got != 10 {
		t.Errorf("balance = %d, want 10 (3000 bought + 10 grant - 3000 spent)", got)
	}
}

func TestCompletionRounding(t *testing.T) {
	tests := []struct {
		name   string
		dex    []string
		caught []string
		want   float64
	}{
		{"empty", []string{"a", "b", "c", "d"}, nil, 0.0},
		{"half", []string{"a", "b", "c", "d"}, []string{"a", "b"}, 50.0},
		{"third", []string{"a", "b", "c"}, []string{"a"}, 33.3},
		{"two thirds", []string{"a", "b", "c"}, []string{"a", "b"}, 66.7},
		{"full", []string{"a"}, []string{"a"}, 100.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(tt.dex, ledgerWith(map[string][]string{"u1": tt.caught}), 3, 10, nil)
			if got := e.Completion("u1"); got != tt.want {
				t.Errorf("Completion() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompletionUnknownUser(t *testing.T) {
	e := NewEngine([]string{"a"}, nil, 3, 10, nil)
	if got := e.Completion("nobody"); got != 0.0 {
		t.Errorf("Completion(nobody) = %v, want 0.0", got)
	}
}

func TestLeadersTopFiveDistinctGroups(t *testing.T) {
	dex := []string{"s1", "s2", "s3", "s4", "s5", "s6", "s7", "s8", "s9", "s10"}
	users := map[string][]string{}
	// Seven distinct completion levels, with two users tied at 50%.
	for i, u := range []string{"u10", "u9", "u8", "u7", "u6", "u5"} {
		users[u] = dex[:10-i]
	}
	users["tied"] = dex[:5] // same completion as u5
	e := NewEngine(dex, ledgerWith(users), 3, 10, nil)

	groups := e.Leaders()
	if len(groups) != 5 {
		t.Fatalf("len(groups) = %d, want 5", len(groups))
	}
	if groups[0].Completion != 100.0 || groups[0].Users[0] != "u10" {
		t.Errorf("top group = %+v", groups[0])
	}
	last := groups[4]
	if last.Completion != 60.0 {
		t.Errorf("lowest included completion = %v, want 60.0", last.Completion)
	}
	for _, g := range groups {
		for _, u := range g.Users {
			if e.Completion(u) != g.Completion {
				t.Errorf("user %q completion %v grouped under %v", u, e.Completion(u), g.Completion)
			}
		}
	}
}

func TestLeadersIncludesAllTiedAtFifthValue(t *testing.T) {
	dex := []string{"s1", "s2", "s3", "s4", "s5"}
	users := map[string][]string{
		"a": dex[:5], "b": dex[:4], "c": dex[:3], "d": dex[:2],
		"e1": dex[:1], "e2": dex[:1], "e3": dex[:1],
	}
	e := NewEngine(dex, ledgerWith(users), 3, 10, nil)
	groups := e.Leaders()
	if len(groups) != 5 {
		t.Fatalf("len(groups) = %d, want 5", len(groups))
	}
	if len(groups[4].Users) != 3 {
		t.Errorf("fifth group users = %v, want the three tied users", groups[4].Users)
	}
}

func TestLeadersEmptyLedger(t *testing.T) {
	e := NewEngine([]string{"a"}, nil, 3, 10, nil)
	if groups := e.Leaders(); groups != nil {
		t.Errorf("Leaders() = %v, want nil", groups)
	}
}

func TestAddCurrency(t *testing.T) {
	tests := []struct {
		name   string
		mode   string
		amount int
		want   int // balance delta over the lazy default of 3
	}{
		{"bits fraction rounds up", "bits", 49, 2}, // 0.98 + 0.245
		{"bits fifty", "bits", 50, 2},              // 1 + 0.25
		{"bits sixty", "bits", 60, 2},              // 1.2 + 0.3
		{"bits exact", "bits", 200, 5},             // 4 + 1
		{"bits additive", "bits", 450, 12},         // 9 + 2.25
		{"dollars convert", "dollars", 1, 3},       // 100 bits -> 2.5
		{"dollars exact", "dollars", 2, 5},         // 200 bits -> 4 + 1
		{"balls raw", "balls", 7, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine([]string{"a"}, nil, 3, 10, nil)
			got, err := e.AddCurrency("u1", tt.mode, tt.amount, false)
			if err != nil {
				t.Fatalf("AddCurrency() error: %v", err)
			}
			if got != 3+tt.want {
				t.Errorf("AddCurrency(%s, %d) = %d, want %d", tt.mode, tt.amount, got, 3+tt.want)
			}
		})
	}
}

func TestAddCurrencyInvalidMode(t *testing.T) {
	e := NewEngine([]string{"a"}, nil, 3, 10, nil)
	if _, err := e.AddCurrency("u1", "gems", 100, false); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("AddCurrency(gems) = %v, want ErrInvalidMode", err)
	}
}

func TestCatchCommitsDespitePersistFailure(t *testing.T) {
	persistCalls := 0
	e := NewEngine([]string{"a"}, nil, 3, 10, func(map[string]*store.LedgerEntry) error {
		persistCalls++
		return fmt.Errorf("disk full")
	})
	res, err := e.Catch("u1", false)
	if err != nil {
		t.Fatalf("Catch() error: %v", err)
	}
	if persistCalls != 1 {
		t.Errorf("persist calls = %d, want 1", persistCalls)
	}
	if res.BallsLeft != 2 {
		t.Errorf("BallsLeft = %d, want 2 despite persist failure", res.BallsLeft)
	}
	if caught, _ := e.CaughtCount("u1"); caught != 1 {
		t.Errorf("caught = %d, want 1 despite persist failure", caught)
	}
}
