// Package game implements the flowermons capture economy: per-user flowerball
// balances, the caught/shiny collection sets, the shiny probability model,
// and the completion leaderboard. The engine owns its maps exclusively; the
// bot serializes every call behind its event handler, so the engine itself
// holds no locks. The ledger write after a catch is a collaborator side
// effect: its failure is logged and the catch stays committed.
package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sort"

	"github.com/xcornflowerx/flowerbot/store"
)

// Full odds are 1 in 4096; subscribers draw the second index from a ±256
// window around the target, which narrows the effective odds to 1 in 513.
const (
	shinyRange     = 4096
	subShinyWindow = 256
)

var (
	// ErrNoBalls refuses a catch at zero balance.
	ErrNoBalls = errors.New("no flowerballs left")
	// ErrNoDex refuses a catch when no species pool is loaded.
	ErrNoDex = errors.New("no species pool loaded")
	// ErrInvalidMode refuses an AddCurrency call with an unknown purchase mode.
	ErrInvalidMode = errors.New("invalid purchase mode")
)

// CatchResult describes one committed catch.
type CatchResult struct {
	Species    string
	Shiny      bool
	BallsLeft  int
	Completion float64
	ShinyCount int
}

// LeaderGroup is one rung of the leaderboard: every user tied at a
// completion percentage.
type LeaderGroup struct {
	Completion float64
	Users      []string
}

type Engine struct {
	dex     []string
	ledger  map[string]*store.LedgerEntry
	balance map[string]int

	defaultLimit int
	subsLimit    int

	rng     *rand.Rand
	persist func(map[string]*store.LedgerEntry) error
}

// NewEngine builds the engine around a species pool and a previously loaded
// ledger. persist is called with the full ledger after every catch; pass nil
// to disable durability (tests).
func NewEngine(dex []string, ledger map[string]*store.LedgerEntry, defaultLimit, subsLimit int, persist func(map[string]*store.LedgerEntry) error) *Engine {
	if ledger == nil {
		ledger = map[string]*store.LedgerEntry{}
	}
	return &Engine{
		dex:          append([]string(nil), dex...),
		ledger:       ledger,
		balance:      map[string]int{},
		defaultLimit: defaultLimit,
		subsLimit:    subsLimit,
		rng:          rand.New(rand.NewSource(rand.Int63())),
		persist:      persist,
	}
}

// SetRand replaces the random source. Tests use this for deterministic draws.
func (e *Engine) SetRand(r *rand.Rand) { e.rng = r }

// DexSize returns the size of the species pool.
func (e *Engine) DexSize() int { return len(e.dex) }

// Balance returns the user's flowerball balance, lazily initializing it to
// the subscriber or default limit on first sight. The initial grant happens
// exactly once; later subscription changes never reset it.
func (e *Engine) Balance(user string, subscriber bool) int {
	if _, ok := e.balance[user]; !ok {
		if subscriber {
			e.balance[user] = e.subsLimit
		} else {
			e.balance[user] = e.defaultLimit
		}
	}
	return e.balance[user]
}

// rollShiny draws a target index and a result index over [0, 4095] and calls
// the catch shiny iff they collide. Subscribers draw the result from a
// clamped ±256 window around the target.
func (e *Engine) rollShiny(subscriber bool) bool {
	target := e.rng.Intn(shinyRange)
	if !subscriber {
		return e.rng.Intn(shinyRange) == target
	}
	lo := target - subShinyWindow
	if lo < 0 {
		lo = 0
	}
	hi := target + subShinyWindow
	if hi > shinyRange-1 {
		hi = shinyRange - 1
	}
	return lo+e.rng.Intn(hi-lo+1) == target
}

// Catch spends one flowerball on a uniform draw from the species pool
// (duplicates intended; the collection is a set) and rolls for shiny. The
// in-memory mutation is committed before the ledger rewrite; a failed write
// is logged and does not roll anything back.
func (e *Engine) Catch(user string, subscriber bool) (CatchResult, error) {
	if len(e.dex) == 0 {
		return CatchResult{}, ErrNoDex
	}
	if e.Balance(user, subscriber) <= 0 {
		return CatchResult{}, ErrNoBalls
	}

	species := e.dex[e.rng.Intn(len(e.dex))]
	shiny := e.rollShiny(subscriber)

	entry := e.ledger[user]
	if entry == nil {
		entry = &store.LedgerEntry{Caught: map[string]bool{}, Shiny: map[string]bool{}}
		e.ledger[user] = entry
	}
	entry.Caught[species] = true
	if shiny {
		entry.Shiny[species] = true
	}
	e.balance[user]--

	if e.persist != nil {
		if err := e.persist(e.ledger); err != nil {
			slog.Error("ledger write failed; catch stays committed", slog.String("user", user), slog.Any("err", err))
		}
	}

	return CatchResult{
		Species:    species,
		Shiny:      shiny,
		BallsLeft:  e.balance[user],
		Completion: e.Completion(user),
		ShinyCount: len(entry.Shiny),
	}, nil
}

// Completion returns the user's collection percentage, rounded to one
// decimal place. A user with nothing caught is 0.0.
func (e *Engine) Completion(user string) float64 {
	if len(e.dex) == 0 {
		return 0
	}
	entry := e.ledger[user]
	if entry == nil {
		return 0
	}
	pct := 100 * float64(len(entry.Caught)) / float64(len(e.dex))
	return math.Round(pct*10) / 10
}

// CaughtCount returns how many distinct species the user has caught, and how
// many of those are shiny.
func (e *Engine) CaughtCount(user string) (caught, shiny int) {
	entry := e.ledger[user]
	if entry == nil {
		return 0, 0
	}
	return len(entry.Caught), len(entry.Shiny)
}

// Leaders groups every user with a ledger entry by completion percentage and
// returns the top 5 distinct percentage values, descending. All users tied
// at an included value are included, so the result may name more than 5
// users but never more than 5 groups.
func (e *Engine) Leaders() []LeaderGroup {
	if len(e.ledger) == 0 {
		return nil
	}
	byCompletion := map[float64][]string{}
	for user := range e.ledger {
		pct := e.Completion(user)
		byCompletion[pct] = append(byCompletion[pct], user)
	}
	values := make([]float64, 0, len(byCompletion))
	for v := range byCompletion {
		values = append(values, v)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(values)))

	groups := make([]LeaderGroup, 0, 5)
	for _, v := range values {
		users := byCompletion[v]
		sort.Strings(users)
		groups = append(groups, LeaderGroup{Completion: v, Users: users})
		if len(groups) >= 5 {
			break
		}
	}
	return groups
}

// AddCurrency credits flowerballs to a user. Mode "bits" grants one ball per
// 50 bits plus a bonus ball per 200 bits, with the fractional remainder
// rounded up to a whole ball; "dollars" converts at 100 bits per dollar and
// takes the bits path; "balls" adds the raw count. Any other mode fails with
// ErrInvalidMode. Returns the new balance.
func (e *Engine) AddCurrency(user, mode string, amount int, subscriber bool) (int, error) {
	switch mode {
	case "dollars":
		amount *= 100
		fallthrough
	case "bits":
		purchased := int(math.Ceil(float64(amount)/50 + float64(amount)/200))
		e.balance[user] = e.Balance(user, subscriber) + purchased
	case "balls":
		e.balance[user] = e.Balance(user, subscriber) + amount
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	return e.balance[user], nil
}
