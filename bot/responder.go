package bot

import "math/rand"

// responder answers exact full-message matches from the auto-response table.
// A trigger may carry several responses; one is chosen uniformly at random.
type responder struct {
	responses map[string][]string
	rng       *rand.Rand
}

func newResponder(responses map[string][]string) *responder {
	return &responder{
		responses: responses,
		rng:       rand.New(rand.NewSource(rand.Int63())),
	}
}

// setResponses swaps the table. Used by the data file watcher.
func (r *responder) setResponses(responses map[string][]string) {
	r.responses = responses
}

// Lookup matches the normalized full message against the table.
func (r *responder) Lookup(message string) (string, bool) {
	options := r.responses[message]
	if len(options) == 0 {
		return "", false
	}
	return options[r.rng.Intn(len(options))], true
}
