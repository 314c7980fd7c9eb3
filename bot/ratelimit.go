package bot

// rateLimiter counts commands from users on the restricted list. Once a
// user's count for the session exceeds the limit, every further command is
// suppressed and answered only with the suspension notice. Counters never
// reset while the process runs; a restart is the only amnesty.
type rateLimiter struct {
	restricted map[string]bool
	counts     map[string]int
	limit      int
}

func newRateLimiter(restricted []string, limit int) *rateLimiter {
	r := &rateLimiter{
		restricted: map[string]bool{},
		counts:     map[string]int{},
		limit:      limit,
	}
	for _, u := range restricted {
		r.restricted[u] = true
	}
	return r
}

// Allow records one command from the user and reports whether it may run.
// Users not on the restricted list are always allowed and not counted.
func (r *rateLimiter) Allow(user string) bool {
	if !r.restricted[user] {
		return true
	}
	r.counts[user]++
	return r.counts[user] <= r.limit
}
