package tally

import (
	"sort"
	"time"
)

// LikesCounter counts how many records list each username. Usernames are
// case-sensitive. The counter remembers the order usernames were first
// seen so ranking ties resolve deterministically.
type LikesCounter struct {
	counts map[string]int
	order  []string
}

// NewLikesCounter returns an empty counter.
func NewLikesCounter() *LikesCounter {
	return &LikesCounter{counts: make(map[string]int)}
}

// Add counts one more record listing username.
func (c *LikesCounter) Add(username string) {
	if _, seen := c.counts[username]; !seen {
		c.order = append(c.order, username)
	}
	c.counts[username]++
}

// Count returns the number of records listing username.
func (c *LikesCounter) Count(username string) int {
	return c.counts[username]
}

// Len returns the number of distinct usernames.
func (c *LikesCounter) Len() int {
	return len(c.order)
}

// Names returns usernames in first-seen order.
func (c *LikesCounter) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Map returns a copy of the counts.
func (c *LikesCounter) Map() map[string]int {
	out := make(map[string]int, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}

// DateRange is the earliest and latest post date a username was seen on.
// The zero value is unset; the first Fold sets both ends.
type DateRange struct {
	First time.Time
	Last  time.Time
	set   bool
}

// Fold widens the range to include d.
func (r *DateRange) Fold(d time.Time) {
	if !r.set {
		r.First, r.Last, r.set = d, d, true
		return
	}
	if d.Before(r.First) {
		r.First = d
	}
	if d.After(r.Last) {
		r.Last = d
	}
}

// IsSet reports whether any date has been folded in.
func (r DateRange) IsSet() bool {
	return r.set
}

// Entry is one row of the liker ranking.
type Entry struct {
	Placement int
	Username  string
	Likes     int
	FirstSeen time.Time
	LastSeen  time.Time
}

// rank orders usernames by descending count. sort.SliceStable keeps
// first-seen order among equal counts.
func rank(c *LikesCounter, ranges map[string]*DateRange) []Entry {
	entries := make([]Entry, 0, c.Len())
	for _, name := range c.order {
		e := Entry{Username: name, Likes: c.counts[name]}
		if r, ok := ranges[name]; ok {
			e.FirstSeen, e.LastSeen = r.First, r.Last
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Likes > entries[j].Likes
	})

	for i := range entries {
		entries[i].Placement = i + 1
	}
	return entries
}
