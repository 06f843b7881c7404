package extract

import (
	"sort"

	"github.com/dhamidi/stubgen/mirror"
)

// Stats summarizes one generation run.
type Stats struct {
	Packages     int                   `json:"packages" yaml:"packages"`
	Classes      int                   `json:"classes" yaml:"classes"`
	Duplicates   int                   `json:"duplicates" yaml:"duplicates"`
	Skipped      map[mirror.Reason]int `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Undocumented []string              `json:"undocumented,omitempty" yaml:"undocumented,omitempty"`
}

// SkippedTotal is the number of member reads that failed.
func (s Stats) SkippedTotal() int {
	n := 0
	for _, c := range s.Skipped {
		n += c
	}
	return n
}

// Accumulator is the state of one generation run: which classes were
// already extracted and what was skipped along the way.
type Accumulator struct {
	seen  map[string]bool
	stats Stats
}

func NewAccumulator() *Accumulator {
	return &Accumulator{
		seen:  make(map[string]bool),
		stats: Stats{Skipped: make(map[mirror.Reason]int)},
	}
}

// markSeen records qualifiedName and reports whether it was new.
func (a *Accumulator) markSeen(qualifiedName string) bool {
	if a.seen[qualifiedName] {
		a.stats.Duplicates++
		return false
	}
	a.seen[qualifiedName] = true
	return true
}

func (a *Accumulator) Seen(qualifiedName string) bool {
	return a.seen[qualifiedName]
}

func (a *Accumulator) skip(reason mirror.Reason) {
	a.stats.Skipped[reason]++
}

func (a *Accumulator) undocumented(qualifiedName string) {
	a.stats.Undocumented = append(a.stats.Undocumented, qualifiedName)
}

// Stats returns a copy of the counters collected so far.
func (a *Accumulator) Stats() Stats {
	s := a.stats
	s.Skipped = make(map[mirror.Reason]int, len(a.stats.Skipped))
	for k, v := range a.stats.Skipped {
		s.Skipped[k] = v
	}
	s.Undocumented = append([]string(nil), a.stats.Undocumented...)
	sort.Strings(s.Undocumented)
	return s
}
