package bench

import (
	"github.com/sahilm/fuzzy"
)

// Suggestion pairs a variable the script uses but the env lacks with a
// declared, unused env entry of a similar name; usually a typo on one side.
type Suggestion struct {
	Used     string `json:"used"     yaml:"used"`
	Declared string `json:"declared" yaml:"declared"`
}

// Suggest proposes, for each extra variable in r, the closest unused env
// entry. Each unused entry is proposed at most once.
func Suggest(r AnalysisResult) []Suggestion {
	var unused []string

	for _, ev := range r.Env {
		if ev != nil && ev.Unused {
			unused = append(unused, ev.Name)
		}
	}

	taken := make(map[string]bool, len(unused))
	out := []Suggestion{}

	for _, extra := range r.Extra {
		if name, ok := closest(extra.Name, unused, taken); ok {
			taken[name] = true
			out = append(out, Suggestion{Used: extra.Name, Declared: name})
		}
	}

	return out
}

// closest returns the best candidate matching name in either direction:
// name as a fuzzy pattern over candidates, or a candidate as a pattern over
// name.
func closest(name string, candidates []string, taken map[string]bool) (string, bool) {
	best, bestScore, found := "", 0, false

	consider := func(m fuzzy.Match, candidate string) {
		if taken[candidate] {
			return
		}

		if !found || m.Score > bestScore {
			best, bestScore, found = candidate, m.Score, true
		}
	}

	for _, m := range fuzzy.Find(name, candidates) {
		consider(m, m.Str)
	}

	for _, c := range candidates {
		for _, m := range fuzzy.Find(c, []string{name}) {
			consider(m, c)
		}
	}

	return best, found
}
