package lookup

import "strings"

// Matcher selects the corpus entry closest to a query.
type Matcher struct {
	// Threshold is the lowest score accepted as a match.
	Threshold float64
	// Bonus is added when the normalized query occurs inside the entry's
	// normalized prompt. The resulting score is not clamped to 1.
	Bonus float64
}

// NewMatcher builds a matcher from cfg.
func NewMatcher(cfg Config) Matcher {
	return Matcher{Threshold: cfg.Threshold, Bonus: cfg.Bonus}
}

// Match explains a match decision.
type Match struct {
	Entry *Entry
	Score float64
	// Spaced and Compact are the ratios of the two comparison forms.
	Spaced    float64
	Compact   float64
	Contained bool
}

// BestMatch scores every entry and returns the highest scoring one. Ties keep
// the entry seen first. It reports false when the query normalizes to nothing
// or the best score is below the threshold.
func (m Matcher) BestMatch(query string, corpus Corpus) (Match, bool) {
	spaced := Normalize(query)
	if spaced == "" {
		return Match{}, false
	}
	packed := compact(spaced)

	var (
		best  Match
		found bool
	)
	for _, entry := range corpus {
		candidate := m.score(spaced, packed, entry)
		if !found || candidate.Score > best.Score {
			best = candidate
			found = true
		}
	}
	if !found || best.Score < m.Threshold {
		return Match{}, false
	}
	return best, true
}

func (m Matcher) score(spaced, packed string, entry *Entry) Match {
	match := Match{
		Entry:     entry,
		Spaced:    Similarity(spaced, entry.Normalized()),
		Compact:   Similarity(packed, entry.Compact()),
		Contained: strings.Contains(entry.Normalized(), spaced),
	}
	match.Score = max(match.Spaced, match.Compact)
	if match.Contained {
		match.Score += m.Bonus
	}
	return match
}
