// Package keywords counts tracked keyword occurrences in content with
// overlap awareness: occurrences of a short term that sit inside a longer
// phrase containing it are attributed to that phrase rather than counted as
// standalone usage.
package keywords

import (
	"regexp"
	"strings"

	"github.com/hyperifyio/goseocheck/internal/guideline"
)

// Analysis describes how one keyword is used in a content snapshot.
// Standalone + Compound always equals Total.
type Analysis struct {
	Keyword string `json:"keyword"`

	Total      int `json:"total"`
	Standalone int `json:"standalone"`
	Compound   int `json:"compound"`

	// CompoundSources maps a containing parent phrase to how many of this
	// keyword's occurrences fall inside that parent's occurrences.
	CompoundSources map[string]int `json:"compoundSources,omitempty"`

	MinRequired int `json:"minRequired"`
	MaxAllowed  int `json:"maxAllowed"`

	// IsCompound is true for multi-word phrases.
	IsCompound bool `json:"isCompound"`

	// Parents lists containing phrases in matching order, possibly empty.
	Parents []string `json:"parents,omitempty"`

	Passes   bool   `json:"passes"`
	Feedback string `json:"feedback,omitempty"`
}

// span is a half-open [start, end) character range in folded content.
type span struct{ start, end int }

func (a span) overlaps(b span) bool {
	return !(a.end <= b.start || b.end <= a.start)
}

// Counter locates keyword occurrences and attributes overlaps between
// phrases and the terms they contain. Construction does all per-guideline
// work (ordering, regex compilation, hierarchy) so Analyze stays cheap when
// called repeatedly on content revisions.
type Counter struct {
	ranges  map[string]guideline.KeywordRange
	ordered []string
	res     map[string]*regexp.Regexp
	parents map[string][]string
}

// NewCounter builds a Counter for a keyword range table.
func NewCounter(ranges map[string]guideline.KeywordRange) *Counter {
	c := &Counter{
		ranges:  ranges,
		ordered: orderKeywords(ranges),
		res:     make(map[string]*regexp.Regexp, len(ranges)),
		parents: make(map[string][]string, len(ranges)),
	}
	for _, kw := range c.ordered {
		c.res[kw] = wordBoundaryPattern(kw)
	}
	// Parent/child relation: keyword B is a child of keyword A when B's
	// folded text is contained in A's folded text. Only keywords earlier in
	// the ordering (more words, then longer) can be parents.
	for i, kw := range c.ordered {
		folded := guideline.Fold(kw)
		for _, parent := range c.ordered[:i] {
			if strings.Contains(guideline.Fold(parent), folded) {
				c.parents[kw] = append(c.parents[kw], parent)
			}
		}
	}
	return c
}

// Analyze returns one Analysis per keyword in matching order.
func (c *Counter) Analyze(content string) []Analysis {
	folded := guideline.Fold(content)

	positions := make(map[string][]span, len(c.ordered))
	for _, kw := range c.ordered {
		positions[kw] = findSpans(c.res[kw], folded)
	}

	out := make([]Analysis, 0, len(c.ordered))
	for _, kw := range c.ordered {
		out = append(out, c.analyzeOne(kw, positions))
	}
	return out
}

// Counts returns plain total occurrence counts with no attribution. This is
// the fast-path counter used during iterative validation.
func (c *Counter) Counts(content string) map[string]int {
	folded := guideline.Fold(content)
	counts := make(map[string]int, len(c.ordered))
	for _, kw := range c.ordered {
		counts[kw] = len(c.res[kw].FindAllStringIndex(folded, -1))
	}
	return counts
}

// Keywords returns the deterministic matching order.
func (c *Counter) Keywords() []string { return c.ordered }

func (c *Counter) analyzeOne(kw string, positions map[string][]span) Analysis {
	mine := positions[kw]
	total := len(mine)

	var sources map[string]int
	compound := make(map[span]struct{})
	for _, parent := range c.parents[kw] {
		overlap := 0
		for _, pos := range mine {
			for _, ppos := range positions[parent] {
				if pos.overlaps(ppos) {
					overlap++
					compound[pos] = struct{}{}
					break
				}
			}
		}
		if overlap > 0 {
			if sources == nil {
				sources = map[string]int{}
			}
			sources[parent] = overlap
		}
	}

	rng := c.ranges[kw]
	a := Analysis{
		Keyword:         kw,
		Total:           total,
		Compound:        len(compound),
		Standalone:      total - len(compound),
		CompoundSources: sources,
		MinRequired:     rng.Min,
		MaxAllowed:      rng.Max,
		IsCompound:      len(strings.Fields(kw)) > 1,
		Parents:         c.parents[kw],
	}
	a.Passes, a.Feedback = feedbackFor(a)
	return a
}

func findSpans(re *regexp.Regexp, folded string) []span {
	idx := re.FindAllStringIndex(folded, -1)
	out := make([]span, 0, len(idx))
	for _, m := range idx {
		out = append(out, span{start: m[0], end: m[1]})
	}
	return out
}

// wordBoundaryPattern compiles a caseless word-boundary match for a keyword.
// The keyword text is folded before quoting so matching runs entirely over
// folded content.
func wordBoundaryPattern(kw string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(guideline.Fold(kw)) + `\b`)
}

// orderKeywords sorts by word count descending, then character length
// descending, then lexical ascending. Longer, more specific phrases are
// matched first; the lexical tail keeps ties reproducible.
func orderKeywords(ranges map[string]guideline.KeywordRange) []string {
	req := guideline.Requirements{Keywords: ranges}
	return req.SortedKeywords()
}
