package guideline

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// Range is a closed integer interval for a structural metric. When Unbounded
// is true the upper limit is open ("15 - Infinity" in guideline text).
type Range struct {
	Min       int  `json:"min" yaml:"min"`
	Max       int  `json:"max" yaml:"max"`
	Unbounded bool `json:"unbounded,omitempty" yaml:"unbounded,omitempty"`
}

// Contains reports whether n falls inside the range.
func (r Range) Contains(n int) bool {
	if n < r.Min {
		return false
	}
	if r.Unbounded {
		return true
	}
	return n <= r.Max
}

func (r Range) String() string {
	if r.Unbounded {
		return fmt.Sprintf("%d+", r.Min)
	}
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

func (r Range) validate(name string) error {
	if r.Min < 0 {
		return fmt.Errorf("%s: negative minimum %d", name, r.Min)
	}
	if !r.Unbounded && r.Max < r.Min {
		return fmt.Errorf("%s: min %d exceeds max %d", name, r.Min, r.Max)
	}
	return nil
}

// KeywordRange bounds how often a tracked keyword may occur. Keyword ranges
// are always bounded on both sides.
type KeywordRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Contains reports whether a count satisfies the range.
func (k KeywordRange) Contains(n int) bool { return n >= k.Min && n <= k.Max }

// Requirements is the canonical, already-normalized representation of one
// content guideline. It is a pure value: validators never mutate it.
type Requirements struct {
	Paragraphs Range `json:"paragraphs" yaml:"paragraphs"`
	Images     Range `json:"images" yaml:"images"`
	Headings   Range `json:"headings" yaml:"headings"`
	Characters Range `json:"characters" yaml:"characters"`
	Words      Range `json:"words" yaml:"words"`

	// Keywords maps keyword text to its allowed occurrence range. Keys keep
	// the casing from the source; matching is always caseless.
	Keywords map[string]KeywordRange `json:"keywords" yaml:"keywords"`

	// SoftTerms are suggested but unenforced.
	SoftTerms []string `json:"softTerms,omitempty" yaml:"softTerms,omitempty"`

	// Questions the content must address, ordered and distinct.
	Questions []string `json:"questions,omitempty" yaml:"questions,omitempty"`

	Notes string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

var foldCaser = cases.Fold()

// Fold lowercases a string for caseless comparison using Unicode case
// folding, matching the normalization applied to keywords everywhere.
func Fold(s string) string { return foldCaser.String(s) }

// Validate checks the structural invariants: every bounded range has
// min <= max, the keyword table is present, and keyword keys are unique
// after case folding.
func (r Requirements) Validate() error {
	for _, it := range []struct {
		name string
		rng  Range
	}{
		{"paragraphs", r.Paragraphs},
		{"images", r.Images},
		{"headings", r.Headings},
		{"characters", r.Characters},
		{"words", r.Words},
	} {
		if err := it.rng.validate(it.name); err != nil {
			return err
		}
	}
	if len(r.Keywords) == 0 {
		return fmt.Errorf("guideline has no keyword table")
	}
	seen := make(map[string]string, len(r.Keywords))
	for kw, rng := range r.Keywords {
		if strings.TrimSpace(kw) == "" {
			return fmt.Errorf("empty keyword text")
		}
		if rng.Min < 0 || rng.Max < rng.Min {
			return fmt.Errorf("keyword %q: invalid range %d-%d", kw, rng.Min, rng.Max)
		}
		folded := Fold(kw)
		if prev, ok := seen[folded]; ok {
			return fmt.Errorf("duplicate keyword %q (same as %q after case folding)", kw, prev)
		}
		seen[folded] = kw
	}
	return nil
}

// SortedKeywords returns keyword texts ordered for hierarchical matching:
// word count descending, then character length descending, then lexical
// ascending so ties resolve deterministically.
func (r Requirements) SortedKeywords() []string {
	out := make([]string, 0, len(r.Keywords))
	for kw := range r.Keywords {
		out = append(out, kw)
	}
	sort.Slice(out, func(i, j int) bool {
		wi, wj := len(strings.Fields(out[i])), len(strings.Fields(out[j]))
		if wi != wj {
			return wi > wj
		}
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}
