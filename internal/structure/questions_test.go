package structure

import (
	"strings"
	"testing"

	"github.com/hyperifyio/goseocheck/internal/guideline"
)

func questionChecksFor(questions []string, content string) []Check {
	v := NewValidator(guideline.Requirements{Questions: questions})
	return v.Questions(content)
}

func TestQuestionCoveragePasses(t *testing.T) {
	checks := questionChecksFor(
		[]string{"Are hemp shoes durable?"},
		"Hemp shoes are famously durable and last for years.",
	)
	if len(checks) != 1 {
		t.Fatalf("got %d checks", len(checks))
	}
	if !checks[0].Passed {
		t.Fatalf("full coverage should pass: %+v", checks[0])
	}
}

func TestQuestionCoverageFails(t *testing.T) {
	checks := questionChecksFor(
		[]string{"How do you waterproof canvas sneakers?"},
		"This article is about leather boots.",
	)
	if checks[0].Passed {
		t.Fatalf("zero coverage should fail")
	}
	if !strings.Contains(checks[0].Feedback, "Address question") {
		t.Fatalf("feedback = %q", checks[0].Feedback)
	}
}

func TestQuestionStopwordsAndShortWordsIgnored(t *testing.T) {
	// Every word is a stopword or too short: no key terms, so it passes.
	checks := questionChecksFor([]string{"How do you do it?"}, "unrelated text")
	if !checks[0].Passed {
		t.Fatalf("question with no key terms must pass: %+v", checks[0])
	}
}

func TestQuestionSixtyPercentThreshold(t *testing.T) {
	// Key terms: waterproof, canvas, sneakers, quickly, home (5 terms).
	q := "How can you waterproof canvas sneakers quickly at home?"

	// 3 of 5 terms = 60%, right at the threshold.
	pass := questionChecksFor([]string{q}, "Waterproof canvas sneakers are great.")
	if !pass[0].Passed {
		t.Fatalf("3/5 terms should pass at the 60%% threshold: %+v", pass[0])
	}

	// 2 of 5 terms = 40%.
	fail := questionChecksFor([]string{q}, "Waterproof canvas is great.")
	if fail[0].Passed {
		t.Fatalf("2/5 terms should fail: %+v", fail[0])
	}
}

func TestQuestionMetricTruncation(t *testing.T) {
	long := "Why do extremely long question titles need truncation in check output anyway?"
	checks := questionChecksFor([]string{long}, "irrelevant")
	if len(checks[0].Metric) > len("Q: ")+53 {
		t.Fatalf("metric not truncated: %q", checks[0].Metric)
	}
	if !strings.HasPrefix(checks[0].Metric, "Q: ") {
		t.Fatalf("metric = %q", checks[0].Metric)
	}
}

func TestQuestionCurrentLabel(t *testing.T) {
	checks := questionChecksFor(
		[]string{"Are hemp shoes durable?"},
		"Hemp content only.",
	)
	if !strings.Contains(checks[0].CurrentLabel, "terms") {
		t.Fatalf("current label = %q", checks[0].CurrentLabel)
	}
}
