package revise

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/goseocheck/internal/fastvalidate"
	"github.com/hyperifyio/goseocheck/internal/guideline"
	"github.com/hyperifyio/goseocheck/internal/precompute"
)

// scriptedClient replays canned drafts in order.
type scriptedClient struct {
	drafts []string
	calls  int
	err    error
}

func (c *scriptedClient) CreateChatCompletion(_ context.Context, _ openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	if c.err != nil {
		return openai.ChatCompletionResponse{}, c.err
	}
	draft := c.drafts[c.calls%len(c.drafts)]
	c.calls++
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: draft}},
		},
	}, nil
}

func testValidator(t *testing.T) *fastvalidate.Validator {
	t.Helper()
	open := guideline.Range{Min: 0, Unbounded: true}
	pre, err := precompute.Build(guideline.Requirements{
		Paragraphs: open,
		Images:     open,
		Headings:   open,
		Characters: open,
		Words:      open,
		Keywords:   map[string]guideline.KeywordRange{"shoes": {Min: 5, Max: 15}},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return fastvalidate.New(pre, precompute.Upper)
}

func TestRunImprovesDraft(t *testing.T) {
	// Upper target for 5-15 is 11 occurrences.
	perfect := strings.Repeat("shoes ", 11)
	client := &scriptedClient{drafts: []string{perfect}}

	r := &Reviser{Client: client, Model: "test-model", Log: zerolog.Nop()}
	out, err := r.Run(context.Background(), testValidator(t), "shoes once")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !out.Improved {
		t.Fatalf("outcome = %+v", out)
	}
	if out.Result.Score != 100 {
		t.Fatalf("final score = %v", out.Result.Score)
	}
	if out.Draft != perfect {
		t.Fatalf("draft not replaced")
	}
	if out.Iterations != 1 {
		t.Fatalf("iterations = %d", out.Iterations)
	}
}

func TestRunSkipsWhenAlreadyAboveTarget(t *testing.T) {
	client := &scriptedClient{drafts: []string{"should never be used"}}
	r := &Reviser{Client: client, Model: "test-model", Log: zerolog.Nop()}

	perfect := strings.Repeat("shoes ", 11)
	out, err := r.Run(context.Background(), testValidator(t), perfect)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if client.calls != 0 {
		t.Fatalf("model called for an already-passing draft")
	}
	if out.Improved {
		t.Fatalf("nothing to improve, got %+v", out)
	}
}

func TestRunKeepsBestDraftOnRegression(t *testing.T) {
	// The model keeps returning a worse draft; the original must survive.
	client := &scriptedClient{drafts: []string{"no tracked words at all"}}
	r := &Reviser{Client: client, Model: "test-model", MaxIterations: 2, Log: zerolog.Nop()}

	original := strings.Repeat("shoes ", 8)
	out, err := r.Run(context.Background(), testValidator(t), original)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.Draft != original {
		t.Fatalf("regressed draft was kept")
	}
	if out.Improved {
		t.Fatalf("regression cannot count as improvement")
	}
}

func TestRunFirstCallFailure(t *testing.T) {
	client := &scriptedClient{err: errors.New("backend down")}
	r := &Reviser{Client: client, Model: "test-model", Log: zerolog.Nop()}

	if _, err := r.Run(context.Background(), testValidator(t), "shoes once"); err == nil {
		t.Fatalf("expected error when the first call fails")
	}
}

func TestRunUnconfigured(t *testing.T) {
	r := &Reviser{Log: zerolog.Nop()}
	if _, err := r.Run(context.Background(), testValidator(t), "x"); err == nil {
		t.Fatalf("expected configuration error")
	}
}

func TestBuildUserMessageListsIssues(t *testing.T) {
	v := testValidator(t)
	res := v.Validate("shoes once")
	msg := buildUserMessage("shoes once", res)
	if !strings.Contains(msg, "Keyword adjustments:") {
		t.Fatalf("message = %q", msg)
	}
	if !strings.Contains(msg, "shoes") {
		t.Fatalf("message must name the keyword: %q", msg)
	}
	if !strings.Contains(msg, "Draft:") {
		t.Fatalf("message must embed the draft: %q", msg)
	}
}
