// Package revise drives an LLM revision loop: validate a draft, turn the
// findings into edit instructions, ask the model for a revised draft, and
// repeat until the fast score clears the target or attempts run out.
package revise

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/goseocheck/internal/cache"
	"github.com/hyperifyio/goseocheck/internal/fastvalidate"
	"github.com/hyperifyio/goseocheck/internal/llm"
)

// ErrEmptyRevision indicates the model returned no usable draft.
var ErrEmptyRevision = errors.New("empty revision")

const defaultSystemPrompt = "You are a precise content editor. Apply ONLY the listed keyword and structure adjustments to the draft. Preserve the meaning, tone, and markup of the original. Keep every heading, image, and link unless an instruction says otherwise. Return the full revised draft and nothing else."

// Outcome summarizes one revision run.
type Outcome struct {
	Draft      string
	Result     *fastvalidate.Result
	Iterations int
	Improved   bool
}

// Reviser holds the loop configuration. Zero MaxIterations and TargetScore
// fall back to 3 and 95.
type Reviser struct {
	Client llm.Client
	Model  string
	Cache  *cache.PromptCache

	MaxIterations int
	TargetScore   float64
	SystemPrompt  string

	Log zerolog.Logger
}

// Run revises the draft until the fast score reaches the target. The best
// draft seen is returned even when a later iteration regresses.
func (r *Reviser) Run(ctx context.Context, v *fastvalidate.Validator, draft string) (*Outcome, error) {
	if r.Client == nil || strings.TrimSpace(r.Model) == "" {
		return nil, errors.New("reviser not configured")
	}
	maxIter := r.MaxIterations
	if maxIter <= 0 {
		maxIter = 3
	}
	target := r.TargetScore
	if target <= 0 {
		target = 95
	}

	best := draft
	bestRes := v.Validate(draft)
	start := bestRes.Score
	out := &Outcome{Draft: best, Result: bestRes}

	for i := 0; i < maxIter; i++ {
		if bestRes.Score >= target {
			break
		}
		r.Log.Info().
			Int("iteration", i+1).
			Float64("score", bestRes.Score).
			Str("summary", bestRes.Summary).
			Msg("requesting revision")

		revised, err := r.request(ctx, best, bestRes)
		if err != nil {
			if out.Iterations == 0 {
				return nil, err
			}
			// Keep the best draft so far rather than failing the whole run.
			r.Log.Warn().Err(err).Msg("revision attempt failed, keeping previous draft")
			break
		}
		out.Iterations++

		res := v.Validate(revised)
		if res.Score > bestRes.Score {
			best, bestRes = revised, res
		} else {
			r.Log.Debug().
				Float64("score", res.Score).
				Float64("best", bestRes.Score).
				Msg("revision did not improve score")
		}
	}

	out.Draft = best
	out.Result = bestRes
	out.Improved = bestRes.Score > start
	return out, nil
}

func (r *Reviser) request(ctx context.Context, draft string, res *fastvalidate.Result) (string, error) {
	system := r.SystemPrompt
	if strings.TrimSpace(system) == "" {
		system = defaultSystemPrompt
	}
	user := buildUserMessage(draft, res)

	// Cache by model+prompt so re-runs on an unchanged draft are free.
	var key string
	if r.Cache != nil {
		key = cache.KeyFrom(r.Model, system+"\n\n"+user)
		if raw, ok, _ := r.Cache.Get(ctx, key); ok {
			var cached struct {
				Draft string `json:"draft"`
			}
			if err := json.Unmarshal(raw, &cached); err == nil && strings.TrimSpace(cached.Draft) != "" {
				return cached.Draft, nil
			}
		}
	}

	req := openai.ChatCompletionRequest{
		Model: r.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.1,
		N:           1,
	}
	resp, err := r.Client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("revision call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyRevision
	}
	revised := strings.TrimSpace(resp.Choices[0].Message.Content)
	if revised == "" {
		return "", ErrEmptyRevision
	}
	if r.Cache != nil {
		payload, _ := json.Marshal(map[string]string{"draft": revised})
		_ = r.Cache.Save(ctx, key, payload)
	}
	return revised, nil
}

func buildUserMessage(draft string, res *fastvalidate.Result) string {
	var sb strings.Builder
	sb.WriteString("Revise the draft below to satisfy these adjustments.\n")
	sb.WriteString("\nKeyword adjustments:")
	if len(res.Keywords) == 0 {
		sb.WriteString("\n- none")
	}
	for _, fb := range res.Keywords {
		sb.WriteString("\n- [")
		sb.WriteString(fb.Severity.String())
		sb.WriteString("] ")
		sb.WriteString(fb.Message)
	}
	if len(res.StructureFeedback) > 0 {
		sb.WriteString("\n\nStructure adjustments:")
		for _, f := range res.StructureFeedback {
			sb.WriteString("\n- ")
			sb.WriteString(f)
		}
	}
	sb.WriteString("\n\nDraft:\n---\n")
	sb.WriteString(draft)
	sb.WriteString("\n---\n")
	return sb.String()
}
