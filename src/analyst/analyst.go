// Package analyst turns console log excerpts into AI failure analyses.
//
// The analyst is deliberately forgiving at call time: an unreachable or
// failing AI backend must never abort a triage run, so Analyze folds call
// errors into the verdict text instead of returning them.
package analyst

import (
	"context"
	"fmt"
	"strings"

	"failsift-agent/src/deepseek"
	"failsift-agent/src/logger"
)

const (
	// FailureMarker prefixes the verdict when the AI call itself failed.
	FailureMarker = "AI analysis failed"

	promptTemperature   = 0.3
	completionMaxTokens = 2000
	systemPrompt        = "You are a helpful assistant"
)

// Analyst produces failure verdicts for console log excerpts.
type Analyst struct {
	client *deepseek.Client
	log    logger.Logger
}

// New builds an analyst. A missing API key fails construction; nothing else
// about the AI backend is validated until the first call.
func New(apiKey, baseURL, model string, log logger.Logger) (*Analyst, error) {
	client, err := deepseek.NewClient(apiKey, baseURL, model)
	if err != nil {
		return nil, err
	}
	return &Analyst{
		client: client,
		log:    logger.OrSilent(log),
	}, nil
}

// Analyze asks the model for a failure analysis. The excerpt is interpolated
// into the prompt verbatim. On an API error the returned verdict embeds the
// error description after FailureMarker.
func (a *Analyst) Analyze(ctx context.Context, excerpt string) string {
	verdict, err := a.client.ChatCompletion(ctx, deepseek.ChatCompletionRequest{
		Messages: []deepseek.ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(excerpt)},
		},
		MaxTokens:   completionMaxTokens,
		Temperature: promptTemperature,
	})
	if err != nil {
		a.log.Error("AI analysis call failed: %v", err)
		return fmt.Sprintf("%s: %v", FailureMarker, err)
	}
	return verdict
}

func buildPrompt(excerpt string) string {
	var b strings.Builder
	b.WriteString("You are a senior DevOps engineer. Analyze the following Jenkins build failure log and identify the source of the problem.\n")
	b.WriteString("\n")
	b.WriteString("Requirements:\n")
	b.WriteString("1. Identify the main error types\n")
	b.WriteString("2. Analyze the root cause\n")
	b.WriteString("3. Provide concrete fix suggestions\n")
	b.WriteString("\n")
	b.WriteString("Log content:\n")
	b.WriteString(excerpt)
	return b.String()
}
