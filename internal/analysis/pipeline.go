package analysis

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// completer sends one prompt to a provider and returns the raw reply.
type completer interface {
	complete(ctx context.Context, system, prompt string) (string, error)
	name() string
}

// llmAnalyzer runs extract -> prompt -> complete -> parse in order; each
// stage fails with its own error.
type llmAnalyzer struct {
	completer
	extract func([]byte) (string, error)
	logger  *zap.Logger
}

func newLLMAnalyzer(c completer, logger *zap.Logger) *llmAnalyzer {
	return &llmAnalyzer{completer: c, extract: ExtractText, logger: logger}
}

func (a *llmAnalyzer) Name() string { return a.name() }

func (a *llmAnalyzer) Analyze(ctx context.Context, req Request) (Result, error) {
	started := time.Now()
	text, err := documentText(req, a.extract)
	if err != nil {
		return Result{}, err
	}
	raw, err := a.complete(ctx, systemPrompt, buildReportPrompt(req, text))
	if err != nil {
		a.logger.Warn("analysis request failed",
			zap.String("provider", a.name()),
			zap.String("file", req.Filename),
			zap.Duration("duration", time.Since(started)),
			zap.Error(err))
		return Result{}, wrapFailed("provider request", err)
	}
	result, err := parseReport(raw)
	if err != nil {
		a.logger.Warn("analysis response rejected", zap.String("provider", a.name()), zap.Error(err))
		return Result{}, err
	}
	a.logger.Info("analysis complete",
		zap.String("provider", a.name()),
		zap.String("file", req.Filename),
		zap.String("title", result.Metadata.Title),
		zap.Int("source_chars", len(text)),
		zap.Duration("duration", time.Since(started)))
	return result, nil
}
