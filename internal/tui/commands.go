package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/csheth/scholarlens/internal/analysis"
)

func loadLibraryJob(ctrl Controller) jobRunner {
	return func(ctx context.Context) error {
		return ctrl.Load(ctx)
	}
}

func analyzeJob(ctrl Controller, req analysis.Request) jobRunner {
	return func(ctx context.Context) error {
		return ctrl.Analyze(ctx, req)
	}
}

func savePaperJob(ctrl Controller, token, folder string) jobRunner {
	return func(ctx context.Context) error {
		return ctrl.ConfirmSave(ctx, token, folder)
	}
}

func deletePaperJob(ctrl Controller, token string) jobRunner {
	return func(ctx context.Context) error {
		return ctrl.ConfirmDelete(ctx, token)
	}
}

func jobLabel(kind jobKind) string {
	switch kind {
	case jobKindLoad:
		return "Loading library…"
	case jobKindAnalyze:
		return "Analyzing paper, this can take a minute…"
	case jobKindSave:
		return "Saving to library…"
	case jobKindDelete:
		return "Deleting paper…"
	default:
		return "Working…"
	}
}

func trimmedTitle(value string) string {
	value = strings.TrimSpace(value)
	if len([]rune(value)) <= 60 {
		return value
	}
	return fmt.Sprintf("%s…", strings.TrimSpace(string([]rune(value)[:57])))
}
