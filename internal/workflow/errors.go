package workflow

import (
	"errors"
	"strings"

	"github.com/csheth/scholarlens/internal/analysis"
	"github.com/csheth/scholarlens/internal/library"
)

var (
	// ErrValidation rejects bad user input before any I/O happens.
	ErrValidation = errors.New("validation error")
	// ErrInvalidTransition rejects an action that is not allowed from the current view.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrUnknownRequest rejects a confirmation token that is stale or was never issued.
	ErrUnknownRequest = errors.New("unknown or expired request")
)

// Describe turns err into a message fit for the status line.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, analysis.ErrUnsupportedMedia):
		return "Please upload a PDF file."
	case errors.Is(err, analysis.ErrAnalysisFailed):
		return "Analysis failed: " + detail(err, analysis.ErrAnalysisFailed) + ". Check the provider settings and try again."
	case errors.Is(err, library.ErrStorageUnavailable):
		return "Library storage is unavailable; nothing was changed. Try again."
	case errors.Is(err, ErrValidation):
		return capitalize(detail(err, ErrValidation)) + "."
	case errors.Is(err, ErrUnknownRequest):
		return "That confirmation has expired."
	default:
		return err.Error()
	}
}

// detail strips the sentinel text so only the specific cause remains.
func detail(err, sentinel error) string {
	msg := strings.ReplaceAll(err.Error(), "\n", ": ")
	if i := strings.Index(msg, sentinel.Error()); i >= 0 {
		msg = msg[:i] + msg[i+len(sentinel.Error()):]
	}
	msg = strings.Trim(msg, " :")
	msg = strings.ReplaceAll(msg, ": :", ":")
	if msg == "" {
		return sentinel.Error()
	}
	return msg
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
