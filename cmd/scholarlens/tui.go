package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/csheth/scholarlens/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive library (default)",
	Long: `tui opens the full-screen library. Upload a PDF, preview the analysis,
save it into a folder, and read or delete saved papers.`,
	RunE: runTUI,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, tuiCmd} {
		c.Flags().Bool("no-alt-screen", false, "disable the alternate screen buffer")
	}

	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), appConfig, true)
	if err != nil {
		return err
	}
	defer a.Close()
	if a.analyzerErr != nil {
		fmt.Fprintln(os.Stderr, "Analysis disabled:", a.analyzerErr)
	}

	opts := []tea.ProgramOption{}
	if noAlt, _ := cmd.Flags().GetBool("no-alt-screen"); !noAlt {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Controller: a.controller,
			Language:   appConfig.OutputLanguage(),
			Theme:      appConfig.Theme,
			Provider:   a.providerLabel(),
			StoreLabel: a.storeLabel(),
			Logger:     a.logger,
		}),
		opts...,
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}
