package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/csheth/scholarlens/internal/analysis"
	"github.com/csheth/scholarlens/internal/workflow"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <pdf>",
	Short: "Analyze a PDF and optionally save it",
	Long: `analyze sends one PDF to the configured provider and prints the report.
Nothing is stored unless --folder names the folder to save the paper into.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("folder", "", "save the analyzed paper into this folder")
	analyzeCmd.Flags().Bool("suggested", false, "save into the folder the provider suggests")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	folder, _ := cmd.Flags().GetString("folder")
	useSuggested, _ := cmd.Flags().GetBool("suggested")
	if useSuggested && strings.TrimSpace(folder) != "" {
		return fmt.Errorf("use either --folder or --suggested")
	}

	a, err := newApp(cmd.Context(), appConfig, true)
	if err != nil {
		return err
	}
	defer a.Close()
	if a.analyzerErr != nil {
		return a.analyzerErr
	}

	req, err := analysis.NewRequestFromFile(expandPath(args[0]), appConfig.OutputLanguage())
	if err != nil {
		return friendly(err)
	}
	c := a.controller
	ctx := cmd.Context()
	if err := c.Load(ctx); err != nil {
		return friendly(err)
	}
	if err := c.StartUpload(); err != nil {
		return friendly(err)
	}
	fmt.Fprintf(os.Stderr, "Analyzing %s with %s (%s report)...\n", req.Filename, a.providerLabel(), req.Language.DisplayName())
	if err := c.Analyze(ctx, req); err != nil {
		return friendly(err)
	}

	save, err := c.RequestSave()
	if err != nil {
		return friendly(err)
	}
	if useSuggested {
		folder = save.Suggested
		if folder == "" {
			_ = c.CancelSave(save.Token)
			return fmt.Errorf("the provider did not suggest a folder; pass --folder")
		}
	}
	if strings.TrimSpace(folder) == "" {
		_ = c.CancelSave(save.Token)
		preview := c.State().Preview
		if err := writePaper(cmd.OutOrStdout(), *preview); err != nil {
			return err
		}
		if save.Suggested != "" {
			fmt.Fprintf(os.Stderr, "Not saved. Suggested folder: %s\n", save.Suggested)
		} else {
			fmt.Fprintln(os.Stderr, "Not saved.")
		}
		return nil
	}

	if err := c.ConfirmSave(ctx, save.Token, folder); err != nil {
		return friendly(err)
	}
	saved := c.State().Current
	if err := writePaper(cmd.OutOrStdout(), *saved); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Saved %s to %s.\n", saved.ID, saved.Folder)
	return nil
}

// friendly converts workflow errors into the messages the TUI shows.
func friendly(err error) error {
	return fmt.Errorf("%s", workflow.Describe(err))
}
