package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/csheth/scholarlens/internal/library"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the whole library as YAML",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "write to this file instead of stdout")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")

	a, err := newApp(cmd.Context(), appConfig, false)
	if err != nil {
		return err
	}
	defer a.Close()

	var w io.Writer = cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(expandPath(output))
		if err != nil {
			return fmt.Errorf("creating export file: %w", err)
		}
		defer f.Close()
		w = f
	}
	if err := library.Export(cmd.Context(), a.store, w, time.Now()); err != nil {
		return friendly(err)
	}
	if output != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported library to %s.\n", output)
	}
	return nil
}
