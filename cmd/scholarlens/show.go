package main

import (
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a saved paper and its report",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), appConfig, false)
	if err != nil {
		return err
	}
	defer a.Close()

	c := a.controller
	if err := c.Load(cmd.Context()); err != nil {
		return friendly(err)
	}
	if err := c.OpenPaper(args[0]); err != nil {
		return friendly(err)
	}
	return writePaper(cmd.OutOrStdout(), *c.State().Current)
}
