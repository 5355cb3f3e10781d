package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved paper",
	Long: `delete removes one paper from the library after asking for confirmation.
Pass --yes to skip the prompt.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolP("yes", "y", false, "delete without asking")

	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	yes, _ := cmd.Flags().GetBool("yes")

	a, err := newApp(cmd.Context(), appConfig, false)
	if err != nil {
		return err
	}
	defer a.Close()

	c := a.controller
	ctx := cmd.Context()
	if err := c.Load(ctx); err != nil {
		return friendly(err)
	}
	if err := c.OpenPaper(args[0]); err != nil {
		return friendly(err)
	}
	req, err := c.RequestDelete(args[0])
	if err != nil {
		return friendly(err)
	}
	if !yes && !confirm(cmd, fmt.Sprintf("Delete %q? [y/N] ", req.Title)) {
		_ = c.CancelDelete(req.Token)
		fmt.Fprintln(cmd.ErrOrStderr(), "Kept.")
		return nil
	}
	if err := c.ConfirmDelete(ctx, req.Token); err != nil {
		return friendly(err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Deleted %s.\n", req.PaperID)
	return nil
}

// confirm reads a yes/no answer from the command's input; anything but y is no.
func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
