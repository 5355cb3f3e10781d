package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/csheth/scholarlens/internal/library"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved papers, newest first",
	RunE:  runList,
}

var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "List folders with their paper counts",
	RunE:  runFolders,
}

func init() {
	listCmd.Flags().String("folder", "", "only list papers in this folder")
	listCmd.Flags().Bool("json", false, "output papers as JSON")
	foldersCmd.Flags().Bool("json", false, "output folders as JSON")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(foldersCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	folder, _ := cmd.Flags().GetString("folder")
	asJSON, _ := cmd.Flags().GetBool("json")

	papers, err := loadPapers(cmd)
	if err != nil {
		return err
	}
	if folder = strings.TrimSpace(folder); folder != "" {
		papers = library.InFolder(papers, folder)
	}
	if asJSON {
		return writeJSON(cmd, papers)
	}
	if len(papers) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No papers.")
		return nil
	}
	rows := make([][]string, 0, len(papers))
	for _, p := range papers {
		rows = append(rows, []string{
			p.ID,
			clip(p.Title, 48),
			clip(strings.Join(p.Authors, ", "), 28),
			p.Year,
			p.Folder,
			p.AddedAt.Local().Format("2006-01-02"),
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), newTable("ID", "Title", "Authors", "Year", "Folder", "Added").Rows(rows...).Render())
	return nil
}

type folderCount struct {
	Folder string `json:"folder"`
	Papers int    `json:"papers"`
}

func runFolders(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	papers, err := loadPapers(cmd)
	if err != nil {
		return err
	}
	counts := []folderCount{}
	for _, folder := range library.Folders(papers) {
		counts = append(counts, folderCount{Folder: folder, Papers: len(library.InFolder(papers, folder))})
	}
	if asJSON {
		return writeJSON(cmd, counts)
	}
	if len(counts) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No folders.")
		return nil
	}
	t := newTable("Folder", "Papers")
	for _, c := range counts {
		t.Row(c.Folder, strconv.Itoa(c.Papers))
	}
	fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	return nil
}

// loadPapers opens the library read-only and returns every paper.
func loadPapers(cmd *cobra.Command) ([]library.StoredPaper, error) {
	a, err := newApp(cmd.Context(), appConfig, false)
	if err != nil {
		return nil, err
	}
	defer a.Close()
	if err := a.controller.Load(cmd.Context()); err != nil {
		return nil, friendly(err)
	}
	return a.controller.Papers(), nil
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return style.Bold(true)
			}
			return style
		})
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func clip(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit-1]) + "…"
}

// expandPath resolves a leading ~ in user supplied paths.
func expandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
