// Package main is the entry point for the scholarlens CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/csheth/scholarlens/internal/config"
)

// version is set at build time via ldflags.
var version = "dev"

// appConfig is resolved once in PersistentPreRunE.
var appConfig config.Config

var rootCmd = &cobra.Command{
	Use:   "scholarlens",
	Short: "Analyze research papers and keep them in a folder library",
	Long: `scholarlens sends a PDF to an LLM for a structured report, lets you
preview it, file it into a folder and read it again later.

Run without a subcommand to open the interactive library.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfgFile, _ := cmd.Flags().GetString("config")
		v, err := config.NewViper(cfgFile)
		if err != nil {
			return err
		}
		if err := bindFlags(v, cmd); err != nil {
			return err
		}
		if used := v.ConfigFileUsed(); used != "" {
			fmt.Fprintln(os.Stderr, "Using config file:", used)
		}
		cfg, err := config.Load(v)
		if err != nil {
			return err
		}
		appConfig = cfg
		return nil
	},
	RunE: runTUI,
}

// flagKeys maps persistent flags onto config keys.
var flagKeys = map[string]string{
	"backend":  "store.backend",
	"store":    "store.path",
	"provider": "llm.provider",
	"model":    "llm.model",
	"endpoint": "llm.endpoint",
	"language": "language",
	"theme":    "theme",
	"log-file": "log.path",
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	return nil
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./scholarlens.yaml or ~/.config/scholarlens/scholarlens.yaml)")
	flags.String("backend", "", "library backend: json, sqlite or mongo")
	flags.String("store", "", "library file for the json and sqlite backends")
	flags.String("provider", "", "llm provider: openai or ollama")
	flags.String("model", "", "llm model override")
	flags.String("endpoint", "", "llm endpoint override (Ollama host or OpenAI-compatible base URL)")
	flags.String("language", "", "report language: en or zh")
	flags.String("theme", "", "tui theme: light, dark or eye-care")
	flags.String("log-file", "", "write JSON logs to this file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
