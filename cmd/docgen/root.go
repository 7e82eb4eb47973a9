package main

import (
	"github.com/spf13/cobra"
)

var (
	configFile string
	envFiles   []string
)

var rootCmd = &cobra.Command{
	Use:   "docgen",
	Short: "Generate legal documents from client records and templates",
	Long: `docgen fills document templates with client data, prints them to PDF
through headless Chrome and keeps an audit record of every generation.

Settings come from an optional YAML file, .env files and DOCGEN_* or
ARTIFACT_* environment variables.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, ".env files to read (default .env)")
}
