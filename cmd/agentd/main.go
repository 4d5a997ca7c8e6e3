// Package main implements the agentd CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// configPath overrides the default config file location.
	configPath string
	// version is set at build time via -ldflags.
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "agentd",
	Short: "Tool-using model conversations with guardrails and policy",
	Long: `agentd runs guarded, tool-using conversations with a language model.

Every turn passes through input guardrails, optional history compression,
a tool-execution policy with human confirmation, and output guardrails
before an answer is released.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"config file (default ~/.config/agentd/config.yaml)")
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the agentd version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("agentd %s\n", version)
	},
}
