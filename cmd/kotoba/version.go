package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/kotoba"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of kotoba",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "kotoba version %s\n", strings.TrimSpace(kotoba.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
