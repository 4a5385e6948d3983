package main

import (
	"fmt"

	"github.com/spf13/cobra"

	robottools "github.com/MrSteve2/robotframework-tools"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("remoterobot %s\n", robottools.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
