package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "List the keywords of the configured libraries",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("Error loading configuration: %v\n", err)
			os.Exit(1)
		}
		logger := newLogger(cfg)

		bridge, _, err := buildBridge(cfg, logger)
		if err != nil {
			fmt.Printf("Error building libraries: %v\n", err)
			os.Exit(1)
		}
		defer bridge.Close()

		long, _ := cmd.Flags().GetBool("long")
		for _, name := range bridge.GetKeywordNames() {
			if !long {
				fmt.Println(name)
				continue
			}
			args, err := bridge.GetKeywordArguments(name)
			if err != nil {
				continue
			}
			fmt.Println(formatKeyword(name, args))
		}
	},
}

func formatKeyword(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	out := name + " [ "
	for i, a := range args {
		if i > 0 {
			out += " | "
		}
		out += a
	}
	return out + " ]"
}

func init() {
	rootCmd.AddCommand(keywordsCmd)
	keywordsCmd.Flags().BoolP("long", "l", false, "Include argument specs")
}
