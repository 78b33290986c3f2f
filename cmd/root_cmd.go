package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tq",
	Short: "Tq is a tool for processing TOML data.",
	Long:  "Tq is a tool for processing TOML data. It parses TOML v1.0.0 documents and can look up values by dotted key path or convert whole documents to JSON.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of Tq",
	Long:  `All software has versions. This is Tq's`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Tq v0.1 -- HEAD")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(tomlCmd)
}
