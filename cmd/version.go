package cmd

import (
	"fmt"

	"github.com/alexiusacademia/gocol/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of gocol",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Get())
		fmt.Println("Steel Column Buckling Design Tool")
		fmt.Println("Flexural buckling to Eurocode 3 (EN 1993-1-1, 6.3.1)")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
