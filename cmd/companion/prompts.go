package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "List the suggested starter prompts",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}
		printPrompts(cmd.OutOrStdout(), catalog.SuggestedPrompts())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(promptsCmd)
}

func printPrompts(w io.Writer, prompts []string) {
	for i, p := range prompts {
		fmt.Fprintln(w, promptStyle.Render(fmt.Sprintf("  %d. %s", i+1, p)))
	}
}
