package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhouzirui/career-companion/backend/internal/analysis/intent"
)

var showReply bool

var classifyCmd = &cobra.Command{
	Use:   "classify <message>",
	Short: "Print the intent a message resolves to",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		decision := intent.Explain(strings.Join(args, " "))

		out := cmd.OutOrStdout()
		if decision.Keyword != "" {
			fmt.Fprintf(out, "%s (matched %q)\n", decision.Intent, decision.Keyword)
		} else {
			fmt.Fprintln(out, decision.Intent)
		}

		if showReply {
			catalog, err := loadCatalog()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, catalog.Table.Resolve(decision.Intent))
		}
		return nil
	},
}

func init() {
	classifyCmd.Flags().BoolVar(&showReply, "reply", false, "Also print the canned response")
	rootCmd.AddCommand(classifyCmd)
}
