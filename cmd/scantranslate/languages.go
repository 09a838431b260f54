package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oukeidos/scantranslate/internal/language"
)

func newLanguagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List supported target languages",
		Run: func(cmd *cobra.Command, args []string) {
			langs := language.Supported()
			fmt.Fprintln(cmd.OutOrStdout(), "Supported Languages:")
			for _, l := range langs {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s %-25s [%s]\n", l.Flag, l.Name, l.Code)
			}
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}
