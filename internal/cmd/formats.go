package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/cyra/apachelogs/internal/parser"
	"github.com/spf13/cobra"
)

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the predefined log formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, name := range parser.Formats() {
				format, _ := parser.LookupFormat(name)
				fmt.Fprintf(tw, "%s\t%s\n", strings.ToLower(name), format)
			}
			return tw.Flush()
		},
	}
}

func newCompileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compile FORMAT",
		Short: "Show the regular expression and captures a log format compiles to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parser.New(parser.ResolveFormat(args[0]))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, p.Pattern())
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for i, c := range p.Captures() {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, c.Directive, strings.Join(c.Path, "."))
			}
			return tw.Flush()
		},
	}
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "apachelogs version", version)
		},
	}
}
