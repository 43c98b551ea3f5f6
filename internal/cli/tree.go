package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kolah/ramble/client"
	"github.com/kolah/ramble/internal/config"
	"github.com/kolah/ramble/pipeline"
)

func TreeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the synthesized call graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd)
			if err != nil {
				return err
			}

			c, err := buildClient(cfg, pipeline.NewHTTP(nil))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, c.Description().BaseURI)
			printNode(out, c.Root(), "  ")
			return nil
		},
	}

	config.BindCommonFlags(cmd)
	return cmd
}

// printNode walks the graph depth-first. Dynamic branches print through
// their previews, so no template arguments are needed.
func printNode(w io.Writer, n *client.Node, indent string) {
	for _, verb := range n.Verbs() {
		fmt.Fprintf(w, "%s%s %s\n", indent, strings.ToUpper(verb), n.URL())
	}
	for _, name := range n.Children() {
		child, _ := n.Child(name)
		if static := child.Static(); static != nil {
			fmt.Fprintf(w, "%s%s/\n", indent, name)
			printNode(w, static, indent+"  ")
		}
		if child.Dynamic() {
			fmt.Fprintf(w, "%s%s(...)\n", indent, name)
			printNode(w, child.Preview(), indent+"  ")
		}
	}
}
