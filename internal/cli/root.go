package cli

import "github.com/spf13/cobra"

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "ramble",
		Short:   "Ramble - navigable API client synthesized from a description",
		Version: "1.0.0",

		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.AddCommand(TreeCommand())
	root.AddCommand(CallCommand())

	return root
}
