package cli

import (
	"github.com/spf13/cobra"
)

func (c *cli) newListCmd() *cobra.Command {
	var q queryFlags
	cmd := &cobra.Command{
		Use:   "list <deck>",
		Short: "List one page of a deck's cards",
		Long: `List one page of a deck's cards. Owners see the per-card actions column;
everybody else gets the link to learn the deck.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, vm, err := c.open(cmd.Context(), args[0], q)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			if err := c.printList(args[0], vm); err != nil {
				return err
			}
			return vm.Err
		},
	}
	q.register(cmd)
	return cmd
}
