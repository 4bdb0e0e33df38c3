package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

type userView struct {
	ID    string `json:"id"              yaml:"id"`
	Name  string `json:"name"            yaml:"name"`
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
}

func (c *cli) newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			me, err := c.app.Client().FetchCurrentUser(c.app.Context(cmd.Context()))
			if err != nil {
				return fmt.Errorf("whoami: %w", err)
			}
			v := userView{ID: me.ID, Name: me.Name, Email: me.Email}
			return c.printer().print(v, func(w io.Writer) {
				fmt.Fprintf(w, "**%s**", cell(v.Name))
				if v.Email != "" {
					fmt.Fprintf(w, " <%s>", v.Email)
				}
				fmt.Fprintf(w, "\n\nid: `%s`\n", v.ID)
			})
		},
	}
}
