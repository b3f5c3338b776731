package commands

import (
	"io"

	"wilddocs/internal/client"

	"github.com/spf13/cobra"
)

// NewHealthCmd creates the health command, which queries the backend's
// /health endpoint.
func NewHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check backend health",
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, ok := stateFrom(cmd)
			if !ok {
				return nil
			}

			c, ok := state.newClient(cmd.Context())
			if !ok {
				return nil
			}

			ctx, cancel := state.requestContext(cmd.Context())
			defer cancel()

			health, err := c.Health(ctx)
			if err != nil {
				state.failWith(ctx, err)
				return nil
			}

			return state.printer.Success(health, func(w io.Writer) error {
				return client.WriteFields(w, "Backend", []client.Field{
					{Label: "URL", Value: c.BaseURL()},
					{Label: "Status", Value: health.Status},
				})
			})
		},
	}
}
