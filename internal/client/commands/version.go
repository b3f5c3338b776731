package commands

import (
	"io"

	"wilddocs/internal/client"
	"wilddocs/internal/version"

	"github.com/spf13/cobra"
)

// NewVersionCmd creates the version command. It works without a backend.
func NewVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, ok := stateFrom(cmd)
			if !ok {
				return nil
			}

			info := version.GetVersion()
			short, _ := cmd.Flags().GetBool("short")

			return state.printer.Success(info, func(w io.Writer) error {
				if short {
					return info.Write(w, true)
				}
				fields := make([]client.Field, 0, len(info.Fields()))
				for _, f := range info.Fields() {
					fields = append(fields, client.Field{Label: f[0], Value: f[1]})
				}
				return client.WriteFields(w, version.ApplicationName, fields)
			})
		},
	}

	cmd.Flags().BoolP("short", "s", false, "Print only the version number in text mode")
	return cmd
}
