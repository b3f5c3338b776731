package commands

import (
	"errors"
	"io"
	"strings"

	"wilddocs/internal/application/common/slogger"
	"wilddocs/internal/application/dto"
	"wilddocs/internal/client"
	domainerrors "wilddocs/internal/domain/errors/domain"

	"github.com/spf13/cobra"
)

// NewAskCmd creates the ask command. All arguments are joined into one question.
//
// Text output renders the answer as markdown followed by its sources; JSON
// output carries the backend response unchanged.
func NewAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question...>",
		Short: "Ask a question about the ingested documentation",
		Example: `  wilddocs ask "How do I install gpt?"
  wilddocs ask --output text what license does cli use`,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, ok := stateFrom(cmd)
			if !ok {
				return nil
			}

			question := strings.TrimSpace(strings.Join(args, " "))
			if question == "" {
				state.failWith(cmd.Context(), domainerrors.ErrEmptyQuery)
				return nil
			}

			c, ok := state.newClient(cmd.Context())
			if !ok {
				return nil
			}

			ctx, cancel := state.requestContext(cmd.Context())
			defer cancel()

			resp, err := c.Query(ctx, dto.QueryRequest{Query: question})
			if err != nil {
				if errors.Is(err, domainerrors.ErrQueryFailed) && resp != nil {
					state.fail(errCodeQueryFailed, err.Error(), resp.Data)
					return nil
				}
				state.failWith(ctx, err)
				return nil
			}

			slogger.Info(ctx, "Query answered", slogger.Fields{
				"sources": len(resp.Data.Sources),
				"model":   resp.Data.Metadata.ModelName(),
				"run_id":  resp.Data.Metadata.RunIdentifier(),
			})

			return state.printer.Success(resp, func(w io.Writer) error {
				return client.WriteAnswer(w, resp)
			})
		},
	}
}
