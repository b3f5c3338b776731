package commands

import (
	"io"
	"strconv"

	"wilddocs/internal/application/dto"
	"wilddocs/internal/client"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// statusResult is the JSON payload of the status command.
type statusResult struct {
	APIURL       string              `json:"api_url"`
	Health       *dto.HealthResponse `json:"health"`
	ProjectCount int                 `json:"project_count"`
	Projects     []dto.Project       `json:"projects"`
}

// NewStatusCmd creates the status command. It fetches backend health and the
// project list concurrently and fails if either call fails.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show backend health and ingested projects",
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

			var (
				health   *dto.HealthResponse
				projects []dto.Project
			)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				var err error
				health, err = c.Health(gctx)
				return err
			})
			g.Go(func() error {
				var err error
				projects, err = c.ListProjects(gctx)
				return err
			})
			if err := g.Wait(); err != nil {
				state.failWith(ctx, err)
				return nil
			}

			result := statusResult{
				APIURL:       c.BaseURL(),
				Health:       health,
				ProjectCount: len(projects),
				Projects:     projects,
			}

			return state.printer.Success(result, func(w io.Writer) error {
				if err := client.WriteFields(w, "Backend", []client.Field{
					{Label: "URL", Value: result.APIURL},
					{Label: "Status", Value: health.Status},
					{Label: "Projects", Value: strconv.Itoa(result.ProjectCount)},
				}); err != nil {
					return err
				}
				return client.WriteProjects(w, projects)
			})
		},
	}
}
