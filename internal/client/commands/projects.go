package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"wilddocs/internal/application/common/slogger"
	"wilddocs/internal/application/dto"
	"wilddocs/internal/client"
	"wilddocs/internal/domain/valueobject"

	"github.com/spf13/cobra"
)

const (
	msgProjectAdded          = "Project added successfully!"
	msgProjectsAdded         = "Projects added successfully!"
	errMsgRequiresGitHubURL  = "requires at least one GitHub URL"
	errMsgIngestionRejected  = "backend rejected the README"
	flagWait                 = "wait"
	flagWaitTimeout          = "wait-timeout"
	flagPollInterval         = "poll-interval"
	progressStatusSubmitting = "submitting"
)

// NewProjectsCmd creates the projects parent command.
func NewProjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "List and add documentation projects",
	}

	cmd.AddCommand(NewProjectsListCmd())
	cmd.AddCommand(NewProjectsAddCmd())

	return cmd
}

// NewProjectsListCmd creates the projects list command.
func NewProjectsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List ingested projects",
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

			projects, err := c.ListProjects(ctx)
			if err != nil {
				state.failWith(ctx, err)
				return nil
			}

			return state.printer.Success(projects, func(w io.Writer) error {
				return client.WriteProjects(w, projects)
			})
		},
	}
}

// NewProjectsAddCmd creates the projects add command.
//
// Each argument is normalized to a README URL first; if any argument is not
// a usable GitHub URL nothing is submitted. One URL is sent on its own,
// several are sent in a single batch. With --wait the command returns once
// every project shows up in the project list.
func NewProjectsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <github-url>...",
		Short: "Ingest the README of one or more GitHub repositories",
		Example: `  wilddocs projects add https://github.com/openai/gpt
  wilddocs projects add https://github.com/acme/cli/blob/v2/README.md --wait`,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, ok := stateFrom(cmd)
			if !ok {
				return nil
			}

			if len(args) == 0 {
				state.fail(errCodeInvalidArgument, errMsgRequiresGitHubURL, nil)
				return nil
			}

			readmes := make([]valueobject.ReadmeURL, 0, len(args))
			for _, arg := range args {
				readme, err := valueobject.NewReadmeURL(arg)
				if err != nil {
					state.failWith(cmd.Context(), err)
					return nil
				}
				readmes = append(readmes, readme)
			}

			c, ok := state.newClient(cmd.Context())
			if !ok {
				return nil
			}

			results, err := submitProjects(cmd.Context(), state, c, readmes)
			if err != nil {
				state.failWith(cmd.Context(), err)
				return nil
			}

			for _, r := range results {
				if !r.Success {
					state.fail(errCodeIngestFailed, ingestFailureMessage(r, len(results)), results)
					return nil
				}
			}

			if wait, _ := cmd.Flags().GetBool(flagWait); wait {
				if err := waitForProjects(cmd, c, readmes); err != nil {
					state.failWith(cmd.Context(), err)
					return nil
				}
			}

			return state.printer.Success(results, func(w io.Writer) error {
				message := msgProjectAdded
				if len(results) > 1 {
					message = msgProjectsAdded
				}
				if err := client.WriteSuccessText(w, message); err != nil {
					return err
				}
				for _, r := range results {
					if _, err := fmt.Fprintf(w, "  %s\n", r.ReadmeURL); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolP(flagWait, "w", false, "Wait until the projects appear in the project list")
	cmd.Flags().Duration(flagWaitTimeout, client.DefaultMaxWait, "Maximum time to wait")
	cmd.Flags().Duration(flagPollInterval, client.DefaultPollInterval, "Time between project list checks")

	return cmd
}

// submitProjects sends readmes to the backend and pairs each with the outcome.
func submitProjects(
	parent context.Context,
	state *runState,
	c *client.Client,
	readmes []valueobject.ReadmeURL,
) ([]dto.AddProjectResult, error) {
	ctx, cancel := state.requestContext(parent)
	defer cancel()

	slogger.Info(ctx, "Submitting projects", slogger.Fields{
		"status": progressStatusSubmitting,
		"count":  len(readmes),
	})

	var responses []dto.ProcessResponse
	if len(readmes) == 1 {
		resp, err := c.AddProject(ctx, readmes[0])
		if err != nil {
			return nil, err
		}
		if resp == nil {
			return nil, errors.New("empty response from backend")
		}
		responses = []dto.ProcessResponse{*resp}
	} else {
		var err error
		if responses, err = c.AddProjects(ctx, readmes); err != nil {
			return nil, err
		}
	}

	results := make([]dto.AddProjectResult, 0, len(readmes))
	for i, readme := range readmes {
		results = append(results, dto.AddProjectResult{
			ReadmeURL:     readme,
			RepositoryURL: readme.RepositoryURL(),
			Success:       responses[i].Success,
			Message:       responses[i].Message,
		})
	}
	return results, nil
}

// ingestFailureMessage names the rejected README when several were submitted.
func ingestFailureMessage(r dto.AddProjectResult, submitted int) string {
	message := r.Message
	if message == "" {
		message = errMsgIngestionRejected
	}
	if submitted > 1 {
		return fmt.Sprintf("%s: %s", r.ReadmeURL, message)
	}
	return message
}

func waitForProjects(cmd *cobra.Command, c *client.Client, readmes []valueobject.ReadmeURL) error {
	maxWait, _ := cmd.Flags().GetDuration(flagWaitTimeout)
	interval, _ := cmd.Flags().GetDuration(flagPollInterval)

	poller, err := client.NewPoller(c, &client.PollerConfig{Interval: interval, MaxWait: maxWait})
	if err != nil {
		return err
	}

	for _, readme := range readmes {
		if _, err := poller.WaitForProject(cmd.Context(), readme, cmd.ErrOrStderr()); err != nil {
			return fmt.Errorf("waiting for %s: %w", readme.FullName(), err)
		}
	}
	return nil
}
