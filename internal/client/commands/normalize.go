package commands

import (
	"io"
	"strings"

	"wilddocs/internal/client"
	"wilddocs/internal/domain/valueobject"

	"github.com/spf13/cobra"
)

const errMsgRequiresOneURL = "requires exactly one URL argument"

// normalizeResult is the JSON payload of the normalize command.
type normalizeResult struct {
	Input         string                `json:"input"`
	ReadmeURL     valueobject.ReadmeURL `json:"readme_url"`
	Owner         string                `json:"owner"`
	Repo          string                `json:"repo"`
	Branch        string                `json:"branch"`
	RepositoryURL string                `json:"repository_url"`
	RawURL        string                `json:"raw_url"`
}

// NewNormalizeCmd creates the normalize command. It converts a GitHub URL
// into its canonical README URL without contacting the backend.
func NewNormalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <github-url>",
		Short: "Convert a GitHub URL into its README URL",
		Example: `  wilddocs normalize https://github.com/openai/gpt
  wilddocs normalize https://github.com/openai/gpt/blob/v2/README.md -o text`,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, ok := stateFrom(cmd)
			if !ok {
				return nil
			}

			if len(args) != 1 {
				state.fail(errCodeInvalidArgument, errMsgRequiresOneURL, nil)
				return nil
			}

			readme, err := valueobject.NewReadmeURL(args[0])
			if err != nil {
				state.failWith(cmd.Context(), err)
				return nil
			}

			result := normalizeResult{
				Input:         strings.TrimSpace(args[0]),
				ReadmeURL:     readme,
				Owner:         readme.Owner(),
				Repo:          readme.Repo(),
				Branch:        readme.Branch(),
				RepositoryURL: readme.RepositoryURL(),
				RawURL:        readme.RawURL(),
			}

			return state.printer.Success(result, func(w io.Writer) error {
				return client.WriteFields(w, readme.String(), []client.Field{
					{Label: "Owner", Value: result.Owner},
					{Label: "Repo", Value: result.Repo},
					{Label: "Branch", Value: result.Branch},
					{Label: "Repository", Value: result.RepositoryURL},
					{Label: "Raw", Value: result.RawURL},
				})
			})
		},
	}
}
