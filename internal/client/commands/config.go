package commands

import (
	"io"
	"strconv"

	"wilddocs/internal/application/common/slogger"
	"wilddocs/internal/client"
	"wilddocs/internal/domain/valueobject"

	"github.com/spf13/cobra"
)

const (
	msgAPIKeySaved   = "API key saved successfully!"
	msgAPIKeyCleared = "API key removed"
	keySourceFlag    = "config"
	keySourceStore   = "credentials"
	keySourceNone    = "none"
)

// configView is the JSON payload of config show. The key is always masked.
type configView struct {
	APIURL          string `json:"api_url"`
	Timeout         string `json:"timeout"`
	APIKey          string `json:"api_key,omitempty"`
	APIKeySource    string `json:"api_key_source"`
	RequireAPIKey   bool   `json:"require_api_key"`
	OutputFormat    string `json:"output_format"`
	LogLevel        string `json:"log_level"`
	CredentialsPath string `json:"credentials_path"`
}

// NewConfigCmd creates the config parent command managing the stored API key.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the API key and show effective settings",
	}

	cmd.AddCommand(NewConfigSetKeyCmd())
	cmd.AddCommand(NewConfigShowCmd())
	cmd.AddCommand(NewConfigClearKeyCmd())

	return cmd
}

// NewConfigSetKeyCmd creates the config set-key command. Keys must start
// with "sk-" and be longer than 20 characters.
func NewConfigSetKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-key <api-key>",
		Short: "Store the API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			state, ok := stateFrom(cmd)
			if !ok {
				return nil
			}

			if len(args) != 1 {
				state.fail(errCodeInvalidArgument, "requires exactly one API key argument", nil)
				return nil
			}

			key, err := valueobject.NewAPIKey(args[0])
			if err != nil {
				state.failWith(cmd.Context(), err)
				return nil
			}

			if err := state.store.Save(key); err != nil {
				state.fail(errCodeInvalidConfig, err.Error(), nil)
				return nil
			}

			slogger.Info(cmd.Context(), "API key stored", slogger.Fields{
				"path":   state.store.Path(),
				"masked": key.Masked(),
			})

			payload := map[string]string{"api_key": key.Masked(), "path": state.store.Path()}
			return state.printer.Success(payload, func(w io.Writer) error {
				if err := client.WriteSuccessText(w, msgAPIKeySaved); err != nil {
					return err
				}
				return client.WriteFields(w, "", []client.Field{{Label: "API key", Value: key.Masked()}})
			})
		},
	}
}

// NewConfigShowCmd creates the config show command.
func NewConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show effective settings with the API key masked",
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, ok := stateFrom(cmd)
			if !ok {
				return nil
			}

			key, err := state.apiKey()
			if err != nil {
				state.fail(errCodeInvalidConfig, err.Error(), nil)
				return nil
			}

			source := keySourceNone
			switch {
			case state.cfg.API.Key != "":
				source = keySourceFlag
			case !key.IsZero():
				source = keySourceStore
			}

			view := configView{
				APIURL:          state.cfg.API.URL,
				Timeout:         state.cfg.API.Timeout.String(),
				APIKey:          key.Masked(),
				APIKeySource:    source,
				RequireAPIKey:   state.cfg.API.RequireKey,
				OutputFormat:    state.cfg.Output.Format,
				LogLevel:        state.cfg.Log.Level,
				CredentialsPath: state.store.Path(),
			}

			return state.printer.Success(view, func(w io.Writer) error {
				masked := view.APIKey
				if masked == "" {
					masked = "(not set)"
				}
				return client.WriteFields(w, "Settings", []client.Field{
					{Label: "API URL", Value: view.APIURL},
					{Label: "Timeout", Value: view.Timeout},
					{Label: "API key", Value: masked},
					{Label: "Key source", Value: view.APIKeySource},
					{Label: "Require key", Value: strconv.FormatBool(view.RequireAPIKey)},
					{Label: "Credentials", Value: view.CredentialsPath},
				})
			})
		},
	}
}

// NewConfigClearKeyCmd creates the config clear-key command.
func NewConfigClearKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-key",
		Short: "Remove the stored API key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, ok := stateFrom(cmd)
			if !ok {
				return nil
			}

			if err := state.store.Clear(); err != nil {
				state.fail(errCodeInvalidConfig, err.Error(), nil)
				return nil
			}

			payload := map[string]string{"path": state.store.Path()}
			return state.printer.Success(payload, func(w io.Writer) error {
				return client.WriteSuccessText(w, msgAPIKeyCleared)
			})
		},
	}
}
