// Package commands provides the cobra command tree of the wilddocs CLI.
// Every command writes a single result to stdout, either the JSON envelope
// or styled text, and reports failures the same way instead of returning them.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"wilddocs/internal/application/common/logging"
	"wilddocs/internal/application/common/slogger"
	"wilddocs/internal/client"
	"wilddocs/internal/config"
	"wilddocs/internal/domain/valueobject"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Flag names for persistent global flags.
const (
	flagAPIURL    = "api-url"
	flagTimeout   = "timeout"
	flagAPIKey    = "api-key"
	flagConfig    = "config"
	flagEnvFile   = "env-file"
	flagOutput    = "output"
	flagLogLevel  = "log-level"
	flagLogFormat = "log-format"
)

// flagBindings maps global flags to configuration keys.
var flagBindings = map[string]string{
	flagAPIURL:    config.KeyAPIURL,
	flagTimeout:   config.KeyAPITimeout,
	flagAPIKey:    config.KeyAPIKey,
	flagOutput:    config.KeyOutputFormat,
	flagLogLevel:  config.KeyLogLevel,
	flagLogFormat: config.KeyLogFormat,
}

// runState is shared by the commands of one invocation.
type runState struct {
	cfg     *config.Config
	loadErr error
	printer *client.Printer
	store   *client.CredentialStore
	failed  bool
}

type runStateKey struct{}

// NewRootCmd creates the root command of the wilddocs CLI.
//
// Subcommands:
//   - ask: Ask a question about the ingested documentation
//   - projects: List and add projects
//   - normalize: Convert a GitHub URL into its README URL
//   - config: Manage the stored API key
//   - health: Check backend health
//   - status: Health and project count in one call
//   - version: Print build information
func NewRootCmd() *cobra.Command {
	cmd, _ := newRootCmd()
	return cmd
}

func newRootCmd() (*cobra.Command, *runState) {
	state := &runState{}

	cmd := &cobra.Command{
		Use:          "wilddocs",
		Short:        "Ask questions about GitHub project documentation",
		Long:         "wilddocs talks to a Wild Docs backend: ingest GitHub READMEs and ask questions answered from them.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			state.load(cmd)
			cmd.SetContext(context.WithValue(logging.EnsureCorrelationID(cmd.Context()), runStateKey{}, state))
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.String(flagAPIURL, config.DefaultAPIURL, "Backend URL")
	flags.Duration(flagTimeout, config.DefaultTimeout, "Request timeout")
	flags.String(flagAPIKey, "", "API key (overrides the stored key)")
	flags.String(flagConfig, "", "Config file (default $XDG_CONFIG_HOME/wilddocs/config.yaml)")
	flags.String(flagEnvFile, "", "Env file to load (default ./.env)")
	flags.StringP(flagOutput, "o", config.DefaultOutputFormat, "Output format: json or text")
	flags.String(flagLogLevel, config.DefaultLogLevel, "Log level: debug, info, warn or error")
	flags.String(flagLogFormat, config.DefaultLogFormat, "Log format: json or text")

	cmd.AddCommand(NewAskCmd())
	cmd.AddCommand(NewProjectsCmd())
	cmd.AddCommand(NewNormalizeCmd())
	cmd.AddCommand(NewConfigCmd())
	cmd.AddCommand(NewHealthCmd())
	cmd.AddCommand(NewStatusCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd, state
}

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd, state := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		return 1
	}
	if state.failed {
		return 1
	}
	return 0
}

// load resolves configuration, logging and the credential store.
// Failures are kept in loadErr and reported by the command that runs.
func (s *runState) load(cmd *cobra.Command) {
	format, _ := cmd.Flags().GetString(flagOutput)
	s.printer = client.NewPrinter(cmd.OutOrStdout(), format)

	v := viper.New()
	config.SetDefaults(v)
	if err := bindFlags(v, cmd.Flags()); err != nil {
		s.loadErr = err
		return
	}

	cfgFile, _ := cmd.Flags().GetString(flagConfig)
	envFile, _ := cmd.Flags().GetString(flagEnvFile)
	if err := config.Load(v, config.LoadOptions{ConfigFile: cfgFile, EnvFile: envFile}); err != nil {
		s.loadErr = err
		return
	}

	cfg, err := config.New(v)
	if err != nil {
		s.loadErr = err
		return
	}
	s.cfg = cfg
	s.printer = client.NewPrinter(cmd.OutOrStdout(), cfg.Output.Format)

	logger, err := logging.NewApplicationLoggerWithWriter(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	}, cmd.ErrOrStderr())
	if err != nil {
		s.loadErr = err
		return
	}
	slogger.SetGlobalLogger(logger.WithComponent("cli"))

	store, err := client.NewCredentialStore(cfg.Credentials.Path)
	if err != nil {
		s.loadErr = err
		return
	}
	s.store = store
}

// bindFlags lets explicitly set global flags override every other source.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for flag, key := range flagBindings {
		f := flags.Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", flag, err)
		}
	}
	return nil
}

// stateFrom returns the run state for cmd, reporting configuration failures.
// Commands return nil when ok is false; the failure has been written.
func stateFrom(cmd *cobra.Command) (*runState, bool) {
	state, _ := cmd.Context().Value(runStateKey{}).(*runState)
	if state == nil {
		state = &runState{
			printer: client.NewPrinter(cmd.OutOrStdout(), config.DefaultOutputFormat),
			loadErr: errors.New("command must be run through the wilddocs root command"),
		}
	}
	if state.loadErr != nil {
		state.fail(errCodeInvalidConfig, state.loadErr.Error(), nil)
		return nil, false
	}
	return state, true
}

// fail reports a failure and marks the invocation as unsuccessful.
func (s *runState) fail(code, message string, details interface{}) {
	s.failed = true
	_ = s.printer.Failure(code, message, details)
}

// failWith reports err with the code matching its type.
func (s *runState) failWith(ctx context.Context, err error) {
	code := determineErrorCode(err)
	slogger.Debug(ctx, "Command failed", slogger.Fields{"code": code, "error": err.Error()})
	s.fail(code, err.Error(), errorDetails(err))
}

// apiKey resolves the credential: the configured key wins over the stored one.
func (s *runState) apiKey() (valueobject.APIKey, error) {
	if s.cfg.API.Key != "" {
		key, err := valueobject.NewAPIKey(s.cfg.API.Key)
		if err != nil {
			return valueobject.APIKey{}, fmt.Errorf("api.key: %w", err)
		}
		return key, nil
	}

	key, _, err := s.store.Load()
	return key, err
}

// newClient builds an API client from the resolved configuration.
// Returns false when the failure has already been reported.
func (s *runState) newClient(ctx context.Context) (*client.Client, bool) {
	key, err := s.apiKey()
	if err != nil {
		s.fail(errCodeInvalidConfig, err.Error(), nil)
		return nil, false
	}

	c, err := client.NewClient(&client.Config{
		APIURL:        s.cfg.API.URL,
		Timeout:       s.cfg.API.Timeout,
		APIKey:        key,
		RequireAPIKey: s.cfg.API.RequireKey,
	})
	if err != nil {
		s.fail(errCodeInvalidConfig, err.Error(), nil)
		return nil, false
	}

	slogger.Debug(ctx, "Client configured", slogger.Fields{
		"api_url":     s.cfg.API.URL,
		"has_api_key": !key.IsZero(),
	})
	return c, true
}

// requestContext bounds a command's backend calls by the configured timeout.
func (s *runState) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.cfg.API.Timeout)
}
