// File: cmd/root.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/figport/internal/browser"
	"github.com/xkilldash9x/figport/internal/config"
	"github.com/xkilldash9x/figport/internal/generate"
	"github.com/xkilldash9x/figport/internal/observability"
)

type contextKey string

const configKey contextKey = "config"

var cfgFile string

// dependencies are the collaborators that talk to the outside world. Tests
// swap them for fakes so commands run without a browser or network.
type dependencies struct {
	newRenderer  func(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger) browser.Renderer
	newGenerator func(cfg config.LLMConfig, logger *zap.Logger) (generate.Generator, error)
}

func defaultDependencies() dependencies {
	return dependencies{
		newRenderer: func(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger) browser.Renderer {
			return browser.NewHost(ctx, cfg, logger)
		},
		newGenerator: generate.New,
	}
}

var rootCmd = newRootCmd(defaultDependencies())

// newRootCmd builds the command tree. Configuration and logging are set up
// in PersistentPreRunE so every subcommand starts from the same state.
func newRootCmd(deps dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "figport",
		Short: "figport compiles rendered web pages into Figma build scripts.",
		Long: `figport renders HTML in a headless browser, reads back the computed styles
and layout boxes, and emits a script that rebuilds the page as auto-layout
frames, text and image nodes when run inside Figma.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			config.SetDefaults(v)

			if err := initializeConfig(v); err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}
			cfg, err := config.NewConfigFromViper(v)
			if err != nil {
				observability.InitializeLogger(config.NewDefaultConfig().Logger())
				return fmt.Errorf("failed to load or validate config: %w", err)
			}

			observability.InitializeLogger(cfg.Logger())
			observability.GetLogger().Debug("Starting figport", zap.String("version", Version))

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(context.WithValue(ctx, configKey, cfg))
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	cmd.SetVersionTemplate(`{{printf "%s version %s\n" .Name .Version}}`)

	cmd.AddCommand(newConvertCmd(deps))
	cmd.AddCommand(newSnapshotCmd(deps))
	cmd.AddCommand(newPreviewCmd(deps))
	cmd.AddCommand(newGenerateCmd(deps))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the root command with a context cancelled on SIGINT/SIGTERM.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		observability.GetLogger().Error("Command execution failed", zap.Error(err))
		observability.Sync()
		os.Exit(1)
	}
	observability.Sync()
}

// initializeConfig reads the config file (if any) and FIGPORT_ environment
// variables into v.
func initializeConfig(v *viper.Viper) error {
	if cfgFile != "" {
		path, err := expandPath(cfgFile)
		if err != nil {
			return err
		}
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("FIGPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// No config file; defaults and environment apply.
	}
	return nil
}

// getConfigFromContext returns the configuration stored by PersistentPreRunE.
func getConfigFromContext(ctx context.Context) (*config.Config, error) {
	cfg, ok := ctx.Value(configKey).(*config.Config)
	if !ok || cfg == nil {
		return nil, fmt.Errorf("configuration not found in command context")
	}
	return cfg, nil
}
