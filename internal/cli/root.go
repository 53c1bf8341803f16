// Package cli implements the commentctl command line client
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"douyin-comments/internal/app"
	"douyin-comments/internal/config"
	"douyin-comments/internal/logger"
	"douyin-comments/internal/scraper"
)

// Environment is what every command needs from the configuration
type Environment struct {
	Service scraper.ScraperService
	// Cookie is the configured DOUYIN_COOKIE, used when --cookie is not given
	Cookie string
}

// EnvironmentLoader builds the Environment. noDelay disables the page pacer.
type EnvironmentLoader func(noDelay bool) (*Environment, error)

var (
	cookieFlag   string
	logLevelFlag string

	loadEnvironment EnvironmentLoader = defaultEnvironment
)

var rootCmd = &cobra.Command{
	Use:   "commentctl",
	Short: "Retrieve Douyin video comments",
	Long: `commentctl resolves Douyin video links and retrieves the complete
top-level comment list of a video as JSON.

Configuration is read from the environment and .env, the same way the server does.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cookieFlag, "cookie", "", "Douyin cookie, defaults to DOUYIN_COOKIE")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "warn", "log level written to stderr")
}

// Run executes the root command with args, cancelling retrieval when ctx is done
func Run(ctx context.Context, args []string) error {
	if args == nil {
		args = []string{}
	}
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

func defaultEnvironment(noDelay bool) (*Environment, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger.Init(logger.Options{Level: logLevelFlag, Format: cfg.LogFormat, Component: "cli"})

	var pacer scraper.Pacer
	if noDelay {
		pacer = scraper.NoDelay
	}
	comps, err := app.Build(cfg, pacer, logger.Get())
	if err != nil {
		return nil, err
	}
	return &Environment{Service: comps.Service, Cookie: cfg.Cookie}, nil
}

func environment(noDelay bool) (*Environment, error) {
	env, err := loadEnvironment(noDelay)
	if err != nil {
		return nil, err
	}
	if env == nil || env.Service == nil {
		return nil, errors.New("comment service not configured")
	}
	return env, nil
}

func credential(env *Environment) string {
	if cookieFlag != "" {
		return cookieFlag
	}
	return env.Cookie
}
