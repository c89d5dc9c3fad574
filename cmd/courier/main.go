package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/JaimeStill/courier/internal/config"
	"github.com/JaimeStill/courier/internal/console"
	"github.com/JaimeStill/courier/internal/infrastructure"
)

var verbose bool

func main() {
	rootCmd := &cobra.Command{
		Use:   "courier",
		Short: "Courier - weather and news research assistant",
		Long: `Courier answers weather and news questions for a location. A request is
classified by keyword, the matching search providers are queried, and a
language model turns the raw results into a conversational answer.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	chatCmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive research session",
		Args:  cobra.NoArgs,
		RunE:  runChat,
	}

	askCmd := &cobra.Command{
		Use:   "ask [query...]",
		Short: "Answer a single question",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAsk,
	}
	askCmd.Flags().StringP("location", "l", "", "location for the request")

	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the canned demo requests",
		Args:  cobra.NoArgs,
		RunE:  runDemo,
	}
	demoCmd.Flags().IntP("concurrency", "n", 3, "maximum concurrent runs")

	rootCmd.AddCommand(chatCmd, askCmd, demoCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func runChat(cmd *cobra.Command, args []string) error {
	infra, cfg, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer infra.Lifecycle.Shutdown(cfg.ShutdownTimeoutDuration())

	return console.New(infra.Runtime(), os.Stdin, os.Stdout).Chat(cmd.Context())
}

func runAsk(cmd *cobra.Command, args []string) error {
	location, _ := cmd.Flags().GetString("location")

	infra, cfg, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer infra.Lifecycle.Shutdown(cfg.ShutdownTimeoutDuration())

	query := strings.Join(args, " ")
	return console.New(infra.Runtime(), nil, os.Stdout).Ask(cmd.Context(), location, query)
}

func runDemo(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("concurrency")

	infra, cfg, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer infra.Lifecycle.Shutdown(cfg.ShutdownTimeoutDuration())

	return console.Demo(cmd.Context(), infra.Runtime(), os.Stdout, console.DemoCases(), limit)
}

func setup(ctx context.Context) (*infrastructure.Infrastructure, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.RequireResponderKey(keyPrompt()); err != nil {
		return nil, nil, err
	}

	infra, err := infrastructure.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	if err := infra.Start(); err != nil {
		return nil, nil, err
	}
	infra.Lifecycle.WaitForStartup()

	return infra, cfg, nil
}

// keyPrompt reads the responder key without echo, or returns nil when
// stdin is not a terminal.
func keyPrompt() func() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil
	}

	return func() (string, error) {
		fmt.Fprint(os.Stderr, "Enter responder API key: ")
		key, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		return string(key), err
	}
}
