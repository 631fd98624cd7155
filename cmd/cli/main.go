package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mauv0809/team-planner/internal/apiclient"
	"github.com/spf13/cobra"
)

var (
	host     string
	password string
)

var rootCmd = &cobra.Command{
	Use:   "planner-cli",
	Short: "A CLI to interact with the team-planner server",
	Long: `A command-line interface for managing the roster and marking
availability on a running team-planner server.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", "http://localhost:8080", "The host address of the server")
	rootCmd.PersistentFlags().StringVar(&password, "password", os.Getenv("APP_PASSWORD"), "Shared team password (defaults to $APP_PASSWORD)")
}

// connect returns a client that is logged in when a password is configured.
func connect(ctx context.Context) (*apiclient.Client, error) {
	c, err := apiclient.New(host)
	if err != nil {
		return nil, err
	}
	if password != "" {
		if err := c.Login(ctx, password); err != nil {
			return nil, fmt.Errorf("login failed: %w", err)
		}
	}
	return c, nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your command '%s'\n", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
