package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/urfave/cli/v3"

	"songpull/internal/shared"
)

// Setup materializes config.toml from the embedded template and, when no
// credentials can be resolved from the file or the environment, prompts
// for a Spotify client id and secret and persists them.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err == nil {
		r.logger.Info("config file already exists", "path", configPath)
	} else {
		if err := shared.CreateConfigFile(configPath); err != nil {
			return err
		}
		r.logger.Info("config file created", "path", configPath)
	}

	config, err := shared.LoadConfig(configPath)
	if err != nil {
		return err
	}

	if err := shared.ResolveCredentials(config); err == nil {
		r.logger.Info("credentials resolved, setup complete")
		return nil
	}

	fmt.Fprintf(r.output, "No Spotify credentials found in %s or the environment.\n", configPath)

	clientID, ok := r.readLine("Enter client id: ")
	if !ok {
		return shared.ErrMissingCredentials
	}
	clientSecret, ok := r.readLine("Enter client secret: ")
	if !ok {
		return shared.ErrMissingCredentials
	}

	config.Credentials.Spotify.ClientID = strings.TrimSpace(clientID)
	config.Credentials.Spotify.ClientSecret = strings.TrimSpace(clientSecret)

	if config.Credentials.Spotify.ClientID == "" || config.Credentials.Spotify.ClientSecret == "" {
		return shared.ErrMissingCredentials
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	// Credentials live in this file now; keep it private.
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	r.logger.Info("credentials saved", "path", configPath)
	return nil
}
