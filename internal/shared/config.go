package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Audio       AudioConfig       `toml:"audio"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials for the client-credentials grant.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// AudioConfig contains download and transcode settings.
type AudioConfig struct {
	// BitrateKbps is the target MP3 bitrate in kbps.
	BitrateKbps int `toml:"bitrate_kbps"`
	// OutputDir is the directory downloaded tracks are written to.
	OutputDir string `toml:"output_dir"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ResolveCredentials overlays missing Spotify credentials from the environment.
//
// A .env file in the working directory is loaded first when present, then
// SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET fill any fields the config
// file left blank. Returns [ErrMissingCredentials] when either value is
// still empty after the overlay.
func ResolveCredentials(config *Config) error {
	_ = godotenv.Load()

	if config.Credentials.Spotify.ClientID == "" {
		config.Credentials.Spotify.ClientID = os.Getenv("SPOTIFY_CLIENT_ID")
	}
	if config.Credentials.Spotify.ClientSecret == "" {
		config.Credentials.Spotify.ClientSecret = os.Getenv("SPOTIFY_CLIENT_SECRET")
	}

	if config.Credentials.Spotify.ClientID == "" || config.Credentials.Spotify.ClientSecret == "" {
		return ErrMissingCredentials
	}

	return nil
}
