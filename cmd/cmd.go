// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// rootCommand runs the interactive download loop.
func rootCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "songpull",
		Usage:   "Download a track as a tagged MP3, resolving metadata through Spotify",
		Version: "0.1.0",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:      "query",
				UsageText: "Track title and artist, or a Spotify URL",
			},
		},
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:  "bitrate",
				Usage: "Target MP3 bitrate in kbps (overrides config)",
			},
		},
		Action:   r.Download,
		Commands: []*cli.Command{infoCommand(r), setupCommand(r)},
	}
}

// infoCommand resolves a query and prints the normalized metadata record
// without downloading anything.
func infoCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "info",
		Usage: "Resolve a query and print its normalized metadata as JSON",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:      "query",
				UsageText: "Track title and artist, or a Spotify URL",
			},
		},
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Info,
	}
}

// setupCommand materializes the configuration file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create a config.toml and store Spotify credentials",
		Flags: []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}
