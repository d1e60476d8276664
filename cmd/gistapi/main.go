package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/gistapi/gistapi/internal/config"
	"github.com/gistapi/gistapi/internal/server"
	"github.com/gistapi/gistapi/pkg/github"
	"github.com/gistapi/gistapi/pkg/logging"
	"github.com/gistapi/gistapi/pkg/search"
)

var cmdVersion = cli.Command{
	Name:  "version",
	Usage: "Print the version of gistapi",
	Action: func(c *cli.Context) error {
		fmt.Println("gistapi " + config.Version)
		return nil
	},
}

var cmdStart = cli.Command{
	Name:  "start",
	Usage: "Start the gistapi server",
	Action: func(ctx *cli.Context) error {
		cfg, err := config.Load(ctx.String("config"))
		if err != nil {
			return err
		}

		logging.Setup(logging.Config{
			Level:  logging.LogLevel(cfg.LogLevel),
			Pretty: cfg.LogPretty,
			Output: os.Stderr,
		})

		srv, err := buildServer(cfg)
		if err != nil {
			return err
		}

		if err := srv.Start(); err != nil {
			log.Error().Err(err).Msg("Server stopped with error")
			return err
		}
		return nil
	},
}

func buildServer(cfg *config.Config) (*server.Server, error) {
	client, err := github.New(github.Config{
		BaseURL:   cfg.GithubApiUrl,
		UserAgent: cfg.GithubUserAgent,
		Timeout:   time.Duration(cfg.GithubTimeoutSeconds) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("create github client: %w", err)
	}

	scanner := search.NewScanner(client, cfg.ScanConcurrency)
	searcher := search.NewSearcher(client, scanner)

	return server.New(cfg, searcher), nil
}

func main() {
	app := cli.NewApp()
	app.Name = "gistapi"
	app.Usage = "Search a user's GitHub gists with regular expressions."
	app.Version = config.Version

	app.Commands = []*cli.Command{&cmdStart, &cmdVersion}
	app.DefaultCommand = cmdStart.Name
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a config file in YAML format",
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
