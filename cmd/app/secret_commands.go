package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/secretstore/cmd/app/commands"
	"github.com/allisson/secretstore/internal/app"
	"github.com/allisson/secretstore/internal/config"
)

func getSecretCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-secret",
			Usage: "Encrypt and store a new secret version",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Secret name",
				},
				&cli.StringFlag{
					Name:    "secret-version",
					Aliases: []string{"sv"},
					Usage:   "Version tag (omit for the unversioned revision)",
				},
				&cli.StringFlag{
					Name:    "content",
					Aliases: []string{"c"},
					Usage:   "Secret content (read from stdin when omitted)",
				},
				&cli.StringFlag{
					Name:  "creator",
					Usage: "Who created the secret",
				},
				&cli.StringFlag{
					Name:  "description",
					Usage: "Free-form description",
				},
				&cli.StringSliceFlag{
					Name:  "metadata",
					Usage: "Metadata entry as key=value (repeatable)",
				},
				&cli.StringSliceFlag{
					Name:  "tag",
					Usage: "Tag as key=value (repeatable)",
				},
				&cli.StringFlag{
					Name:  "expiry",
					Usage: "Expiry timestamp in RFC3339 format",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				useCase, err := container.SecretUseCase()
				if err != nil {
					return err
				}

				stdio := commands.DefaultIO()
				return commands.RunCreateSecret(ctx, useCase, container.Logger(), stdio.Reader, stdio.Writer,
					commands.CreateSecretOptions{
						Name:        cmd.String("name"),
						Version:     cmd.String("secret-version"),
						Content:     cmd.String("content"),
						Creator:     cmd.String("creator"),
						Description: cmd.String("description"),
						Metadata:    cmd.StringSlice("metadata"),
						Tags:        cmd.StringSlice("tag"),
						Expiry:      cmd.String("expiry"),
						Format:      cmd.String("format"),
					},
				)
			},
		},
		{
			Name:  "get-secret",
			Usage: "Decrypt and print one secret version",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "id",
					Aliases: []string{"i"},
					Usage:   "Secret id (takes precedence over --name)",
				},
				&cli.StringFlag{
					Name:    "name",
					Aliases: []string{"n"},
					Usage:   "Secret name",
				},
				&cli.StringFlag{
					Name:    "secret-version",
					Aliases: []string{"sv"},
					Usage:   "Version tag (omit for the unversioned revision)",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				useCase, err := container.SecretUseCase()
				if err != nil {
					return err
				}

				return commands.RunGetSecret(
					ctx,
					useCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					int64(cmd.Int("id")),
					cmd.String("name"),
					cmd.String("secret-version"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "list-versions",
			Usage: "List every version stored under a name without decrypting",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Secret name",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				useCase, err := container.SecretUseCase()
				if err != nil {
					return err
				}

				return commands.RunListVersions(
					ctx,
					useCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("name"),
					cmd.String("format"),
				)
			},
		},
	}
}
