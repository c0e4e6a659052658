package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/kislikjeka/txfeed/internal/transport/httpapi/middleware"
)

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Mint a development JWT for the txfeed API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "secret",
				Usage:    "JWT signing secret",
				EnvVars:  []string{"JWT_SECRET"},
				Required: true,
			},
			&cli.StringFlag{
				Name:  "user",
				Usage: "User ID (a random one is generated when empty)",
			},
			&cli.DurationFlag{
				Name:  "ttl",
				Value: middleware.DefaultTokenTTL,
				Usage: "Token lifetime",
			},
		},
		Action: func(c *cli.Context) error {
			token, userID, err := mintToken(c.String("secret"), c.String("user"), c.Duration("ttl"))
			if err != nil {
				return err
			}

			fmt.Fprintf(c.App.ErrWriter, "user: %s\n", userID)
			fmt.Fprintln(c.App.Writer, token)
			return nil
		},
	}
}

func mintToken(secret, user string, ttl time.Duration) (string, uuid.UUID, error) {
	userID := uuid.New()
	if user != "" {
		parsed, err := uuid.Parse(user)
		if err != nil {
			return "", uuid.Nil, fmt.Errorf("invalid user ID %q: %w", user, err)
		}
		userID = parsed
	}

	token, err := middleware.NewJWTService(secret).GenerateToken(userID, ttl)
	if err != nil {
		return "", uuid.Nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return token, userID, nil
}
