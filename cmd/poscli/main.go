package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"poslink/internal/app"
	"poslink/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var a *app.App

	cliApp := &cli.App{
		Name:  "poscli",
		Usage: "операторская утилита: сервер, терминал, принтер, восстановление",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env", Usage: "путь к .env", Value: ".env"},
		},
		Before: func(c *cli.Context) error {
			var err error
			a, err = app.New(c.Context, config.Load(c.String("env")))
			return err
		},
		After: func(c *cli.Context) error {
			if a == nil {
				return nil
			}
			return a.Close()
		},
		Commands: commands(func() *app.App { return a }),
	}

	if err := cliApp.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(1)
	}
}
