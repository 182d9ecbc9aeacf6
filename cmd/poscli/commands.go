package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"

	"poslink/internal/app"
	"poslink/internal/devicestate"
	"poslink/internal/domain/models"
	"poslink/internal/infrastructure/printer"
)

func commands(get func() *app.App) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "config",
			Usage: "конфигурации сервера",
			Subcommands: []*cli.Command{
				{
					Name:  "list",
					Usage: "список конфигураций",
					Action: func(c *cli.Context) error {
						list, err := get().Configs.List(c.Context)
						if err != nil {
							return err
						}
						if len(list) == 0 {
							fmt.Println("Конфигураций нет")
						}
						for _, cfg := range list {
							fmt.Println(cfg.DisplayString())
						}
						return nil
					},
				},
				{
					Name:  "add",
					Usage: "добавить конфигурацию",
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "url", Required: true},
						&cli.StringFlag{Name: "name", Required: true, Usage: "имя кассы (x-Hostname)"},
						&cli.StringFlag{Name: "datafono", Usage: "базовый URL терминала"},
						&cli.StringFlag{Name: "provider", Value: "PAX"},
						&cli.StringFlag{Name: "terminal-id"},
						&cli.StringFlag{Name: "printer-ip"},
						&cli.StringFlag{Name: "printer-bt", Usage: "rfcomm/COM устройство принтера"},
						&cli.StringFlag{Name: "printer-bt-name"},
						&cli.StringFlag{Name: "printer-model", Value: "ZQ520"},
						&cli.BoolFlag{Name: "activate"},
					},
					Action: func(c *cli.Context) error {
						cfg := &models.ServerConfiguration{
							ServerURL:               c.String("url"),
							ServerName:              c.String("name"),
							IsActive:                c.Bool("activate"),
							DatafonURL:              c.String("datafono"),
							DatafonoProvider:        c.String("provider"),
							DataphoneTerminalID:     c.String("terminal-id"),
							PrinterIP:               c.String("printer-ip"),
							PrinterBluetoothAddress: c.String("printer-bt"),
							PrinterBluetoothName:    c.String("printer-bt-name"),
							UsePrinterIP:            c.String("printer-ip") != "",
							PrinterModel:            c.String("printer-model"),
						}
						id, err := get().Configs.Save(c.Context, cfg)
						if err != nil {
							return err
						}
						fmt.Printf("Сохранена конфигурация #%d\n", id)
						return nil
					},
				},
				{
					Name:      "activate",
					Usage:     "сделать конфигурацию активной",
					ArgsUsage: "<id>",
					Action: func(c *cli.Context) error {
						id, err := idArg(c)
						if err != nil {
							return err
						}
						return get().Configs.Activate(c.Context, id)
					},
				},
				{
					Name:      "delete",
					Usage:     "удалить конфигурацию",
					ArgsUsage: "<id>",
					Action: func(c *cli.Context) error {
						id, err := idArg(c)
						if err != nil {
							return err
						}
						return get().Configs.Delete(c.Context, id)
					},
				},
			},
		},
		{
			Name:  "login",
			Usage: "вход на сервер",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "user", Required: true},
				&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"POS_PASSWORD"}},
			},
			Action: func(c *cli.Context) error {
				if _, err := get().API.Login(c.Context, c.String("user"), c.String("password")); err != nil {
					return err
				}
				fmt.Println("Вход выполнен")
				return nil
			},
		},
		{
			Name:  "logout",
			Usage: "удалить токен сессии",
			Action: func(c *cli.Context) error {
				return get().API.Logout(c.Context)
			},
		},
		{
			Name:  "ping",
			Usage: "проверить доступность сервера",
			Action: func(c *cli.Context) error {
				if err := get().API.Ping(c.Context); err != nil {
					return err
				}
				fmt.Println("Сервер доступен")
				return nil
			},
		},
		{
			Name:  "charge",
			Usage: "продажа через платежный терминал",
			Flags: []cli.Flag{
				&cli.Int64Flag{Name: "amount", Required: true, Usage: "сумма в минимальных единицах POS"},
				&cli.StringFlag{Name: "station", Value: "open", Usage: "состояние кассы на время команды: open|closed"},
			},
			Action: func(c *cli.Context) error {
				return runCharge(c, get())
			},
		},
		{
			Name:  "print",
			Usage: "печать чека",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "items", Usage: "JSON-файл со строками транзакции"},
				&cli.StringFlag{Name: "header"},
				&cli.BoolFlag{Name: "test", Usage: "тестовая страница"},
				&cli.BoolFlag{Name: "dry-run", Usage: "вывести ZPL вместо печати"},
			},
			Action: func(c *cli.Context) error {
				return runPrint(c, get())
			},
		},
		{
			Name:  "ports",
			Usage: "последовательные порты для Bluetooth-принтера",
			Action: func(c *cli.Context) error {
				list, err := printer.SystemPorts()
				if err != nil {
					return err
				}
				for _, p := range list {
					fmt.Println(p)
				}
				return nil
			},
		},
		{
			Name:  "recovery",
			Usage: "незавершенная транзакция",
			Subcommands: []*cli.Command{
				{
					Name: "show",
					Action: func(c *cli.Context) error {
						m, err := get().Checkout.Pending(c.Context)
						if err != nil {
							return err
						}
						if m == nil {
							fmt.Println("Незавершенных транзакций нет")
							return nil
						}
						fmt.Printf("Транзакция %s от %s\n", m.TransactionID, m.CreatedAt.Local().Format("2006-01-02 15:04:05"))
						return nil
					},
				},
				{
					Name: "clear",
					Action: func(c *cli.Context) error {
						return get().Checkout.Abandon(c.Context)
					},
				},
			},
		},
		{
			Name:  "watch",
			Usage: "следить за связью с сервером и состоянием устройства",
			Action: func(c *cli.Context) error {
				return runWatch(c, get())
			},
		},
		{
			Name:  "state",
			Usage: "состояние устройства",
			Action: func(c *cli.Context) error {
				a := get()
				fmt.Printf("Терминал: %q\n", a.State.TerminalID.Get())
				fmt.Printf("Касса: %s\n", devicestate.Label(a.State.Station.Get(), a.Config.Locale))
				return nil
			},
		},
	}
}

func idArg(c *cli.Context) (int64, error) {
	if c.NArg() != 1 {
		return 0, errors.New("ожидается один аргумент <id>")
	}
	return strconv.ParseInt(c.Args().First(), 10, 64)
}

func runCharge(c *cli.Context, a *app.App) error {
	ctx := c.Context

	pending, err := a.Checkout.Pending(ctx)
	if err != nil {
		return err
	}
	if pending != nil {
		return cli.Exit(fmt.Sprintf("есть незавершенная транзакция %s, выполните recovery clear", pending.TransactionID), 2)
	}

	station, ok := models.ParseStationState(c.String("station"))
	if !ok {
		return fmt.Errorf("неизвестное состояние кассы %q", c.String("station"))
	}
	a.State.Station.Set(station)
	defer a.State.Station.Set(models.StationClosed)

	id, res, err := a.Checkout.Sale(ctx, c.Int64("amount"))
	if err != nil {
		return err
	}

	out, _ := json.MarshalIndent(res, "", "  ")
	fmt.Println(string(out))

	if !res.Success && !res.Declined() {
		fmt.Printf("Связь с терминалом не подтверждена, транзакция %s оставлена для восстановления\n", id)
	}
	return nil
}

type invoiceLine struct {
	ItemID           string `json:"itemId"`
	PackagingItemID  string `json:"packagingItemId"`
	LineItemSequence int    `json:"lineItemSequence"`
	IsDeleted        bool   `json:"isDeleted"`
	HasPackaging     bool   `json:"hasPackaging"`
	Quantity         int    `json:"quantity"`
}

func readItems(path string) ([]models.InvoiceItem, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lines []invoiceLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	items := make([]models.InvoiceItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, models.InvoiceItem(l))
	}
	return items, nil
}

func runPrint(c *cli.Context, a *app.App) error {
	if c.Bool("test") {
		return a.Checkout.PrintTestReceipt(c.Context)
	}
	if c.String("items") == "" {
		return errors.New("укажите --items или --test")
	}

	items, err := readItems(c.String("items"))
	if err != nil {
		return err
	}

	if c.Bool("dry-run") {
		data, err := a.Checkout.RenderReceipt(c.Context, items, c.String("header"))
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}
	return a.Checkout.PrintReceipt(c.Context, items, c.String("header"))
}

func runWatch(c *cli.Context, a *app.App) error {
	ctx := c.Context

	reachable := a.Monitor.Subscribe(ctx)
	terminalID := a.State.TerminalID.Subscribe(ctx)
	station := a.State.Station.Subscribe(ctx)

	a.Monitor.Start(ctx)
	defer a.Monitor.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ok, open := <-reachable:
			if !open {
				return nil
			}
			fmt.Printf("Сервер доступен: %t\n", ok)
		case id, open := <-terminalID:
			if !open {
				return nil
			}
			fmt.Printf("Терминал: %q\n", id)
		case st, open := <-station:
			if !open {
				return nil
			}
			fmt.Printf("Касса: %s\n", devicestate.Label(st, a.Config.Locale))
		}
	}
}
