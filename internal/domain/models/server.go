package models

import (
	"fmt"
	"time"
)

// ServerConfiguration представляет настройки подключения к серверу и периферии,
// введенные оператором. Активной может быть только одна конфигурация.
type ServerConfiguration struct {
	ID                      int64
	ServerURL               string
	ServerName              string // Имя хоста, передается в x-Hostname
	IsActive                bool
	LastConnected           *time.Time
	DatafonURL              string // Базовый адрес платежного терминала
	PrinterIP               string
	PrinterBluetoothAddress string // Адрес или путь к устройству rfcomm
	PrinterBluetoothName    string
	UsePrinterIP            bool
	PrinterModel            string
	DatafonoProvider        string
	DataphoneTerminalID     string
}

// DisplayString возвращает строку для списка конфигураций
func (c *ServerConfiguration) DisplayString() string {
	printer := c.PrinterBluetoothName
	if c.UsePrinterIP {
		printer = c.PrinterIP
	}
	if printer == "" {
		printer = "-"
	}

	active := ""
	if c.IsActive {
		active = " *"
	}

	return fmt.Sprintf("#%d %s (%s) - %s%s", c.ID, c.ServerName, c.ServerURL, printer, active)
}
