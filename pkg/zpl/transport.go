package zpl

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"go.bug.st/serial"
)

// ConnectionType определяет способ подключения принтера.
type ConnectionType int

const (
	ConnectionTCP    ConnectionType = iota // Сетевой принтер, RAW порт
	ConnectionSerial                       // COM / rfcomm (Bluetooth SPP)
)

// DefaultRawPort - стандартный RAW порт Zebra
const DefaultRawPort = 9100

// Config определяет параметры подключения к принтеру.
type Config struct {
	ConnectionType ConnectionType
	IPAddress      string
	TCPPort        int
	PortName       string // Например "/dev/rfcomm0" или "COM5"
	BaudRate       int
	Timeout        time.Duration
	Logger         func(msg string)
}

// Transport доставляет готовый поток команд на принтер.
type Transport struct {
	config Config
	mu     sync.Mutex
	port   serial.Port // Только для последовательного порта
	open   func(name string, mode *serial.Mode) (serial.Port, error)
	dial   func(ctx context.Context, network, addr string) (net.Conn, error)
}

// NewTransport создает транспорт с заданной конфигурацией
func NewTransport(config Config) *Transport {
	if config.Timeout == 0 {
		config.Timeout = 5 * time.Second
	}
	if config.BaudRate == 0 {
		config.BaudRate = 115200
	}
	if config.TCPPort == 0 {
		config.TCPPort = DefaultRawPort
	}
	dialer := &net.Dialer{Timeout: config.Timeout}
	return &Transport{
		config: config,
		open:   serial.Open,
		dial:   dialer.DialContext,
	}
}

// Send отправляет данные на принтер. Для последовательного порта при ошибке
// выполняется одна повторная попытка с переоткрытием порта.
func (t *Transport) Send(ctx context.Context, data []byte) error {
	if len(data) == 0 {
		return ErrEmptyPayload
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.config.ConnectionType {
	case ConnectionTCP:
		return t.sendTCP(ctx, data)
	case ConnectionSerial:
		var lastErr error
		for i := 0; i < 2; i++ {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if lastErr = t.sendSerialLocked(data); lastErr == nil {
				return nil
			}
			t.logf("Serial error (%v). Retrying...", lastErr)
			t.closeLocked()
			time.Sleep(200 * time.Millisecond)
		}
		return lastErr
	default:
		return fmt.Errorf("%w: %d", ErrUnknownConnection, t.config.ConnectionType)
	}
}

// Close закрывает последовательный порт, если он открыт
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closeLocked()
}

// sendTCP открывает соединение на каждую отправку
func (t *Transport) sendTCP(ctx context.Context, data []byte) error {
	addr := net.JoinHostPort(t.config.IPAddress, strconv.Itoa(t.config.TCPPort))
	t.logf("Connecting to %s", addr)

	conn, err := t.dial(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("ошибка подключения к принтеру %s: %w", addr, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(t.config.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return fmt.Errorf("failed to set deadline: %w", err)
	}

	n, err := conn.Write(data)
	if err != nil {
		return fmt.Errorf("ошибка отправки на принтер: %w", err)
	}
	if n != len(data) {
		return ErrShortWrite
	}

	t.logf("Sent %d bytes to %s", n, addr)
	return nil
}

// sendSerialLocked пишет в последовательный порт (только под мьютексом)
func (t *Transport) sendSerialLocked(data []byte) error {
	if t.port == nil {
		mode := &serial.Mode{
			BaudRate: t.config.BaudRate,
			DataBits: 8,
			Parity:   serial.NoParity,
			StopBits: serial.OneStopBit,
		}
		p, err := t.open(t.config.PortName, mode)
		if err != nil {
			return fmt.Errorf("ошибка открытия порта %s: %w", t.config.PortName, err)
		}
		t.port = p
	}

	n, err := t.port.Write(data)
	if err != nil {
		return fmt.Errorf("ошибка записи в порт %s: %w", t.config.PortName, err)
	}
	if n != len(data) {
		return ErrShortWrite
	}

	t.logf("Sent %d bytes to %s", n, t.config.PortName)
	return nil
}

func (t *Transport) closeLocked() error {
	if t.port == nil {
		return nil
	}
	err := t.port.Close()
	t.port = nil
	return err
}

func (t *Transport) logf(format string, args ...interface{}) {
	if t.config.Logger != nil {
		t.config.Logger(fmt.Sprintf(format, args...))
	}
}
