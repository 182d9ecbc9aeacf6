// Package printer выбирает кодек по модели принтера из конфигурации и
// доставляет готовый поток команд по сети или через последовательный порт.
package printer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.bug.st/serial"

	"poslink/internal/domain/models"
	"poslink/internal/domain/ports"
	"poslink/internal/infrastructure/logger"
	"poslink/pkg/zpl"
)

var (
	ErrUnknownModel      = errors.New("printer: unknown printer model")
	ErrNoPrinter         = errors.New("printer: printer address is not configured")
	ErrUnboundBluetooth  = errors.New("printer: bluetooth printer must be bound to a serial device")
	ErrInvalidPrinterURL = errors.New("printer: invalid printer address")
)

// Model - кодек конкретной модели принтера
type Model interface {
	Model() string
	EncodeReceipt(text string) []byte
	EncodeTestReceipt(text string) []byte
}

// Sender доставляет байты на принтер
type Sender interface {
	Send(ctx context.Context, data []byte) error
	Close() error
}

// SenderFactory создает транспорт под параметры подключения
type SenderFactory func(cfg zpl.Config) Sender

func defaultSender(cfg zpl.Config) Sender {
	return zpl.NewTransport(cfg)
}

// Registry хранит кодеки моделей и реализует ports.ReceiptPrinter
type Registry struct {
	models    map[string]Model
	fallback  string
	timeout   time.Duration
	newSender SenderFactory
	log       ports.Logger
}

// NewRegistry создает реестр. Первая модель используется, если модель в конфигурации не указана.
func NewRegistry(log ports.Logger, timeout time.Duration, codecs ...Model) *Registry {
	if log == nil {
		log = ports.NopLogger{}
	}
	r := &Registry{
		models:    make(map[string]Model),
		timeout:   timeout,
		newSender: defaultSender,
		log:       log,
	}
	for _, m := range codecs {
		r.Register(m)
	}
	return r
}

// WithSenderFactory подменяет транспорт (для тестов)
func (r *Registry) WithSenderFactory(f SenderFactory) *Registry {
	r.newSender = f
	return r
}

// Register добавляет модель
func (r *Registry) Register(m Model) {
	id := normalizeModel(m.Model())
	if r.fallback == "" {
		r.fallback = id
	}
	r.models[id] = m
}

// Resolve находит кодек по модели
func (r *Registry) Resolve(model string) (Model, error) {
	id := normalizeModel(model)
	if id == "" {
		id = r.fallback
	}
	m, ok := r.models[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, model)
	}
	return m, nil
}

// Encode кодирует чек для принтера из конфигурации
func (r *Registry) Encode(cfg *models.ServerConfiguration, text string) ([]byte, error) {
	m, err := r.Resolve(modelOf(cfg))
	if err != nil {
		return nil, err
	}
	return m.EncodeReceipt(text), nil
}

// Print кодирует и печатает чек
func (r *Registry) Print(ctx context.Context, cfg *models.ServerConfiguration, text string) error {
	m, err := r.Resolve(modelOf(cfg))
	if err != nil {
		return err
	}
	return r.send(ctx, cfg, m.EncodeReceipt(text))
}

// PrintTest печатает тестовый чек
func (r *Registry) PrintTest(ctx context.Context, cfg *models.ServerConfiguration, text string) error {
	m, err := r.Resolve(modelOf(cfg))
	if err != nil {
		return err
	}
	return r.send(ctx, cfg, m.EncodeTestReceipt(text))
}

func (r *Registry) send(ctx context.Context, cfg *models.ServerConfiguration, data []byte) error {
	conn, err := TransportConfig(cfg, r.timeout)
	if err != nil {
		return err
	}
	conn.Logger = logger.Func(r.log)

	sender := r.newSender(conn)
	defer sender.Close()

	r.log.Info("[PRINTER] отправка %d байт (%s)", len(data), describe(conn))
	if err := sender.Send(ctx, data); err != nil {
		r.log.Error("[PRINTER] ошибка печати: %v", err)
		return fmt.Errorf("printer: send: %w", err)
	}
	return nil
}

// TransportConfig строит параметры подключения из конфигурации сервера.
// Bluetooth-принтер должен быть заранее привязан к устройству (rfcomm, COM-порт).
func TransportConfig(cfg *models.ServerConfiguration, timeout time.Duration) (zpl.Config, error) {
	if cfg == nil {
		return zpl.Config{}, ErrNoPrinter
	}

	if cfg.UsePrinterIP {
		addr := strings.TrimSpace(cfg.PrinterIP)
		if addr == "" {
			return zpl.Config{}, ErrNoPrinter
		}
		host, port, err := splitHostPort(addr)
		if err != nil {
			return zpl.Config{}, err
		}
		return zpl.Config{ConnectionType: zpl.ConnectionTCP, IPAddress: host, TCPPort: port, Timeout: timeout}, nil
	}

	dev := strings.TrimSpace(cfg.PrinterBluetoothAddress)
	switch {
	case dev == "":
		return zpl.Config{}, ErrNoPrinter
	case strings.HasPrefix(dev, "/") || strings.HasPrefix(strings.ToUpper(dev), "COM"):
		return zpl.Config{ConnectionType: zpl.ConnectionSerial, PortName: dev, Timeout: timeout}, nil
	default:
		return zpl.Config{}, fmt.Errorf("%w: %s", ErrUnboundBluetooth, dev)
	}
}

func splitHostPort(addr string) (string, int, error) {
	if !strings.Contains(addr, ":") {
		return addr, zpl.DefaultRawPort, nil
	}
	host, p, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %s", ErrInvalidPrinterURL, addr)
	}
	port, err := strconv.Atoi(p)
	if err != nil || port <= 0 || port > 65535 {
		return "", 0, fmt.Errorf("%w: %s", ErrInvalidPrinterURL, addr)
	}
	return host, port, nil
}

func describe(c zpl.Config) string {
	if c.ConnectionType == zpl.ConnectionTCP {
		return net.JoinHostPort(c.IPAddress, strconv.Itoa(c.TCPPort))
	}
	return c.PortName
}

func modelOf(cfg *models.ServerConfiguration) string {
	if cfg == nil {
		return ""
	}
	return cfg.PrinterModel
}

func normalizeModel(m string) string {
	return strings.ToUpper(strings.TrimSpace(m))
}

// SystemPorts возвращает отсортированный список последовательных портов системы,
// включая привязанные Bluetooth-устройства (rfcomm, COM)
func SystemPorts() ([]string, error) {
	list, err := serial.GetPortsList()
	if err != nil {
		return nil, err
	}
	sort.Strings(list)
	return list, nil
}
