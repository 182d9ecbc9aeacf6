package monitor

import (
	"context"
	"sync"
	"time"

	"poslink/internal/devicestate"
	"poslink/internal/domain/ports"
)

// Pinger проверяет доступность сервера POS
type Pinger interface {
	Ping(ctx context.Context) error
}

// Status - последнее известное состояние связи с сервером
type Status struct {
	Reachable  bool
	LastError  string
	LastUpdate time.Time
}

// Config содержит конфигурацию опроса
type Config struct {
	PollInterval time.Duration // Интервал опроса
	PingTimeout  time.Duration
}

// Service периодически опрашивает сервер. Изменения доступности публикуются
// через наблюдаемую ячейку Reachable.
type Service struct {
	ping   Pinger
	config Config
	log    ports.Logger

	reachable *devicestate.Cell[bool]

	mutex    sync.Mutex
	status   Status
	cancel   context.CancelFunc
	done     chan struct{}
	isPaused bool
}

// NewService создает сервис мониторинга
func NewService(p Pinger, cfg Config, log ports.Logger) *Service {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 30 * time.Second
	}
	if cfg.PingTimeout <= 0 {
		cfg.PingTimeout = 5 * time.Second
	}
	if log == nil {
		log = ports.NopLogger{}
	}
	return &Service{
		ping:      p,
		config:    cfg,
		log:       log,
		reachable: devicestate.NewCell(false),
	}
}

// Config возвращает действующие настройки опроса
func (s *Service) Config() Config { return s.config }

// Start запускает опрос. Повторный вызов перезапускает его.
func (s *Service) Start(parent context.Context) {
	s.Stop()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.monitorRoutine(ctx, s.done)
	s.log.Info("[MONITOR] мониторинг сервера запущен, интервал %s", s.config.PollInterval)
}

// Stop останавливает опрос и дожидается завершения горутины
func (s *Service) Stop() {
	s.mutex.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mutex.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	s.log.Info("[MONITOR] мониторинг сервера остановлен")
}

// Pause приостанавливает опрос
func (s *Service) Pause() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.isPaused = true
}

// Resume возобновляет опрос
func (s *Service) Resume() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.isPaused = false
}

// Subscribe возвращает канал изменений доступности сервера
func (s *Service) Subscribe(ctx context.Context) <-chan bool {
	return s.reachable.Subscribe(ctx)
}

// CurrentStatus возвращает копию текущего состояния
func (s *Service) CurrentStatus() Status {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.status
}

func (s *Service) monitorRoutine(ctx context.Context, done chan struct{}) {
	defer close(done)

	s.check(ctx)

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mutex.Lock()
			paused := s.isPaused
			s.mutex.Unlock()
			if paused {
				continue
			}
			s.check(ctx)
		}
	}
}

func (s *Service) check(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, s.config.PingTimeout)
	err := s.ping.Ping(pingCtx)
	cancel()

	if ctx.Err() != nil {
		return
	}

	s.mutex.Lock()
	s.status.Reachable = err == nil
	s.status.LastError = ""
	if err != nil {
		s.status.LastError = err.Error()
	}
	s.status.LastUpdate = time.Now()
	s.mutex.Unlock()

	if s.reachable.Set(err == nil) {
		if err != nil {
			s.log.Warn("[MONITOR] сервер недоступен: %v", err)
		} else {
			s.log.Info("[MONITOR] связь с сервером восстановлена")
		}
	}
}
