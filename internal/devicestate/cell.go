// Package devicestate хранит разделяемое состояние устройства в памяти процесса:
// ID платежного терминала и состояние кассового места. Каждое значение представлено как
// наблюдаемая ячейка: подписчик сразу получает текущее значение, а затем все
// последующие изменения.
package devicestate

import (
	"context"
	"sync"
)

// Cell - наблюдаемая ячейка со значением типа T.
// Чтение конкурентное, запись сериализована, побеждает последняя запись.
type Cell[T comparable] struct {
	mu    sync.RWMutex
	value T
	subs  map[chan T]struct{}
}

// NewCell создает ячейку с начальным значением
func NewCell[T comparable](initial T) *Cell[T] {
	return &Cell[T]{value: initial, subs: make(map[chan T]struct{})}
}

// Get возвращает текущее значение
func (c *Cell[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Set устанавливает значение и уведомляет подписчиков.
// Установка равного значения уведомлений не порождает; возвращает, было ли изменение.
func (c *Cell[T]) Set(v T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.value == v {
		return false
	}
	c.value = v
	for ch := range c.subs {
		offer(ch, v)
	}
	return true
}

// Subscribe возвращает канал, в котором сразу лежит текущее значение, а затем
// появляются изменения. Медленный подписчик видит только последнее значение.
// Канал закрывается при отмене ctx.
func (c *Cell[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, 1)

	c.mu.Lock()
	ch <- c.value
	c.subs[ch] = struct{}{}
	c.mu.Unlock()

	go func() {
		<-ctx.Done()
		c.mu.Lock()
		delete(c.subs, ch)
		close(ch)
		c.mu.Unlock()
	}()

	return ch
}

// offer кладет значение в буфер, вытесняя непрочитанное. Вызывается под c.mu.
func offer[T any](ch chan T, v T) {
	select {
	case <-ch:
	default:
	}
	ch <- v
}
