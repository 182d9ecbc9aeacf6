package ports

// Logger абстрагирует журналирование от конкретной библиотеки.
// Сообщения форматируются в стиле fmt.Sprintf.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})

	// Fatal пишет сообщение и завершает процесс
	Fatal(msg string, args ...interface{})

	// Named возвращает логгер с именем компонента (ROUTER, PRINTER, ...)
	Named(component string) Logger

	// Sync сбрасывает буферы перед выходом
	Sync() error
}

// NopLogger ничего не пишет. Используется в тестах и там, где логгер не передан.
type NopLogger struct{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
func (NopLogger) Fatal(string, ...interface{}) {}
func (n NopLogger) Named(string) Logger        { return n }
func (NopLogger) Sync() error                  { return nil }
