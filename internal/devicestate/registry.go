package devicestate

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"poslink/internal/domain/models"
)

// Registry объединяет ячейки состояния устройства. Создается один раз на
// процесс и передается явно туда, где нужен.
type Registry struct {
	TerminalID *TerminalIDCell
	Station    *StationCell
}

// NewRegistry создает реестр: ID терминала пуст, касса закрыта
func NewRegistry() *Registry {
	return &Registry{
		TerminalID: &TerminalIDCell{Cell: NewCell("")},
		Station:    &StationCell{Cell: NewCell(models.StationClosed)},
	}
}

// TerminalIDCell хранит ID платежного терминала
type TerminalIDCell struct {
	*Cell[string]
}

// HasTerminalID сообщает, задан ли непустой ID
func (c *TerminalIDCell) HasTerminalID() bool {
	return strings.TrimSpace(c.Get()) != ""
}

// StationCell хранит состояние кассового места
type StationCell struct {
	*Cell[models.StationState]
}

// IsOpen сообщает, открыта ли касса
func (c *StationCell) IsOpen() bool {
	return c.Get() == models.StationOpen
}

const (
	keyOpen   = "station.open"
	keyClosed = "station.closed"
)

var (
	supportedLanguages = []language.Tag{language.Spanish, language.English}
	languageMatcher    = language.NewMatcher(supportedLanguages)
	labels             = newLabelCatalog()
)

func newLabelCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.Spanish))
	b.SetString(language.Spanish, keyOpen, "Abierta")
	b.SetString(language.Spanish, keyClosed, "Cerrada")
	b.SetString(language.English, keyOpen, "Open")
	b.SetString(language.English, keyClosed, "Closed")
	return b
}

// Label возвращает подпись состояния на языке tag.
// Неподдерживаемые языки получают испанскую подпись.
func Label(state models.StationState, tag language.Tag) string {
	_, idx, _ := languageMatcher.Match(tag)
	p := message.NewPrinter(supportedLanguages[idx], message.Catalog(labels))

	key := keyClosed
	if state == models.StationOpen {
		key = keyOpen
	}
	return p.Sprintf(key)
}

// Label возвращает подпись текущего состояния
func (c *StationCell) Label(tag language.Tag) string {
	return Label(c.Get(), tag)
}
