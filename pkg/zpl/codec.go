package zpl

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Команды ZPL
const (
	cmdStartFormat = "^XA"
	cmdEndFormat   = "^XZ"
	cmdUTF8        = "^CI28"
	cmdFieldEnd    = "^FS"
)

// Layout описывает геометрию печати конкретной модели принтера (в точках).
type Layout struct {
	Model      string
	PrintWidth int // ^PW
	BaseOffset int // Постоянная часть длины этикетки
	LineHeight int // Шаг по вертикали на одну строку
	LeftMargin int // Координата X каждой строки
	TopMargin  int // Координата Y первой строки
	FontHeight int // ^CF0,h
}

// LayoutZQ520 - эталонный принтер: 3" носитель, 203 dpi.
var LayoutZQ520 = Layout{
	Model:      "ZQ520",
	PrintWidth: 576,
	BaseOffset: 80,
	LineHeight: 28,
	LeftMargin: 10,
	TopMargin:  40,
	FontHeight: 24,
}

// Codec кодирует текст чека в ZPL для заданной раскладки.
type Codec struct {
	layout Layout
}

// NewCodec создает кодек для раскладки
func NewCodec(layout Layout) *Codec {
	return &Codec{layout: layout}
}

// Model возвращает модель принтера, для которой настроен кодек
func (c *Codec) Model() string {
	return c.layout.Model
}

// EncodeReceipt кодирует текст чека. Пустые строки отбрасываются и не сдвигают курсор.
func (c *Codec) EncodeReceipt(text string) []byte {
	lines := printableLines(text)
	l := c.layout

	var buf bytes.Buffer
	buf.WriteString(cmdStartFormat)
	buf.WriteString(cmdUTF8)
	fmt.Fprintf(&buf, "^PW%d", l.PrintWidth)
	fmt.Fprintf(&buf, "^LL%d", l.BaseOffset+len(lines)*l.LineHeight)
	fmt.Fprintf(&buf, "^CF0,%d", l.FontHeight)

	y := l.TopMargin
	for _, line := range lines {
		fmt.Fprintf(&buf, "^FO%d,%d", l.LeftMargin, y)
		writeField(&buf, line)
		y += l.LineHeight
	}

	buf.WriteString(cmdEndFormat)
	return buf.Bytes()
}

// EncodeTestReceipt кодирует тестовый чек тем же путем, что и обычный.
func (c *Codec) EncodeTestReceipt(text string) []byte {
	return c.EncodeReceipt(text)
}

// printableLines делит текст на строки и отбрасывает пустые
func printableLines(text string) []string {
	text = norm.NFC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// writeField пишет ^FD...^FS. Строки с управляющими символами ZPL
// передаются через ^FH в виде шестнадцатеричных escape-последовательностей.
func writeField(buf *bytes.Buffer, line string) {
	if !strings.ContainsAny(line, "^~_") {
		buf.WriteString("^FD")
		buf.WriteString(line)
		buf.WriteString(cmdFieldEnd)
		return
	}

	buf.WriteString("^FH_^FD")
	for _, r := range line {
		switch r {
		case '^', '~', '_':
			fmt.Fprintf(buf, "_%02X", r)
		default:
			buf.WriteRune(r)
		}
	}
	buf.WriteString(cmdFieldEnd)
}
