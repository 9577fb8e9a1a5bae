// Package output форматирует вывод клиента в терминал
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Printer печатает сообщения с цветовой разметкой или в JSON
type Printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
	jsonMode  bool
}

// NewPrinter создаёт принтер для stdout/stderr.
// Цвета отключаются через NO_COLOR и TERM=dumb.
func NewPrinter(jsonMode bool) *Printer {
	return NewPrinterWithWriters(os.Stdout, os.Stderr, ResolveColors(), jsonMode)
}

func NewPrinterWithWriters(out, errOut io.Writer, useColors, jsonMode bool) *Printer {
	return &Printer{
		out:       out,
		err:       errOut,
		useColors: useColors,
		jsonMode:  jsonMode,
	}
}

// ResolveColors определяет, можно ли использовать цвета
func ResolveColors() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return !color.NoColor
}

func (p *Printer) Out() io.Writer { return p.out }

func (p *Printer) JSON() bool { return p.jsonMode }

func (p *Printer) Info(format string, args ...any) {
	if p.jsonMode {
		return
	}
	p.colored(p.out, color.FgCyan, "", format, args...)
}

func (p *Printer) Success(format string, args ...any) {
	if p.jsonMode {
		return
	}
	if p.useColors {
		p.colored(p.out, color.FgGreen, "✓ ", format, args...)
		return
	}
	fmt.Fprintf(p.out, "[OK] "+format+"\n", args...)
}

// Warning печатает предупреждение в stderr, в том числе в JSON режиме
func (p *Printer) Warning(format string, args ...any) {
	if p.useColors {
		p.colored(p.err, color.FgYellow, "⚠ ", format, args...)
		return
	}
	fmt.Fprintf(p.err, "[WARN] "+format+"\n", args...)
}

func (p *Printer) Error(format string, args ...any) {
	if p.useColors {
		p.colored(p.err, color.FgRed, "✗ ", format, args...)
		return
	}
	fmt.Fprintf(p.err, "[ERROR] "+format+"\n", args...)
}

func (p *Printer) Print(format string, args ...any) {
	if p.jsonMode {
		return
	}
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Header печатает заголовок секции
func (p *Printer) Header(title string) {
	if p.jsonMode {
		return
	}
	if p.useColors {
		color.New(color.FgWhite, color.Bold).Fprintf(p.out, "\n%s\n", title)
		return
	}
	fmt.Fprintf(p.out, "\n%s\n", title)
}

// Emit выводит значение как JSON с отступами
func (p *Printer) Emit(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Mark возвращает отметку для булевого флага в таблице
func (p *Printer) Mark(on bool, symbol string) string {
	if !on {
		return ""
	}
	if p.useColors {
		return color.YellowString(symbol)
	}
	return symbol
}

// Status раскрашивает статус источника
func (p *Printer) Status(status string) string {
	if !p.useColors {
		return status
	}
	switch status {
	case "active":
		return color.GreenString(status)
	case "error":
		return color.RedString(status)
	case "pending":
		return color.YellowString(status)
	default:
		return status
	}
}

func (p *Printer) colored(w io.Writer, attr color.Attribute, prefix, format string, args ...any) {
	if p.useColors {
		color.New(attr).Fprintf(w, prefix+format+"\n", args...)
		return
	}
	fmt.Fprintf(w, prefix+format+"\n", args...)
}
