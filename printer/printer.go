package printer

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/wippyai/ctf-runtime/errors"
	"github.com/wippyai/ctf-runtime/types"
)

type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// ParseColorMode accepts "auto", "always" and "never".
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	}
	return ColorAuto, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
		Value(s).
		Detail("unknown color mode %q", s).
		Build()
}

type Option func(*Printer)

func WithColor(mode ColorMode) Option {
	return func(p *Printer) { p.color = mode }
}

// WithFieldNames controls whether struct members and elements are printed
// with their names. Enabled by default.
func WithFieldNames(enabled bool) Option {
	return func(p *Printer) { p.fieldNames = enabled }
}

type Printer struct {
	w          io.Writer
	color      ColorMode
	fieldNames bool
	styles     styles
}

type styles struct {
	name   func(...string) string
	number func(...string) string
	text   func(...string) string
	label  func(...string) string
}

func New(w io.Writer, opts ...Option) *Printer {
	p := &Printer{w: w, fieldNames: true}
	for _, opt := range opts {
		opt(p)
	}
	p.styles = newStyles(w, p.color)
	return p
}

func plain(s ...string) string {
	return strings.Join(s, " ")
}

func newStyles(w io.Writer, mode ColorMode) styles {
	if !colorEnabled(w, mode) {
		return styles{name: plain, number: plain, text: plain, label: plain}
	}
	r := lipgloss.NewRenderer(w)
	if mode == ColorAlways {
		r.SetColorProfile(termenv.ANSI256)
	}
	return styles{
		name:   r.NewStyle().Foreground(lipgloss.Color("#87CEEB")).Render,
		number: r.NewStyle().Foreground(lipgloss.Color("#98FB98")).Render,
		text:   r.NewStyle().Foreground(lipgloss.Color("#FFD580")).Render,
		label:  r.NewStyle().Foreground(lipgloss.Color("#DDA0DD")).Bold(true).Render,
	}
}

func colorEnabled(w io.Writer, mode ColorMode) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Print writes "name = value" and a newline for def.
func (p *Printer) Print(def types.Definition) error {
	if def == nil {
		return errors.InvalidInput(errors.PhaseDecode, "print nil definition")
	}
	var b strings.Builder
	b.WriteString(p.styles.name(def.Name()))
	b.WriteString(" = ")
	p.value(&b, def)
	b.WriteByte('\n')
	_, err := io.WriteString(p.w, b.String())
	return err
}

// Format returns the rendered value of def without its name.
func (p *Printer) Format(def types.Definition) string {
	var b strings.Builder
	p.value(&b, def)
	return b.String()
}

func (p *Printer) value(b *strings.Builder, def types.Definition) {
	switch d := def.(type) {
	case *types.IntegerDefinition:
		b.WriteString(p.styles.number(formatInteger(d)))
	case *types.FloatDefinition:
		b.WriteString(p.styles.number(strconv.FormatFloat(d.Value(), 'g', -1, 64)))
	case *types.EnumDefinition:
		b.WriteString("( ")
		b.WriteString(p.styles.label(strconv.Quote(d.Label())))
		b.WriteString(" : container = ")
		b.WriteString(p.styles.number(formatInteger(d.Integer())))
		b.WriteString(" )")
	case *types.StringDefinition:
		b.WriteString(p.styles.text(strconv.Quote(d.Value())))
	case *types.StructDefinition:
		p.compound(b, "{", "}", d.Fields())
	case *types.ArrayDefinition:
		if d.IsString() {
			b.WriteString(p.styles.text(strconv.Quote(d.String())))
			return
		}
		p.compound(b, "[", "]", d.Elements())
	case *types.SequenceDefinition:
		if d.IsString() {
			b.WriteString(p.styles.text(strconv.Quote(d.String())))
			return
		}
		p.compound(b, "[", "]", d.Elements())
	case *types.VariantDefinition:
		selected, ok := d.Selected()
		if !ok {
			p.compound(b, "{", "}", nil)
			return
		}
		p.compound(b, "{", "}", []types.Definition{selected})
	default:
		b.WriteString("<?>")
	}
}

func (p *Printer) compound(b *strings.Builder, open, close string, members []types.Definition) {
	b.WriteString(open)
	for i, m := range members {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte(' ')
		if p.fieldNames {
			b.WriteString(p.styles.name(m.Name()))
			b.WriteString(" = ")
		}
		p.value(b, m)
	}
	b.WriteByte(' ')
	b.WriteString(close)
}

func formatInteger(d *types.IntegerDefinition) string {
	decl := d.IntegerDeclaration()
	switch decl.Base() {
	case 16:
		return "0x" + strconv.FormatUint(d.Unsigned(), 16)
	case 8:
		if d.Unsigned() == 0 {
			return "0"
		}
		return "0" + strconv.FormatUint(d.Unsigned(), 8)
	case 2:
		return "0b" + strconv.FormatUint(d.Unsigned(), 2)
	}
	if decl.Signed() {
		return strconv.FormatInt(d.Signed(), 10)
	}
	return strconv.FormatUint(d.Unsigned(), 10)
}
