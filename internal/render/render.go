// Package render prints decoded trees for people.
package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/KilimcininKorOglu/ember/internal/ber"
	"github.com/KilimcininKorOglu/ember/internal/dom"
	"github.com/KilimcininKorOglu/ember/internal/glow"
)

// Options controls the output.
type Options struct {
	// Color enables ANSI styling.
	Color bool
	// MaxValueWidth truncates rendered values longer than this many
	// characters. Zero disables truncation.
	MaxValueWidth int
	// ShowTags adds the raw application and type tags to schema listings.
	ShowTags bool
}

var (
	pathColor  = lipgloss.Color("#3b82f6")
	typeColor  = lipgloss.Color("#10b981")
	identColor = lipgloss.Color("#f59e0b")
	mutedColor = lipgloss.Color("#94a3b8")
	errorColor = lipgloss.Color("#ef4444")
)

type styles struct {
	path, kind, ident, value, muted, bad func(string) string
}

func plain(s string) string { return s }

func render(st lipgloss.Style) func(string) string {
	return func(s string) string { return st.Render(s) }
}

func newStyles(color bool) styles {
	if !color {
		return styles{plain, plain, plain, plain, plain, plain}
	}
	return styles{
		path:  render(lipgloss.NewStyle().Foreground(pathColor).Bold(true)),
		kind:  render(lipgloss.NewStyle().Foreground(typeColor)),
		ident: render(lipgloss.NewStyle().Foreground(identColor)),
		value: render(lipgloss.NewStyle()),
		muted: render(lipgloss.NewStyle().Foreground(mutedColor)),
		bad:   render(lipgloss.NewStyle().Foreground(errorColor).Bold(true)),
	}
}

// Printer renders trees. It is safe for concurrent use.
type Printer struct {
	opts Options
	st   styles
}

// New creates a printer.
func New(opts Options) *Printer {
	return &Printer{opts: opts, st: newStyles(opts.Color)}
}

// Message renders n as a Glow listing when it is a Glow root and as a raw
// tree otherwise.
func (p *Printer) Message(w io.Writer, n dom.Node) error {
	if root, err := glow.RootOf(n); err == nil {
		return p.Glow(w, root)
	}
	return p.Tree(w, n)
}

// Tree writes one line per node, indented by depth.
func (p *Printer) Tree(w io.Writer, n dom.Node) error {
	bw := bufio.NewWriter(w)
	for depth, node := range dom.Walk(n) {
		bw.WriteString(strings.Repeat("  ", depth))
		bw.WriteString(p.st.path(node.Tag().String()))
		bw.WriteByte(' ')
		bw.WriteString(p.st.kind(TypeName(node.TypeTag())))
		switch node := node.(type) {
		case *dom.Container:
			bw.WriteString(p.st.muted(fmt.Sprintf(" (%d)", node.Len())))
		case *dom.Leaf:
			bw.WriteByte(' ')
			bw.WriteString(p.st.value(p.truncate(node.Value().String())))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// TypeName names a type tag: universal types by their ASN.1 name, Glow
// types by their schema name and anything else in tag notation.
func TypeName(t ber.Tag) string {
	if t.IsUniversal() {
		switch t.Number {
		case ber.TagBoolean:
			return "BOOLEAN"
		case ber.TagInteger:
			return "INTEGER"
		case ber.TagOctetString:
			return "OCTET STRING"
		case ber.TagNull:
			return "NULL"
		case ber.TagEnumerated:
			return "ENUMERATED"
		case ber.TagReal:
			return "REAL"
		case ber.TagUTF8String:
			return "UTF8String"
		case ber.TagRelativeOID:
			return "RELATIVE-OID"
		case ber.TagSequence:
			return "SEQUENCE"
		case ber.TagSet:
			return "SET"
		}
	}
	if t.Class == ber.ClassApplication {
		if gt := glow.Type(t.Number); gt.Known() {
			return gt.String()
		}
	}
	return t.String()
}

func (p *Printer) truncate(s string) string {
	limit := p.opts.MaxValueWidth
	if limit <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit <= 3 {
		return string(r[:limit])
	}
	return string(r[:limit-3]) + "..."
}

// pad right-pads s with spaces to width characters.
func pad(s string, width int) string {
	if n := len([]rune(s)); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
