package render

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/KilimcininKorOglu/ember/internal/ber"
	"github.com/KilimcininKorOglu/ember/internal/glow"
)

type row struct {
	path, kind, ident, detail, tags string
}

// Glow writes one line per element of r with its resolved path. Stream and
// invocation result roots are listed entry by entry.
func (p *Printer) Glow(w io.Writer, r *glow.Root) error {
	bw := bufio.NewWriter(w)

	switch r.Kind() {
	case glow.TypeStreamCollection:
		if streams, ok := r.Streams(); ok {
			for e := range streams.All() {
				fmt.Fprintf(bw, "%s %s = %s\n",
					p.st.muted("stream"),
					p.st.path(strconv.FormatInt(int64(e.ID()), 10)),
					p.st.value(p.truncate(e.Value().String())))
			}
		}
		return bw.Flush()

	case glow.TypeInvocationResult:
		if res, ok := r.InvocationResult(); ok {
			status := p.st.kind("success")
			if !res.Success() {
				status = p.st.bad("failed")
			}
			fmt.Fprintf(bw, "%s %s %s %s\n",
				p.st.muted("invocation"),
				p.st.path(strconv.FormatInt(int64(res.ID()), 10)),
				status,
				p.st.value(p.truncate(joinValues(res.Values()))))
		}
		return bw.Flush()
	}

	var rows []row
	var widths [3]int
	for path, e := range r.Walk() {
		rw := row{
			path:   path.String(),
			kind:   e.Type().String(),
			ident:  e.Identifier(),
			detail: p.detail(e),
		}
		if p.opts.ShowTags {
			c := e.Container()
			rw.tags = c.Tag().String() + " " + c.TypeTag().String()
		}
		widths[0] = max(widths[0], len(rw.path))
		widths[1] = max(widths[1], len(rw.kind))
		widths[2] = max(widths[2], len([]rune(rw.ident)))
		rows = append(rows, rw)
	}

	for _, rw := range rows {
		bw.WriteString(p.st.path(pad(rw.path, widths[0])))
		bw.WriteString("  ")
		bw.WriteString(p.st.kind(pad(rw.kind, widths[1])))
		bw.WriteString("  ")
		line := p.st.ident(pad(rw.ident, widths[2]))
		if rw.detail != "" {
			line += "  " + p.st.value(rw.detail)
		}
		if rw.tags != "" {
			line += "  " + p.st.muted(rw.tags)
		}
		bw.WriteString(strings.TrimRight(line, " "))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func (p *Printer) detail(e glow.Element) string {
	if param, ok := e.AsParameter(); ok {
		return p.parameterDetail(param)
	}
	if m, ok := e.AsMatrix(); ok {
		return fmt.Sprintf("%s %dx%d, %d connections",
			m.MatrixType(), m.TargetCount(), m.SourceCount(), len(m.Connections()))
	}
	if f, ok := e.AsFunction(); ok {
		return "(" + tupleSignature(f.Arguments()) + ") -> (" + tupleSignature(f.Result()) + ")"
	}
	if n, ok := e.AsNode(); ok {
		var parts []string
		if d := n.Description(); d != "" {
			parts = append(parts, strconv.Quote(d))
		}
		if n.IsRoot() {
			parts = append(parts, "root")
		}
		if !n.IsOnline() {
			parts = append(parts, "offline")
		}
		return strings.Join(parts, " ")
	}
	if t, ok := e.AsTemplate(); ok {
		if d := t.Description(); d != "" {
			return strconv.Quote(d)
		}
	}
	return ""
}

func (p *Printer) parameterDetail(param *glow.Parameter) string {
	var sb strings.Builder
	if v, ok := param.Value(); ok {
		sb.WriteString("= ")
		sb.WriteString(p.truncate(v.String()))
		if label, ok := enumLabel(param, v); ok {
			sb.WriteString(" " + strconv.Quote(label))
		}
		if shown, ok := displayValue(param, v); ok {
			sb.WriteString(" -> " + strconv.FormatFloat(shown, 'g', -1, 64))
		}
		sb.WriteByte(' ')
	}
	fmt.Fprintf(&sb, "[%s %s]", param.EffectiveType(), param.Access())
	if !param.IsOnline() {
		sb.WriteString(" offline")
	}
	return sb.String()
}

// enumLabel resolves an enum value through the enum map, falling back to
// the newline separated enumeration.
func enumLabel(param *glow.Parameter, v ber.Value) (string, bool) {
	if param.EffectiveType() != glow.ParameterTypeEnum {
		return "", false
	}
	var n int64
	switch v.Kind() {
	case ber.KindInteger:
		n = v.Int()
	case ber.KindUnsigned:
		n = int64(v.Uint())
	default:
		return "", false
	}
	if m, ok := param.EnumMap(); ok {
		if name, ok := m.Lookup(int32(n)); ok {
			return name, true
		}
	}
	names := strings.Split(param.Enumeration(), "\n")
	if param.Enumeration() == "" || n < 0 || n >= int64(len(names)) {
		return "", false
	}
	return names[n], true
}

// displayValue applies the provider-to-consumer formula to a numeric
// value. A parameter without a formula, or one that fails, yields false.
func displayValue(param *glow.Parameter, v ber.Value) (float64, bool) {
	if param.Formula() == "" {
		return 0, false
	}
	var x float64
	switch v.Kind() {
	case ber.KindInteger:
		x = float64(v.Int())
	case ber.KindUnsigned:
		x = float64(v.Uint())
	case ber.KindReal:
		x = v.Real()
	default:
		return 0, false
	}
	pair, err := param.CompileFormula()
	if err != nil || pair.ProviderToConsumer == nil {
		return 0, false
	}
	y, err := pair.ToConsumer(x)
	if err != nil {
		return 0, false
	}
	return y, true
}

func tupleSignature(items []*glow.TupleItemDescription) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = it.Name() + ":" + it.Type().String()
	}
	return strings.Join(parts, ", ")
}

func joinValues(values []ber.Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
