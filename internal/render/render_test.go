package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/KilimcininKorOglu/ember/internal/ber"
	"github.com/KilimcininKorOglu/ember/internal/dom"
	"github.com/KilimcininKorOglu/ember/internal/glow"
)

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

func TestTree(t *testing.T) {
	root := dom.NewSequence(ber.Application(0))
	must(t, root.Append(dom.NewLeafOf(ber.Context(0), int64(5))))
	set := dom.NewSet(ber.Context(1))
	must(t, set.Append(dom.NewLeafOf(ber.Context(0), "hi")))
	must(t, root.Append(set))

	var buf bytes.Buffer
	must(t, New(Options{}).Tree(&buf, root))

	want := "[APPLICATION 0] SEQUENCE (2)\n" +
		"  [0] INTEGER 5\n" +
		"  [1] SET (1)\n" +
		"    [0] UTF8String \"hi\"\n"
	if buf.String() != want {
		t.Errorf("Tree output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestTree_Truncates(t *testing.T) {
	leaf := dom.NewLeafOf(ber.Context(0), strings.Repeat("x", 40))

	var buf bytes.Buffer
	must(t, New(Options{MaxValueWidth: 10}).Tree(&buf, leaf))
	if got := strings.TrimSpace(buf.String()); got != `[0] UTF8String "xxxxxx...` {
		t.Errorf("truncated output = %q", got)
	}
}

func TestTypeName(t *testing.T) {
	tests := []struct {
		tag  ber.Tag
		want string
	}{
		{ber.IntegerTag, "INTEGER"},
		{ber.Universal(ber.TagEnumerated), "ENUMERATED"},
		{ber.OctetStringTag, "OCTET STRING"},
		{glow.TypeParameter.Tag(), "Parameter"},
		{ber.Application(99), "[APPLICATION 99]"},
		{ber.Universal(30), "[UNIVERSAL 30]"},
	}
	for _, tt := range tests {
		if got := TypeName(tt.tag); got != tt.want {
			t.Errorf("TypeName(%v) = %q, want %q", tt.tag, got, tt.want)
		}
	}
}

func buildGlow(t *testing.T) *glow.Root {
	t.Helper()
	root := glow.NewRoot()

	device := glow.NewNode(1)
	must(t, device.SetIdentifier("device"))
	must(t, device.SetDescription("Main"))
	must(t, device.SetIsRoot(true))
	must(t, root.Append(device))
	children, err := device.EnsureChildren()
	must(t, err)

	gain := glow.NewParameter(1)
	must(t, gain.SetIdentifier("gain"))
	must(t, gain.SetValue(ber.IntValue(3)))
	must(t, gain.SetFormula("$*2\n$/2"))
	must(t, children.Append(gain))

	mode := glow.NewParameter(2)
	must(t, mode.SetIdentifier("mode"))
	must(t, mode.SetValue(ber.IntValue(1)))
	must(t, mode.SetEnumeration("off\non"))
	must(t, mode.SetAccess(glow.AccessReadWrite))
	must(t, children.Append(mode))

	router := glow.NewMatrix(3)
	must(t, router.SetIdentifier("router"))
	must(t, router.SetTargetCount(2))
	must(t, router.SetSourceCount(3))
	must(t, router.AddConnection(glow.NewConnection(0, 1)))
	must(t, children.Append(router))

	add := glow.NewFunction(4)
	must(t, add.SetIdentifier("add"))
	must(t, add.AddArgument(glow.ParameterTypeInteger, "a"))
	must(t, add.AddArgument(glow.ParameterTypeInteger, "b"))
	must(t, add.AddResult(glow.ParameterTypeInteger, "sum"))
	must(t, children.Append(add))

	return root
}

func TestGlow(t *testing.T) {
	var buf bytes.Buffer
	must(t, New(Options{}).Message(&buf, buildGlow(t).Container()))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	want := []struct{ path, kind, ident, detail string }{
		{"1", "Node", "device", `"Main" root`},
		{"1.1", "Parameter", "gain", "= 3 -> 6 [integer read]"},
		{"1.2", "Parameter", "mode", `= 1 "on" [enum readWrite]`},
		{"1.3", "Matrix", "router", "oneToN 2x3, 1 connections"},
		{"1.4", "Function", "add", "(a:integer, b:integer) -> (sum:integer)"},
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	for i, w := range want {
		fields := strings.Fields(lines[i])
		if len(fields) < 3 || fields[0] != w.path || fields[1] != w.kind || fields[2] != w.ident {
			t.Errorf("line %d = %q", i, lines[i])
		}
		if !strings.HasSuffix(lines[i], w.detail) {
			t.Errorf("line %d = %q, want detail %q", i, lines[i], w.detail)
		}
		// path column is padded to the widest path
		if strings.Index(lines[i], w.kind) != len("1.1")+2 {
			t.Errorf("line %d is misaligned: %q", i, lines[i])
		}
	}
}

func TestGlow_ShowTags(t *testing.T) {
	var buf bytes.Buffer
	must(t, New(Options{ShowTags: true}).Message(&buf, buildGlow(t).Container()))
	first := strings.SplitN(buf.String(), "\n", 2)[0]
	if !strings.HasSuffix(first, "[0] [APPLICATION 3]") {
		t.Errorf("first line = %q", first)
	}
}

func TestGlow_StreamAndInvocationRoots(t *testing.T) {
	streamRoot := glow.NewStreamRoot()
	streams, _ := streamRoot.Streams()
	must(t, streams.Append(glow.NewStreamEntry(7, ber.IntValue(-2))))

	var buf bytes.Buffer
	must(t, New(Options{}).Glow(&buf, streamRoot))
	if buf.String() != "stream 7 = -2\n" {
		t.Errorf("stream output = %q", buf.String())
	}

	resultRoot := glow.NewInvocationResultRoot(9)
	res, _ := resultRoot.InvocationResult()
	must(t, res.SetSuccess(false))
	must(t, res.SetValues(ber.IntValue(1), ber.StringValue("x")))

	buf.Reset()
	must(t, New(Options{}).Glow(&buf, resultRoot))
	if buf.String() != "invocation 9 failed [1, \"x\"]\n" {
		t.Errorf("invocation output = %q", buf.String())
	}
}

func TestMessage_FallsBackToTree(t *testing.T) {
	leaf := dom.NewLeafOf(ber.Context(0), true)
	var buf bytes.Buffer
	must(t, New(Options{}).Message(&buf, leaf))
	if buf.String() != "[0] BOOLEAN true\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestColor(t *testing.T) {
	var plainBuf, colorBuf bytes.Buffer
	root := buildGlow(t)
	must(t, New(Options{}).Glow(&plainBuf, root))
	must(t, New(Options{Color: true}).Glow(&colorBuf, root))
	if strings.Contains(plainBuf.String(), "\x1b[") {
		t.Error("plain output contains escape sequences")
	}
	if !strings.Contains(colorBuf.String(), "device") {
		t.Error("colored output lost its text")
	}
}
