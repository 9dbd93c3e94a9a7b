package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runCLI runs the command line and returns the exit code and both streams.
func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func sampleHex(t *testing.T, extra ...string) string {
	t.Helper()
	code, out, errOut := runCLI(t, append([]string{"encode-sample", "--hex"}, extra...)...)
	if code != 0 {
		t.Fatalf("encode-sample failed: %s", errOut)
	}
	return strings.TrimSpace(out)
}

func assertListing(t *testing.T, out string) {
	t.Helper()
	for _, want := range []string{"device", "gain", "mode", `"on"`, "router", "(a:integer, b:integer) -> (sum:integer)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRun_Version(t *testing.T) {
	code, out, _ := runCLI(t, "version", "--short")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if out != version+"\n" {
		t.Errorf("output = %q", out)
	}

	code, out, _ = runCLI(t, "version")
	if code != 0 || !strings.HasPrefix(out, "emberdump version "+version) {
		t.Errorf("version output = %q (exit %d)", out, code)
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	code, _, errOut := runCLI(t, "frobnicate")
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(errOut, "unknown command") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestDecode(t *testing.T) {
	definite := sampleHex(t)
	indefinite := sampleHex(t, "--indefinite")
	if definite == indefinite {
		t.Fatal("indefinite encoding equals definite encoding")
	}

	tests := []struct {
		name string
		args []string
	}{
		{"definite", []string{"decode", "--no-color", "--hex", definite}},
		{"indefinite", []string{"decode", "--no-color", "--hex", indefinite}},
		{"stream", []string{"decode", "--no-color", "--stream", "--chunk", "3", "--hex", definite}},
		{"stream indefinite", []string{"decode", "--no-color", "--stream", "--chunk", "1", "--hex", indefinite}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, errOut := runCLI(t, tt.args...)
			if code != 0 {
				t.Fatalf("exit code = %d: %s", code, errOut)
			}
			assertListing(t, out)
		})
	}
}

func TestDecode_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.bin")
	if code, _, errOut := runCLI(t, "encode-sample", "-o", path); code != 0 {
		t.Fatalf("encode-sample failed: %s", errOut)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if hex.EncodeToString(data) != sampleHex(t) {
		t.Error("file contents differ from hex output")
	}

	code, out, errOut := runCLI(t, "decode", "--no-color", path)
	if code != 0 {
		t.Fatalf("exit code = %d: %s", code, errOut)
	}
	assertListing(t, out)
}

func TestDecode_Raw(t *testing.T) {
	code, out, errOut := runCLI(t, "decode", "--no-color", "--raw", "--hex", sampleHex(t))
	if code != 0 {
		t.Fatalf("exit code = %d: %s", code, errOut)
	}
	if !strings.HasPrefix(out, "[APPLICATION 0] RootElementCollection (1)\n") {
		t.Errorf("unexpected raw output:\n%s", out)
	}
	if !strings.Contains(out, `UTF8String "device"`) {
		t.Errorf("raw output missing identifier leaf:\n%s", out)
	}
}

func TestDecode_Errors(t *testing.T) {
	full := sampleHex(t)
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"bad hex", []string{"decode", "--hex", "zz"}, "invalid hex input"},
		{"missing hex", []string{"decode", "--hex"}, "--hex requires"},
		{"truncated", []string{"decode", "--hex", full[:len(full)-4]}, "decode failed at offset"},
		{"missing file", []string{"decode", filepath.Join(t.TempDir(), "absent.bin")}, "no such file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := runCLI(t, tt.args...)
			if code != 1 {
				t.Errorf("exit code = %d, want 1", code)
			}
			if !strings.Contains(errOut, tt.wantErr) {
				t.Errorf("stderr = %q, want %q", errOut, tt.wantErr)
			}
		})
	}
}

func TestDecode_StreamSkipsGarbage(t *testing.T) {
	full := sampleHex(t)
	// A context-tagged TLV claiming more bytes than its container holds.
	input := full + "a00102010" + "5" + full
	code, out, errOut := runCLI(t, "decode", "--no-color", "--stream", "--chunk", "4096", "--hex", input)
	if code != 0 {
		t.Fatalf("exit code = %d: %s", code, errOut)
	}
	if got := strings.Count(out, "device"); got != 1 {
		t.Errorf("got %d listings, want 1 (the rest of the chunk is dropped)", got)
	}
	if !strings.Contains(errOut, "resynchronizing") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestEval(t *testing.T) {
	code, out, errOut := runCLI(t, "eval", "$*2+1", "1", "2.5")
	if code != 0 {
		t.Fatalf("exit code = %d: %s", code, errOut)
	}
	if out != "1 -> 3\n2.5 -> 6\n" {
		t.Errorf("output = %q", out)
	}

	code, out, _ = runCLI(t, "eval", "--disasm", "max($,2)")
	if code != 0 || !strings.Contains(out, "input") || !strings.Contains(out, "max/2") {
		t.Errorf("disassembly = %q (exit %d)", out, code)
	}
}

func TestEval_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"syntax", []string{"eval", "$+", "1"}},
		{"value", []string{"eval", "$", "abc"}},
		{"domain", []string{"eval", "1/$", "0"}},
		{"no formula", []string{"eval"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code, _, _ := runCLI(t, tt.args...); code != 1 {
				t.Errorf("exit code = %d, want 1", code)
			}
		})
	}
}

// serveOnce accepts a single connection, writes data and closes it.
func serveOnce(t *testing.T, data []byte) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ln.Close() })
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		for len(data) > 0 {
			n := min(7, len(data))
			if _, err := conn.Write(data[:n]); err != nil {
				return
			}
			data = data[n:]
		}
	}()
	return ln.Addr().String()
}

func sampleBytes(t *testing.T) []byte {
	t.Helper()
	data, err := hex.DecodeString(sampleHex(t))
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestTap(t *testing.T) {
	addr := serveOnce(t, sampleBytes(t))
	code, out, errOut := runCLI(t, "tap", "--no-color", "--url", "tcp://"+addr)
	if code != 0 {
		t.Fatalf("exit code = %d: %s", code, errOut)
	}
	assertListing(t, out)
	if !strings.Contains(errOut, "source closed") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestTap_ConfigAndWatch(t *testing.T) {
	addr := serveOnce(t, sampleBytes(t))
	path := filepath.Join(t.TempDir(), "emberdump.yaml")
	cfg := "tap:\n  url: tcp://" + addr + "\nrender:\n  color: false\n  showTags: true\nlogging:\n  level: warn\n"
	if err := os.WriteFile(path, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	code, out, errOut := runCLI(t, "tap", "--config", path, "--watch")
	if code != 0 {
		t.Fatalf("exit code = %d: %s", code, errOut)
	}
	assertListing(t, out)
	if !strings.Contains(out, "[APPLICATION 3]") {
		t.Errorf("showTags from config not applied:\n%s", out)
	}
	if strings.Contains(errOut, "source closed") {
		t.Errorf("info log written at warn level: %q", errOut)
	}
}

func TestTap_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no source", []string{"tap"}, "no source"},
		{"watch without config", []string{"tap", "--watch", "--url", "tcp://127.0.0.1:1"}, "--watch requires --config"},
		{"bad scheme", []string{"tap", "--url", "http://127.0.0.1:1"}, "unsupported"},
		{"listener certificate", []string{"tap", "--listen", "127.0.0.1:0",
			"--tls-cert", "/nonexistent/server.pem", "--tls-key", "/nonexistent/server.key"}, "certificate file not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := runCLI(t, tt.args...)
			if code != 1 {
				t.Errorf("exit code = %d, want 1", code)
			}
			if !strings.Contains(errOut, tt.wantErr) {
				t.Errorf("stderr = %q, want %q", errOut, tt.wantErr)
			}
		})
	}
}
