package main

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

const ordersCatalog = "testdata/orders.yaml"

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func readFile(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(b)
}

func TestRootCmdHasSubcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"parse", "format", "check", "codes", "serve"} {
		if _, _, err := root.Find([]string{name}); err != nil {
			t.Fatalf("find %s subcommand: %v", name, err)
		}
	}
}

func TestParseThenFormatRoundTrips(t *testing.T) {
	js, err := run(t, "", "parse", "-c", ordersCatalog, "testdata/orders.edi")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !strings.HasPrefix(js, `{"type":"ORDERS","body":{"UNH":{"ref":"1"`) {
		t.Fatalf("unexpected json %q", js)
	}

	edi, err := run(t, js, "format", "-c", ordersCatalog)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if want := readFile(t, "testdata/orders.edi") + "\n"; edi != want {
		t.Fatalf("got\n%s\nwant\n%s", edi, want)
	}
}

func TestParsePretty(t *testing.T) {
	js, err := run(t, "", "parse", "-c", ordersCatalog, "--pretty", "testdata/orders.edi")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !strings.Contains(js, "\n  \"body\": {") {
		t.Fatalf("expected indented json, got %q", js)
	}
}

func TestFormatOptions(t *testing.T) {
	js, err := run(t, "", "parse", "-c", ordersCatalog, "testdata/orders.edi")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	edi, err := run(t, js, "format", "-c", ordersCatalog, "--line-break=", "--delimiters", "*|!", "--una")
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if !strings.HasPrefix(edi, "UNA*|.? !UNH|1|ORDERS*D*96A*UN!BGM|220|PO-1!") {
		t.Fatalf("unexpected output %q", edi)
	}

	if _, err := run(t, `{"body":{}}`, "format", "-c", ordersCatalog); err == nil {
		t.Fatalf("expected error for untyped document")
	}
	if _, err := run(t, "", "format", "-c", ordersCatalog, "--delimiters", "ab"); err == nil {
		t.Fatalf("expected error for short delimiter triad")
	}
}

func TestCheckReportsIssues(t *testing.T) {
	out, err := run(t, "", "check", "-c", ordersCatalog, "testdata/orders.edi", "testdata/broken.edi")
	if err == nil || !strings.Contains(err.Error(), "1 of 2 documents failed") {
		t.Fatalf("expected failure summary, got %v", err)
	}
	if !strings.Contains(out, "ok testdata/orders.edi ORDERS") {
		t.Fatalf("missing ok line in %q", out)
	}
	if !strings.Contains(out, "FAIL testdata/broken.edi") || !strings.Contains(out, "segment 4 /SG28/0/QTY") {
		t.Fatalf("missing issue in %q", out)
	}
}

func TestCheckRunsCatalogueRules(t *testing.T) {
	out, err := run(t, "", "check", "-c", ordersCatalog, "testdata/duplicate.edi")
	if err == nil {
		t.Fatalf("expected failure")
	}
	if !strings.Contains(out, "FAIL testdata/duplicate.edi") || !strings.Contains(out, "/SG28/1/LIN/line: duplicate value") {
		t.Fatalf("missing rule issue in %q", out)
	}
}

func TestCheckStdin(t *testing.T) {
	out, err := run(t, readFile(t, "testdata/orders.edi"), "check", "-c", ordersCatalog)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.HasPrefix(out, "ok - ORDERS") {
		t.Fatalf("got %q", out)
	}
}

func TestCodes(t *testing.T) {
	out, err := run(t, "", "codes", "-c", ordersCatalog)
	if err != nil {
		t.Fatalf("codes: %v", err)
	}
	if !strings.Contains(out, "3035") || !strings.Contains(out, "1001") {
		t.Fatalf("got %q", out)
	}
	out, err = run(t, "", "codes", "-c", ordersCatalog, "3035")
	if err != nil {
		t.Fatalf("codes 3035: %v", err)
	}
	if !strings.Contains(out, "BY  Buyer") {
		t.Fatalf("got %q", out)
	}
	if _, err := run(t, "", "codes", "-c", ordersCatalog, "9999"); err == nil {
		t.Fatalf("expected unknown table error")
	}
}

func TestCatalogFromEnvironment(t *testing.T) {
	t.Setenv(envCatalog, ordersCatalog)
	if _, err := run(t, "", "check", "testdata/orders.edi"); err != nil {
		t.Fatalf("check: %v", err)
	}
	t.Setenv(envCatalog, "")
	if _, err := run(t, "", "check", "testdata/orders.edi"); err == nil {
		t.Fatalf("expected missing catalogue error")
	}
}
