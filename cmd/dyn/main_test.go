package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunCLIHelp(t *testing.T) {
	if err := runCLI([]string{"dyn", "help"}); err != nil {
		t.Fatalf("runCLI help failed: %v", err)
	}
}

func TestRunCLIInvalidCommand(t *testing.T) {
	err := runCLI([]string{"dyn", "unknown"})
	if err == nil {
		t.Fatalf("expected invalid command error")
	}
	if !strings.Contains(err.Error(), "invalid command") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunCLIWithoutCommand(t *testing.T) {
	err := runCLI([]string{"dyn"})
	if err == nil {
		t.Fatalf("expected invalid command error")
	}
	if !strings.Contains(err.Error(), "invalid command") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestInspectCommandJSON(t *testing.T) {
	path := writeDoc(t, "doc.json", `{"name": "demo", "tags": ["a", "b"], "count": 3}`)

	out, err := captureStdout(t, func() error {
		return inspectCommand([]string{path})
	})
	if err != nil {
		t.Fatalf("inspectCommand failed: %v", err)
	}
	for _, want := range []string{
		"object {3 keys}",
		`name: string "demo"`,
		"tags: array [2]",
		"count: int 3",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("inspect output missing %q:\n%s", want, out)
		}
	}
}

func TestInspectCommandYAMLCycle(t *testing.T) {
	path := writeDoc(t, "doc.yaml", "root: &r\n  self: *r\n")

	out, err := captureStdout(t, func() error {
		return inspectCommand([]string{path})
	})
	if err != nil {
		t.Fatalf("inspectCommand failed: %v", err)
	}
	if !strings.Contains(out, "object <cycle>") {
		t.Fatalf("cycle marker missing:\n%s", out)
	}
}

func TestInspectCommandRequiresPath(t *testing.T) {
	if err := inspectCommand(nil); err == nil {
		t.Fatalf("expected document path error")
	}
}

func TestConvertJSONToYAMLAndBack(t *testing.T) {
	path := writeDoc(t, "doc.json", `{"b":1,"a":[1,2.5,null]}`)

	asYAML, err := captureStdout(t, func() error {
		return convertCommand([]string{"-to", "yaml", path})
	})
	if err != nil {
		t.Fatalf("convert to yaml failed: %v", err)
	}
	if !strings.Contains(asYAML, "b: 1") {
		t.Fatalf("yaml output missing content:\n%s", asYAML)
	}

	yamlPath := writeDoc(t, "doc.yaml", asYAML)
	asJSON, err := captureStdout(t, func() error {
		return convertCommand([]string{"-to", "json", yamlPath})
	})
	if err != nil {
		t.Fatalf("convert to json failed: %v", err)
	}
	if got := strings.TrimSpace(asJSON); got != `{"b":1,"a":[1,2.5,null]}` {
		t.Fatalf("round trip drifted: %s", got)
	}
}

func TestConvertIndentedJSON(t *testing.T) {
	path := writeDoc(t, "doc.json", `{"a":1}`)
	out, err := captureStdout(t, func() error {
		return convertCommand([]string{"-to", "json", "-indent", path})
	})
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if !strings.Contains(out, "\n  \"a\": 1") {
		t.Fatalf("output not indented: %q", out)
	}
}

func TestConvertCyclicYAMLToJSONFails(t *testing.T) {
	path := writeDoc(t, "doc.yaml", "root: &r\n  self: *r\n")
	err := convertCommand([]string{"-to", "json", path})
	if err == nil || !strings.Contains(err.Error(), "cyclic") {
		t.Fatalf("cyclic document must not convert to JSON: %v", err)
	}
}

func TestConvertValidation(t *testing.T) {
	path := writeDoc(t, "doc.json", `{}`)
	if err := convertCommand([]string{path}); err == nil {
		t.Fatalf("missing -to accepted")
	}
	if err := convertCommand([]string{"-to", "xml", path}); err == nil {
		t.Fatalf("unknown target format accepted")
	}
	if err := convertCommand([]string{"-to", "json"}); err == nil {
		t.Fatalf("missing path accepted")
	}
	if err := convertCommand([]string{"-to", "json", filepath.Join(t.TempDir(), "absent.json")}); err == nil {
		t.Fatalf("missing file accepted")
	}
}

func TestLoadDocumentFormatOverride(t *testing.T) {
	// YAML content under a .json name decodes once the format is forced.
	path := writeDoc(t, "doc.json", "a: 1\nb: two\n")
	if _, err := loadDocument(path, ""); err == nil {
		t.Fatalf("yaml content must not parse as json")
	}
	v, err := loadDocument(path, "yaml")
	if err != nil {
		t.Fatalf("forced format failed: %v", err)
	}
	if !v.Object().HasOwn("a") || !v.Object().HasOwn("b") {
		t.Fatalf("decoded document wrong: %s", v)
	}
	if _, err := loadDocument(path, "toml"); err == nil {
		t.Fatalf("unknown format accepted")
	}
}

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write document: %v", err)
	}
	return path
}

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	runErr := fn()
	_ = w.Close()
	os.Stdout = orig

	var buf bytes.Buffer
	if _, copyErr := io.Copy(&buf, r); copyErr != nil {
		t.Fatalf("read stdout: %v", copyErr)
	}
	_ = r.Close()
	return buf.String(), runErr
}
