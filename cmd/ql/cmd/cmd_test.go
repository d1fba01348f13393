package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSource(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.ql")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	runErr := fn()

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String(), runErr
}

func TestRunBuildReportsSuccess(t *testing.T) {
	path := writeSource(t, "func f(a: Int) -> Int { return a + 1; }")

	out, err := captureStdout(t, func() error {
		return runBuild(buildCmd, []string{path})
	})
	if err != nil {
		t.Fatalf("runBuild: %v\noutput: %s", err, out)
	}
	if !strings.Contains(out, "compiled successfully") {
		t.Fatalf("expected success message, got: %s", out)
	}
	if !strings.Contains(out, "1 function(s)") {
		t.Fatalf("expected function count in output, got: %s", out)
	}
}

func TestRunBuildReportsDiagnostics(t *testing.T) {
	path := writeSource(t, "func f() -> Int { return x; }")

	if err := runBuild(buildCmd, []string{path}); err == nil {
		t.Fatalf("expected runBuild to fail for an unbound identifier")
	}
}

func TestRunASTPrintsTextOutline(t *testing.T) {
	path := writeSource(t, "let x = 1;")

	out, err := captureStdout(t, func() error {
		return runAST(astCmd, []string{path})
	})
	if err != nil {
		t.Fatalf("runAST: %v\noutput: %s", err, out)
	}
	if !strings.Contains(out, "Definition") {
		t.Fatalf("expected a Definition node in the text outline, got: %s", out)
	}
}

func TestRunASTPrintsJSON(t *testing.T) {
	path := writeSource(t, "let x = 1;")

	astJSON = true
	defer func() { astJSON = false }()

	out, err := captureStdout(t, func() error {
		return runAST(astCmd, []string{path})
	})
	if err != nil {
		t.Fatalf("runAST: %v\noutput: %s", err, out)
	}
	if !strings.Contains(out, `"name"`) {
		t.Fatalf("expected JSON output, got: %s", out)
	}
}

func TestRunASTSymbolsListsSymbolTable(t *testing.T) {
	path := writeSource(t, "func f(a: Int) -> Int { return a; }")

	astSymbols = true
	defer func() { astSymbols = false }()

	out, err := captureStdout(t, func() error {
		return runAST(astCmd, []string{path})
	})
	if err != nil {
		t.Fatalf("runAST: %v\noutput: %s", err, out)
	}
	if !strings.Contains(out, "f: ") {
		t.Fatalf("expected symbol table entry for 'f', got: %s", out)
	}
}

func TestRunFIRPrintsModule(t *testing.T) {
	path := writeSource(t, "func f() -> Int { return 1 + 2; }")

	out, err := captureStdout(t, func() error {
		return runFIR(firCmd, []string{path})
	})
	if err != nil {
		t.Fatalf("runFIR: %v\noutput: %s", err, out)
	}
	if !strings.Contains(out, "func f(") {
		t.Fatalf("expected the FIR module dump to contain the function signature, got: %s", out)
	}
}

func TestRunFIRFailsOnDiagnostics(t *testing.T) {
	path := writeSource(t, "func f() -> Int { return x; }")

	if err := runFIR(firCmd, []string{path}); err == nil {
		t.Fatalf("expected runFIR to fail for an unbound identifier")
	}
}

func TestReadSourceMissingFile(t *testing.T) {
	if _, _, err := readSource([]string{filepath.Join(t.TempDir(), "missing.ql")}); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
