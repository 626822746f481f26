package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunEvalArithmetic(t *testing.T) {
	f := commonFlags{}
	c, err := f.buildCompiler()
	if err != nil {
		t.Fatalf("buildCompiler: %v", err)
	}
	out, err := compileAndRun(c, "(2 + 3) * 4", nil)
	if err != nil {
		t.Fatalf("compileAndRun: %v", err)
	}
	if out != "20" {
		t.Fatalf("got %q, want 20", out)
	}
}

func TestRunEvalWithJSONHostData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	if err := os.WriteFile(path, []byte(`{"name":"Ada"}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f := commonFlags{jsonPath: path}
	c, err := f.buildCompiler()
	if err != nil {
		t.Fatalf("buildCompiler: %v", err)
	}
	data, err := f.hostData()
	if err != nil {
		t.Fatalf("hostData: %v", err)
	}
	out, err := compileAndRun(c, `Json("name")`, data)
	if err != nil {
		t.Fatalf("compileAndRun: %v", err)
	}
	if out != "Ada" {
		t.Fatalf("got %q, want Ada", out)
	}
}

func TestRunEvalWithEnvDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "env.yaml")
	doc := "named:\n  total: \"10 + 5\"\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f := commonFlags{envPath: path}
	c, err := f.buildCompiler()
	if err != nil {
		t.Fatalf("buildCompiler: %v", err)
	}
	out, err := compileAndRun(c, `*"total" + 1`, nil)
	if err != nil {
		t.Fatalf("compileAndRun: %v", err)
	}
	if out != "16" {
		t.Fatalf("got %q, want 16", out)
	}
}

func TestNormFlagsValueRejectsUnknownName(t *testing.T) {
	var v normFlagsValue
	if err := v.Set("bogus"); err == nil {
		t.Fatal("expected an error for an unknown flag name")
	}
}

func TestNormFlagsValueAccumulatesKnownNames(t *testing.T) {
	var v normFlagsValue
	if err := v.Set("fold-unary-literals,always-parenthesize"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v.flags == 0 {
		t.Fatal("expected non-zero accumulated flags")
	}
}
