//go:build !integration

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dbPath string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	body := "database:\n  driver: sqlite\n  path: " + dbPath + "\nadmin:\n  jwt_secret: s3cret\n"
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestWorkshopctl_InitAddList(t *testing.T) {
	t.Setenv("WORKSHOP_DB", "")
	t.Setenv("ADMIN_JWT_SECRET", "")
	cfg := writeConfig(t, filepath.Join(t.TempDir(), "workshop.db"))

	var out bytes.Buffer
	if err := run([]string{"-config", cfg, "init-db"}, &out); err != nil {
		t.Fatalf("init-db: %v", err)
	}
	if !strings.Contains(out.String(), "Initialized the database.") {
		t.Fatalf("init-db output = %q", out.String())
	}

	out.Reset()
	if err := run([]string{"-config", cfg, "add-job", "-specs", "3HP monoblock pump", "-customer", "Ravi", "-price", "1200.5"}, &out); err != nil {
		t.Fatalf("add-job: %v", err)
	}
	if !strings.Contains(out.String(), "job 1 created (Pending)") {
		t.Fatalf("add-job output = %q", out.String())
	}

	if err := run([]string{"-config", cfg, "add-job", "-customer", "NoSpecs"}, &out); err == nil {
		t.Fatal("add-job without specs should fail")
	}
	if err := run([]string{"-config", cfg, "add-job", "-specs", "x", "-price", "cheap"}, &out); err == nil {
		t.Fatal("bad price should fail")
	}

	out.Reset()
	if err := run([]string{"-config", cfg, "list-jobs"}, &out); err != nil {
		t.Fatalf("list-jobs: %v", err)
	}
	for _, want := range []string{"3HP monoblock pump", "Ravi", "1200.5", "Pending"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("list-jobs missing %q: %s", want, out.String())
		}
	}
}

func TestWorkshopctl_Token(t *testing.T) {
	t.Setenv("ADMIN_JWT_SECRET", "")
	cfg := writeConfig(t, filepath.Join(t.TempDir(), "workshop.db"))

	var out bytes.Buffer
	if err := run([]string{"-config", cfg, "token"}, &out); err != nil {
		t.Fatalf("token: %v", err)
	}
	if parts := strings.Split(strings.TrimSpace(out.String()), "."); len(parts) != 3 {
		t.Fatalf("not a JWT: %q", out.String())
	}
}

func TestWorkshopctl_Errors(t *testing.T) {
	t.Setenv("ADMIN_JWT_SECRET", "")
	var out bytes.Buffer
	if err := run(nil, &out); err == nil {
		t.Fatal("missing command should fail")
	}
	cfg := writeConfig(t, filepath.Join(t.TempDir(), "workshop.db"))
	if err := run([]string{"-config", cfg, "frobnicate"}, &out); err == nil {
		t.Fatal("unknown command should fail")
	}
}
