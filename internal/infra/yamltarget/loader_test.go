package yamltarget

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadTarget_MergesSecrets(t *testing.T) {
	tmp := t.TempDir()
	root := filepath.Join(tmp, "ws")
	targetsDir := filepath.Join(root, "targets")
	if err := os.MkdirAll(targetsDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	base := "base_url: http://localhost:3030\ntoken: tr_base_token\nvars:\n  project_ref: proj-main\n"
	if err := os.WriteFile(filepath.Join(targetsDir, "local.yaml"), []byte(base), 0o644); err != nil {
		t.Fatalf("write local: %v", err)
	}
	secrets := "token: tr_secret_token\nvars:\n  env: dev\n"
	if err := os.WriteFile(filepath.Join(targetsDir, "secrets.local.yaml"), []byte(secrets), 0o644); err != nil {
		t.Fatalf("write secrets: %v", err)
	}

	l := NewLoader(root)
	target, err := l.LoadTarget("local")
	if err != nil {
		t.Fatalf("LoadTarget error: %v", err)
	}

	if target.Name != "local" {
		t.Fatalf("expected name=local, got=%s", target.Name)
	}
	if target.BaseURL != "http://localhost:3030" {
		t.Fatalf("expected base_url, got=%s", target.BaseURL)
	}
	if target.Token != "tr_secret_token" {
		t.Fatalf("expected secrets token override, got=%s", target.Token)
	}
	if target.Vars["project_ref"] != "proj-main" || target.Vars["env"] != "dev" {
		t.Fatalf("unexpected vars: %v", target.Vars)
	}
}

func TestLoadTarget_SecretsMissing(t *testing.T) {
	tmp := t.TempDir()
	root := filepath.Join(tmp, "ws")
	targetsDir := filepath.Join(root, "targets")
	if err := os.MkdirAll(targetsDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if err := os.WriteFile(filepath.Join(targetsDir, "local.yaml"), []byte("base_url: http://localhost:3030\ntoken: tr_dev\n"), 0o644); err != nil {
		t.Fatalf("write local: %v", err)
	}

	l := NewLoader(root)
	target, err := l.LoadTarget("local")
	if err != nil {
		t.Fatalf("LoadTarget error: %v", err)
	}
	if target.Token != "tr_dev" {
		t.Fatalf("expected token=tr_dev, got=%s", target.Token)
	}
}

func TestLoadTarget_ByPath(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "staging.yaml")
	if err := os.WriteFile(p, []byte("base_url: https://staging.example.com\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	l := NewLoader(tmp)
	target, err := l.LoadTarget(p)
	if err != nil {
		t.Fatalf("LoadTarget error: %v", err)
	}
	if target.Name != "staging" {
		t.Fatalf("expected name=staging, got=%s", target.Name)
	}
	if target.BaseURL != "https://staging.example.com" {
		t.Fatalf("base_url=%s", target.BaseURL)
	}
}

func TestLoadTarget_Missing(t *testing.T) {
	tmp := t.TempDir()
	l := NewLoader(tmp)
	if _, err := l.LoadTarget("nope"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestLoadTarget_MissingBaseURL(t *testing.T) {
	tmp := t.TempDir()
	targetsDir := filepath.Join(tmp, "targets")
	if err := os.MkdirAll(targetsDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(targetsDir, "local.yaml"), []byte("token: tr_dev\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	l := NewLoader(tmp)
	if _, err := l.LoadTarget("local"); err == nil {
		t.Fatalf("expected error for missing base_url")
	}
}
