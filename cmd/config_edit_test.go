package cmd

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"shiftlog/config"
)

func TestResolveConfigEditPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		name string
		flag string
		used string
		want string
	}{
		{name: "explicit flag wins", flag: "./custom.yaml", used: "/tmp/active.yaml", want: "./custom.yaml"},
		{name: "active config file", flag: " ", used: "/tmp/active.yaml", want: "/tmp/active.yaml"},
		{name: "home fallback", want: filepath.Join(home, ".shiftlog.yaml")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveConfigEditPath(tt.flag, tt.used)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestEnsureConfigFileWithTemplate(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", ".shiftlog.yaml")

	created, err := ensureConfigFileWithTemplate(configPath, config.ExampleYAMLFor(config.BackendSheet))
	if err != nil {
		t.Fatalf("create template config: %v", err)
	}
	if !created {
		t.Fatalf("expected file to be created")
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("read config file: %v", err)
	}
	cfg, err := config.ValidateYAMLContent(content)
	if err != nil {
		t.Fatalf("written template must validate: %v", err)
	}
	if cfg.Storage.Backend != config.BackendSheet {
		t.Fatalf("expected sheet backend, got %q", cfg.Storage.Backend)
	}

	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("stat config file: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected config file mode 0600, got %o", info.Mode().Perm())
	}

	created, err = ensureConfigFileWithTemplate(configPath, "other: template\n")
	if err != nil {
		t.Fatalf("existing config file: %v", err)
	}
	if created {
		t.Fatalf("did not expect existing file to be recreated")
	}
	after, _ := os.ReadFile(configPath)
	if string(after) != string(content) {
		t.Fatalf("existing config must not be overwritten")
	}
}

func TestEditorCommand(t *testing.T) {
	tests := []struct {
		name     string
		flag     string
		visual   string
		editor   string
		wantArgs []string
	}{
		{name: "flag wins", flag: "nano -w", visual: "code --wait", editor: "vim", wantArgs: []string{"nano", "-w", "/tmp/cfg.yaml"}},
		{name: "visual with args", visual: "code --wait", editor: "nano", wantArgs: []string{"code", "--wait", "/tmp/cfg.yaml"}},
		{name: "editor fallback", flag: " ", editor: "nano", wantArgs: []string{"nano", "/tmp/cfg.yaml"}},
		{name: "vi default", wantArgs: []string{"vi", "/tmp/cfg.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := buildEditorCommand(resolveEditor(tt.flag, tt.visual, tt.editor), "/tmp/cfg.yaml")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if strings.Join(cmd.Args, " ") != strings.Join(tt.wantArgs, " ") {
				t.Fatalf("expected args %v, got %v", tt.wantArgs, cmd.Args)
			}
		})
	}

	if _, err := buildEditorCommand("   ", "/tmp/cfg.yaml"); err == nil {
		t.Fatalf("expected error for empty editor")
	}
}

func TestEditConfigFile(t *testing.T) {
	if _, err := exec.LookPath("cp"); err != nil {
		t.Skip("cp not available")
	}
	dir := t.TempDir()
	configPath := filepath.Join(dir, ".shiftlog.yaml")
	original := config.ExampleYAML()
	if err := os.WriteFile(configPath, []byte(original), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	valid := filepath.Join(dir, "valid.yaml")
	if err := os.WriteFile(valid, []byte(config.ExampleYAMLFor(config.BackendSheet)), 0o600); err != nil {
		t.Fatalf("write valid replacement: %v", err)
	}
	cfg, err := editConfigFile(configPath, "cp "+valid)
	if err != nil {
		t.Fatalf("edit with valid content: %v", err)
	}
	if cfg.Storage.Backend != config.BackendSheet {
		t.Fatalf("expected edited sheet backend, got %q", cfg.Storage.Backend)
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("storage:\n  backend: postgres\n"), 0o600); err != nil {
		t.Fatalf("write invalid replacement: %v", err)
	}
	if _, err := editConfigFile(configPath, "cp "+invalid); err == nil || !strings.Contains(err.Error(), "restored") {
		t.Fatalf("expected validation error with restore, got %v", err)
	}
	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if string(content) != config.ExampleYAMLFor(config.BackendSheet) {
		t.Fatalf("expected last valid content to be restored, got:\n%s", content)
	}
}
