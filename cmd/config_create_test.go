package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestSaveDefaultConfigCreatesExampleTemplate(t *testing.T) {
	t.Cleanup(func() {
		cfgFile = ""
		viper.Reset()
	})

	tmpConfig := filepath.Join(t.TempDir(), "create-template.yaml")
	cfgFile = tmpConfig
	viper.Reset()

	if err := saveDefaultConfig(""); err != nil {
		t.Fatalf("unexpected error creating config: %v", err)
	}

	content, err := os.ReadFile(tmpConfig)
	if err != nil {
		t.Fatalf("expected config file to exist: %v", err)
	}

	text := string(content)
	if !strings.Contains(text, "# shiftlog configuration") {
		t.Fatalf("expected example header in config file, got:\n%s", text)
	}
	if !strings.Contains(text, `backend: "sqlite"`) || !strings.Contains(text, `path: "./shiftlog.db"`) {
		t.Fatalf("expected sqlite storage example in config file, got:\n%s", text)
	}
}

func TestSaveDefaultConfigSheetBackend(t *testing.T) {
	t.Cleanup(func() {
		cfgFile = ""
		viper.Reset()
	})

	tmpConfig := filepath.Join(t.TempDir(), "sheet.yaml")
	cfgFile = tmpConfig
	viper.Reset()

	if err := saveDefaultConfig("sheet"); err != nil {
		t.Fatalf("unexpected error creating config: %v", err)
	}

	content, err := os.ReadFile(tmpConfig)
	if err != nil {
		t.Fatalf("expected config file to exist: %v", err)
	}
	if !strings.Contains(string(content), `backend: "sheet"`) {
		t.Fatalf("expected sheet backend in config file, got:\n%s", content)
	}

	if err := saveDefaultConfig("postgres"); err == nil {
		t.Fatalf("expected error for unsupported backend")
	}
}

func TestSaveDefaultConfigDoesNotOverwriteExistingFile(t *testing.T) {
	t.Cleanup(func() {
		cfgFile = ""
		viper.Reset()
	})

	tmpConfig := filepath.Join(t.TempDir(), "existing.yaml")
	original := "storage:\n  backend: \"sqlite\"\n  path: \"./other.db\"\n"
	if err := os.WriteFile(tmpConfig, []byte(original), 0o644); err != nil {
		t.Fatalf("failed writing initial config: %v", err)
	}

	cfgFile = tmpConfig
	viper.Reset()

	if err := saveDefaultConfig(""); err != nil {
		t.Fatalf("unexpected error creating config: %v", err)
	}

	content, err := os.ReadFile(tmpConfig)
	if err != nil {
		t.Fatalf("failed reading existing config after create: %v", err)
	}
	if string(content) != original {
		t.Fatalf("expected existing config to remain unchanged")
	}
}

func TestDeleteConfigFile(t *testing.T) {
	originalInput, originalOutput := deletePromptInput, deletePromptOutput
	t.Cleanup(func() {
		deletePromptInput, deletePromptOutput = originalInput, originalOutput
	})
	deletePromptOutput = &strings.Builder{}

	path := filepath.Join(t.TempDir(), ".shiftlog.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	deletePromptInput = strings.NewReader("n\n")
	if err := deleteConfigFile(path); err == nil {
		t.Fatalf("expected abort without confirmation")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config must survive an aborted delete: %v", err)
	}

	deletePromptInput = strings.NewReader("Y\n")
	if err := deleteConfigFile(path); err != nil {
		t.Fatalf("delete config: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected config file to be deleted")
	}

	if err := deleteConfigFile(""); err == nil {
		t.Fatalf("expected error without active config")
	}
}
