package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rupor-github/gencfg"

	"wst/document"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
}

func TestConfig_DefaultValues(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if cfg.Transform.CodeUnits != CodeUnitsUtf8 {
		t.Errorf("CodeUnits = %s, want utf8", cfg.Transform.CodeUnits)
	}
	if cfg.Transform.LineTemplate != document.DefaultLineTemplate {
		t.Errorf("LineTemplate must not be expanded, got %q", cfg.Transform.LineTemplate)
	}
	if got := cfg.Document.Kind("a/b.htm"); got != document.HTML {
		t.Errorf("Kind(.htm) = %s, want html", got)
	}
	if got := cfg.Document.Kind("a/b.xhtml"); got != document.XHTML {
		t.Errorf("Kind(.xhtml) = %s, want xhtml", got)
	}
	if cfg.Logging.ConsoleLogger.Level != "normal" {
		t.Errorf("console level = %q, want normal", cfg.Logging.ConsoleLogger.Level)
	}
	if cfg.Reporting.Destination == "" {
		t.Error("report destination should have default value")
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	path := writeConfig(t, `version: 1
transform:
  code_units: utf16
  line_template: '{{ .Source }} => {{ .Style }}'
document:
  html_extensions: [".html", ".tmpl"]
logging:
  console:
    level: debug
`)

	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if !cfg.Transform.CodeUnits.Wide() {
		t.Errorf("CodeUnits = %s, want utf16", cfg.Transform.CodeUnits)
	}
	if cfg.Transform.LineTemplate != "{{ .Source }} => {{ .Style }}" {
		t.Errorf("LineTemplate = %q", cfg.Transform.LineTemplate)
	}
	if got := cfg.Document.Kind("page.tmpl"); got != document.HTML {
		t.Errorf("Kind(.tmpl) = %s, want html", got)
	}
	// untouched values come from defaults
	if len(cfg.Document.XHTMLExtensions) != 2 {
		t.Errorf("XHTMLExtensions = %v, want defaults", cfg.Document.XHTMLExtensions)
	}
	if cfg.Logging.ConsoleLogger.Level != "debug" {
		t.Errorf("console level = %q, want debug", cfg.Logging.ConsoleLogger.Level)
	}
}

func TestLoadConfiguration_Errors(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "version: 1\ntransform:\n  code_units: utf8\n  invalid indent\n"},
		{"unknown field", "version: 1\nunknown_field: value\n"},
		{"bad version", "version: 2\n"},
		{"bad code units", "version: 1\ntransform:\n  code_units: utf32\n"},
		{"bad extension", "version: 1\ndocument:\n  html_extensions: [\"html\"]\n"},
		{"bad log level", "version: 1\nlogging:\n  console:\n    level: verbose\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadConfiguration(writeConfig(t, tc.content)); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	if _, err := LoadConfiguration("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfiguration_WithOptions(t *testing.T) {
	option := func(opts *gencfg.ProcessingOptions) {}

	cfg, err := LoadConfiguration("", option)
	if err != nil {
		t.Fatalf("LoadConfiguration() with options error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if !strings.Contains(string(data), "code_units: utf8") {
		t.Errorf("Prepare() returned unexpected data:\n%s", data)
	}
	if _, err = unmarshalConfig(data, &Config{}, true); err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDump(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	cfg.Transform.CodeUnits = CodeUnitsUtf16

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if !strings.Contains(string(data), "code_units: utf16") {
		t.Errorf("enum should be dumped by name:\n%s", data)
	}

	loaded, err := unmarshalConfig(data, &Config{}, false)
	if err != nil {
		t.Fatalf("Dumped config cannot be loaded: %v", err)
	}
	if loaded.Transform != cfg.Transform {
		t.Errorf("Transform mismatch after dump/load: got %+v, want %+v", loaded.Transform, cfg.Transform)
	}
}

func TestCodeUnits(t *testing.T) {
	tests := []struct {
		units CodeUnits
		name  string
		wide  bool
	}{
		{CodeUnitsUtf8, "utf8", false},
		{CodeUnitsUtf16, "utf16", true},
		{CodeUnits(7), "CodeUnits(7)", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.units.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
			if got := tt.units.Wide(); got != tt.wide {
				t.Errorf("Wide() = %v, want %v", got, tt.wide)
			}
		})
	}

	if _, err := ParseCodeUnits("utf32"); err == nil {
		t.Error("ParseCodeUnits() expected error")
	}
	if names := CodeUnitsNames(); len(names) != 2 {
		t.Errorf("CodeUnitsNames() = %v", names)
	}
}
