package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
listen: ":9000"
serial:
  port: /dev/ttyACM1
  baud: 115200
  simulate: false
oracle:
  base_url: http://localhost:8081
  model: qwen2-7b-chat
journal: false
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Listen != ":9000" {
		t.Fatalf("listen = %q", c.Listen)
	}
	if c.Serial.Port != "/dev/ttyACM1" || c.Serial.Baud != 115200 || c.Serial.Simulate {
		t.Fatalf("serial = %+v", c.Serial)
	}
	if c.Oracle.BaseURL != "http://localhost:8081" || c.Oracle.Model != "qwen2-7b-chat" {
		t.Fatalf("oracle = %+v", c.Oracle)
	}
	// Untouched keys keep their defaults.
	if c.Serial.TimeoutMs != 1000 || c.Oracle.Temperature != 0.1 {
		t.Fatalf("defaults lost: %+v", c)
	}
	if c.Journal {
		t.Fatalf("journal not overridden")
	}
	if !c.Index {
		t.Fatalf("index default lost")
	}
}

func TestLoadMissingFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if !os.IsNotExist(err) {
		t.Fatalf("err = %v", err)
	}
	// Defaults still usable for the fallback path.
	if c.Listen != ":8080" {
		t.Fatalf("defaults = %+v", c)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("listen: [:::"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}
