// Package config tests configuration loading.
package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/nibzard/plant-paladin/internal/logging"
	"github.com/nibzard/plant-paladin/internal/plantdir"
)

func TestDefaultConfigParses(t *testing.T) {
	cfg, unknown, err := Parse([]byte(DefaultConfigTOML))
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	if len(unknown) != 0 {
		t.Errorf("default config has unknown keys: %v", unknown)
	}
	if len(cfg.Plants) == 0 {
		t.Fatal("default config has no plants")
	}
	for name, plant := range cfg.Plants {
		if plant.WateringInterval <= 0 {
			t.Errorf("plant %q: interval %d should be positive", name, plant.WateringInterval)
		}
	}
	if !reflect.DeepEqual(Default(), cfg) {
		t.Error("Default() does not match parsed template")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]Plant
		unknown []string
		wantErr string
	}{
		{
			name:  "two plants",
			input: "[fern]\nwatering_interval = 3\n\n[Cactus]\nwatering_interval = 21\n",
			want: map[string]Plant{
				"fern":   {WateringInterval: 3},
				"Cactus": {WateringInterval: 21},
			},
		},
		{
			name:  "empty document",
			input: "",
			want:  map[string]Plant{},
		},
		{
			name:  "zero interval allowed",
			input: "[basil]\nwatering_interval = 0\n",
			want:  map[string]Plant{"basil": {WateringInterval: 0}},
		},
		{
			name:  "quoted name with spaces",
			input: "[\"peace lily\"]\nwatering_interval = 4\n",
			want:  map[string]Plant{"peace lily": {WateringInterval: 4}},
		},
		{
			name:    "unknown key is reported",
			input:   "[fern]\nwatering_interval = 3\nlocation = \"kitchen\"\n",
			want:    map[string]Plant{"fern": {WateringInterval: 3}},
			unknown: []string{"fern.location"},
		},
		{
			name:    "negative interval",
			input:   "[fern]\nwatering_interval = -1\n",
			wantErr: "fern.watering_interval",
		},
		{
			name:    "string interval",
			input:   "[fern]\nwatering_interval = \"weekly\"\n",
			wantErr: "fern.watering_interval",
		},
		{
			name:    "missing interval",
			input:   "[fern]\n",
			wantErr: "fern",
		},
		{
			name:    "plant is not a table",
			input:   "fern = 3\n",
			wantErr: "fern",
		},
		{
			name:    "malformed toml",
			input:   "[fern\nwatering_interval = 3\n",
			wantErr: "invalid config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, unknown, err := Parse([]byte(tt.input))
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.wantErr)
				}
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error %q does not mention %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if !reflect.DeepEqual(cfg.Plants, tt.want) {
				t.Errorf("plants: got %v, want %v", cfg.Plants, tt.want)
			}
			if !reflect.DeepEqual(unknown, tt.unknown) {
				t.Errorf("unknown keys: got %v, want %v", unknown, tt.unknown)
			}
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	original := Config{Plants: map[string]Plant{
		"fern":       {WateringInterval: 3},
		"peace lily": {WateringInterval: 5},
		"basil":      {WateringInterval: 0},
	}}

	var buf bytes.Buffer
	if err := original.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, _, err := Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("Parse(%q): %v", buf.String(), err)
	}
	if !reflect.DeepEqual(original, decoded) {
		t.Errorf("round trip mismatch: got %v, want %v", decoded, original)
	}
}

func TestNamesSorted(t *testing.T) {
	cfg := Config{Plants: map[string]Plant{"b": {}, "a": {}, "C": {}}}
	want := []string{"C", "a", "b"}
	if got := cfg.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names: got %v, want %v", got, want)
	}
	if !cfg.Has("a") || cfg.Has("A") {
		t.Error("Has should be case-sensitive")
	}
}

func TestLoad(t *testing.T) {
	logger := logging.Discard()

	t.Run("creates default on first run", func(t *testing.T) {
		dir := t.TempDir()
		cfg, err := Load(dir, logger)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if !reflect.DeepEqual(cfg, Default()) {
			t.Errorf("expected default plants, got %v", cfg.Plants)
		}
		data, err := os.ReadFile(plantdir.ConfigPath(dir))
		if err != nil {
			t.Fatalf("default config not written: %v", err)
		}
		if string(data) != DefaultConfigTOML {
			t.Error("written config does not match the default template")
		}
	})

	t.Run("existing file is read and left alone", func(t *testing.T) {
		dir := t.TempDir()
		content := "[fern]\nwatering_interval = 3\n"
		path := plantdir.ConfigPath(dir)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		cfg, err := Load(dir, logger)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if len(cfg.Plants) != 1 || cfg.Plants["fern"].WateringInterval != 3 {
			t.Errorf("unexpected plants: %v", cfg.Plants)
		}
		data, _ := os.ReadFile(path)
		if string(data) != content {
			t.Error("config file was modified")
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(plantdir.ConfigPath(dir), []byte("not = [toml"), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := Load(dir, logger)
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "failed to deserialize") {
			t.Errorf("expected deserialize context, got %v", err)
		}
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "does-not-exist")
		_, err := Load(dir, logger)
		if err == nil {
			t.Fatal("expected error writing default into missing directory")
		}
		if !strings.Contains(err.Error(), plantdir.ConfigPath(dir)) {
			t.Errorf("error should name the path, got %v", err)
		}
	})
}
