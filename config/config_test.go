package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	cases := []struct {
		name  string
		yaml  string
		check func(t *testing.T, s *Settings)
	}{
		{
			name: "full",
			yaml: `
title: demo
width: 800
height: 600
tick_rate: 30
saves_dir: saves
world:
  name: forest
  width: 256
  height: 128
`,
			check: func(t *testing.T, s *Settings) {
				if s.Title != "demo" || s.Width != 800 || s.Height != 600 {
					t.Fatalf("window settings = %+v", s)
				}
				if s.TickRate != 30 || s.SavesDir != "saves" {
					t.Fatalf("engine settings = %+v", s)
				}
				if s.World.Name != "forest" || s.World.Width != 256 || s.World.Height != 128 {
					t.Fatalf("world settings = %+v", s.World)
				}
			},
		},
		{
			name: "partial_keeps_defaults",
			yaml: "title: demo\n",
			check: func(t *testing.T, s *Settings) {
				if s.Title != "demo" {
					t.Fatalf("title = %q", s.Title)
				}
				if s.TickRate != Default().TickRate || s.SavesDir != Default().SavesDir {
					t.Fatalf("defaults not kept: %+v", s)
				}
			},
		},
		{
			name: "invalid_tick_rate_reset",
			yaml: "tick_rate: -5\n",
			check: func(t *testing.T, s *Settings) {
				if s.TickRate != Default().TickRate {
					t.Fatalf("tick rate = %d", s.TickRate)
				}
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "settings.yaml")
			if err := os.WriteFile(path, []byte(c.yaml), 0o644); err != nil {
				t.Fatal(err)
			}
			s, err := Load(path)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			c.check(t, s)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing settings file")
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("title: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}
