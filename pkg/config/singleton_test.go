package config

import (
	"os"
	"testing"
)

func TestInitialize(t *testing.T) {
	reset()
	defer reset()

	path := writeConfig(t, "output:\n  directory: /srv/a\n")
	if err := Initialize(path); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	cfg := GetConfig()
	if cfg == nil || cfg.Output.Directory != "/srv/a" {
		t.Fatalf("GetConfig() = %+v", cfg)
	}
	if Path() != path {
		t.Errorf("Path() = %q, want %q", Path(), path)
	}
}

func TestInitialize_ErrorKeepsPrevious(t *testing.T) {
	reset()
	defer reset()

	prev := NewDefault()
	SetConfig(prev)

	if err := Initialize(writeConfig(t, "source:\n  driver: nope\n")); err == nil {
		t.Fatal("Initialize() expected error")
	}
	if GetConfig() != prev {
		t.Error("failed Initialize replaced the configuration")
	}
}

func TestReloadConfig(t *testing.T) {
	reset()
	defer reset()

	path := writeConfig(t, "output:\n  directory: /srv/a\n")
	if err := Initialize(path); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	var got *Config
	OnReload(func(c *Config) { got = c })

	if err := os.WriteFile(path, []byte("output:\n  directory: /srv/b\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := ReloadConfig(path); err != nil {
		t.Fatalf("ReloadConfig() error = %v", err)
	}
	if GetConfig().Output.Directory != "/srv/b" {
		t.Errorf("Directory = %q after reload", GetConfig().Output.Directory)
	}
	if got == nil || got.Output.Directory != "/srv/b" {
		t.Error("reload hook not called with new config")
	}

	got = nil
	if err := os.WriteFile(path, []byte("export:\n  members_mode: bogus\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := ReloadConfig(path); err == nil {
		t.Fatal("ReloadConfig() expected error")
	}
	if GetConfig().Output.Directory != "/srv/b" {
		t.Error("failed reload replaced the configuration")
	}
	if got != nil {
		t.Error("reload hook called on failure")
	}
}

func TestMustGetConfig_Panics(t *testing.T) {
	reset()
	defer reset()
	defer func() {
		if recover() == nil {
			t.Error("MustGetConfig() did not panic")
		}
	}()
	MustGetConfig()
}
