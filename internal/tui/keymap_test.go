package tui

import (
	"slices"
	"testing"

	"github.com/charmbracelet/bubbles/key"
)

func TestDefaultKeyMap_AllBindingsDefined(t *testing.T) {
	km := DefaultKeyMap()

	bindings := []struct {
		name    string
		binding key.Binding
	}{
		{"Quit", km.Quit},
		{"Pause", km.Pause},
		{"Reset", km.Reset},
		{"Up", km.Up},
		{"Down", km.Down},
		{"PageUp", km.PageUp},
		{"PageDown", km.PageDown},
		{"Help", km.Help},
	}

	for _, b := range bindings {
		t.Run(b.name, func(t *testing.T) {
			if !b.binding.Enabled() {
				t.Errorf("expected %s binding to be enabled", b.name)
			}
			if len(b.binding.Keys()) == 0 {
				t.Errorf("expected %s binding to have at least one key", b.name)
			}
			if b.binding.Help().Desc == "" {
				t.Errorf("expected %s binding to have help text", b.name)
			}
		})
	}
}

func TestDefaultKeyMap_QuitAndRerunKeys(t *testing.T) {
	km := DefaultKeyMap()

	for _, k := range []string{"q", "ctrl+c"} {
		if !slices.Contains(km.Quit.Keys(), k) {
			t.Errorf("expected Quit binding to include %q", k)
		}
	}
	if !slices.Contains(km.Reset.Keys(), "r") {
		t.Error("expected Reset binding to include 'r'")
	}
}

func TestKeyMap_HelpGroups(t *testing.T) {
	km := DefaultKeyMap()
	if got := len(km.ShortHelp()); got != 4 {
		t.Errorf("ShortHelp() has %d bindings, want 4", got)
	}
	total := 0
	for _, group := range km.FullHelp() {
		total += len(group)
	}
	if total != 8 {
		t.Errorf("FullHelp() has %d bindings, want 8", total)
	}
}
