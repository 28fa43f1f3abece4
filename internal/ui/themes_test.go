package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestSetTheme(t *testing.T) {
	orig := GetCurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(orig) })

	tests := []struct {
		name string
		want string
	}{
		{"dark", "dark"},
		{"light", "light"},
		{"none", "none"},
		{"bogus", "dark"},
	}
	for _, tt := range tests {
		SetTheme(tt.name)
		assert.Equal(t, tt.want, GetCurrentTheme().Name, "SetTheme(%q)", tt.name)
	}
}

func TestInitThemeNoColor(t *testing.T) {
	orig := GetCurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(orig) })

	InitTheme(true)
	assert.Empty(t, ColorRed())
	assert.Empty(t, ColorReset())
	assert.Equal(t, lipgloss.TerminalColor(lipgloss.NoColor{}), GetCurrentTUITheme().Accent)
}

func TestInitThemeHonorsNOCOLOR(t *testing.T) {
	orig := GetCurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(orig) })

	t.Setenv("NO_COLOR", "1")
	InitTheme(false)
	assert.Equal(t, "none", GetCurrentTheme().Name)
}

func TestColorAccessorsFollowTheme(t *testing.T) {
	orig := GetCurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(orig) })

	SetCurrentTheme(DarkTheme)
	assert.Equal(t, DarkTheme.Error, ColorRed())
	assert.Equal(t, DarkTheme.Success, ColorGreen())
	assert.Equal(t, DarkTheme.Warning, ColorYellow())
	assert.Equal(t, DarkTheme.Primary, ColorBlue())
	assert.Equal(t, DarkTheme.Info, ColorMagenta())
	assert.Equal(t, DarkTheme.Secondary, ColorCyan())
	assert.Equal(t, DarkTheme.Bold, ColorBold())
	assert.Equal(t, DarkTheme.Underline, ColorUnderline())
	assert.Equal(t, DarkTheme.Reset, ColorReset())
	assert.Equal(t, DarkTUITheme, GetCurrentTUITheme())
}
