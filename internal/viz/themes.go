package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the viewer chrome. Path colors come from the palette.
type Theme struct {
	Name     string
	Title    lipgloss.Color
	TitleEnd lipgloss.Color
	Border   lipgloss.Color
	Text     lipgloss.Color
	Muted    lipgloss.Color
	Playing  lipgloss.Color
	Paused   lipgloss.Color
	Done     lipgloss.Color
}

var (
	ThemeNight = Theme{
		Name:     "night",
		Title:    lipgloss.Color("#00ffff"),
		TitleEnd: lipgloss.Color("#ff00ff"),
		Border:   lipgloss.Color("#444466"),
		Text:     lipgloss.Color("#e0e0e0"),
		Muted:    lipgloss.Color("#666688"),
		Playing:  lipgloss.Color("#00ff88"),
		Paused:   lipgloss.Color("#ffaa00"),
		Done:     lipgloss.Color("#ff4444"),
	}

	ThemePhosphor = Theme{
		Name:     "phosphor",
		Title:    lipgloss.Color("#00ff00"),
		TitleEnd: lipgloss.Color("#88ff88"),
		Border:   lipgloss.Color("#005500"),
		Text:     lipgloss.Color("#00ff00"),
		Muted:    lipgloss.Color("#007700"),
		Playing:  lipgloss.Color("#88ff88"),
		Paused:   lipgloss.Color("#ffff00"),
		Done:     lipgloss.Color("#ff0000"),
	}

	ThemeOcean = Theme{
		Name:     "ocean",
		Title:    lipgloss.Color("#0077be"),
		TitleEnd: lipgloss.Color("#ffd700"),
		Border:   lipgloss.Color("#4488aa"),
		Text:     lipgloss.Color("#e0f0ff"),
		Muted:    lipgloss.Color("#4488aa"),
		Playing:  lipgloss.Color("#00ff88"),
		Paused:   lipgloss.Color("#ffcc00"),
		Done:     lipgloss.Color("#ff4444"),
	}

	ThemeSunset = Theme{
		Name:     "sunset",
		Title:    lipgloss.Color("#ff6b6b"),
		TitleEnd: lipgloss.Color("#feca57"),
		Border:   lipgloss.Color("#8b6b8c"),
		Text:     lipgloss.Color("#fff5f5"),
		Muted:    lipgloss.Color("#8b6b8c"),
		Playing:  lipgloss.Color("#5fd068"),
		Paused:   lipgloss.Color("#ffc048"),
		Done:     lipgloss.Color("#ff4757"),
	}

	CurrentTheme = ThemeNight

	Themes = []Theme{ThemeNight, ThemePhosphor, ThemeOcean, ThemeSunset}
)

// GetTheme returns a theme by name, falling back to night.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeNight
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
	CurrentTheme = ThemeNight
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
