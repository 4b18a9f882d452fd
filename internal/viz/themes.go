package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the TUI color scheme.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Warning   lipgloss.Color
}

var (
	ThemeGreenback = Theme{
		Name:      "greenback",
		Primary:   lipgloss.Color("#85bb65"),
		Secondary: lipgloss.Color("#2e8b57"),
		Accent:    lipgloss.Color("#ffd700"),
		Text:      lipgloss.Color("#e8f0e0"),
		Muted:     lipgloss.Color("#5a7a5a"),
		Warning:   lipgloss.Color("#ff8800"),
	}

	ThemeGilded = Theme{
		Name:      "gilded",
		Primary:   lipgloss.Color("#ffd700"),
		Secondary: lipgloss.Color("#b8860b"),
		Accent:    lipgloss.Color("#00ffff"),
		Text:      lipgloss.Color("#fff8e0"),
		Muted:     lipgloss.Color("#887744"),
		Warning:   lipgloss.Color("#ff4444"),
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#cccccc"),
		Accent:    lipgloss.Color("#0088ff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
		Warning:   lipgloss.Color("#ffaa00"),
	}

	CurrentTheme = ThemeGreenback

	Themes = []Theme{ThemeGreenback, ThemeGilded, ThemeMinimal}
)

func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeGreenback
}

func SetTheme(name string) { CurrentTheme = GetTheme(name) }

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// CycleTheme switches to the next theme and returns its name.
func CycleTheme() string {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			next := Themes[(i+1)%len(Themes)]
			CurrentTheme = next
			return next.Name
		}
	}
	CurrentTheme = Themes[0]
	return CurrentTheme.Name
}
