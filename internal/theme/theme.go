// Package theme implements the light/dark display preference and the
// controller that keeps it in sync with a preference store.
package theme

// Preference is the visitor's display theme.
type Preference string

const (
	Light Preference = "light"
	Dark  Preference = "dark"
)

// Default applies when nothing recognizable is stored.
const Default = Dark

// StoreKey is the preference store key holding the theme.
const StoreKey = "theme"

// Parse accepts only the exact stored literals.
func Parse(s string) (Preference, bool) {
	switch Preference(s) {
	case Light:
		return Light, true
	case Dark:
		return Dark, true
	}
	return "", false
}

func (p Preference) String() string {
	return string(p)
}

// Toggled returns the other theme.
func (p Preference) Toggled() Preference {
	if p == Dark {
		return Light
	}
	return Dark
}

// ToggleLabel is the caption of the toggle control; it names the theme a
// click switches to.
func (p Preference) ToggleLabel() string {
	if p == Dark {
		return "☀️ Light"
	}
	return "🌙 Dark"
}
