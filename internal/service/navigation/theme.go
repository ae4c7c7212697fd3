package navigation

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// ThemeObserver reports the theme of a labelled page section.
type ThemeObserver interface {
	Observe(sectionID string) (Theme, bool)
}

// SectionThemes is a ThemeObserver backed by a fixed table.
type SectionThemes map[string]Theme

func (s SectionThemes) Observe(sectionID string) (Theme, bool) {
	t, ok := s[sectionID]
	return t, ok
}

// FirstSection is the section shown when the home page opens.
const FirstSection = "The Beginning"

// DefaultSectionThemes returns the home page sections and their themes.
func DefaultSectionThemes() SectionThemes {
	return SectionThemes{
		FirstSection:     Dark,
		"Featured":       Light,
		"Our Philosophy": Light,
		"Voices":         Light,
		"Archive":        Light,
		"Join Us":        Dark,
		"Connect":        Dark,
	}
}
