package menu

import (
	"opusconsulting.gr/opus-web/internal/lang"
)

// LanguageOption is one entry of the language switcher.
type LanguageOption struct {
	Lang  lang.Language
	Label string
	Flag  string
}

// LanguageOptions lists the switcher entries in display order.
var LanguageOptions = []LanguageOption{
	{Lang: lang.English, Label: "ΕΝ", Flag: "/gb.svg"},
	{Lang: lang.Greek, Label: "ΕΛ", Flag: "/gr.svg"},
}

// OptionFor returns the switcher entry of l.
func OptionFor(l lang.Language) LanguageOption {
	for _, o := range LanguageOptions {
		if o.Lang == l {
			return o
		}
	}
	return LanguageOptions[len(LanguageOptions)-1]
}

// Switcher is the open state of the language dropdown.
type Switcher struct {
	open bool
}

// IsOpen reports whether the dropdown is open.
func (s *Switcher) IsOpen() bool { return s.open }

// Toggle flips the dropdown.
func (s *Switcher) Toggle() { s.open = !s.open }

// Close handles Escape and click outside.
func (s *Switcher) Close() { s.open = false }

// Select closes the dropdown and returns currentPath rewritten for target.
func (s *Switcher) Select(currentPath string, target lang.Language) string {
	s.open = false
	return lang.Switch(currentPath, target)
}
