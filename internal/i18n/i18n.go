package i18n

import (
	"encoding/json"
	"fmt"
	"io/fs"

	"opusconsulting.gr/opus-web/internal/lang"
)

// Bundle holds the UI strings of every site language.
type Bundle struct {
	dict     map[lang.Language]map[string]string
	fallback lang.Language
}

// Load reads <lang>.json for each supported language from fsys. The fallback
// language must be present; others may be missing.
func Load(fsys fs.FS, fallback lang.Language) (*Bundle, error) {
	b := &Bundle{
		dict:     map[lang.Language]map[string]string{},
		fallback: fallback,
	}
	for _, l := range lang.Supported() {
		raw, err := fs.ReadFile(fsys, l.String()+".json")
		if err != nil {
			// allow missing file for non-default locales
			if l == fallback {
				return nil, fmt.Errorf("load locale %s: %w", l, err)
			}
			continue
		}
		var m map[string]string
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", l, err)
		}
		b.dict[l] = m
	}
	if _, ok := b.dict[fallback]; !ok {
		return nil, fmt.Errorf("fallback locale %s not loaded", fallback)
	}
	return b, nil
}

// Fallback returns the configured fallback language.
func (b *Bundle) Fallback() lang.Language { return b.fallback }

// T returns translation for key in l, falling back to default and finally key.
func (b *Bundle) T(l lang.Language, key string) string {
	if b == nil {
		return key
	}
	if m, ok := b.dict[l]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if m, ok := b.dict[b.fallback]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	return key
}

// Translator binds a bundle to one language.
type Translator struct {
	Bundle *Bundle
	Lang   lang.Language
}

// T translates key in the bound language.
func (t Translator) T(key string) string { return t.Bundle.T(t.Lang, key) }

// For returns a translator for l.
func (b *Bundle) For(l lang.Language) Translator { return Translator{Bundle: b, Lang: l} }

// Missing lists keys present in the fallback table but absent for l.
func (b *Bundle) Missing(l lang.Language) []string {
	var out []string
	have := b.dict[l]
	for k := range b.dict[b.fallback] {
		if _, ok := have[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}
