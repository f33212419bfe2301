// Package viewstate holds the document-level presentation state that several
// components write to: body overflow, root classes and CSS custom properties.
//
// Every setter is an absolute, idempotent write keyed by a fixed name. Restoring
// means writing the known default, never undoing a delta, because no writer owns
// the property exclusively.
package viewstate

import (
	"sort"
	"strings"
	"sync"
)

const (
	// OverflowDefault is the body overflow value when nothing locks scrolling.
	OverflowDefault = ""
	// OverflowHidden locks body scrolling.
	OverflowHidden = "hidden"
)

// Root classes written by the site.
const (
	ClassNoJS          = "no-js"
	ClassReducedMotion = "reduced-motion"
	ClassSaveData      = "save-data"
	ClassFallbackMode  = "fallback-mode"
	ClassMenuOpen      = "menu-open"
)

// PropTransitionDuration is the custom property shortened for reduced motion.
const PropTransitionDuration = "--transition-duration"

// Document is the per-render view state. The zero value is ready to use.
type Document struct {
	mu       sync.Mutex
	overflow string
	classes  map[string]struct{}
	props    map[string]string
}

// New returns an empty document state.
func New() *Document { return &Document{} }

// SetBodyOverflow sets body.style.overflow.
func (d *Document) SetBodyOverflow(v string) {
	d.mu.Lock()
	d.overflow = v
	d.mu.Unlock()
}

// BodyOverflow returns the current body overflow value.
func (d *Document) BodyOverflow() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.overflow
}

// LockScroll hides body overflow.
func (d *Document) LockScroll() { d.SetBodyOverflow(OverflowHidden) }

// UnlockScroll writes the default overflow regardless of who locked it.
func (d *Document) UnlockScroll() { d.SetBodyOverflow(OverflowDefault) }

// ScrollLocked reports whether body overflow is hidden.
func (d *Document) ScrollLocked() bool { return d.BodyOverflow() == OverflowHidden }

// SetClass adds or removes a root class.
func (d *Document) SetClass(name string, on bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if on {
		if d.classes == nil {
			d.classes = map[string]struct{}{}
		}
		d.classes[name] = struct{}{}
		return
	}
	delete(d.classes, name)
}

// HasClass reports whether the root class is set.
func (d *Document) HasClass(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.classes[name]
	return ok
}

// Classes returns the root classes sorted for stable rendering.
func (d *Document) Classes() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, 0, len(d.classes))
	for c := range d.classes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// ClassAttr renders the root class list.
func (d *Document) ClassAttr() string { return strings.Join(d.Classes(), " ") }

// SetProperty sets a CSS custom property. An empty value removes it.
func (d *Document) SetProperty(name, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if value == "" {
		delete(d.props, name)
		return
	}
	if d.props == nil {
		d.props = map[string]string{}
	}
	d.props[name] = value
}

// Property returns a CSS custom property value.
func (d *Document) Property(name string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.props[name]
}

// StyleAttr renders the custom properties as an inline style, sorted by name.
func (d *Document) StyleAttr() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.props) == 0 {
		return ""
	}
	names := make([]string, 0, len(d.props))
	for n := range d.props {
		names = append(names, n)
	}
	sort.Strings(names)
	var b strings.Builder
	for i, n := range names {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(n)
		b.WriteString(": ")
		b.WriteString(d.props[n])
		b.WriteByte(';')
	}
	return b.String()
}

// BodyStyleAttr renders the body inline style.
func (d *Document) BodyStyleAttr() string {
	if o := d.BodyOverflow(); o != "" {
		return "overflow: " + o + ";"
	}
	return ""
}

// Capabilities are the client features detected once per request.
type Capabilities struct {
	ReducedMotion bool
	SaveData      bool
}

// ApplyCapabilities writes the capability classes. no-js is always set and removed
// client side by the inline bootstrap script.
func (d *Document) ApplyCapabilities(c Capabilities) {
	d.SetClass(ClassNoJS, true)
	d.SetClass(ClassReducedMotion, c.ReducedMotion)
	d.SetClass(ClassSaveData, c.SaveData)
	if c.ReducedMotion {
		d.SetProperty(PropTransitionDuration, "150ms")
	} else {
		d.SetProperty(PropTransitionDuration, "")
	}
}

// EnterFallback switches navigation to CSS-only menus.
func (d *Document) EnterFallback() { d.SetClass(ClassFallbackMode, true) }

// InFallback reports whether fallback mode is active.
func (d *Document) InFallback() bool { return d.HasClass(ClassFallbackMode) }
