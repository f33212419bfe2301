package nav

import (
	"errors"
	"fmt"
	"strings"

	"opusconsulting.gr/opus-web/internal/lang"
)

// Text is a bilingual label pair.
type Text struct {
	El string
	En string
}

// In selects the label for the language.
func (t Text) In(l lang.Language) string {
	if l == lang.English {
		return t.En
	}
	return t.El
}

// Layout selects how a dropdown arranges its columns.
type Layout string

const (
	// LayoutGrid renders columns side by side (services).
	LayoutGrid Layout = "grid"
	// LayoutStacked renders columns in a single stacked list (company).
	LayoutStacked Layout = "stacked"
)

// Entry is a row of the canonical bilingual navigation table.
type Entry struct {
	Label    Text
	Path     string // internal page path, language neutral, e.g. "/projects/"
	URL      string // absolute external URL
	External bool
	Dropdown *DropdownEntry
}

// DropdownEntry describes the mega menu of a dropdown-bearing entry.
type DropdownEntry struct {
	Title   Text
	Layout  Layout
	Columns []ColumnEntry
}

// ColumnEntry is an ordered group of links inside a dropdown.
type ColumnEntry struct {
	Title Text
	Links []LinkEntry
}

// LinkEntry is a leaf link inside a dropdown column.
type LinkEntry struct {
	Path        string
	Title       Text
	Description Text
}

// Item is the per-language projection consumed by the header and menus.
type Item struct {
	Key      string
	Label    string
	Labels   Text
	Href     string
	External bool
	Active   bool
	Dropdown *Dropdown
}

// HasDropdown reports whether the item toggles a mega menu instead of navigating.
func (it Item) HasDropdown() bool { return it.Dropdown != nil }

// PanelID is the id of the mega menu panel controlled by the item.
func (it Item) PanelID() string { return PanelID(it.Key) }

// Dropdown is the projected mega menu content.
type Dropdown struct {
	Title   string
	Layout  Layout
	Columns []Column
}

// Column is a projected dropdown column.
type Column struct {
	Title string
	Links []Link
}

// Link is a projected leaf link.
type Link struct {
	Title       string
	Description string
	Href        string
	Active      bool
}

// Crumb represents a breadcrumb entry.
type Crumb struct {
	Href   string
	Label  string
	Active bool
}

// Main is the canonical navigation table. Order is render order.
var Main = []Entry{
	{Path: "/", Label: Text{El: "Αρχική", En: "Home"}},
	{
		Label: Text{El: "Η Εταιρεία μας", En: "Our Company"},
		Dropdown: &DropdownEntry{
			Title:  Text{El: "Η Εταιρεία μας", En: "Our Company"},
			Layout: LayoutStacked,
			Columns: []ColumnEntry{
				{
					Title: Text{El: "Σχετικά με εμάς", En: "About Us"},
					Links: []LinkEntry{
						{
							Path:        "/ourcompany/overview/",
							Title:       Text{El: "Επισκόπηση Εταιρείας", En: "Company Overview"},
							Description: Text{El: "Μάθετε για την αποστολή και τις αξίες μας", En: "Learn about our mission and values"},
						},
						{
							Path:        "/ourcompany/history/",
							Title:       Text{El: "Η Ιστορία μας", En: "Our History"},
							Description: Text{El: "Ανακαλύψτε το ταξίδι και τα ορόσημα μας", En: "Discover our journey and milestones"},
						},
					},
				},
				{
					Title: Text{El: "Το Όραμά μας", En: "Our Vision"},
					Links: []LinkEntry{
						{
							Path:        "/vision/mission/",
							Title:       Text{El: "Δήλωση Αποστολής", En: "Mission Statement"},
							Description: Text{El: "Η δέσμευσή μας για την αριστεία", En: "Our commitment to excellence"},
						},
						{
							Path:        "/vision/goals/",
							Title:       Text{El: "Στρατηγικοί Στόχοι", En: "Strategic Goals"},
							Description: Text{El: "Ο δρόμος μας για το μέλλον", En: "Our roadmap for the future"},
						},
						{
							Path:        "/vision/sustainability/",
							Title:       Text{El: "Βιωσιμότητα", En: "Sustainability"},
							Description: Text{El: "Περιβαλλοντική και κοινωνική ευθύνη", En: "Environmental and social responsibility"},
						},
					},
				},
			},
		},
	},
	{
		Label: Text{El: "Υπηρεσίες", En: "Services"},
		Dropdown: &DropdownEntry{
			Title:  Text{El: "Οι Υπηρεσίες μας", En: "Our Services"},
			Layout: LayoutGrid,
			Columns: []ColumnEntry{
				{
					Title: Text{El: "Υπηρεσίες", En: "Services"},
					Links: []LinkEntry{
						{
							Path:        "/services/public-sector-consulting/",
							Title:       Text{El: "Συμβουλευτικές υπηρεσίες στον δημόσιο τομέα", En: "Consulting services in the public sector"},
							Description: Text{El: "Στρατηγική συμβουλή και συμβουλευτική για δημόσιους φορείς", En: "Strategic advisory and consulting for public institutions"},
						},
						{
							Path:        "/services/technology/",
							Title:       Text{El: "Τεχνολογία και πληροφορική", En: "Technology and information technology"},
							Description: Text{El: "Στρατηγική IT, ψηφιακός μετασχηματισμός και τεχνολογικές λύσεις", En: "IT strategy, digital transformation, and technology solutions"},
						},
						{
							Path:        "/services/investment-management/",
							Title:       Text{El: "Διαχείριση επενδυτικών έργων", En: "Investment project management"},
							Description: Text{El: "Ολοκληρωμένη εποπτεία και παράδοση έργων", En: "End-to-end project oversight and delivery"},
						},
						{
							Path:        "/services/strategic-planning/",
							Title:       Text{El: "Στρατηγικός και λειτουργικός σχεδιασμός", En: "Strategic and operational planning"},
							Description: Text{El: "Μακροπρόθεσμος στρατηγικός δρόμος και λειτουργική βελτιστοποίηση", En: "Long-term strategic roadmap and operational optimization"},
						},
					},
				},
				{
					Title: Text{El: "Υπηρεσίες", En: "Services"},
					Links: []LinkEntry{
						{
							Path:        "/services/energy-studies/",
							Title:       Text{El: "Ενεργειακές μελέτες", En: "Energy studies"},
							Description: Text{El: "Περιεκτική ανάλυση και μελέτες του ενεργειακού τομέα", En: "Comprehensive energy sector analysis and studies"},
						},
						{
							Path:        "/services/quality-management/",
							Title:       Text{El: "Συστήματα Διαχείρισης Ποιότητας", En: "Quality Management Systems"},
							Description: Text{El: "Εφαρμογή και πιστοποίηση συστημάτων ISO και ποιότητας", En: "ISO and quality system implementation and certification"},
						},
						{
							Path:        "/services/feasibility-studies/",
							Title:       Text{El: "Μελέτες Σκοπιμότητας", En: "Feasibility Studies"},
							Description: Text{El: "Συστηματική αξιολόγηση βιωσιμότητας και σκοπιμότητας έργων", En: "Thorough project viability and feasibility assessment"},
						},
						{
							Path:        "/services/esg-strategy/",
							Title:       Text{El: "Στρατηγική & Εφαρμογή ESG", En: "ESG Strategy & Implementation"},
							Description: Text{El: "Στρατηγική και εφαρμογή Περιβαλλοντικών, Κοινωνικών και Διακυβερνητικών θεμάτων", En: "Environmental, Social, and Governance strategy and implementation"},
						},
					},
				},
			},
		},
	},
	{Path: "/projects/", Label: Text{El: "Έργα", En: "Projects"}},
	{URL: "https://opuslearning.gr/", External: true, Label: Text{El: "E-learning", En: "E-learning"}},
	{Path: "/news/", Label: Text{El: "Νέα", En: "News"}},
}

// ErrInvalidEntry is returned by Validate for rows that break the href/dropdown invariant.
var ErrInvalidEntry = errors.New("nav: invalid entry")

// Validate checks that every row has exactly one of a resolvable href or a dropdown,
// and that dropdown keys are unique.
func Validate(entries []Entry) error {
	seen := map[string]struct{}{}
	for i, e := range entries {
		hasHref := e.Path != "" || e.URL != ""
		switch {
		case e.Dropdown != nil && hasHref:
			return fmt.Errorf("%w: row %d (%s) has both href and dropdown", ErrInvalidEntry, i, e.Label.En)
		case e.Dropdown == nil && !hasHref:
			return fmt.Errorf("%w: row %d (%s) has neither href nor dropdown", ErrInvalidEntry, i, e.Label.En)
		case e.External && e.URL == "":
			return fmt.Errorf("%w: row %d (%s) is external without url", ErrInvalidEntry, i, e.Label.En)
		}
		key := Key(e.Label)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: duplicate key %q", ErrInvalidEntry, key)
		}
		seen[key] = struct{}{}
		if e.Dropdown == nil {
			continue
		}
		for _, col := range e.Dropdown.Columns {
			for _, l := range col.Links {
				if l.Path == "" {
					return fmt.Errorf("%w: dropdown %q has a link without path", ErrInvalidEntry, key)
				}
			}
		}
	}
	return nil
}

// Items projects the canonical table for the language. Each call returns a fresh slice.
func Items(l lang.Language) []Item {
	return project(Main, l, "")
}

// Build projects the table for the language of currentPath and marks active entries.
func Build(currentPath string) []Item {
	if currentPath == "" {
		currentPath = "/"
	}
	return project(Main, lang.Resolve(currentPath), currentPath)
}

// Find returns the projected item with the given key.
func Find(items []Item, key string) (Item, bool) {
	for _, it := range items {
		if it.Key == key {
			return it, true
		}
	}
	return Item{}, false
}

// DropdownKeys lists the keys of dropdown-bearing entries in table order.
func DropdownKeys() []string {
	var keys []string
	for _, e := range Main {
		if e.Dropdown != nil {
			keys = append(keys, Key(e.Label))
		}
	}
	return keys
}

// Paths lists every internal page path referenced by the table.
func Paths() []string {
	var out []string
	for _, e := range Main {
		if e.Path != "" {
			out = append(out, e.Path)
		}
		if e.Dropdown == nil {
			continue
		}
		for _, col := range e.Dropdown.Columns {
			for _, l := range col.Links {
				out = append(out, l.Path)
			}
		}
	}
	return out
}

func project(entries []Entry, l lang.Language, currentPath string) []Item {
	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		it := Item{
			Key:      Key(e.Label),
			Label:    e.Label.In(l),
			Labels:   e.Label,
			External: e.External,
		}
		switch {
		case e.URL != "":
			it.Href = e.URL
		case e.Path != "":
			it.Href = lang.AddPrefix(e.Path, l)
			it.Active = currentPath != "" && isActive(it.Href, currentPath)
		}
		if e.Dropdown != nil {
			dd := &Dropdown{
				Title:   e.Dropdown.Title.In(l),
				Layout:  e.Dropdown.Layout,
				Columns: make([]Column, 0, len(e.Dropdown.Columns)),
			}
			for _, col := range e.Dropdown.Columns {
				c := Column{Title: col.Title.In(l), Links: make([]Link, 0, len(col.Links))}
				for _, link := range col.Links {
					href := lang.AddPrefix(link.Path, l)
					active := currentPath != "" && isActive(href, currentPath)
					if active {
						it.Active = true
					}
					c.Links = append(c.Links, Link{
						Title:       link.Title.In(l),
						Description: link.Description.In(l),
						Href:        href,
						Active:      active,
					})
				}
				dd.Columns = append(dd.Columns, c)
			}
			it.Dropdown = dd
		}
		items = append(items, it)
	}
	return items
}

func isActive(itemPath, currentPath string) bool {
	itemPath = trimSlash(itemPath)
	currentPath = trimSlash(currentPath)
	if itemPath == "/" || itemPath == "/en" {
		return currentPath == itemPath
	}
	if currentPath == itemPath {
		return true
	}
	return strings.HasPrefix(currentPath, itemPath+"/")
}

func trimSlash(p string) string {
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	if p == "" {
		return "/"
	}
	return p
}

// Key derives the stable identifier of an entry from its canonical English label.
func Key(label Text) string {
	return slugify(label.En)
}

// PanelID is the DOM id of the mega menu panel for key.
func PanelID(key string) string { return "dropdown-" + key }

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	dash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// Breadcrumbs builds localized breadcrumbs from the current path.
// Rules:
// - Always start with Home
// - Pages inside a dropdown get the dropdown title as the middle crumb
// - Unknown deeper segments use a prettified segment label
func Breadcrumbs(currentPath string) []Crumb {
	if currentPath == "" {
		currentPath = "/"
	}
	l := lang.Resolve(currentPath)
	home := lang.AddPrefix("/", l)
	bare := trimSlash(lang.StripPrefix(currentPath))

	crumbs := []Crumb{{Href: home, Label: Main[0].Label.In(l), Active: bare == "/"}}
	if bare == "/" {
		return crumbs
	}

	for _, e := range Main {
		if e.Path != "" && trimSlash(e.Path) == bare {
			return append(crumbs, Crumb{Href: lang.AddPrefix(e.Path, l), Label: e.Label.In(l), Active: true})
		}
		if e.Dropdown == nil {
			continue
		}
		for _, col := range e.Dropdown.Columns {
			for _, link := range col.Links {
				if trimSlash(link.Path) == bare {
					return append(crumbs,
						Crumb{Label: e.Dropdown.Title.In(l)},
						Crumb{Href: lang.AddPrefix(link.Path, l), Label: link.Title.In(l), Active: true},
					)
				}
			}
		}
	}

	parts := strings.Split(strings.TrimPrefix(bare, "/"), "/")
	href := ""
	for i, part := range parts {
		href += "/" + part
		crumbs = append(crumbs, Crumb{
			Href:   lang.AddPrefix(href+"/", l),
			Label:  titleFromSegment(part),
			Active: i == len(parts)-1,
		})
	}
	return crumbs
}

// LinkRef is a flattened leaf link with its category, used by search.
type LinkRef struct {
	Category    string
	Title       string
	Description string
	Href        string
	External    bool
}

// Links flattens every navigable entry of the projection for the language.
func Links(l lang.Language) []LinkRef {
	var out []LinkRef
	for _, it := range Items(l) {
		if it.Dropdown == nil {
			out = append(out, LinkRef{Category: it.Label, Title: it.Label, Href: it.Href, External: it.External})
			continue
		}
		for _, col := range it.Dropdown.Columns {
			for _, link := range col.Links {
				out = append(out, LinkRef{
					Category:    it.Dropdown.Title,
					Title:       link.Title,
					Description: link.Description,
					Href:        link.Href,
				})
			}
		}
	}
	return out
}

func titleFromSegment(seg string) string {
	if seg == "" {
		return seg
	}
	s := strings.ReplaceAll(seg, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	r := []rune(s)
	r[0] = toUpper(r[0])
	return string(r)
}

func toUpper(r rune) rune {
	// ASCII only is sufficient for slugs here
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}
