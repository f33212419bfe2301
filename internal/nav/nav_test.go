package nav

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"opusconsulting.gr/opus-web/internal/lang"
)

func TestItemsSameShapeAcrossLanguages(t *testing.T) {
	t.Parallel()

	el := Items(lang.Greek)
	en := Items(lang.English)
	require.Len(t, en, len(el))
	for i := range el {
		require.Equal(t, el[i].Key, en[i].Key)
		require.Equal(t, el[i].HasDropdown(), en[i].HasDropdown())
		require.Equal(t, el[i].External, en[i].External)
	}
	require.Equal(t, "Αρχική", el[0].Label)
	require.Equal(t, "Home", en[0].Label)
}

func TestItemsHrefs(t *testing.T) {
	t.Parallel()

	en := Items(lang.English)
	el := Items(lang.Greek)

	projects, ok := Find(en, "projects")
	require.True(t, ok)
	require.Equal(t, "/en/projects/", projects.Href)

	projects, ok = Find(el, "projects")
	require.True(t, ok)
	require.Equal(t, "/projects/", projects.Href)

	for _, items := range [][]Item{el, en} {
		learning, ok := Find(items, "e-learning")
		require.True(t, ok)
		require.True(t, learning.External)
		require.Equal(t, "https://opuslearning.gr/", learning.Href)
	}

	services, ok := Find(en, "services")
	require.True(t, ok)
	require.Empty(t, services.Href)
	require.Equal(t, LayoutGrid, services.Dropdown.Layout)
	require.Len(t, services.Dropdown.Columns, 2)
	for _, col := range services.Dropdown.Columns {
		require.Len(t, col.Links, 4)
		for _, l := range col.Links {
			require.True(t, strings.HasPrefix(l.Href, "/en/services/"), l.Href)
		}
	}
	require.Equal(t, "dropdown-services", services.PanelID())
}

func TestItemsReturnsFreshProjection(t *testing.T) {
	t.Parallel()

	a := Items(lang.Greek)
	a[0].Label = "mutated"
	a[1].Dropdown.Columns[0].Links[0].Title = "mutated"

	b := Items(lang.Greek)
	require.Equal(t, "Αρχική", b[0].Label)
	require.NotEqual(t, "mutated", b[1].Dropdown.Columns[0].Links[0].Title)
	require.Equal(t, "Αρχική", Main[0].Label.El)
}

func TestValidateCanonicalTable(t *testing.T) {
	t.Parallel()

	require.NoError(t, Validate(Main))
}

func TestValidateRejectsBrokenRows(t *testing.T) {
	t.Parallel()

	both := []Entry{{Path: "/x/", Label: Text{En: "X"}, Dropdown: &DropdownEntry{}}}
	err := Validate(both)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidEntry))

	neither := []Entry{{Label: Text{En: "Y"}}}
	require.ErrorIs(t, Validate(neither), ErrInvalidEntry)

	dup := []Entry{{Path: "/a/", Label: Text{En: "Same"}}, {Path: "/b/", Label: Text{En: "Same"}}}
	require.ErrorIs(t, Validate(dup), ErrInvalidEntry)
}

func TestKeyFromEnglishLabel(t *testing.T) {
	t.Parallel()

	require.Equal(t, "our-company", Key(Text{El: "Η Εταιρεία μας", En: "Our Company"}))
	require.Equal(t, "esg-strategy-implementation", Key(Text{En: "ESG Strategy & Implementation"}))
	require.Equal(t, []string{"our-company", "services"}, DropdownKeys())
}

func TestBuildMarksActive(t *testing.T) {
	t.Parallel()

	items := Build("/en/vision/goals/")
	company, _ := Find(items, "our-company")
	require.True(t, company.Active)
	require.Equal(t, "Our Company", company.Label)

	var goals Link
	for _, col := range company.Dropdown.Columns {
		for _, l := range col.Links {
			if l.Href == "/en/vision/goals/" {
				goals = l
			}
		}
	}
	require.True(t, goals.Active)

	home, _ := Find(items, "home")
	require.False(t, home.Active)

	home, _ = Find(Build("/"), "home")
	require.True(t, home.Active)
}

func TestBreadcrumbs(t *testing.T) {
	t.Parallel()

	crumbs := Breadcrumbs("/en/services/energy-studies/")
	require.Len(t, crumbs, 3)
	require.Equal(t, "Home", crumbs[0].Label)
	require.Equal(t, "/en/", crumbs[0].Href)
	require.Equal(t, "Our Services", crumbs[1].Label)
	require.Empty(t, crumbs[1].Href)
	require.Equal(t, "Energy studies", crumbs[2].Label)
	require.True(t, crumbs[2].Active)

	crumbs = Breadcrumbs("/projects/")
	require.Len(t, crumbs, 2)
	require.Equal(t, "Αρχική", crumbs[0].Label)
	require.Equal(t, "Έργα", crumbs[1].Label)

	crumbs = Breadcrumbs("/")
	require.Len(t, crumbs, 1)
	require.True(t, crumbs[0].Active)

	crumbs = Breadcrumbs("/en/search/")
	require.Equal(t, "Search", crumbs[len(crumbs)-1].Label)
}

func TestPathsAndLinks(t *testing.T) {
	t.Parallel()

	paths := Paths()
	require.Contains(t, paths, "/")
	require.Contains(t, paths, "/services/esg-strategy/")
	require.Len(t, paths, 3+5+8)
	for _, p := range paths {
		require.True(t, strings.HasSuffix(p, "/"), p)
	}

	links := Links(lang.English)
	require.Len(t, links, 4+5+8)
	require.Equal(t, "Our Company", links[1].Category)
}
