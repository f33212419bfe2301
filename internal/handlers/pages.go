package handlers

import (
	"net/http"

	"opusconsulting.gr/opus-web/internal/cms"
	"opusconsulting.gr/opus-web/internal/lang"
	"opusconsulting.gr/opus-web/internal/search"
)

// PageData is the view model of a content page.
type PageData struct {
	Layout
	Page cms.Page
	Home bool
}

// BuildPageData wraps a loaded page in the shared layout.
func BuildPageData(req Request, page cms.Page) PageData {
	return PageData{
		Layout: NewLayout(req, page.Title),
		Page:   page,
		Home:   page.Path == "/",
	}
}

// SearchData is the view model of the search page and its results fragment.
type SearchData struct {
	Layout
	Query   string
	Results search.ResultSet
	Action  string
}

// BuildSearchData binds a query and its results.
func BuildSearchData(req Request, query string, results search.ResultSet) SearchData {
	lay := NewLayout(req, "")
	lay.Title = lay.T.T("search.title") + " | " + lay.T.T("site.name")
	return SearchData{
		Layout:  lay,
		Query:   query,
		Results: results,
		Action:  req.Path,
	}
}

// ErrorData is the view model of an error page.
type ErrorData struct {
	Layout
	Status  int
	Heading string
	Body    string
	Home    string
}

// BuildErrorData picks the localized copy for status.
func BuildErrorData(req Request, status int) ErrorData {
	lay := NewLayout(req, "")
	key := "error.internal"
	if status == http.StatusNotFound {
		key = "error.not_found"
	}
	heading := lay.T.T(key + ".title")
	lay.Title = heading + " | " + lay.T.T("site.name")
	lay.Breadcrumbs = nil
	return ErrorData{
		Layout:  lay,
		Status:  status,
		Heading: heading,
		Body:    lay.T.T(key + ".body"),
		Home:    lang.AddPrefix("/", lay.Lang),
	}
}
