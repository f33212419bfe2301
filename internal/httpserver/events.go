package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"opusconsulting.gr/opus-web/internal/a11y"
	"opusconsulting.gr/opus-web/internal/lang"
	"opusconsulting.gr/opus-web/internal/menu"
)

var (
	errUnknownEvent = errors.New("unknown event")
	errBadHref      = errors.New("href must be a site path")
)

type eventInput struct {
	event    menu.Event
	returnTo string
	// focus is the 1-based position of the focused header control, 0 when
	// the client reported none.
	focus int
}

// parseEvent reads the form posted by the header. return_to and href must be
// site-local paths so the response can never redirect off site.
func parseEvent(r *http.Request) (eventInput, error) {
	if err := r.ParseForm(); err != nil {
		return eventInput{}, err
	}
	f := r.PostForm
	kind, ok := menu.ParseEventKind(f.Get("event"))
	if !ok {
		return eventInput{}, fmt.Errorf("%w: %q", errUnknownEvent, f.Get("event"))
	}
	returnTo := "/"
	if p := f.Get("return_to"); localPath(p) {
		returnTo = p
	}

	ev := menu.Event{
		Kind:   kind,
		Key:    f.Get("key"),
		Target: menu.ParseTarget(f.Get("target")),
		Path:   returnTo,
		Press: a11y.Key{
			Name:  f.Get("keyname"),
			Shift: f.Get("shift") == "true" || f.Get("shift") == "1",
		},
	}
	var err error
	if ev.Width, err = formInt(f.Get("width")); err != nil {
		return eventInput{}, fmt.Errorf("width: %w", err)
	}
	if ev.ScrollY, err = formInt(f.Get("scroll")); err != nil {
		return eventInput{}, fmt.Errorf("scroll: %w", err)
	}
	focus, err := formInt(f.Get("focus"))
	if err != nil {
		return eventInput{}, fmt.Errorf("focus: %w", err)
	}
	if href := f.Get("href"); href != "" {
		if !localPath(href) {
			return eventInput{}, errBadHref
		}
		ev.Href = href
	}
	if kind == menu.EventSelect && ev.Href == "" {
		return eventInput{}, errBadHref
	}
	if l, ok := lang.Parse(f.Get("lang")); ok {
		ev.Lang = l
	}
	return eventInput{event: ev, returnTo: returnTo, focus: focus}, nil
}

func formInt(v string) (int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		n = 0
	}
	return n, nil
}

func localPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.ContainsAny(p, "\\\r\n")
}
