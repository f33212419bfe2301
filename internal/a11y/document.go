// Package a11y keeps ARIA state and keyboard focus consistent for the header
// navigation. It works on an x/net/html tree so the same logic runs as a
// post-render pass on the server and in tests.
package a11y

import (
	"bytes"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// FocusableSelector matches elements that take keyboard focus.
const FocusableSelector = `a[href], button, [tabindex]:not([tabindex="-1"])`

// Document is a parsed HTML tree plus the element holding focus.
type Document struct {
	root     *html.Node
	fragment bool
	active   *html.Node
}

// NewDocument wraps an existing tree.
func NewDocument(root *html.Node) *Document {
	return &Document{root: root}
}

// Parse reads a full HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Document{root: root}, nil
}

// ParseFragment reads markup meant for the inside of <body>.
func ParseFragment(r io.Reader) (*Document, error) {
	nodes, err := html.ParseFragment(r, &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body})
	if err != nil {
		return nil, err
	}
	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return &Document{root: root, fragment: true}, nil
}

// Root returns the document node.
func (d *Document) Root() *html.Node { return d.root }

// Active returns the focused element, or nil.
func (d *Document) Active() *html.Node { return d.active }

// Focus moves focus to n. A nil node clears focus.
func (d *Document) Focus(n *html.Node) { d.active = n }

// Selection returns a goquery selection over the whole tree.
func (d *Document) Selection() *goquery.Selection {
	return goquery.NewDocumentFromNode(d.root).Selection
}

// ByID returns the element with the given id, or nil.
func (d *Document) ByID(id string) *html.Node {
	if d == nil || d.root == nil || id == "" {
		return nil
	}
	s := d.Selection().Find("[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		v, _ := s.Attr("id")
		return v == id
	})
	if s.Length() == 0 {
		return nil
	}
	return s.Nodes[0]
}

// Controlling returns the elements whose aria-controls names id.
func (d *Document) Controlling(id string) []*html.Node {
	if d == nil || d.root == nil || id == "" {
		return nil
	}
	return d.Selection().Find("[aria-controls]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		v, _ := s.Attr("aria-controls")
		for _, f := range strings.Fields(v) {
			if f == id {
				return true
			}
		}
		return false
	}).Nodes
}

// Render writes the tree back out. Fragments render without the synthetic root.
func (d *Document) Render(w io.Writer) error {
	if !d.fragment {
		return html.Render(w, d.root)
	}
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(w, c); err != nil {
			return err
		}
	}
	return nil
}

// String renders the tree, ignoring write errors.
func (d *Document) String() string {
	var buf bytes.Buffer
	_ = d.Render(&buf)
	return buf.String()
}

// Focusables lists the focusable descendants of container in document order.
func Focusables(container *html.Node) []*html.Node {
	if container == nil {
		return nil
	}
	return goquery.NewDocumentFromNode(container).Find(FocusableSelector).Nodes
}

// Attr returns the value of the named attribute.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces an attribute.
func SetAttr(n *html.Node, key, val string) {
	if n == nil {
		return
	}
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr drops an attribute if present.
func RemoveAttr(n *html.Node, key string) {
	if n == nil {
		return
	}
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		out = append(out, a)
	}
	n.Attr = out
}

func boolAttr(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

// FocusPosition returns the 1-based position of the focused element among
// every focusable in the document, or 0 when nothing is focused.
func (d *Document) FocusPosition() int {
	if d == nil {
		return 0
	}
	return indexOf(Focusables(d.root), d.active) + 1
}

// FocusAt focuses the element at the 1-based position pos among every
// focusable in the document. Out of range positions clear focus.
func (d *Document) FocusAt(pos int) {
	if d == nil {
		return
	}
	items := Focusables(d.root)
	if pos < 1 || pos > len(items) {
		d.active = nil
		return
	}
	d.active = items[pos-1]
}

func contains(container, n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == container {
			return true
		}
	}
	return false
}
