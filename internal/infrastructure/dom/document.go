// Package dom implements the document query interface over an HTML snapshot.
package dom

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/sakhi383/Walmart-Cost-Splitter/internal/domain"
)

// HiddenMarker is stamped by the live snapshotter on elements that had no
// layout box in the rendered page.
const HiddenMarker = "data-splitcart-hidden"

// Document is a parsed HTML snapshot
type Document struct {
	doc *goquery.Document
	url string

	mu    sync.Mutex
	nodes map[*html.Node]*Node
}

var _ domain.Document = (*Document)(nil)

// Parse reads an HTML snapshot taken from pageURL
func Parse(r io.Reader, pageURL string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{
		doc:   doc,
		url:   pageURL,
		nodes: make(map[*html.Node]*Node),
	}, nil
}

// ParseString is Parse over a string
func ParseString(s, pageURL string) (*Document, error) {
	return Parse(strings.NewReader(s), pageURL)
}

// URL returns the page address the snapshot came from
func (d *Document) URL() string { return d.url }

// Find returns every element matching selector in document order
func (d *Document) Find(selector string) []domain.Node {
	return d.wrapAll(d.doc.Find(selector))
}

// wrap returns the single Node value for an html node
func (d *Document) wrap(n *html.Node) *Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	if w, ok := d.nodes[n]; ok {
		return w
	}
	w := &Node{doc: d, n: n}
	d.nodes[n] = w
	return w
}

func (d *Document) wrapAll(sel *goquery.Selection) []domain.Node {
	out := make([]domain.Node, 0, len(sel.Nodes))
	for _, n := range sel.Nodes {
		if n.Type == html.ElementNode {
			out = append(out, d.wrap(n))
		}
	}
	return out
}

// Node is one element of a Document
type Node struct {
	doc *Document
	n   *html.Node
}

var _ domain.Node = (*Node)(nil)

// Text returns the concatenated text content
func (n *Node) Text() string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(h *html.Node) {
		if h.Type == html.TextNode {
			sb.WriteString(h.Data)
		}
		for c := h.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n.n)
	return sb.String()
}

// Visible applies layout-free visibility rules to the node and its ancestors
func (n *Node) Visible() bool {
	for h := n.n; h != nil; h = h.Parent {
		if h.Type == html.DocumentNode {
			return true
		}
		if h.Type != html.ElementNode || hidden(h) {
			return false
		}
	}
	return true
}

// Parent returns the parent element
func (n *Node) Parent() domain.Node {
	p := n.n.Parent
	if p == nil || p.Type != html.ElementNode {
		return nil
	}
	return n.doc.wrap(p)
}

// NextSibling returns the next element sibling
func (n *Node) NextSibling() domain.Node {
	for s := n.n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return n.doc.wrap(s)
		}
	}
	return nil
}

// Find returns descendants matching selector
func (n *Node) Find(selector string) []domain.Node {
	return n.doc.wrapAll(n.doc.doc.FindNodes(n.n).Find(selector))
}

// Matches reports whether the node matches selector
func (n *Node) Matches(selector string) bool {
	return n.doc.doc.FindNodes(n.n).Is(selector)
}

// Contains reports whether other is n or lies inside it
func (n *Node) Contains(other domain.Node) bool {
	o, ok := other.(*Node)
	if !ok || o == nil || o.doc != n.doc {
		return false
	}
	for h := o.n; h != nil; h = h.Parent {
		if h == n.n {
			return true
		}
	}
	return false
}

// Attr returns an attribute value
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}
