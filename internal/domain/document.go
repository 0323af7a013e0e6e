package domain

import "context"

// Node is a read-only element of the host document.
//
// Implementations must hand out the same Node value for the same underlying
// element, so nodes can be compared with == and used as map keys.
type Node interface {
	// Text returns the raw text content of the node and its descendants.
	Text() string
	// Visible reports whether the node is rendered (non-zero area and not
	// inside a subtree hidden from assistive technology).
	Visible() bool
	// Parent returns the parent element, or nil at the root.
	Parent() Node
	// NextSibling returns the next element sibling, or nil.
	NextSibling() Node
	// Find returns descendants matching a CSS selector in document order.
	Find(selector string) []Node
	// Matches reports whether the node itself matches a CSS selector.
	Matches(selector string) bool
	// Contains reports whether other is this node or one of its descendants.
	Contains(other Node) bool
	// Attr returns the value of an attribute.
	Attr(name string) (string, bool)
}

// Document is a snapshot of a page that can be queried by selector.
type Document interface {
	// URL is the address of the page the snapshot was taken from.
	URL() string
	// Find returns every element matching a CSS selector in document order.
	Find(selector string) []Node
}

// DocumentSource produces a document snapshot for one extraction pass.
type DocumentSource interface {
	Snapshot(ctx context.Context) (Document, error)
}
