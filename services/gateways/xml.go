package gateways

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

// element is a request document node. Names are written verbatim, so
// prefixed names such as "soap:Body" need no namespace handling.
type element struct {
	name     string
	attrs    []xml.Attr
	text     string
	children []*element
}

func newElement(name string, attrs ...string) *element {
	e := &element{name: name}
	for i := 0; i+1 < len(attrs); i += 2 {
		e.set(attrs[i], attrs[i+1])
	}
	return e
}

func (e *element) set(name, value string) *element {
	e.attrs = append(e.attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
	return e
}

// sub appends and returns a new child.
func (e *element) sub(name string, attrs ...string) *element {
	child := newElement(name, attrs...)
	e.children = append(e.children, child)
	return child
}

// value appends a text child even when value is empty.
func (e *element) value(name, value string) *element {
	child := e.sub(name)
	child.text = value
	return child
}

// optional appends a text child only when value is set.
func (e *element) optional(name, value string) {
	if value != "" {
		e.value(name, value)
	}
}

func (e *element) append(child *element) {
	if child != nil {
		e.children = append(e.children, child)
	}
}

func (e *element) remove(name string) {
	kept := e.children[:0]
	for _, c := range e.children {
		if c.name != name {
			kept = append(kept, c)
		}
	}
	e.children = kept
}

func (e *element) find(name string) *element {
	for _, c := range e.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

func (e *element) encode(enc *xml.Encoder) error {
	start := xml.StartElement{Name: xml.Name{Local: e.name}, Attr: e.attrs}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if e.text != "" {
		if err := enc.EncodeToken(xml.CharData(e.text)); err != nil {
			return err
		}
	}
	for _, c := range e.children {
		if err := c.encode(enc); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// document serializes e and its children.
func (e *element) document() (string, error) {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	if err := e.encode(enc); err != nil {
		return "", fmt.Errorf("error encoding <%s>: %w", e.name, err)
	}
	if err := enc.Flush(); err != nil {
		return "", fmt.Errorf("error encoding <%s>: %w", e.name, err)
	}
	return buf.String(), nil
}

func yn(v bool) string {
	if v {
		return "Y"
	}
	return "N"
}

// node is a parsed response document. Lookups match local names only.
type node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Content  string     `xml:",chardata"`
	Children []*node    `xml:",any"`
}

func parseXML(raw []byte) (*node, error) {
	var root node
	if err := xml.Unmarshal(bytes.TrimPrefix(raw, []byte("\ufeff")), &root); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}
	return &root, nil
}

func (n *node) name() string { return n.XMLName.Local }

// child returns the first direct child called name.
func (n *node) child(name string) *node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.name() == name {
			return c
		}
	}
	return nil
}

// path walks direct children.
func (n *node) path(names ...string) *node {
	cur := n
	for _, name := range names {
		cur = cur.child(name)
	}
	return cur
}

func (n *node) has(name string) bool { return n.child(name) != nil }

// text is the trimmed content of the named direct child, or "".
func (n *node) text(name string) string {
	c := n.child(name)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Content)
}

func (n *node) all(name string) []*node {
	if n == nil {
		return nil
	}
	var out []*node
	for _, c := range n.Children {
		if c.name() == name {
			out = append(out, c)
		}
	}
	return out
}

func (n *node) attr(name string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
