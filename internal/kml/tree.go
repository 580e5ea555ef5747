package kml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"kmzclean/internal/faults"
)

// MaxDepth bounds both tree construction and searches.
const MaxDepth = 64

// Node is one element of a parsed KML document.
type Node struct {
	Name     string
	Text     string
	Children []*Node
}

// Child returns the first direct child with the given local name.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Parse builds an element tree from a KML document.
func Parse(data []byte) (*Node, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.Strict = true
	// KML in the wild is sometimes declared as latin-1; byte-for-byte passthrough
	// is enough for the numeric and filename values read from it.
	decoder.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) { return input, nil }

	var (
		root  *Node
		stack []*Node
		text  []*strings.Builder
	)
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, faults.Wrap(faults.ErrMalformedKML, "parse", "decode xml", "", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) >= MaxDepth {
				return nil, faults.Wrap(faults.ErrMalformedKML, "parse", "decode xml", fmt.Sprintf("nesting exceeds %d levels", MaxDepth), nil)
			}
			node := &Node{Name: t.Name.Local}
			if len(stack) == 0 {
				if root != nil {
					return nil, faults.Wrap(faults.ErrMalformedKML, "parse", "decode xml", "multiple root elements", nil)
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)
			text = append(text, &strings.Builder{})
		case xml.EndElement:
			top := len(stack) - 1
			stack[top].Text = strings.TrimSpace(text[top].String())
			stack = stack[:top]
			text = text[:top]
		case xml.CharData:
			if len(text) > 0 {
				text[len(text)-1].Write(t)
			}
		}
	}
	if root == nil {
		return nil, faults.Wrap(faults.ErrMalformedKML, "parse", "decode xml", "document has no root element", nil)
	}
	return root, nil
}

// Find walks the tree in document order and returns the first node, root
// included, for which match reports true. Nodes deeper than maxDepth below
// root are not visited.
func Find(root *Node, match func(*Node) bool, maxDepth int) *Node {
	return find(root, match, 0, maxDepth)
}

func find(n *Node, match func(*Node) bool, depth, maxDepth int) *Node {
	if n == nil || depth > maxDepth {
		return nil
	}
	if match(n) {
		return n
	}
	for _, c := range n.Children {
		if found := find(c, match, depth+1, maxDepth); found != nil {
			return found
		}
	}
	return nil
}

// Named matches elements by case-sensitive local name, as KML element names are.
func Named(name string) func(*Node) bool {
	return func(n *Node) bool { return n.Name == name }
}
