package builder

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/poiesic/docfeed/core"
)

// DefaultMaxXMLBytes is the payload size ceiling applied before parsing.
const DefaultMaxXMLBytes = 10 << 20

// recordTagMarkers mark an element as one-record-each when any of them
// appears in the tag name of a direct child of the root.
var recordTagMarkers = []string{"doc", "item", "record"}

// XMLBuilder converts an XML payload into records. If any direct child
// of the root element looks like a record container (its tag contains
// "doc", "item", or "record", case-insensitive), each such child becomes
// one record. Otherwise the whole root element is a single record.
//
// The parser builds an element tree from decoder tokens and never loads
// DTDs or resolves external entities; payloads carrying a DOCTYPE or an
// undeclared entity reference are rejected as malformed.
type XMLBuilder struct {
	maxBytes int
}

// XMLOption configures an XMLBuilder.
type XMLOption func(*XMLBuilder)

// WithMaxPayloadBytes overrides the payload size ceiling.
func WithMaxPayloadBytes(n int) XMLOption {
	return func(b *XMLBuilder) {
		b.maxBytes = n
	}
}

// NewXMLBuilder returns an XMLBuilder with the default size ceiling.
func NewXMLBuilder(opts ...XMLOption) *XMLBuilder {
	b := &XMLBuilder{maxBytes: DefaultMaxXMLBytes}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build parses payload and returns its records.
func (b *XMLBuilder) Build(payload string) ([]core.Record, error) {
	if strings.TrimSpace(payload) == "" {
		return nil, ErrEmptyPayload
	}
	if len(payload) > b.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds ceiling of %d", ErrPayloadTooLarge, len(payload), b.maxBytes)
	}

	root, err := parseTree(payload)
	if err != nil {
		return nil, err
	}

	var containers []*element
	for _, child := range root.children {
		if isRecordTag(child.name) {
			containers = append(containers, child)
		}
	}

	if len(containers) == 0 {
		rec := core.Record{}
		flattenElement(root, "", rec)
		return []core.Record{rec}, nil
	}

	records := make([]core.Record, 0, len(containers))
	for _, container := range containers {
		rec := core.Record{}
		flattenElement(container, "", rec)
		records = append(records, rec)
	}
	return records, nil
}

func isRecordTag(name string) bool {
	lowered := strings.ToLower(name)
	for _, marker := range recordTagMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

// element is a parsed XML element: tag name, attributes, the
// concatenation of its direct character data, and child elements in
// document order.
type element struct {
	name     string
	attrs    []xml.Attr
	text     strings.Builder
	children []*element
}

func parseTree(payload string) (*element, error) {
	dec := xml.NewDecoder(strings.NewReader(payload))
	dec.Strict = true

	var root *element
	var stack []*element
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
		}
		switch t := tok.(type) {
		case xml.Directive:
			if bytes.HasPrefix(bytes.TrimSpace(t), []byte("DOCTYPE")) {
				return nil, fmt.Errorf("%w: DOCTYPE declarations are not allowed", ErrMalformedPayload)
			}
		case xml.StartElement:
			el := &element{name: t.Name.Local, attrs: t.Attr}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("%w: multiple root elements", ErrMalformedPayload)
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("%w: no root element", ErrMalformedPayload)
	}
	return root, nil
}

// flattenElement writes el's attributes, direct text, and children into
// rec. The element's own sanitized tag joins the accumulated prefix to
// form the working path. Attribute fields get an "attr" suffix and, at
// the record root only, keep their bare name without the working path.
// Elements with no attributes, no text, and no children leave no trace.
func flattenElement(el *element, prefix string, rec core.Record) {
	working := joinField(prefix, core.NormalizeFieldName(el.name))

	for _, attr := range el.attrs {
		field := joinField(core.NormalizeFieldName(attr.Name.Local), "attr")
		if prefix != "" {
			field = joinField(working, field)
		}
		trimmed := strings.TrimSpace(attr.Value)
		if trimmed == "" {
			continue
		}
		rec[field] = core.CoerceToken(trimmed)
	}

	if text := strings.TrimSpace(el.text.String()); text != "" {
		rec[working] = core.CoerceToken(text)
	}

	for _, child := range el.children {
		flattenElement(child, working, rec)
	}
}
