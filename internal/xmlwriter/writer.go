// =============================================================================
// Finance Analyzer - XML Writer Module
// =============================================================================
//
// This module renders a tree of elements as an indented XML document. The
// report package builds the tree; this module only knows about elements,
// attributes and text.
//
// XML STRUCTURE:
//   A summary export looks like this:
//
//   <summary source="extrato.csv">
//     <totalExpenses>1005.00</totalExpenses>
//     <categories count="2">
//       <category n="1" name="housing">1000.00</category>
//       <category n="2" name="food">5.00</category>
//     </categories>
//     <months/>                        <!-- Empty elements self-close -->
//   </summary>
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"
	"strings"
)

// =============================================================================
// XML GENERATION OPTIONS
// =============================================================================

// GenerateOptions contains options for XML generation.
type GenerateOptions struct {
	// Indent is the string used for indentation.
	// Default: "  " (two spaces)
	Indent string

	// IncludeXMLDeclaration determines whether to include the XML declaration.
	// Default: true
	IncludeXMLDeclaration bool

	// XMLVersion is the XML version for the declaration.
	// Default: "1.0"
	XMLVersion string

	// Encoding is the encoding for the XML declaration.
	// Default: "UTF-8"
	Encoding string

	// RootAttributes are additional attributes for the root element, written
	// in key order after the root's own attributes.
	// Example: {"xmlns": "http://example.com/schema"}
	RootAttributes map[string]string
}

// DefaultGenerateOptions returns the default generation options.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Indent:                "  ",
		IncludeXMLDeclaration: true,
		XMLVersion:            "1.0",
		Encoding:              "UTF-8",
		RootAttributes:        make(map[string]string),
	}
}

// =============================================================================
// ELEMENT TREE
// =============================================================================

// Element is a node of the document. An element carries either a text
// value or children; when both are set the value wins.
type Element struct {
	Name       string
	Attributes []xml.Attr
	Value      string
	Children   []Element
}

// NewElement creates an element with a text value.
func NewElement(name, value string) Element {
	return Element{Name: name, Value: value}
}

// WithAttr returns a copy of e with an extra attribute.
func (e Element) WithAttr(name, value string) Element {
	attrs := make([]xml.Attr, len(e.Attributes), len(e.Attributes)+1)
	copy(attrs, e.Attributes)
	e.Attributes = append(attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
	return e
}

// Add appends children to e.
func (e *Element) Add(children ...Element) {
	e.Children = append(e.Children, children...)
}

// =============================================================================
// XML GENERATION FUNCTIONS
// =============================================================================

// Generate renders root as an XML document with the default options.
func Generate(root Element) ([]byte, error) {
	return GenerateWithOptions(root, DefaultGenerateOptions())
}

// GenerateWithOptions renders root with custom options.
//
// PARAMETERS:
//   - root: The document element.
//   - options: The generation options.
//
// RETURNS:
//   - The XML document as a byte slice.
//   - An error if any element or attribute has an invalid name.
func GenerateWithOptions(root Element, options GenerateOptions) ([]byte, error) {
	extra := make([]string, 0, len(options.RootAttributes))
	for key := range options.RootAttributes {
		extra = append(extra, key)
	}
	sort.Strings(extra)
	for _, key := range extra {
		root = root.WithAttr(key, options.RootAttributes[key])
	}

	if err := checkTree(root); err != nil {
		return nil, fmt.Errorf("failed to marshal XML: %w", err)
	}

	var buffer bytes.Buffer

	if options.IncludeXMLDeclaration {
		buffer.WriteString(fmt.Sprintf("<?xml version=\"%s\" encoding=\"%s\"?>\n",
			options.XMLVersion, options.Encoding))
	}

	writeElement(&buffer, root, options.Indent, 0)

	return buffer.Bytes(), nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// checkTree verifies every element and attribute name in the tree.
func checkTree(e Element) error {
	if err := checkName(e.Name); err != nil {
		return err
	}
	for _, attr := range e.Attributes {
		if err := checkName(attr.Name.Local); err != nil {
			return fmt.Errorf("element <%s>: %w", e.Name, err)
		}
	}
	for _, child := range e.Children {
		if err := checkTree(child); err != nil {
			return err
		}
	}
	return nil
}

// checkName rejects names that would produce malformed XML.
func checkName(name string) error {
	if name == "" {
		return fmt.Errorf("empty name")
	}
	if strings.HasPrefix(strings.ToLower(name), "xml") && name != "xmlns" && !strings.HasPrefix(name, "xmlns:") {
		return fmt.Errorf("name '%s' uses the reserved 'xml' prefix", name)
	}
	for i, r := range name {
		switch {
		case r == '_' || r == ':' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case i > 0 && (r == '-' || r == '.' || (r >= '0' && r <= '9')):
		default:
			return fmt.Errorf("invalid character %q in name '%s'", r, name)
		}
	}
	return nil
}

// writeElement writes an XML element to the buffer with indentation.
func writeElement(buffer *bytes.Buffer, element Element, indent string, level int) {
	// Write indentation.
	buffer.WriteString(strings.Repeat(indent, level))

	// Write opening tag.
	buffer.WriteString("<")
	buffer.WriteString(element.Name)

	// Write attributes.
	for _, attr := range element.Attributes {
		buffer.WriteString(fmt.Sprintf(" %s=\"%s\"", attr.Name.Local, escapeXML(attr.Value)))
	}

	// Check if element has children or value.
	if len(element.Children) == 0 && element.Value == "" {
		// Self-closing tag.
		buffer.WriteString("/>\n")
		return
	}

	buffer.WriteString(">")

	// Write value or children.
	if element.Value != "" {
		// Simple element with text value.
		buffer.WriteString(escapeXML(element.Value))
	} else {
		// Element with children.
		buffer.WriteString("\n")

		for _, child := range element.Children {
			writeElement(buffer, child, indent, level+1)
		}

		// Write indentation for closing tag.
		buffer.WriteString(strings.Repeat(indent, level))
	}

	// Write closing tag.
	buffer.WriteString("</")
	buffer.WriteString(element.Name)
	buffer.WriteString(">\n")
}

// escapeXML escapes special characters for XML.
func escapeXML(s string) string {
	var buffer bytes.Buffer

	for _, r := range s {
		switch r {
		case '&':
			buffer.WriteString("&amp;")
		case '<':
			buffer.WriteString("&lt;")
		case '>':
			buffer.WriteString("&gt;")
		case '"':
			buffer.WriteString("&quot;")
		case '\'':
			buffer.WriteString("&apos;")
		default:
			buffer.WriteRune(r)
		}
	}

	return buffer.String()
}
