/*package config reads the XML run configuration. The document is kept as a
generic tree of Elements so that engines can pull out their own keys without
this package knowing about them.

A key is the name of a child element whose text is the value:

   <iS3D>
     <engine>static</engine>
     <oversample>1</oversample>
   </iS3D>
*/
package config

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Element is one XML element.
type Element struct {
	Name     string
	Attrs    map[string]string
	Text     string
	Children []*Element
}

// Load reads and parses the XML file at path.
func Load(path string) (*Element, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file %s: %w", path, err)
	}
	root, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("could not parse config file %s: %w", path, err)
	}
	return root, nil
}

// Parse parses an XML document and returns its root element.
func Parse(b []byte) (*Element, error) {
	dec := xml.NewDecoder(bytes.NewReader(b))

	var stack []*Element
	var root *Element
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Name: t.Name.Local, Attrs: map[string]string{}}
			for _, a := range t.Attr {
				el.Attrs[a.Name.Local] = a.Value
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("more than one root element")
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			el := stack[len(stack)-1]
			el.Text = strings.TrimSpace(el.Text)
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("document has no root element")
	}
	return root, nil
}

// Child returns the first child with the given name, or nil. It is safe to
// call on a nil Element.
func (el *Element) Child(name string) *Element {
	if el == nil {
		return nil
	}
	for _, c := range el.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns every child with the given name, in document order.
func (el *Element) ChildrenNamed(name string) []*Element {
	if el == nil {
		return nil
	}
	var out []*Element
	for _, c := range el.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Path follows a chain of child names, e.g. Path("SoftParticlization", "iS3D").
func (el *Element) Path(names ...string) *Element {
	for _, name := range names {
		el = el.Child(name)
	}
	return el
}

// Has reports whether key is present.
func (el *Element) Has(key string) bool { return el.Child(key) != nil }

// String returns the text of key, or def if key is missing.
func (el *Element) String(key, def string) string {
	c := el.Child(key)
	if c == nil {
		return def
	}
	return c.Text
}

// RequireString returns the text of key, or an error if the key is missing or
// empty.
func (el *Element) RequireString(key string) (string, error) {
	c := el.Child(key)
	if c == nil || c.Text == "" {
		return "", fmt.Errorf("<%s> is missing the required key <%s>",
			el.name(), key)
	}
	return c.Text, nil
}

// Int returns key parsed as an int, or def if the key is missing.
func (el *Element) Int(key string, def int) (int, error) {
	c := el.Child(key)
	if c == nil {
		return def, nil
	}
	n, err := strconv.Atoi(c.Text)
	if err != nil {
		return def, fmt.Errorf("<%s><%s> is '%s', which is not an integer",
			el.name(), key, c.Text)
	}
	return n, nil
}

// Float returns key parsed as a float64, or def if the key is missing.
func (el *Element) Float(key string, def float64) (float64, error) {
	c := el.Child(key)
	if c == nil {
		return def, nil
	}
	x, err := strconv.ParseFloat(c.Text, 64)
	if err != nil {
		return def, fmt.Errorf("<%s><%s> is '%s', which is not a number",
			el.name(), key, c.Text)
	}
	return x, nil
}

// Bool returns key parsed as a bool, or def if the key is missing. Besides
// strconv's spellings, "on"/"off" and "yes"/"no" are accepted.
func (el *Element) Bool(key string, def bool) (bool, error) {
	c := el.Child(key)
	if c == nil {
		return def, nil
	}
	switch strings.ToLower(c.Text) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	b, err := strconv.ParseBool(c.Text)
	if err != nil {
		return def, fmt.Errorf("<%s><%s> is '%s', which is not a boolean",
			el.name(), key, c.Text)
	}
	return b, nil
}

// Attr returns the attribute name, or def if it isn't set.
func (el *Element) Attr(name, def string) string {
	if el == nil {
		return def
	}
	if v, ok := el.Attrs[name]; ok {
		return v
	}
	return def
}

// IntAttr returns the attribute name parsed as an int, or def if it isn't set.
func (el *Element) IntAttr(name string, def int) (int, error) {
	v := el.Attr(name, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("<%s %s='%s'> is not an integer",
			el.name(), name, v)
	}
	return n, nil
}

// FloatAttr returns the attribute name parsed as a float64, or def if it
// isn't set.
func (el *Element) FloatAttr(name string, def float64) (float64, error) {
	v := el.Attr(name, "")
	if v == "" {
		return def, nil
	}
	x, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def, fmt.Errorf("<%s %s='%s'> is not a number",
			el.name(), name, v)
	}
	return x, nil
}

func (el *Element) name() string {
	if el == nil {
		return "nil"
	}
	return el.Name
}
