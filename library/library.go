// Package library is the built-in catalog of element templates. Each
// template is stored as structured shape primitives and can be turned into
// the creation payload that the canvas accepts on drop.
package library

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gogpu/ggedit"
	"github.com/gogpu/ggedit/fragment"
	"github.com/gogpu/ggedit/shape"
)

// Template is one draggable library entry.
type Template struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Icon     string     `json:"icon"`
	Category string     `json:"category"`
	Content  shape.List `json:"content"`
}

// Payload returns the JSON creation payload for t. Its fragment is written
// from the template's primitives.
func (t Template) Payload() ([]byte, error) {
	svg, err := fragment.Marshal(t.Content)
	if err != nil {
		return nil, fmt.Errorf("library: %s: %w", t.ID, err)
	}
	return json.Marshal(ggedit.Payload{ID: t.ID, Name: t.Name, SVG: svg, Category: t.Category})
}

func (t Template) clone() Template {
	t.Content = t.Content.Clone()
	return t
}

// Category groups templates under a display name.
type Category struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Icon      string     `json:"icon"`
	Templates []Template `json:"templates"`
}

func (c Category) clone() Category {
	ts := make([]Template, len(c.Templates))
	for i, t := range c.Templates {
		ts[i] = t.clone()
	}
	c.Templates = ts
	return c
}

// Categories returns the catalog in display order.
func Categories() []Category {
	out := make([]Category, len(catalog))
	for i, c := range catalog {
		out[i] = c.clone()
	}
	return out
}

// All returns every template in display order.
func All() []Template {
	var out []Template
	for _, c := range catalog {
		for _, t := range c.Templates {
			out = append(out, t.clone())
		}
	}
	return out
}

// Lookup returns the template with the given id.
func Lookup(id string) (Template, bool) {
	for _, c := range catalog {
		for _, t := range c.Templates {
			if t.ID == id {
				return t.clone(), true
			}
		}
	}
	return Template{}, false
}

// Search keeps templates whose name contains term, ignoring case.
// Categories left empty are dropped; order is preserved. An empty term
// returns the whole catalog.
func Search(term string) []Category {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return Categories()
	}
	var out []Category
	for _, c := range catalog {
		var hits []Template
		for _, t := range c.Templates {
			if strings.Contains(strings.ToLower(t.Name), term) {
				hits = append(hits, t.clone())
			}
		}
		if len(hits) > 0 {
			c.Templates = hits
			out = append(out, c)
		}
	}
	return out
}
