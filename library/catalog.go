package library

import (
	"fmt"

	"github.com/gogpu/ggedit/fragment"
)

type entry struct {
	id, name, icon, markup string
}

type section struct {
	id, name, icon string
	entries        []entry
}

var sections = []section{
	{"basic", "Basic Shapes", "Square", []entry{
		{"rect", "Rectangle", "Square", `<rect width="100" height="60" fill="#3B82F6" stroke="#1E40AF" stroke-width="2" rx="4"/>`},
		{"circle", "Circle", "Circle", `<circle cx="50" cy="50" r="40" fill="#10B981" stroke="#047857" stroke-width="2"/>`},
		{"ellipse", "Ellipse", "Circle", `<ellipse cx="60" cy="40" rx="50" ry="30" fill="#F59E0B" stroke="#D97706" stroke-width="2"/>`},
		{"polygon", "Triangle", "Triangle", `<polygon points="50,10 90,80 10,80" fill="#EF4444" stroke="#DC2626" stroke-width="2"/>`},
		{"line", "Line", "Minus", `<line x1="10" y1="50" x2="90" y2="50" stroke="#6B7280" stroke-width="3" stroke-linecap="round"/>`},
		{"polyline", "Path", "Zap", `<polyline points="10,80 30,20 50,60 70,10 90,50" fill="none" stroke="#8B5CF6" stroke-width="3" stroke-linecap="round" stroke-linejoin="round"/>`},
	}},
	{"icons", "Icons", "Star", []entry{
		{"star", "Star", "Star", `<polygon points="50,5 61,35 95,35 68,57 79,91 50,70 21,91 32,57 5,35 39,35" fill="#F59E0B" stroke="#D97706" stroke-width="1"/>`},
		{"heart", "Heart", "Heart", `<path d="M50,85 C50,85 20,60 20,40 C20,25 30,15 45,20 C50,10 50,10 55,20 C70,15 80,25 80,40 C80,60 50,85 50,85 Z" fill="#EF4444" stroke="#DC2626" stroke-width="2"/>`},
		{"arrow", "Arrow", "ArrowRight", `<path d="M10,50 L70,50 M55,35 L70,50 L55,65" fill="none" stroke="#3B82F6" stroke-width="3" stroke-linecap="round" stroke-linejoin="round"/>`},
		{"check", "Check", "Check", `<path d="M20,50 L40,70 L80,30" fill="none" stroke="#10B981" stroke-width="4" stroke-linecap="round" stroke-linejoin="round"/>`},
		{"cross", "Cross", "X", `<path d="M25,25 L75,75 M75,25 L25,75" fill="none" stroke="#EF4444" stroke-width="4" stroke-linecap="round" stroke-linejoin="round"/>`},
		{"plus", "Plus", "Plus", `<path d="M50,20 L50,80 M20,50 L80,50" fill="none" stroke="#059669" stroke-width="4" stroke-linecap="round" stroke-linejoin="round"/>`},
	}},
	{"text", "Text Elements", "Type", []entry{
		{"text", "Text", "Type", `<text x="50" y="50" text-anchor="middle" dominant-baseline="middle" font-family="Inter, sans-serif" font-size="16" fill="#1E293B">Sample Text</text>`},
		{"heading", "Heading", "Heading", `<text x="50" y="50" text-anchor="middle" dominant-baseline="middle" font-family="Inter, sans-serif" font-size="24" font-weight="600" fill="#0F172A">Heading</text>`},
		{"label", "Label", "Tag", `<rect x="10" y="35" width="80" height="30" fill="#F1F5F9" stroke="#CBD5E1" stroke-width="1" rx="15"/>` +
			`<text x="50" y="50" text-anchor="middle" dominant-baseline="middle" font-family="Inter, sans-serif" font-size="12" fill="#475569">Label</text>`},
	}},
	{"advanced", "Advanced", "Layers", []entry{
		{"gradient-rect", "Gradient Rectangle", "Square", `<defs><linearGradient id="grad1" x1="0%" y1="0%" x2="100%" y2="100%">` +
			`<stop offset="0%" style="stop-color:#3B82F6;stop-opacity:1"/><stop offset="100%" style="stop-color:#1E40AF;stop-opacity:1"/>` +
			`</linearGradient></defs><rect width="100" height="60" fill="url(#grad1)" rx="8"/>`},
		{"pattern-circle", "Pattern Circle", "Circle", `<defs><pattern id="dots" x="0" y="0" width="10" height="10" patternUnits="userSpaceOnUse">` +
			`<circle cx="5" cy="5" r="2" fill="#3B82F6"/></pattern></defs><circle cx="50" cy="50" r="40" fill="url(#dots)" stroke="#1E40AF" stroke-width="2"/>`},
		{"shadow-rect", "Shadow Rectangle", "Square", `<defs><filter id="shadow"><feDropShadow dx="4" dy="4" stdDeviation="3" flood-color="#00000040"/></filter></defs>` +
			`<rect x="10" y="10" width="80" height="50" fill="#10B981" rx="6" filter="url(#shadow)"/>`},
	}},
}

// catalog is parsed once from sections; markup is not kept.
var catalog = mustBuild(sections)

func mustBuild(secs []section) []Category {
	out := make([]Category, len(secs))
	for i, s := range secs {
		c := Category{ID: s.id, Name: s.name, Icon: s.icon}
		for _, e := range s.entries {
			content, err := fragment.Parse(e.markup)
			if err != nil {
				panic(fmt.Sprintf("library: template %s: %v", e.id, err))
			}
			c.Templates = append(c.Templates, Template{
				ID: e.id, Name: e.name, Icon: e.icon, Category: s.id, Content: content,
			})
		}
		out[i] = c
	}
	return out
}
