package main

import "html/template"

type Icon string

const (
	IconMapPin Icon = "map-pin"
	IconClock  Icon = "clock"
	IconMail   Icon = "mail"
)

var iconPaths = map[Icon]template.HTML{
	IconMapPin: `<path d="M20 10c0 4.993-5.539 10.193-7.399 11.799a1 1 0 0 1-1.202 0C9.539 20.193 4 14.993 4 10a8 8 0 0 1 16 0"/><circle cx="12" cy="10" r="3"/>`,
	IconClock:  `<circle cx="12" cy="12" r="10"/><polyline points="12 6 12 12 16 14"/>`,
	IconMail:   `<rect width="20" height="16" x="2" y="4" rx="2"/><path d="m22 7-8.97 5.7a1.94 1.94 0 0 1-2.06 0L2 7"/>`,
}

// Glyph returns the inline SVG for i, or "" for an unknown icon.
func (i Icon) Glyph() template.HTML {
	paths, ok := iconPaths[i]
	if !ok {
		return ""
	}
	return `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round" class="h-5 w-5 text-purple-400" data-icon="` +
		template.HTML(i) + `">` + paths + `</svg>`
}
