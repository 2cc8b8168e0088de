// contact.go - Contact info panel built from the visitor-facing profile
package main

import (
	"errors"
	"fmt"
	"html/template"
	"net/url"
	"strings"
)

var (
	ErrDuplicateLabel = errors.New("duplicate contact row label")
	ErrInvalidHref    = errors.New("invalid contact row link")
)

// linkSchemes are the schemes a LinkRow may point at.
var linkSchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"mailto": true,
	"tel":    true,
}

// hrefChars is every byte html/template leaves untouched in a URL attribute.
const hrefChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-._~:/?#[]@!$&*+,;=%"

// Profile describes the person being showcased.
type Profile struct {
	Name     string `yaml:"name" json:"name"`
	Email    string `yaml:"email" json:"email"`
	Location string `yaml:"location" json:"location"`
}

// ContactRow is either a TextRow or a LinkRow.
type ContactRow interface {
	RowIcon() Icon
	RowLabel() string
	RowValue() string
	contactRow()
}

// TextRow renders its value as plain text.
type TextRow struct {
	Icon  Icon
	Label string
	Value string
}

// LinkRow renders its value as a hyperlink to Href.
type LinkRow struct {
	Icon  Icon
	Label string
	Value string
	Href  string
}

func (r TextRow) RowIcon() Icon    { return r.Icon }
func (r TextRow) RowLabel() string { return r.Label }
func (r TextRow) RowValue() string { return r.Value }
func (TextRow) contactRow()        {}

func (r LinkRow) RowIcon() Icon    { return r.Icon }
func (r LinkRow) RowLabel() string { return r.Label }
func (r LinkRow) RowValue() string { return r.Value }
func (LinkRow) contactRow()        {}

type Panel struct {
	Heading     string
	Intro       string
	Rows        []ContactRow
	TagsHeading string
	Tags        []string
}

// NewPanel builds the contact panel for p. Only the Location row depends on p.
func NewPanel(p Profile) Panel {
	tags := make([]string, len(InterestTags))
	copy(tags, InterestTags)

	return Panel{
		Heading: ContactHeading,
		Intro:   ContactIntro,
		Rows: []ContactRow{
			TextRow{Icon: IconMapPin, Label: "Location", Value: p.Location},
			TextRow{Icon: IconClock, Label: "Response", Value: ResponseTime},
		},
		TagsHeading: LookingForHeading,
		Tags:        tags,
	}
}

// Validate checks that row labels are unique, since they key the rendered rows,
// and that every link renders exactly as written.
func (p Panel) Validate() error {
	seen := make(map[string]struct{}, len(p.Rows))
	for _, row := range p.Rows {
		label := row.RowLabel()
		if _, ok := seen[label]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateLabel, label)
		}
		seen[label] = struct{}{}

		if link, ok := row.(LinkRow); ok {
			if err := validateHref(link.Href); err != nil {
				return fmt.Errorf("row %q: %w", label, err)
			}
		}
	}
	return nil
}

func validateHref(href string) error {
	if strings.IndexFunc(href, func(r rune) bool { return !strings.ContainsRune(hrefChars, r) }) >= 0 {
		return fmt.Errorf("%w: %q has a character that must be percent-encoded", ErrInvalidHref, href)
	}

	u, err := url.Parse(href)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidHref, err)
	}
	if !linkSchemes[strings.ToLower(u.Scheme)] {
		return fmt.Errorf("%w: scheme %q not allowed", ErrInvalidHref, u.Scheme)
	}
	return nil
}

// rowView is the template-facing projection of a ContactRow.
type rowView struct {
	Icon   Icon
	Label  string
	Value  string
	Href   template.URL
	IsLink bool
	Motion MotionAttrs
}

type panelView struct {
	Heading     string
	Intro       string
	Rows        []rowView
	TagsHeading string
	Tags        []string
	Group       MotionAttrs
	Column      MotionAttrs
}

func projectPanel(p Panel, m Motion) panelView {
	if m == nil {
		m = NoMotion{}
	}

	view := panelView{
		Heading:     p.Heading,
		Intro:       p.Intro,
		Rows:        make([]rowView, 0, len(p.Rows)),
		TagsHeading: p.TagsHeading,
		Tags:        p.Tags,
		Group:       m.Group(),
		Column:      m.Item(0),
	}

	for i, row := range p.Rows {
		rv := rowView{Motion: m.Item(i + 1)}
		switch r := row.(type) {
		case TextRow:
			rv.Icon, rv.Label, rv.Value = r.Icon, r.Label, r.Value
		case LinkRow:
			// Validate has vetted the scheme and characters.
			rv.Icon, rv.Label, rv.Value, rv.Href = r.Icon, r.Label, r.Value, template.URL(r.Href)
			rv.IsLink = true
		default:
			panic(fmt.Sprintf("unknown contact row type %T", row))
		}
		view.Rows = append(view.Rows, rv)
	}

	return view
}
