package clearance

import (
	_ "embed"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/ByLCY/clearcert/binding"
	"github.com/ByLCY/clearcert/dsl"
	"github.com/ByLCY/clearcert/layout"
)

//go:embed default.tmpl
var defaultTemplateSource string

// FragmentKind selects how a template fragment becomes content blocks.
type FragmentKind string

const (
	FragmentHeading    FragmentKind = "heading"
	FragmentSubheading FragmentKind = "subheading"
	FragmentParagraph  FragmentKind = "paragraph"
	FragmentBullets    FragmentKind = "bullets"
	FragmentSpacer     FragmentKind = "spacer"
	// FragmentDetails inserts the inspection details table.
	FragmentDetails FragmentKind = "details"
	// FragmentItems inserts the clearance item table.
	FragmentItems FragmentKind = "items"
	// FragmentNotes inserts the record's free-text notes.
	FragmentNotes FragmentKind = "notes"
	// FragmentSignoff inserts the assessor sign-off block.
	FragmentSignoff FragmentKind = "signoff"
)

// Fragment is one instruction of a template section. Texts may contain
// {TOKEN} placeholders.
type Fragment struct {
	Kind   FragmentKind
	Texts  []string
	Align  layout.Align
	Height float64 // spacer height, mm
}

// Section is a named, ordered run of fragments.
type Section struct {
	Name      string
	Title     string
	Fragments []Fragment
}

// Company is the branding printed on the cover and in the page band.
type Company struct {
	Name       string
	Address    []string
	Phone      string
	Email      string
	Licence    string
	Logo       string // asset reference
	Background string // cover artwork reference
}

// DocumentTemplate is the parsed report template. It is read-only once
// loaded and may be shared between concurrent reports.
type DocumentTemplate struct {
	Name        string
	Version     string
	Title       string
	Subtitle    string
	Author      string
	Keywords    []string
	Company     Company
	Accent      layout.Color
	Placeholder string
	Sections    []Section
}

var knownFragments = map[string]FragmentKind{
	"heading":    FragmentHeading,
	"subheading": FragmentSubheading,
	"paragraph":  FragmentParagraph,
	"bullets":    FragmentBullets,
	"spacer":     FragmentSpacer,
	"details":    FragmentDetails,
	"items":      FragmentItems,
	"notes":      FragmentNotes,
	"signoff":    FragmentSignoff,
}

// LoadTemplate parses a template file.
func LoadTemplate(r io.Reader) (*DocumentTemplate, error) {
	src, err := dsl.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("clearance: parse template: %w", err)
	}
	return fromDSL(src)
}

var defaultTemplate = sync.OnceValues(func() (*DocumentTemplate, error) {
	return LoadTemplate(strings.NewReader(defaultTemplateSource))
})

// DefaultTemplate returns the built-in clearance certificate template.
func DefaultTemplate() *DocumentTemplate {
	t, err := defaultTemplate()
	if err != nil {
		panic(fmt.Sprintf("clearance: built-in template is invalid: %v", err))
	}
	return t
}

func fromDSL(src *dsl.Template) (*DocumentTemplate, error) {
	t := &DocumentTemplate{Name: src.Name, Version: src.Version}

	meta := src.MetaBlock().Assignments()
	t.Title = meta["title"].Text()
	t.Subtitle = meta["subtitle"].Text()
	t.Author = meta["author"].Text()
	t.Keywords = meta["keywords"].Strings()

	co := src.CompanyBlock().Assignments()
	t.Company = Company{
		Name:       co["name"].Text(),
		Address:    co["address"].Strings(),
		Phone:      co["phone"].Text(),
		Email:      co["email"].Text(),
		Licence:    co["licence"].Text(),
		Logo:       co["logo"].Text(),
		Background: co["background"].Text(),
	}

	style := src.StyleBlock().Assignments()
	if v, ok := style["accent"]; ok {
		c, err := layout.ParseColor(v.Text())
		if err != nil {
			return nil, fmt.Errorf("clearance: style accent: %w", err)
		}
		t.Accent = c
	}
	t.Placeholder = style["placeholder"].Text()

	for _, cs := range src.ContentSections() {
		sec := Section{Name: cs.Name}
		sec.Title, _ = cs.Param("title")
		for _, cmd := range cs.Block.Commands() {
			f, err := fragment(cmd)
			if err != nil {
				return nil, fmt.Errorf("clearance: section %s: %w", cs.Name, err)
			}
			sec.Fragments = append(sec.Fragments, f)
		}
		t.Sections = append(t.Sections, sec)
	}
	if err := t.checkTokens(); err != nil {
		return nil, err
	}
	return t, nil
}

// checkTokens rejects {TOKEN}s that no record field fills.
func (t *DocumentTemplate) checkTokens() error {
	known := Values(&ClearanceRecord{}, t)
	check := func(where, text string) error {
		if unknown := binding.Unknown(text, known); len(unknown) > 0 {
			return fmt.Errorf("clearance: %s: unknown token {%s}", where, unknown[0])
		}
		return nil
	}
	for _, m := range []struct{ where, text string }{{"meta title", t.Title}, {"meta subtitle", t.Subtitle}, {"meta author", t.Author}} {
		if err := check(m.where, m.text); err != nil {
			return err
		}
	}
	for _, s := range t.Sections {
		for _, f := range s.Fragments {
			for _, text := range f.Texts {
				if err := check("section "+s.Name, text); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func fragment(cmd *dsl.Command) (Fragment, error) {
	kind, ok := knownFragments[cmd.Name]
	if !ok {
		return Fragment{}, fmt.Errorf("line %d: unknown command %q", cmd.Pos.Line, cmd.Name)
	}
	f := Fragment{Kind: kind, Texts: cmd.Texts()}
	if v, ok := cmd.Param("align"); ok {
		a, ok := layout.ParseAlign(v)
		if !ok {
			return Fragment{}, fmt.Errorf("line %d: unknown alignment %q", cmd.Pos.Line, v)
		}
		f.Align = a
	}
	if kind == FragmentSpacer {
		f.Height = 4
		if len(cmd.Args) > 0 {
			l, ok := layout.ParseLength(cmd.Args[0].Value)
			if !ok {
				return Fragment{}, fmt.Errorf("line %d: bad spacer height %q", cmd.Pos.Line, cmd.Args[0].Value)
			}
			f.Height = l.ToMM()
		}
	}
	switch kind {
	case FragmentHeading, FragmentSubheading, FragmentParagraph, FragmentBullets:
		if len(f.Texts) == 0 {
			return Fragment{}, fmt.Errorf("line %d: %s needs text", cmd.Pos.Line, cmd.Name)
		}
	}
	return f, nil
}

// Section returns the named section.
func (t *DocumentTemplate) Section(name string) (Section, bool) {
	for _, s := range t.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

func (t *DocumentTemplate) placeholder() string {
	if t.Placeholder != "" {
		return t.Placeholder
	}
	return binding.DefaultPlaceholder
}
