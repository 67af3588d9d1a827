package clearance

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/clearcert/layout"
)

func testRecord(items int) *ClearanceRecord {
	r := &ClearanceRecord{
		ProjectID:       "P123",
		SiteName:        "Test Site",
		SiteAddress:     "1 Example Road, Parramatta NSW 2150",
		ClientName:      "Example Holdings",
		ClearanceDate:   NewDate(2024, 7, 25),
		ClearanceType:   Friable,
		AssessorName:    "Jordan Lee",
		AssessorLicence: "LAA001",
		RemovalistName:  "Safe Removals Pty Ltd",
	}
	for i := range items {
		r.Items = append(r.Items, ClearanceItem{
			Location:     fmt.Sprintf("Level %d amenities", i+1),
			Material:     "Fibre cement sheet",
			AsbestosType: "Chrysotile",
			PhotoRef:     fmt.Sprintf("photos/item-%d.jpg", i+1),
		})
	}
	return r
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "P123: Friable Asbestos Clearance Report - Test Site (25-07-2024).pdf", Filename(testRecord(0)))

	r := testRecord(0)
	r.ClearanceType = NonFriable
	assert.Equal(t, "P123: Non-friable Asbestos Clearance Report - Test Site (25-07-2024).pdf", Filename(r))
}

func TestLoadRecord(t *testing.T) {
	src := `{
		"projectId": "P9",
		"siteName": "Depot",
		"clearanceDate": "2024-07-25",
		"clearanceType": "Non-friable",
		"items": [{"location": "Roof", "material": "AC sheet", "asbestosType": "Chrysotile"}]
	}`
	r, err := LoadRecord(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, NonFriable, r.ClearanceType)
	assert.Equal(t, "25-07-2024", r.ClearanceDate.Display())
	require.Len(t, r.Items, 1)
	assert.Equal(t, "Roof", r.Items[0].Location)

	_, err = LoadRecord(strings.NewReader(`{"clearanceType": "solid"}`))
	assert.Error(t, err)
	_, err = LoadRecord(strings.NewReader(`{"unexpected": 1}`))
	assert.Error(t, err)
}

func TestParseClearanceType(t *testing.T) {
	for in, want := range map[string]ClearanceType{"friable": Friable, "NON-FRIABLE": NonFriable, "non_friable": NonFriable, "Mixed": Mixed} {
		got, err := ParseClearanceType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestDefaultTemplate(t *testing.T) {
	tmpl := DefaultTemplate()
	assert.Equal(t, "Clearance", tmpl.Name)
	assert.Equal(t, layout.Color{R: 0, G: 94, B: 132}, tmpl.Accent)
	assert.NotEmpty(t, tmpl.Company.Name)
	sec, ok := tmpl.Section("Items")
	require.True(t, ok)
	assert.Equal(t, "Removal Areas", sec.Title)

	var kinds []FragmentKind
	for _, s := range tmpl.Sections {
		for _, f := range s.Fragments {
			kinds = append(kinds, f.Kind)
		}
	}
	assert.Contains(t, kinds, FragmentDetails)
	assert.Contains(t, kinds, FragmentItems)

	_, err := Branding.ReadFile("branding/logo.png")
	assert.NoError(t, err, "default logo must be embedded")
}

func TestLoadTemplateErrors(t *testing.T) {
	_, err := LoadTemplate(strings.NewReader(`template T v1 { section A { marquee "x" } }`))
	assert.ErrorContains(t, err, "unknown command")

	_, err = LoadTemplate(strings.NewReader(`template T v1 { section A { paragraph align sideways { "x" } } }`))
	assert.ErrorContains(t, err, "alignment")

	_, err = LoadTemplate(strings.NewReader(`template T v1 { style { accent: "blue" } }`))
	assert.Error(t, err)

	_, err = LoadTemplate(strings.NewReader(`not a template`))
	assert.Error(t, err)

	_, err = LoadTemplate(strings.NewReader(`template T v1 { section A { paragraph { "Inspected on {INSPECTION_DAY}." } } }`))
	assert.ErrorContains(t, err, "{INSPECTION_DAY}")

	_, err = LoadTemplate(strings.NewReader(`template T v1 { meta { title: "{SITE} report" } }`))
	assert.ErrorContains(t, err, "meta title")

	tmpl, err := LoadTemplate(strings.NewReader(`template T v1 { section A { paragraph { "{SITE_NAME} on {CLEARANCE_DATE}" } } }`))
	require.NoError(t, err)
	assert.Len(t, tmpl.Sections, 1)
}

func TestPlanLeavesStylesToLayout(t *testing.T) {
	r := testRecord(2)
	r.Items[0].PhotoRef = ""
	plan := BuildDocumentPlan(r, nil)

	justified := 0
	for _, b := range flowBlocks(plan, "body") {
		if p, ok := b.(layout.Paragraph); ok {
			assert.Zero(t, p.Style, "paragraph %q", p.Text)
			if p.Align == layout.AlignJustify {
				justified++
			}
		}
	}
	assert.NotZero(t, justified)

	captions := 0
	for _, b := range flowBlocks(plan, "appendix") {
		if p, ok := b.(layout.Paragraph); ok {
			assert.Zero(t, p.Style)
			if p.Caption {
				assert.Equal(t, noPhotoText, p.Text)
				captions++
			}
		}
	}
	assert.Equal(t, 1, captions)
}

func flowBlocks(p *Plan, name string) []layout.Block {
	for _, spec := range p.Pages {
		if fp, ok := spec.(layout.FlowPage); ok && fp.Name == name {
			return fp.Blocks
		}
	}
	return nil
}

func TestPlanPageOrder(t *testing.T) {
	plan := BuildDocumentPlan(testRecord(2), nil)
	require.Len(t, plan.Pages, 4)
	assert.IsType(t, layout.CoverPage{}, plan.Pages[0])
	assert.IsType(t, layout.VersionControlPage{}, plan.Pages[1])
	assert.Equal(t, "body", plan.Pages[2].(layout.FlowPage).Name)
	assert.Equal(t, "appendix", plan.Pages[3].(layout.FlowPage).Name)

	assert.Equal(t, "Friable Asbestos Clearance Certificate - Test Site", plan.Band.Caption)
	assert.Equal(t, "Page %d", plan.Band.PageFormat)
	assert.Equal(t, "Clearwater Occupational Hygiene", plan.Band.CompanyLines[0])
	assert.Equal(t, "P123: Friable Asbestos Clearance Report - Test Site (25-07-2024)", plan.Meta.Title)
}

func TestPlanWithoutItems(t *testing.T) {
	plan := BuildDocumentPlan(testRecord(0), DefaultTemplate())
	require.Len(t, plan.Pages, 3, "no appendix without items")

	var table *layout.Table
	for _, b := range flowBlocks(plan, "body") {
		if tb, ok := b.(layout.Table); ok && len(tb.Headers) > 0 && tb.Headers[1] == "Location" {
			table = &tb
		}
	}
	require.NotNil(t, table)
	assert.Empty(t, table.Rows)
	assert.Equal(t, layout.EmptyTableText, table.EmptyText)
}

func TestPlanSubstitutesTokens(t *testing.T) {
	r := testRecord(1)
	r.ClientName = ""
	plan := BuildDocumentPlan(r, nil)

	var text []string
	for _, b := range flowBlocks(plan, "body") {
		switch v := b.(type) {
		case layout.Paragraph:
			text = append(text, v.Text)
		case layout.Bullet:
			text = append(text, v.Text)
		case layout.Heading:
			text = append(text, v.Text)
		}
	}
	all := strings.Join(text, "\n")
	assert.Contains(t, all, "Friable asbestos clearance inspection at Test Site")
	assert.Contains(t, all, "engaged by [Not provided]")
	assert.Contains(t, all, "the 1 removal area(s)")
	assert.NotRegexp(t, `\{[A-Z_]+\}`, all)

	cover := plan.Pages[0].(layout.CoverPage)
	assert.Equal(t, "Friable Asbestos Clearance Certificate", cover.Subtitle)
	assert.Contains(t, cover.Details, "Client: [Not provided]")
}

func TestPlanAppendixAndAssets(t *testing.T) {
	r := testRecord(3)
	r.Items[1].PhotoRef = ""
	plan := BuildDocumentPlan(r, nil)

	var images []layout.Image
	noPhoto := 0
	for _, b := range flowBlocks(plan, "appendix") {
		switch v := b.(type) {
		case layout.Image:
			images = append(images, v)
		case layout.Paragraph:
			if v.Text == noPhotoText {
				noPhoto++
			}
		}
	}
	require.Len(t, images, 2)
	assert.Equal(t, "Item 1", images[0].Label)
	assert.Equal(t, "photos/item-3.jpg", images[1].Ref)
	assert.Equal(t, 1, noPhoto)

	var refs []string
	for _, req := range plan.Assets {
		refs = append(refs, req.Ref)
	}
	assert.Equal(t, []string{"embed:branding/logo.png", "photos/item-1.jpg", "photos/item-3.jpg"}, refs)
	assert.True(t, plan.Assets[0].Static)
	assert.False(t, plan.Assets[1].Static)
}

func TestDocumentIDDeterministic(t *testing.T) {
	a := DocumentID(testRecord(0))
	assert.Equal(t, a, DocumentID(testRecord(5)))

	r := testRecord(0)
	r.ProjectID = "P124"
	assert.NotEqual(t, a, DocumentID(r))
	assert.Len(t, a, 36)
}

func TestPlanIsPure(t *testing.T) {
	r := testRecord(4)
	assert.Equal(t, BuildDocumentPlan(r, nil), BuildDocumentPlan(r, nil))
}
