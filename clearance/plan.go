package clearance

import (
	"embed"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/ByLCY/clearcert/assets"
	"github.com/ByLCY/clearcert/binding"
	"github.com/ByLCY/clearcert/layout"
)

// Branding serves the built-in embed: assets referenced by the default
// template.
//
//go:embed branding
var Branding embed.FS

// documentNamespace seeds the deterministic document identifiers.
var documentNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://clearcert.example/documents"))

// Token names available to template text.
const (
	TokenSiteName          = "SITE_NAME"
	TokenSiteAddress       = "SITE_ADDRESS"
	TokenClientName        = "CLIENT_NAME"
	TokenProjectID         = "PROJECT_ID"
	TokenClearanceDate     = "CLEARANCE_DATE"
	TokenClearanceType     = "CLEARANCE_TYPE"
	TokenAssessorName      = "ASSESSOR_NAME"
	TokenAssessorLicence   = "ASSESSOR_LICENCE"
	TokenRemovalistName    = "REMOVALIST_NAME"
	TokenRemovalistLicence = "REMOVALIST_LICENCE"
	TokenItemCount         = "ITEM_COUNT"
	TokenCompanyName       = "COMPANY_NAME"
)

var (
	itemHeaders     = []string{"#", "Location", "Material", "Asbestos type", "Notes"}
	itemWidths      = []float64{10, 42, 42, 34, 46}
	revisionHeaders = []string{"Version", "Date", "Author", "Description"}
	revisionWidths  = []float64{22, 30, 50, 72}
	detailWidths    = []float64{55, 119}
)

const (
	photoMaxWidth  = 120.0
	photoMaxHeight = 90.0
	noPhotoText    = "No photograph supplied."
	pageFormat     = "Page %d"
)

// Plan is everything the layout engine and the asset phase need to
// produce one certificate.
type Plan struct {
	Pages []layout.PageSpec
	Band  layout.PageBand
	Meta  layout.DocumentMeta
	// Assets lists every reference the plan draws, for prefetching.
	Assets []assets.Request
}

// Values returns the token values for r. Company name comes from tmpl.
func Values(r *ClearanceRecord, tmpl *DocumentTemplate) binding.Values {
	return binding.Values{
		TokenSiteName:          r.SiteName,
		TokenSiteAddress:       r.SiteAddress,
		TokenClientName:        r.ClientName,
		TokenProjectID:         r.ProjectID,
		TokenClearanceDate:     r.ClearanceDate.Display(),
		TokenClearanceType:     r.ClearanceType.String(),
		TokenAssessorName:      r.AssessorName,
		TokenAssessorLicence:   r.AssessorLicence,
		TokenRemovalistName:    r.RemovalistName,
		TokenRemovalistLicence: r.RemovalistLicence,
		TokenItemCount:         strconv.Itoa(len(r.Items)),
		TokenCompanyName:       tmpl.Company.Name,
	}
}

// DocumentID derives a stable identifier from the project, type and date.
func DocumentID(r *ClearanceRecord) string {
	key := strings.Join([]string{r.ProjectID, r.ClearanceType.String(), r.ClearanceDate.Display()}, "|")
	return uuid.NewSHA1(documentNamespace, []byte(key)).String()
}

// BuildDocumentPlan merges a record with a template into the ordered page
// plan: cover, version control, report body and, when the record has
// items, the photographic appendix. Missing record fields are printed as
// the template placeholder. It performs no I/O.
func BuildDocumentPlan(r *ClearanceRecord, tmpl *DocumentTemplate) *Plan {
	if tmpl == nil {
		tmpl = DefaultTemplate()
	}
	b := planBuilder{rec: r, tmpl: tmpl, values: Values(r, tmpl), placeholder: tmpl.placeholder()}

	plan := &Plan{
		Band: layout.PageBand{
			LogoRef:      tmpl.Company.Logo,
			CompanyLines: b.companyLines(),
			Caption:      fmt.Sprintf("%s Asbestos Clearance Certificate - %s", r.ClearanceType, b.field(r.SiteName)),
			PageFormat:   pageFormat,
		},
		Meta: layout.DocumentMeta{
			Title:    strings.TrimSuffix(Filename(r), ".pdf"),
			Author:   b.sub(orDefault(tmpl.Author, tmpl.Company.Name)),
			Subject:  fmt.Sprintf("%s asbestos clearance certificate", r.ClearanceType),
			Creator:  tmpl.Company.Name,
			Keywords: tmpl.Keywords,
		},
	}
	plan.Pages = append(plan.Pages, b.cover(), b.versionControl(), b.body())
	if len(r.Items) > 0 {
		plan.Pages = append(plan.Pages, b.appendix())
	}
	plan.Assets = b.assetRequests()
	return plan
}

type planBuilder struct {
	rec         *ClearanceRecord
	tmpl        *DocumentTemplate
	values      binding.Values
	placeholder string
}

func (b planBuilder) sub(text string) string {
	return binding.Substitute(text, b.values, b.placeholder)
}

func (b planBuilder) field(v string) string {
	if strings.TrimSpace(v) == "" {
		return b.placeholder
	}
	return v
}

func (b planBuilder) companyLines() []string {
	co := b.tmpl.Company
	var lines []string
	if co.Name != "" {
		lines = append(lines, co.Name)
	}
	lines = append(lines, co.Address...)
	var contact []string
	if co.Phone != "" {
		contact = append(contact, "Ph: "+co.Phone)
	}
	if co.Email != "" {
		contact = append(contact, co.Email)
	}
	if len(contact) > 0 {
		lines = append(lines, strings.Join(contact, "  |  "))
	}
	if co.Licence != "" {
		lines = append(lines, "Licence: "+co.Licence)
	}
	return lines
}

func (b planBuilder) cover() layout.CoverPage {
	r := b.rec
	return layout.CoverPage{
		Title:    b.sub(orDefault(b.tmpl.Title, "Asbestos Clearance Report")),
		Subtitle: b.sub(orDefault(b.tmpl.Subtitle, "{CLEARANCE_TYPE} Asbestos Clearance Certificate")),
		Details: []string{
			"Site: " + b.field(r.SiteName),
			"Address: " + b.field(r.SiteAddress),
			"Client: " + b.field(r.ClientName),
			"Project: " + b.field(r.ProjectID),
			"Inspection date: " + b.field(r.ClearanceDate.Display()),
			"Prepared by: " + b.field(b.tmpl.Company.Name),
		},
		LogoRef:       b.tmpl.Company.Logo,
		BackgroundRef: b.tmpl.Company.Background,
		Accent:        b.tmpl.Accent,
	}
}

func (b planBuilder) versionControl() layout.VersionControlPage {
	r := b.rec
	rows := make([][]string, 0, max(len(r.Revisions), 1))
	for _, rev := range r.Revisions {
		rows = append(rows, []string{rev.Version, b.field(rev.Date.Display()), b.field(rev.Author), rev.Description})
	}
	if len(rows) == 0 {
		rows = append(rows, []string{"1.0", b.field(r.ClearanceDate.Display()), b.field(r.AssessorName), "Initial issue"})
	}
	return layout.VersionControlPage{
		Title:        "Document Control",
		DocumentID:   DocumentID(r),
		Headers:      revisionHeaders,
		Rows:         rows,
		ColumnWidths: revisionWidths,
		Notes: []string{
			"This document is issued for the exclusive use of " + b.field(r.ClientName) + ".",
			"Copies of this certificate are uncontrolled unless they carry the document identifier above.",
		},
	}
}

func (b planBuilder) body() layout.FlowPage {
	var blocks []layout.Block
	for _, sec := range b.tmpl.Sections {
		for _, f := range sec.Fragments {
			blocks = append(blocks, b.fragment(f)...)
		}
	}
	return layout.FlowPage{Name: "body", Blocks: blocks}
}

var (
	headingMargins   = layout.Margins{Before: 6, After: 3}
	paragraphMargins = layout.Margins{After: 3}
	bulletMargins    = layout.Margins{After: 1.5}
	tableMargins     = layout.Margins{Before: 2, After: 5}
)

func (b planBuilder) fragment(f Fragment) []layout.Block {
	var out []layout.Block
	switch f.Kind {
	case FragmentHeading, FragmentSubheading:
		level := 1
		if f.Kind == FragmentSubheading {
			level = 2
		}
		out = append(out, layout.Heading{Text: b.sub(strings.Join(f.Texts, " ")), Level: level, Margins: headingMargins})
	case FragmentParagraph:
		for _, t := range f.Texts {
			out = append(out, layout.Paragraph{Text: b.sub(t), Align: f.Align, Margins: paragraphMargins})
		}
	case FragmentBullets:
		for _, t := range f.Texts {
			out = append(out, layout.Bullet{Text: b.sub(t), Margins: bulletMargins})
		}
	case FragmentSpacer:
		out = append(out, layout.Spacer{Height: f.Height})
	case FragmentDetails:
		out = append(out, b.detailsTable())
	case FragmentItems:
		out = append(out, b.itemsTable())
	case FragmentNotes:
		if n := strings.TrimSpace(b.rec.Notes); n != "" {
			out = append(out,
				layout.Heading{Text: "Additional notes", Level: 2, Margins: headingMargins},
				layout.Paragraph{Text: n, Margins: paragraphMargins})
		}
	case FragmentSignoff:
		r := b.rec
		out = append(out,
			layout.Paragraph{Text: "Inspected and certified by:", Margins: layout.Margins{Before: 4}},
			layout.Paragraph{Text: b.field(r.AssessorName) + "\nLicensed asbestos assessor " + b.field(r.AssessorLicence) + "\n" + b.field(b.tmpl.Company.Name)},
		)
	}
	return out
}

func (b planBuilder) detailsTable() layout.Table {
	r := b.rec
	assessor := b.field(r.AssessorName)
	if r.AssessorLicence != "" {
		assessor += " (" + r.AssessorLicence + ")"
	}
	removalist := b.field(r.RemovalistName)
	if r.RemovalistLicence != "" {
		removalist += " (" + r.RemovalistLicence + ")"
	}
	return layout.Table{
		Rows: [][]string{
			{"Project reference", b.field(r.ProjectID)},
			{"Site", b.field(r.SiteName)},
			{"Site address", b.field(r.SiteAddress)},
			{"Client", b.field(r.ClientName)},
			{"Clearance type", r.ClearanceType.String()},
			{"Inspection date", b.field(r.ClearanceDate.Display())},
			{"Licensed assessor", assessor},
			{"Licensed removalist", removalist},
		},
		ColumnWidths: detailWidths,
		Margins:      tableMargins,
	}
}

func (b planBuilder) itemsTable() layout.Table {
	rows := make([][]string, len(b.rec.Items))
	for i, it := range b.rec.Items {
		rows[i] = []string{strconv.Itoa(i + 1), b.field(it.Location), b.field(it.Material), b.field(it.AsbestosType), it.Notes}
	}
	return layout.Table{
		Headers:      itemHeaders,
		Rows:         rows,
		ColumnWidths: itemWidths,
		EmptyText:    layout.EmptyTableText,
		Margins:      tableMargins,
	}
}

func (b planBuilder) appendix() layout.FlowPage {
	blocks := []layout.Block{
		layout.Heading{Text: "Appendix A - Photographs", Level: 1, Margins: layout.Margins{After: 3}},
	}
	for i, it := range b.rec.Items {
		label := fmt.Sprintf("Item %d", i+1)
		blocks = append(blocks,
			layout.Heading{Text: label + " - " + b.field(it.Location), Level: 2, Margins: headingMargins},
			layout.Paragraph{Text: fmt.Sprintf("%s, %s", b.field(it.Material), b.field(it.AsbestosType)), Margins: paragraphMargins},
		)
		if it.PhotoRef == "" {
			blocks = append(blocks, layout.Paragraph{Text: noPhotoText, Caption: true, Margins: paragraphMargins})
			continue
		}
		blocks = append(blocks, layout.Image{
			Ref:       it.PhotoRef,
			Label:     label,
			MaxWidth:  photoMaxWidth,
			MaxHeight: photoMaxHeight,
			Caption:   label + ": " + b.field(it.Location),
			Margins:   layout.Margins{Before: 2, After: 4},
		})
	}
	return layout.FlowPage{Name: "appendix", Blocks: blocks}
}

func (b planBuilder) assetRequests() []assets.Request {
	var reqs []assets.Request
	if ref := b.tmpl.Company.Logo; ref != "" {
		reqs = append(reqs, assets.Request{Ref: ref, Label: "logo", Static: true})
	}
	if ref := b.tmpl.Company.Background; ref != "" {
		reqs = append(reqs, assets.Request{Ref: ref, Label: "cover background", Static: true})
	}
	for i, it := range b.rec.Items {
		if it.PhotoRef != "" {
			reqs = append(reqs, assets.Request{Ref: it.PhotoRef, Label: fmt.Sprintf("Item %d", i+1)})
		}
	}
	return reqs
}

func orDefault(v, d string) string {
	if v == "" {
		return d
	}
	return v
}
