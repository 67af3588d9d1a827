// Package clearance turns an asbestos clearance record and a report
// template into a layout plan, and names the resulting certificate.
package clearance

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// ClearanceType is the kind of asbestos removal being cleared.
type ClearanceType int

const (
	NonFriable ClearanceType = iota
	Friable
	Mixed
)

// String returns the display name used in titles and filenames.
func (t ClearanceType) String() string {
	switch t {
	case Friable:
		return "Friable"
	case Mixed:
		return "Mixed"
	default:
		return "Non-friable"
	}
}

// ParseClearanceType accepts the display names case-insensitively, with
// or without the hyphen.
func ParseClearanceType(s string) (ClearanceType, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-") {
	case "non-friable", "nonfriable", "non friable":
		return NonFriable, nil
	case "friable":
		return Friable, nil
	case "mixed":
		return Mixed, nil
	}
	return 0, fmt.Errorf("clearance: unknown clearance type %q", s)
}

func (t ClearanceType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *ClearanceType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseClearanceType(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// dateLayout is the record's JSON date format.
const dateLayout = "2006-01-02"

// Date is a calendar day. JSON accepts 2006-01-02 or RFC 3339.
type Date struct {
	time.Time
}

// NewDate returns the given day at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, s); err != nil {
			return fmt.Errorf("clearance: bad date %q", s)
		}
	}
	d.Time = t
	return nil
}

// Display formats the date as DD-MM-YYYY, or "" when unset.
func (d Date) Display() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("02-01-2006")
}

// ClearanceRecord is one clearance inspection. It is read-only input to
// the report.
type ClearanceRecord struct {
	ProjectID         string          `json:"projectId"`
	SiteName          string          `json:"siteName"`
	SiteAddress       string          `json:"siteAddress"`
	ClientName        string          `json:"clientName"`
	ClearanceDate     Date            `json:"clearanceDate"`
	ClearanceType     ClearanceType   `json:"clearanceType"`
	AssessorName      string          `json:"assessorName"`
	AssessorLicence   string          `json:"assessorLicence"`
	RemovalistName    string          `json:"removalistName"`
	RemovalistLicence string          `json:"removalistLicence"`
	Notes             string          `json:"notes"`
	Revisions         []Revision      `json:"revisions"`
	Items             []ClearanceItem `json:"items"`
}

// ClearanceItem is one inspected location.
type ClearanceItem struct {
	Location     string `json:"location"`
	Material     string `json:"material"`
	AsbestosType string `json:"asbestosType"`
	PhotoRef     string `json:"photoRef,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// Revision is one row of the version-control table.
type Revision struct {
	Version     string `json:"version"`
	Date        Date   `json:"date"`
	Author      string `json:"author"`
	Description string `json:"description"`
}

// LoadRecord decodes a record from JSON. Unknown fields are rejected.
func LoadRecord(r io.Reader) (*ClearanceRecord, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var rec ClearanceRecord
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("clearance: decode record: %w", err)
	}
	return &rec, nil
}

// Filename is the suggested certificate file name:
//
//	{ProjectID}: {ClearanceType} Asbestos Clearance Report - {SiteName} ({DD-MM-YYYY}).pdf
func Filename(r *ClearanceRecord) string {
	return fmt.Sprintf("%s: %s Asbestos Clearance Report - %s (%s).pdf",
		r.ProjectID, r.ClearanceType, r.SiteName, r.ClearanceDate.Display())
}
