package site

import "fmt"

/*
Responsibilities
- Represent one park/site as a fully-populated record
- Own the sentinel-substitution rules in a single place

Record Semantics
- Every field is always populated: absence of source data maps to a
  sentinel string, never to an empty field.
- Records are constructed once per fetch or cache hit and are immutable
  thereafter.
*/

// Sentinel placeholders substituted when a source field is absent.
const (
	NoCategory = "No Category"
	NoName     = "No Name"
	NoAddress  = "No Address"
	NoZipcode  = "No Zipcode"
	NoPhone    = "No Phone"
)

// Record is the normalized description of one park/site. The JSON field
// names match the persisted cache layout and must not change.
type Record struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Zipcode  string `json:"zipcode"`
	Phone    string `json:"phone"`
}

// Fields is the optional-field bag produced by detail-page extraction.
// An empty string means the field was absent from the source document.
type Fields struct {
	Name        string
	Designation string
	Locality    string
	Region      string
	PostalCode  string
	Phone       string
}

// Normalize builds a fully-populated Record from an optional-field bag.
// The address is "Locality, Region" only when both halves are present.
func Normalize(f Fields) Record {
	rec := Record{
		Category: f.Designation,
		Name:     f.Name,
		Address:  NoAddress,
		Zipcode:  f.PostalCode,
		Phone:    f.Phone,
	}
	if rec.Category == "" {
		rec.Category = NoCategory
	}
	if rec.Name == "" {
		rec.Name = NoName
	}
	if f.Locality != "" && f.Region != "" {
		rec.Address = f.Locality + ", " + f.Region
	}
	if rec.Zipcode == "" {
		rec.Zipcode = NoZipcode
	}
	if rec.Phone == "" {
		rec.Phone = NoPhone
	}
	return rec
}

// Info returns the one-line display form of the record.
func (r Record) Info() string {
	return fmt.Sprintf("%s (%s): %s %s", r.Name, r.Category, r.Address, r.Zipcode)
}
