package model

import (
	"github.com/shopspring/decimal"
)

// ImportFormat identifies the column layout of an uploaded file.
type ImportFormat string

const (
	FormatNative        ImportFormat = "native"
	FormatForeignExport ImportFormat = "foreign_export"
)

// RawRow maps a header to the cell text of one spreadsheet row.
type RawRow map[string]string

// ClientRecord is one normalized row of an import.
type ClientRecord struct {
	Index        int             `json:"index"`
	Name         string          `json:"name"`
	Username     string          `json:"username"`
	IPTVPassword string          `json:"iptv_password"`
	Phone        string          `json:"phone"`
	RenewalDate  string          `json:"renewal_date"`
	Server       string          `json:"server"`
	Application  string          `json:"application"`
	MAC          string          `json:"mac"`
	Plan         string          `json:"plan"`
	Email        string          `json:"email"`
	Value        decimal.Decimal `json:"value"`
	Screens      int             `json:"screens"`
	Notes        string          `json:"notes"`
	SourceFormat ImportFormat    `json:"source_format"`

	Errors []string `json:"errors"`
	Valid  bool     `json:"valid"`
}

// ValidationResult is the outcome of checking one record.
type ValidationResult struct {
	Errors []string `json:"errors"`
	Valid  bool     `json:"valid"`
}

// ApplyValidation stores res on the record. Valid is derived from the
// error list so the two can never disagree.
func (r *ClientRecord) ApplyValidation(res ValidationResult) {
	errs := make([]string, len(res.Errors))
	copy(errs, res.Errors)
	r.Errors = errs
	r.Valid = len(errs) == 0
}
