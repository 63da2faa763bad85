package pipeline

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"iptv-manager/internal/domains/clientimport/model"
)

// DefaultForeignApplication is assigned to every record of a foreign export,
// which has no application column.
const DefaultForeignApplication = "NextApp"

// Normalizer maps raw rows to client records.
type Normalizer struct {
	ForeignApplication string
}

func NewNormalizer(foreignApplication string) Normalizer {
	if foreignApplication == "" {
		foreignApplication = DefaultForeignApplication
	}
	return Normalizer{ForeignApplication: foreignApplication}
}

// Normalize maps row with the default foreign application.
func Normalize(row model.RawRow, index int, format model.ImportFormat) model.ClientRecord {
	return NewNormalizer(DefaultForeignApplication).Normalize(row, index, format)
}

// Normalize maps one row to a record. Errors and Valid are left unset; the
// caller validates next.
func (n Normalizer) Normalize(row model.RawRow, index int, format model.ImportFormat) model.ClientRecord {
	if format == model.FormatForeignExport {
		return n.normalizeForeign(row, index)
	}
	return normalizeNative(row, index)
}

func (n Normalizer) normalizeForeign(row model.RawRow, index int) model.ClientRecord {
	name := FirstNonEmpty(row, "name", "note")
	if name == "" {
		name = fmt.Sprintf("Cliente %d", index)
	}

	return model.ClientRecord{
		Index:        index,
		Name:         name,
		Username:     FirstNonEmpty(row, "username"),
		IPTVPassword: FirstNonEmpty(row, "password"),
		Phone:        FirstNonEmpty(row, "whatsapp", "telegram"),
		RenewalDate:  NormalizeDate(row["expiry_date"]),
		Server:       FirstNonEmpty(row, "server"),
		Application:  n.ForeignApplication,
		MAC:          "",
		Plan:         FirstNonEmpty(row, "package", "plan", "plano"),
		Email:        FirstNonEmpty(row, "email"),
		Value:        ParseValue(row["plan_price"]),
		Screens:      ParseScreens(row["connections"]),
		Notes:        FirstNonEmpty(row, "note"),
		SourceFormat: model.FormatForeignExport,
	}
}

func normalizeNative(row model.RawRow, index int) model.ClientRecord {
	return model.ClientRecord{
		Index:        index,
		Name:         lookupNative(row, model.FieldName),
		Username:     lookupNative(row, model.FieldUsername),
		IPTVPassword: lookupNative(row, model.FieldIPTVPassword),
		Phone:        lookupNative(row, model.FieldPhone),
		RenewalDate:  NormalizeDate(lookupNative(row, model.FieldRenewalDate)),
		Server:       lookupNative(row, model.FieldServer),
		Application:  lookupNative(row, model.FieldApplication),
		MAC:          lookupNative(row, model.FieldMAC),
		Plan:         lookupNative(row, model.FieldPlan),
		Email:        lookupNative(row, model.FieldEmail),
		Value:        ParseValue(lookupNative(row, model.FieldValue)),
		Screens:      ParseScreens(lookupNative(row, model.FieldScreens)),
		Notes:        lookupNative(row, model.FieldNotes),
		SourceFormat: model.FormatNative,
	}
}

// ParseValue reads a money amount. A comma is taken as the decimal separator
// when no dot is present. Anything unparsable is zero.
func ParseValue(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseScreens reads a screen count. Anything unparsable or below 1 is 1.
func ParseScreens(s string) int {
	// leading zeros would make cast parse the value as octal
	s = strings.TrimLeft(strings.TrimSpace(s), "0")
	n, err := cast.ToIntE(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
