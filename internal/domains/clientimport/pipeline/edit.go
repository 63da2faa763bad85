package pipeline

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	catalogModel "iptv-manager/internal/domains/catalog/model"
	"iptv-manager/internal/domains/clientimport/model"
)

// UpdateField sets one field of a record from a request value, applying the
// same coercions as the normalizer, and revalidates the record.
func UpdateField(record *model.ClientRecord, field string, value interface{}, lookups catalogModel.Lookups) error {
	s, err := cast.ToStringE(value)
	if err != nil {
		return &model.ImportError{Code: model.CodeUnknownField, Message: "value must be a string or a number", Err: err}
	}
	s = strings.TrimSpace(s)

	switch field {
	case model.FieldName:
		record.Name = s
	case model.FieldUsername:
		record.Username = s
	case model.FieldIPTVPassword:
		record.IPTVPassword = s
	case model.FieldPhone:
		record.Phone = s
	case model.FieldRenewalDate:
		record.RenewalDate = NormalizeDate(s)
	case model.FieldServer:
		record.Server = s
	case model.FieldApplication:
		record.Application = s
	case model.FieldMAC:
		record.MAC = s
	case model.FieldPlan:
		record.Plan = s
		if plan, ok := lookups.FindPlan(s); ok && !plan.Price.IsZero() {
			record.Value = plan.Price
		}
	case model.FieldEmail:
		record.Email = s
	case model.FieldValue:
		record.Value = ParseValue(s)
	case model.FieldScreens:
		record.Screens = ParseScreens(s)
	case model.FieldNotes:
		record.Notes = s
	default:
		return model.ErrUnknownField
	}

	Revalidate(record, lookups.Servers)
	return nil
}

// MissingPlans returns the distinct plan names of records that are not in
// lookups, in first-seen order, priced from the first record carrying them.
func MissingPlans(records []model.ClientRecord, lookups catalogModel.Lookups) []catalogModel.Plan {
	seen := make(map[string]bool)
	var missing []catalogModel.Plan

	for _, r := range records {
		name := strings.TrimSpace(r.Plan)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		if _, ok := lookups.FindPlan(name); ok {
			continue
		}

		price := r.Value
		if price.IsNegative() {
			price = decimal.Zero
		}
		missing = append(missing, catalogModel.Plan{Name: name, Price: price, Screens: 1})
	}

	return missing
}
