package pipeline

import (
	catalogModel "iptv-manager/internal/domains/catalog/model"
	"iptv-manager/internal/domains/clientimport/model"
)

// ApplyServerToAll sets the server of every record and revalidates.
func ApplyServerToAll(records []model.ClientRecord, value string, lookups catalogModel.Lookups) {
	for i := range records {
		records[i].Server = value
	}
	RevalidateAll(records, lookups.Servers)
}

// ApplyPlanToAll sets the plan of every record. When the plan is known with a
// non-zero price, that price replaces every record's value.
func ApplyPlanToAll(records []model.ClientRecord, value string, lookups catalogModel.Lookups) {
	plan, known := lookups.FindPlan(value)
	overwritePrice := known && !plan.Price.IsZero()

	for i := range records {
		records[i].Plan = value
		if overwritePrice {
			records[i].Value = plan.Price
		}
	}
	RevalidateAll(records, lookups.Servers)
}

// ApplyApplicationToAll sets the application of every record and revalidates.
func ApplyApplicationToAll(records []model.ClientRecord, value string, lookups catalogModel.Lookups) {
	for i := range records {
		records[i].Application = value
	}
	RevalidateAll(records, lookups.Servers)
}

// ApplyToAll dispatches a bulk edit by field name.
func ApplyToAll(records []model.ClientRecord, field, value string, lookups catalogModel.Lookups) error {
	switch field {
	case model.FieldServer:
		ApplyServerToAll(records, value, lookups)
	case model.FieldPlan:
		ApplyPlanToAll(records, value, lookups)
	case model.FieldApplication:
		ApplyApplicationToAll(records, value, lookups)
	default:
		return model.ErrUnknownField
	}
	return nil
}
