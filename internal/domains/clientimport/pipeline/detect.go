package pipeline

import "iptv-manager/internal/domains/clientimport/model"

// Columns that only the foreign panel export carries, all together.
var foreignSentinels = []string{"username", "password", "expiry_date", "package"}

// DetectFormat classifies a file by the keys of its first row. Presence of
// every sentinel key decides, even with empty values.
func DetectFormat(rows []model.RawRow) model.ImportFormat {
	if len(rows) == 0 {
		return model.FormatNative
	}

	first := rows[0]
	for _, key := range foreignSentinels {
		if _, ok := first[key]; !ok {
			return model.FormatNative
		}
	}
	return model.FormatForeignExport
}
