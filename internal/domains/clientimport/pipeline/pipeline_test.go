package pipeline_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogModel "iptv-manager/internal/domains/catalog/model"
	"iptv-manager/internal/domains/clientimport/model"
	"iptv-manager/internal/domains/clientimport/pipeline"
)

var servers = []catalogModel.Server{{Name: "Servidor1"}}

func validRecord() model.ClientRecord {
	return model.ClientRecord{
		Index:        1,
		Name:         "João",
		Username:     "joao",
		IPTVPassword: "x",
		Phone:        "119999",
		RenewalDate:  "2024-12-25",
		Server:       "Servidor1",
		Application:  "App1",
		Plan:         "Basic",
		Screens:      1,
	}
}

// validRecords returns n valid records with distinct usernames.
func validRecords(n int) []model.ClientRecord {
	records := make([]model.ClientRecord, n)
	for i := range records {
		records[i] = validRecord()
		records[i].Index = i + 1
		records[i].Username = fmt.Sprintf("joao%d", i+1)
	}
	return records
}

func TestDetectFormat(t *testing.T) {
	foreign := model.RawRow{"username": "", "password": "", "expiry_date": "", "package": ""}
	assert.Equal(t, model.FormatForeignExport, pipeline.DetectFormat([]model.RawRow{foreign}))

	for _, key := range []string{"username", "password", "expiry_date", "package"} {
		row := model.RawRow{}
		for k, v := range foreign {
			if k != key {
				row[k] = v
			}
		}
		assert.Equal(t, model.FormatNative, pipeline.DetectFormat([]model.RawRow{row}), "missing %s", key)
	}

	t.Run("only first row counts", func(t *testing.T) {
		rows := []model.RawRow{{"nome": "a"}, foreign}
		assert.Equal(t, model.FormatNative, pipeline.DetectFormat(rows))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, model.FormatNative, pipeline.DetectFormat(nil))
	})
}

func TestNormalize_Foreign(t *testing.T) {
	row := model.RawRow{
		"username":    "jdoe",
		"password":    "pw",
		"expiry_date": "2024-12-25 10:00:00",
		"package":     "",
		"plan":        "VIP",
		"whatsapp":    "",
		"telegram":    "@jdoe",
		"plan_price":  "abc",
		"connections": "x",
		"note":        "bom cliente",
		"server":      "Servidor1",
	}

	r := pipeline.Normalize(row, 3, model.FormatForeignExport)

	assert.Equal(t, 3, r.Index)
	assert.Equal(t, "bom cliente", r.Name)
	assert.Equal(t, "jdoe", r.Username)
	assert.Equal(t, "pw", r.IPTVPassword)
	assert.Equal(t, "@jdoe", r.Phone)
	assert.Equal(t, "2024-12-25", r.RenewalDate)
	assert.Equal(t, "NextApp", r.Application)
	assert.Equal(t, "VIP", r.Plan)
	assert.Equal(t, "", r.MAC)
	assert.True(t, r.Value.IsZero())
	assert.Equal(t, 1, r.Screens)
	assert.Equal(t, "bom cliente", r.Notes)
	assert.Equal(t, model.FormatForeignExport, r.SourceFormat)
}

func TestNormalize_ForeignNameFallback(t *testing.T) {
	r := pipeline.Normalize(model.RawRow{"username": "a"}, 7, model.FormatForeignExport)
	assert.Equal(t, "Cliente 7", r.Name)

	r = pipeline.Normalize(model.RawRow{"name": "Ana", "note": "x"}, 7, model.FormatForeignExport)
	assert.Equal(t, "Ana", r.Name)
}

func TestNormalize_Native(t *testing.T) {
	row := model.RawRow{
		"Nome":         "Maria",
		"Usuário IPTV": "maria1",
		"SENHA_IPTV":   "s3",
		"whatsapp":     "1199",
		"Vencimento":   "05/01/2025",
		"server":       "Servidor1",
		"Aplicativo":   "XCIPTV",
		"MAC":          "00:1A",
		"plano":        "",
		"Plano":        "Mensal",
		"valor":        "35,50",
		"telas":        "2",
		"notes":        "ok",
	}

	r := pipeline.Normalize(row, 1, model.FormatNative)

	assert.Equal(t, "Maria", r.Name)
	assert.Equal(t, "maria1", r.Username)
	assert.Equal(t, "s3", r.IPTVPassword)
	assert.Equal(t, "1199", r.Phone)
	assert.Equal(t, "2025-01-05", r.RenewalDate)
	assert.Equal(t, "Servidor1", r.Server)
	assert.Equal(t, "XCIPTV", r.Application)
	assert.Equal(t, "00:1A", r.MAC)
	assert.Equal(t, "Mensal", r.Plan)
	assert.True(t, decimal.RequireFromString("35.50").Equal(r.Value))
	assert.Equal(t, 2, r.Screens)
	assert.Equal(t, "ok", r.Notes)
}

func TestNormalize_NativeLeavesNameEmpty(t *testing.T) {
	r := pipeline.Normalize(model.RawRow{"usuario_iptv": "a"}, 4, model.FormatNative)
	assert.Equal(t, "", r.Name)
	assert.True(t, r.Value.IsZero())
	assert.Equal(t, 1, r.Screens)
}

func TestNormalizer_CustomForeignApplication(t *testing.T) {
	r := pipeline.NewNormalizer("TiviMate").Normalize(model.RawRow{}, 1, model.FormatForeignExport)
	assert.Equal(t, "TiviMate", r.Application)
}

func TestParseScreens(t *testing.T) {
	tests := map[string]int{"": 1, "0": 1, "-2": 1, "3": 3, "08": 8, "2.0": 2, "dois": 1}
	for in, want := range tests {
		assert.Equal(t, want, pipeline.ParseScreens(in), "input %q", in)
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"25/12/2024", "2024-12-25"},
		{"2024-12-25", "2024-12-25"},
		{"25-12-2024", "2024-12-25"},
		{"2024-12-25 00:00:00", "2024-12-25"},
		{"5/1/2025", "2025-01-05"},
		{"45651", "2024-12-25"},
		{"45651.5", "2024-12-25"},
		{"45658", "2025-01-01"},
		{"  ", ""},
		{"amanhã", "amanhã"},
		{"99999999", "99999999"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, pipeline.NormalizeDate(tt.in))
		})
	}

	once := pipeline.NormalizeDate("25/12/2024")
	assert.Equal(t, once, pipeline.NormalizeDate(once))
}

func TestDisplayDate(t *testing.T) {
	assert.Equal(t, "25/12/2024", pipeline.DisplayDate("2024-12-25"))
	assert.Equal(t, "ontem", pipeline.DisplayDate("ontem"))
}

func TestValidate_ValidRecord(t *testing.T) {
	res := pipeline.Validate(validRecord(), servers)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
}

func TestValidate_RequiredUsername(t *testing.T) {
	r := validRecord()
	r.Username = ""

	res := pipeline.Validate(r, servers)

	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "Usuário IPTV")
}

func TestValidate_RequiredOrder(t *testing.T) {
	res := pipeline.Validate(model.ClientRecord{}, servers)

	assert.Equal(t, []string{
		pipeline.MsgNameRequired,
		pipeline.MsgUsernameRequired,
		pipeline.MsgPasswordRequired,
		pipeline.MsgPhoneRequired,
		pipeline.MsgRenewalRequired,
		pipeline.MsgServerRequired,
		pipeline.MsgApplicationRequired,
		pipeline.MsgPlanRequired,
	}, res.Errors)
}

func TestValidate_ServerMustBeKnown(t *testing.T) {
	r := validRecord()
	r.Server = "ServidorX"

	res := pipeline.Validate(r, servers)

	assert.False(t, res.Valid)
	assert.Equal(t, []string{`Servidor "ServidorX" não encontrado`}, res.Errors)

	r.Server = "servidor1"
	assert.False(t, pipeline.Validate(r, servers).Valid, "match is case-sensitive")
}

func TestValidate_Formats(t *testing.T) {
	r := validRecord()
	r.Email = "nope"
	r.RenewalDate = "2024/12/25"

	res := pipeline.Validate(r, servers)

	assert.Equal(t, []string{pipeline.MsgInvalidEmail, pipeline.MsgInvalidRenewalDate}, res.Errors)

	r.Email = "a@b.com"
	r.RenewalDate = "25-12-2024"
	assert.True(t, pipeline.Validate(r, servers).Valid)
}

func TestValidate_RejectsImpossibleCalendarDates(t *testing.T) {
	tests := []struct {
		date  string
		valid bool
	}{
		{pipeline.NormalizeDate("31/02/2024"), false},
		{"2024-02-31", false},
		{"2023-02-29", false},
		{"2024-13-01", false},
		{"31/04/2025", false},
		{"2024-02-29", true},
		{"29/02/2024", true},
		{"2024-12-25 10:30:00", true},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			r := validRecord()
			r.RenewalDate = tt.date

			res := pipeline.Validate(r, servers)
			assert.Equal(t, tt.valid, res.Valid)
			if !tt.valid {
				assert.Equal(t, []string{pipeline.MsgInvalidRenewalDate}, res.Errors)
			}
		})
	}
}

func TestValidate_EmptyRenewalDateOnlyReportsRequired(t *testing.T) {
	r := validRecord()
	r.RenewalDate = ""

	assert.Equal(t, []string{pipeline.MsgRenewalRequired}, pipeline.Validate(r, servers).Errors)
}

func TestRevalidateAll_FlagsRepeatedUsernames(t *testing.T) {
	records := validRecords(4)
	records[1].Username = "joao1"
	records[3].Username = " joao1 "
	records[2].Username = ""

	pipeline.RevalidateAll(records, servers)

	assert.True(t, records[0].Valid, "first occurrence stays valid")
	assert.Equal(t, []string{pipeline.MsgDuplicateUsername}, records[1].Errors)
	assert.Equal(t, []string{pipeline.MsgUsernameRequired}, records[2].Errors, "blank usernames are not duplicates")
	assert.Equal(t, []string{pipeline.MsgDuplicateUsername}, records[3].Errors)
	assert.False(t, records[3].Valid)

	// renaming the repeat clears it on the next pass
	records[1].Username = "maria"
	records[3].Username = "jose"
	pipeline.RevalidateAll(records, servers)
	assert.True(t, records[1].Valid)
	assert.True(t, records[3].Valid)
}

func TestApplyToAll_KeepsDuplicateFlags(t *testing.T) {
	records := validRecords(2)
	records[1].Username = records[0].Username

	require.NoError(t, pipeline.ApplyToAll(records, model.FieldServer, "Servidor1", catalogModel.Lookups{Servers: servers}))

	assert.True(t, records[0].Valid)
	assert.Equal(t, []string{pipeline.MsgDuplicateUsername}, records[1].Errors)
}

func TestValidate_Idempotent(t *testing.T) {
	r := validRecord()
	r.Email = "bad"
	r.Plan = ""

	first := pipeline.Validate(r, servers)
	second := pipeline.Validate(r, servers)

	assert.Equal(t, first, second)
	assert.Empty(t, r.Errors, "record is not mutated")
}

func TestRevalidate_KeepsValidConsistent(t *testing.T) {
	r := validRecord()
	pipeline.Revalidate(&r, servers)
	assert.True(t, r.Valid)
	assert.Empty(t, r.Errors)

	r.Phone = ""
	pipeline.Revalidate(&r, servers)
	assert.False(t, r.Valid)
	assert.Equal(t, r.Valid, len(r.Errors) == 0)
}

func TestApplyPlanToAll_OverwritesValue(t *testing.T) {
	lookups := catalogModel.Lookups{
		Servers: servers,
		Plans:   []catalogModel.Plan{{Name: "VIP", Price: decimal.NewFromFloat(50.0)}},
	}
	records := validRecords(3)
	records[0].Value = decimal.NewFromInt(10)
	records[1].Value = decimal.NewFromInt(99)
	records[2].Plan = ""

	pipeline.ApplyPlanToAll(records, "VIP", lookups)

	for _, r := range records {
		assert.Equal(t, "VIP", r.Plan)
		assert.True(t, decimal.NewFromInt(50).Equal(r.Value))
		assert.True(t, r.Valid)
		assert.Equal(t, r.Valid, len(r.Errors) == 0)
	}
}

func TestApplyPlanToAll_UnknownOrFreePlanKeepsValue(t *testing.T) {
	lookups := catalogModel.Lookups{
		Servers: servers,
		Plans:   []catalogModel.Plan{{Name: "Free", Price: decimal.Zero}},
	}
	records := []model.ClientRecord{validRecord()}
	records[0].Value = decimal.NewFromInt(20)

	pipeline.ApplyPlanToAll(records, "Free", lookups)
	assert.True(t, decimal.NewFromInt(20).Equal(records[0].Value))

	pipeline.ApplyPlanToAll(records, "Other", lookups)
	assert.True(t, decimal.NewFromInt(20).Equal(records[0].Value))
	assert.Equal(t, "Other", records[0].Plan)
}

func TestApplyServerToAll_Revalidates(t *testing.T) {
	lookups := catalogModel.Lookups{Servers: servers}
	records := validRecords(2)
	records[0].Server = ""
	pipeline.RevalidateAll(records, servers)
	require.False(t, records[0].Valid)

	pipeline.ApplyServerToAll(records, "Servidor1", lookups)
	for _, r := range records {
		assert.True(t, r.Valid)
	}

	pipeline.ApplyServerToAll(records, "Nope", lookups)
	for _, r := range records {
		assert.False(t, r.Valid)
		assert.Equal(t, []string{`Servidor "Nope" não encontrado`}, r.Errors)
	}
}

func TestApplyApplicationToAll_Revalidates(t *testing.T) {
	records := []model.ClientRecord{validRecord()}
	pipeline.ApplyApplicationToAll(records, "", catalogModel.Lookups{Servers: servers})

	assert.Equal(t, "", records[0].Application)
	assert.Equal(t, []string{pipeline.MsgApplicationRequired}, records[0].Errors)
}

func TestApplyToAll_UnknownField(t *testing.T) {
	err := pipeline.ApplyToAll(nil, "email", "x", catalogModel.Lookups{})
	assert.True(t, errors.Is(err, model.ErrUnknownField))
}

func TestUpdateField(t *testing.T) {
	lookups := catalogModel.Lookups{
		Servers: servers,
		Plans:   []catalogModel.Plan{{Name: "Anual", Price: decimal.NewFromInt(300)}},
	}
	r := validRecord()

	require.NoError(t, pipeline.UpdateField(&r, model.FieldRenewalDate, "01/02/2025", lookups))
	assert.Equal(t, "2025-02-01", r.RenewalDate)

	require.NoError(t, pipeline.UpdateField(&r, model.FieldScreens, 3.0, lookups))
	assert.Equal(t, 3, r.Screens)

	require.NoError(t, pipeline.UpdateField(&r, model.FieldPlan, "Anual", lookups))
	assert.True(t, decimal.NewFromInt(300).Equal(r.Value))

	require.NoError(t, pipeline.UpdateField(&r, model.FieldName, "  ", lookups))
	assert.False(t, r.Valid)
	assert.Equal(t, []string{pipeline.MsgNameRequired}, r.Errors)

	err := pipeline.UpdateField(&r, "owner", "x", lookups)
	assert.True(t, errors.Is(err, model.ErrUnknownField))
}

func TestMissingPlans(t *testing.T) {
	lookups := catalogModel.Lookups{Plans: []catalogModel.Plan{{Name: "Mensal"}}}
	records := []model.ClientRecord{
		{Plan: "Mensal"},
		{Plan: "Gold", Value: decimal.NewFromInt(60)},
		{Plan: "Gold", Value: decimal.NewFromInt(70)},
		{Plan: ""},
		{Plan: "Silver"},
	}

	missing := pipeline.MissingPlans(records, lookups)

	require.Len(t, missing, 2)
	assert.Equal(t, "Gold", missing[0].Name)
	assert.True(t, decimal.NewFromInt(60).Equal(missing[0].Price))
	assert.Equal(t, "Silver", missing[1].Name)
	assert.True(t, missing[1].Price.IsZero())
}

func TestGuards(t *testing.T) {
	limits := pipeline.DefaultLimits

	assert.NoError(t, pipeline.CheckFile("clientes.XLSX", 100, limits))
	assert.NoError(t, pipeline.CheckFile("clientes.csv", limits.MaxFileBytes, limits))
	assert.True(t, errors.Is(pipeline.CheckFile("clientes.xls", 100, limits), model.ErrInvalidExtension))
	assert.True(t, errors.Is(pipeline.CheckFile("clientes.csv", limits.MaxFileBytes+1, limits), model.ErrFileTooLarge))

	assert.True(t, errors.Is(pipeline.CheckRows(0, limits), model.ErrEmptySheet))
	assert.True(t, errors.Is(pipeline.CheckRows(1001, limits), model.ErrTooManyRows))
	assert.NoError(t, pipeline.CheckRows(1000, limits))
	assert.NoError(t, pipeline.CheckRows(1, limits))
}
