package pipeline

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	catalogModel "iptv-manager/internal/domains/catalog/model"
	"iptv-manager/internal/domains/clientimport/model"
)

// Messages shown in the preview table.
const (
	MsgNameRequired        = "Nome é obrigatório"
	MsgUsernameRequired    = "Usuário IPTV é obrigatório"
	MsgPasswordRequired    = "Senha IPTV é obrigatória"
	MsgPhoneRequired       = "WhatsApp é obrigatório"
	MsgRenewalRequired     = "Vencimento é obrigatório"
	MsgServerRequired      = "Servidor é obrigatório"
	MsgApplicationRequired = "Aplicativo é obrigatório"
	MsgPlanRequired        = "Plano é obrigatório"
	MsgInvalidEmail        = "Email inválido"
	MsgInvalidRenewalDate  = "Vencimento em formato inválido (use DD/MM/AAAA ou AAAA-MM-DD)"
	MsgDuplicateUsername   = "Usuário IPTV repetido na planilha"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	// DD/MM/YYYY, YYYY-MM-DD, DD-MM-YYYY or YYYY-MM-DD HH:MM:SS
	renewalDatePattern = regexp.MustCompile(
		`^(\d{2}/\d{2}/\d{4}|\d{4}-\d{2}-\d{2}|\d{2}-\d{2}-\d{4}|\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})$`,
	)
)

// Layouts matching each alternative of renewalDatePattern.
var renewalDateLayouts = []string{"2006-01-02", "02/01/2006", "02-01-2006", "2006-01-02 15:04:05"}

// isCalendarDate rejects well-shaped dates that do not exist, such as 2024-02-31.
var isCalendarDate = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	for _, layout := range renewalDateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return nil
		}
	}
	return validation.NewError("validation_renewal_date", MsgInvalidRenewalDate)
})

var requiredFields = []struct {
	value   func(r *model.ClientRecord) string
	message string
}{
	{func(r *model.ClientRecord) string { return r.Name }, MsgNameRequired},
	{func(r *model.ClientRecord) string { return r.Username }, MsgUsernameRequired},
	{func(r *model.ClientRecord) string { return r.IPTVPassword }, MsgPasswordRequired},
	{func(r *model.ClientRecord) string { return r.Phone }, MsgPhoneRequired},
	{func(r *model.ClientRecord) string { return r.RenewalDate }, MsgRenewalRequired},
	{func(r *model.ClientRecord) string { return r.Server }, MsgServerRequired},
	{func(r *model.ClientRecord) string { return r.Application }, MsgApplicationRequired},
	{func(r *model.ClientRecord) string { return r.Plan }, MsgPlanRequired},
}

// Validate checks a record against the known servers. It neither mutates the
// record nor depends on anything but its arguments.
func Validate(record model.ClientRecord, servers []catalogModel.Server) model.ValidationResult {
	errs := []string{}

	for _, f := range requiredFields {
		if err := validation.Validate(f.value(&record), validation.Required); err != nil {
			errs = append(errs, f.message)
		}
	}

	// Match and In skip empty values, so these only run on filled fields.
	if err := validation.Validate(record.Email, validation.Match(emailPattern)); err != nil {
		errs = append(errs, MsgInvalidEmail)
	}
	if err := validation.Validate(record.RenewalDate, validation.Match(renewalDatePattern), isCalendarDate); err != nil {
		errs = append(errs, MsgInvalidRenewalDate)
	}
	if err := validation.Validate(record.Server, validation.In(serverNames(servers)...)); err != nil {
		errs = append(errs, fmt.Sprintf("Servidor \"%s\" não encontrado", record.Server))
	}

	return model.ValidationResult{Errors: errs, Valid: len(errs) == 0}
}

// Revalidate recomputes Errors and Valid of record in place.
func Revalidate(record *model.ClientRecord, servers []catalogModel.Server) {
	record.ApplyValidation(Validate(*record, servers))
}

// RevalidateAll recomputes every record of the working set, then flags every
// occurrence of a username after its first one. The clients table is unique
// per username, so letting both through would fail the whole batch.
func RevalidateAll(records []model.ClientRecord, servers []catalogModel.Server) {
	for i := range records {
		Revalidate(&records[i], servers)
	}
	markDuplicateUsernames(records)
}

func markDuplicateUsernames(records []model.ClientRecord) {
	seen := make(map[string]bool, len(records))
	for i := range records {
		username := strings.TrimSpace(records[i].Username)
		if username == "" {
			continue
		}
		if !seen[username] {
			seen[username] = true
			continue
		}
		records[i].Errors = append(records[i].Errors, MsgDuplicateUsername)
		records[i].Valid = false
	}
}

func serverNames(servers []catalogModel.Server) []interface{} {
	names := make([]interface{}, len(servers))
	for i, s := range servers {
		names[i] = s.Name
	}
	return names
}
