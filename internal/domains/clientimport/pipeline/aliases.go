package pipeline

import (
	"strings"

	"iptv-manager/internal/domains/clientimport/model"
)

// nativeAliases lists, per record field, the header spellings tried in order.
var nativeAliases = map[string][]string{
	model.FieldName:         {"nome", "Nome", "NOME", "name"},
	model.FieldUsername:     {"usuario_iptv", "Usuário IPTV", "USUARIO_IPTV", "username"},
	model.FieldIPTVPassword: {"senha_iptv", "Senha IPTV", "SENHA_IPTV", "password"},
	model.FieldPhone:        {"whatsapp", "WhatsApp", "WHATSAPP"},
	model.FieldRenewalDate:  {"vencimento", "Vencimento", "VENCIMENTO", "expiry_date"},
	model.FieldServer:       {"servidor", "Servidor", "SERVIDOR", "server"},
	model.FieldApplication:  {"aplicativo", "Aplicativo", "APLICATIVO", "application"},
	model.FieldMAC:          {"mac", "MAC", "Mac"},
	model.FieldPlan:         {"plano", "Plano", "PLANO", "package"},
	model.FieldEmail:        {"email", "Email", "EMAIL"},
	model.FieldValue:        {"valor", "value", "plan_price"},
	model.FieldScreens:      {"telas", "screens", "connections"},
	model.FieldNotes:        {"observacoes", "notes", "note"},
}

// NativeHeaders is the header row of the import template.
var NativeHeaders = []string{
	"nome", "usuario_iptv", "senha_iptv", "whatsapp", "vencimento", "servidor",
	"aplicativo", "mac", "plano", "email", "valor", "telas", "observacoes",
}

// Aliases returns the header spellings accepted for a native field.
func Aliases(field string) []string {
	return nativeAliases[field]
}

// FirstNonEmpty returns the first trimmed non-empty value among keys.
func FirstNonEmpty(row model.RawRow, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(row[k]); v != "" {
			return v
		}
	}
	return ""
}

func lookupNative(row model.RawRow, field string) string {
	return FirstNonEmpty(row, nativeAliases[field]...)
}
