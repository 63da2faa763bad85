package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Editable record fields, as named in requests.
const (
	FieldName         = "name"
	FieldUsername     = "username"
	FieldIPTVPassword = "iptv_password"
	FieldPhone        = "phone"
	FieldRenewalDate  = "renewal_date"
	FieldServer       = "server"
	FieldApplication  = "application"
	FieldMAC          = "mac"
	FieldPlan         = "plan"
	FieldEmail        = "email"
	FieldValue        = "value"
	FieldScreens      = "screens"
	FieldNotes        = "notes"
)

// BulkFields are the fields that can be set on every record at once.
var BulkFields = []interface{}{FieldServer, FieldPlan, FieldApplication}

// BulkEditRequest - POST /clients/import/:id/bulk
type BulkEditRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (r BulkEditRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Field, validation.Required, validation.In(BulkFields...)),
	)
}

// RecordEditRequest - PATCH /clients/import/:id/records/:index
// Value may be a JSON string or number.
type RecordEditRequest struct {
	Field string      `json:"field"`
	Value interface{} `json:"value"`
}

func (r RecordEditRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Field, validation.Required),
	)
}

// SubmitRequest - POST /clients/import/:id/submit
type SubmitRequest struct {
	Confirm bool `json:"confirm"`
}

// Summary counts the records of a session.
type Summary struct {
	Total   int `json:"total"`
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
}

// RecordView is a record as shown in the preview table.
type RecordView struct {
	ClientRecord
	DisplayDate string `json:"display_date"`
}

// SessionResponse is the preview payload returned for a session.
type SessionResponse struct {
	ID       string       `json:"id"`
	Stage    Stage        `json:"stage"`
	FileName string       `json:"file_name"`
	Format   ImportFormat `json:"format"`
	Summary  Summary      `json:"summary"`
	Records  []RecordView `json:"records"`
}

// ListJobsQuery - GET /clients/import/jobs
type ListJobsQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

func (q *ListJobsQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}
}
