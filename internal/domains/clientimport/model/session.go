package model

// Stage is the wizard step a session is in.
type Stage string

const (
	StageUpload  Stage = "upload"
	StagePreview Stage = "preview"
)

// ImportSession is the working set of one import, owned by a single reseller.
// Its ID is also the ID of the import job tracking it.
type ImportSession struct {
	ID       string         `json:"id"`
	OwnerID  string         `json:"owner_id"`
	Stage    Stage          `json:"stage"`
	FileName string         `json:"file_name"`
	Format   ImportFormat   `json:"format"`
	Records  []ClientRecord `json:"records"`
}

// Counts returns the total, valid and invalid record counts.
func (s *ImportSession) Counts() (total, valid, invalid int) {
	total = len(s.Records)
	for _, r := range s.Records {
		if r.Valid {
			valid++
		}
	}
	return total, valid, total - valid
}

// ValidRecords returns a copy of the records that passed validation.
func (s *ImportSession) ValidRecords() []ClientRecord {
	out := make([]ClientRecord, 0, len(s.Records))
	for _, r := range s.Records {
		if r.Valid {
			out = append(out, r)
		}
	}
	return out
}

// Record returns the record with the given 1-based index.
func (s *ImportSession) Record(index int) (*ClientRecord, bool) {
	for i := range s.Records {
		if s.Records[i].Index == index {
			return &s.Records[i], true
		}
	}
	return nil, false
}
