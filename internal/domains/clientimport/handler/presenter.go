package handler

import (
	"iptv-manager/internal/domains/clientimport/model"
	"iptv-manager/internal/domains/clientimport/pipeline"
)

func toSessionResponse(s *model.ImportSession) model.SessionResponse {
	total, valid, invalid := s.Counts()

	views := make([]model.RecordView, len(s.Records))
	for i, r := range s.Records {
		if r.Errors == nil {
			r.Errors = []string{}
		}
		views[i] = model.RecordView{
			ClientRecord: r,
			DisplayDate:  pipeline.DisplayDate(r.RenewalDate),
		}
	}

	return model.SessionResponse{
		ID:       s.ID,
		Stage:    s.Stage,
		FileName: s.FileName,
		Format:   s.Format,
		Summary:  model.Summary{Total: total, Valid: valid, Invalid: invalid},
		Records:  views,
	}
}
