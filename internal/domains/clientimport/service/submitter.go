package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	clientModel "iptv-manager/internal/domains/client/model"
	"iptv-manager/internal/domains/clientimport/model"
	"iptv-manager/internal/domains/clientimport/progress"
)

// Submitter sends the valid subset of a session to the backend.
type Submitter struct {
	backend ClientImporter
	store   progress.Store
}

func NewSubmitter(backend ClientImporter, store progress.Store) *Submitter {
	return &Submitter{backend: backend, store: store}
}

// Submit imports the valid records of session in one call, without chunking
// or retry. With invalid records present and confirm false it asks for
// confirmation and sends nothing. On success the session is cleared; on
// failure it is left exactly as it was.
func (s *Submitter) Submit(ctx context.Context, session *model.ImportSession, confirm bool) (*model.SubmitResult, error) {
	valid := session.ValidRecords()
	if len(valid) == 0 {
		return nil, model.ErrNothingToImport
	}

	skipped := len(session.Records) - len(valid)
	if skipped > 0 && !confirm {
		return &model.SubmitResult{Outcome: model.SkipConfirmation(skipped), Skipped: skipped}, nil
	}

	jobID, _ := uuid.Parse(session.ID)
	imported, err := s.backend.ImportClients(ctx, session.OwnerID, jobID, toNewClients(valid))
	if err != nil {
		log.Warn().
			Err(err).
			Str("session_id", session.ID).
			Int("records", len(valid)).
			Msg("Client import rejected by backend")
		return nil, model.SubmitFailed(err)
	}

	if err := s.store.Clear(ctx, session.OwnerID, session.ID); err != nil {
		log.Warn().Err(err).Str("session_id", session.ID).Msg("Failed to clear submitted import session")
	}

	return &model.SubmitResult{
		Outcome:  model.Outcome{Kind: model.OutcomeCompleted, Message: "Importação concluída"},
		Imported: imported,
		Skipped:  skipped,
	}, nil
}

func toNewClients(records []model.ClientRecord) []clientModel.NewClient {
	out := make([]clientModel.NewClient, len(records))
	for i, r := range records {
		out[i] = clientModel.NewClient{
			Name:         r.Name,
			Username:     r.Username,
			IPTVPassword: r.IPTVPassword,
			Phone:        r.Phone,
			RenewalDate:  r.RenewalDate,
			Server:       r.Server,
			Application:  r.Application,
			MAC:          r.MAC,
			Plan:         r.Plan,
			Email:        r.Email,
			Value:        r.Value,
			Screens:      r.Screens,
			Notes:        r.Notes,
		}
	}
	return out
}

func isNothingToImport(err error) bool {
	return errors.Is(err, model.ErrNothingToImport)
}
