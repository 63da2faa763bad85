package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	catalogModel "iptv-manager/internal/domains/catalog/model"
	catalogService "iptv-manager/internal/domains/catalog/service"
	"iptv-manager/internal/domains/clientimport/model"
	"iptv-manager/internal/domains/clientimport/pipeline"
	"iptv-manager/internal/domains/clientimport/progress"
	"iptv-manager/internal/domains/clientimport/reader"
	"iptv-manager/internal/domains/clientimport/repository"
)

var contentTypes = map[string]string{
	pipeline.ExtCSV:  "text/csv",
	pipeline.ExtXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

type importService struct {
	catalog    catalogService.CatalogService
	store      progress.Store
	submitter  *Submitter
	jobs       repository.JobRepository
	archive    Archiver // nil when archiving is disabled
	normalizer pipeline.Normalizer
	opts       Options
}

func NewImportService(
	catalog catalogService.CatalogService,
	store progress.Store,
	backend ClientImporter,
	jobs repository.JobRepository,
	archive Archiver,
	opts Options,
) ImportService {
	if opts.Limits.MaxRows == 0 {
		opts.Limits.MaxRows = pipeline.DefaultLimits.MaxRows
	}
	if opts.Limits.MaxFileBytes == 0 {
		opts.Limits.MaxFileBytes = pipeline.DefaultLimits.MaxFileBytes
	}

	return &importService{
		catalog:    catalog,
		store:      store,
		submitter:  NewSubmitter(backend, store),
		jobs:       jobs,
		archive:    archive,
		normalizer: pipeline.NewNormalizer(opts.ForeignApplication),
		opts:       opts,
	}
}

func (s *importService) Upload(ctx context.Context, ownerID string, file *multipart.FileHeader) (*model.ImportSession, error) {
	fileName := filepath.Base(file.Filename)

	if err := pipeline.CheckFile(fileName, file.Size, s.opts.Limits); err != nil {
		return nil, err
	}

	data, err := s.readUpload(file)
	if err != nil {
		return nil, err
	}

	rows, err := reader.Read(fileName, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if err := pipeline.CheckRows(len(rows), s.opts.Limits); err != nil {
		return nil, err
	}

	format := pipeline.DetectFormat(rows)
	lookups := s.catalog.Lookups(ctx, ownerID)

	records := make([]model.ClientRecord, len(rows))
	for i, row := range rows {
		records[i] = s.normalizer.Normalize(row, i+1, format)
	}
	pipeline.RevalidateAll(records, lookups.Servers)

	session := &model.ImportSession{
		ID:       uuid.NewString(),
		OwnerID:  ownerID,
		Stage:    model.StagePreview,
		FileName: fileName,
		Format:   format,
		Records:  records,
	}
	if err := s.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save import session: %w", err)
	}

	total, valid, invalid := session.Counts()
	log.Info().
		Str("owner_id", ownerID).
		Str("session_id", session.ID).
		Str("file_name", fileName).
		Str("format", string(format)).
		Int("total", total).
		Int("valid", valid).
		Int("invalid", invalid).
		Msg("Import file parsed")

	s.trackUpload(ctx, session, file.Size, data)

	return session, nil
}

func (s *importService) readUpload(file *multipart.FileHeader) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, model.Unreadable(err)
	}
	defer src.Close()

	// the header size is client supplied; never read past the limit
	data, err := io.ReadAll(io.LimitReader(src, s.opts.Limits.MaxFileBytes+1))
	if err != nil {
		return nil, model.Unreadable(err)
	}
	if int64(len(data)) > s.opts.Limits.MaxFileBytes {
		return nil, model.ErrFileTooLarge
	}
	return data, nil
}

// trackUpload records the job and archives the source file. Failures are
// logged and never fail the upload.
func (s *importService) trackUpload(ctx context.Context, session *model.ImportSession, size int64, data []byte) {
	jobID := uuid.MustParse(session.ID)
	total, valid, _ := session.Counts()

	job := &model.ImportJob{
		ID:            jobID,
		OwnerID:       session.OwnerID,
		FileName:      session.FileName,
		FileSizeBytes: size,
		Format:        session.Format,
		TotalRows:     total,
		ValidRows:     valid,
		Status:        model.JobStatusPending,
	}
	if err := s.jobs.CreateJob(ctx, job); err != nil {
		log.Warn().Err(err).Str("session_id", session.ID).Msg("Failed to create import job")
		return
	}

	if s.archive == nil {
		return
	}

	key := archiveKey(session.OwnerID, session.ID, session.FileName)
	url, err := s.archive.Upload(ctx, key, data, contentTypes[pipeline.Extension(session.FileName)])
	if err != nil {
		log.Warn().Err(err).Str("session_id", session.ID).Msg("Failed to archive import file")
		if err := s.jobs.AddWarning(ctx, jobID, "arquivo original não arquivado"); err != nil {
			log.Warn().Err(err).Str("session_id", session.ID).Msg("Failed to record import job warning")
		}
		return
	}

	if err := s.jobs.SetFileURL(ctx, jobID, url); err != nil {
		log.Warn().Err(err).Str("session_id", session.ID).Msg("Failed to store archived file url")
	}
}

func archivePrefix(ownerID, sessionID string) string {
	return fmt.Sprintf("imports/%s/%s/", ownerID, sessionID)
}

func archiveKey(ownerID, sessionID, fileName string) string {
	return archivePrefix(ownerID, sessionID) + fileName
}

func (s *importService) Get(ctx context.Context, ownerID, sessionID string) (*model.ImportSession, error) {
	session, err := s.store.Restore(ctx, ownerID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("restore import session: %w", err)
	}
	if session == nil {
		return nil, model.ErrSessionNotFound
	}
	return session, nil
}

func (s *importService) Abandon(ctx context.Context, ownerID, sessionID string) error {
	unlock, err := s.store.Lock(ctx, ownerID, sessionID)
	if err != nil {
		return err
	}
	defer unlock()

	if _, err := s.Get(ctx, ownerID, sessionID); err != nil {
		return err
	}

	if err := s.store.Clear(ctx, ownerID, sessionID); err != nil {
		return err
	}

	if jobID, err := uuid.Parse(sessionID); err == nil {
		if err := s.jobs.MarkCancelled(ctx, jobID); err != nil {
			log.Warn().Err(err).Str("session_id", sessionID).Msg("Failed to cancel import job")
		}
	}
	if s.archive != nil {
		if err := s.archive.DeleteByPrefix(ctx, archivePrefix(ownerID, sessionID)); err != nil {
			log.Warn().Err(err).Str("session_id", sessionID).Msg("Failed to delete archived import file")
		}
	}

	log.Info().Str("owner_id", ownerID).Str("session_id", sessionID).Msg("Import session abandoned")
	return nil
}

func (s *importService) BulkEdit(ctx context.Context, ownerID, sessionID string, req model.BulkEditRequest) (*model.ImportSession, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	unlock, err := s.store.Lock(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	session, err := s.Get(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}

	lookups := s.catalog.Lookups(ctx, ownerID)
	if err := pipeline.ApplyToAll(session.Records, req.Field, req.Value, lookups); err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save import session: %w", err)
	}

	log.Info().
		Str("session_id", sessionID).
		Str("field", req.Field).
		Str("value", req.Value).
		Int("records", len(session.Records)).
		Msg("Bulk edit applied")

	return session, nil
}

func (s *importService) UpdateRecord(ctx context.Context, ownerID, sessionID string, index int, req model.RecordEditRequest) (*model.ImportSession, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	unlock, err := s.store.Lock(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	session, err := s.Get(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}

	record, ok := session.Record(index)
	if !ok {
		return nil, model.ErrRecordNotFound
	}

	lookups := s.catalog.Lookups(ctx, ownerID)
	if err := pipeline.UpdateField(record, req.Field, req.Value, lookups); err != nil {
		return nil, err
	}
	// a username edit can create or resolve a repeat elsewhere in the set
	pipeline.RevalidateAll(session.Records, lookups.Servers)

	if err := s.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save import session: %w", err)
	}

	return session, nil
}

func (s *importService) AutoCreatePlans(ctx context.Context, ownerID, sessionID string) ([]catalogModel.Plan, error) {
	session, err := s.Get(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}

	missing := pipeline.MissingPlans(session.Records, s.catalog.Lookups(ctx, ownerID))
	if len(missing) == 0 {
		return []catalogModel.Plan{}, nil
	}

	specs := make([]catalogService.PlanSpec, len(missing))
	for i, p := range missing {
		specs[i] = catalogService.PlanSpec{Name: p.Name, Price: p.Price}
	}

	created, err := s.catalog.EnsurePlans(ctx, ownerID, specs)
	if err != nil {
		return nil, fmt.Errorf("auto-create plans: %w", err)
	}
	if created == nil {
		created = []catalogModel.Plan{}
	}
	return created, nil
}

func (s *importService) Submit(ctx context.Context, ownerID, sessionID string, confirm bool) (*model.SubmitResult, error) {
	unlock, err := s.store.Lock(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	session, err := s.Get(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}

	result, err := s.submitter.Submit(ctx, session, confirm)
	jobID, parseErr := uuid.Parse(sessionID)

	switch {
	case err != nil:
		if parseErr == nil && !isNothingToImport(err) {
			if jobErr := s.jobs.MarkFailed(ctx, jobID, err.Error()); jobErr != nil {
				log.Warn().Err(jobErr).Str("session_id", sessionID).Msg("Failed to record import job failure")
			}
		}
		return nil, err

	case result.Outcome.Kind == model.OutcomeCompleted:
		if parseErr == nil {
			if jobErr := s.jobs.MarkCompleted(ctx, jobID, result.Imported, result.Skipped); jobErr != nil {
				log.Warn().Err(jobErr).Str("session_id", sessionID).Msg("Failed to complete import job")
			}
		}
		log.Info().
			Str("owner_id", ownerID).
			Str("session_id", sessionID).
			Int("imported", result.Imported).
			Int("skipped", result.Skipped).
			Msg("Client import completed")
	}

	return result, nil
}

func (s *importService) ListJobs(ctx context.Context, ownerID string, q model.ListJobsQuery) ([]model.ImportJob, int, error) {
	q.Normalize()
	return s.jobs.ListByOwner(ctx, ownerID, q.Limit, (q.Page-1)*q.Limit)
}

func (s *importService) ExpireStaleJobs(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-s.opts.StaleJobAfter)
	return s.jobs.ExpireStale(ctx, cutoff)
}

func (s *importService) WriteTemplate(w io.Writer) error {
	f, err := reader.TemplateWorkbook()
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write template: %w", err)
	}
	return nil
}
