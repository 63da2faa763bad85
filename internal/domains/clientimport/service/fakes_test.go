package service_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	catalogModel "iptv-manager/internal/domains/catalog/model"
	catalogService "iptv-manager/internal/domains/catalog/service"
	clientModel "iptv-manager/internal/domains/client/model"
	"iptv-manager/internal/domains/clientimport/model"
	"iptv-manager/internal/domains/clientimport/progress"
	"iptv-manager/internal/domains/clientimport/service"
	infraCache "iptv-manager/internal/infrastructure/cache"
)

type fakeCatalog struct {
	lookups  catalogModel.Lookups
	ensured  []catalogService.PlanSpec
	ensureFn func(specs []catalogService.PlanSpec) ([]catalogModel.Plan, error)
}

func (f *fakeCatalog) ListServers(ctx context.Context, ownerID string) ([]catalogModel.Server, error) {
	return f.lookups.Servers, nil
}

func (f *fakeCatalog) ListPlans(ctx context.Context, ownerID string) ([]catalogModel.Plan, error) {
	return f.lookups.Plans, nil
}

func (f *fakeCatalog) ListApplications(ctx context.Context, ownerID string) ([]catalogModel.Application, error) {
	return f.lookups.Applications, nil
}

func (f *fakeCatalog) CreatePlan(ctx context.Context, ownerID string, req catalogModel.CreatePlanRequest) (*catalogModel.Plan, error) {
	return nil, errors.New("not used")
}

func (f *fakeCatalog) Lookups(ctx context.Context, ownerID string) catalogModel.Lookups {
	return f.lookups
}

func (f *fakeCatalog) EnsurePlans(ctx context.Context, ownerID string, specs []catalogService.PlanSpec) ([]catalogModel.Plan, error) {
	f.ensured = append(f.ensured, specs...)
	if f.ensureFn != nil {
		return f.ensureFn(specs)
	}
	var out []catalogModel.Plan
	for _, s := range specs {
		out = append(out, catalogModel.Plan{Name: s.Name, Price: s.Price})
	}
	return out, nil
}

type fakeBackend struct {
	calls    int
	received []clientModel.NewClient
	err      error
}

func (f *fakeBackend) ImportClients(ctx context.Context, ownerID string, jobID uuid.UUID, clients []clientModel.NewClient) (int, error) {
	f.calls++
	f.received = clients
	if f.err != nil {
		return 0, f.err
	}
	return len(clients), nil
}

type fakeJobs struct {
	mu        sync.Mutex
	created   []model.ImportJob
	fileURLs  map[uuid.UUID]string
	warnings  map[uuid.UUID][]string
	completed map[uuid.UUID][2]int
	failed    map[uuid.UUID]string
	cancelled []uuid.UUID
	cutoff    time.Time
	createErr error
}

func newFakeJobs() *fakeJobs {
	return &fakeJobs{
		fileURLs:  map[uuid.UUID]string{},
		warnings:  map[uuid.UUID][]string{},
		completed: map[uuid.UUID][2]int{},
		failed:    map[uuid.UUID]string{},
	}
}

func (f *fakeJobs) CreateJob(ctx context.Context, job *model.ImportJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, *job)
	return nil
}

func (f *fakeJobs) SetFileURL(ctx context.Context, id uuid.UUID, url string) error {
	f.fileURLs[id] = url
	return nil
}

func (f *fakeJobs) AddWarning(ctx context.Context, id uuid.UUID, w string) error {
	f.warnings[id] = append(f.warnings[id], w)
	return nil
}

func (f *fakeJobs) MarkCompleted(ctx context.Context, id uuid.UUID, imported, failed int) error {
	f.completed[id] = [2]int{imported, failed}
	return nil
}

func (f *fakeJobs) MarkFailed(ctx context.Context, id uuid.UUID, message string) error {
	f.failed[id] = message
	return nil
}

func (f *fakeJobs) MarkCancelled(ctx context.Context, id uuid.UUID) error {
	f.cancelled = append(f.cancelled, id)
	return nil
}

func (f *fakeJobs) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]model.ImportJob, int, error) {
	return f.created, len(f.created), nil
}

func (f *fakeJobs) ExpireStale(ctx context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return 2, nil
}

type fakeArchive struct {
	uploaded map[string][]byte
	deleted  []string
	err      error
}

func (f *fakeArchive) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.uploaded == nil {
		f.uploaded = map[string][]byte{}
	}
	f.uploaded[key] = data
	return "http://minio/iptv-imports/" + key, nil
}

func (f *fakeArchive) DeleteByPrefix(ctx context.Context, prefix string) error {
	f.deleted = append(f.deleted, prefix)
	return nil
}

type fixture struct {
	svc     service.ImportService
	store   progress.Store
	catalog *fakeCatalog
	backend *fakeBackend
	jobs    *fakeJobs
	archive *fakeArchive
	redis   *miniredis.Miniredis
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	f := &fixture{
		store: progress.NewStore(infraCache.NewRedisCacheFromClient(client), time.Hour),
		catalog: &fakeCatalog{lookups: catalogModel.Lookups{
			Servers:      []catalogModel.Server{{Name: "Servidor1"}},
			Plans:        []catalogModel.Plan{{Name: "VIP", Price: decimal.NewFromInt(50)}},
			Applications: []catalogModel.Application{{Name: "NextApp"}},
		}},
		backend: &fakeBackend{},
		jobs:    newFakeJobs(),
		archive: &fakeArchive{},
		redis:   mr,
	}
	f.svc = service.NewImportService(f.catalog, f.store, f.backend, f.jobs, f.archive, service.Options{
		StaleJobAfter: 48 * time.Hour,
	})
	return f
}

// fileHeader builds the multipart header gin hands to handlers.
func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	return req.MultipartForm.File["file"][0]
}

func record(index int, valid bool) model.ClientRecord {
	r := model.ClientRecord{
		Index:        index,
		Name:         "Cliente",
		Username:     fmt.Sprintf("user%d", index),
		IPTVPassword: "pw",
		Phone:        "1199",
		RenewalDate:  "2025-01-31",
		Server:       "Servidor1",
		Application:  "NextApp",
		Plan:         "VIP",
		Value:        decimal.NewFromInt(35),
		Screens:      1,
		SourceFormat: model.FormatNative,
	}
	if valid {
		r.ApplyValidation(model.ValidationResult{})
	} else {
		r.Server = ""
		r.ApplyValidation(model.ValidationResult{Errors: []string{"Servidor é obrigatório"}})
	}
	return r
}

func seedSession(t *testing.T, f *fixture, records ...model.ClientRecord) *model.ImportSession {
	t.Helper()
	s := &model.ImportSession{
		ID:       uuid.NewString(),
		OwnerID:  "owner",
		Stage:    model.StagePreview,
		FileName: "clientes.csv",
		Format:   model.FormatNative,
		Records:  records,
	}
	require.NoError(t, f.store.Save(context.Background(), s))
	return s
}
