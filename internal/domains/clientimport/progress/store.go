package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"iptv-manager/internal/domains/clientimport/model"
	"iptv-manager/pkg/cache"
)

// Store checkpoints wizard sessions so they survive between requests.
type Store interface {
	// Save overwrites the stage, records and file name of the session.
	Save(ctx context.Context, session *model.ImportSession) error

	// Restore returns nil without error when the session is absent, expired
	// or corrupt. A corrupt session is cleared.
	Restore(ctx context.Context, ownerID, sessionID string) (*model.ImportSession, error)

	// Clear removes every key of the session.
	Clear(ctx context.Context, ownerID, sessionID string) error

	// Lock serializes read-modify-write cycles on one session across API
	// instances. It waits up to the store's lock wait and then returns
	// model.ErrSessionBusy. Call the returned func to release.
	Lock(ctx context.Context, ownerID, sessionID string) (func(), error)
}

const (
	// lockTTL bounds how long a crashed holder blocks the session; it must
	// outlast the slowest submit.
	lockTTL        = 30 * time.Second
	lockWait       = 5 * time.Second
	lockRetryEvery = 10 * time.Millisecond
)

type cacheStore struct {
	cache    cache.Cache
	ttl      time.Duration
	lockWait time.Duration
}

func NewStore(c cache.Cache, ttl time.Duration) Store {
	return &cacheStore{cache: c, ttl: ttl, lockWait: lockWait}
}

// NewStoreWithLockWait is NewStore with a custom lock wait.
func NewStoreWithLockWait(c cache.Cache, ttl, wait time.Duration) Store {
	return &cacheStore{cache: c, ttl: ttl, lockWait: wait}
}

func stageKey(ownerID, sessionID string) string {
	return fmt.Sprintf("client_import:%s:%s:stage", ownerID, sessionID)
}

func recordsKey(ownerID, sessionID string) string {
	return fmt.Sprintf("client_import:%s:%s:records", ownerID, sessionID)
}

func fileNameKey(ownerID, sessionID string) string {
	return fmt.Sprintf("client_import:%s:%s:file_name", ownerID, sessionID)
}

func lockKey(ownerID, sessionID string) string {
	return fmt.Sprintf("client_import:%s:%s:lock", ownerID, sessionID)
}

func (s *cacheStore) Save(ctx context.Context, session *model.ImportSession) error {
	records := session.Records
	if records == nil {
		records = []model.ClientRecord{}
	}

	if err := s.cache.Set(ctx, recordsKey(session.OwnerID, session.ID), records, s.ttl); err != nil {
		return fmt.Errorf("save records: %w", err)
	}
	if err := s.cache.Set(ctx, fileNameKey(session.OwnerID, session.ID), session.FileName, s.ttl); err != nil {
		return fmt.Errorf("save file name: %w", err)
	}
	// stage last: Restore treats a session without it as absent
	if err := s.cache.Set(ctx, stageKey(session.OwnerID, session.ID), session.Stage, s.ttl); err != nil {
		return fmt.Errorf("save stage: %w", err)
	}
	return nil
}

func (s *cacheStore) Restore(ctx context.Context, ownerID, sessionID string) (*model.ImportSession, error) {
	var stage model.Stage
	found, err := s.cache.Get(ctx, stageKey(ownerID, sessionID), &stage)
	if !found {
		if err != nil {
			return nil, fmt.Errorf("load stage: %w", err)
		}
		return nil, nil
	}
	if err != nil {
		return s.discard(ctx, ownerID, sessionID, err)
	}

	var records []model.ClientRecord
	found, err = s.cache.Get(ctx, recordsKey(ownerID, sessionID), &records)
	if !found {
		if err != nil {
			return nil, fmt.Errorf("load records: %w", err)
		}
		return nil, nil
	}
	if err != nil {
		return s.discard(ctx, ownerID, sessionID, err)
	}

	var fileName string
	if _, err := s.cache.Get(ctx, fileNameKey(ownerID, sessionID), &fileName); err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("Import file name unreadable")
		fileName = ""
	}

	s.touch(ctx, ownerID, sessionID)

	session := &model.ImportSession{
		ID:       sessionID,
		OwnerID:  ownerID,
		Stage:    stage,
		FileName: fileName,
		Records:  records,
		Format:   model.FormatNative,
	}
	if len(records) > 0 && records[0].SourceFormat != "" {
		session.Format = records[0].SourceFormat
	}

	return session, nil
}

// touch slides the TTL so a session in active use does not expire mid-review.
func (s *cacheStore) touch(ctx context.Context, ownerID, sessionID string) {
	if s.ttl <= 0 {
		return
	}
	for _, key := range []string{
		stageKey(ownerID, sessionID),
		recordsKey(ownerID, sessionID),
		fileNameKey(ownerID, sessionID),
	} {
		if err := s.cache.Expire(ctx, key, s.ttl); err != nil {
			log.Warn().Err(err).Str("session_id", sessionID).Msg("Failed to extend import session TTL")
			return
		}
	}
}

func (s *cacheStore) Lock(ctx context.Context, ownerID, sessionID string) (func(), error) {
	key := lockKey(ownerID, sessionID)
	token := uuid.NewString()

	ctx, cancel := context.WithTimeout(ctx, s.lockWait)
	defer cancel()

	ticker := time.NewTicker(lockRetryEvery)
	defer ticker.Stop()

	for {
		ok, err := s.cache.SetNX(ctx, key, token, lockTTL)
		if err != nil && ctx.Err() != nil {
			return nil, model.ErrSessionBusy
		}
		if err != nil {
			return nil, fmt.Errorf("lock session: %w", err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			log.Warn().Str("session_id", sessionID).Msg("Import session lock wait timed out")
			return nil, model.ErrSessionBusy
		case <-ticker.C:
		}
	}

	unlock := func() {
		// release even when the request context is already cancelled
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if _, err := s.cache.DeleteIfEqual(releaseCtx, key, token); err != nil {
			log.Warn().Err(err).Str("session_id", sessionID).Msg("Failed to release import session lock")
		}
	}
	return unlock, nil
}

func (s *cacheStore) Clear(ctx context.Context, ownerID, sessionID string) error {
	err := s.cache.Delete(ctx,
		stageKey(ownerID, sessionID),
		recordsKey(ownerID, sessionID),
		fileNameKey(ownerID, sessionID),
	)
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *cacheStore) discard(ctx context.Context, ownerID, sessionID string, cause error) (*model.ImportSession, error) {
	log.Warn().
		Err(cause).
		Str("owner_id", ownerID).
		Str("session_id", sessionID).
		Msg("Discarding corrupt import session")

	if err := s.Clear(ctx, ownerID, sessionID); err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("Failed to clear corrupt import session")
	}
	return nil, nil
}
