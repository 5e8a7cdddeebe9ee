package finmind

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// CredentialOps is the slice of the credentials repository the durable
// token store consumes.
type CredentialOps interface {
	GetByKey(ctx context.Context, key string) (*Credential, error)
	Put(ctx context.Context, key, value string) (*Credential, error)
	Purge(ctx context.Context, key string) error
}

type Credentials interface {
	repository.Repository[*Credential]
	CredentialOps

	GetByKeyTx(ctx context.Context, tx bun.IDB, key string) (*Credential, error)
	PutTx(ctx context.Context, tx bun.IDB, key, value string) (*Credential, error)
	PurgeTx(ctx context.Context, tx bun.IDB, key string) error
}

type credentials struct {
	repository.Repository[*Credential]
	db *bun.DB
}

var (
	_ Credentials                        = (*credentials)(nil)
	_ repository.Repository[*Credential] = (*credentials)(nil)
)

func NewCredentialsRepository(db *bun.DB) Credentials {
	repo := repository.NewRepository[*Credential](db, repository.ModelHandlers[*Credential]{
		NewRecord: func() *Credential { return &Credential{} },
		GetID: func(c *Credential) uuid.UUID {
			if c == nil {
				return uuid.Nil
			}
			return c.ID
		},
		SetID: func(c *Credential, id uuid.UUID) {
			if c != nil {
				c.ID = id
			}
		},
		GetIdentifier: func() string {
			return "key"
		},
	})

	return &credentials{
		Repository: repo,
		db:         db,
	}
}

func (r *credentials) GetByKey(ctx context.Context, key string) (*Credential, error) {
	return r.GetByKeyTx(ctx, r.db, key)
}

func (r *credentials) GetByKeyTx(ctx context.Context, tx bun.IDB, key string) (*Credential, error) {
	record := &Credential{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.key = ?", strings.TrimSpace(key)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrCredentialNotFound
		}
		return nil, err
	}

	return record, nil
}

func (r *credentials) Put(ctx context.Context, key, value string) (*Credential, error) {
	return r.PutTx(ctx, r.db, key, value)
}

func (r *credentials) PutTx(ctx context.Context, tx bun.IDB, key, value string) (*Credential, error) {
	now := time.Now()
	record := &Credential{
		ID:        credentialID(key),
		Key:       strings.TrimSpace(key),
		Value:     value,
		UpdatedAt: &now,
	}

	_, err := tx.NewInsert().
		Model(record).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	return record, nil
}

func (r *credentials) Purge(ctx context.Context, key string) error {
	return r.PurgeTx(ctx, r.db, key)
}

func (r *credentials) PurgeTx(ctx context.Context, tx bun.IDB, key string) error {
	_, err := tx.NewDelete().
		Model((*Credential)(nil)).
		Where("key = ?", strings.TrimSpace(key)).
		Exec(ctx)
	return err
}

// credentialID derives a stable row id from the storage key so repeated
// saves address the same slot.
func credentialID(key string) uuid.UUID {
	if id, err := hashid.NewUUID(strings.TrimSpace(key)); err == nil {
		return id
	}
	return uuid.New()
}

var _ TokenStore = (*CredentialTokenStore)(nil)

// CredentialTokenStore is the durable TokenStore, backed by the
// credentials repository. The token survives process restarts; clearing
// removes the row so Get reports the absence marker again.
type CredentialTokenStore struct {
	repo CredentialOps
	key  string
}

type CredentialTokenStoreOption func(*CredentialTokenStore)

func WithCredentialKey(key string) CredentialTokenStoreOption {
	return func(s *CredentialTokenStore) {
		if key != "" {
			s.key = key
		}
	}
}

func NewCredentialTokenStore(repo CredentialOps, opts ...CredentialTokenStoreOption) *CredentialTokenStore {
	s := &CredentialTokenStore{
		repo: repo,
		key:  DefaultCredentialKey,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *CredentialTokenStore) Save(ctx context.Context, token string) error {
	if token == "" {
		return s.Clear(ctx)
	}
	_, err := s.repo.Put(ctx, s.key, token)
	return err
}

func (s *CredentialTokenStore) Get(ctx context.Context) (string, error) {
	record, err := s.repo.GetByKey(ctx, s.key)
	if err != nil {
		if err == ErrCredentialNotFound {
			return "", nil
		}
		return "", err
	}
	return record.Value, nil
}

func (s *CredentialTokenStore) Clear(ctx context.Context) error {
	return s.repo.Purge(ctx, s.key)
}
