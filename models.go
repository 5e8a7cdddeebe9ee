package finmind

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// DefaultCredentialKey is the storage key for the bearer token slot.
const DefaultCredentialKey = "token"

// Credential is the persisted bearer token slot. The table holds at most
// one row per key, and the client uses a single key, so presence of a row
// with a non-empty value is what "logged in" means across restarts.
type Credential struct {
	bun.BaseModel `bun:"table:credentials,alias:crd"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Key           string     `bun:"key,notnull,unique" json:"key,omitempty"`
	Value         string     `bun:"value,notnull" json:"-"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}
