package aim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/fieldaim/internal/db"
	"github.com/kailas-cloud/fieldaim/internal/domain"
	domaim "github.com/kailas-cloud/fieldaim/internal/domain/aim"
)

// store is the consumer interface for aim records (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Repo keeps the latest aim record per equipment id as a JSON string.
type Repo struct {
	store     store
	prefix    string
	retention time.Duration
}

// New creates an aim record repository. retention <= 0 keeps records forever.
func New(s store, prefix string, retention time.Duration) *Repo {
	if prefix == "" {
		prefix = domain.DefaultKeyPrefix
	}
	return &Repo{store: s, prefix: prefix, retention: retention}
}

// Save overwrites the record for its equipment id.
func (r *Repo) Save(ctx context.Context, rec domaim.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal aim record: %w", err)
	}
	key := r.key(rec.EquipmentID)
	if r.retention > 0 {
		err = r.store.SetWithTTL(ctx, key, data, r.retention)
	} else {
		err = r.store.Set(ctx, key, data)
	}
	if err != nil {
		return fmt.Errorf("save aim %s: %w", rec.EquipmentID, err)
	}
	return nil
}

// Get returns the record for an equipment id.
func (r *Repo) Get(ctx context.Context, equipmentID string) (domaim.Record, error) {
	data, err := r.store.Get(ctx, r.key(equipmentID))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domaim.Record{}, domain.ErrNotFound
		}
		return domaim.Record{}, fmt.Errorf("get aim %s: %w", equipmentID, err)
	}
	var rec domaim.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return domaim.Record{}, fmt.Errorf("unmarshal aim %s: %w", equipmentID, err)
	}
	return rec, nil
}

// Key pattern: {prefix}aim:{equipment_id}
func (r *Repo) key(equipmentID string) string {
	return fmt.Sprintf("%saim:%s", r.prefix, equipmentID)
}
