// Package boltdb keeps planning sessions in an embedded bbolt file.
package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"nightout/internal/domain"
)

var plansBucket = []byte("plans")

// PlanStore stores each plan as a JSON document keyed by plan ID.
type PlanStore struct {
	db *bolt.DB
}

// OpenPlanStore opens (or creates) the store at path.
func OpenPlanStore(path string) (*PlanStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening plan store at %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(plansBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating plans bucket: %w", err)
	}
	return &PlanStore{db: db}, nil
}

var _ domain.PlanStore = (*PlanStore)(nil)

func (s *PlanStore) Get(ctx context.Context, id string) (*domain.Plan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var plan *domain.Plan
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(plansBucket).Get([]byte(id))
		if data == nil {
			return domain.ErrNotFound
		}
		var p domain.Plan
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("unmarshaling plan %s: %w", id, err)
		}
		plan = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *PlanStore) Put(ctx context.Context, plan *domain.Plan) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if plan.ID == "" {
		return fmt.Errorf("plan id is required: %w", domain.ErrInvalidInput)
	}
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("marshaling plan %s: %w", plan.ID, err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(plansBucket).Put([]byte(plan.ID), data); err != nil {
			return fmt.Errorf("writing plan %s: %w", plan.ID, err)
		}
		return nil
	})
}

func (s *PlanStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(plansBucket)
		if b.Get([]byte(id)) == nil {
			return domain.ErrNotFound
		}
		return b.Delete([]byte(id))
	})
}

func (s *PlanStore) Close() error {
	return s.db.Close()
}
