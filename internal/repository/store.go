package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"building_scheduler/internal/metrics"
)

// Record is one raw persisted schedule. Err is set when the record exists but could not be read.
type Record struct {
	Key  string
	Data []byte
	Err  error
}

// Store is the storage backend holding one raw record per schedule.
type Store interface {
	ReadAll(ctx context.Context) ([]Record, error)
	ReadOne(ctx context.Context, key string) ([]byte, error)
	WriteOne(ctx context.Context, key string, data []byte) error
	DeleteOne(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// ValidateKey rejects storage keys that cannot name a single record.
func ValidateKey(key string) error {
	switch {
	case strings.TrimSpace(key) == "":
		return fmt.Errorf("empty storage key")
	case key == "." || key == "..":
		return fmt.Errorf("invalid storage key %q", key)
	case strings.ContainsAny(key, "/\\\x00"):
		return fmt.Errorf("storage key %q contains a path separator", key)
	}
	return nil
}

// instrumented wraps a Store and records prometheus timings per call.
type instrumented struct {
	backend string
	next    Store
}

// Instrument reports every call on s to the storage metrics under the given backend label.
func Instrument(backend string, s Store) Store {
	return &instrumented{backend: backend, next: s}
}

func (s *instrumented) ReadAll(ctx context.Context) ([]Record, error) {
	start := time.Now()
	recs, err := s.next.ReadAll(ctx)
	metrics.ObserveStorage(s.backend, "read_all", err, time.Since(start))
	return recs, err
}

func (s *instrumented) ReadOne(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	data, err := s.next.ReadOne(ctx, key)
	metrics.ObserveStorage(s.backend, "read_one", err, time.Since(start))
	return data, err
}

func (s *instrumented) WriteOne(ctx context.Context, key string, data []byte) error {
	start := time.Now()
	err := s.next.WriteOne(ctx, key, data)
	metrics.ObserveStorage(s.backend, "write_one", err, time.Since(start))
	return err
}

func (s *instrumented) DeleteOne(ctx context.Context, key string) error {
	start := time.Now()
	err := s.next.DeleteOne(ctx, key)
	metrics.ObserveStorage(s.backend, "delete_one", err, time.Since(start))
	return err
}

func (s *instrumented) Exists(ctx context.Context, key string) (bool, error) {
	start := time.Now()
	ok, err := s.next.Exists(ctx, key)
	metrics.ObserveStorage(s.backend, "exists", err, time.Since(start))
	return ok, err
}
