// Package store provides typed, per-guild record containers on top of a backend.
package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/robalyx/tribunal/internal/database/backend"
	"github.com/robalyx/tribunal/internal/database/lock"
	"github.com/robalyx/tribunal/internal/database/types/enum"
	"go.uber.org/zap"
)

// Row is implemented by pointer types that can be stored as a row of fields.
type Row[T any] interface {
	*T
	MarshalRow() []string
	UnmarshalRow(guildID uint64, fields []string) error
}

// Store is the typed view of one record kind.
//
// Every operation on the same (kind, guild) runs inside an exclusive section,
// so read-modify-write sequences never interleave. Different guilds and
// different kinds proceed in parallel.
type Store[T any, P Row[T]] struct {
	kind    enum.Kind
	backend backend.Backend
	locks   *lock.KeyedMutex
	logger  *zap.Logger
}

// New creates a store for a kind. Stores of different kinds may share the
// same keyed mutex since keys include the kind.
func New[T any, P Row[T]](
	kind enum.Kind, b backend.Backend, locks *lock.KeyedMutex, logger *zap.Logger,
) *Store[T, P] {
	return &Store[T, P]{
		kind:    kind,
		backend: b,
		locks:   locks,
		logger:  logger.Named("store_" + kind.String()),
	}
}

// Kind returns the kind of records held by the store.
func (s *Store[T, P]) Kind() enum.Kind {
	return s.kind
}

// Append adds a record at the end of the guild's container.
func (s *Store[T, P]) Append(ctx context.Context, guildID uint64, rec *T) error {
	unlock, err := s.lock(ctx, guildID)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.backend.Append(ctx, s.kind, guildID, P(rec).MarshalRow()); err != nil {
		return fmt.Errorf("append %s: %w", s.kind, err)
	}
	return nil
}

// List returns every well-formed record of the guild. Malformed rows are skipped.
func (s *Store[T, P]) List(ctx context.Context, guildID uint64) ([]*T, error) {
	unlock, err := s.lock(ctx, guildID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	snap, err := s.load(ctx, guildID)
	if err != nil {
		return nil, err
	}
	return snap.records(), nil
}

// ReplaceAll atomically replaces every row of the guild's container.
func (s *Store[T, P]) ReplaceAll(ctx context.Context, guildID uint64, recs []*T) error {
	unlock, err := s.lock(ctx, guildID)
	if err != nil {
		return err
	}
	defer unlock()

	rows := make([][]string, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, P(rec).MarshalRow())
	}

	if err := s.backend.Replace(ctx, s.kind, guildID, rows); err != nil {
		return fmt.Errorf("replace %s: %w", s.kind, err)
	}
	return nil
}

// RemoveWhere deletes every record matching pred and returns the removed records.
// Malformed rows are kept. Nothing is written when no record matches.
func (s *Store[T, P]) RemoveWhere(ctx context.Context, guildID uint64, pred func(*T) bool) ([]*T, error) {
	var removed []*T
	err := s.Update(ctx, guildID, func(recs []*T) ([]*T, error) {
		kept := make([]*T, 0, len(recs))
		for _, rec := range recs {
			if pred(rec) {
				removed = append(removed, rec)
				continue
			}
			kept = append(kept, rec)
		}

		if len(removed) == 0 {
			return nil, ErrNoChange
		}
		return kept, nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// Update runs a read-modify-write of the guild's container inside its exclusive
// section. fn receives the well-formed records and returns the new set;
// returning ErrNoChange skips the write. Malformed rows are carried over
// verbatim after the new records.
func (s *Store[T, P]) Update(ctx context.Context, guildID uint64, fn func([]*T) ([]*T, error)) error {
	unlock, err := s.lock(ctx, guildID)
	if err != nil {
		return err
	}
	defer unlock()

	snap, err := s.load(ctx, guildID)
	if err != nil {
		return err
	}

	next, err := fn(snap.records())
	if errors.Is(err, ErrNoChange) {
		return nil
	}
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(next)+len(snap.malformed))
	for _, rec := range next {
		rows = append(rows, P(rec).MarshalRow())
	}
	rows = append(rows, snap.malformed...)

	if err := s.backend.Replace(ctx, s.kind, guildID, rows); err != nil {
		return fmt.Errorf("replace %s: %w", s.kind, err)
	}
	return nil
}

// Guilds lists every guild that has a container of this kind.
func (s *Store[T, P]) Guilds(ctx context.Context) ([]uint64, error) {
	guilds, err := s.backend.Guilds(ctx, s.kind)
	if err != nil {
		return nil, fmt.Errorf("list %s guilds: %w", s.kind, err)
	}
	return guilds, nil
}

// Ensure creates the guild's container with defaults if it does not exist.
// An existing container is never touched. Reports whether it was created.
func (s *Store[T, P]) Ensure(ctx context.Context, guildID uint64, defaults []*T) (bool, error) {
	unlock, err := s.lock(ctx, guildID)
	if err != nil {
		return false, err
	}
	defer unlock()

	rows := make([][]string, 0, len(defaults))
	for _, rec := range defaults {
		rows = append(rows, P(rec).MarshalRow())
	}

	created, err := s.backend.Ensure(ctx, s.kind, guildID, rows)
	if err != nil {
		return false, fmt.Errorf("ensure %s: %w", s.kind, err)
	}
	return created, nil
}

func (s *Store[T, P]) lock(ctx context.Context, guildID uint64) (func(), error) {
	unlock, err := s.locks.Lock(ctx, s.kind.String()+":"+strconv.FormatUint(guildID, 10))
	if err != nil {
		return nil, fmt.Errorf("lock %s for guild %d: %w", s.kind, guildID, err)
	}
	return unlock, nil
}

// snapshot is a decoded container.
type snapshot[T any] struct {
	decoded   []*T
	malformed [][]string
}

func (s snapshot[T]) records() []*T {
	return s.decoded
}

// load reads and decodes the guild's container. The caller must hold the section.
func (s *Store[T, P]) load(ctx context.Context, guildID uint64) (snapshot[T], error) {
	rows, err := s.backend.Load(ctx, s.kind, guildID)
	if err != nil {
		return snapshot[T]{}, fmt.Errorf("load %s: %w", s.kind, err)
	}

	var snap snapshot[T]
	for i, row := range rows {
		rec := new(T)
		if err := P(rec).UnmarshalRow(guildID, row); err != nil {
			s.logger.Warn("Skipping malformed row",
				zap.Uint64("guildID", guildID),
				zap.Int("line", i+1),
				zap.Strings("fields", row),
				zap.Error(err))
			snap.malformed = append(snap.malformed, row)
			continue
		}
		snap.decoded = append(snap.decoded, rec)
	}
	return snap, nil
}
