// Copyright (C) 2025 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package repositories

import (
	"errors"
	"iter"

	"github.com/l3montree-dev/taraguard/shared"
	"github.com/l3montree-dev/taraguard/utils"
	"gorm.io/gorm"
)

type versionedEntity interface {
	utils.Tabler
	GetScenarioID() string
	GetVersion() int
	Current() bool
	Deleted() bool
}

type versionedMutator interface {
	InitFirstVersion()
	PrepareRevision(nextVersion int, notes string)
	Supersede()
	MarkDeleted()
}

// VersionedRepository implements the append-only versioning discipline for
// scenario records. Revisions never update a row in place: the prior current
// row is superseded and a new row with version+1 is inserted. Revise and
// delete carry the version the caller last observed; a stored version that
// advanced past it is a ConflictError, the caller has to re-read and retry.
type VersionedRepository[T versionedEntity, PT interface {
	*T
	versionedMutator
}] struct {
	db         shared.DB
	entityType string
}

func newVersionedRepository[T versionedEntity, PT interface {
	*T
	versionedMutator
}](db shared.DB, entityType string) *VersionedRepository[T, PT] {
	return &VersionedRepository[T, PT]{
		db:         db,
		entityType: entityType,
	}
}

func (r *VersionedRepository[T, PT]) GetDB(tx shared.DB) shared.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *VersionedRepository[T, PT]) Transaction(f func(tx shared.DB) error) error {
	tx := r.db.Begin()
	err := f(tx)
	if err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// Create stores version 1 of a new scenario. A business key collision with a
// non-deleted scenario is a ValidationError, not a silent upsert.
func (r *VersionedRepository[T, PT]) Create(tx shared.DB, entity PT) error {
	key := (*entity).GetScenarioID()
	if key == "" {
		return shared.NewValidationError("scenarioId", "business key must not be empty")
	}

	var count int64
	if err := r.GetDB(tx).Model(new(T)).Where("scenario_id = ? AND is_deleted = ?", key, false).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return shared.NewValidationError("scenarioId", "a scenario with business key "+key+" already exists")
	}

	entity.InitFirstVersion()
	return r.GetDB(tx).Create(entity).Error
}

func (r *VersionedRepository[T, PT]) GetCurrent(key string) (T, error) {
	return r.getCurrent(r.db, key)
}

func (r *VersionedRepository[T, PT]) getCurrent(db shared.DB, key string) (T, error) {
	var t T
	err := db.Where("scenario_id = ? AND is_current = ? AND is_deleted = ?", key, true, false).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return t, shared.NewNotFoundError(r.entityType, key)
	}
	return t, err
}

func (r *VersionedRepository[T, PT]) GetVersion(key string, version int) (T, error) {
	var t T
	err := r.db.Where("scenario_id = ? AND version = ?", key, version).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return t, &shared.NotFoundError{EntityType: r.entityType, Key: key, Version: version}
	}
	return t, err
}

// ListHistory returns all versions of a scenario, oldest first, deleted
// versions included.
func (r *VersionedRepository[T, PT]) ListHistory(key string) ([]T, error) {
	var ts []T
	err := r.db.Where("scenario_id = ?", key).Order("version ASC").Find(&ts).Error
	return ts, err
}

// History is the lazy counterpart of ListHistory: versions are streamed
// oldest first, and every range over the sequence re-runs the query, so the
// sequence is restartable.
func (r *VersionedRepository[T, PT]) History(key string) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		rows, err := r.db.Model(new(T)).Where("scenario_id = ?", key).Order("version ASC").Rows()
		if err != nil {
			var zero T
			yield(zero, err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			var t T
			if err := r.db.ScanRows(rows, &t); err != nil {
				yield(t, err)
				return
			}
			if !yield(t, nil) {
				return
			}
		}
	}
}

// ListCurrent returns the current version of every non-deleted scenario.
func (r *VersionedRepository[T, PT]) ListCurrent() ([]T, error) {
	var ts []T
	err := r.db.Where("is_current = ? AND is_deleted = ?", true, false).Find(&ts).Error
	return ts, err
}

// CurrentKeys returns the business keys that resolve to a current,
// non-deleted version.
func (r *VersionedRepository[T, PT]) CurrentKeys() ([]string, error) {
	var keys []string
	err := r.db.Model(new(T)).Where("is_current = ? AND is_deleted = ?", true, false).Pluck("scenario_id", &keys).Error
	return keys, err
}

// ReviseVersion appends a new version of the scenario identified by key. The
// mutate callback receives a copy of the current version and applies the
// caller's changes to it; the repository handles the version bookkeeping.
// Empty revision notes are a ValidationError, a version that advanced past
// observedVersion a ConflictError carrying the stored current version.
func (r *VersionedRepository[T, PT]) ReviseVersion(tx shared.DB, key string, observedVersion int, notes string, mutate func(PT)) (T, error) {
	var revised T
	if notes == "" {
		return revised, shared.NewValidationError("revisionNotes", "revision notes are required on a version bump")
	}

	err := r.inTransaction(tx, func(tx shared.DB) error {
		// the read has to go through tx so the read-check-write sequence
		// observes a single connection's view
		current, err := r.getCurrent(tx, key)
		if err != nil {
			return err
		}
		if current.GetVersion() != observedVersion {
			return &shared.ConflictError{Key: key, ObservedVersion: observedVersion, CurrentVersion: current.GetVersion()}
		}

		// guarded update: if a concurrent revise already superseded the row,
		// zero rows are affected and the caller has to retry
		res := tx.Model(new(T)).
			Where("scenario_id = ? AND version = ? AND is_current = ?", key, observedVersion, true).
			Update("is_current", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &shared.ConflictError{Key: key, ObservedVersion: observedVersion, CurrentVersion: observedVersion + 1}
		}

		next := current
		ptr := PT(&next)
		mutate(ptr)
		ptr.PrepareRevision(observedVersion+1, notes)
		if err := tx.Create(ptr).Error; err != nil {
			return err
		}

		revised = next
		return nil
	})

	return revised, err
}

// SoftDelete marks the current version deleted, leaving zero current
// versions for the key. Deleting an already-deleted scenario is a no-op
// success; an unknown key is a NotFoundError.
func (r *VersionedRepository[T, PT]) SoftDelete(tx shared.DB, key string, observedVersion int) error {
	return r.inTransaction(tx, func(tx shared.DB) error {
		_, err := r.getCurrent(tx, key)
		if err != nil {
			if shared.IsNotFoundError(err) {
				var count int64
				if countErr := tx.Model(new(T)).Where("scenario_id = ?", key).Count(&count).Error; countErr != nil {
					return countErr
				}
				if count > 0 {
					// all versions already deleted
					return nil
				}
			}
			return err
		}

		res := tx.Model(new(T)).
			Where("scenario_id = ? AND version = ? AND is_current = ?", key, observedVersion, true).
			Updates(map[string]any{"is_current": false, "is_deleted": true})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			current, err := r.getCurrent(tx, key)
			if err != nil {
				if shared.IsNotFoundError(err) {
					// a concurrent delete already won; deleting twice is fine
					return nil
				}
				return err
			}
			return &shared.ConflictError{Key: key, ObservedVersion: observedVersion, CurrentVersion: current.GetVersion()}
		}
		return nil
	})
}

func (r *VersionedRepository[T, PT]) inTransaction(tx shared.DB, f func(tx shared.DB) error) error {
	if tx != nil {
		return f(tx)
	}
	return r.Transaction(f)
}
