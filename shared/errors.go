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
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package shared

import (
	"errors"
	"fmt"
)

// ValidationError is returned on malformed caller input, like missing
// revision notes or an empty violated-properties set. It is never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError is returned when a business key or a specific version of it
// does not resolve to a stored record.
type NotFoundError struct {
	EntityType string
	Key        string
	Version    int // 0 means the current version was requested
}

func (e *NotFoundError) Error() string {
	if e.Version > 0 {
		return fmt.Sprintf("%s %s version %d not found", e.EntityType, e.Key, e.Version)
	}
	return fmt.Sprintf("%s %s has no current version", e.EntityType, e.Key)
}

func NewNotFoundError(entityType, key string) *NotFoundError {
	return &NotFoundError{EntityType: entityType, Key: key}
}

// ConflictError signals an optimistic concurrency collision: the stored
// current version advanced past the one the caller observed. It carries the
// current version so the caller can re-read and retry. The core itself never
// retries, since a retry needs caller-supplied updated intent.
type ConflictError struct {
	Key             string
	ObservedVersion int
	CurrentVersion  int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("version conflict on %s: observed version %d, current version is %d", e.Key, e.ObservedVersion, e.CurrentVersion)
}

// ConfigError is fatal at framework load time. A framework that raises it
// must never become the active framework.
type ConfigError struct {
	FrameworkID string
	Reason      string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid risk framework %s: %s", e.FrameworkID, e.Reason)
}

func NewConfigError(frameworkID, reason string) *ConfigError {
	return &ConfigError{FrameworkID: frameworkID, Reason: reason}
}

// DanglingReferenceError describes a link whose endpoint no longer resolves
// to a current, non-deleted version. It is reported by consistency checks,
// not raised during normal link writes.
type DanglingReferenceError struct {
	SourceID string
	TargetID string
	Endpoint string // which endpoint is stale: "source" or "target"
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("link %s -> %s references a deleted or superseded %s", e.SourceID, e.TargetID, e.Endpoint)
}

func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsNotFoundError(err error) bool {
	var n *NotFoundError
	return errors.As(err, &n)
}

func IsConflictError(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

func IsConfigError(err error) bool {
	var c *ConfigError
	return errors.As(err, &c)
}
