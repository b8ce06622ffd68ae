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

package services

import (
	"iter"

	"github.com/google/uuid"
	"github.com/l3montree-dev/taraguard/database/models"
	"github.com/l3montree-dev/taraguard/shared"
	"github.com/l3montree-dev/taraguard/utils"
)

// inMemVersionedRepository mirrors the append-only versioning discipline of
// the real repository on a plain map, so service behavior can be tested
// without a database.
type inMemVersionedRepository[T interface {
	GetScenarioID() string
	GetVersion() int
	Current() bool
	Deleted() bool
}, PT interface {
	*T
	InitFirstVersion()
	PrepareRevision(nextVersion int, notes string)
	Supersede()
	MarkDeleted()
}] struct {
	entityType string
	rows       map[string][]T
}

func newInMemVersionedRepository[T interface {
	GetScenarioID() string
	GetVersion() int
	Current() bool
	Deleted() bool
}, PT interface {
	*T
	InitFirstVersion()
	PrepareRevision(nextVersion int, notes string)
	Supersede()
	MarkDeleted()
}](entityType string) inMemVersionedRepository[T, PT] {
	return inMemVersionedRepository[T, PT]{
		entityType: entityType,
		rows:       make(map[string][]T),
	}
}

func (r *inMemVersionedRepository[T, PT]) GetDB(tx shared.DB) shared.DB {
	return tx
}

// Transaction snapshots the rows so a failing callback rolls its own
// writes back, mirroring the real repository.
func (r *inMemVersionedRepository[T, PT]) Transaction(f func(tx shared.DB) error) error {
	snapshot := make(map[string][]T, len(r.rows))
	for key, rows := range r.rows {
		snapshot[key] = append([]T(nil), rows...)
	}
	if err := f(nil); err != nil {
		r.rows = snapshot
		return err
	}
	return nil
}

func (r *inMemVersionedRepository[T, PT]) Create(tx shared.DB, entity PT) error {
	key := (*entity).GetScenarioID()
	if key == "" {
		return shared.NewValidationError("scenarioId", "business key must not be empty")
	}
	for _, row := range r.rows[key] {
		if !row.Deleted() {
			return shared.NewValidationError("scenarioId", "a scenario with business key "+key+" already exists")
		}
	}
	entity.InitFirstVersion()
	r.rows[key] = append(r.rows[key], *entity)
	return nil
}

func (r *inMemVersionedRepository[T, PT]) GetCurrent(key string) (T, error) {
	for _, row := range r.rows[key] {
		if row.Current() {
			return row, nil
		}
	}
	var zero T
	return zero, shared.NewNotFoundError(r.entityType, key)
}

func (r *inMemVersionedRepository[T, PT]) GetVersion(key string, version int) (T, error) {
	for _, row := range r.rows[key] {
		if row.GetVersion() == version {
			return row, nil
		}
	}
	var zero T
	return zero, &shared.NotFoundError{EntityType: r.entityType, Key: key, Version: version}
}

func (r *inMemVersionedRepository[T, PT]) ListHistory(key string) ([]T, error) {
	history := make([]T, len(r.rows[key]))
	copy(history, r.rows[key])
	return history, nil
}

func (r *inMemVersionedRepository[T, PT]) History(key string) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for _, row := range r.rows[key] {
			if !yield(row, nil) {
				return
			}
		}
	}
}

func (r *inMemVersionedRepository[T, PT]) ListCurrent() ([]T, error) {
	var current []T
	for _, rows := range r.rows {
		for _, row := range rows {
			if row.Current() {
				current = append(current, row)
			}
		}
	}
	return current, nil
}

func (r *inMemVersionedRepository[T, PT]) CurrentKeys() ([]string, error) {
	var keys []string
	for key, rows := range r.rows {
		for _, row := range rows {
			if row.Current() {
				keys = append(keys, key)
				break
			}
		}
	}
	return keys, nil
}

func (r *inMemVersionedRepository[T, PT]) ReviseVersion(tx shared.DB, key string, observedVersion int, notes string, mutate func(PT)) (T, error) {
	var revised T
	if notes == "" {
		return revised, shared.NewValidationError("revisionNotes", "revision notes are required on a version bump")
	}

	current, err := r.GetCurrent(key)
	if err != nil {
		return revised, err
	}
	if current.GetVersion() != observedVersion {
		return revised, &shared.ConflictError{Key: key, ObservedVersion: observedVersion, CurrentVersion: current.GetVersion()}
	}

	next := current
	ptr := PT(&next)
	mutate(ptr)
	ptr.PrepareRevision(observedVersion+1, notes)

	for i := range r.rows[key] {
		if r.rows[key][i].Current() {
			PT(&r.rows[key][i]).Supersede()
		}
	}
	r.rows[key] = append(r.rows[key], next)
	return next, nil
}

func (r *inMemVersionedRepository[T, PT]) SoftDelete(tx shared.DB, key string, observedVersion int) error {
	current, err := r.GetCurrent(key)
	if err != nil {
		if shared.IsNotFoundError(err) && len(r.rows[key]) > 0 {
			// all versions already deleted
			return nil
		}
		return err
	}
	if current.GetVersion() != observedVersion {
		return &shared.ConflictError{Key: key, ObservedVersion: observedVersion, CurrentVersion: current.GetVersion()}
	}
	for i := range r.rows[key] {
		if r.rows[key][i].Current() {
			PT(&r.rows[key][i]).MarkDeleted()
		}
	}
	return nil
}

type inMemDamageScenarioRepository struct {
	inMemVersionedRepository[models.DamageScenario, *models.DamageScenario]
}

func newInMemDamageScenarioRepository() *inMemDamageScenarioRepository {
	return &inMemDamageScenarioRepository{
		inMemVersionedRepository: newInMemVersionedRepository[models.DamageScenario]("damageScenario"),
	}
}

func (r *inMemDamageScenarioRepository) FindByComponentID(componentID uuid.UUID) ([]models.DamageScenario, error) {
	current, _ := r.ListCurrent()
	return utils.Filter(current, func(s models.DamageScenario) bool {
		return s.PrimaryComponentID != nil && *s.PrimaryComponentID == componentID
	}), nil
}

type inMemThreatScenarioRepository struct {
	inMemVersionedRepository[models.ThreatScenario, *models.ThreatScenario]
}

func newInMemThreatScenarioRepository() *inMemThreatScenarioRepository {
	return &inMemThreatScenarioRepository{
		inMemVersionedRepository: newInMemVersionedRepository[models.ThreatScenario]("threatScenario"),
	}
}

func (r *inMemThreatScenarioRepository) FindByScopeID(scopeID uuid.UUID) ([]models.ThreatScenario, error) {
	current, _ := r.ListCurrent()
	return utils.Filter(current, func(s models.ThreatScenario) bool {
		return s.ScopeID == scopeID
	}), nil
}

func (r *inMemThreatScenarioRepository) MarkScopeOutdated(tx shared.DB, scopeID uuid.UUID, currentScopeVersion int) error {
	for key := range r.rows {
		for i := range r.rows[key] {
			row := &r.rows[key][i]
			if row.Current() && row.ScopeID == scopeID && row.ScopeVersion < currentScopeVersion {
				row.ScopeOutdated = true
			}
		}
	}
	return nil
}

func (r *inMemThreatScenarioRepository) UpdateRiskAssessment(tx shared.DB, scenario *models.ThreatScenario) error {
	for i := range r.rows[scenario.ScenarioID] {
		row := &r.rows[scenario.ScenarioID][i]
		if row.Version == scenario.Version {
			row.ImpactLevel = scenario.ImpactLevel
			row.LikelihoodLevel = scenario.LikelihoodLevel
			row.RiskLevel = scenario.RiskLevel
			row.RiskClassification = scenario.RiskClassification
			row.RiskCalculatedAt = scenario.RiskCalculatedAt
			return nil
		}
	}
	return shared.NewNotFoundError("threatScenario", scenario.ScenarioID)
}

type inMemScenarioLinkRepository struct {
	links  []models.ScenarioLink
	damage *inMemDamageScenarioRepository
	threat *inMemThreatScenarioRepository
}

func (r *inMemScenarioLinkRepository) GetDB(tx shared.DB) shared.DB {
	return tx
}

func (r *inMemScenarioLinkRepository) has(sourceID, targetID string) bool {
	return utils.Any(r.links, func(l models.ScenarioLink) bool {
		return l.SourceID == sourceID && l.TargetID == targetID
	})
}

func (r *inMemScenarioLinkRepository) Link(tx shared.DB, sourceID, targetID string) error {
	if r.has(sourceID, targetID) {
		return nil
	}
	r.links = append(r.links, models.ScenarioLink{SourceID: sourceID, TargetID: targetID})
	return nil
}

func (r *inMemScenarioLinkRepository) Unlink(tx shared.DB, sourceID, targetID string) error {
	r.links = utils.Filter(r.links, func(l models.ScenarioLink) bool {
		return l.SourceID != sourceID || l.TargetID != targetID
	})
	return nil
}

func (r *inMemScenarioLinkRepository) LinksFor(id string, direction models.LinkDirection) ([]string, error) {
	var keys []string
	for _, link := range r.links {
		if direction == models.LinkDirectionOutgoing && link.SourceID == id {
			keys = append(keys, link.TargetID)
		}
		if direction == models.LinkDirectionIncoming && link.TargetID == id {
			keys = append(keys, link.SourceID)
		}
	}
	return keys, nil
}

func (r *inMemScenarioLinkRepository) HasLinks(sourceID string) (bool, error) {
	return utils.Any(r.links, func(l models.ScenarioLink) bool {
		return l.SourceID == sourceID
	}), nil
}

func (r *inMemScenarioLinkRepository) FindDangling() ([]shared.DanglingReferenceError, error) {
	var dangling []shared.DanglingReferenceError
	for _, link := range r.links {
		if _, err := r.threat.GetCurrent(link.SourceID); err != nil {
			dangling = append(dangling, shared.DanglingReferenceError{SourceID: link.SourceID, TargetID: link.TargetID, Endpoint: "source"})
		}
		if _, err := r.damage.GetCurrent(link.TargetID); err != nil {
			dangling = append(dangling, shared.DanglingReferenceError{SourceID: link.SourceID, TargetID: link.TargetID, Endpoint: "target"})
		}
	}
	return dangling, nil
}

// inMemModelRepository covers the plain CRUD surface shared by the
// non-versioned entities.
type inMemModelRepository[T interface{ GetID() uuid.UUID }] struct {
	entityType string
	rows       map[uuid.UUID]T
}

func newInMemModelRepository[T interface{ GetID() uuid.UUID }](entityType string) inMemModelRepository[T] {
	return inMemModelRepository[T]{
		entityType: entityType,
		rows:       make(map[uuid.UUID]T),
	}
}

func (r *inMemModelRepository[T]) GetDB(tx shared.DB) shared.DB {
	return tx
}

func (r *inMemModelRepository[T]) Begin() shared.DB {
	return nil
}

func (r *inMemModelRepository[T]) Transaction(f func(tx shared.DB) error) error {
	return f(nil)
}

func (r *inMemModelRepository[T]) Read(id uuid.UUID) (T, error) {
	row, ok := r.rows[id]
	if !ok {
		var zero T
		return zero, shared.NewNotFoundError(r.entityType, id.String())
	}
	return row, nil
}

func (r *inMemModelRepository[T]) List(ids []uuid.UUID) ([]T, error) {
	var rows []T
	for _, id := range ids {
		if row, ok := r.rows[id]; ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (r *inMemModelRepository[T]) All() ([]T, error) {
	var rows []T
	for _, row := range r.rows {
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *inMemModelRepository[T]) Delete(tx shared.DB, id uuid.UUID) error {
	delete(r.rows, id)
	return nil
}

type inMemRiskFrameworkRepository struct {
	inMemModelRepository[models.RiskFramework]
}

func newInMemRiskFrameworkRepository() *inMemRiskFrameworkRepository {
	return &inMemRiskFrameworkRepository{
		inMemModelRepository: newInMemModelRepository[models.RiskFramework]("riskFramework"),
	}
}

func (r *inMemRiskFrameworkRepository) Create(tx shared.DB, framework *models.RiskFramework) error {
	if framework.ID == uuid.Nil {
		framework.ID = uuid.New()
	}
	r.rows[framework.ID] = *framework
	return nil
}

func (r *inMemRiskFrameworkRepository) Save(tx shared.DB, framework *models.RiskFramework) error {
	return r.Create(tx, framework)
}

func (r *inMemRiskFrameworkRepository) FindByFrameworkID(frameworkID string) (models.RiskFramework, error) {
	for _, row := range r.rows {
		if row.FrameworkID == frameworkID {
			return row, nil
		}
	}
	return models.RiskFramework{}, shared.NewNotFoundError("riskFramework", frameworkID)
}

func (r *inMemRiskFrameworkRepository) GetActive() (models.RiskFramework, error) {
	for _, row := range r.rows {
		if row.IsActive {
			return row, nil
		}
	}
	return models.RiskFramework{}, shared.NewNotFoundError("riskFramework", "active")
}

func (r *inMemRiskFrameworkRepository) Activate(tx shared.DB, frameworkID string) error {
	target, err := r.FindByFrameworkID(frameworkID)
	if err != nil {
		return err
	}
	for id, row := range r.rows {
		row.IsActive = row.FrameworkID == target.FrameworkID
		r.rows[id] = row
	}
	return nil
}

type inMemScenarioEventRepository struct {
	inMemModelRepository[models.ScenarioEvent]
	events []models.ScenarioEvent
}

func newInMemScenarioEventRepository() *inMemScenarioEventRepository {
	return &inMemScenarioEventRepository{
		inMemModelRepository: newInMemModelRepository[models.ScenarioEvent]("scenarioEvent"),
	}
}

func (r *inMemScenarioEventRepository) Create(tx shared.DB, event *models.ScenarioEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	r.rows[event.ID] = *event
	r.events = append(r.events, *event)
	return nil
}

func (r *inMemScenarioEventRepository) Save(tx shared.DB, event *models.ScenarioEvent) error {
	return r.Create(tx, event)
}

func (r *inMemScenarioEventRepository) FindByScenarioID(scenarioID string) ([]models.ScenarioEvent, error) {
	return utils.Filter(r.events, func(e models.ScenarioEvent) bool {
		return e.ScenarioID == scenarioID
	}), nil
}

func (r *inMemScenarioEventRepository) ofType(eventType models.ScenarioEventType) []models.ScenarioEvent {
	return utils.Filter(r.events, func(e models.ScenarioEvent) bool {
		return e.Type == eventType
	})
}

type inMemProductScopeRepository struct {
	inMemModelRepository[models.ProductScope]
	components map[uuid.UUID][]models.ProductComponent
}

func newInMemProductScopeRepository() *inMemProductScopeRepository {
	return &inMemProductScopeRepository{
		inMemModelRepository: newInMemModelRepository[models.ProductScope]("productScope"),
		components:           make(map[uuid.UUID][]models.ProductComponent),
	}
}

func (r *inMemProductScopeRepository) Create(tx shared.DB, scope *models.ProductScope) error {
	if scope.ID == uuid.Nil {
		scope.ID = uuid.New()
	}
	if scope.Version == 0 {
		scope.Version = 1
	}
	r.rows[scope.ID] = *scope
	return nil
}

func (r *inMemProductScopeRepository) Save(tx shared.DB, scope *models.ProductScope) error {
	return r.Create(tx, scope)
}

func (r *inMemProductScopeRepository) FindComponents(scopeID uuid.UUID) ([]models.ProductComponent, error) {
	return r.components[scopeID], nil
}

func (r *inMemProductScopeRepository) AdvanceVersion(tx shared.DB, scopeID uuid.UUID) (models.ProductScope, error) {
	scope, err := r.Read(scopeID)
	if err != nil {
		return scope, err
	}
	scope.Version++
	r.rows[scopeID] = scope
	return scope, nil
}

type inMemRequirementRepository struct {
	inMemModelRepository[models.Requirement]
}

func newInMemRequirementRepository() *inMemRequirementRepository {
	return &inMemRequirementRepository{
		inMemModelRepository: newInMemModelRepository[models.Requirement]("requirement"),
	}
}

func (r *inMemRequirementRepository) Create(tx shared.DB, requirement *models.Requirement) error {
	if requirement.ID == uuid.Nil {
		requirement.ID = uuid.New()
	}
	r.rows[requirement.ID] = *requirement
	return nil
}

func (r *inMemRequirementRepository) Save(tx shared.DB, requirement *models.Requirement) error {
	return r.Create(tx, requirement)
}

func (r *inMemRequirementRepository) FindByRequirementID(requirementID string) (models.Requirement, error) {
	for _, row := range r.rows {
		if row.RequirementID == requirementID {
			return row, nil
		}
	}
	return models.Requirement{}, shared.NewNotFoundError("requirement", requirementID)
}

func (r *inMemRequirementRepository) LinkControl(tx shared.DB, requirement *models.Requirement, control models.CompensatingControl) error {
	already := utils.Any(requirement.Controls, func(c models.CompensatingControl) bool {
		return c.ControlID == control.ControlID
	})
	if !already {
		requirement.Controls = append(requirement.Controls, control)
	}
	return nil
}

func (r *inMemRequirementRepository) UnlinkControl(tx shared.DB, requirement *models.Requirement, control models.CompensatingControl) error {
	requirement.Controls = utils.Filter(requirement.Controls, func(c models.CompensatingControl) bool {
		return c.ControlID != control.ControlID
	})
	return nil
}

type inMemCompensatingControlRepository struct {
	inMemModelRepository[models.CompensatingControl]
	requirements *inMemRequirementRepository
}

func newInMemCompensatingControlRepository(requirements *inMemRequirementRepository) *inMemCompensatingControlRepository {
	return &inMemCompensatingControlRepository{
		inMemModelRepository: newInMemModelRepository[models.CompensatingControl]("compensatingControl"),
		requirements:         requirements,
	}
}

func (r *inMemCompensatingControlRepository) Create(tx shared.DB, control *models.CompensatingControl) error {
	if control.ID == uuid.Nil {
		control.ID = uuid.New()
	}
	r.rows[control.ID] = *control
	return nil
}

func (r *inMemCompensatingControlRepository) Save(tx shared.DB, control *models.CompensatingControl) error {
	return r.Create(tx, control)
}

func (r *inMemCompensatingControlRepository) FindByControlID(controlID string) (models.CompensatingControl, error) {
	for _, row := range r.rows {
		if row.ControlID == controlID {
			return row, nil
		}
	}
	return models.CompensatingControl{}, shared.NewNotFoundError("compensatingControl", controlID)
}

func (r *inMemCompensatingControlRepository) FindRequirementsUsingControl(controlID uuid.UUID) ([]models.Requirement, error) {
	all, _ := r.requirements.All()
	return utils.Filter(all, func(req models.Requirement) bool {
		return utils.Any(req.Controls, func(c models.CompensatingControl) bool {
			return c.ID == controlID
		})
	}), nil
}
