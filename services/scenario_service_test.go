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
	"testing"

	"github.com/google/uuid"
	"github.com/l3montree-dev/taraguard/database/models"
	"github.com/l3montree-dev/taraguard/dtos"
	"github.com/l3montree-dev/taraguard/shared"
	"github.com/l3montree-dev/taraguard/utils"
	"github.com/stretchr/testify/assert"
)

func activeFrameworkModel() models.RiskFramework {
	return models.RiskFramework{
		FrameworkID:      "iso21434-default",
		Name:             "Default",
		IsActive:         true,
		ImpactLevels:     []string{"negligible", "moderate", "major", "severe"},
		LikelihoodLevels: []string{"low", "medium", "high"},
		RiskLevels:       []string{"low", "medium", "high", "critical"},
		Matrix: []models.RiskMatrixEntry{
			{Impact: "negligible", Likelihood: "low", Risk: "low"},
			{Impact: "negligible", Likelihood: "medium", Risk: "low"},
			{Impact: "negligible", Likelihood: "high", Risk: "medium"},
			{Impact: "moderate", Likelihood: "low", Risk: "low"},
			{Impact: "moderate", Likelihood: "medium", Risk: "medium"},
			{Impact: "moderate", Likelihood: "high", Risk: "high"},
			{Impact: "major", Likelihood: "low", Risk: "medium"},
			{Impact: "major", Likelihood: "medium", Risk: "high"},
			{Impact: "major", Likelihood: "high", Risk: "critical"},
			{Impact: "severe", Likelihood: "low", Risk: "high"},
			{Impact: "severe", Likelihood: "medium", Risk: "critical"},
			{Impact: "severe", Likelihood: "high", Risk: "critical"},
		},
		Thresholds: []models.RiskThreshold{
			{RiskLevel: "low", Action: "acceptable"},
			{RiskLevel: "high", Action: "alarp"},
			{RiskLevel: "critical", Action: "intolerable"},
		},
	}
}

type scenarioFixture struct {
	service       *scenarioService
	damageRepo    *inMemDamageScenarioRepository
	threatRepo    *inMemThreatScenarioRepository
	linkRepo      *inMemScenarioLinkRepository
	frameworkRepo *inMemRiskFrameworkRepository
	eventRepo     *inMemScenarioEventRepository
	scopeRepo     *inMemProductScopeRepository
}

func newScenarioFixture(t *testing.T) scenarioFixture {
	damageRepo := newInMemDamageScenarioRepository()
	threatRepo := newInMemThreatScenarioRepository()
	linkRepo := &inMemScenarioLinkRepository{damage: damageRepo, threat: threatRepo}
	frameworkRepo := newInMemRiskFrameworkRepository()
	eventRepo := newInMemScenarioEventRepository()
	scopeRepo := newInMemProductScopeRepository()

	framework := activeFrameworkModel()
	assert.NoError(t, frameworkRepo.Create(nil, &framework))

	return scenarioFixture{
		service:       NewScenarioService(damageRepo, threatRepo, linkRepo, frameworkRepo, eventRepo, scopeRepo),
		damageRepo:    damageRepo,
		threatRepo:    threatRepo,
		linkRepo:      linkRepo,
		frameworkRepo: frameworkRepo,
		eventRepo:     eventRepo,
		scopeRepo:     scopeRepo,
	}
}

func damageCreateRequest() dtos.DamageScenarioCreateRequest {
	return dtos.DamageScenarioCreateRequest{
		ScenarioID:         "ds-brake-loss",
		Name:               "Loss of braking assistance",
		ViolatedProperties: []models.ViolatedProperty{models.ViolatedPropertyIntegrity},
		DamageCategory:     models.DamageCategorySafety,
		Severity:           "major",
		SafetyRelevant:     true,
	}
}

func TestCreateDamageScenario(t *testing.T) {
	t.Run("should store version 1 with a derived rating and audit events", func(t *testing.T) {
		fixture := newScenarioFixture(t)

		scenario, err := fixture.service.CreateDamageScenario(damageCreateRequest(), "alice")
		assert.NoError(t, err)
		assert.Equal(t, 1, scenario.Version)
		assert.True(t, scenario.IsCurrent)
		assert.True(t, scenario.Sfop.AutoGenerated)
		// safety is flagged and matches the damage category: severity + 1 step
		assert.Equal(t, "severe", scenario.Sfop.SafetyImpact)
		assert.Equal(t, "negligible", scenario.Sfop.FinancialImpact)

		assert.Len(t, fixture.eventRepo.ofType(models.EventTypeCreated), 1)
		assert.Len(t, fixture.eventRepo.ofType(models.EventTypeRatingDerived), 1)
	})

	t.Run("should generate a business key when none is given", func(t *testing.T) {
		fixture := newScenarioFixture(t)
		req := damageCreateRequest()
		req.ScenarioID = ""

		scenario, err := fixture.service.CreateDamageScenario(req, "alice")
		assert.NoError(t, err)
		assert.NotEmpty(t, scenario.ScenarioID)
		_, err = uuid.Parse(scenario.ScenarioID)
		assert.NoError(t, err)
	})

	t.Run("should reject a duplicate business key", func(t *testing.T) {
		fixture := newScenarioFixture(t)
		_, err := fixture.service.CreateDamageScenario(damageCreateRequest(), "alice")
		assert.NoError(t, err)

		_, err = fixture.service.CreateDamageScenario(damageCreateRequest(), "alice")
		assert.True(t, shared.IsValidationError(err))
	})

	t.Run("should reject an empty violated properties set", func(t *testing.T) {
		fixture := newScenarioFixture(t)
		req := damageCreateRequest()
		req.ViolatedProperties = nil

		_, err := fixture.service.CreateDamageScenario(req, "alice")
		assert.True(t, shared.IsValidationError(err))

		// nothing stored
		_, err = fixture.damageRepo.GetCurrent(req.ScenarioID)
		assert.True(t, shared.IsNotFoundError(err))
	})

	t.Run("should reject an unknown violated property", func(t *testing.T) {
		fixture := newScenarioFixture(t)
		req := damageCreateRequest()
		req.ViolatedProperties = []models.ViolatedProperty{"authenticity"}

		_, err := fixture.service.CreateDamageScenario(req, "alice")
		assert.True(t, shared.IsValidationError(err))
	})

	t.Run("should fail without any stored framework", func(t *testing.T) {
		fixture := newScenarioFixture(t)
		fixture.frameworkRepo.rows = map[uuid.UUID]models.RiskFramework{}

		_, err := fixture.service.CreateDamageScenario(damageCreateRequest(), "alice")
		assert.True(t, shared.IsNotFoundError(err))
	})

	t.Run("should score against a pinned framework over the active one", func(t *testing.T) {
		fixture := newScenarioFixture(t)
		pinned := activeFrameworkModel()
		pinned.FrameworkID = "iso21434-strict"
		pinned.IsActive = false
		pinned.ImpactLevels = []string{"low", "high"}
		pinned.LikelihoodLevels = []string{"low", "high"}
		pinned.RiskLevels = []string{"low", "high"}
		pinned.Matrix = []models.RiskMatrixEntry{
			{Impact: "low", Likelihood: "low", Risk: "low"},
			{Impact: "low", Likelihood: "high", Risk: "low"},
			{Impact: "high", Likelihood: "low", Risk: "high"},
			{Impact: "high", Likelihood: "high", Risk: "high"},
		}
		pinned.Thresholds = []models.RiskThreshold{{RiskLevel: "high", Action: "intolerable"}}
		assert.NoError(t, fixture.frameworkRepo.Create(nil, &pinned))

		req := damageCreateRequest()
		req.FrameworkID = utils.Ptr("iso21434-strict")
		req.Severity = "high"

		scenario, err := fixture.service.CreateDamageScenario(req, "alice")
		assert.NoError(t, err)
		// "high" is already the top of the pinned scale
		assert.Equal(t, "high", scenario.Sfop.SafetyImpact)
		assert.Equal(t, "low", scenario.Sfop.FinancialImpact)
	})
}

func TestReviseDamageScenario(t *testing.T) {
	reviseRequest := func(observedVersion int) dtos.DamageScenarioReviseRequest {
		return dtos.DamageScenarioReviseRequest{
			ObservedVersion:    observedVersion,
			RevisionNotes:      "severity reassessed after fleet data",
			Name:               "Loss of braking assistance",
			ViolatedProperties: []models.ViolatedProperty{models.ViolatedPropertyIntegrity},
			DamageCategory:     models.DamageCategorySafety,
			Severity:           "moderate",
			SafetyRelevant:     true,
		}
	}

	t.Run("should append a new version and supersede the old one", func(t *testing.T) {
		fixture := newScenarioFixture(t)
		created, err := fixture.service.CreateDamageScenario(damageCreateRequest(), "alice")
		assert.NoError(t, err)

		revised, err := fixture.service.ReviseDamageScenario(created.ScenarioID, reviseRequest(1), "bob")
		assert.NoError(t, err)
		assert.Equal(t, 2, revised.Version)
		assert.Equal(t, "severity reassessed after fleet data", *revised.RevisionNotes)

		old, err := fixture.damageRepo.GetVersion(created.ScenarioID, 1)
		assert.NoError(t, err)
		assert.False(t, old.IsCurrent)

		current, err := fixture.damageRepo.GetCurrent(created.ScenarioID)
		assert.NoError(t, err)
		assert.Equal(t, 2, current.Version)
	})

	t.Run("should re-derive an automatic rating when inputs change", func(t *testing.T) {
		fixture := newScenarioFixture(t)
		created, err := fixture.service.CreateDamageScenario(damageCreateRequest(), "alice")
		assert.NoError(t, err)
		assert.Equal(t, "severe", created.Sfop.SafetyImpact)

		revised, err := fixture.service.ReviseDamageScenario(created.ScenarioID, reviseRequest(1), "bob")
		assert.NoError(t, err)
		// moderate + 1 category step
		assert.Equal(t, "major", revised.Sfop.SafetyImpact)
		assert.True(t, revised.Sfop.AutoGenerated)
	})

	t.Run("should reject a revision with an empty violated properties set", func(t *testing.T) {
		fixture := newScenarioFixture(t)
		created, err := fixture.service.CreateDamageScenario(damageCreateRequest(), "alice")
		assert.NoError(t, err)

		req := reviseRequest(1)
		req.ViolatedProperties = nil
		_, err = fixture.service.ReviseDamageScenario(created.ScenarioID, req, "bob")
		assert.True(t, shared.IsValidationError(err))

		// the rejected revision left no trace
		current, err := fixture.damageRepo.GetCurrent(created.ScenarioID)
		assert.NoError(t, err)
		assert.Equal(t, 1, current.Version)
	})

	t.Run("should reject a stale observed version with the current one", func(t *testing.T) {
		fixture := newScenarioFixture(t)
		created, err := fixture.service.CreateDamageScenario(damageCreateRequest(), "alice")
		assert.NoError(t, err)
		_, err = fixture.service.ReviseDamageScenario(created.ScenarioID, reviseRequest(1), "bob")
		assert.NoError(t, err)

		_, err = fixture.service.ReviseDamageScenario(created.ScenarioID, reviseRequest(1), "carol")
		assert.True(t, shared.IsConflictError(err))
		var conflict *shared.ConflictError
		assert.ErrorAs(t, err, &conflict)
		assert.Equal(t, 2, conflict.CurrentVersion)

		// the losing write left no trace
		current, err := fixture.damageRepo.GetCurrent(created.ScenarioID)
		assert.NoError(t, err)
		assert.Equal(t, 2, current.Version)
	})

	t.Run("should keep an overridden rating verbatim but flag the drift", func(t *testing.T) {
		fixture := newScenarioFixture(t)
		created, err := fixture.service.CreateDamageScenario(damageCreateRequest(), "alice")
		assert.NoError(t, err)

		overridden, err := fixture.service.OverrideSfopRating(created.ScenarioID, dtos.SfopOverrideRequest{
			SafetyImpact: utils.Ptr("negligible"),
			Reason:       "hardware interlock limits the harm",
		}, "bob")
		assert.NoError(t, err)
		assert.False(t, overridden.Sfop.AutoGenerated)

		// the revision changes the severity, a rating input
		revised, err := fixture.service.ReviseDamageScenario(created.ScenarioID, reviseRequest(overridden.Version), "carol")
		assert.NoError(t, err)
		assert.False(t, revised.Sfop.AutoGenerated)
		assert.Equal(t, "negligible", revised.Sfop.SafetyImpact)
		assert.Len(t, fixture.eventRepo.ofType(models.EventTypeStaleOverride), 1)
	})
}

func TestDeleteDamageScenario(t *testing.T) {
	t.Run("should leave no current version and be idempotent", func(t *testing.T) {
		fixture := newScenarioFixture(t)
		created, err := fixture.service.CreateDamageScenario(damageCreateRequest(), "alice")
		assert.NoError(t, err)

		assert.NoError(t, fixture.service.DeleteDamageScenario(created.ScenarioID, 1, "alice"))
		_, err = fixture.damageRepo.GetCurrent(created.ScenarioID)
		assert.True(t, shared.IsNotFoundError(err))

		// deleting twice is a no-op success
		assert.NoError(t, fixture.service.DeleteDamageScenario(created.ScenarioID, 1, "alice"))

		// the history survives the delete
		history, err := fixture.damageRepo.ListHistory(created.ScenarioID)
		assert.NoError(t, err)
		assert.Len(t, history, 1)
	})

	t.Run("should report an unknown key", func(t *testing.T) {
		fixture := newScenarioFixture(t)
		err := fixture.service.DeleteDamageScenario("does-not-exist", 1, "alice")
		assert.True(t, shared.IsNotFoundError(err))
	})
}

func TestOverrideSfopRating(t *testing.T) {
	t.Run("should append a revision carrying the override", func(t *testing.T) {
		fixture := newScenarioFixture(t)
		created, err := fixture.service.CreateDamageScenario(damageCreateRequest(), "alice")
		assert.NoError(t, err)

		overridden, err := fixture.service.OverrideSfopRating(created.ScenarioID, dtos.SfopOverrideRequest{
			SafetyImpact: utils.Ptr("moderate"),
			Reason:       "hardware interlock limits the harm",
		}, "bob")
		assert.NoError(t, err)
		assert.Equal(t, 2, overridden.Version)
		assert.Equal(t, "moderate", overridden.Sfop.SafetyImpact)
		assert.Equal(t, models.RatingModeOverridden, overridden.Sfop.Mode())
		assert.Equal(t, "bob", *overridden.Sfop.LastEditedBy)
		assert.Contains(t, *overridden.RevisionNotes, "hardware interlock")

		events := fixture.eventRepo.ofType(models.EventTypeRatingOverridden)
		assert.Len(t, events, 1)
		assert.Equal(t, "hardware interlock limits the harm", *events[0].Justification)
	})

	t.Run("should roll back the revision when the override is invalid", func(t *testing.T) {
		fixture := newScenarioFixture(t)
		created, err := fixture.service.CreateDamageScenario(damageCreateRequest(), "alice")
		assert.NoError(t, err)

		_, err = fixture.service.OverrideSfopRating(created.ScenarioID, dtos.SfopOverrideRequest{
			SafetyImpact: utils.Ptr("apocalyptic"),
			Reason:       "bad level",
		}, "bob")
		assert.True(t, shared.IsValidationError(err))

		current, err := fixture.damageRepo.GetCurrent(created.ScenarioID)
		assert.NoError(t, err)
		assert.Equal(t, 1, current.Version)
		assert.True(t, current.Sfop.AutoGenerated)
	})
}

func TestDeriveSfopRating(t *testing.T) {
	t.Run("should switch an overridden rating back to automatic", func(t *testing.T) {
		fixture := newScenarioFixture(t)
		created, err := fixture.service.CreateDamageScenario(damageCreateRequest(), "alice")
		assert.NoError(t, err)

		_, err = fixture.service.OverrideSfopRating(created.ScenarioID, dtos.SfopOverrideRequest{
			SafetyImpact: utils.Ptr("negligible"),
			Reason:       "hardware interlock limits the harm",
		}, "bob")
		assert.NoError(t, err)

		derived, err := fixture.service.DeriveSfopRating(created.ScenarioID, "carol")
		assert.NoError(t, err)
		assert.Equal(t, 3, derived.Version)
		assert.True(t, derived.Sfop.AutoGenerated)
		assert.Nil(t, derived.Sfop.OverrideReason)
		assert.Equal(t, created.Sfop.SafetyImpact, derived.Sfop.SafetyImpact)
	})
}

func TestThreatScenarioLifecycle(t *testing.T) {
	createThreat := func(fixture scenarioFixture, scopeID uuid.UUID) (models.ThreatScenario, error) {
		return fixture.service.CreateThreatScenario(dtos.ThreatScenarioCreateRequest{
			ScenarioID:      "ts-can-injection",
			Name:            "CAN bus message injection",
			AttackVector:    "physical obd access",
			ScopeID:         scopeID,
			ImpactLevel:     utils.Ptr("major"),
			LikelihoodLevel: utils.Ptr("medium"),
		}, "alice")
	}

	t.Run("should score a fully assessed scenario on create", func(t *testing.T) {
		fixture := newScenarioFixture(t)
		scenario, err := createThreat(fixture, uuid.Nil)
		assert.NoError(t, err)
		assert.True(t, scenario.Scored())
		assert.Equal(t, "high", *scenario.RiskLevel)
		assert.Equal(t, "alarp", *scenario.RiskClassification)
		assert.NotNil(t, scenario.RiskCalculatedAt)
	})

	t.Run("should record the scope version at assessment time", func(t *testing.T) {
		fixture := newScenarioFixture(t)
		scope := models.ProductScope{Name: "headunit", Version: 3}
		assert.NoError(t, fixture.scopeRepo.Create(nil, &scope))

		scenario, err := createThreat(fixture, scope.ID)
		assert.NoError(t, err)
		assert.Equal(t, 3, scenario.ScopeVersion)
		assert.False(t, scenario.ScopeOutdated)
	})

	t.Run("should reject a level the framework does not declare", func(t *testing.T) {
		fixture := newScenarioFixture(t)
		_, err := fixture.service.CreateThreatScenario(dtos.ThreatScenarioCreateRequest{
			Name:            "CAN bus message injection",
			ImpactLevel:     utils.Ptr("catastrophic"),
			LikelihoodLevel: utils.Ptr("medium"),
		}, "alice")
		assert.True(t, shared.IsValidationError(err))
	})

	t.Run("should store an unassessed scenario without derived fields", func(t *testing.T) {
		fixture := newScenarioFixture(t)
		scenario, err := fixture.service.CreateThreatScenario(dtos.ThreatScenarioCreateRequest{
			Name: "CAN bus message injection",
		}, "alice")
		assert.NoError(t, err)
		assert.False(t, scenario.Scored())
		assert.Nil(t, scenario.RiskClassification)
	})

	t.Run("should clear derived fields when a revision drops the assessment", func(t *testing.T) {
		fixture := newScenarioFixture(t)
		scenario, err := createThreat(fixture, uuid.Nil)
		assert.NoError(t, err)

		revised, err := fixture.service.ReviseThreatScenario(scenario.ScenarioID, dtos.ThreatScenarioReviseRequest{
			ObservedVersion: 1,
			RevisionNotes:   "attack path needs re-analysis",
			Name:            scenario.Name,
		}, "bob")
		assert.NoError(t, err)
		assert.Equal(t, 2, revised.Version)
		assert.False(t, revised.Scored())
		assert.Nil(t, revised.RiskCalculatedAt)
	})
}

func TestAdvanceProductScope(t *testing.T) {
	t.Run("should flag threats assessed against the older scope version", func(t *testing.T) {
		fixture := newScenarioFixture(t)
		scope := models.ProductScope{Name: "headunit"}
		assert.NoError(t, fixture.scopeRepo.Create(nil, &scope))

		scenario, err := fixture.service.CreateThreatScenario(dtos.ThreatScenarioCreateRequest{
			Name:    "CAN bus message injection",
			ScopeID: scope.ID,
		}, "alice")
		assert.NoError(t, err)
		assert.Equal(t, 1, scenario.ScopeVersion)

		advanced, err := fixture.service.AdvanceProductScope(scope.ID, "bob")
		assert.NoError(t, err)
		assert.Equal(t, 2, advanced.Version)

		current, err := fixture.threatRepo.GetCurrent(scenario.ScenarioID)
		assert.NoError(t, err)
		assert.True(t, current.ScopeOutdated)
	})

	t.Run("rebinding to another scope resets the outdated flag", func(t *testing.T) {
		fixture := newScenarioFixture(t)
		oldScope := models.ProductScope{Name: "headunit"}
		newScope := models.ProductScope{Name: "gateway", Version: 5}
		assert.NoError(t, fixture.scopeRepo.Create(nil, &oldScope))
		assert.NoError(t, fixture.scopeRepo.Create(nil, &newScope))

		scenario, err := fixture.service.CreateThreatScenario(dtos.ThreatScenarioCreateRequest{
			Name:    "CAN bus message injection",
			ScopeID: oldScope.ID,
		}, "alice")
		assert.NoError(t, err)

		_, err = fixture.service.AdvanceProductScope(oldScope.ID, "bob")
		assert.NoError(t, err)

		revised, err := fixture.service.ReviseThreatScenario(scenario.ScenarioID, dtos.ThreatScenarioReviseRequest{
			ObservedVersion: 1,
			RevisionNotes:   "assessed against the gateway scope",
			Name:            scenario.Name,
			ScopeID:         newScope.ID,
		}, "carol")
		assert.NoError(t, err)
		assert.False(t, revised.ScopeOutdated)
		assert.Equal(t, 5, revised.ScopeVersion)
	})
}

func TestRescoreThreatScenario(t *testing.T) {
	t.Run("should refresh derived fields without a version bump", func(t *testing.T) {
		fixture := newScenarioFixture(t)
		scenario, err := fixture.service.CreateThreatScenario(dtos.ThreatScenarioCreateRequest{
			Name:            "CAN bus message injection",
			ImpactLevel:     utils.Ptr("major"),
			LikelihoodLevel: utils.Ptr("medium"),
		}, "alice")
		assert.NoError(t, err)

		// the framework matrix changes under the stored scenario
		framework, err := fixture.frameworkRepo.GetActive()
		assert.NoError(t, err)
		for i, entry := range framework.Matrix {
			if entry.Impact == "major" && entry.Likelihood == "medium" {
				framework.Matrix[i].Risk = "critical"
			}
		}
		assert.NoError(t, fixture.frameworkRepo.Save(nil, &framework))

		rescored, err := fixture.service.RescoreThreatScenario(scenario.ScenarioID, "bob")
		assert.NoError(t, err)
		assert.Equal(t, 1, rescored.Version)
		assert.Equal(t, "critical", *rescored.RiskLevel)
		assert.Equal(t, "intolerable", *rescored.RiskClassification)

		stored, err := fixture.threatRepo.GetCurrent(scenario.ScenarioID)
		assert.NoError(t, err)
		assert.Equal(t, "critical", *stored.RiskLevel)
		assert.Len(t, fixture.eventRepo.ofType(models.EventTypeRescored), 1)
	})

	t.Run("should refuse to score an unassessed scenario", func(t *testing.T) {
		fixture := newScenarioFixture(t)
		scenario, err := fixture.service.CreateThreatScenario(dtos.ThreatScenarioCreateRequest{
			Name: "CAN bus message injection",
		}, "alice")
		assert.NoError(t, err)

		_, err = fixture.service.RescoreThreatScenario(scenario.ScenarioID, "bob")
		assert.True(t, shared.IsValidationError(err))
	})
}

func TestScenarioLinks(t *testing.T) {
	setup := func(t *testing.T) (scenarioFixture, models.ThreatScenario, models.DamageScenario) {
		fixture := newScenarioFixture(t)
		threat, err := fixture.service.CreateThreatScenario(dtos.ThreatScenarioCreateRequest{
			ScenarioID: "ts-can-injection",
			Name:       "CAN bus message injection",
		}, "alice")
		assert.NoError(t, err)
		damage, err := fixture.service.CreateDamageScenario(damageCreateRequest(), "alice")
		assert.NoError(t, err)
		return fixture, threat, damage
	}

	t.Run("should link and resolve a damage scenario", func(t *testing.T) {
		fixture, threat, damage := setup(t)

		assert.NoError(t, fixture.service.LinkScenarios(threat.ScenarioID, damage.ScenarioID, "alice"))
		// linking twice is a no-op
		assert.NoError(t, fixture.service.LinkScenarios(threat.ScenarioID, damage.ScenarioID, "alice"))

		linked, err := fixture.service.LinkedDamageScenarios(threat.ScenarioID)
		assert.NoError(t, err)
		assert.Len(t, linked, 1)
		assert.Equal(t, damage.ScenarioID, linked[0].ScenarioID)
	})

	t.Run("should refuse to link a deleted endpoint", func(t *testing.T) {
		fixture, threat, damage := setup(t)
		assert.NoError(t, fixture.service.DeleteDamageScenario(damage.ScenarioID, 1, "alice"))

		err := fixture.service.LinkScenarios(threat.ScenarioID, damage.ScenarioID, "alice")
		assert.True(t, shared.IsNotFoundError(err))
	})

	t.Run("should unlink idempotently", func(t *testing.T) {
		fixture, threat, damage := setup(t)
		assert.NoError(t, fixture.service.LinkScenarios(threat.ScenarioID, damage.ScenarioID, "alice"))
		assert.NoError(t, fixture.service.UnlinkScenarios(threat.ScenarioID, damage.ScenarioID, "alice"))
		assert.NoError(t, fixture.service.UnlinkScenarios(threat.ScenarioID, damage.ScenarioID, "alice"))

		linked, err := fixture.service.LinkedDamageScenarios(threat.ScenarioID)
		assert.NoError(t, err)
		assert.Empty(t, linked)
	})

	t.Run("should migrate a legacy single-valued reference on first read", func(t *testing.T) {
		fixture, threat, damage := setup(t)

		// simulate a record written before the link table existed
		rows := fixture.threatRepo.rows[threat.ScenarioID]
		rows[0].DamageScenarioID = utils.Ptr(damage.ScenarioID)

		linked, err := fixture.service.LinkedDamageScenarios(threat.ScenarioID)
		assert.NoError(t, err)
		assert.Len(t, linked, 1)

		hasLinks, err := fixture.linkRepo.HasLinks(threat.ScenarioID)
		assert.NoError(t, err)
		assert.True(t, hasLinks)
	})

	t.Run("should skip stale endpoints and surface them as dangling", func(t *testing.T) {
		fixture, threat, damage := setup(t)
		assert.NoError(t, fixture.service.LinkScenarios(threat.ScenarioID, damage.ScenarioID, "alice"))
		assert.NoError(t, fixture.service.DeleteDamageScenario(damage.ScenarioID, 1, "alice"))

		linked, err := fixture.service.LinkedDamageScenarios(threat.ScenarioID)
		assert.NoError(t, err)
		assert.Empty(t, linked)

		dangling, err := fixture.service.FindDanglingLinks()
		assert.NoError(t, err)
		assert.Len(t, dangling, 1)
		assert.Equal(t, "target", dangling[0].Endpoint)
		assert.Equal(t, damage.ScenarioID, dangling[0].TargetID)
	})
}
