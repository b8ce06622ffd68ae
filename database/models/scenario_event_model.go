package models

import (
	"encoding/json"
	"log/slog"
)

type ScenarioEventType string

const (
	EventTypeCreated            ScenarioEventType = "created"
	EventTypeRevised            ScenarioEventType = "revised"
	EventTypeDeleted            ScenarioEventType = "deleted"
	EventTypeLinked             ScenarioEventType = "linked"
	EventTypeUnlinked           ScenarioEventType = "unlinked"
	EventTypeRatingDerived      ScenarioEventType = "ratingDerived"
	EventTypeRatingOverridden   ScenarioEventType = "ratingOverridden"
	EventTypeRescored           ScenarioEventType = "rescored"
	EventTypeStaleOverride      ScenarioEventType = "staleOverride"
	EventTypeGapEvaluated       ScenarioEventType = "gapEvaluated"
	EventTypeFrameworkActivated ScenarioEventType = "frameworkActivated"
)

// ScenarioEvent is the audit trail of the scenario graph. Every mutating
// operation appends one event; events are never updated or deleted.
type ScenarioEvent struct {
	Model

	Type ScenarioEventType `json:"type" gorm:"type:text;not null"`

	ScenarioID   string       `json:"scenarioId" gorm:"type:text;index"`
	ScenarioType ScenarioType `json:"scenarioType" gorm:"type:text"`
	Version      int          `json:"version"`

	UserID        string  `json:"userId" gorm:"type:text"`
	Justification *string `json:"justification" gorm:"type:text"`

	ArbitraryJSONData string `json:"arbitraryJSONData" gorm:"type:text"`
	arbitraryJSONData map[string]any
}

func (event ScenarioEvent) TableName() string {
	return "scenario_events"
}

func NewScenarioEvent(eventType ScenarioEventType, scenarioType ScenarioType, scenarioID string, version int, userID string) ScenarioEvent {
	return ScenarioEvent{
		Type:         eventType,
		ScenarioID:   scenarioID,
		ScenarioType: scenarioType,
		Version:      version,
		UserID:       userID,
	}
}

func (event *ScenarioEvent) GetArbitraryJSONData() map[string]any {
	if event.ArbitraryJSONData == "" {
		return make(map[string]any)
	}
	if event.arbitraryJSONData == nil {
		event.arbitraryJSONData = make(map[string]any)
		err := json.Unmarshal([]byte(event.ArbitraryJSONData), &event.arbitraryJSONData)
		if err != nil {
			slog.Error("could not parse arbitrary data", "err", err, "eventID", event.ID)
		}
	}
	return event.arbitraryJSONData
}

func (event *ScenarioEvent) SetArbitraryJSONData(data map[string]any) {
	event.arbitraryJSONData = data
	dataBytes, err := json.Marshal(event.arbitraryJSONData)
	if err != nil {
		slog.Error("could not marshal arbitrary data", "err", err, "eventID", event.ID)
	}
	event.ArbitraryJSONData = string(dataBytes)
}
