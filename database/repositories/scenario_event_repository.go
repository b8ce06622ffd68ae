package repositories

import (
	"github.com/google/uuid"
	"github.com/l3montree-dev/taraguard/database/models"
	"github.com/l3montree-dev/taraguard/shared"
	"github.com/l3montree-dev/taraguard/utils"
)

type scenarioEventRepository struct {
	db shared.DB
	utils.Repository[uuid.UUID, models.ScenarioEvent, shared.DB]
}

func NewScenarioEventRepository(db shared.DB) *scenarioEventRepository {
	return &scenarioEventRepository{
		db:         db,
		Repository: newGormRepository[uuid.UUID, models.ScenarioEvent](db),
	}
}

func (r *scenarioEventRepository) FindByScenarioID(scenarioID string) ([]models.ScenarioEvent, error) {
	var events []models.ScenarioEvent
	err := r.db.Where("scenario_id = ?", scenarioID).Order("created_at ASC").Find(&events).Error
	return events, err
}
