package transformer

import (
	"github.com/l3montree-dev/taraguard/database/models"
	"github.com/l3montree-dev/taraguard/dtos"
	"github.com/l3montree-dev/taraguard/utils"
)

func RiskFrameworkUpsertRequestToModel(req dtos.RiskFrameworkUpsertRequest) models.RiskFramework {
	return models.RiskFramework{
		FrameworkID:      req.FrameworkID,
		Name:             req.Name,
		ImpactLevels:     req.ImpactLevels,
		LikelihoodLevels: req.LikelihoodLevels,
		RiskLevels:       req.RiskLevels,
		Matrix:           req.Matrix,
		Thresholds:       req.Thresholds,
	}
}

func RiskFrameworkToDTO(framework models.RiskFramework) dtos.RiskFrameworkDTO {
	return dtos.RiskFrameworkDTO{
		FrameworkID:      framework.FrameworkID,
		Name:             framework.Name,
		ImpactLevels:     framework.ImpactLevels,
		LikelihoodLevels: framework.LikelihoodLevels,
		RiskLevels:       framework.RiskLevels,
		Matrix:           framework.Matrix,
		Thresholds:       framework.Thresholds,
		IsActive:         framework.IsActive,
		CreatedAt:        framework.CreatedAt,
		UpdatedAt:        framework.UpdatedAt,
	}
}

func RiskFrameworksToDTOs(frameworks []models.RiskFramework) []dtos.RiskFrameworkDTO {
	return utils.Map(frameworks, RiskFrameworkToDTO)
}
