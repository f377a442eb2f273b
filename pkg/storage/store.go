package storage

import (
	"context"

	"github.com/k1dory/telecom-deploy/pkg/models"
)

// Store defines the interface for report history persistence
type Store interface {
	SaveCostReport(ctx context.Context, report *models.CostReport, clusterType string) error
	GetCostReport(ctx context.Context, id string) (*models.CostReport, error)
	ListCostReports(ctx context.Context, limit int) ([]*models.CostReport, error)

	SaveSecurityReport(ctx context.Context, report *models.SecurityReport) error
	GetSecurityReport(ctx context.Context, id string) (*models.SecurityReport, error)
	ListSecurityReports(ctx context.Context, limit int) ([]*models.SecurityReport, error)

	Ping(ctx context.Context) error
	Close() error
}
