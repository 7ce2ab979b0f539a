package opportunity

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	db "github.com/Perkly/Perkly-Backend/db/sqlc"
	"github.com/Perkly/Perkly-Backend/services/monitoring/logging"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OpportunityModel struct {
	ID               uuid.UUID       `json:"id"`
	Title            string          `json:"title"`
	OrganizationName string          `json:"organization_name"`
	Status           string          `json:"status"`
	RewardAmount     decimal.Decimal `json:"reward_amount"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func ToOpportunityModel(row db.Opportunity) *OpportunityModel {
	return &OpportunityModel{
		ID:               row.ID,
		Title:            row.Title,
		OrganizationName: row.OrganizationName,
		Status:           row.Status,
		RewardAmount:     row.RewardAmount,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
}

type Repository interface {
	GetOpportunity(ctx context.Context, id uuid.UUID) (db.Opportunity, error)
}

type SQLRepository struct {
	store *db.Store
}

func NewSQLRepository(store *db.Store) *SQLRepository {
	return &SQLRepository{store: store}
}

func (r *SQLRepository) GetOpportunity(ctx context.Context, id uuid.UUID) (db.Opportunity, error) {
	return r.store.GetOpportunity(ctx, id)
}

// OpportunityService exposes the lookups the settlement path needs. Opportunity
// CRUD lives elsewhere in the platform.
type OpportunityService struct {
	repo   Repository
	logger *logging.Logger
}

func NewOpportunityService(repo Repository, logger *logging.Logger) *OpportunityService {
	return &OpportunityService{
		repo:   repo,
		logger: logger,
	}
}

func (s *OpportunityService) GetOpportunity(ctx context.Context, id uuid.UUID) (*OpportunityModel, error) {
	row, err := s.repo.GetOpportunity(ctx, id)
	if err == sql.ErrNoRows {
		return nil, ErrOpportunityNotFound
	} else if err != nil {
		return nil, fmt.Errorf("get opportunity: %w", err)
	}
	return ToOpportunityModel(row), nil
}
