package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-citas/internal/domain/catalog"
	"github.com/BruksfildServices01/agenda-citas/internal/models"
)

type ServiceGormRepository struct {
	db *gorm.DB
}

func NewServiceGormRepository(db *gorm.DB) *ServiceGormRepository {
	return &ServiceGormRepository{db: db}
}

func (r *ServiceGormRepository) Create(ctx context.Context, s *models.Service) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return fmt.Errorf("create service: %w", err)
	}
	return nil
}

func (r *ServiceGormRepository) Update(ctx context.Context, s *models.Service) error {
	if err := r.db.WithContext(ctx).Save(s).Error; err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	return nil
}

func (r *ServiceGormRepository) Get(ctx context.Context, id uint) (*models.Service, error) {
	var s models.Service
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("get service: %w", err)
	}
	return &s, nil
}

func (r *ServiceGormRepository) List(ctx context.Context, active *bool) ([]models.Service, error) {
	q := r.db.WithContext(ctx)
	if active != nil {
		q = q.Where("active = ?", *active)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return services, nil
}

func (r *ServiceGormRepository) HasPendingAppointments(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("service_id = ? AND status = ?", id, models.StatusPending).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("count pending appointments: %w", err)
	}
	return count > 0, nil
}

var _ catalog.Repository = (*ServiceGormRepository)(nil)
