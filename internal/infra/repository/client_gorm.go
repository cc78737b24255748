package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-citas/internal/domain/client"
	"github.com/BruksfildServices01/agenda-citas/internal/httperr"
	"github.com/BruksfildServices01/agenda-citas/internal/models"
)

type ClientGormRepository struct {
	db *gorm.DB
}

func NewClientGormRepository(db *gorm.DB) *ClientGormRepository {
	return &ClientGormRepository{db: db}
}

var clientOrders = map[client.Order]string{
	client.OrderName:           "first_name ASC, last_name ASC, id ASC",
	client.OrderNameDesc:       "first_name DESC, last_name DESC, id DESC",
	client.OrderRegistered:     "registered_at ASC, id ASC",
	client.OrderRegisteredDesc: "registered_at DESC, id DESC",
}

func (r *ClientGormRepository) Create(ctx context.Context, c *models.Client) error {
	err := r.db.WithContext(ctx).Create(c).Error
	if httperr.IsUniqueViolation(err) {
		return client.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

func (r *ClientGormRepository) Update(ctx context.Context, c *models.Client) error {
	err := r.db.WithContext(ctx).Save(c).Error
	if httperr.IsUniqueViolation(err) {
		return client.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return nil
}

func (r *ClientGormRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Client{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete client: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return client.ErrNotFound
	}
	return nil
}

func (r *ClientGormRepository) Get(ctx context.Context, id uint) (*models.Client, error) {
	var c models.Client
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, client.ErrNotFound
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return &c, nil
}

func (r *ClientGormRepository) List(
	ctx context.Context,
	q client.ListQuery,
) ([]models.Client, int64, error) {

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Client{}).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count clients: %w", err)
	}

	order, ok := clientOrders[q.Order]
	if !ok {
		order = clientOrders[client.OrderName]
	}

	var clients []models.Client
	if err := r.db.WithContext(ctx).
		Order(order).
		Limit(q.PageSize).
		Offset(q.Offset()).
		Find(&clients).Error; err != nil {
		return nil, 0, fmt.Errorf("list clients: %w", err)
	}

	return clients, total, nil
}

func (r *ClientGormRepository) EmailExists(
	ctx context.Context,
	email string,
	excludeID *uint,
) (bool, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("email = ?", email)

	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return count > 0, nil
}

func (r *ClientGormRepository) HasAppointments(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("client_id = ?", id).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("count client appointments: %w", err)
	}
	return count > 0, nil
}

var _ client.Repository = (*ClientGormRepository)(nil)
