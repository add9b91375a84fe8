package orderrepo

import (
	"context"
	"errors"

	"emojiorder/internal/core/domain/model/kernel"
	"emojiorder/internal/core/domain/model/order"
	"emojiorder/internal/core/ports"
	"emojiorder/internal/pkg/errs"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	_ ports.OrderRepository = (*GormOrderRepository)(nil)
	_ ports.OrderReader     = (*GormOrderRepository)(nil)
)

// GormOrderRepository implements OrderRepository and OrderReader using GORM.
// When lockRows is set (inside a unit of work) Get takes a row lock with
// SELECT ... FOR UPDATE, so concurrent status changes queue up behind it.
type GormOrderRepository struct {
	db       *gorm.DB
	lockRows bool
}

// NewGormOrderRepository creates a repository bound to a transaction.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db, lockRows: true}
}

// NewGormOrderReader creates a repository for lock-free reads.
func NewGormOrderReader(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if isUniqueViolation(err) {
			return errs.NewObjectAlreadyExistsErrorWithCause("orderId", aggregate.ID(), err)
		}
		return err
	}

	return nil
}

// Update writes the mutable columns of an existing order. Prices and items
// are frozen at creation and never rewritten.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", dto.ID).Updates(map[string]any{
		"status":            dto.Status,
		"updated_at":        dto.UpdatedAt,
		"payment_reference": dto.PaymentReference,
		"payment_url":       dto.PaymentURL,
	})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("orderId", aggregate.ID())
	}

	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx)
	if r.lockRows {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var dto OrderDTO
	if err := query.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("orderId", id)
		}
		return nil, err
	}

	return toDomain(dto)
}

// List returns orders newest first, ties broken by reverse insertion order.
func (r *GormOrderRepository) List(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC").Order("seq DESC")
	if filter.Status != order.Unknown {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var dtos []OrderDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
