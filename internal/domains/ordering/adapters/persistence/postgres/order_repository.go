package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/ports"
)

var _ ports.OrderRepository = (*orderRepository)(nil)

// orderRecord maps the order aggregate root to the Orders table.
type orderRecord struct {
	ID          uuid.UUID `gorm:"primaryKey;column:Id;type:uuid"`
	CreatedDate time.Time `gorm:"column:CreatedDate"`
	Status      string    `gorm:"column:Status;type:text"`
}

func (orderRecord) TableName() string { return "Orders" }

// orderItemRecord stores one order line; LineNumber keeps insertion order.
type orderItemRecord struct {
	ID         uuid.UUID       `gorm:"primaryKey;column:Id;type:uuid"`
	OrderID    uuid.UUID       `gorm:"column:OrderId;type:uuid"`
	LineNumber int             `gorm:"column:LineNumber"`
	DishID     string          `gorm:"column:DishId;type:varchar(50)"`
	DishName   string          `gorm:"column:DishName"`
	Quantity   decimal.Decimal `gorm:"column:Quantity;type:numeric(18,3)"`
	UnitPrice  decimal.Decimal `gorm:"column:UnitPrice;type:numeric(18,2)"`
}

func (orderItemRecord) TableName() string { return "OrderItems" }

type orderRepository struct {
	uow *UnitOfWork
}

func (r *orderRepository) Add(_ context.Context, order *domain.Order) error {
	if order == nil {
		return errors.New("order is nil")
	}
	record, items := toOrderRecords(order)
	r.uow.stage(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
	return nil
}

func (r *orderRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	db, err := r.uow.reader(ctx)
	if err != nil {
		return nil, err
	}
	var record orderRecord
	if err := db.First(&record, `"Id" = ?`, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	var items []orderItemRecord
	if err := db.Where(`"OrderId" = ?`, id).Order(`"LineNumber"`).Find(&items).Error; err != nil {
		return nil, err
	}
	return record.toDomain(items)
}

// Update replaces the stored status and lines.
func (r *orderRepository) Update(_ context.Context, order *domain.Order) error {
	if order == nil {
		return errors.New("order is nil")
	}
	record, items := toOrderRecords(order)
	r.uow.stage(func(tx *gorm.DB) error {
		result := tx.Model(&orderRecord{}).Where(`"Id" = ?`, record.ID).Update("Status", record.Status)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ports.ErrNotFound
		}
		if err := tx.Where(`"OrderId" = ?`, record.ID).Delete(&orderItemRecord{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
	return nil
}

func (r *orderRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.uow.stage(func(tx *gorm.DB) error {
		result := tx.Delete(&orderRecord{}, `"Id" = ?`, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ports.ErrNotFound
		}
		return nil
	})
	return nil
}

func (r *orderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	db, err := r.uow.reader(ctx)
	if err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := db.Order(`"CreatedDate" DESC`).Find(&records).Error; err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []*domain.Order{}, nil
	}
	ids := make([]uuid.UUID, 0, len(records))
	for _, record := range records {
		ids = append(ids, record.ID)
	}
	var items []orderItemRecord
	if err := db.Where(`"OrderId" IN ?`, ids).Order(`"OrderId", "LineNumber"`).Find(&items).Error; err != nil {
		return nil, err
	}
	byOrder := make(map[uuid.UUID][]orderItemRecord, len(records))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}
	orders := make([]*domain.Order, 0, len(records))
	for _, record := range records {
		order, err := record.toDomain(byOrder[record.ID])
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func toOrderRecords(order *domain.Order) (orderRecord, []orderItemRecord) {
	record := orderRecord{
		ID:          order.ID(),
		CreatedDate: order.CreatedDate(),
		Status:      string(order.Status()),
	}
	lines := order.Items()
	items := make([]orderItemRecord, 0, len(lines))
	for i, line := range lines {
		items = append(items, orderItemRecord{
			ID:         uuid.New(),
			OrderID:    order.ID(),
			LineNumber: i,
			DishID:     line.DishID,
			DishName:   line.DishName,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
		})
	}
	return record, items
}

func (r orderRecord) toDomain(items []orderItemRecord) (*domain.Order, error) {
	status, err := domain.ParseStatus(r.Status)
	if err != nil {
		return nil, err
	}
	lines := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		lines = append(lines, domain.OrderItem{
			DishID:    item.DishID,
			DishName:  item.DishName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return domain.Rehydrate(r.ID, r.CreatedDate, status, lines)
}
