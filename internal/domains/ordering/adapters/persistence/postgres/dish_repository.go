package postgres

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/ports"
)

var _ ports.DishRepository = (*dishRepository)(nil)

// dishRecord maps the catalog entry to the Dishes table. Article uniqueness is
// enforced by the IX_Dishes_Article index.
type dishRecord struct {
	ID         string          `gorm:"primaryKey;column:Id;type:varchar(50)"`
	Article    string          `gorm:"column:Article;type:varchar(50)"`
	Name       string          `gorm:"column:Name"`
	Price      decimal.Decimal `gorm:"column:Price;type:numeric(18,2)"`
	IsWeighted bool            `gorm:"column:IsWeighted"`
	FullPath   string          `gorm:"column:FullPath"`
	Barcodes   []string        `gorm:"column:Barcodes;type:jsonb;serializer:json"`
}

func (dishRecord) TableName() string { return "Dishes" }

type dishRepository struct {
	uow *UnitOfWork
}

func (r *dishRepository) Add(_ context.Context, dish *domain.Dish) error {
	if dish == nil {
		return errors.New("dish is nil")
	}
	record := toDishRecord(dish)
	r.uow.stage(func(tx *gorm.DB) error {
		return tx.Create(&record).Error
	})
	return nil
}

func (r *dishRepository) Get(ctx context.Context, id string) (*domain.Dish, error) {
	return r.first(ctx, `"Id" = ?`, id)
}

func (r *dishRepository) GetByArticle(ctx context.Context, article string) (*domain.Dish, error) {
	return r.first(ctx, `"Article" = ?`, article)
}

func (r *dishRepository) Update(_ context.Context, dish *domain.Dish) error {
	if dish == nil {
		return errors.New("dish is nil")
	}
	record := toDishRecord(dish)
	r.uow.stage(func(tx *gorm.DB) error {
		result := tx.Model(&dishRecord{}).
			Where(`"Id" = ?`, record.ID).
			Select("*").Omit("Id").
			Updates(&record)
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

func (r *dishRepository) Delete(_ context.Context, id string) error {
	r.uow.stage(func(tx *gorm.DB) error {
		result := tx.Delete(&dishRecord{}, `"Id" = ?`, id)
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

func (r *dishRepository) List(ctx context.Context) ([]*domain.Dish, error) {
	db, err := r.uow.reader(ctx)
	if err != nil {
		return nil, err
	}
	var records []dishRecord
	if err := db.Order(`"Article"`).Find(&records).Error; err != nil {
		return nil, err
	}
	dishes := make([]*domain.Dish, 0, len(records))
	for _, record := range records {
		dish, err := record.toDomain()
		if err != nil {
			return nil, err
		}
		dishes = append(dishes, dish)
	}
	return dishes, nil
}

func (r *dishRepository) first(ctx context.Context, query string, arg any) (*domain.Dish, error) {
	db, err := r.uow.reader(ctx)
	if err != nil {
		return nil, err
	}
	var record dishRecord
	if err := db.Where(query, arg).Take(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain()
}

func toDishRecord(dish *domain.Dish) dishRecord {
	return dishRecord{
		ID:         dish.ID,
		Article:    dish.Article,
		Name:       dish.Name,
		Price:      dish.Price,
		IsWeighted: dish.IsWeighted,
		FullPath:   dish.FullPath,
		Barcodes:   append([]string{}, dish.Barcodes()...),
	}
}

func (r dishRecord) toDomain() (*domain.Dish, error) {
	dish, err := domain.NewDish(r.ID, r.Article, r.Name, r.Price, r.IsWeighted, r.FullPath)
	if err != nil {
		return nil, err
	}
	for _, code := range r.Barcodes {
		if err := dish.AddBarcode(code); err != nil {
			return nil, err
		}
	}
	return dish, nil
}
