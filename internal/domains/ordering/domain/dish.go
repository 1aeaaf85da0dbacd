package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyDishID   = errors.New("dish id is required")
	ErrEmptyArticle  = errors.New("dish article is required")
	ErrEmptyName     = errors.New("dish name is required")
	ErrNegativePrice = errors.New("price cannot be negative")
	ErrEmptyBarcode  = errors.New("barcode cannot be empty")
)

// Dish is a catalog entry returned by the remote menu.
type Dish struct {
	ID         string
	Article    string
	Name       string
	Price      decimal.Decimal
	IsWeighted bool
	FullPath   string
	barcodes   []string
}

// NewDish validates and builds a catalog entry.
func NewDish(id, article, name string, price decimal.Decimal, isWeighted bool, fullPath string) (*Dish, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrEmptyDishID
	}
	d := &Dish{ID: id, IsWeighted: isWeighted}
	if err := d.UpdateInfo(name, article, fullPath); err != nil {
		return nil, err
	}
	if err := d.UpdatePrice(price); err != nil {
		return nil, err
	}
	return d, nil
}

// Barcodes returns a copy of the registered barcodes in insertion order.
func (d *Dish) Barcodes() []string {
	return append([]string(nil), d.barcodes...)
}

// AddBarcode registers a barcode once; duplicates are ignored.
func (d *Dish) AddBarcode(code string) error {
	if strings.TrimSpace(code) == "" {
		return ErrEmptyBarcode
	}
	for _, existing := range d.barcodes {
		if existing == code {
			return nil
		}
	}
	d.barcodes = append(d.barcodes, code)
	return nil
}

// RemoveBarcode drops a barcode if present.
func (d *Dish) RemoveBarcode(code string) {
	for i, existing := range d.barcodes {
		if existing == code {
			d.barcodes = append(d.barcodes[:i], d.barcodes[i+1:]...)
			return
		}
	}
}

// UpdatePrice replaces the price.
func (d *Dish) UpdatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return ErrNegativePrice
	}
	d.Price = price
	return nil
}

// UpdateInfo replaces the descriptive fields.
func (d *Dish) UpdateInfo(name, article, fullPath string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(article) == "" {
		return ErrEmptyArticle
	}
	d.Name = name
	d.Article = article
	d.FullPath = fullPath
	return nil
}

// Clone returns a deep copy of the dish.
func (d *Dish) Clone() *Dish {
	if d == nil {
		return nil
	}
	clone := *d
	clone.barcodes = d.Barcodes()
	return &clone
}
