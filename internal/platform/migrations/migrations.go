package migrations

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

const historyTable = "SchemaMigrations"

type step struct {
	version    int
	name       string
	statements []string
}

// Steps run in order; each is applied once and recorded in SchemaMigrations.
var steps = []step{
	{
		version: 1,
		name:    "create orders",
		statements: []string{
			fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	%s uuid PRIMARY KEY,
	%s timestamptz NOT NULL,
	%s text NOT NULL
)`, q("Orders"), q("Id"), q("CreatedDate"), q("Status")),
			fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (%s DESC)`,
				q("IX_Orders_CreatedDate"), q("Orders"), q("CreatedDate")),
		},
	},
	{
		version: 2,
		name:    "create order items",
		statements: []string{
			fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	%s uuid PRIMARY KEY,
	%s uuid NOT NULL REFERENCES %s (%s) ON DELETE CASCADE,
	%s integer NOT NULL,
	%s varchar(50) NOT NULL,
	%s text NOT NULL DEFAULT '',
	%s numeric(18,3) NOT NULL,
	%s numeric(18,2) NOT NULL
)`, q("OrderItems"), q("Id"), q("OrderId"), q("Orders"), q("Id"), q("LineNumber"),
				q("DishId"), q("DishName"), q("Quantity"), q("UnitPrice")),
			fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (%s, %s)`,
				q("IX_OrderItems_OrderId"), q("OrderItems"), q("OrderId"), q("LineNumber")),
		},
	},
	{
		version: 3,
		name:    "create dishes",
		statements: []string{
			fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	%s varchar(50) PRIMARY KEY,
	%s varchar(50) NOT NULL,
	%s text NOT NULL,
	%s numeric(18,2) NOT NULL,
	%s boolean NOT NULL DEFAULT false,
	%s text NOT NULL DEFAULT '',
	%s jsonb NOT NULL DEFAULT '[]'::jsonb
)`, q("Dishes"), q("Id"), q("Article"), q("Name"), q("Price"), q("IsWeighted"),
				q("FullPath"), q("Barcodes")),
			fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (%s)`,
				q("IX_Dishes_Article"), q("Dishes"), q("Article")),
		},
	},
}

// Run applies pending schema steps.
func Run(db *gorm.DB) error {
	return RunContext(context.Background(), db)
}

// RunContext applies pending schema steps, each in its own transaction.
func RunContext(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return nil
	}
	db = db.WithContext(ctx)
	createHistory := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	%s integer PRIMARY KEY,
	%s text NOT NULL,
	%s timestamptz NOT NULL DEFAULT now()
)`, q(historyTable), q("Version"), q("Name"), q("AppliedAt"))
	if err := db.Exec(createHistory).Error; err != nil {
		return fmt.Errorf("create migration history: %w", err)
	}

	for _, s := range steps {
		err := db.Transaction(func(tx *gorm.DB) error {
			var applied int64
			if err := tx.Table(historyTable).Where(q("Version")+" = ?", s.version).Count(&applied).Error; err != nil {
				return err
			}
			if applied > 0 {
				return nil
			}
			for _, stmt := range s.statements {
				if err := tx.Exec(stmt).Error; err != nil {
					return err
				}
			}
			insert := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES (?, ?)`, q(historyTable), q("Version"), q("Name"))
			return tx.Exec(insert, s.version, s.name).Error
		})
		if err != nil {
			return fmt.Errorf("migration %d (%s): %w", s.version, s.name, err)
		}
	}
	return nil
}

// Statements lists every DDL statement in application order.
func Statements() []string {
	var out []string
	for _, s := range steps {
		out = append(out, s.statements...)
	}
	return out
}

func q(identifier string) string {
	return pq.QuoteIdentifier(identifier)
}

// Versions reports the step versions known to this build.
func Versions() string {
	parts := make([]string, 0, len(steps))
	for _, s := range steps {
		parts = append(parts, fmt.Sprintf("%d:%s", s.version, s.name))
	}
	return strings.Join(parts, ", ")
}
