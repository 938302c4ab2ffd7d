package infra

import (
	"fmt"
	"time"

	"shopmate/internal/ident"
	"shopmate/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection to Postgres. TranslateError maps
// unique and foreign-key violations to gorm.ErrDuplicatedKey and
// gorm.ErrForeignKeyViolated so services never inspect driver errors.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// RunMigrations creates or updates every table, then applies the idempotent
// SQL patches AutoMigrate cannot express.
func RunMigrations(db *gorm.DB) error {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS pgcrypto").Error; err != nil {
		return fmt.Errorf("pgcrypto: %w", err)
	}
	if err := db.AutoMigrate(
		&model.Manufacturer{},
		&model.Brand{},
		&model.ProductAttribute{},
		&model.Product{},
		&model.Customer{},
		&model.OrderStatus{},
		&model.Order{},
		&model.Invoice{},
		&model.AuditLog{},
		&model.IDCounter{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// counterSources maps each identifier kind to the table and column holding
// identifiers of that kind.
var counterSources = []struct {
	kind          ident.Kind
	table, column string
}{
	{ident.Product, "products", "sku"},
	{ident.Customer, "customers", "customer_id"},
	{ident.Order, "orders", "order_id"},
}

// attributeKeyValueIndex makes (key, value) unique with a missing value
// counting as one value, which a plain composite index on a nullable column
// does not do.
const attributeKeyValueIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_attribute_key_value_nn
	ON product_attributes (key, COALESCE(value, ''))`

// applySchemaPatches applies what AutoMigrate cannot express. It replaces
// the attribute (key, value) index with an expression index and seeds
// id_counters from the highest identifier already stored, so a database
// populated before the counters existed keeps issuing fresh numbers.
// Existing counters are left untouched.
func applySchemaPatches(db *gorm.DB) error {
	if err := db.Exec(`DROP INDEX IF EXISTS idx_attribute_key_value`).Error; err != nil {
		return fmt.Errorf("drop attribute index: %w", err)
	}
	if err := db.Exec(attributeKeyValueIndex).Error; err != nil {
		return fmt.Errorf("attribute index: %w", err)
	}
	for _, src := range counterSources {
		from := len(src.kind.Prefix()) + 1
		sql := fmt.Sprintf(`INSERT INTO id_counters (kind, value)
			SELECT ?, COALESCE(MAX(CAST(substring(%s FROM %d) AS BIGINT)), 0) FROM %s
			ON CONFLICT (kind) DO NOTHING`, src.column, from, src.table)
		if err := db.Exec(sql, string(src.kind)).Error; err != nil {
			return fmt.Errorf("seed counter %s: %w", src.kind, err)
		}
	}
	return nil
}
