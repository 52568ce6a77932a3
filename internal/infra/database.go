package infra

import (
	"fmt"

	"drinkeo/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that
// AutoMigrate cannot express (CHECK constraints, partial indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
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

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations applies AutoMigrate plus the schema patches. Exposed separately
// so integration tests can migrate a container database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Categoria{},
		&model.Producto{},
		&model.Empleado{},
		&model.Cliente{},
		&model.Insumo{},
		&model.Receta{},
		&model.MovimientoInventario{},
		&model.Venta{},
		&model.DetalleVenta{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that GORM AutoMigrate cannot fully
// handle. Each statement is guarded by an existence check so re-running on an
// already-patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// The application never writes a negative stock, but the database is
		// the last line of defense against a bug slipping past the row lock.
		{"insumos stock non-negative check", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_insumos_stock_no_negativo') THEN
    ALTER TABLE insumos ADD CONSTRAINT chk_insumos_stock_no_negativo CHECK (stock >= 0);
  END IF;
END $$`},
		// One receta line per (producto, insumo) pair.
		{"recetas unique producto+insumo", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_recetas_producto_insumo') THEN
    CREATE UNIQUE INDEX idx_recetas_producto_insumo ON recetas (producto_id, insumo_id);
  END IF;
END $$`},
		// Audit-trail queries filter by insumo and order by date.
		{"movimientos insumo+fecha index", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_movimientos_insumo_fecha') THEN
    CREATE INDEX idx_movimientos_insumo_fecha ON movimientos_inventario (insumo_id, created_at DESC);
  END IF;
END $$`},
		// Sales listing filters by date range.
		{"ventas fecha index", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_ventas_created_at') THEN
    CREATE INDEX idx_ventas_created_at ON ventas (created_at DESC);
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("schema patch %q: %w", p.descr, err)
		}
	}
	return nil
}
