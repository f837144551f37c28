package repository

import (
	"testing"

	"github.com/Josmarcito/sistema-durtron/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory SQLite database with the full schema.
// One connection keeps every goroutine on the same in-memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&model.Equipo{},
		&model.UnidadInventario{},
		&model.Venta{},
		&model.Anticipo{},
		&model.ContadorSerie{},
		&model.AutorizacionPrecio{},
		&model.MovimientoInventario{},
		&model.HistorialPrecio{},
		&model.Categoria{},
		&model.Proveedor{},
		&model.Cotizacion{},
		&model.CotizacionItem{},
		&model.Requisicion{},
		&model.RequisicionItem{},
	))
	return db
}
