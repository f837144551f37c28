package repository

import (
	"context"
	"time"

	"github.com/Josmarcito/sistema-durtron/internal/model"

	"gorm.io/gorm"
)

// SerieRepository owns the per-code serial counters.
type SerieRepository interface {
	// Incrementar atomically bumps the counter for codigo (creating it at 1)
	// and returns the new value.
	Incrementar(ctx context.Context, codigo string) (int, error)
	// Liberar decrements the counter (never below zero) or, when objetivo is
	// set, resets it to that value. found is false when no counter exists.
	Liberar(ctx context.Context, codigo string, objetivo *int) (valor int, found bool, err error)
	Actual(ctx context.Context, codigo string) (int, error)
}

type serieRepo struct{ db *gorm.DB }

func NewSerieRepository(db *gorm.DB) SerieRepository { return &serieRepo{db: db} }

// A single upsert round trip; the row lock taken by ON CONFLICT serializes
// concurrent callers so no two receive the same value.
const incrementarSQL = `
INSERT INTO contadores_serie (codigo, ultimo, updated_at) VALUES (?, 1, ?)
ON CONFLICT (codigo) DO UPDATE SET ultimo = contadores_serie.ultimo + 1, updated_at = excluded.updated_at
RETURNING ultimo`

func (r *serieRepo) Incrementar(ctx context.Context, codigo string) (int, error) {
	var n int
	err := r.db.WithContext(ctx).Raw(incrementarSQL, codigo, time.Now()).Scan(&n).Error
	return n, err
}

func (r *serieRepo) Liberar(ctx context.Context, codigo string, objetivo *int) (int, bool, error) {
	var vals []int
	var err error
	if objetivo != nil {
		err = r.db.WithContext(ctx).Raw(
			`UPDATE contadores_serie SET ultimo = ?, updated_at = ? WHERE codigo = ? RETURNING ultimo`,
			*objetivo, time.Now(), codigo,
		).Scan(&vals).Error
	} else {
		err = r.db.WithContext(ctx).Raw(
			`UPDATE contadores_serie SET ultimo = CASE WHEN ultimo > 0 THEN ultimo - 1 ELSE 0 END, updated_at = ?
			 WHERE codigo = ? RETURNING ultimo`,
			time.Now(), codigo,
		).Scan(&vals).Error
	}
	if err != nil {
		return 0, false, err
	}
	if len(vals) == 0 {
		return 0, false, nil
	}
	return vals[0], true, nil
}

func (r *serieRepo) Actual(ctx context.Context, codigo string) (int, error) {
	var c model.ContadorSerie
	err := r.db.WithContext(ctx).Where("codigo = ?", codigo).First(&c).Error
	if IsNotFound(err) {
		return 0, nil
	}
	return c.Ultimo, err
}
