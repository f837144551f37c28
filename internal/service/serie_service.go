package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Josmarcito/sistema-durtron/internal/apierror"
	"github.com/Josmarcito/sistema-durtron/internal/dto"
	"github.com/Josmarcito/sistema-durtron/internal/repository"
)

// SerieService allocates per-code sequential serials ("JC-150-007").
// The same counters back the quotation and requisition folios.
type SerieService interface {
	Siguiente(ctx context.Context, codigo string) (*dto.SerieResponse, error)
	Liberar(ctx context.Context, codigo string, objetivo *int) (*dto.SerieResponse, error)
	Actual(ctx context.Context, codigo string) (*dto.SerieResponse, error)
}

type serieService struct {
	repo repository.SerieRepository
}

func NewSerieService(repo repository.SerieRepository) SerieService {
	return &serieService{repo: repo}
}

// FormatearSerie renders a counter value as "{codigo}-{n:03d}".
func FormatearSerie(codigo string, n int) string {
	return fmt.Sprintf("%s-%03d", codigo, n)
}

func normalizarCodigo(codigo string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(codigo))
	if c == "" {
		return "", apierror.Validation("el codigo de serie es obligatorio")
	}
	return c, nil
}

func (s *serieService) Siguiente(ctx context.Context, codigo string) (*dto.SerieResponse, error) {
	c, err := normalizarCodigo(codigo)
	if err != nil {
		return nil, err
	}
	n, err := s.repo.Incrementar(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("siguiente serie %s: %w", c, err)
	}
	return &dto.SerieResponse{Codigo: c, Contador: n, Serie: FormatearSerie(c, n)}, nil
}

// Liberar steps the counter back by one (never below zero) or resets it to
// objetivo. Used to return a serial that was allocated but never stamped.
func (s *serieService) Liberar(ctx context.Context, codigo string, objetivo *int) (*dto.SerieResponse, error) {
	c, err := normalizarCodigo(codigo)
	if err != nil {
		return nil, err
	}
	if objetivo != nil && *objetivo < 0 {
		return nil, apierror.Validation("el valor objetivo no puede ser negativo")
	}
	n, found, err := s.repo.Liberar(ctx, c, objetivo)
	if err != nil {
		return nil, fmt.Errorf("liberar serie %s: %w", c, err)
	}
	if !found {
		return nil, apierror.NotFound("no existe contador para %s", c)
	}
	return &dto.SerieResponse{Codigo: c, Contador: n}, nil
}

func (s *serieService) Actual(ctx context.Context, codigo string) (*dto.SerieResponse, error) {
	c, err := normalizarCodigo(codigo)
	if err != nil {
		return nil, err
	}
	n, err := s.repo.Actual(ctx, c)
	if err != nil {
		return nil, err
	}
	resp := &dto.SerieResponse{Codigo: c, Contador: n}
	if n > 0 {
		resp.Serie = FormatearSerie(c, n)
	}
	return resp, nil
}
