package service

import (
	"context"
	"time"

	"github.com/Josmarcito/sistema-durtron/internal/dto"
	"github.com/Josmarcito/sistema-durtron/internal/model"
	"github.com/Josmarcito/sistema-durtron/internal/pricing"
	"github.com/Josmarcito/sistema-durtron/internal/repository"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type ReporteService interface {
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
	RankingVendedores(ctx context.Context) ([]dto.VendedorRanking, error)
	Config(ctx context.Context) (*dto.ConfigResponse, error)
}

type reporteService struct {
	repo          repository.ReporteRepository
	equipoRepo    repository.EquipoRepository
	categoriaRepo repository.CategoriaRepository
	now           func() time.Time
}

func NewReporteService(
	repo repository.ReporteRepository,
	equipoRepo repository.EquipoRepository,
	categoriaRepo repository.CategoriaRepository,
) ReporteService {
	return &reporteService{repo: repo, equipoRepo: equipoRepo, categoriaRepo: categoriaRepo, now: time.Now}
}

// Dashboard runs the independent aggregates concurrently.
func (s *reporteService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	now := s.now()
	inicioMes := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	finMes := inicioMes.AddDate(0, 1, 0)

	var (
		resp    dto.DashboardResponse
		estados []repository.EstadoCount
		ingreso decimal.Decimal
		saldo   decimal.Decimal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.equipoRepo.Count(gctx)
		resp.TotalEquipos = n
		return err
	})
	g.Go(func() error {
		var err error
		estados, err = s.repo.UnidadesPorEstado(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		resp.VentasMes, ingreso, err = s.repo.VentasEntre(gctx, inicioMes, finMes)
		return err
	})
	g.Go(func() error {
		var err error
		resp.VentasPendientes, saldo, err = s.repo.SaldoPendiente(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp.IngresoMes = ingreso
	resp.SaldoPendiente = saldo
	resp.PorEstado = make([]dto.ConteoEstado, len(estados))
	for i, e := range estados {
		resp.PorEstado[i] = dto.ConteoEstado{Estado: e.Estado, Unidades: e.Unidades}
		resp.TotalUnidades += e.Unidades
	}
	return &resp, nil
}

func (s *reporteService) RankingVendedores(ctx context.Context) ([]dto.VendedorRanking, error) {
	rows, err := s.repo.RankingVendedores(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VendedorRanking, len(rows))
	for i, r := range rows {
		out[i] = dto.VendedorRanking{
			Posicion:     i + 1,
			Vendedor:     r.Vendedor,
			TotalVentas:  r.TotalVentas,
			IngresoTotal: r.IngresoTotal,
			IngresoIVA:   pricing.ConIVA(r.IngresoTotal),
		}
	}
	return out, nil
}

func (s *reporteService) Config(ctx context.Context) (*dto.ConfigResponse, error) {
	cats, err := s.categoriaRepo.List(ctx, true)
	if err != nil {
		return nil, err
	}
	nombres := make([]string, len(cats))
	for i, c := range cats {
		nombres[i] = c.Nombre
	}
	return &dto.ConfigResponse{
		Estados:     model.EstadosUnidad,
		Ubicaciones: model.Ubicaciones,
		Categorias:  nombres,
		FormasPago:  model.FormasPago,
	}, nil
}
