// Command importcatalogo bulk-loads the DURTRON catalog from a JSON array.
// Existing entries are matched by codigo and refreshed.
//
//	importcatalogo catalogo.json
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Josmarcito/sistema-durtron/internal/config"
	"github.com/Josmarcito/sistema-durtron/internal/infra"
	"github.com/Josmarcito/sistema-durtron/internal/model"
	"github.com/Josmarcito/sistema-durtron/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type entrada struct {
	Codigo        string          `json:"codigo" validate:"required"`
	Nombre        string          `json:"nombre" validate:"required"`
	Marca         string          `json:"marca"`
	Modelo        string          `json:"modelo"`
	Categoria     string          `json:"categoria"`
	Descripcion   string          `json:"descripcion"`
	PrecioLista   decimal.Decimal `json:"precio_lista"`
	PrecioMinimo  decimal.Decimal `json:"precio_minimo"`
	PrecioCosto   decimal.Decimal `json:"precio_costo"`
	PotenciaMotor string          `json:"potencia_motor"`
	Capacidad     string          `json:"capacidad"`
	Dimensiones   string          `json:"dimensiones"`
	Peso          string          `json:"peso"`
}

func (e entrada) equipo() (*model.Equipo, error) {
	if !e.PrecioLista.IsPositive() {
		return nil, fmt.Errorf("%s: precio_lista debe ser mayor a 0", e.Codigo)
	}
	if e.PrecioMinimo.IsZero() {
		e.PrecioMinimo = e.PrecioLista
	}
	if e.PrecioMinimo.GreaterThan(e.PrecioLista) {
		return nil, fmt.Errorf("%s: precio_minimo mayor que precio_lista", e.Codigo)
	}
	marca := e.Marca
	if marca == "" {
		marca = "DURTRON"
	}
	eq := &model.Equipo{
		Codigo:        strings.ToUpper(strings.TrimSpace(e.Codigo)),
		Nombre:        e.Nombre,
		Marca:         marca,
		Modelo:        e.Modelo,
		Categoria:     e.Categoria,
		PrecioLista:   e.PrecioLista,
		PrecioMinimo:  e.PrecioMinimo,
		PrecioCosto:   e.PrecioCosto,
		PotenciaMotor: e.PotenciaMotor,
		Capacidad:     e.Capacidad,
		Dimensiones:   e.Dimensiones,
		Peso:          e.Peso,
	}
	if e.Descripcion != "" {
		d := e.Descripcion
		eq.Descripcion = &d
	}
	return eq, nil
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: importcatalogo <catalogo.json>")
		os.Exit(2)
	}

	raw, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatal().Err(err).Msg("read catalog")
	}
	var entradas []entrada
	if err := json.Unmarshal(raw, &entradas); err != nil {
		log.Fatal().Err(err).Msg("parse catalog")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	repo := repository.NewEquipoRepository(db)
	validate := validator.New()
	ctx := context.Background()

	var ok, fallidos int
	for i, e := range entradas {
		if err := validate.Struct(e); err != nil {
			log.Warn().Int("fila", i).Err(err).Msg("entrada invalida")
			fallidos++
			continue
		}
		eq, err := e.equipo()
		if err != nil {
			log.Warn().Int("fila", i).Err(err).Msg("entrada invalida")
			fallidos++
			continue
		}
		if err := repo.UpsertByCodigo(ctx, eq); err != nil {
			log.Error().Str("codigo", eq.Codigo).Err(err).Msg("upsert")
			fallidos++
			continue
		}
		ok++
	}
	log.Info().Int("importados", ok).Int("fallidos", fallidos).Msg("catalog import finished")
	if fallidos > 0 {
		os.Exit(1)
	}
}
