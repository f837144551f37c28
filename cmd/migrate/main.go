// Command migrate applies or rolls back the embedded SQL migrations.
//
//	migrate up
//	migrate down [n]
//	migrate version
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/Josmarcito/sistema-durtron/internal/config"
	"github.com/Josmarcito/sistema-durtron/internal/infra"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "up":
		if err := infra.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("migrate up")
		}
	case "down":
		n := 1
		if len(os.Args) > 2 {
			if n, err = strconv.Atoi(os.Args[2]); err != nil || n < 1 {
				log.Fatal().Str("arg", os.Args[2]).Msg("down expects a positive step count")
			}
		}
		if err := infra.RollbackMigrations(cfg.DatabaseURL, n); err != nil {
			log.Fatal().Err(err).Msg("migrate down")
		}
	case "version":
		v, dirty, err := infra.MigrationVersion(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("migrate version")
		}
		fmt.Printf("version=%d dirty=%t\n", v, dirty)
	default:
		fmt.Fprintf(os.Stderr, "usage: migrate up | down [n] | version\n")
		os.Exit(2)
	}
}
