package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"almoxarifado/config"
	"almoxarifado/internal/legacy"
	"almoxarifado/internal/pkg/database"
	"almoxarifado/internal/pkg/logger"
	"almoxarifado/internal/repository/itemrepo"
	"almoxarifado/internal/repository/requestrepo"
	"almoxarifado/internal/repository/userrepo"
)

// Uso: import -file estado.json [-dry-run]
func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "⚠️ Aviso: Arquivo .env não encontrado. Carregando configs apenas do ambiente do sistema.")
	}

	var path string
	var dryRun bool
	flag.StringVar(&path, "file", "", "arquivo JSON {users, items, reqs} da versão anterior")
	flag.BoolVar(&dryRun, "dry-run", false, "apenas valida o arquivo, sem gravar")
	flag.Parse()

	cfg := config.LoadConfig()
	log := logger.NewLogger(cfg.LogLevel)

	if path == "" {
		log.Fatal("Informe o arquivo com -file.", fmt.Errorf("flag -file ausente"))
	}

	// 1. Ler e validar
	f, err := os.Open(path)
	if err != nil {
		log.Fatal("Falha ao abrir o arquivo.", err)
	}
	st, err := legacy.Parse(f)
	_ = f.Close()
	if err != nil {
		log.Fatal("Falha ao ler o estado legado.", err)
	}

	ds, err := legacy.Convert(st, legacy.BcryptHasher)
	if err != nil {
		log.Fatal("Estado legado inconsistente. Nada foi gravado.", err)
	}
	log.Info("Estado legado validado.", map[string]interface{}{
		"users": len(ds.Users), "items": len(ds.Items), "requests": len(ds.Requests),
	})
	if dryRun {
		return
	}

	// 2. Gravar
	if cfg.StoreDriver != config.StoreDriverPostgres {
		log.Fatal("Importação exige STORE_DRIVER=postgres.", fmt.Errorf("driver atual: %s", cfg.StoreDriver))
	}
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()

	im := legacy.NewImporter(
		userrepo.NewUserRepository(db, cfg.DBTimeout, log),
		itemrepo.NewItemRepository(db, cfg.DBTimeout, log),
		requestrepo.NewRequestRepository(db, cfg.DBTimeout, log),
		log,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if _, err := im.Import(ctx, ds); err != nil {
		log.Fatal("Importação interrompida.", err)
	}
}
