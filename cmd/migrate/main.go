package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"almoxarifado/config"
	"almoxarifado/internal/pkg/database"
	"almoxarifado/internal/pkg/logger"
	migrations "almoxarifado/sql"
)

// Uso: migrate [-dir ./sql] [up|down|status|reset|version ...]
// Sem -dir, usa os scripts embutidos no binário.
func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "⚠️ Aviso: Arquivo .env não encontrado. Carregando configs apenas do ambiente do sistema.")
	}

	var migrationsDir string
	var verbose bool
	flag.StringVar(&migrationsDir, "dir", "", "diretório com os scripts de migração (padrão: embutidos)")
	flag.BoolVar(&verbose, "v", false, "exibe o log do goose")
	flag.Parse()

	cfg := config.LoadConfig()
	log := logger.NewLogger(cfg.LogLevel)

	if cfg.StoreDriver != config.StoreDriverPostgres {
		log.Fatal("Migrações exigem STORE_DRIVER=postgres.", fmt.Errorf("driver atual: %s", cfg.StoreDriver))
	}

	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("goose: falha ao conectar ao banco de dados.", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("goose: falha ao fechar a conexão.", err)
		}
	}()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal("goose: dialeto não suportado.", err)
	}
	if !verbose {
		goose.SetLogger(goose.NopLogger())
	}
	if migrationsDir == "" {
		goose.SetBaseFS(migrations.FS)
		migrationsDir = "."
	}

	arguments := flag.Args()
	if len(arguments) == 0 {
		arguments = []string{"up"}
	}
	command, args := arguments[0], arguments[1:]

	if err := goose.Run(command, db, migrationsDir, args...); err != nil {
		log.Fatal(fmt.Sprintf("goose %s falhou.", command), err)
	}

	log.Info("goose concluído.", map[string]interface{}{"command": command, "dir": migrationsDir})
}
