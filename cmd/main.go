package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Nossos pacotes de infraestrutura e utilitários
	"almoxarifado/config"
	"almoxarifado/internal/domain"
	"almoxarifado/internal/pkg/cache"
	"almoxarifado/internal/pkg/database"
	"almoxarifado/internal/pkg/logger"
	"almoxarifado/internal/pkg/token"

	// Camadas para Injeção de Dependências
	"almoxarifado/internal/api/item" // Handlers
	"almoxarifado/internal/api/report"
	"almoxarifado/internal/api/request"
	"almoxarifado/internal/api/router" // Roteador central
	"almoxarifado/internal/api/user"
	"almoxarifado/internal/repository/itemrepo" // Acesso a Dados
	"almoxarifado/internal/repository/memory"
	"almoxarifado/internal/repository/requestrepo"
	"almoxarifado/internal/repository/txrepo"
	"almoxarifado/internal/repository/userrepo"
	"almoxarifado/internal/service/itemservice" // Lógica de Negócio
	"almoxarifado/internal/service/reportservice"
	"almoxarifado/internal/service/requestservice"
	"almoxarifado/internal/service/userservice"
)

// storage agrupa os repositórios escolhidos pelo STORE_DRIVER.
type storage struct {
	items    domain.ItemRepository
	requests domain.RequestRepository
	users    domain.UserRepository
	tx       domain.TxRunner
	close    func() error
}

func openStorage(cfg *config.Config, log logger.Logger) (storage, error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		log.Warn("Usando armazenamento em memória. Os dados serão perdidos ao encerrar.", nil)
		store := memory.NewStore()
		return storage{
			items:    store.Items(),
			requests: store.Requests(),
			users:    store.Users(),
			tx:       store,
			close:    func() error { return nil },
		}, nil
	}

	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		return storage{}, err
	}
	log.Info("Conexão PostgreSQL estabelecida.", nil)
	return storage{
		items:    itemrepo.NewItemRepository(db, cfg.DBTimeout, log),
		requests: requestrepo.NewRequestRepository(db, cfg.DBTimeout, log),
		users:    userrepo.NewUserRepository(db, cfg.DBTimeout, log),
		tx:       txrepo.NewRunner(db, cfg.DBTimeout, log),
		close:    db.Close,
	}, nil
}

func openCache(cfg *config.Config, log logger.Logger) cache.Client {
	if cfg.RedisAddr == "" {
		log.Info("REDIS_ADDR vazio. Cache de relatórios e rate limiting desativados.", nil)
		return cache.NewNoopClient()
	}
	client, err := cache.NewRedisClient(cfg.RedisAddr)
	if err != nil {
		log.Warn("Redis indisponível. Seguindo sem cache.", map[string]interface{}{"addr": cfg.RedisAddr, "error": err.Error()})
		return cache.NewNoopClient()
	}
	log.Info("Conexão Redis estabelecida.", map[string]interface{}{"addr": cfg.RedisAddr})
	return client
}

func main() {
	// 0. CARREGAR VARIÁVEIS DE AMBIENTE (.env)
	// Sem .env seguimos apenas com o ambiente do sistema (ex: Docker).
	if err := godotenv.Load(); err != nil {
		stdlog.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	// 1. Configuração e Logger
	cfg := config.LoadConfig()
	var log logger.Logger
	if cfg.Environment == "development" {
		log = logger.NewDevelopmentLogger(cfg.LogLevel)
	} else {
		log = logger.NewLogger(cfg.LogLevel)
	}
	log.Info("⚡ Inicializando serviço de almoxarifado...", map[string]interface{}{"env": cfg.Environment, "store": cfg.StoreDriver})

	// 2. Conexão com Recursos de Infraestrutura
	store, err := openStorage(cfg, log)
	if err != nil {
		log.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer func() {
		if err := store.close(); err != nil {
			log.Error("Falha ao fechar o armazenamento.", err)
		}
	}()

	cacheClient := openCache(cfg, log)
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)

	// 3. INJEÇÃO DE DEPENDÊNCIAS
	// Ordem: Repository -> Service -> Handler
	// O serviço de relatórios vem primeiro: ele invalida o cache após cada escrita.
	reportSvc := reportservice.NewService(store.requests, cacheClient, cfg.CacheTimeout, log)
	itemSvc := itemservice.NewService(store.items, reportSvc, log)
	requestSvc := requestservice.NewService(store.items, store.requests, store.tx, reportSvc, log)
	userSvc := userservice.NewService(store.users, tokenSvc, log)
	log.Debug("Serviços inicializados.", nil)

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 10*time.Second)
	if err := userSvc.EnsureAdmin(seedCtx, cfg.AdminPassword); err != nil {
		cancelSeed()
		log.Fatal("Falha ao garantir o usuário administrador.", err)
	}
	cancelSeed()

	// 4. Configuração e Início do Roteador/Servidor
	r := router.NewRouter(router.Deps{
		Items:                item.NewHandler(itemSvc, log),
		Requests:             request.NewHandler(requestSvc, reportSvc, log),
		Reports:              report.NewHandler(reportSvc, log),
		Users:                user.NewHandler(userSvc, log),
		TokenSvc:             tokenSvc,
		Cache:                cacheClient,
		Logger:               log,
		RateLimitMaxRequests: cfg.RateLimitMaxRequests,
		RateLimitPeriod:      cfg.RateLimitPeriod,
		MetricsEnabled:       cfg.MetricsEnabled,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second, // exportações PDF/XLSX
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		log.Info("Servidor ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Desligamento do servidor forçado.", err)
	}

	log.Info("Servidor encerrado com sucesso.", nil)
}
