package config

import (
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Drivers de armazenamento suportados.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config armazena todas as configurações do serviço de almoxarifado.
type Config struct {
	// Geral
	Port        string
	Environment string
	LogLevel    string

	// Armazenamento ("postgres" ou "memory")
	StoreDriver string

	// Banco de Dados (PostgreSQL)
	DatabaseURL string
	DBTimeout   time.Duration

	// Cache (Redis). Endereço vazio desativa o cache.
	RedisAddr    string
	CacheTimeout time.Duration

	// Segurança (JWT)
	JWTSecretKey  string
	TokenExpiry   time.Duration
	AdminPassword string

	// Rate Limiting
	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration

	// Observabilidade
	MetricsEnabled bool
}

// LoadConfig carrega as configurações do ambiente e, se existir, do arquivo .env.
// As variáveis de ambiente têm prioridade sobre o arquivo.
func LoadConfig() *Config {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // arquivo opcional
	v.AutomaticEnv()
	v.AllowEmptyEnv(true) // REDIS_ADDR="" desativa o cache

	cfg := &Config{
		// 1. Geral
		Port:        getString(v, "PORT", "8080"),
		Environment: getString(v, "ENV", "development"),
		LogLevel:    getString(v, "LOG_LEVEL", "info"),
		StoreDriver: strings.ToLower(getString(v, "STORE_DRIVER", StoreDriverPostgres)),

		// 2. Banco de Dados
		DBTimeout: getDuration(v, "DB_TIMEOUT_SEC", 5) * time.Second,

		// 3. Cache (Redis)
		RedisAddr:    getString(v, "REDIS_ADDR", "localhost:6379"),
		CacheTimeout: getDuration(v, "CACHE_TIMEOUT_SEC", 60) * time.Second,

		// 4. Segurança (JWT)
		JWTSecretKey:  mustGetString(v, "JWT_SECRET_KEY"),
		TokenExpiry:   getDuration(v, "JWT_EXPIRY_MIN", 480) * time.Minute, // 8h, como o turno do almoxarifado
		AdminPassword: getString(v, "ADMIN_PASSWORD", "admin"),

		// 5. Rate Limiting
		RateLimitMaxRequests: getInt(v, "RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitPeriod:      getDuration(v, "RATE_LIMIT_PERIOD_MIN", 1) * time.Minute,

		MetricsEnabled: getBool(v, "METRICS_ENABLED", true),
	}

	// mustGetString garante que a aplicação não inicie sem credenciais de DB
	if cfg.StoreDriver == StoreDriverPostgres {
		cfg.DatabaseURL = mustGetString(v, "DATABASE_URL")
	} else {
		cfg.DatabaseURL = getString(v, "DATABASE_URL", "")
	}

	return cfg
}

// Funções Helpers (Auxiliares)

func getString(v *viper.Viper, key, defaultValue string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return defaultValue
}

// mustGetString lê a chave, fatal se não estiver presente.
func mustGetString(v *viper.Viper, key string) string {
	if v.IsSet(key) && v.GetString(key) != "" {
		return v.GetString(key)
	}
	log.Fatalf("❌ Erro de Configuração: A variável de ambiente %s deve ser definida.", key)
	return ""
}

func getInt(v *viper.Viper, key string, defaultValue int) int {
	if !v.IsSet(key) {
		return defaultValue
	}
	valueStr := v.GetString(key)
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é um número inteiro válido. Usando padrão (%d).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

func getDuration(v *viper.Viper, key string, defaultValue int) time.Duration {
	return time.Duration(getInt(v, key, defaultValue))
}

func getBool(v *viper.Viper, key string, defaultValue bool) bool {
	if !v.IsSet(key) {
		return defaultValue
	}
	value, err := strconv.ParseBool(v.GetString(key))
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é booleano. Usando padrão (%t).", key, v.GetString(key), defaultValue)
		return defaultValue
	}
	return value
}
