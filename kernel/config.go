package kernel

import (
	"context"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"

	"github.com/heliospay/tuition-api/catalog"
	"github.com/heliospay/tuition-api/payment"
	"github.com/heliospay/tuition-api/wallet"
)

var (
	once       sync.Once
	appRuntime *AppRuntime
)

type AppRuntime struct {
	Host string

	ServiceName           string
	ServiceVersion        string
	DeploymentEnvironment string

	DatabaseDSN    string
	DatabaseClient *gorm.DB

	JaegerEndpoint string
	Insecure       bool

	// Expected test network identity, fixed RPC endpoint and explorer base.
	Chain     wallet.ChainParams
	FaucetURL string

	WalletProviderKind string // memory | rpc
	WalletPrivateKey   string

	SessionTTL time.Duration

	Diagnostic *AppDiagnostic

	Context context.Context

	Catalog  *catalog.Catalog
	Gateway  *wallet.Gateway
	Workflow *payment.Workflow
}

func LoadConfig() *AppRuntime {
	once.Do(func() {
		appEnv := os.Getenv("API_ENV")
		if appEnv == "" {
			appEnv = "development"
		}

		env, err := godotenv.Read(".env." + appEnv)
		if err != nil {
			log.Printf("no .env.%s file found, falling back to process environment", appEnv)
			env = map[string]string{}
		}

		get := func(key, fallback string) string {
			if v, ok := env[key]; ok && v != "" {
				return v
			}
			if v := os.Getenv(key); v != "" {
				return v
			}
			return fallback
		}

		decimals, err := strconv.Atoi(get("CHAIN_CURRENCY_DECIMALS", "18"))
		if err != nil {
			decimals = 18
		}
		sessionTTL, err := time.ParseDuration(get("SESSION_TTL", "336h")) // 2 weeks
		if err != nil {
			sessionTTL = 336 * time.Hour
		}

		serviceName := get("SERVICE_NAME", "tuition-api")

		appRuntime = &AppRuntime{
			Host:        get("HOST", ":8080"),
			DatabaseDSN: get("DATABASE_DSN", ""),

			ServiceName:           serviceName,
			ServiceVersion:        get("SERVICE_VERSION", "dev"),
			DeploymentEnvironment: get("DEPLOY_ENV", appEnv),

			JaegerEndpoint: get("JAEGER_ENDPOINT", "localhost:4318"),
			Insecure:       get("INSECURE", "true") == "true",

			Chain: wallet.ChainParams{
				ChainID:   get("CHAIN_ID", "0xa410"), // 42000
				ChainName: get("CHAIN_NAME", "Helios Testnet"),
				Currency: wallet.ChainCurrency{
					Name:     get("CHAIN_CURRENCY_NAME", "tHELIOS"),
					Symbol:   get("CHAIN_CURRENCY_SYMBOL", "tHELIOS"),
					Decimals: decimals,
				},
				RPCURLs:           []string{get("CHAIN_RPC_URL", "https://testnet1.helioschainlabs.org")},
				BlockExplorerURLs: []string{get("CHAIN_EXPLORER_URL", "https://explorer.helioschainlabs.org")},
			},
			FaucetURL: get("FAUCET_URL", "https://faucet.helioschainlabs.org"),

			WalletProviderKind: get("WALLET_PROVIDER", "memory"),
			WalletPrivateKey:   get("WALLET_PRIVATE_KEY", ""),

			SessionTTL: sessionTTL,

			Diagnostic: &AppDiagnostic{
				Tracer: otel.Tracer(serviceName + "-tracer"),
				Meter:  otel.Meter(serviceName + "-meter"),
			},

			Catalog: catalog.Default(),
		}
	})
	return appRuntime
}
