package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/heliospay/tuition-api/endpoints"
	"github.com/heliospay/tuition-api/endpoints/payments"
	"github.com/heliospay/tuition-api/kernel"
	"github.com/heliospay/tuition-api/middleware"
	"github.com/heliospay/tuition-api/payment"
	"github.com/heliospay/tuition-api/wallet"
)

func main() {
	art := kernel.LoadConfig()
	art.Context = context.Background()

	if art.DeploymentEnvironment == "production" {
		log.Printf(" === RUNNING IN PRODUCTION MODE ===")
		gin.SetMode(gin.ReleaseMode)
	} else {
		zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	cleanupFunc, err := art.SetupOtel()
	if err != nil {
		log.Fatal(err)
	}
	defer cleanupFunc()

	span, _ := art.Diagnostic.BeginTracing(art.Context, "main")
	defer span.End()

	err = art.PrepareDatabase()
	if err != nil {
		span.RecordError(err)
		log.Fatal(err)
	}

	provider, err := buildProvider(art)
	if err != nil {
		span.RecordError(err)
		log.Fatal(err)
	}
	art.Gateway = wallet.NewGateway(provider, art.Chain)
	defer art.Gateway.Close()
	if _, err := art.Gateway.Resume(art.Context); err != nil {
		log.Printf("could not resume wallet session: %v", err)
	}
	art.Workflow = payment.NewWorkflow(art.Gateway, art.Catalog, art.DatabaseClient)

	r := gin.Default()
	err = r.SetTrustedProxies([]string{})
	if err != nil {
		span.RecordError(err)
		log.Fatal(err)
	}

	if art.DeploymentEnvironment == "production" {
		r.Use(gin.Logger())
		r.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "a panic occurred, request aborted",
			})
		}))
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"https://pay.helioschainlabs.org"},
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "X-Api-Key"},
			ExposeHeaders:    []string{"Content-Length", "Access-Control-Allow-Origin", "Access-Control-Allow-Headers", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           7 * time.Hour * 24,
			AllowAllOrigins:  false,
		}))
	}

	r.Use(otelgin.Middleware(art.ServiceName))
	r.Use(middleware.TracerMiddleware(art))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, &gin.Error{
			Err: errors.New("route not found"),
		})
	})

	r.POST("/wallet/connect", endpoints.ConnectWallet)

	authorized := r.Group("/")
	authorized.Use(middleware.TokenMiddleware())
	{
		authorized.GET("/wallet", endpoints.WalletState)
		authorized.POST("/wallet/refresh", endpoints.RefreshBalance)
		authorized.GET("/institutions", endpoints.Institutions)

		payments.RegisterController(authorized)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	err = r.Run(art.Host)
	if err != nil {
		span.RecordError(err)
		log.Fatal(err)
	}
}

func buildProvider(art *kernel.AppRuntime) (wallet.Provider, error) {
	switch art.WalletProviderKind {
	case "rpc":
		return wallet.NewRPCProvider(art.Chain, art.WalletPrivateKey)
	case "memory":
		// Local development: one funded simulator account.
		return wallet.NewMemoryProvider(art.Chain.ChainID, wallet.RandomAddress()), nil
	default:
		return nil, errors.New("unknown WALLET_PROVIDER, options: memory, rpc")
	}
}
