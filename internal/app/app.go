// internal/app/app.go
package app

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"douyin-comments/internal/client"
	"douyin-comments/internal/config"
	handler "douyin-comments/internal/handler/http"
	"douyin-comments/internal/logger"
	"douyin-comments/internal/parser"
	"douyin-comments/internal/resolver"
	"douyin-comments/internal/router"
	"douyin-comments/internal/scraper"
	"douyin-comments/internal/signing"
)

type App struct {
	Config  *config.Config
	Echo    *echo.Echo
	Service scraper.ScraperService
	Client  *client.DouyinClient
	Parser  *parser.DouyinParser
	Logger  *zerolog.Logger
}

// Components holds the retrieval stack shared by the server and the CLI
type Components struct {
	Client   *client.DouyinClient
	Parser   *parser.DouyinParser
	Resolver *resolver.Resolver
	Service  scraper.ScraperService
}

// NewSigner returns an HTTPSigner for cfg.SignerURL, or a signer that always fails
func NewSigner(cfg *config.Config, log *zerolog.Logger) (signing.Signer, error) {
	if cfg.SignerURL == "" {
		log.Warn().Msg("SIGNER_URL not set, comment pages will fail with a signature error")
		return signing.Unavailable(), nil
	}
	s, err := signing.NewHTTPSigner(cfg.SignerURL, nil)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Build wires signer, client, parser, resolver and scraper from cfg.
// pacer overrides the configured page delay when not nil.
func Build(cfg *config.Config, pacer scraper.Pacer, log *zerolog.Logger) (*Components, error) {
	signer, err := NewSigner(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create signer: %w", err)
	}

	douyinClient, err := client.NewDouyinClient(cfg, signer, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create Douyin client: %w", err)
	}

	if pacer == nil {
		pacer = scraper.NewJitterPacer(cfg.PageDelayMin, cfg.PageDelayMax)
	}

	douyinParser := parser.NewDouyinParser(time.Local)
	idResolver := resolver.NewResolver(douyinClient, cfg.ShortLinkHosts, log)

	return &Components{
		Client:   douyinClient,
		Parser:   douyinParser,
		Resolver: idResolver,
		Service:  scraper.NewScraperService(douyinClient, douyinParser, idResolver, pacer, log),
	}, nil
}

func Initialize() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Init(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Component: "server"})
	log := logger.Get()

	comps, err := Build(cfg, nil, log)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()
	e.Server.ReadTimeout = cfg.ReadTimeout
	e.Server.WriteTimeout = cfg.WriteTimeout

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(requestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	router.NewRouter(e, comps.Service, router.Options{
		DefaultCredential: cfg.Cookie,
		Logger:            log,
	})

	return &App{
		Config:  cfg,
		Echo:    e,
		Service: comps.Service,
		Client:  comps.Client,
		Parser:  comps.Parser,
		Logger:  log,
	}, nil
}

func requestLogger(log *zerolog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("path", v.URIPath).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

func (a *App) Start() error {
	port := a.Config.ServerPort
	if port == "" {
		port = "8080"
	}
	return a.Echo.Start(":" + port)
}
