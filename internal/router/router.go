// internal/router/router.go
package router

import (
	nethttp "net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"douyin-comments/internal/handler/http"
	"douyin-comments/internal/scraper"
)

type Options struct {
	DefaultCredential string
	SessionTimeout    time.Duration
	Logger            *zerolog.Logger
}

func NewRouter(e *echo.Echo, svc scraper.ScraperService, opts Options) {
	res := http.NewResolveHandler(svc)
	cred := http.NewCredentialHandler(svc)
	cmt := http.NewCommentHandler(svc, opts.DefaultCredential, opts.SessionTimeout, opts.Logger)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(nethttp.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/resolve", res.Resolve)
	e.POST("/credential/verify", cred.Verify)
	e.GET("/comments", cmt.GetComments)
	e.GET("/comments/analysis", cmt.GetAnalysis)
}
