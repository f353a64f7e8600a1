package handler

import (
	"embed"
	"html/template"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/illenko/location-pay/flow"
	"github.com/illenko/location-pay/observability/metrics"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"money": flow.FormatAmount,
	"initial": func(name string) string {
		r, _ := utf8.DecodeRuneInString(strings.TrimSpace(name))
		if r == utf8.RuneError {
			return "?"
		}
		return strings.ToUpper(string(r))
	},
}

func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

// NewRouter wires the page and API routes. serverMetrics may be nil.
func NewRouter(serviceName string, h *PaymentHandler, serverMetrics *metrics.ServerMetrics) (*gin.Engine, error) {
	tmpl, err := Templates()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	if serverMetrics != nil {
		router.Use(serverMetrics.Middleware())
		router.GET("/metrics", gin.WrapH(serverMetrics.Handler()))
	}
	router.SetHTMLTemplate(tmpl)
	router.RedirectFixedPath = true

	router.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	router.GET("/", h.Index)
	router.GET("/:locationId/pay", h.PayPage)
	router.POST("/:locationId/pay", h.Pay)

	api := router.Group("/api/locations")
	{
		api.GET("/:locationId", h.Location)
		api.POST("/:locationId/payments", h.Payment)
	}

	return router, nil
}
