package httpserver

import (
	"context"
	"errors"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"coffeeshop-pos/internal/domain"
	catalogsvc "coffeeshop-pos/internal/service/catalog"
	historysvc "coffeeshop-pos/internal/service/history"
	registersvc "coffeeshop-pos/internal/service/register"
)

// CatalogService is the slice of the catalog the HTTP layer serves.
type CatalogService interface {
	List(ctx context.Context, category string) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Categories(ctx context.Context) []catalogsvc.CategoryInfo
}

// RegisterService mutates per-terminal live orders.
type RegisterService interface {
	AddItem(ctx context.Context, terminal string, in registersvc.AddItemInput) (*domain.Order, error)
	SetQuantity(ctx context.Context, terminal string, line, quantity int) (*domain.Order, error)
	RemoveLine(ctx context.Context, terminal string, line int) (*domain.Order, error)
	Clear(ctx context.Context, terminal string) (*domain.Order, error)
	Order(ctx context.Context, terminal string) *domain.Order
	Checkout(ctx context.Context, terminal string, in registersvc.CheckoutInput) (*domain.OrderSnapshot, error)
}

// HistoryService reads finalized orders.
type HistoryService interface {
	List(ctx context.Context, in historysvc.ListInput) ([]domain.OrderSummary, error)
	Get(ctx context.Context, id string) (*domain.OrderSnapshot, error)
	DailySales(ctx context.Context, day string) (*domain.SalesSummary, error)
}

// Deps carries the services the router exposes.
type Deps struct {
	Catalog  CatalogService
	Register RegisterService
	History  HistoryService
	// Ready pings the storage backend for /readyz.
	Ready func(ctx context.Context) error
	// AllowedOrigins restricts CORS for the register UI; empty allows
	// any origin on the shop LAN.
	AllowedOrigins []string
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Entry, deps Deps) (*gin.Engine, error) {
	if deps.Catalog == nil || deps.Register == nil || deps.History == nil {
		return nil, errors.New("httpserver: missing service dependencies")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(corsMiddleware(deps.AllowedOrigins))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Ready))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/categories", listCategoriesHandler(deps.Catalog))
	router.GET("/products", listProductsHandler(deps.Catalog))
	router.GET("/products/:productID", getProductHandler(deps.Catalog))

	reg := router.Group("/registers/:terminalID")
	reg.GET("/order", orderViewHandler(deps.Register))
	reg.DELETE("/order", clearOrderHandler(deps.Register))
	reg.POST("/order/lines", addLineHandler(deps.Register))
	reg.PATCH("/order/lines/:line", setQuantityHandler(deps.Register))
	reg.DELETE("/order/lines/:line", removeLineHandler(deps.Register))
	reg.POST("/checkout", checkoutHandler(deps.Register))

	router.GET("/orders", listOrdersHandler(deps.History))
	router.GET("/orders/:orderID", getOrderHandler(deps.History))
	router.GET("/reports/daily", dailySalesHandler(deps.History))

	return router, nil
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
