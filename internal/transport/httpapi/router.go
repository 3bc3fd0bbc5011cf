package httpapi

import (
	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"

	"github.com/expirians/storefront/internal/service/catalog"
	"github.com/expirians/storefront/internal/service/fulfillment"
)

// API связывает HTTP-маршруты с сервисами витрины.
type API struct {
	engine   *fulfillment.Engine
	catalog  *catalog.Service
	validate *validatorv10.Validate
	logger   *log.Entry
}

// NewAPI создаёт HTTP API поверх движка оформления и каталога.
func NewAPI(engine *fulfillment.Engine, catalogSvc *catalog.Service, logger *log.Entry) *API {
	if logger == nil {
		logger = log.WithField("component", "http-api")
	}
	return &API{
		engine:   engine,
		catalog:  catalogSvc,
		validate: validatorv10.New(),
		logger:   logger,
	}
}

// Register добавляет маршруты API в gin-роутер.
func (a *API) Register(r *gin.Engine) {
	v1 := r.Group("/api/v1")

	orders := v1.Group("/orders")
	orders.POST("", a.createOrder)
	orders.GET("", a.listOrders)
	orders.GET("/:id", a.getOrder)
	orders.PUT("/:id/status", a.updateOrderStatus)

	products := v1.Group("/products")
	products.POST("", a.createProduct)
	products.GET("", a.listProducts)
	products.GET("/:id", a.getProduct)
	products.PUT("/:id", a.updateProduct)
	products.PATCH("/:id", a.deactivateProduct)

	customers := v1.Group("/customers")
	customers.POST("", a.createCustomer)
	customers.GET("/:id", a.getCustomer)
}

// NewRouter собирает gin-роутер c зарегистрированным API.
func NewRouter(api *API) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	api.Register(r)
	return r
}
