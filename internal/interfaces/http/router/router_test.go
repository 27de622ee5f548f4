package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "/api/v1", r.BasePath())

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "/api/v2", r.BasePath())
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	receipts := NewDomainGroup("receipts", "/receipts")
	receipts.GET("/:id/balance", func(c *gin.Context) {
		c.String(http.StatusOK, "balance "+c.Param("id"))
	})
	debts := NewDomainGroup("debts", "/debts")
	debts.POST("", func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	r := NewRouter(engine)
	r.Register(receipts, debts).Setup()

	w := serve(engine, http.MethodGet, "/api/v1/receipts/12/balance")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "balance 12", w.Body.String())

	assert.Equal(t, http.StatusCreated, serve(engine, http.MethodPost, "/api/v1/debts").Code)
	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/receipts/12/balance").Code)
}

func TestRouterMiddlewareOnlyWrapsAPI(t *testing.T) {
	engine := gin.New()
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	g := NewDomainGroup("agents", "/agents")
	g.GET("/:id/ledger", func(c *gin.Context) { c.Status(http.StatusOK) })

	NewRouter(engine, WithMiddleware(func(c *gin.Context) {
		c.Header("X-API", "1")
		c.Next()
	})).Register(g).Setup()

	assert.Equal(t, "1", serve(engine, http.MethodGet, "/api/v1/agents/3/ledger").Header().Get("X-API"))
	assert.Empty(t, serve(engine, http.MethodGet, "/health").Header().Get("X-API"))
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("installments", "/installments")
		assert.Equal(t, "installments", g.Name())
		assert.Equal(t, "/installments", g.Prefix())
	})

	t.Run("registers every method", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("payments", "/installment-payments")
		ok := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }
		g.GET("/:id", ok).POST("", ok).PUT("/:id", ok).DELETE("/:id", ok)
		g.RegisterRoutes(engine.Group("/api/v1"))

		tests := []struct {
			method string
			path   string
		}{
			{http.MethodGet, "/api/v1/installment-payments/1"},
			{http.MethodPost, "/api/v1/installment-payments"},
			{http.MethodPut, "/api/v1/installment-payments/1"},
			{http.MethodDelete, "/api/v1/installment-payments/1"},
		}
		for _, tt := range tests {
			w := serve(engine, tt.method, tt.path)
			assert.Equal(t, http.StatusOK, w.Code, tt.method)
			assert.Equal(t, tt.method, w.Body.String())
		}
	})

	t.Run("applies group middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("reports", "/reports")
		g.Use(func(c *gin.Context) {
			c.Header("X-Group", "reports")
			c.Next()
		})
		g.GET("/financial", func(c *gin.Context) { c.Status(http.StatusOK) })
		g.RegisterRoutes(engine.Group("/api/v1"))

		assert.Equal(t, "reports", serve(engine, http.MethodGet, "/api/v1/reports/financial").Header().Get("X-Group"))
	})

	t.Run("nests subgroups", func(t *testing.T) {
		engine := gin.New()
		products := NewDomainGroup("products", "/products")
		snapshots := products.Group("snapshots", "/:id/price-snapshots")
		snapshots.POST("/:version/revert", func(c *gin.Context) {
			c.String(http.StatusOK, c.Param("id")+"@"+c.Param("version"))
		})
		products.RegisterRoutes(engine.Group("/api/v1"))

		w := serve(engine, http.MethodPost, "/api/v1/products/5/price-snapshots/2/revert")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "5@2", w.Body.String())
	})
}

func TestRouterRoutes(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("debts", "/debts")
	g.POST("/:id/payments", func(c *gin.Context) {})
	g.GET("/:id", func(c *gin.Context) {})
	r := NewRouter(engine).Register(g)
	r.Setup()

	routes := r.Routes()
	require.Len(t, routes, 2)
	assert.Equal(t, RouteInfo{Method: http.MethodGet, Path: "/api/v1/debts/:id"}, routes[0])
	assert.Equal(t, RouteInfo{Method: http.MethodPost, Path: "/api/v1/debts/:id/payments"}, routes[1])
}
