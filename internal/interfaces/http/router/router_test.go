package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRouter_Setup(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	pings := NewDomainGroup("/system")
	pings.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	NewRouter(engine).Register(pings).Setup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/system/ping", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestRouter_APIVersion(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	pings := NewDomainGroup("/system")
	pings.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	NewRouter(engine, WithAPIVersion("v2")).Register(pings).Setup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v2/system/ping", nil)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/api/v1/system/ping", nil)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDomainGroup_MiddlewareOrder(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	var order []string
	mark := func(name string) gin.HandlerFunc {
		return func(c *gin.Context) {
			order = append(order, name)
			c.Next()
		}
	}

	group := NewDomainGroup("/things").Use(mark("group"))
	group.GET("/one", mark("route"), func(c *gin.Context) {
		order = append(order, "handler")
		c.Status(http.StatusOK)
	})

	NewRouter(engine).Register(group).Setup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/things/one", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"group", "route", "handler"}, order)
}
