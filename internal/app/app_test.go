package app_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-storefront/internal/app"
	"go-storefront/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func TestBuildApp_WithoutInfrastructure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	cfg := config.Config{
		CatalogBaseURL: "http://127.0.0.1:1",
		CatalogCityID:  "city",
		CatalogKeyword: "rice",
		CatalogTimeout: time.Second,
	}

	a, err := app.BuildApp(context.Background(), r, cfg, zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	cartID := uuid.NewString()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/carts/items", nil)
	req.Header.Set("X-Cart-ID", cartID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/carts", nil)
	req.Header.Set("X-Cart-ID", cartID)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var g errgroup.Group
	a.StartBackground(ctx, &g)
	assert.NoError(t, g.Wait(), "nothing runs in the background without kafka")
}
