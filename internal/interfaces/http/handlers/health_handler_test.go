package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/hbond-restraints/pkg/types/common"
)

func healthRouter(h *HealthHandler) *gin.Engine {
	r := gin.New()
	h.RegisterRoutes(r)
	return r
}

func getHealth(t *testing.T, r http.Handler, path string) (int, common.Health) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	var body common.Health
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHealthHandler_Liveness(t *testing.T) {
	failing := CheckFunc("broken", func(context.Context) error { return fmt.Errorf("down") })
	code, body := getHealth(t, healthRouter(NewHealthHandler("1.2.3", failing)), "/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, common.HealthUp, body.Status)
	assert.Equal(t, "1.2.3", body.Version)
	assert.Empty(t, body.Components)
}

func TestHealthHandler_Readiness(t *testing.T) {
	ok := CheckFunc("restraints", func(context.Context) error { return nil })

	code, body := getHealth(t, healthRouter(NewHealthHandler("v", ok)), "/readyz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, common.HealthUp, body.Status)
	require.Len(t, body.Components, 1)
	assert.Equal(t, "restraints", body.Components[0].Name)

	failing := CheckFunc("settings", func(context.Context) error { return fmt.Errorf("sigma missing") })
	code, body = getHealth(t, healthRouter(NewHealthHandler("v", ok, failing)), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, common.HealthDown, body.Status)
	require.Len(t, body.Components, 2)
	assert.Equal(t, common.HealthUp, body.Components[0].Status)
	assert.Equal(t, common.ComponentHealth{Name: "settings", Status: common.HealthDown, Message: "sigma missing"}, body.Components[1])
}

func TestHealthHandler_NoCheckers(t *testing.T) {
	code, body := getHealth(t, healthRouter(NewHealthHandler("v")), "/readyz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, common.HealthUp, body.Status)
}
