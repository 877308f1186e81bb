package client

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "github.com/turtacn/hbond-restraints/internal/application/restraints"
	"github.com/turtacn/hbond-restraints/internal/config"
	apihttp "github.com/turtacn/hbond-restraints/internal/interfaces/http"
	"github.com/turtacn/hbond-restraints/internal/testutil"
	"github.com/turtacn/hbond-restraints/pkg/errors"
	"github.com/turtacn/hbond-restraints/pkg/types/common"
	types "github.com/turtacn/hbond-restraints/pkg/types/restraints"
)

// newServerClient runs the real API in-process and returns a client for it.
func newServerClient(t *testing.T) *Client {
	t.Helper()
	cfg := config.NewDefaultConfig()
	cfg.Server.Mode = gin.TestMode
	cfg.Metrics.Enabled = false

	srv := apihttp.NewServer(cfg, apihttp.Deps{
		Service: app.NewService(cfg, nil, nil),
		Version: "test",
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	c, err := NewClient(ts.URL, WithRetryMax(0))
	require.NoError(t, err)
	return c
}

func TestClient_Synthesize(t *testing.T) {
	c := newServerClient(t)

	res, err := c.Synthesize(context.Background(), &types.Request{
		Name:   "fixture",
		PDB:    testutil.HelixSheetPDB,
		Format: types.FormatPyMOL,
	})
	require.NoError(t, err)
	assert.Equal(t, "fixture", res.Name)
	assert.Equal(t, "1HBR", res.IDCode)
	assert.Equal(t, testutil.HelixSheetBonds, res.Summary.Total)
	assert.Equal(t, testutil.HelixSheetOutliers, res.Summary.Excluded)
	assert.Equal(t, 9, strings.Count(res.Restraints, "dist "))
}

func TestClient_Synthesize_Errors(t *testing.T) {
	c := newServerClient(t)

	tests := []struct {
		name   string
		req    *types.Request
		status int
		code   errors.ErrorCode
	}{
		{"missing pdb", &types.Request{}, http.StatusBadRequest, errors.CodeInvalidParam},
		{"multiple models", &types.Request{PDB: testutil.MultiModelPDB}, http.StatusBadRequest, errors.CodeMultipleModels},
		{"unknown format", &types.Request{PDB: testutil.HelixSheetPDB, Format: "cns"}, http.StatusBadRequest, errors.CodeInvalidParam},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Synthesize(context.Background(), tt.req)
			var apiErr *APIError
			require.True(t, stderrors.As(err, &apiErr), "got %v", err)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.code, apiErr.ErrorCode())
			assert.NotEmpty(t, apiErr.RequestID)
		})
	}
}

func TestClient_Content(t *testing.T) {
	c := newServerClient(t)

	got, err := c.Content(context.Background(), &types.Request{PDB: testutil.HelixSheetPDB})
	require.NoError(t, err)
	assert.Equal(t, 20, got.Amides)
	assert.InDelta(t, 0.5, got.Alpha, 1e-9)
	assert.InDelta(t, 0.5, got.Beta, 1e-9)
}

func TestClient_Groups(t *testing.T) {
	c := newServerClient(t)

	got, err := c.Groups(context.Background(), &types.Request{PDB: testutil.HelixSheetPDB})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Helices)
	assert.Contains(t, got.Text, "refinement.secondary_structure.helix {\n")

	got, err = c.Groups(context.Background(), &types.Request{PDB: testutil.HelixSheetPDB, Prefix: "custom"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got.Text, "custom.helix {\n"))
}

func TestClient_HealthAndReady(t *testing.T) {
	c := newServerClient(t)

	h, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, common.HealthUp, h.Status)
	assert.Equal(t, "test", h.Version)

	h, err = c.Ready(context.Background())
	require.NoError(t, err)
	assert.Equal(t, common.HealthUp, h.Status)
	require.Len(t, h.Components, 1)
	assert.Equal(t, "restraints", h.Components[0].Name)
}

func TestClient_ReadyDown(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"down","version":"x","uptime":"1s","components":[{"name":"db","status":"down","message":"gone"}]}`))
	})

	h, err := c.Ready(context.Background())
	require.Error(t, err)
	require.NotNil(t, h)
	assert.Equal(t, common.HealthDown, h.Status)

	var apiErr *APIError
	require.True(t, stderrors.As(err, &apiErr))
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
}

func TestClient_ReadyGarbage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	h, err := c.Ready(context.Background())
	assert.Nil(t, h)
	assert.Error(t, err)
}
