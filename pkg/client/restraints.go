package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/turtacn/hbond-restraints/pkg/types/common"
	types "github.com/turtacn/hbond-restraints/pkg/types/restraints"
)

// Synthesize posts a structure and returns its restraints.  Set
// req.Format to receive rendered text in Result.Restraints.
func (c *Client) Synthesize(ctx context.Context, req *types.Request) (*types.Result, error) {
	var resp common.APIResponse[*types.Result]
	if err := c.do(ctx, http.MethodPost, APIPrefix+"/restraints", req, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Content returns the alpha and beta content of the posted structure.
func (c *Client) Content(ctx context.Context, req *types.Request) (*types.Content, error) {
	var resp common.APIResponse[*types.Content]
	if err := c.do(ctx, http.MethodPost, APIPrefix+"/content", req, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Groups returns the annotation of the posted structure as restraint
// groups, scoped by req.Prefix.
func (c *Client) Groups(ctx context.Context, req *types.Request) (*types.Groups, error) {
	var resp common.APIResponse[*types.Groups]
	if err := c.do(ctx, http.MethodPost, APIPrefix+"/groups", req, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Health checks liveness.
func (c *Client) Health(ctx context.Context) (*common.Health, error) {
	var h common.Health
	if err := c.do(ctx, http.MethodGet, "/healthz", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Ready checks readiness once, without retries.  A failing component
// yields both the health report and an *APIError.
func (c *Client) Ready(ctx context.Context) (*common.Health, error) {
	resp, err := c.send(ctx, http.MethodGet, "/readyz", nil)
	if err != nil {
		return nil, err
	}

	var h common.Health
	if err := json.Unmarshal(resp.body, &h); err != nil || h.Status == "" {
		if resp.status >= 400 {
			return nil, decodeError(resp)
		}
		return nil, fmt.Errorf("unexpected readiness body: %q", resp.body)
	}
	if resp.status != http.StatusOK {
		return &h, &APIError{
			StatusCode: resp.status,
			Message:    "service not ready",
			RequestID:  resp.requestID,
		}
	}
	return &h, nil
}
