package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/hbond-restraints/internal/application/restraints"
	"github.com/turtacn/hbond-restraints/internal/infrastructure/monitoring/logging"
	types "github.com/turtacn/hbond-restraints/pkg/types/restraints"
)

// DefaultGroupsPrefix scopes the blocks returned by /groups when the request
// names none.
const DefaultGroupsPrefix = "refinement.secondary_structure"

// RestraintHandler serves restraint synthesis over the restraints service.
type RestraintHandler struct {
	svc    restraints.Service
	logger logging.Logger
}

// NewRestraintHandler creates a new RestraintHandler.
func NewRestraintHandler(svc restraints.Service, logger logging.Logger) *RestraintHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &RestraintHandler{svc: svc, logger: logger}
}

// RegisterRoutes mounts the restraint endpoints on rg.
func (h *RestraintHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/restraints", h.Synthesize)
	rg.POST("/content", h.Content)
	rg.POST("/groups", h.Groups)
}

// request decodes and converts the body shared by every endpoint.
func (h *RestraintHandler) request(c *gin.Context) (*types.Request, *restraints.Request, bool) {
	var in types.Request
	if !bindJSON(c, &in) {
		return nil, nil, false
	}
	req, err := restraints.RequestFromDTO(&in, h.svc.Params())
	if err != nil {
		writeAppError(c, err)
		return nil, nil, false
	}
	return &in, req, true
}

// Synthesize handles POST /api/v1/restraints.  With a format set the
// restraint text is returned alongside the bond table.
func (h *RestraintHandler) Synthesize(c *gin.Context) {
	in, req, ok := h.request(c)
	if !ok {
		return
	}
	if in.Format != "" {
		if err := restraints.CheckFormat(in.Format); err != nil {
			writeAppError(c, err)
			return
		}
	}

	res, err := h.svc.Run(c.Request.Context(), req)
	if err != nil {
		writeAppError(c, err)
		return
	}

	out := res.DTO()
	if in.Format != "" {
		filter := in.Filter == nil || *in.Filter
		if out.Restraints, err = restraints.RenderString(res, in.Format, filter); err != nil {
			writeAppError(c, err)
			return
		}
	}
	writeJSON(c, http.StatusOK, out)
}

// Content handles POST /api/v1/content.
func (h *RestraintHandler) Content(c *gin.Context) {
	_, req, ok := h.request(c)
	if !ok {
		return
	}
	res, err := h.svc.Content(c.Request.Context(), req)
	if err != nil {
		writeAppError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, res.DTO())
}

// Groups handles POST /api/v1/groups.
func (h *RestraintHandler) Groups(c *gin.Context) {
	in, req, ok := h.request(c)
	if !ok {
		return
	}
	loaded, err := h.svc.Load(c.Request.Context(), req)
	if err != nil {
		writeAppError(c, err)
		return
	}
	prefix := in.Prefix
	if prefix == "" {
		prefix = DefaultGroupsPrefix
	}
	writeJSON(c, http.StatusOK, loaded.GroupsDTO(prefix))
}
