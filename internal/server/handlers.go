package server

import (
	"encoding/json"
	"net/http"

	"github.com/rowform/rowform/internal/server/response"
	"github.com/rowform/rowform/pkg/catalogs"
	"github.com/rowform/rowform/pkg/pipeline"
	"github.com/rowform/rowform/pkg/products"
	"github.com/rowform/rowform/pkg/schema"
	"github.com/rowform/rowform/pkg/templates"
)

// normalizeRequest is the payload for POST /v1/normalize.
type normalizeRequest struct {
	Profile *schema.Profile       `json:"profile"`
	Items   []products.RawProduct `json:"items"`
}

// normalizeResponse mirrors pipeline.Result with item error messages
// attached.
type normalizeResponse struct {
	BatchID    string                       `json:"batch_id,omitempty"`
	Products   []products.NormalizedProduct `json:"products"`
	Statistics pipeline.Statistics          `json:"statistics"`
	Errors     []string                     `json:"errors,omitempty"`
}

// reconcileRequest is the payload for POST /v1/reconcile.
type reconcileRequest struct {
	Value     string             `json:"value"`
	Namespace catalogs.Namespace `json:"namespace"`
}

// renderRequest is the payload for POST /v1/template/render.
type renderRequest struct {
	Template string                        `json:"template"`
	Values   map[string]string             `json:"values,omitempty"`
	Sequence int                           `json:"sequence,omitempty"`
	Mappings map[string]catalogs.Namespace `json:"mappings,omitempty"`
}

// renderResponse carries the rendered template text.
type renderResponse struct {
	Rendered string `json:"rendered"`
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]string{"status": "ok"})
}

// handleNormalize runs a batch through the engine.
func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	var req normalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err.Error())
		return
	}
	if req.Profile == nil {
		response.BadRequest(w, "Profile is required", "")
		return
	}
	if len(req.Items) == 0 {
		response.BadRequest(w, "At least one item is required", "")
		return
	}

	result, err := s.engine.Normalize(r.Context(), req.Profile, req.Items)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	resp := normalizeResponse{
		BatchID:    result.BatchID,
		Products:   result.Products,
		Statistics: result.Statistics,
	}
	for _, itemErr := range result.Errors {
		resp.Errors = append(resp.Errors, itemErr.Error())
	}
	response.OK(w, resp)
}

// handleReconcile matches one value against a catalog namespace.
func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	var req reconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err.Error())
		return
	}
	if req.Value == "" {
		response.BadRequest(w, "Value is required", "")
		return
	}
	if req.Namespace == "" {
		response.BadRequest(w, "Namespace is required", "")
		return
	}

	response.OK(w, s.engine.Reconcile(r.Context(), req.Value, req.Namespace))
}

// handleRenderTemplate evaluates template text against a caller-built
// context.
func (s *Server) handleRenderTemplate(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err.Error())
		return
	}
	if req.Template == "" {
		response.BadRequest(w, "Template is required", "")
		return
	}

	tc := &templates.Context{
		Values:   req.Values,
		Sequence: req.Sequence,
		Mappings: req.Mappings,
	}
	response.OK(w, renderResponse{Rendered: s.engine.EvaluateTemplate(r.Context(), req.Template, tc)})
}
