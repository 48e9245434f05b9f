package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/huangsam/destiny/core"
	"github.com/huangsam/destiny/schema"
)

type apiHandler struct {
	server *Server
}

// signQuery accepts a sign as a JSON number (id) or string (id, name or icon).
type signQuery string

// UnmarshalJSON implements json.Unmarshaler. A null sign stays empty.
func (q *signQuery) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var id int
	if err := json.Unmarshal(data, &id); err == nil {
		*q = signQuery(strconv.Itoa(id))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("sign must be an id or a name")
	}
	*q = signQuery(s)
	return nil
}

type pairRequest struct {
	SignA signQuery `json:"sign_a" binding:"required"`
	SignB signQuery `json:"sign_b" binding:"required"`
}

type shareTextResponse struct {
	Text   string                `json:"text"`
	Result schema.EnrichedResult `json:"result"`
}

func (h *apiHandler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *apiHandler) handleSigns(c *gin.Context) {
	c.JSON(http.StatusOK, h.server.ev.Table().Signs())
}

func (h *apiHandler) handleTiers(c *gin.Context) {
	c.JSON(http.StatusOK, schema.EnrichTiers(h.server.ev.Table().Tiers()))
}

func (h *apiHandler) handleEvaluate(c *gin.Context) {
	result, ok := h.evaluate(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *apiHandler) handleShareText(c *gin.Context) {
	result, ok := h.evaluate(c)
	if !ok {
		return
	}
	cfg := h.server.cfg
	c.JSON(http.StatusOK, shareTextResponse{
		Text:   core.ComposeShareText(result.SignA, result.SignB, result.PredictionResult, cfg.ShareHeader, cfg.ShareFooter),
		Result: result,
	})
}

// evaluate binds the pair, evaluates it and records the prediction.
// It writes the error response itself and reports whether the caller should continue.
func (h *apiHandler) evaluate(c *gin.Context) (schema.EnrichedResult, bool) {
	var req pairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return schema.EnrichedResult{}, false
	}

	result, err := core.EvaluatePair(h.server.ev, string(req.SignA), string(req.SignB))
	switch {
	case errors.Is(err, core.ErrMissingSelection), errors.Is(err, core.ErrUnknownSign):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return schema.EnrichedResult{}, false
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return schema.EnrichedResult{}, false
	}

	if h.server.mgr != nil {
		core.RecordPrediction(h.server.mgr.GetHistoryStore(), result.SignA, result.SignB, result.PredictionResult, nil)
	}
	return result, true
}
