package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/huangsam/destiny/core"
	"github.com/huangsam/destiny/internal/contract"
	"github.com/huangsam/destiny/internal/datatable"
	"github.com/huangsam/destiny/internal/metrics"
	"github.com/huangsam/destiny/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager

	once sync.Once
	ev   *core.Evaluator
	err  error
}

// evaluator loads the data table once and shares one evaluator across calls.
func (h *toolHandler) evaluator() (*core.Evaluator, error) {
	h.once.Do(func() {
		table, err := datatable.Resolve(h.baseCfg.DataFile)
		if err != nil {
			h.err = err
			return
		}
		opts := []core.EvaluatorOption{core.WithObserver(metrics.Observer{Source: "mcp"})}
		if h.baseCfg.HasSeed {
			opts = append(opts, core.WithSeed(h.baseCfg.Seed))
		}
		h.ev = core.NewEvaluator(table, opts...)
	})
	return h.ev, h.err
}

// historyStore returns the configured history store, if any.
func (h *toolHandler) historyStore() contract.HistoryStore {
	if h.mgr == nil {
		return nil
	}
	return h.mgr.GetHistoryStore()
}

// signArg reads a sign argument given as a name, icon or id. Agents may send ids as numbers.
func signArg(request mcp.CallToolRequest, key string) string {
	switch v := request.GetArguments()[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// evaluate resolves both sign arguments and records the prediction.
func (h *toolHandler) evaluate(request mcp.CallToolRequest) (schema.EnrichedResult, *mcp.CallToolResult) {
	ev, err := h.evaluator()
	if err != nil {
		return schema.EnrichedResult{}, mcp.NewToolResultError(fmt.Sprintf("data table unavailable: %v", err))
	}
	result, err := core.EvaluatePair(ev, signArg(request, "sign_a"), signArg(request, "sign_b"))
	if err != nil {
		return schema.EnrichedResult{}, mcp.NewToolResultError(fmt.Sprintf("evaluation failed: %v", err))
	}
	core.RecordPrediction(h.historyStore(), result.SignA, result.SignB, result.PredictionResult, nil)
	return result, nil
}

func (h *toolHandler) handleEvaluate(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, toolErr := h.evaluate(request)
	if toolErr != nil {
		return toolErr, nil
	}
	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListSigns(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ev, err := h.evaluator()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("data table unavailable: %v", err)), nil
	}
	jsonData, _ := json.MarshalIndent(ev.Table().Signs(), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListTiers(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ev, err := h.evaluator()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("data table unavailable: %v", err)), nil
	}
	jsonData, _ := json.MarshalIndent(schema.EnrichTiers(ev.Table().Tiers()), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleComposeShareText(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, toolErr := h.evaluate(request)
	if toolErr != nil {
		return toolErr, nil
	}
	text := core.ComposeShareText(result.SignA, result.SignB, result.PredictionResult, h.baseCfg.ShareHeader, h.baseCfg.ShareFooter)
	return mcp.NewToolResultText(text), nil
}
