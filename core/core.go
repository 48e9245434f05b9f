// Package core has core logic for evaluation, sessions and sharing.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/huangsam/destiny/internal/contract"
	"github.com/huangsam/destiny/internal/datatable"
	"github.com/huangsam/destiny/internal/logger"
	"github.com/huangsam/destiny/internal/outwriter"
	"github.com/huangsam/destiny/schema"
)

// ErrUnknownSign is returned when a selector query matches no sign.
var ErrUnknownSign = errors.New("unknown sign")

// writer renders every command result.
var writer = outwriter.NewOutWriter()

// ExecutorFunc defines the function signature for executing a session-bound command.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// ExecuteMatch selects the signs given in cfg, evaluates the session and prints the result.
// It serves as the main entry point for the 'match' command.
func ExecuteMatch(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	table, err := datatable.Resolve(cfg.DataFile)
	if err != nil {
		return err
	}

	store := mgr.GetSessionStore()
	session := loadSession(store, cfg.SessionName, cfg.SessionTTL)
	if err := applySelection(session, table, SlotA, cfg.SignA); err != nil {
		return err
	}
	if err := applySelection(session, table, SlotB, cfg.SignB); err != nil {
		return err
	}

	ev := NewEvaluator(table, evaluatorOptions(ctx, cfg)...)
	result, err := session.Evaluate(ev)
	if err != nil {
		return err
	}

	if cfg.Output == schema.TextOut && !shouldSkipReveal(ctx) {
		if err := Reveal(ctx, cfg.RevealDelay); err != nil {
			return err
		}
	}

	a, b := resolvePair(table, session)
	session.SetPredictionUUID(RecordPrediction(mgr.GetHistoryStore(), a, b, result, seedForHistory(cfg)))
	if err := saveSession(store, cfg.SessionName, session); err != nil {
		contract.LogWarn("Session was not saved", err)
	}

	return writer.WriteResult(schema.EnrichResult(a, b, result), cfg, time.Since(start))
}

// ExecuteSelect sets one selector of the session and prints the session.
func ExecuteSelect(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, slot Slot, query string) error {
	table, err := datatable.Resolve(cfg.DataFile)
	if err != nil {
		return err
	}

	store := mgr.GetSessionStore()
	session := loadSession(store, cfg.SessionName, cfg.SessionTTL)
	if err := applySelection(session, table, slot, query); err != nil {
		return err
	}
	if err := saveSession(store, cfg.SessionName, session); err != nil {
		return err
	}
	return writer.WriteSession(buildSessionView(cfg.SessionName, table, session), cfg)
}

// ExecuteReset clears both selectors and the displayed result.
func ExecuteReset(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	table, err := datatable.Resolve(cfg.DataFile)
	if err != nil {
		return err
	}

	store := mgr.GetSessionStore()
	session := loadSession(store, cfg.SessionName, cfg.SessionTTL)
	session.Reset()
	if err := saveSession(store, cfg.SessionName, session); err != nil {
		return err
	}
	return writer.WriteSession(buildSessionView(cfg.SessionName, table, session), cfg)
}

// ExecuteSessionShow prints the stored session without changing it.
func ExecuteSessionShow(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	table, err := datatable.Resolve(cfg.DataFile)
	if err != nil {
		return err
	}
	session := loadSession(mgr.GetSessionStore(), cfg.SessionName, cfg.SessionTTL)
	return writer.WriteSession(buildSessionView(cfg.SessionName, table, session), cfg)
}

// ExecuteSessionDrop removes the named session from the store.
func ExecuteSessionDrop(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	return dropSession(mgr.GetSessionStore(), cfg.SessionName)
}

// ExecuteShare shares the displayed result of the session through the configured sink.
// A failed share is reported, not returned.
func ExecuteShare(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	table, err := datatable.Resolve(cfg.DataFile)
	if err != nil {
		return err
	}

	session := loadSession(mgr.GetSessionStore(), cfg.SessionName, cfg.SessionTTL)
	result, ok := session.Result()
	if !ok {
		return ErrNoResult
	}

	sink, err := SelectShareSink(cfg.ShareMode, ShareOptions{Webhook: cfg.ShareWebhook, Out: os.Stdout})
	if err != nil {
		return err
	}

	a, b := resolvePair(table, session)
	text := ComposeShareText(a, b, result, cfg.ShareHeader, cfg.ShareFooter)
	outcome := Share(ctx, sink, NewShareData(text, cfg.ShareURL), logger.L())
	RecordShare(mgr.GetHistoryStore(), session.PredictionUUID(), outcome)

	return writer.WriteShareOutcome(outcome, cfg)
}

// ExecuteSigns lists the selectable signs.
func ExecuteSigns(_ context.Context, cfg *contract.Config) error {
	table, err := datatable.Resolve(cfg.DataFile)
	if err != nil {
		return err
	}
	return writer.WriteSigns(table.Signs(), cfg)
}

// ExecuteTiers lists the score tiers.
func ExecuteTiers(_ context.Context, cfg *contract.Config) error {
	table, err := datatable.Resolve(cfg.DataFile)
	if err != nil {
		return err
	}
	return writer.WriteTiers(schema.EnrichTiers(table.Tiers()), cfg)
}

// evaluatorOptions derives evaluator options from the config and context.
func evaluatorOptions(ctx context.Context, cfg *contract.Config) []EvaluatorOption {
	var opts []EvaluatorOption
	if cfg.HasSeed {
		opts = append(opts, WithSeed(cfg.Seed))
	}
	if o := observerFromContext(ctx); o != nil {
		opts = append(opts, WithObserver(o))
	}
	return opts
}

// ResolveSign finds a sign by id, name or icon.
func ResolveSign(table *schema.DataTable, query string) (schema.ZodiacSign, error) {
	sign, ok := table.FindSign(query)
	if !ok {
		return schema.ZodiacSign{}, fmt.Errorf("%w %q", ErrUnknownSign, query)
	}
	return sign, nil
}

// EvaluatePair resolves two sign queries and evaluates them outside of any session.
// Both queries are required.
func EvaluatePair(ev *Evaluator, queryA, queryB string) (schema.EnrichedResult, error) {
	if strings.TrimSpace(queryA) == "" || strings.TrimSpace(queryB) == "" {
		return schema.EnrichedResult{}, ErrMissingSelection
	}
	a, err := ResolveSign(ev.Table(), queryA)
	if err != nil {
		return schema.EnrichedResult{}, err
	}
	b, err := ResolveSign(ev.Table(), queryB)
	if err != nil {
		return schema.EnrichedResult{}, err
	}
	return schema.EnrichResult(a, b, ev.Evaluate(a.ID, b.ID)), nil
}

// applySelection selects the sign matching query into slot. An empty query keeps the slot as is.
func applySelection(s *Session, table *schema.DataTable, slot Slot, query string) error {
	if query == "" {
		return nil
	}
	sign, err := ResolveSign(table, query)
	if err != nil {
		return err
	}
	s.Select(slot, sign.ID)
	return nil
}

// signOrPlaceholder resolves a stored id, keeping ids the current table no longer knows.
func signOrPlaceholder(table *schema.DataTable, id int) schema.ZodiacSign {
	if sign, ok := table.Sign(id); ok {
		return sign
	}
	return schema.ZodiacSign{ID: id, Name: fmt.Sprintf("#%d", id)}
}

// resolvePair returns both selected signs of a ready session.
func resolvePair(table *schema.DataTable, s *Session) (schema.ZodiacSign, schema.ZodiacSign) {
	a, _ := s.Selection(SlotA)
	b, _ := s.Selection(SlotB)
	return signOrPlaceholder(table, a), signOrPlaceholder(table, b)
}

// buildSessionView resolves the selections of a session for display.
func buildSessionView(name string, table *schema.DataTable, s *Session) schema.SessionView {
	view := schema.SessionView{
		SessionName: name,
		SessionID:   s.ID(),
		Ready:       s.Ready(),
		UpdatedAt:   s.updatedAt,
	}
	if id, ok := s.Selection(SlotA); ok {
		sign := signOrPlaceholder(table, id)
		view.SignA = &sign
	}
	if id, ok := s.Selection(SlotB); ok {
		sign := signOrPlaceholder(table, id)
		view.SignB = &sign
	}
	if r, ok := s.Result(); ok && view.SignA != nil && view.SignB != nil {
		enriched := schema.EnrichResult(*view.SignA, *view.SignB, r)
		view.Result = &enriched
	}
	return view
}
