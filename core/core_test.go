package core

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/destiny/internal/contract"
	"github.com/huangsam/destiny/internal/iocache"
	"github.com/huangsam/destiny/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestManager wires in-memory SQLite stores behind a mock manager.
func newTestManager(t *testing.T) (*iocache.MockCacheManager, contract.CacheStore, contract.HistoryStore) {
	t.Helper()
	sessions, err := iocache.NewCacheStore("destiny_sessions", schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	history, err := iocache.NewHistoryStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sessions.Close()
		_ = history.Close()
	})

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetSessionStore").Return(sessions)
	mgr.On("GetHistoryStore").Return(history)
	return mgr, sessions, history
}

// newTestConfig returns a JSON config writing into a temp file.
func newTestConfig(t *testing.T) *contract.Config {
	t.Helper()
	return &contract.Config{
		Output:      schema.JSONOut,
		OutputFile:  filepath.Join(t.TempDir(), "out.json"),
		Seed:        1,
		HasSeed:     true,
		RevealDelay: time.Minute,
		ShareMode:   schema.ManualShare,
		ShareHeader: contract.DefaultShareHeader,
		ShareFooter: contract.DefaultShareFooter,
		SessionName: "test",
		SessionTTL:  time.Hour,
	}
}

func readJSON[T any](t *testing.T, path string) T {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var v T
	require.NoError(t, json.Unmarshal(data, &v))
	return v
}

func TestExecuteMatch(t *testing.T) {
	mgr, _, history := newTestManager(t)
	cfg := newTestConfig(t)
	cfg.SignA, cfg.SignB = "aries", "♌"

	obs := &recordingObserver{}
	ctx := ContextWithObserver(context.Background(), obs)
	require.NoError(t, ExecuteMatch(ctx, cfg, mgr))

	got := readJSON[schema.EnrichedResult](t, cfg.OutputFile)
	assert.Equal(t, "Aries", got.SignA.Name)
	assert.Equal(t, "Leo", got.SignB.Name)
	assert.Equal(t, 29, got.TotalScore)
	assert.Equal(t, 83, got.Percentage)
	assert.Equal(t, "High", got.Label)
	assert.True(t, got.IsHighScore)
	assert.Len(t, obs.evaluations, 1)

	records, err := history.GetAllPredictions()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Leo", records[0].SignBName)
	require.NotNil(t, records[0].Seed)
	assert.Equal(t, int64(1), *records[0].Seed)

	// The session remembers the selection and the result
	require.NoError(t, ExecuteSessionShow(ctx, cfg, mgr))
	view := readJSON[schema.SessionView](t, cfg.OutputFile)
	assert.True(t, view.Ready)
	require.NotNil(t, view.Result)
	assert.Equal(t, 29, view.Result.TotalScore)
	assert.Equal(t, "test", view.SessionName)
}

func TestExecuteMatchReusesStoredSelection(t *testing.T) {
	mgr, _, _ := newTestManager(t)
	cfg := newTestConfig(t)
	ctx := context.Background()

	require.NoError(t, ExecuteSelect(ctx, cfg, mgr, SlotA, "Taurus"))
	require.NoError(t, ExecuteSelect(ctx, cfg, mgr, SlotB, "11"))

	require.NoError(t, ExecuteMatch(ctx, cfg, mgr))
	got := readJSON[schema.EnrichedResult](t, cfg.OutputFile)
	assert.Equal(t, 33, got.TotalScore)
	assert.Equal(t, 5, got.Stars)
	assert.Equal(t, "Destined Soulmates", got.ScoreLabel)
}

func TestExecuteMatchErrors(t *testing.T) {
	mgr, _, _ := newTestManager(t)
	ctx := context.Background()

	cfg := newTestConfig(t)
	cfg.SignA = "aries"
	assert.ErrorIs(t, ExecuteMatch(ctx, cfg, mgr), ErrMissingSelection)

	cfg = newTestConfig(t)
	cfg.SignA, cfg.SignB = "aries", "ophiuchus"
	err := ExecuteMatch(ctx, cfg, mgr)
	assert.ErrorIs(t, err, ErrUnknownSign)
	assert.Contains(t, err.Error(), `"ophiuchus"`)

	cfg = newTestConfig(t)
	cfg.DataFile = filepath.Join(t.TempDir(), "missing.yaml")
	assert.Error(t, ExecuteMatch(ctx, cfg, mgr))
}

func TestExecuteMatchText(t *testing.T) {
	mgr, _, _ := newTestManager(t)
	cfg := newTestConfig(t)
	cfg.Output = schema.TextOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "out.txt")
	cfg.SignA, cfg.SignB = "0", "4"

	// The reveal pause would take a minute without the skip flag
	start := time.Now()
	require.NoError(t, ExecuteMatch(WithSkipReveal(context.Background()), cfg, mgr))
	assert.Less(t, time.Since(start), 30*time.Second)

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "Aries")
	assert.Contains(t, out, "Leo")
	assert.Contains(t, out, "29/35")
}

func TestExecuteMatchRevealCancelled(t *testing.T) {
	mgr, _, history := newTestManager(t)
	cfg := newTestConfig(t)
	cfg.Output = schema.TextOut
	cfg.SignA, cfg.SignB = "0", "4"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, ExecuteMatch(ctx, cfg, mgr), context.Canceled)

	records, err := history.GetAllPredictions()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestExecuteSelectAndReset(t *testing.T) {
	mgr, _, _ := newTestManager(t)
	cfg := newTestConfig(t)
	ctx := context.Background()

	require.NoError(t, ExecuteSelect(ctx, cfg, mgr, SlotA, "Gemini"))
	view := readJSON[schema.SessionView](t, cfg.OutputFile)
	require.NotNil(t, view.SignA)
	assert.Equal(t, "Gemini", view.SignA.Name)
	assert.Nil(t, view.SignB)
	assert.False(t, view.Ready)

	assert.ErrorIs(t, ExecuteSelect(ctx, cfg, mgr, SlotB, "nope"), ErrUnknownSign)

	require.NoError(t, ExecuteReset(ctx, cfg, mgr))
	view = readJSON[schema.SessionView](t, cfg.OutputFile)
	assert.Nil(t, view.SignA)
	assert.Nil(t, view.Result)
}

func TestExecuteSessionDrop(t *testing.T) {
	mgr, sessions, _ := newTestManager(t)
	cfg := newTestConfig(t)
	ctx := context.Background()

	require.NoError(t, ExecuteSelect(ctx, cfg, mgr, SlotA, "Gemini"))
	_, _, _, err := sessions.Get(sessionKey(cfg.SessionName))
	require.NoError(t, err)

	require.NoError(t, ExecuteSessionDrop(ctx, cfg, mgr))
	_, _, _, err = sessions.Get(sessionKey(cfg.SessionName))
	assert.Error(t, err)
}

func TestExecuteShare(t *testing.T) {
	mgr, _, history := newTestManager(t)
	cfg := newTestConfig(t)
	ctx := context.Background()

	assert.ErrorIs(t, ExecuteShare(ctx, cfg, mgr), ErrNoResult)

	cfg.SignA, cfg.SignB = "aries", "leo"
	require.NoError(t, ExecuteMatch(ctx, cfg, mgr))

	require.NoError(t, ExecuteShare(ctx, cfg, mgr))
	outcome := readJSON[schema.ShareOutcome](t, cfg.OutputFile)
	assert.Equal(t, schema.ManualStatus, outcome.Status)
	assert.Equal(t, "manual", outcome.Sink)

	predictions, err := history.GetAllPredictions()
	require.NoError(t, err)
	events, err := history.GetAllShareEvents()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, predictions[0].PredictionUUID, events[0].PredictionUUID)
	assert.Equal(t, "manual", events[0].Outcome)
}

func TestExecuteShareNativeWithoutWebhook(t *testing.T) {
	mgr, _, _ := newTestManager(t)
	cfg := newTestConfig(t)
	ctx := context.Background()
	cfg.SignA, cfg.SignB = "aries", "leo"
	require.NoError(t, ExecuteMatch(ctx, cfg, mgr))

	cfg.ShareMode = schema.NativeShare
	assert.ErrorContains(t, ExecuteShare(ctx, cfg, mgr), "webhook")
}

func TestExecuteCatalogs(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Output = schema.CSVOut

	require.NoError(t, ExecuteSigns(context.Background(), cfg))
	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 13)
	assert.Equal(t, "0,Aries,♈", lines[1])

	require.NoError(t, ExecuteTiers(context.Background(), cfg))
	data, err = os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[1], "1,0,10,1,Challenging Match,Low,"))
}

func TestResolveSign(t *testing.T) {
	table := defaultTable(t)

	sign, err := ResolveSign(table, "PISCES")
	require.NoError(t, err)
	assert.Equal(t, 11, sign.ID)

	_, err = ResolveSign(table, "")
	assert.ErrorIs(t, err, ErrUnknownSign)
}

func TestBuildSessionViewUnknownID(t *testing.T) {
	s := NewSession()
	s.Select(SlotA, 42)

	view := buildSessionView("default", defaultTable(t), s)
	require.NotNil(t, view.SignA)
	assert.Equal(t, "#42", view.SignA.Name)
	assert.Nil(t, view.Result)
}

func TestEvaluatePair(t *testing.T) {
	ev := NewEvaluator(defaultTable(t), WithSeed(9))

	got, err := EvaluatePair(ev, "Taurus", "♓")
	require.NoError(t, err)
	assert.Equal(t, 33, got.TotalScore)
	assert.Equal(t, "Pisces", got.SignB.Name)
	assert.True(t, got.IsHighScore)

	_, err = EvaluatePair(ev, "Taurus", " ")
	assert.ErrorIs(t, err, ErrMissingSelection)

	_, err = EvaluatePair(ev, "12", "0")
	assert.ErrorIs(t, err, ErrUnknownSign)
}
