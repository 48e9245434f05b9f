package core

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/huangsam/destiny/internal/contract"
	"github.com/huangsam/destiny/internal/iocache"
	"github.com/huangsam/destiny/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	aries = schema.ZodiacSign{ID: 0, Name: "Aries", Icon: "♈"}
	leo   = schema.ZodiacSign{ID: 4, Name: "Leo", Icon: "♌"}
)

func TestRecordPrediction(t *testing.T) {
	r := NewEvaluator(defaultTable(t), WithSeed(5)).Evaluate(0, 4)
	seed := int64(5)

	var captured schema.PredictionRecord
	store := &iocache.MockHistoryStore{}
	store.On("RecordPrediction", mock.AnythingOfType("schema.PredictionRecord")).
		Run(func(args mock.Arguments) { captured = args.Get(0).(schema.PredictionRecord) }).
		Return(int64(1), nil)

	id := RecordPrediction(store, aries, leo, r, &seed)
	require.NotEmpty(t, id)
	assert.Equal(t, id, captured.PredictionUUID)
	assert.Equal(t, int32(4), captured.SignB)
	assert.Equal(t, "Leo", captured.SignBName)
	assert.Equal(t, int32(29), captured.TotalScore)
	assert.Equal(t, int32(83), captured.Percentage)
	assert.Equal(t, &seed, captured.Seed)
	assert.False(t, captured.CreatedAt.IsZero())

	var categories []schema.CategoryScore
	require.NoError(t, json.Unmarshal([]byte(captured.Categories), &categories))
	assert.Equal(t, r.CategoryScores, categories)
}

func TestRecordPredictionFailureIsSwallowed(t *testing.T) {
	store := &iocache.MockHistoryStore{}
	store.On("RecordPrediction", mock.Anything).Return(int64(0), errors.New("db down"))

	assert.Empty(t, RecordPrediction(store, aries, leo, schema.PredictionResult{}, nil))
	assert.Empty(t, RecordPrediction(nil, aries, leo, schema.PredictionResult{}, nil))
}

func TestRecordShare(t *testing.T) {
	store := &iocache.MockHistoryStore{}
	store.On("RecordShare", mock.MatchedBy(func(rec schema.ShareEventRecord) bool {
		return rec.PredictionUUID == "u-1" && rec.Sink == "webhook" && rec.Outcome == "failed" &&
			rec.Detail != nil && *rec.Detail == "timeout"
	})).Return(int64(1), nil).Once()
	store.On("RecordShare", mock.MatchedBy(func(rec schema.ShareEventRecord) bool {
		return rec.Outcome == "copied" && rec.Detail == nil
	})).Return(int64(0), errors.New("db down")).Once()

	RecordShare(store, "u-1", schema.ShareOutcome{Sink: "webhook", Status: schema.FailedStatus, Detail: "timeout"})
	RecordShare(store, "u-1", schema.ShareOutcome{Sink: "clipboard", Status: schema.CopiedStatus})

	// Nothing to link to
	RecordShare(store, "", schema.ShareOutcome{Sink: "manual", Status: schema.ManualStatus})
	RecordShare(nil, "u-1", schema.ShareOutcome{})

	store.AssertExpectations(t)
}

func TestSeedForHistory(t *testing.T) {
	assert.Nil(t, seedForHistory(&contract.Config{}))

	got := seedForHistory(&contract.Config{Seed: 12, HasSeed: true})
	require.NotNil(t, got)
	assert.Equal(t, int64(12), *got)
}
