package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "rectcli/internal/errors"
)

func TestOrchestratorFirstStrategyWins(t *testing.T) {
	result, err := newOrchestrator(',', 3).run("a,b,c\n1,2,3")

	require.NoError(t, err)
	assert.Equal(t, "strict-quote", result.strategy)
	assert.Equal(t, [][]string{{"a", "b", "c"}, {"1", "2", "3"}}, result.rows)

	require.Len(t, result.attempts, 1)
	assert.Equal(t, "strict-quote", result.attempts[0].Strategy)
	assert.True(t, result.attempts[0].Success)
	assert.Empty(t, result.attempts[0].Error)
}

func TestOrchestratorFallsBackInOrder(t *testing.T) {
	// A backslash-escaped quote defeats the strict grammar but not the
	// escape-aware one.
	result, err := newOrchestrator(',', 2).run("a,\"say \\\"hi\\\"\"\nb,ok")

	require.NoError(t, err)
	assert.Equal(t, "escaped-quote", result.strategy)
	assert.Equal(t, [][]string{{"a", `say "hi"`}, {"b", "ok"}}, result.rows)

	require.Len(t, result.attempts, 2)
	assert.Equal(t, "strict-quote", result.attempts[0].Strategy)
	assert.False(t, result.attempts[0].Success)
	assert.NotEmpty(t, result.attempts[0].Error)
	assert.Equal(t, "escaped-quote", result.attempts[1].Strategy)
	assert.True(t, result.attempts[1].Success)
}

func TestOrchestratorReachesRepair(t *testing.T) {
	// A stray quote fails the strict, escape-aware and parity strategies;
	// only the repair pass yields rows.
	result, err := newOrchestrator(',', 2).run("name,note\nalice,say \"hi\nbob,ok")

	require.NoError(t, err)
	assert.Equal(t, "quote-repair", result.strategy)
	assert.Equal(t, [][]string{
		{"name", "note"},
		{"alice", "say ''hi"},
		{"bob", "ok"},
	}, result.rows)

	require.Len(t, result.attempts, 4)
	for i, name := range []string{"strict-quote", "escaped-quote", "quote-blind"} {
		assert.Equal(t, name, result.attempts[i].Strategy)
		assert.False(t, result.attempts[i].Success)
	}
	assert.True(t, result.attempts[3].Success)
}

func TestOrchestratorExhaustion(t *testing.T) {
	_, err := newOrchestrator(',', 5).run("\n\n\n")

	require.Error(t, err)
	var exhausted *apperrors.ExhaustedError
	require.ErrorAs(t, err, &exhausted)

	assert.Equal(t, ",", exhausted.Delimiter)
	assert.Equal(t, 5, exhausted.ModalCols)

	require.Len(t, exhausted.Attempts, 4)
	wantOrder := []string{"strict-quote", "escaped-quote", "quote-blind", "quote-repair"}
	for i, attempt := range exhausted.Attempts {
		assert.Equal(t, wantOrder[i], attempt.Strategy)
		assert.False(t, attempt.Success)
		assert.NotEmpty(t, attempt.Error)
	}

	// The message carries the full audit trail.
	for _, name := range wantOrder {
		assert.True(t, strings.Contains(err.Error(), name))
	}
}

func TestOrchestratorNeverReturnsPartialRows(t *testing.T) {
	result, err := newOrchestrator(',', 0).run("")

	assert.Nil(t, result)
	require.Error(t, err)
}
