package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func finishedAt(sec int) *time.Time {
	ts := time.Date(2025, 3, 1, 12, 0, sec, 0, time.UTC)
	return &ts
}

func racer(conn string, order, wpm int, fin *time.Time, dq bool) *Participant {
	p := &Participant{ConnID: conn, Username: conn, joinOrder: order, wpm: wpm, finished: true, finishedAt: fin}
	if dq {
		p.disqualified = true
		p.dqReason = "PastedInput"
	}
	return p
}

func TestBuildResults_RanksByWPMDescending(t *testing.T) {
	parts := []*Participant{
		racer("a", 0, 80, finishedAt(10), false),
		racer("b", 1, 95, finishedAt(12), false),
		racer("c", 2, 95, finishedAt(12), false),
		racer("d", 3, 60, finishedAt(15), false),
	}

	results := buildResults(parts)
	require.Len(t, results, 4)

	// identical WPM and finish time falls back to join order
	assert.Equal(t, []string{"b", "c", "a", "d"}, []string{
		results[0].SocketID, results[1].SocketID, results[2].SocketID, results[3].SocketID,
	})
	for i, r := range results {
		assert.Equal(t, i+1, r.Rank)
	}

	// same inputs, same ranking, every time
	for i := 0; i < 20; i++ {
		again := buildResults(parts)
		assert.Equal(t, results, again)
	}
}

func TestBuildResults_EarlierFinishBreaksWPMTie(t *testing.T) {
	parts := []*Participant{
		racer("late", 0, 95, finishedAt(20), false),
		racer("early", 1, 95, finishedAt(5), false),
	}
	results := buildResults(parts)
	assert.Equal(t, "early", results[0].SocketID)
}

func TestBuildResults_TimeoutFinishersRankAfterRealFinishers(t *testing.T) {
	parts := []*Participant{
		// finished by timeout: same wpm but no finish timestamp
		racer("straggler", 0, 50, nil, false),
		racer("finisher", 1, 50, finishedAt(30), false),
	}
	results := buildResults(parts)
	assert.Equal(t, "finisher", results[0].SocketID)
}

func TestBuildResults_DisqualifiedComeLastInJoinOrder(t *testing.T) {
	parts := []*Participant{
		racer("cheater1", 0, 300, finishedAt(1), true),
		racer("honest", 1, 40, finishedAt(30), false),
		racer("cheater2", 2, 250, finishedAt(2), true),
	}
	results := buildResults(parts)
	require.Len(t, results, 3)
	assert.Equal(t, "honest", results[0].SocketID)
	assert.Equal(t, 1, results[0].Rank)
	assert.Equal(t, "cheater1", results[1].SocketID)
	assert.Equal(t, "cheater2", results[2].SocketID)
	assert.True(t, results[1].Disqualified)
}

func TestPodium(t *testing.T) {
	parts := []*Participant{
		racer("p1", 0, 90, finishedAt(10), false),
		racer("p2", 1, 70, finishedAt(11), false),
		racer("p3", 2, 50, finishedAt(12), false),
		racer("p4", 3, 30, finishedAt(13), false),
	}
	podium := Podium(buildResults(parts))
	require.Len(t, podium, 3)
	assert.Equal(t, "p1", podium[0].SocketID)
	assert.Equal(t, "p3", podium[2].SocketID)
}

func TestPodium_SkipsDisqualifiedAndShrinks(t *testing.T) {
	parts := []*Participant{
		racer("dq", 0, 500, finishedAt(1), true),
		racer("only", 1, 40, finishedAt(30), false),
	}
	podium := Podium(buildResults(parts))
	require.Len(t, podium, 1)
	assert.Equal(t, "only", podium[0].SocketID)

	assert.Empty(t, Podium(buildResults([]*Participant{racer("dq", 0, 500, finishedAt(1), true)})))
	assert.Empty(t, Podium(buildResults(nil)))
}
