package game

import (
	"sort"

	"github.com/samber/lo"

	"github.com/NuZard84/go-socket-typerace/internal/models"
)

// buildResults assembles the final ranked result set from participants in
// join order. Eligible racers come first, sorted by WPM descending with
// ties broken by earlier finish time and then join order, so identical
// inputs always rank identically. Disqualified participants follow in
// join order. Ranks run 1..n across the whole list.
func buildResults(parts []*Participant) []models.ResultEntry {
	eligible := lo.Filter(parts, func(p *Participant, _ int) bool { return !p.disqualified })
	dq := lo.Filter(parts, func(p *Participant, _ int) bool { return p.disqualified })

	sort.SliceStable(eligible, func(i, j int) bool {
		a, b := eligible[i], eligible[j]
		if a.wpm != b.wpm {
			return a.wpm > b.wpm
		}
		switch {
		case a.finishedAt != nil && b.finishedAt != nil && !a.finishedAt.Equal(*b.finishedAt):
			return a.finishedAt.Before(*b.finishedAt)
		case a.finishedAt != nil && b.finishedAt == nil:
			return true
		case a.finishedAt == nil && b.finishedAt != nil:
			return false
		}
		return a.joinOrder < b.joinOrder
	})

	ranked := append(eligible, dq...)
	return lo.Map(ranked, func(p *Participant, i int) models.ResultEntry {
		return models.ResultEntry{
			SocketID:     p.ConnID,
			Username:     p.Username,
			Rank:         i + 1,
			WPM:          p.wpm,
			Accuracy:     p.accuracy,
			Progress:     p.progress,
			Finished:     p.finished,
			Disqualified: p.disqualified,
			DQReason:     p.dqReason,
		}
	})
}

// Podium returns the top three eligible entries of a ranked result set.
// Fewer than three eligible racers yields a shorter or empty podium.
func Podium(results []models.ResultEntry) []models.ResultEntry {
	podium := make([]models.ResultEntry, 0, 3)
	for _, r := range results {
		if r.Disqualified {
			continue
		}
		podium = append(podium, r)
		if len(podium) == 3 {
			break
		}
	}
	return podium
}
