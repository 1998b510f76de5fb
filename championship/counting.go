package championship

import (
	"fmt"
	"sort"
	"time"

	"github.com/weedbox/pokertournament/model"
)

func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

func QuarterKey(t time.Time) string {
	u := t.UTC()
	return fmt.Sprintf("%d-Q%d", u.Year(), (int(u.Month())-1)/3+1)
}

func PeriodKey(periodType model.PeriodType, t time.Time) string {
	switch periodType {
	case model.PeriodType_Month:
		return MonthKey(t)
	case model.PeriodType_Quarter:
		return QuarterKey(t)
	}
	return ""
}

/*
selectCounted 標記計入總分的場次
  - all_matches: 全部計入
  - best_x_of_season: 分數最高的 X 場
  - best_x_per_period: 每個期間 (月/季) 分數最高的 X 場
  - ExcludeWorstX: 再去掉剩餘場次中分數最低的 X 場 (不足 X 場時全部去掉)
*/
func selectCounted(c model.Championship, scores []*ScoredMatch) {
	for _, sm := range scores {
		sm.Counted = false
	}

	var counted []*ScoredMatch
	switch c.CountingMode {
	case model.CountingMode_BestXOfSeason:
		counted = best(scores, c.BestX)
	case model.CountingMode_BestXPerPeriod:
		buckets := make(map[string][]*ScoredMatch)
		keys := make([]string, 0)
		for _, sm := range scores {
			key := PeriodKey(c.PeriodType, sm.PlayedAt)
			if _, exist := buckets[key]; !exist {
				keys = append(keys, key)
			}
			buckets[key] = append(buckets[key], sm)
		}
		sort.Strings(keys)
		for _, key := range keys {
			counted = append(counted, best(buckets[key], c.BestX)...)
		}
	default:
		counted = append(counted, scores...)
	}

	if c.ExcludeWorstX > 0 {
		counted = dropWorst(counted, c.ExcludeWorstX)
	}

	for _, sm := range counted {
		sm.Counted = true
	}
}

// byScore orders higher points first, earlier matches first on tie.
func byScore(scores []*ScoredMatch) []*ScoredMatch {
	sorted := make([]*ScoredMatch, len(scores))
	copy(sorted, scores)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Points.Equal(sorted[j].Points) {
			return sorted[i].Points.GreaterThan(sorted[j].Points)
		}
		if sorted[i].MatchNumber != sorted[j].MatchNumber {
			return sorted[i].MatchNumber < sorted[j].MatchNumber
		}
		return sorted[i].TournamentID < sorted[j].TournamentID
	})
	return sorted
}

func best(scores []*ScoredMatch, x int) []*ScoredMatch {
	sorted := byScore(scores)
	if len(sorted) > x {
		sorted = sorted[:x]
	}
	return sorted
}

func dropWorst(scores []*ScoredMatch, x int) []*ScoredMatch {
	sorted := byScore(scores)
	if x >= len(sorted) {
		return []*ScoredMatch{}
	}
	return sorted[:len(sorted)-x]
}
