package championship

import (
	"sort"

	"github.com/weedbox/pokertournament/model"
)

type matchKey struct {
	MatchNumber  int
	TournamentID int64
}

/*
rank 依總分排名
  - 同分時依序套用 tiebreaker，head_to_head 只比較同分群組內的玩家
  - 所有 tiebreaker 都無法分出勝負時名次相同 (1, 2, 2, 4)，群組內依 PlayerID 排序
*/
func rank(tbs []model.Tiebreaker, standings []*model.ChampionshipStanding, byPlayer map[int64][]*ScoredMatch) {
	sort.SliceStable(standings, func(i, j int) bool {
		if !standings[i].TotalPoints.Equal(standings[j].TotalPoints) {
			return standings[i].TotalPoints.GreaterThan(standings[j].TotalPoints)
		}
		return standings[i].PlayerID < standings[j].PlayerID
	})

	ordered := make([]*model.ChampionshipStanding, 0, len(standings))
	position := 1
	for i := 0; i < len(standings); {
		j := i
		for j < len(standings) && standings[j].TotalPoints.Equal(standings[i].TotalPoints) {
			j++
		}

		for _, group := range breakTies(tbs, standings[i:j], byPlayer) {
			for _, s := range group {
				s.CurrentPosition = position
				ordered = append(ordered, s)
			}
			position += len(group)
		}
		i = j
	}

	copy(standings, ordered)
}

func breakTies(tbs []model.Tiebreaker, tied []*model.ChampionshipStanding, byPlayer map[int64][]*ScoredMatch) [][]*model.ChampionshipStanding {
	group := make([]*model.ChampionshipStanding, len(tied))
	copy(group, tied)
	sort.SliceStable(group, func(i, j int) bool {
		return group[i].PlayerID < group[j].PlayerID
	})

	if len(group) == 1 || len(tbs) == 0 {
		return [][]*model.ChampionshipStanding{group}
	}

	scores := tiebreakScores(tbs[0], group, byPlayer)
	sort.SliceStable(group, func(i, j int) bool {
		return scores[group[i].PlayerID] > scores[group[j].PlayerID]
	})

	groups := make([][]*model.ChampionshipStanding, 0)
	for i := 0; i < len(group); {
		j := i
		for j < len(group) && scores[group[j].PlayerID] == scores[group[i].PlayerID] {
			j++
		}
		groups = append(groups, breakTies(tbs[1:], group[i:j], byPlayer)...)
		i = j
	}
	return groups
}

// tiebreakScores returns a comparable score per player, higher is better.
func tiebreakScores(tb model.Tiebreaker, group []*model.ChampionshipStanding, byPlayer map[int64][]*ScoredMatch) map[int64]int {
	scores := make(map[int64]int, len(group))

	switch tb {
	case model.Tiebreaker_NumberOfWins:
		for _, s := range group {
			scores[s.PlayerID] = s.Victories
		}
	case model.Tiebreaker_BestIndividualResult:
		for _, s := range group {
			scores[s.PlayerID] = -s.BestPosition
		}
	case model.Tiebreaker_SumOfPositions:
		for _, s := range group {
			sum := 0
			for _, sm := range byPlayer[s.PlayerID] {
				sum += sm.Position
			}
			scores[s.PlayerID] = -sum
		}
	case model.Tiebreaker_MoreMatchesPlayed:
		for _, s := range group {
			scores[s.PlayerID] = s.MatchesPlayed
		}
	case model.Tiebreaker_HeadToHead:
		positions := make(map[int64]map[matchKey]int, len(group))
		for _, s := range group {
			positions[s.PlayerID] = make(map[matchKey]int)
			for _, sm := range byPlayer[s.PlayerID] {
				positions[s.PlayerID][matchKey{sm.MatchNumber, sm.TournamentID}] = sm.Position
			}
		}

		for _, a := range group {
			for _, b := range group {
				if a.PlayerID == b.PlayerID {
					continue
				}
				for key, pa := range positions[a.PlayerID] {
					if pb, ok := positions[b.PlayerID][key]; ok && pa < pb {
						scores[a.PlayerID]++
					}
				}
			}
		}
	}

	return scores
}
