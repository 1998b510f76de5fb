package blind

import (
	"time"

	"github.com/weedbox/pokertournament/apperr"
	"github.com/weedbox/pokertournament/model"
)

// Validate checks the structure invariants: non-empty, strictly increasing
// level numbers, positive durations and SB <= BB on playing levels.
func Validate(bs model.BlindStructure) error {
	if len(bs.Levels) == 0 {
		return apperr.Configuration("blind structure %q has no levels", bs.Name)
	}

	for idx, level := range bs.Levels {
		if level.DurationMinutes <= 0 {
			return apperr.Configuration("blind level %d: duration must be positive", level.LevelNumber)
		}

		if idx > 0 && level.LevelNumber <= bs.Levels[idx-1].LevelNumber {
			return apperr.Configuration("blind level %d: level numbers must be strictly increasing", level.LevelNumber)
		}

		// 中場休息不檢查盲注
		if level.IsBreak {
			continue
		}

		if level.SmallBlind < 0 || level.Ante < 0 {
			return apperr.Configuration("blind level %d: negative blinds", level.LevelNumber)
		}

		if level.SmallBlind > level.BigBlind {
			return apperr.Configuration("blind level %d: small blind %d exceeds big blind %d", level.LevelNumber, level.SmallBlind, level.BigBlind)
		}
	}

	return nil
}

func Duration(level model.BlindLevel) time.Duration {
	return time.Duration(level.DurationMinutes) * time.Minute
}

// LevelIndex finds the index of levelNumber in levels, or -1.
func LevelIndex(levels []model.BlindLevel, levelNumber int) int {
	for idx, level := range levels {
		if level.LevelNumber == levelNumber {
			return idx
		}
	}
	return -1
}

func IsFinalLevel(levels []model.BlindLevel, idx int) bool {
	return idx >= len(levels)-1
}

/*
LevelEndAts 計算各盲注等級結束時間
  - startAt: 起始等級的開始時間
  - 回傳值 index 對應 levels 的 index
*/
func LevelEndAts(startAt time.Time, levels []model.BlindLevel, fromIdx int) []time.Time {
	endAts := make([]time.Time, len(levels))
	cursor := startAt
	for i := fromIdx; i < len(levels); i++ {
		cursor = cursor.Add(Duration(levels[i]))
		endAts[i] = cursor
	}
	return endAts
}
