package model

type BlindStructure struct {
	ID     int64        `json:"id"`
	Name   string       `json:"name"`
	Levels []BlindLevel `json:"levels"` // 級別資訊列表 (依 LevelNumber 遞增)
}

type BlindLevel struct {
	LevelNumber     int    `json:"level_number"`     // 盲注等級
	SmallBlind      int64  `json:"small_blind"`      // 小盲籌碼量
	BigBlind        int64  `json:"big_blind"`        // 大盲籌碼量
	Ante            int64  `json:"ante"`             // 前注籌碼量
	DurationMinutes int    `json:"duration_minutes"` // 等級持續時間 (分鐘)
	IsBreak         bool   `json:"is_break"`         // 是否為中場休息
	BreakName       string `json:"break_name"`       // 中場休息名稱
}

func (bs BlindStructure) Clone() BlindStructure {
	levels := make([]BlindLevel, len(bs.Levels))
	copy(levels, bs.Levels)
	bs.Levels = levels
	return bs
}
