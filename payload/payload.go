package payload

import (
	"bytes"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/weedbox/pokertournament/model"
)

type PayoutTier struct {
	Type       model.PayoutType        `json:"type"`
	MinPlayers int                     `json:"min_players"`
	Positions  map[int]decimal.Decimal `json:"positions"` // position -> percentage / amount
}

type PayoutStructure struct {
	Tiers []PayoutTier `json:"tiers"`
}

/*
ParsePayoutStructure 解析 PayoutStructureJson
  - 可為單一 tier 物件或 tier 陣列
  - 格式錯誤一律視為沒有設定 (ok = false)，不會中斷流程
*/
func ParsePayoutStructure(raw string) (PayoutStructure, bool) {
	data := bytes.TrimSpace([]byte(raw))
	if len(data) == 0 {
		return PayoutStructure{}, false
	}

	tiers := make([]PayoutTier, 0)
	if data[0] == '[' {
		if err := json.Unmarshal(data, &tiers); err != nil {
			return PayoutStructure{}, false
		}
	} else {
		var tier PayoutTier
		if err := json.Unmarshal(data, &tier); err != nil {
			return PayoutStructure{}, false
		}
		tiers = append(tiers, tier)
	}

	if len(tiers) == 0 {
		return PayoutStructure{}, false
	}

	for _, tier := range tiers {
		if tier.Type != model.PayoutType_Percentage && tier.Type != model.PayoutType_Fixed {
			return PayoutStructure{}, false
		}
		if len(tier.Positions) == 0 {
			return PayoutStructure{}, false
		}
		for position, value := range tier.Positions {
			if position < 1 || value.IsNegative() {
				return PayoutStructure{}, false
			}
		}
	}

	sort.SliceStable(tiers, func(i, j int) bool {
		return tiers[i].MinPlayers < tiers[j].MinPlayers
	})
	return PayoutStructure{Tiers: tiers}, true
}

func EncodePayoutStructure(ps PayoutStructure) (string, error) {
	encoded, err := json.Marshal(ps.Tiers)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// TierFor returns the tier with the largest MinPlayers not above entrants.
func (ps PayoutStructure) TierFor(entrants int) (PayoutTier, bool) {
	found := false
	var selected PayoutTier
	for _, tier := range ps.Tiers {
		if tier.MinPlayers <= entrants {
			selected = tier
			found = true
		}
	}
	return selected, found
}

// ParsePositionPoints parses a FixedPointsTable (position -> points).
func ParsePositionPoints(raw string) (map[int]decimal.Decimal, bool) {
	return parsePositionMap(raw)
}

// ParsePeriodPoints parses MonthlyPoints / QuarterlyPoints (period key -> points).
func ParsePeriodPoints(raw string) (map[string]decimal.Decimal, bool) {
	data := bytes.TrimSpace([]byte(raw))
	if len(data) == 0 {
		return map[string]decimal.Decimal{}, false
	}

	values := make(map[string]decimal.Decimal)
	if err := json.Unmarshal(data, &values); err != nil {
		return map[string]decimal.Decimal{}, false
	}

	for key := range values {
		if strings.TrimSpace(key) == "" {
			return map[string]decimal.Decimal{}, false
		}
	}
	return values, true
}

func EncodePeriodPoints(values map[string]decimal.Decimal) (string, error) {
	if values == nil {
		values = map[string]decimal.Decimal{}
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func parsePositionMap(raw string) (map[int]decimal.Decimal, bool) {
	data := bytes.TrimSpace([]byte(raw))
	if len(data) == 0 {
		return map[int]decimal.Decimal{}, false
	}

	// keys arrive as strings ("1": 100)
	values := make(map[string]decimal.Decimal)
	if err := json.Unmarshal(data, &values); err != nil {
		return map[int]decimal.Decimal{}, false
	}

	positions := make(map[int]decimal.Decimal, len(values))
	for key, value := range values {
		position, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil || position < 1 {
			return map[int]decimal.Decimal{}, false
		}
		positions[position] = value
	}
	return positions, true
}
