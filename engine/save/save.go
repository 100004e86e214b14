// Package save implements JSON serialization and deserialization of player
// records.
package save

import (
	"encoding/json"
	"fmt"

	"github.com/nathoo/drgrpg/types"
)

// Version is the current record format.
const Version = 1

// SaveData is the JSON-serializable record envelope.
type SaveData struct {
	Version int                `json:"version"`
	Player  types.PlayerRecord `json:"player"`
}

// Save serializes a player record to JSON bytes.
func Save(rec types.PlayerRecord) ([]byte, error) {
	return json.MarshalIndent(SaveData{Version: Version, Player: rec}, "", "  ")
}

// Load deserializes JSON bytes into a player record.
func Load(data []byte) (types.PlayerRecord, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return types.PlayerRecord{}, err
	}
	if sd.Version > Version {
		return types.PlayerRecord{}, fmt.Errorf("record version %d is newer than supported version %d", sd.Version, Version)
	}
	rec := sd.Player
	// Ensure maps are never nil after load.
	if rec.Stats == nil {
		rec.Stats = map[string]int{}
	}
	if rec.Inventory == nil {
		rec.Inventory = []types.ItemSnapshot{}
	}
	if rec.Equipment == nil {
		rec.Equipment = map[string]*types.ItemSnapshot{}
	}
	if rec.QuestFlags == nil {
		rec.QuestFlags = map[string]int{}
	}
	if rec.GuildLevels == nil {
		rec.GuildLevels = map[string]types.GuildLevel{}
	}
	if rec.Skills == nil {
		rec.Skills = map[string]int{}
	}
	if rec.Achievements == nil {
		rec.Achievements = []int{}
	}
	return rec, nil
}
