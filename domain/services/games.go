package services

import "slothouse/domain/entities"

// Game binds a catalog entry to the parameters a settlement needs: how
// many reels to spin, which symbols the reels carry and which paytable
// prices the outcome. The catalog is static; the site lists more games
// but only Diamond Slots is playable.
type Game struct {
	ID       string
	Name     string
	Reels    int
	Alphabet []entities.Symbol
	Paytable *Paytable
}

// GameDiamondSlots is the id of the 3-reel slot machine.
const GameDiamondSlots = "diamond-slots"

var diamondSlots = &Game{
	ID:       GameDiamondSlots,
	Name:     "Diamond Slots",
	Reels:    3,
	Alphabet: []entities.Symbol{"💎", "🍒", "🔔", "⭐", "7️⃣"},
	Paytable: NewPaytable(
		PayRule{
			Name:       "three_of_a_kind",
			Multiplier: 10,
			Matches:    entities.Outcome.AllMatch,
		},
		PayRule{
			Name:       "adjacent_pair",
			Multiplier: 2,
			Matches:    entities.Outcome.AdjacentPair,
		},
	),
}

var games = map[string]*Game{
	GameDiamondSlots: diamondSlots,
}

// FindGame returns the playable game for an id, or nil when the id is
// unknown or the game is not playable.
func FindGame(id string) *Game {
	return games[id]
}
