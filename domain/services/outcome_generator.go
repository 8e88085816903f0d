package services

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"slothouse/domain/entities"
	"slothouse/domain/interfaces"
)

// secureOutcomeGenerator draws reel symbols from crypto/rand. The
// source is neither seedable nor observable by a caller, so outcomes
// cannot be predicted or forged by the player.
type secureOutcomeGenerator struct{}

// NewSecureOutcomeGenerator creates the production outcome generator
func NewSecureOutcomeGenerator() interfaces.OutcomeGenerator {
	return &secureOutcomeGenerator{}
}

// Spin draws each reel independently and uniformly from the alphabet.
// crypto/rand.Int is already rejection-sampled, so every symbol has
// exactly equal probability.
func (g *secureOutcomeGenerator) Spin(reels int, alphabet []entities.Symbol) (entities.Outcome, error) {
	if reels <= 0 || len(alphabet) == 0 {
		return nil, fmt.Errorf("invalid spin parameters: %d reels, %d symbols", reels, len(alphabet))
	}

	max := big.NewInt(int64(len(alphabet)))
	outcome := make(entities.Outcome, reels)
	for i := range outcome {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return nil, fmt.Errorf("failed to draw reel symbol: %w", err)
		}
		outcome[i] = alphabet[n.Int64()]
	}
	return outcome, nil
}
