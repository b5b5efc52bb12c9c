package pkg

import (
	"crypto/rand"
	"fmt"

	"github.com/google/uuid"
)

// game codes are short so players can read them to each other
const gameIDAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const gameIDLength = 6

// GeneratePlayerID - generates a new unique player ID.
func GeneratePlayerID() string {
	return uuid.NewString()
}

// GenerateGameID - generates a short joinable game code.
func GenerateGameID() (string, error) {
	buf := make([]byte, gameIDLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	for i, b := range buf {
		buf[i] = gameIDAlphabet[int(b)%len(gameIDAlphabet)]
	}

	return string(buf), nil
}
