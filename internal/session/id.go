package session

import (
	"fmt"

	"session-gate/internal/utils"
)

// idBytes is the session id entropy: 256 bits.
const idBytes = 32

// GenerateID returns a fresh opaque session id.
func GenerateID() (string, error) {
	id, err := utils.RandomString(idBytes)
	if err != nil {
		return "", fmt.Errorf("session: failed to generate id: %w", err)
	}
	return id, nil
}
