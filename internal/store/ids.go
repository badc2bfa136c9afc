package store

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/linktable/pkg/types"
)

// maxIDAttempts bounds the collision retry loop.
const maxIDAttempts = 16

// generateUUID generates a new UUID v7.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}

// nextRecordID draws IDs until one is free within t.
// The caller must hold s.mu.
func (s *Store) nextRecordID(t *types.Table) (string, error) {
	for attempt := 1; attempt <= maxIDAttempts; attempt++ {
		id := s.newID()
		if id == "" {
			continue
		}
		if recordIndex(t, id) < 0 {
			return id, nil
		}
		s.logger.Debug("record ID collision",
			zap.String("table", t.ID),
			zap.String("id", id),
			zap.Int("attempt", attempt),
		)
	}
	return "", fmt.Errorf("table %q after %d attempts: %w", t.ID, maxIDAttempts, types.ErrIDExhausted)
}
