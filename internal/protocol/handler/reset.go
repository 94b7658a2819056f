package handler

import (
	"fmt"
	"log/slog"

	"github.com/Alia5/macropad/internal/protocol"
	"github.com/Alia5/macropad/storage"
)

// Reset erases the medium and empties every slot.
func Reset(s *storage.Store) protocol.HandlerFunc {
	return func(req *protocol.Request, res *protocol.Response, logger *slog.Logger) error {
		logger.Info("resetting EEPROM")
		if err := s.Reset(); err != nil {
			return protocol.ErrInternal(fmt.Sprintf("failed to reset storage: %v", err))
		}
		res.Body = "EEPROM reset successfully"
		return nil
	}
}
