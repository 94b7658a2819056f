package handler

import (
	"fmt"
	"log/slog"

	"github.com/Alia5/macropad/internal/protocol"
	"github.com/Alia5/macropad/storage"
)

// Clear empties the slot at index. Clearing an empty slot is not an error.
func Clear(s *storage.Store) protocol.HandlerFunc {
	return func(req *protocol.Request, res *protocol.Response, logger *slog.Logger) error {
		i, err := req.Index(s.Len())
		if err != nil {
			return err
		}
		cleared, err := s.Clear(i)
		if err != nil {
			return protocol.ErrInternal(fmt.Sprintf("failed to clear slot %d: %v", i, err))
		}
		if !cleared {
			res.Body = fmt.Sprintf("Macro in index %d is already unset", i)
			return nil
		}
		res.Body = fmt.Sprintf("Cleared macro in index %d", i)
		return nil
	}
}
