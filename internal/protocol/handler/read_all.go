package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Alia5/macropad/apitypes"
	"github.com/Alia5/macropad/internal/protocol"
	"github.com/Alia5/macropad/storage"
)

// ReadAll returns one entry per slot, null where the slot is empty.
func ReadAll(s *storage.Store) protocol.HandlerFunc {
	return func(req *protocol.Request, res *protocol.Response, logger *slog.Logger) error {
		all := make(apitypes.ReadAllResponse, s.Len())
		for i := range all {
			m, ok := s.Get(i)
			if !ok {
				continue
			}
			mr, err := macroResponse(i, m)
			if err != nil {
				return err
			}
			all[i] = mr
		}
		out, err := json.Marshal(all)
		if err != nil {
			return protocol.ErrInternal(fmt.Sprintf("failed to marshal response: %v", err))
		}
		res.Body = string(out)
		return nil
	}
}
