package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Alia5/macropad/apitypes"
	"github.com/Alia5/macropad/internal/protocol"
	"github.com/Alia5/macropad/macro"
	"github.com/Alia5/macropad/storage"
)

// Read returns the macro at index, or null when the slot is empty.
func Read(s *storage.Store) protocol.HandlerFunc {
	return func(req *protocol.Request, res *protocol.Response, logger *slog.Logger) error {
		i, err := req.Index(s.Len())
		if err != nil {
			return err
		}
		return writeSlot(res, s, i)
	}
}

func writeSlot(res *protocol.Response, s *storage.Store, i int) error {
	m, ok := s.Get(i)
	if !ok {
		res.Body = "null"
		return nil
	}
	mr, err := macroResponse(i, m)
	if err != nil {
		return err
	}
	out, err := json.Marshal(mr)
	if err != nil {
		return protocol.ErrInternal(fmt.Sprintf("failed to marshal response: %v", err))
	}
	res.Body = string(out)
	return nil
}

func macroResponse(i int, m macro.Macro) (*apitypes.MacroResponse, error) {
	data, err := m.MarshalJSON()
	if err != nil {
		return nil, protocol.ErrInternal(fmt.Sprintf("failed to encode slot %d: %v", i, err))
	}
	return &apitypes.MacroResponse{Index: i, Type: int(m.Type()), Data: data}, nil
}
