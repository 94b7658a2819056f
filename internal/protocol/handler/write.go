package handler

import (
	"fmt"
	"log/slog"

	"github.com/Alia5/macropad/internal/protocol"
	"github.com/Alia5/macropad/macro"
	"github.com/Alia5/macropad/storage"
)

// Write decodes data into the variant named by type, stores it at index and
// responds like Read.
func Write(s *storage.Store) protocol.HandlerFunc {
	return func(req *protocol.Request, res *protocol.Response, logger *slog.Logger) error {
		t, err := req.Int("type")
		if err != nil {
			return err
		}
		if t != int(macro.TypeKey) && t != int(macro.TypeText) {
			return protocol.ErrBadRequest(fmt.Sprintf("unknown macro type %d", t))
		}
		i, err := req.Index(s.Len())
		if err != nil {
			return err
		}
		data := req.Body.Get("data")
		if !data.Exists() {
			return protocol.ErrBadRequest("missing data")
		}

		m, err := macro.ParseMacro(macro.Type(t), data)
		if err != nil {
			return protocol.ErrBadRequest(err.Error())
		}
		if err := s.Put(i, m); err != nil {
			return protocol.ErrInternal(fmt.Sprintf("failed to store slot %d: %v", i, err))
		}
		logger.Info("macro written", "slot", i, "type", m.Type())
		return writeSlot(res, s, i)
	}
}
