package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Alia5/macropad/apitypes"
	"github.com/Alia5/macropad/internal/config"
	"github.com/Alia5/macropad/internal/protocol"
)

// Identify reports the keypad geometry.
func Identify(layout config.Layout) protocol.HandlerFunc {
	return func(req *protocol.Request, res *protocol.Response, logger *slog.Logger) error {
		out, err := json.Marshal(apitypes.IdentifyResponse{
			Rows:      layout.Rows,
			Cols:      layout.Cols,
			NPins:     len(layout.Pins),
			Pins:      nonNil(layout.Pins),
			NProgPins: len(layout.ProgPins),
			ProgPins:  nonNil(layout.ProgPins),
		})
		if err != nil {
			return protocol.ErrInternal(fmt.Sprintf("failed to marshal response: %v", err))
		}
		res.Body = string(out)
		return nil
	}
}

func nonNil(s []int) []int {
	if s == nil {
		return []int{}
	}
	return s
}
