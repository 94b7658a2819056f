package handler

import (
	"github.com/Alia5/macropad/internal/config"
	"github.com/Alia5/macropad/internal/protocol"
	"github.com/Alia5/macropad/storage"
)

// RegisterAll binds the full command vocabulary.
func RegisterAll(r *protocol.Router, s *storage.Store, layout config.Layout) {
	r.Register("i", Identify(layout))
	r.Register("x", Reset(s))
	r.Register("r", Read(s))
	r.Register("a", ReadAll(s))
	r.Register("w", Write(s))
	r.Register("c", Clear(s))
}
