package storage

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Alia5/macropad/macro"
)

// ErrIndex is returned for a slot index outside the table.
var ErrIndex = errors.New("slot index out of range")

// Table is the live slot table: a fixed number of optional macros.
type Table struct {
	slots []macro.Macro
}

// NewTable returns a table of n unoccupied slots.
func NewTable(n int) *Table {
	return &Table{slots: make([]macro.Macro, n)}
}

// Len returns the number of slots.
func (t *Table) Len() int { return len(t.slots) }

// Get returns the macro in slot i, if any.
func (t *Table) Get(i int) (macro.Macro, bool) {
	if i < 0 || i >= len(t.slots) || t.slots[i] == nil {
		return nil, false
	}
	return t.slots[i], true
}

// Occupied returns the number of occupied slots.
func (t *Table) Occupied() int {
	n := 0
	for _, m := range t.slots {
		if m != nil {
			n++
		}
	}
	return n
}

// Store owns the slot table and its persistent image. Every mutation is
// written to the medium before the table changes.
type Store struct {
	codec  *Codec
	table  *Table
	logger *slog.Logger
}

// Open builds the codec for medium and loads the slot table from it.
func Open(m Medium, slots int, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	codec, err := NewCodec(m, slots, logger)
	if err != nil {
		return nil, err
	}
	table, err := codec.LoadAll()
	if err != nil {
		return nil, err
	}
	return &Store{codec: codec, table: table, logger: logger}, nil
}

// Len returns the number of slots.
func (s *Store) Len() int { return s.table.Len() }

// Get returns the macro in slot i, if any.
func (s *Store) Get(i int) (macro.Macro, bool) { return s.table.Get(i) }

// Codec exposes the layout codec.
func (s *Store) Codec() *Codec { return s.codec }

func (s *Store) checkIndex(i int) error {
	if i < 0 || i >= s.table.Len() {
		return fmt.Errorf("slot %d: %w", i, ErrIndex)
	}
	return nil
}

// Put replaces the occupant of slot i with m. When the medium fails midway
// the slot ends up empty in both the table and the medium.
func (s *Store) Put(i int, m macro.Macro) error {
	if err := s.checkIndex(i); err != nil {
		return err
	}
	if err := s.codec.StoreSlot(i, m); err != nil {
		if errors.Is(err, ErrSlotLost) {
			s.table.slots[i] = nil
		}
		return err
	}
	s.table.slots[i] = m
	s.logger.Debug("slot stored", "slot", i, "type", m.Type())
	return nil
}

// Clear empties slot i. It reports false, and touches nothing, when the slot
// was already empty.
func (s *Store) Clear(i int) (bool, error) {
	if err := s.checkIndex(i); err != nil {
		return false, err
	}
	if s.table.slots[i] == nil {
		return false, nil
	}
	if err := s.codec.EraseSlot(i); err != nil {
		return false, err
	}
	s.table.slots[i] = nil
	s.logger.Debug("slot cleared", "slot", i)
	return true, nil
}

// Reset erases the medium and empties every slot.
func (s *Store) Reset() error {
	if err := s.codec.ResetAll(); err != nil {
		return err
	}
	for i := range s.table.slots {
		s.table.slots[i] = nil
	}
	s.logger.Info("storage reset")
	return nil
}

// Dump writes the raw medium contents to w.
func (s *Store) Dump(w io.Writer) error { return s.codec.Dump(w) }
