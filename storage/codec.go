package storage

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/Alia5/macropad/macro"
)

// MaxSlots is the most slots a 16-bit type bitmap can describe.
const MaxSlots = 16

// ErrCapacity is returned when the layout does not fit the medium.
var ErrCapacity = errors.New("layout exceeds medium capacity")

// ErrSlotLost marks a failed store that already erased the slot.
var ErrSlotLost = errors.New("slot left erased")

// Codec maps the slot table onto the medium:
//
//	[bitmap word][slot 0][slot 1]...[slot N-1]
//
// The bitmap word is 1 byte for up to 8 slots and 2 bytes (little endian)
// for up to 16. Bit i holds the macro.Type of slot i. Every slot is
// macro.SlotSize bytes regardless of its occupant.
type Codec struct {
	medium   Medium
	slots    int
	flagSize int
	bitmap   uint16
	logger   *slog.Logger
}

// NewCodec validates the layout against the medium and reads the bitmap.
func NewCodec(m Medium, slots int, logger *slog.Logger) (*Codec, error) {
	if slots < 1 || slots > MaxSlots {
		return nil, fmt.Errorf("slot count %d out of range 1..%d", slots, MaxSlots)
	}
	flagSize := 1
	if slots > 8 {
		flagSize = 2
	}
	need := flagSize + slots*macro.SlotSize
	if need > m.Len() {
		return nil, fmt.Errorf("%d slots need %d bytes, medium has %d: %w", slots, need, m.Len(), ErrCapacity)
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Codec{medium: m, slots: slots, flagSize: flagSize, logger: logger}
	if _, err := c.readBitmap(); err != nil {
		return nil, err
	}
	return c, nil
}

// Slots returns the number of slots.
func (c *Codec) Slots() int { return c.slots }

// FlagSize returns the size of the bitmap word in bytes.
func (c *Codec) FlagSize() int { return c.flagSize }

// Bitmap returns the last read or written bitmap word.
func (c *Codec) Bitmap() uint16 { return c.bitmap }

// SlotOffset returns the byte offset of slot i.
func (c *Codec) SlotOffset(i int) int {
	return c.flagSize + i*macro.SlotSize
}

// IsEmpty reports whether every byte in [off, off+n) is erased.
func (c *Codec) IsEmpty(off, n int) (bool, error) {
	buf := make([]byte, n)
	if _, err := c.medium.ReadAt(buf, int64(off)); err != nil {
		return false, err
	}
	for _, b := range buf {
		if b != Erased {
			return false, nil
		}
	}
	return true, nil
}

// readBitmap loads the bitmap word. An erased word reads as zero and reports
// empty.
func (c *Codec) readBitmap() (bool, error) {
	buf := make([]byte, 2)
	if _, err := c.medium.ReadAt(buf[:c.flagSize], 0); err != nil {
		return false, fmt.Errorf("read bitmap: %w", err)
	}
	empty := buf[0] == Erased && (c.flagSize == 1 || buf[1] == Erased)
	if empty {
		c.bitmap = 0
		return true, nil
	}
	if c.flagSize == 1 {
		c.bitmap = uint16(buf[0])
	} else {
		c.bitmap = binary.LittleEndian.Uint16(buf)
	}
	return false, nil
}

// writeBitmap persists word and adopts it once the medium accepted it.
func (c *Codec) writeBitmap(word uint16) error {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, word)
	if _, err := c.medium.WriteAt(buf[:c.flagSize], 0); err != nil {
		return fmt.Errorf("write bitmap: %w", err)
	}
	c.bitmap = word
	return nil
}

func (c *Codec) bit(i int) macro.Type {
	return macro.Type((c.bitmap >> uint(i)) & 1)
}

// withBit returns the bitmap with slot i's bit set to t.
func (c *Codec) withBit(i int, t macro.Type) uint16 {
	word := c.bitmap
	if c.bit(i) != t {
		word ^= 1 << uint(i)
	}
	return word
}

// LoadAll decodes every non-empty slot into a new Table. The slot's own tag
// decides its variant; the bitmap bit is only cross-checked. Slots that fail
// to decode are left unoccupied.
func (c *Codec) LoadAll() (*Table, error) {
	t := NewTable(c.slots)

	flagEmpty, err := c.readBitmap()
	if err != nil {
		return nil, err
	}
	if flagEmpty {
		c.logger.Info("type bitmap is empty, scanning slots for stray macros")
	} else {
		c.logger.Info("type bitmap present", "bitmap", fmt.Sprintf("%0*b", c.slots, c.bitmap))
	}

	buf := make([]byte, macro.SlotSize)
	for i := 0; i < c.slots; i++ {
		off := c.SlotOffset(i)
		empty, err := c.IsEmpty(off, macro.SlotSize)
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", i, err)
		}
		if empty {
			continue
		}
		if _, err := c.medium.ReadAt(buf, int64(off)); err != nil {
			return nil, fmt.Errorf("slot %d: %w", i, err)
		}
		m, err := macro.Decode(buf)
		if err != nil {
			c.logger.Warn("skipping undecodable slot", "slot", i, "error", err)
			continue
		}
		if !flagEmpty && c.bit(i) != m.Type() {
			c.logger.Warn("type bitmap disagrees with slot tag", "slot", i, "bitmap", c.bit(i), "tag", m.Type())
		}
		t.slots[i] = m
	}

	c.logger.Info("macros loaded", "occupied", t.Occupied(), "slots", c.slots)
	return t, nil
}

func (c *Codec) erase(off, n int) error {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = Erased
	}
	_, err := c.medium.WriteAt(buf, int64(off))
	return err
}

func (c *Codec) checkIndex(i int) error {
	if i < 0 || i >= c.slots {
		return fmt.Errorf("slot %d: %w", i, ErrIndex)
	}
	return nil
}

// StoreSlot erases slot i, records the macro's type in the bitmap and writes
// the macro's image into the slot. Failures after the slot was touched wrap
// ErrSlotLost: the slot's previous content can no longer be trusted.
func (c *Codec) StoreSlot(i int, m macro.Macro) error {
	if err := c.checkIndex(i); err != nil {
		return err
	}
	img, err := m.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encode slot %d: %w", i, err)
	}
	if len(img) > macro.SlotSize {
		return fmt.Errorf("slot %d: image of %d bytes exceeds stride %d", i, len(img), macro.SlotSize)
	}

	off := c.SlotOffset(i)
	if err := c.erase(off, macro.SlotSize); err != nil {
		return fmt.Errorf("erase slot %d: %w: %w", i, ErrSlotLost, err)
	}
	if err := c.writeBitmap(c.withBit(i, m.Type())); err != nil {
		return fmt.Errorf("slot %d: %w: %w", i, ErrSlotLost, err)
	}
	if _, err := c.medium.WriteAt(img, int64(off)); err != nil {
		return fmt.Errorf("write slot %d: %w: %w", i, ErrSlotLost, err)
	}
	return nil
}

// EraseSlot erases slot i. The bitmap is left alone: emptiness is decided by
// slot content.
func (c *Codec) EraseSlot(i int) error {
	if err := c.checkIndex(i); err != nil {
		return err
	}
	if err := c.erase(c.SlotOffset(i), macro.SlotSize); err != nil {
		return fmt.Errorf("erase slot %d: %w", i, err)
	}
	return nil
}

// ResetAll erases the whole medium.
func (c *Codec) ResetAll() error {
	if err := c.erase(0, c.medium.Len()); err != nil {
		return fmt.Errorf("reset medium: %w", err)
	}
	c.bitmap = 0
	return nil
}

// Dump writes every byte of the medium as space separated decimals followed
// by a newline.
func (c *Codec) Dump(w io.Writer) error {
	buf := make([]byte, c.medium.Len())
	if _, err := c.medium.ReadAt(buf, 0); err != nil {
		return fmt.Errorf("read medium: %w", err)
	}
	bw := bufio.NewWriter(w)
	for _, b := range buf {
		_, _ = bw.WriteString(strconv.Itoa(int(b)))
		_ = bw.WriteByte(' ')
	}
	_ = bw.WriteByte('\n')
	return bw.Flush()
}
