package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Alia5/macropad/device/keyboard"
)

// Descriptor prints the HID report descriptor for gadget setup.
type Descriptor struct {
	Format string `help:"raw writes the bytes, hex prints them" enum:"hex,raw" default:"hex"`
}

func (c *Descriptor) Run() error {
	return writeDescriptor(os.Stdout, c.Format)
}

func writeDescriptor(w io.Writer, format string) error {
	if format == "raw" {
		_, err := w.Write(keyboard.ReportDescriptor)
		return err
	}
	parts := make([]string, len(keyboard.ReportDescriptor))
	for i, b := range keyboard.ReportDescriptor {
		parts[i] = fmt.Sprintf("%02x", b)
	}
	_, err := fmt.Fprintln(w, strings.Join(parts, " "))
	return err
}
