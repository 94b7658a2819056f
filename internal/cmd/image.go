package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	toml "github.com/pelletier/go-toml"
	"github.com/tidwall/pretty"
	yaml "gopkg.in/yaml.v3"

	"github.com/Alia5/macropad/internal/config"
	"github.com/Alia5/macropad/internal/configpaths"
	"github.com/Alia5/macropad/macro"
	"github.com/Alia5/macropad/storage"
)

// ImageCommand groups offline operations on an EEPROM image file.
type ImageCommand struct {
	Dump   ImageDump   `cmd:"" help:"Print every byte of the image as decimals"`
	Export ImageExport `cmd:"" help:"Decode the stored macros"`
	Reset  ImageReset  `cmd:"" help:"Erase the image"`
}

type ImageDump struct {
	Storage config.Storage `embed:"" prefix:"storage."`
}

func (c *ImageDump) Run(logger *slog.Logger) error {
	st, closeFn, err := openStore(c.Storage, logger)
	if err != nil {
		return err
	}
	defer closeFn()
	return st.Dump(os.Stdout)
}

type ImageExport struct {
	Storage config.Storage `embed:"" prefix:"storage."`
	Format  string         `help:"Output format" enum:"json,yaml,toml" default:"json"`
	Output  string         `help:"Write to this file instead of stdout"`
}

type exportAction struct {
	Kind    string `json:"kind" yaml:"kind" toml:"kind"`
	Payload uint16 `json:"payload" yaml:"payload" toml:"payload"`
}

type exportSlot struct {
	Index   int            `json:"index" yaml:"index" toml:"index"`
	Type    string         `json:"type" yaml:"type" toml:"type"`
	Text    string         `json:"text,omitempty" yaml:"text,omitempty" toml:"text,omitempty"`
	Actions []exportAction `json:"actions,omitempty" yaml:"actions,omitempty" toml:"actions,omitempty"`
}

type exportDoc struct {
	Slots    int          `json:"slots" yaml:"slots" toml:"slots"`
	Occupied []exportSlot `json:"occupied" yaml:"occupied" toml:"occupied"`
}

// exportStore lists the occupied slots of st.
func exportStore(st *storage.Store) exportDoc {
	doc := exportDoc{Slots: st.Len(), Occupied: []exportSlot{}}
	for i := 0; i < st.Len(); i++ {
		m, ok := st.Get(i)
		if !ok {
			continue
		}
		slot := exportSlot{Index: i, Type: m.Type().String()}
		switch v := m.(type) {
		case *macro.TextMacro:
			slot.Text = v.Text()
		case *macro.KeyMacro:
			for _, a := range v.Actions() {
				slot.Actions = append(slot.Actions, exportAction{Kind: a.Kind.String(), Payload: a.Payload})
			}
		}
		doc.Occupied = append(doc.Occupied, slot)
	}
	return doc
}

func marshalExport(doc exportDoc, format string) ([]byte, error) {
	switch format {
	case "json":
		data, err := json.Marshal(doc)
		if err != nil {
			return nil, err
		}
		return pretty.Pretty(data), nil
	case "yaml":
		return yaml.Marshal(doc)
	case "toml":
		return toml.Marshal(doc)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func (c *ImageExport) Run(logger *slog.Logger) error {
	st, closeFn, err := openStore(c.Storage, logger)
	if err != nil {
		return err
	}
	defer closeFn()

	data, err := marshalExport(exportStore(st), normalizeFormat(c.Format))
	if err != nil {
		return err
	}
	if c.Output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := configpaths.EnsureDir(c.Output); err != nil {
		return err
	}
	return os.WriteFile(c.Output, data, 0o644)
}

type ImageReset struct {
	Storage config.Storage `embed:"" prefix:"storage."`
	Yes     bool           `help:"Confirm erasing every macro"`
}

func (c *ImageReset) Run(logger *slog.Logger) error {
	if !c.Yes {
		return errors.New("refusing to erase the image without --yes")
	}
	if c.Storage.Image == "" {
		return errors.New("no image file configured")
	}
	st, closeFn, err := openStore(c.Storage, logger)
	if err != nil {
		return err
	}
	if err := st.Reset(); err != nil {
		_ = closeFn()
		return err
	}
	logger.Info("EEPROM image erased", "image", c.Storage.Image)
	return closeFn()
}
