//go:build windows

package main

import (
	"log/slog"
	"os"

	"github.com/Alia5/macropad/internal/util"
)

func init() {
	if args, injected := util.StartupArgs(os.Args, util.IsRunFromGUI()); injected {
		slog.Info("Detected GUI startup, starting the simulator")
		os.Args = args
	}
}
