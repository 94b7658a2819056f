package util

// SimCommand is what a double-clicked keypad binary runs: the simulator is
// the only command that is useful without a shell.
const SimCommand = "sim"

// StartupArgs prepends the sim command to args when the binary was launched
// from a file manager without a command. args includes the program name.
func StartupArgs(args []string, fromGUI bool) ([]string, bool) {
	if !fromGUI || len(args) > 1 {
		return args, false
	}
	out := make([]string, 0, len(args)+1)
	out = append(out, args[0], SimCommand)
	return out, true
}
