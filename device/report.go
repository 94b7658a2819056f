// Package device holds what the keypad's HID devices have in common.
package device

// ReportBuilder is a device state that encodes itself as one input report,
// report ID first.
type ReportBuilder interface {
	BuildReport() []byte
}
