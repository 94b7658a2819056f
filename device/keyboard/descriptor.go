package keyboard

// ReportDescriptor describes the reports built by InputState and
// ConsumerState. Write it to the gadget's report_desc when setting up a
// configfs HID function.
var ReportDescriptor = []byte{
	0x05, 0x01, // Usage Page (Generic Desktop)
	0x09, 0x06, // Usage (Keyboard)
	0xA1, 0x01, // Collection (Application)
	0x85, 0x01, //   Report ID (1)
	0x05, 0x07, //   Usage Page (Keyboard/Keypad)
	0x19, 0xE0, //   Usage Minimum (Left Control)
	0x29, 0xE7, //   Usage Maximum (Right GUI)
	0x15, 0x00, //   Logical Minimum (0)
	0x25, 0x01, //   Logical Maximum (1)
	0x75, 0x01, //   Report Size (1)
	0x95, 0x08, //   Report Count (8)
	0x81, 0x02, //   Input (Data, Var, Abs)
	0x75, 0x08, //   Report Size (8)
	0x95, 0x01, //   Report Count (1)
	0x81, 0x01, //   Input (Const)
	0x19, 0x00, //   Usage Minimum (0)
	0x29, 0xFF, //   Usage Maximum (255)
	0x75, 0x01, //   Report Size (1)
	0x96, 0x00, 0x01, // Report Count (256)
	0x81, 0x02, //   Input (Data, Var, Abs)
	0xC0, // End Collection
	0x05, 0x0C, // Usage Page (Consumer)
	0x09, 0x01, // Usage (Consumer Control)
	0xA1, 0x01, // Collection (Application)
	0x85, 0x02, //   Report ID (2)
	0x15, 0x00, //   Logical Minimum (0)
	0x26, 0xFF, 0x03, // Logical Maximum (1023)
	0x19, 0x00, //   Usage Minimum (0)
	0x2A, 0xFF, 0x03, // Usage Maximum (1023)
	0x75, 0x10, //   Report Size (16)
	0x95, 0x04, //   Report Count (4)
	0x81, 0x00, //   Input (Data, Array, Abs)
	0xC0, // End Collection
}
