// Package gadget implements the HID transport for Linux USB gadget mode.
//
// The board enumerates as a boot keyboard through the kernel's HID gadget
// function (CONFIG_USB_CONFIGFS_F_HID). Reports are written to the function's
// character device, normally /dev/hidg0, with the report ID prefix the
// [hid.ReportDescriptor] declares.
//
// # Host Readiness
//
// The transport reads /sys/class/udc/<udc>/state and is ready only while the
// controller is "configured". The state is cached briefly so a script's
// reports do not each hit sysfs; a failed write invalidates the cache.
//
// # Gadget Setup
//
// [Install] creates the gadget in configfs when the system does not already
// provide one:
//
//	/sys/kernel/config/usb_gadget/movepad/
//	├── idVendor, idProduct, bcdUSB
//	├── strings/0x409/{manufacturer,product,serialnumber}
//	├── configs/c.1/hid.usb0 -> ../../functions/hid.usb0
//	├── functions/hid.usb0/{protocol,subclass,report_length,report_desc}
//	└── UDC
//
// # Usage
//
//	t, err := gadget.Open(gadget.Config{
//	    Device:   "/dev/hidg0",
//	    Configfs: "/sys/kernel/config/usb_gadget/movepad",
//	})
//	if err != nil {
//	    return err
//	}
//	kb := hid.NewKeyboard(t)
package gadget
