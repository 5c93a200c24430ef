package gadget

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ardnew/movepad/hid"
	"github.com/ardnew/movepad/pkg"
)

// Gadget identity written by Install.
const (
	VendorID     = 0x1d6b // Linux Foundation
	ProductID    = 0x0104 // Multifunction Composite Gadget
	BCDUSB       = 0x0200
	Manufacturer = "movepad"
	Product      = "movepad keyboard"
	SerialNumber = "0001"
	MaxPowerMA   = 100
)

// Function and configuration names under the gadget directory.
const (
	functionName = "hid.usb0"
	configName   = "c.1"
	langID       = "0x409"
)

// attr is one configfs attribute relative to the gadget directory.
type attr struct {
	path  string
	value []byte
}

func hex16(v uint16) []byte { return []byte("0x" + strconv.FormatUint(uint64(v), 16)) }

// attrs returns the gadget attributes in the order the kernel expects them
// written: identity, strings, configuration, then the function.
func attrs() []attr {
	fn := filepath.Join("functions", functionName)
	cfg := filepath.Join("configs", configName)
	return []attr{
		{"idVendor", hex16(VendorID)},
		{"idProduct", hex16(ProductID)},
		{"bcdUSB", hex16(BCDUSB)},
		{filepath.Join("strings", langID, "manufacturer"), []byte(Manufacturer)},
		{filepath.Join("strings", langID, "product"), []byte(Product)},
		{filepath.Join("strings", langID, "serialnumber"), []byte(SerialNumber)},
		{filepath.Join(cfg, "strings", langID, "configuration"), []byte("keyboard")},
		{filepath.Join(cfg, "MaxPower"), []byte(strconv.Itoa(MaxPowerMA))},
		{filepath.Join(fn, "protocol"), []byte(strconv.Itoa(hid.ProtocolKeyboard))},
		{filepath.Join(fn, "subclass"), []byte(strconv.Itoa(hid.SubclassBoot))},
		{filepath.Join(fn, "report_length"), []byte(strconv.Itoa(hid.ReportSize))},
		{filepath.Join(fn, "report_desc"), hid.ReportDescriptor},
	}
}

// Install creates the keyboard gadget under dir and binds it to udc. A
// gadget already bound to a controller is left untouched.
func Install(dir, udc string) error {
	udcPath := filepath.Join(dir, "UDC")
	if data, err := os.ReadFile(udcPath); err == nil {
		if bound := strings.TrimSpace(string(data)); bound != "" {
			pkg.LogInfo(pkg.ComponentHAL, "gadget already bound",
				"gadget", dir,
				"udc", bound)
			return nil
		}
	}

	for _, a := range attrs() {
		path := filepath.Join(dir, a.path)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("gadget: mkdir %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, a.value, 0o644); err != nil {
			return fmt.Errorf("gadget: write %s: %w", a.path, err)
		}
	}

	link := filepath.Join(dir, "configs", configName, functionName)
	target := filepath.Join(dir, "functions", functionName)
	if err := os.Symlink(target, link); err != nil && !errors.Is(err, os.ErrExist) {
		return fmt.Errorf("gadget: link %s: %w", functionName, err)
	}

	if err := os.WriteFile(udcPath, []byte(udc), 0o644); err != nil {
		return fmt.Errorf("gadget: bind %s: %w", udc, err)
	}

	pkg.LogInfo(pkg.ComponentHAL, "gadget installed",
		"gadget", dir,
		"udc", udc,
		"function", functionName)
	return nil
}
