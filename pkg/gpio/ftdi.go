package gpio

import (
	"fmt"

	"github.com/google/gousb"
)

const (
	ftdiVendorID  = 0x0403
	ftdiProductID = 0x6001 // FT232R

	ftdiReqReset      = 0x00
	ftdiReqSetBaud    = 0x03
	ftdiReqSetBitmode = 0x0B
	ftdiReqReadPins   = 0x0C

	ftdiBitmodeBitbang = 0x01
	ftdiIndexPortA     = 1

	// 9600 baud divisor; bit-bang clocks at 16x the nominal rate, still far
	// slower than any sane TCK requirement.
	ftdiBaudDivisor = 0x4138
)

// FTDIPort drives the eight FT232R data lines in asynchronous bit-bang mode
// over USB. It is the cheapest widely available way to get a handful of
// host-controlled pins onto a target header.
//
// Port operations are infallible by contract, so USB failures are held as a
// sticky error: the first failure freezes the port (reads return false,
// writes are dropped) and Err reports it once the scan is over.
type FTDIPort struct {
	ctx     *gousb.Context
	dev     *gousb.Device
	intf    *gousb.Interface
	release func()
	out     *gousb.OutEndpoint

	levels   uint8 // last driven levels, one bit per line
	dirs     uint8 // direction mask, 1 = output
	reserved map[Pin]struct{}
	err      error
}

// OpenFTDIPort opens the first FT232R on the bus and puts it in asynchronous
// bit-bang mode with every line configured as an input.
func OpenFTDIPort(reserved []Pin) (*FTDIPort, error) {
	ctx := gousb.NewContext()
	dev, err := ctx.OpenDeviceWithVIDPID(ftdiVendorID, ftdiProductID)
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("gpio: opening FT232R: %w", err)
	}
	if dev == nil {
		ctx.Close()
		return nil, fmt.Errorf("gpio: no FT232R (%04x:%04x) found", ftdiVendorID, ftdiProductID)
	}
	if err := dev.SetAutoDetach(true); err != nil {
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("gpio: detaching kernel driver: %w", err)
	}
	intf, release, err := dev.DefaultInterface()
	if err != nil {
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("gpio: claiming interface: %w", err)
	}
	out, err := intf.OutEndpoint(2)
	if err != nil {
		release()
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("gpio: opening bulk-out endpoint: %w", err)
	}

	p := &FTDIPort{
		ctx:      ctx,
		dev:      dev,
		intf:     intf,
		release:  release,
		out:      out,
		levels:   0xFF, // idle lines read high through the chip's weak pulls
		reserved: make(map[Pin]struct{}, len(reserved)),
	}
	for _, r := range reserved {
		p.reserved[r] = struct{}{}
	}

	if _, err := dev.Control(gousb.ControlOut|gousb.ControlVendor, ftdiReqReset, 0, ftdiIndexPortA, nil); err != nil {
		p.Close()
		return nil, fmt.Errorf("gpio: resetting FT232R: %w", err)
	}
	if _, err := dev.Control(gousb.ControlOut|gousb.ControlVendor, ftdiReqSetBaud, ftdiBaudDivisor, ftdiIndexPortA, nil); err != nil {
		p.Close()
		return nil, fmt.Errorf("gpio: setting bit-bang rate: %w", err)
	}
	if err := p.applyBitmode(); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

// Close leaves bit-bang mode and releases the USB device.
func (p *FTDIPort) Close() error {
	if p.dev != nil {
		// Mode 0 restores normal UART operation.
		p.dev.Control(gousb.ControlOut|gousb.ControlVendor, ftdiReqSetBitmode, 0, ftdiIndexPortA, nil)
	}
	if p.release != nil {
		p.release()
	}
	var err error
	if p.dev != nil {
		err = p.dev.Close()
	}
	if p.ctx != nil {
		if cerr := p.ctx.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Err reports the first USB failure seen since the port was opened, if any.
func (p *FTDIPort) Err() error {
	return p.err
}

func (p *FTDIPort) fail(op string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("gpio: %s: %w", op, err)
	}
}

func (p *FTDIPort) applyBitmode() error {
	value := uint16(ftdiBitmodeBitbang)<<8 | uint16(p.dirs)
	if _, err := p.dev.Control(gousb.ControlOut|gousb.ControlVendor, ftdiReqSetBitmode, value, ftdiIndexPortA, nil); err != nil {
		return fmt.Errorf("gpio: setting direction mask: %w", err)
	}
	return nil
}

func (p *FTDIPort) flushLevels() {
	if p.err != nil {
		return
	}
	if _, err := p.out.Write([]byte{p.levels}); err != nil {
		p.fail("writing pin levels", err)
	}
}

func (p *FTDIPort) PinCount() int {
	return 8
}

func (p *FTDIPort) usable(pin Pin) bool {
	if pin > 7 || p.err != nil {
		return false
	}
	_, res := p.reserved[pin]
	return !res
}

func (p *FTDIPort) ConfigureInput(pin Pin) {
	if !p.usable(pin) {
		return
	}
	p.dirs &^= 1 << pin
	p.levels |= 1 << pin
	if err := p.applyBitmode(); err != nil {
		p.fail("configuring input", err)
		return
	}
	p.flushLevels()
}

func (p *FTDIPort) ConfigureOutput(pin Pin) {
	if !p.usable(pin) {
		return
	}
	p.dirs |= 1 << pin
	p.levels &^= 1 << pin
	if err := p.applyBitmode(); err != nil {
		p.fail("configuring output", err)
		return
	}
	p.flushLevels()
}

func (p *FTDIPort) Set(pin Pin) {
	if !p.usable(pin) {
		return
	}
	p.levels |= 1 << pin
	p.flushLevels()
}

func (p *FTDIPort) Clear(pin Pin) {
	if !p.usable(pin) {
		return
	}
	p.levels &^= 1 << pin
	p.flushLevels()
}

func (p *FTDIPort) Read(pin Pin) bool {
	if !p.usable(pin) {
		return false
	}
	buf := make([]byte, 1)
	if _, err := p.dev.Control(gousb.ControlIn|gousb.ControlVendor, ftdiReqReadPins, 0, ftdiIndexPortA, buf); err != nil {
		p.fail("reading pin levels", err)
		return false
	}
	return buf[0]&(1<<pin) != 0
}
