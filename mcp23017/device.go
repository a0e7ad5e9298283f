package mcp23017

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

var (
	ErrClosed       = errors.New("mcp23017: device is closed")
	ErrInvalidPin   = errors.New("mcp23017: invalid pin")
	ErrBankMismatch = errors.New("mcp23017: port A and port B configure different bank modes")
)

// RegisterIO transfers single register bytes of one device. bus.RegisterDevice implements it.
type RegisterIO interface {
	ReadRegister(reg byte) (byte, error)
	WriteRegister(reg byte, val byte) error
}

type Driver struct {
	// Fail with ErrBankMismatch if port A and B configure different BANK bits.
	// Otherwise the bits are combined with a logical AND.
	StrictBank bool

	// Fail with ErrInvalidPin for pins outside 0..7. Otherwise the resulting pin mask is empty.
	CheckPins bool
}

// Device owns the register transport passed to Open; nothing else may use it afterwards.
// A Device is not safe for concurrent use. Pin operations read and then write the GPIO register
// in two bus transactions, so any other writer in between gets overwritten.
type Device struct {
	io          RegisterIO
	bank        Bank
	checkPins   bool
	initialized bool
}

func New(io RegisterIO, portA, portB PortConfig) (*Device, error) {
	return (&Driver{}).Open(io, portA, portB)
}

// Open writes both port configurations to the device, in the order
// IODIR, IPOL, GPINTEN, DEFVAL, INTCON, GPPU, IOCON for port A, then port B.
func (d *Driver) Open(io RegisterIO, portA, portB PortConfig) (*Device, error) {
	if portA.Config.Bank != portB.Config.Bank {
		if d.StrictBank {
			return nil, ErrBankMismatch
		}
		log.Warnf("MCP23017: port A configures %v bank mode, port B %v, using %v",
			portA.Config.BankMode(), portB.Config.BankMode(), BankCommon)
	}
	dev := &Device{
		io:        io,
		bank:      BankOf(portA.Config.Bank && portB.Config.Bank),
		checkPins: d.CheckPins,
	}
	log.Debugf("Configuring MCP23017 registers (%v bank mode)", dev.bank)
	if err := dev.configurePort(PortA, portA); err != nil {
		return nil, err
	}
	if err := dev.configurePort(PortB, portB); err != nil {
		return nil, err
	}
	dev.initialized = true
	return dev, nil
}

func (d *Device) configurePort(port Port, conf PortConfig) (err error) {
	d.writeConfigValue(&err, port, IODIR, conf.Direction.Byte())
	d.writeConfigValue(&err, port, IPOL, conf.Polarity.Byte())
	d.writeConfigValue(&err, port, GPINTEN, conf.InterruptEnable.Byte())
	d.writeConfigValue(&err, port, DEFVAL, conf.DefaultValue.Byte())
	d.writeConfigValue(&err, port, INTCON, conf.InterruptControl.Byte())
	d.writeConfigValue(&err, port, GPPU, conf.PullUp.Byte())
	d.writeConfigValue(&err, port, IOCON, conf.Config.Byte())
	return
}

func (d *Device) writeConfigValue(outErr *error, port Port, reg Register, val byte) {
	if *outErr == nil {
		*outErr = d.writeRegister(port, reg, val)
	}
}

// Close marks the device as deinitialized. No register is written, the chip keeps its state.
func (d *Device) Close() error {
	d.initialized = false
	return nil
}

func (d *Device) Initialized() bool {
	return d.initialized
}

func (d *Device) Bank() Bank {
	return d.bank
}

func (d *Device) ReadRegister(port Port, reg Register) (byte, error) {
	if !d.initialized {
		return 0, ErrClosed
	}
	return d.readRegister(port, reg)
}

func (d *Device) WriteRegister(port Port, reg Register, val byte) error {
	if !d.initialized {
		return ErrClosed
	}
	return d.writeRegister(port, reg, val)
}

func (d *Device) readRegister(port Port, reg Register) (byte, error) {
	addr := RegisterAddress(port, reg, d.bank)
	val, err := d.io.ReadRegister(addr)
	if err != nil {
		return 0, fmt.Errorf("Failed to read %v of port %v (address %#02x): %w", reg, port, addr, err)
	}
	log.Debugf("MCP23017: read %v%v (%#02x) = %08b", reg, port, addr, val)
	return val, nil
}

func (d *Device) writeRegister(port Port, reg Register, val byte) error {
	addr := RegisterAddress(port, reg, d.bank)
	log.Debugf("MCP23017: write %v%v (%#02x) = %08b", reg, port, addr, val)
	if err := d.io.WriteRegister(addr, val); err != nil {
		return fmt.Errorf("Failed to write %v of port %v (address %#02x): %w", reg, port, addr, err)
	}
	return nil
}

func (d *Device) readFlags(port Port, reg Register) (PinFlags, error) {
	val, err := d.ReadRegister(port, reg)
	return PinFlagsOf(val), err
}

func (d *Device) Direction(port Port) (PinFlags, error) {
	return d.readFlags(port, IODIR)
}

func (d *Device) SetDirection(port Port, val PinFlags) error {
	return d.WriteRegister(port, IODIR, val.Byte())
}

func (d *Device) Polarity(port Port) (PinFlags, error) {
	return d.readFlags(port, IPOL)
}

func (d *Device) SetPolarity(port Port, val PinFlags) error {
	return d.WriteRegister(port, IPOL, val.Byte())
}

func (d *Device) InterruptEnable(port Port) (PinFlags, error) {
	return d.readFlags(port, GPINTEN)
}

func (d *Device) SetInterruptEnable(port Port, val PinFlags) error {
	return d.WriteRegister(port, GPINTEN, val.Byte())
}

func (d *Device) DefaultValue(port Port) (PinFlags, error) {
	return d.readFlags(port, DEFVAL)
}

func (d *Device) SetDefaultValue(port Port, val PinFlags) error {
	return d.WriteRegister(port, DEFVAL, val.Byte())
}

func (d *Device) InterruptControl(port Port) (PinFlags, error) {
	return d.readFlags(port, INTCON)
}

func (d *Device) SetInterruptControl(port Port, val PinFlags) error {
	return d.WriteRegister(port, INTCON, val.Byte())
}

func (d *Device) Config(port Port) (Config, error) {
	val, err := d.ReadRegister(port, IOCON)
	return ConfigOf(val), err
}

// SetConfig also switches the register layout used for all following accesses
// to the bank mode written here.
func (d *Device) SetConfig(port Port, conf Config) error {
	if err := d.WriteRegister(port, IOCON, conf.Byte()); err != nil {
		return err
	}
	if bank := conf.BankMode(); bank != d.bank {
		log.Debugf("MCP23017: switching from %v to %v bank mode", d.bank, bank)
		d.bank = bank
	}
	return nil
}

func (d *Device) PullUp(port Port) (PinFlags, error) {
	return d.readFlags(port, GPPU)
}

func (d *Device) SetPullUp(port Port, val PinFlags) error {
	return d.WriteRegister(port, GPPU, val.Byte())
}

// InterruptFlags is read-only on the chip
func (d *Device) InterruptFlags(port Port) (PinFlags, error) {
	return d.readFlags(port, INTF)
}

// InterruptCapture is read-only on the chip. Reading it clears the interrupt.
func (d *Device) InterruptCapture(port Port) (PinFlags, error) {
	return d.readFlags(port, INTCAP)
}

func (d *Device) GPIO(port Port) (PinFlags, error) {
	return d.readFlags(port, GPIO)
}

func (d *Device) SetGPIO(port Port, val PinFlags) error {
	return d.WriteRegister(port, GPIO, val.Byte())
}

func (d *Device) OutputLatch(port Port) (PinFlags, error) {
	return d.readFlags(port, OLAT)
}

func (d *Device) SetOutputLatch(port Port, val PinFlags) error {
	return d.WriteRegister(port, OLAT, val.Byte())
}
