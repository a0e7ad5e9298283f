package mcp23017

import "fmt"

// Default bits all zero, except IODIR

// ============== General IO configuration
// IODIR: 0: output, 1: input
// IPOL: 1: GPIO reflects inverted value of the pin
// GPIO: Reading reads pin values. Writing modifies to OLAT.
// OLAT: Output values ("latches")
// GPPU: 1: enable internal pull-up for input pins (100 kOhm)

// ============== Interrupt configuration
// GPINTEN: 1: enable interrupt-on-change. Pins must also be input.
// DEFVAL: opposite value on input pin will cause interrupt (if INTCON is set)
// INTCON: for interrupt: 0: pins compared to previous value 1: pins compared to DEFVAL
// INTF: (read only) interrupt flags. Cleared when INTCAP or GPIO is read.
// INTCAP: (read only) state of pins when interrupt occurs. Remains unchanged until read (or GPIO is read)

// Register is the base address of a register, which is also the address of its port A instance.
type Register byte

const (
	IODIR = Register(iota)
	IPOL
	GPINTEN
	DEFVAL
	INTCON
	IOCON
	GPPU
	INTF
	INTCAP
	GPIO
	OLAT

	NumRegisters = int(OLAT) + 1
)

// Offsets of the port B register block relative to port A
const (
	separateBankOffset = 10
	commonBankOffset   = 1
)

var registerNames = [NumRegisters]string{"IODIR", "IPOL", "GPINTEN", "DEFVAL", "INTCON", "IOCON", "GPPU", "INTF", "INTCAP", "GPIO", "OLAT"}

func (r Register) String() string {
	if int(r) < len(registerNames) {
		return registerNames[r]
	}
	return fmt.Sprintf("Register(%#02x)", byte(r))
}

type Port byte

const (
	PortA = Port(iota)
	PortB
)

func (p Port) String() string {
	switch p {
	case PortA:
		return "A"
	case PortB:
		return "B"
	default:
		return fmt.Sprintf("Port(%v)", byte(p))
	}
}

// Bank is the register layout selected by the BANK bit in IOCON.
// The layout is global for the chip, although both ports carry their own IOCON copy.
type Bank byte

const (
	BankCommon   = Bank(0) // Port A and B registers interleaved (power-on default)
	BankSeparate = Bank(1) // Port A and B registers in separate blocks
)

func (b Bank) String() string {
	if b == BankSeparate {
		return "separate"
	}
	return "common"
}

func BankOf(bankBit bool) Bank {
	if bankBit {
		return BankSeparate
	}
	return BankCommon
}

// Pin is a bit index 0..7 inside the registers of one port.
type Pin byte

const (
	Pin0 = Pin(iota)
	Pin1
	Pin2
	Pin3
	Pin4
	Pin5
	Pin6
	Pin7

	NumPins = 8
)

func (p Pin) Valid() bool {
	return p < NumPins
}

type PinState bool

const (
	Low  = PinState(false)
	High = PinState(true)
)

func (s PinState) String() string {
	if s {
		return "HIGH"
	}
	return "LOW"
}

const (
	_                = byte(1 << iota)
	IOCON_BIT_INTPOL // 1: INT pins active-high 0: INT pins active-low
	IOCON_BIT_ODR    // (overrides INTPOL) 1: INT pins are open-drain 0: active output (INTPOL sets polarity)
	IOCON_BIT_HAEN   // Enable hardware address pins (zero otherwise)
	IOCON_BIT_DISSLW // 0: slew rate control for SDA output enabled 1: disabled
	IOCON_BIT_SEQOP  // 0: sequential operation enabled 1: disabled (address stays after read/write)
	IOCON_BIT_MIRROR // 0: INT pins not mirrored 1: INT pins mirrored (both high if one is high)
	IOCON_BIT_BANK   // 1: registers grouped in banks 0: registers paired
)

const (
	ADDRESS     = byte(0x20) // 0010 0000
	MAX_ADDRESS = byte(0x27) // 0010 0111

	// Values for IODIR registers
	INPUT  = byte(0xFF)
	OUTPUT = byte(0x00)

	ALL_PINS = byte(0xFF)
	NO_PINS  = byte(0x00)
)

// DeviceAddress returns the I2C address selected by the strapping of the A2, A1 and A0 pins
func DeviceAddress(a2, a1, a0 bool) byte {
	addr := ADDRESS
	if a2 {
		addr |= 4
	}
	if a1 {
		addr |= 2
	}
	if a0 {
		addr |= 1
	}
	return addr
}

// PinMask does not check the pin range. Pins >= 8 produce an empty mask.
func PinMask(pin Pin) byte {
	return byte(1) << pin
}

// RegisterAddress maps a register of one port to its physical address in the given bank mode
func RegisterAddress(port Port, reg Register, bank Bank) byte {
	addr := byte(reg)
	if port == PortB {
		if bank == BankSeparate {
			addr += separateBankOffset
		} else {
			addr += commonBankOffset
		}
	}
	return addr
}
