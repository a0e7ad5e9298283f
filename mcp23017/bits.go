package mcp23017

import (
	"bytes"
	"fmt"
)

// PinFlags holds the contents of one 8 bit pin register. Index n belongs to pin n (bit n).
type PinFlags [NumPins]bool

func PinFlagsOf(b byte) (f PinFlags) {
	for i := range f {
		f[i] = (b>>uint(i))&1 != 0
	}
	return
}

func AllPins(val bool) (f PinFlags) {
	for i := range f {
		f[i] = val
	}
	return
}

func (f PinFlags) Byte() (b byte) {
	for i, set := range f {
		if set {
			b |= 1 << uint(i)
		}
	}
	return
}

// With returns a copy of f with one pin changed. Invalid pins leave the value unchanged.
func (f PinFlags) With(pin Pin, val bool) PinFlags {
	if pin.Valid() {
		f[pin] = val
	}
	return f
}

func (f PinFlags) Get(pin Pin) bool {
	return pin.Valid() && f[pin]
}

// String prints pin 7 first, like the register is written in the datasheet
func (f PinFlags) String() string {
	var buf bytes.Buffer
	for i := NumPins - 1; i >= 0; i-- {
		if f[i] {
			buf.WriteByte('1')
		} else {
			buf.WriteByte('0')
		}
	}
	return buf.String()
}

// Config is the content of the IOCON register. Bit 0 is unimplemented and always reads as 0.
type Config struct {
	Bank   bool // 1: registers grouped in separate banks
	Mirror bool // 1: INTA and INTB are internally connected
	SeqOp  bool // 1: sequential operation disabled
	DisSlw bool // 1: SDA slew rate control disabled
	HaEn   bool // 1: hardware address pins enabled (MCP23S17 only)
	Odr    bool // 1: INT pins are open-drain (overrides IntPol)
	IntPol bool // 1: INT pins active-high
}

func ConfigOf(b byte) Config {
	return Config{
		Bank:   b&IOCON_BIT_BANK != 0,
		Mirror: b&IOCON_BIT_MIRROR != 0,
		SeqOp:  b&IOCON_BIT_SEQOP != 0,
		DisSlw: b&IOCON_BIT_DISSLW != 0,
		HaEn:   b&IOCON_BIT_HAEN != 0,
		Odr:    b&IOCON_BIT_ODR != 0,
		IntPol: b&IOCON_BIT_INTPOL != 0,
	}
}

func (c Config) Byte() (b byte) {
	set := func(flag bool, bit byte) {
		if flag {
			b |= bit
		}
	}
	set(c.Bank, IOCON_BIT_BANK)
	set(c.Mirror, IOCON_BIT_MIRROR)
	set(c.SeqOp, IOCON_BIT_SEQOP)
	set(c.DisSlw, IOCON_BIT_DISSLW)
	set(c.HaEn, IOCON_BIT_HAEN)
	set(c.Odr, IOCON_BIT_ODR)
	set(c.IntPol, IOCON_BIT_INTPOL)
	return
}

func (c Config) BankMode() Bank {
	return BankOf(c.Bank)
}

func (c Config) String() string {
	return fmt.Sprintf("IOCON(%08b)", c.Byte())
}

// PortConfig is the configuration pushed to the registers of one port when opening a Device
type PortConfig struct {
	Direction        PinFlags // IODIR, true: input
	Polarity         PinFlags // IPOL, true: inverted
	InterruptEnable  PinFlags // GPINTEN
	DefaultValue     PinFlags // DEFVAL
	InterruptControl PinFlags // INTCON, true: compare against DEFVAL
	Config           Config   // IOCON
	PullUp           PinFlags // GPPU
}

// DefaultPortConfig contains the power-on reset values
var DefaultPortConfig = PortConfig{
	Direction: PinFlagsOf(INPUT),
}

// OutputPortConfig configures all pins as push-pull outputs without pull-ups or interrupts
func OutputPortConfig(bank Bank) PortConfig {
	return PortConfig{
		Direction: PinFlagsOf(OUTPUT),
		Config:    Config{Bank: bank == BankSeparate},
	}
}
