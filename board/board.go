package board

import (
	"flag"
	"fmt"
	"io"

	"github.com/antongulenko/golib"
	"github.com/antongulenko/mcp23017/bus"
	"github.com/antongulenko/mcp23017/ft260"
	"github.com/antongulenko/mcp23017/mcp23017"
	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

const (
	TransportFt260  = "ft260"
	TransportLinux  = "linux"
	TransportPeriph = "periph"
	TransportDummy  = "dummy"
)

var DefaultBoard = Board{
	Transport:       TransportFt260,
	I2cFreq:         uint(400),
	I2cRequestQueue: 20,
	I2cAddr:         uint(mcp23017.ADDRESS),
}

// Board opens the I2C bus that the GPIO expander is connected to
type Board struct {
	Transport       string
	UsbDevice       string // FT260 USB path
	LinuxBus        int    // Index of /dev/i2c-N
	PeriphBus       string // periph.io bus name, empty for the first bus
	I2cFreq         uint
	I2cAddr         uint
	I2cRequestQueue int
	NoI2cSequencer  bool
	TraceI2c        bool

	bus       bus.I2cBus
	closers   []io.Closer
	sequencer *bus.Sequencer
}

func (b *Board) RegisterFlags() {
	flag.StringVar(&b.Transport, "transport", b.Transport, fmt.Sprintf("I2C transport, one of: %v, %v, %v, %v", TransportFt260, TransportLinux, TransportPeriph, TransportDummy))
	flag.StringVar(&b.UsbDevice, "dev", b.UsbDevice, "Specify a USB path for FT260")
	flag.IntVar(&b.LinuxBus, "i2c-bus", b.LinuxBus, "Index of the Linux I2C bus (/dev/i2c-N)")
	flag.StringVar(&b.PeriphBus, "periph-bus", b.PeriphBus, "Name of the periph.io I2C bus (empty for the first available bus)")
	flag.UintVar(&b.I2cFreq, "freq", b.I2cFreq, "The I2C bus frequency in kHz for FT260 (60 - 3400)")
	flag.UintVar(&b.I2cAddr, "addr", b.I2cAddr, fmt.Sprintf("I2C address of the GPIO expander (%#02x - %#02x)", mcp23017.ADDRESS, mcp23017.MAX_ADDRESS))
	flag.BoolVar(&b.NoI2cSequencer, "no-i2c-sequencer", b.NoI2cSequencer, "Disable the extra goroutine for sequencing I2C commands")
	flag.BoolVar(&b.TraceI2c, "trace-i2c", b.TraceI2c, "Log every I2C transaction (debug level)")
}

func (b *Board) Setup() error {
	if b.I2cAddr < uint(mcp23017.ADDRESS) || b.I2cAddr > uint(mcp23017.MAX_ADDRESS) {
		return fmt.Errorf("Invalid MCP23017 address %#02x (must be %#02x - %#02x)", b.I2cAddr, mcp23017.ADDRESS, mcp23017.MAX_ADDRESS)
	}
	raw, err := b.openTransport()
	if err != nil {
		return err
	}
	if b.TraceI2c {
		raw = bus.Tracer{Bus: raw}
	}
	if b.NoI2cSequencer {
		b.bus = raw
	} else {
		b.sequencer = bus.NewSequencer(raw, b.I2cRequestQueue)
		b.bus = b.sequencer
	}
	log.Printf("Successfully initialized %v I2C transport", b.Transport)
	return nil
}

func (b *Board) openTransport() (bus.I2cBus, error) {
	switch b.Transport {
	case TransportDummy:
		log.Println("Dummy transport: simulating the GPIO expander in memory")
		return bus.NewMemory(byte(b.I2cAddr)), nil
	case TransportFt260:
		usb, err := ft260.OpenPath(b.UsbDevice)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, usb)
		if err := usb.Configure(b.I2cFreq); err != nil {
			return nil, err
		}
		return usb, nil
	case TransportLinux:
		log.Printf("Using Linux I2C bus /dev/i2c-%v", b.LinuxBus)
		return bus.SMBus{Index: b.LinuxBus}, nil
	case TransportPeriph:
		if _, err := host.Init(); err != nil {
			return nil, err
		}
		periphBus, err := i2creg.Open(b.PeriphBus)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, periphBus)
		log.Printf("Opened periph.io I2C bus %v", periphBus)
		return bus.FromPeriph(periphBus), nil
	default:
		return nil, fmt.Errorf("Unknown I2C transport %q", b.Transport)
	}
}

func (b *Board) Bus() bus.I2cBus {
	return b.bus
}

// Register returns the register transport of the configured GPIO expander.
// It must be handed to exactly one mcp23017.Device.
func (b *Board) Register() bus.RegisterDevice {
	return bus.RegisterDevice{
		Bus:  b.bus,
		Addr: byte(b.I2cAddr),
	}
}

func (b *Board) Cleanup() {
	if b.sequencer != nil {
		b.sequencer.Stop()
		b.sequencer = nil
	}
	for _, closer := range b.closers {
		golib.Printerr(closer.Close())
	}
	b.closers = nil
	b.bus = nil
}
