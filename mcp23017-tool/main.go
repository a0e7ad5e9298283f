package main

import (
	"flag"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/antongulenko/golib"
	"github.com/antongulenko/mcp23017/board"
	"github.com/antongulenko/mcp23017/mcp23017"
	log "github.com/sirupsen/logrus"
)

type commandFunc func(dev *mcp23017.Device) error

var (
	b         = board.DefaultBoard
	driver    mcp23017.Driver
	sleepTime = 400 * time.Millisecond
	rounds    = 0
	command   = "blink"
	portName  = "A"
	pin       = uint(0)
	inputMask = uint(0)
	pullUps   = uint(0)
	bankName  = "separate"
	commands  = map[string]commandFunc{
		"none":       func(*mcp23017.Device) error { return nil },
		"blink":      blink,
		"get":        getPin,
		"set":        pinCommand((*mcp23017.Device).SetPin),
		"reset":      pinCommand((*mcp23017.Device).ResetPin),
		"toggle":     pinCommand((*mcp23017.Device).TogglePin),
		"set-all":    portCommand((*mcp23017.Device).SetPins),
		"reset-all":  portCommand((*mcp23017.Device).ResetPins),
		"toggle-all": portCommand((*mcp23017.Device).TogglePins),
		"dump":       dumpRegisters,
	}
)

func main() {
	b.RegisterFlags()
	flag.StringVar(&command, "c", command, fmt.Sprintf("Command to execute, one of: %v", commandNames()))
	flag.DurationVar(&sleepTime, "sleep", sleepTime, "Sleep time between GPIO updates (blink command)")
	flag.IntVar(&rounds, "rounds", rounds, "Number of blink rounds, 0 blinks forever")
	flag.StringVar(&portName, "port", portName, "Port for pin commands (A or B)")
	flag.UintVar(&pin, "pin", pin, "Pin for pin commands (0 - 7)")
	flag.UintVar(&inputMask, "input", inputMask, "Bit mask of pins configured as input (both ports)")
	flag.UintVar(&pullUps, "pullup", pullUps, "Bit mask of input pins with enabled pull-up resistor (both ports)")
	flag.StringVar(&bankName, "bank", bankName, "Register bank mode: separate or common")
	flag.BoolVar(&driver.StrictBank, "strict-bank", driver.StrictBank, "Reject differing bank bits in the port configurations")
	flag.BoolVar(&driver.CheckPins, "check-pins", true, "Reject pin numbers outside 0 - 7")
	golib.RegisterLogFlags()
	flag.Parse()
	golib.ConfigureLogging()
	golib.Checkerr(doMain())
}

func commandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func doMain() error {
	commandFunc, ok := commands[command]
	if !ok {
		return fmt.Errorf("Unknown command %v, available commands: %v", command, commandNames())
	}
	conf, err := portConfig()
	if err != nil {
		return err
	}

	if err := b.Setup(); err != nil {
		return err
	}
	defer b.Cleanup()

	log.Printf("Configuring GPIO extension %#02x", b.I2cAddr)
	dev, err := driver.Open(b.Register(), conf, conf)
	if err != nil {
		return err
	}
	defer func() {
		golib.Printerr(dev.Close())
	}()
	return commandFunc(dev)
}

func portConfig() (mcp23017.PortConfig, error) {
	if inputMask > 0xFF || pullUps > 0xFF {
		return mcp23017.PortConfig{}, fmt.Errorf("Pin masks must be in 0x00 - 0xFF (input %#x, pull-up %#x)", inputMask, pullUps)
	}
	var bank mcp23017.Bank
	switch strings.ToLower(bankName) {
	case "separate":
		bank = mcp23017.BankSeparate
	case "common":
		bank = mcp23017.BankCommon
	default:
		return mcp23017.PortConfig{}, fmt.Errorf("Unknown bank mode %q (separate or common)", bankName)
	}
	conf := mcp23017.OutputPortConfig(bank)
	conf.Direction = mcp23017.PinFlagsOf(byte(inputMask))
	conf.PullUp = mcp23017.PinFlagsOf(byte(pullUps))
	return conf, nil
}

func selectedPort() (mcp23017.Port, error) {
	switch strings.ToUpper(portName) {
	case "A":
		return mcp23017.PortA, nil
	case "B":
		return mcp23017.PortB, nil
	default:
		return 0, fmt.Errorf("Unknown port %q (A or B)", portName)
	}
}

// blink alternates the pins of port A between high and low, the neighbouring pins in opposite states
func blink(dev *mcp23017.Device) error {
	state := mcp23017.High
	for round := 0; rounds <= 0 || round < rounds; round++ {
		for p := mcp23017.Pin0; p <= mcp23017.Pin7; p++ {
			pinState := state
			if p%2 == 1 {
				pinState = !state
			}
			if err := dev.SetPinState(mcp23017.PortA, p, pinState); err != nil {
				return err
			}
		}
		values, err := dev.GPIO(mcp23017.PortA)
		if err != nil {
			return err
		}
		log.Println("Port A values:", values)
		state = !state
		time.Sleep(sleepTime)
	}
	return nil
}

func getPin(dev *mcp23017.Device) error {
	port, err := selectedPort()
	if err != nil {
		return err
	}
	state, err := dev.PinState(port, mcp23017.Pin(pin))
	if err != nil {
		return err
	}
	log.Printf("Pin %v%v: %v", port, pin, state)
	return nil
}

func pinCommand(op func(*mcp23017.Device, mcp23017.Port, mcp23017.Pin) error) commandFunc {
	return func(dev *mcp23017.Device) error {
		port, err := selectedPort()
		if err != nil {
			return err
		}
		if err := op(dev, port, mcp23017.Pin(pin)); err != nil {
			return err
		}
		return getPin(dev)
	}
}

func portCommand(op func(*mcp23017.Device, mcp23017.Port) error) commandFunc {
	return func(dev *mcp23017.Device) error {
		port, err := selectedPort()
		if err != nil {
			return err
		}
		if err := op(dev, port); err != nil {
			return err
		}
		values, err := dev.GPIO(port)
		if err == nil {
			log.Printf("Port %v values: %v", port, values)
		}
		return err
	}
}

func dumpRegisters(dev *mcp23017.Device) error {
	log.Printf("Register layout: %v bank mode", dev.Bank())
	for reg := mcp23017.IODIR; reg <= mcp23017.OLAT; reg++ {
		var values [2]byte
		for i, port := range []mcp23017.Port{mcp23017.PortA, mcp23017.PortB} {
			val, err := dev.ReadRegister(port, reg)
			if err != nil {
				return err
			}
			values[i] = val
		}
		log.Printf("%-8v A: %08b  B: %08b", reg, values[0], values[1])
	}
	return nil
}
