package bus

import (
	"fmt"

	"github.com/platinasystems/i2c"
)

// SMBus uses the Linux i2c-dev interface (/dev/i2c-<Index>). Every transfer opens the bus,
// selects the slave and executes one SMBus transaction.
type SMBus struct {
	Index int
}

func (s SMBus) do(addr byte, rw i2c.RW, cmd uint8, size i2c.SMBusSize, data *i2c.SMBusData) (err error) {
	if err = CheckAddress(addr); err != nil {
		return
	}
	var bus i2c.Bus
	if err = bus.Open(s.Index); err != nil {
		return
	}
	defer bus.Close()
	if err = bus.ForceSlaveAddress(int(addr)); err != nil {
		return
	}
	return bus.Do(rw, cmd, size, data)
}

// blockLimit is the payload of an SMBus block transfer, data[0] holds the length
const blockLimit = 32

func (s SMBus) I2cWrite(addr byte, data ...byte) error {
	var sd i2c.SMBusData
	switch {
	case len(data) == 0:
		return fmt.Errorf("SMBus: empty write to %#02x", addr)
	case len(data) == 1:
		return s.do(addr, i2c.Write, data[0], i2c.Byte, &sd)
	case len(data) == 2:
		sd[0] = data[1]
		return s.do(addr, i2c.Write, data[0], i2c.ByteData, &sd)
	case len(data)-1 <= blockLimit:
		sd[0] = byte(len(data) - 1)
		copy(sd[1:], data[1:])
		return s.do(addr, i2c.Write, data[0], i2c.I2CBlockData, &sd)
	default:
		return fmt.Errorf("SMBus: write of %v byte to %#02x exceeds block size %v", len(data), addr, blockLimit)
	}
}

func (s SMBus) I2cRead(addr byte, data []byte) error {
	if len(data) != 1 {
		return fmt.Errorf("SMBus: only single byte reads without register are supported (requested %v)", len(data))
	}
	var sd i2c.SMBusData
	if err := s.do(addr, i2c.Read, 0, i2c.Byte, &sd); err != nil {
		return err
	}
	data[0] = sd[0]
	return nil
}

func (s SMBus) I2cWriteRead(addr byte, out, in []byte) error {
	if len(out) != 1 {
		return fmt.Errorf("SMBus: write-read needs exactly one register byte (got %v)", len(out))
	}
	v, err := s.I2cGet(addr, out[0], len(in))
	if err == nil {
		copy(in, v)
	}
	return err
}

func (s SMBus) I2cGet(addr byte, registerAddr byte, size int) ([]byte, error) {
	var sd i2c.SMBusData
	switch {
	case size == 1:
		if err := s.do(addr, i2c.Read, registerAddr, i2c.ByteData, &sd); err != nil {
			return nil, err
		}
		return []byte{sd[0]}, nil
	case size > 1 && size <= blockLimit:
		sd[0] = byte(size)
		if err := s.do(addr, i2c.Read, registerAddr, i2c.I2CBlockData, &sd); err != nil {
			return nil, err
		}
		n := int(sd[0])
		if n > size {
			n = size
		}
		return append([]byte(nil), sd[1:1+n]...), nil
	default:
		return nil, fmt.Errorf("SMBus: cannot read %v byte from %#02x", size, addr)
	}
}
