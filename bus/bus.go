package bus

import (
	"errors"
	"fmt"
)

var (
	ErrNoAck     = errors.New("i2c: no acknowledge from slave")
	ErrShortRead = errors.New("i2c: short read")
)

// I2cBus transfers raw bytes to and from 7 bit I2C slave addresses
type I2cBus interface {
	I2cWrite(addr byte, data ...byte) error
	I2cRead(addr byte, data []byte) error
	I2cWriteRead(addr byte, out, in []byte) error

	// I2cGet writes the register address and reads size bytes with a repeated start
	I2cGet(addr byte, registerAddr byte, size int) ([]byte, error)
}

func CheckAddress(addr byte) error {
	if addr&0x80 != 0 {
		return fmt.Errorf("Invalid I2C slave address: %02x", addr)
	}
	return nil
}

// RegisterDevice accesses single byte registers of the device at Addr
type RegisterDevice struct {
	Bus  I2cBus
	Addr byte
}

func (d RegisterDevice) ReadRegister(reg byte) (byte, error) {
	if err := CheckAddress(d.Addr); err != nil {
		return 0, err
	}
	v, err := d.Bus.I2cGet(d.Addr, reg, 1)
	if err == nil && len(v) != 1 {
		err = fmt.Errorf("Register %#02x of %#02x: read len %v (need 1 byte): %w", reg, d.Addr, len(v), ErrShortRead)
	}
	if err != nil {
		return 0, err
	}
	return v[0], nil
}

func (d RegisterDevice) WriteRegister(reg byte, val byte) error {
	if err := CheckAddress(d.Addr); err != nil {
		return err
	}
	return d.Bus.I2cWrite(d.Addr, reg, val)
}
