package bus

import (
	"periph.io/x/conn/v3/i2c"
	"tinygo.org/x/drivers"
)

// Transmitter is the combined write-then-read transaction offered by periph.io and TinyGo buses
type Transmitter interface {
	Tx(addr uint16, w, r []byte) error
}

// TxBus implements I2cBus on top of a single Tx primitive
type TxBus struct {
	Tx Transmitter
}

func FromPeriph(bus i2c.Bus) *TxBus {
	return &TxBus{Tx: bus}
}

func FromTinyGo(bus drivers.I2C) *TxBus {
	return &TxBus{Tx: bus}
}

func (b *TxBus) I2cWrite(addr byte, data ...byte) error {
	return b.I2cWriteRead(addr, data, nil)
}

func (b *TxBus) I2cRead(addr byte, data []byte) error {
	return b.I2cWriteRead(addr, nil, data)
}

func (b *TxBus) I2cWriteRead(addr byte, out, in []byte) error {
	if err := CheckAddress(addr); err != nil {
		return err
	}
	return b.Tx.Tx(uint16(addr), out, in)
}

func (b *TxBus) I2cGet(addr byte, registerAddr byte, size int) ([]byte, error) {
	result := make([]byte, size)
	if err := b.I2cWriteRead(addr, []byte{registerAddr}, result); err != nil {
		return nil, err
	}
	return result, nil
}
