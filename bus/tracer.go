package bus

import (
	log "github.com/sirupsen/logrus"
)

// Tracer logs every transaction of the wrapped bus on the debug level
type Tracer struct {
	Bus I2cBus
}

func (t Tracer) I2cWrite(addr byte, data ...byte) error {
	err := t.Bus.I2cWrite(addr, data...)
	log.Debugf("I2C %#02x write %#02x (error: %v)", addr, data, err)
	return err
}

func (t Tracer) I2cRead(addr byte, data []byte) error {
	err := t.Bus.I2cRead(addr, data)
	log.Debugf("I2C %#02x read %#02x (error: %v)", addr, data, err)
	return err
}

func (t Tracer) I2cWriteRead(addr byte, out, in []byte) error {
	err := t.Bus.I2cWriteRead(addr, out, in)
	log.Debugf("I2C %#02x write %#02x, read %#02x (error: %v)", addr, out, in, err)
	return err
}

func (t Tracer) I2cGet(addr byte, registerAddr byte, size int) ([]byte, error) {
	data, err := t.Bus.I2cGet(addr, registerAddr, size)
	log.Debugf("I2C %#02x get %v byte from %#02x: %#02x (error: %v)", addr, size, registerAddr, data, err)
	return data, err
}
