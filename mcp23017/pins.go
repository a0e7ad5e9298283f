package mcp23017

// All pin operations read the GPIO register and write the modified value back.
// They are not atomic: concurrent users of the same port must be serialized by the caller.

func (d *Device) pinMask(pin Pin) (byte, error) {
	if d.checkPins && !pin.Valid() {
		return 0, ErrInvalidPin
	}
	return PinMask(pin), nil
}

func (d *Device) modifyGPIO(port Port, modify func(val byte) byte) error {
	val, err := d.ReadRegister(port, GPIO)
	if err != nil {
		return err
	}
	return d.WriteRegister(port, GPIO, modify(val))
}

func (d *Device) modifyPin(port Port, pin Pin, modify func(val, mask byte) byte) error {
	mask, err := d.pinMask(pin)
	if err != nil {
		return err
	}
	return d.modifyGPIO(port, func(val byte) byte {
		return modify(val, mask)
	})
}

func (d *Device) PinState(port Port, pin Pin) (PinState, error) {
	mask, err := d.pinMask(pin)
	if err != nil {
		return Low, err
	}
	val, err := d.ReadRegister(port, GPIO)
	if err != nil {
		return Low, err
	}
	return PinState(val&mask != 0), nil
}

func (d *Device) SetPinState(port Port, pin Pin, state PinState) error {
	if state == High {
		return d.SetPin(port, pin)
	}
	return d.ResetPin(port, pin)
}

func (d *Device) SetPin(port Port, pin Pin) error {
	return d.modifyPin(port, pin, func(val, mask byte) byte {
		return val | mask
	})
}

func (d *Device) ResetPin(port Port, pin Pin) error {
	return d.modifyPin(port, pin, func(val, mask byte) byte {
		return val &^ mask
	})
}

func (d *Device) TogglePin(port Port, pin Pin) error {
	return d.modifyPin(port, pin, func(val, mask byte) byte {
		return val ^ mask
	})
}

func (d *Device) SetPins(port Port) error {
	return d.modifyGPIO(port, func(val byte) byte {
		return val | ALL_PINS
	})
}

// ResetPins still reads GPIO before writing zero, reading clears pending interrupts like the other operations do
func (d *Device) ResetPins(port Port) error {
	return d.modifyGPIO(port, func(val byte) byte {
		return val & NO_PINS
	})
}

func (d *Device) TogglePins(port Port) error {
	return d.modifyGPIO(port, func(val byte) byte {
		return val ^ ALL_PINS
	})
}
