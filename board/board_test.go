package board

import (
	"testing"

	"github.com/antongulenko/mcp23017/bus"
	"github.com/antongulenko/mcp23017/mcp23017"
	"github.com/stretchr/testify/assert"
)

func TestDummyBoard(t *testing.T) {
	a := assert.New(t)
	b := DefaultBoard
	b.Transport = TransportDummy
	b.I2cAddr = 0x21
	b.TraceI2c = true
	a.NoError(b.Setup())
	defer b.Cleanup()

	reg := b.Register()
	a.Equal(byte(0x21), reg.Addr)
	a.NoError(reg.WriteRegister(0x09, 0x55))
	v, err := reg.ReadRegister(0x09)
	a.NoError(err)
	a.Equal(byte(0x55), v)

	dev, err := mcp23017.New(reg, mcp23017.OutputPortConfig(mcp23017.BankSeparate), mcp23017.OutputPortConfig(mcp23017.BankSeparate))
	a.NoError(err)
	a.NoError(dev.TogglePin(mcp23017.PortB, mcp23017.Pin4))
	state, err := dev.PinState(mcp23017.PortB, mcp23017.Pin4)
	a.NoError(err)
	a.Equal(mcp23017.High, state)
}

func TestDummyBoardWithoutSequencer(t *testing.T) {
	a := assert.New(t)
	b := DefaultBoard
	b.Transport = TransportDummy
	b.NoI2cSequencer = true
	a.NoError(b.Setup())
	_, ok := b.Bus().(*bus.Memory)
	a.True(ok)
	b.Cleanup()
	a.Nil(b.Bus())
}

func TestInvalidSetup(t *testing.T) {
	a := assert.New(t)
	b := DefaultBoard
	b.Transport = TransportDummy
	b.I2cAddr = 0x40
	a.Error(b.Setup())

	b = DefaultBoard
	b.Transport = "carrier-pigeon"
	a.Error(b.Setup())
}
