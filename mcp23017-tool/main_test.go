package main

import (
	"testing"

	"github.com/antongulenko/mcp23017/board"
	"github.com/antongulenko/mcp23017/mcp23017"
	"github.com/stretchr/testify/assert"
)

func TestPortConfig(t *testing.T) {
	a := assert.New(t)
	inputMask, pullUps, bankName = 0xF0, 0x30, "common"
	conf, err := portConfig()
	a.NoError(err)
	a.Equal(byte(0xF0), conf.Direction.Byte())
	a.Equal(byte(0x30), conf.PullUp.Byte())
	a.Equal(mcp23017.BankCommon, conf.Config.BankMode())

	bankName = "both"
	_, err = portConfig()
	a.Error(err)

	inputMask, bankName = 0x100, "separate"
	_, err = portConfig()
	a.Error(err)
	inputMask, pullUps = 0, 0
}

func TestSelectedPort(t *testing.T) {
	a := assert.New(t)
	portName = "b"
	port, err := selectedPort()
	a.NoError(err)
	a.Equal(mcp23017.PortB, port)
	portName = "C"
	_, err = selectedPort()
	a.Error(err)
	portName = "A"
}

func TestCommandsOnDummyBoard(t *testing.T) {
	a := assert.New(t)
	b = board.DefaultBoard
	b.Transport = board.TransportDummy
	driver = mcp23017.Driver{CheckPins: true}
	sleepTime, rounds = 0, 2

	for _, name := range commandNames() {
		command = name
		a.NoError(doMain(), "command %v", name)
	}

	command = "set"
	pin = 8
	a.Equal(mcp23017.ErrInvalidPin, doMain())
	pin = 0

	command = "explode"
	a.Error(doMain())
}
