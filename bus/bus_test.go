package bus

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"periph.io/x/conn/v3/physic"
)

func TestMemoryRegisters(t *testing.T) {
	a := assert.New(t)
	m := NewMemory(0x20)

	a.NoError(m.I2cWrite(0x20, 0x05, 1, 2, 3))
	a.Equal(byte(1), m.Register(0x20, 5))
	a.Equal(byte(3), m.Register(0x20, 7))

	v, err := m.I2cGet(0x20, 0x06, 2)
	a.NoError(err)
	a.Equal([]byte{2, 3}, v)

	// The pointer continues after the last transfer
	data := make([]byte, 1)
	a.NoError(m.I2cRead(0x20, data))
	a.Equal([]byte{0}, data)

	a.Equal([]Transaction{
		{Addr: 0x20, Write: true, Register: 5, Data: []byte{1, 2, 3}},
		{Addr: 0x20, Write: true, Register: 6},
		{Addr: 0x20, Register: 6, Data: []byte{2, 3}},
		{Addr: 0x20, Register: 8, Data: []byte{0}},
	}, m.Transactions())
	a.Equal([]Transaction{{Addr: 0x20, Write: true, Register: 5, Data: []byte{1, 2, 3}}}, m.Writes())

	m.Reset()
	a.Empty(m.Transactions())
}

func TestMemoryNoAck(t *testing.T) {
	a := assert.New(t)
	m := NewMemory(0x20)

	err := m.I2cWrite(0x21, 0, 0)
	a.True(errors.Is(err, ErrNoAck))
	_, err = m.I2cGet(0x21, 0, 1)
	a.True(errors.Is(err, ErrNoAck))
	a.Error(m.I2cWrite(0xA0, 0, 0), "8 bit address")

	m.SetRegister(0x21, 0, 1)
	a.Equal(byte(0), m.Register(0x21, 0))
	a.Empty(m.Transactions())
}

func TestRegisterDevice(t *testing.T) {
	a := assert.New(t)
	m := NewMemory(0x27)
	dev := RegisterDevice{Bus: m, Addr: 0x27}

	a.NoError(dev.WriteRegister(0x13, 0xAB))
	a.Equal(byte(0xAB), m.Register(0x27, 0x13))
	v, err := dev.ReadRegister(0x13)
	a.NoError(err)
	a.Equal(byte(0xAB), v)

	bad := RegisterDevice{Bus: m, Addr: 0x80}
	a.Error(bad.WriteRegister(0, 0))
	_, err = bad.ReadRegister(0)
	a.Error(err)
}

type shortBus struct {
	Memory
}

func (b *shortBus) I2cGet(addr byte, registerAddr byte, size int) ([]byte, error) {
	return nil, nil
}

func TestRegisterDeviceShortRead(t *testing.T) {
	a := assert.New(t)
	dev := RegisterDevice{Bus: new(shortBus), Addr: 0x20}
	_, err := dev.ReadRegister(0)
	a.True(errors.Is(err, ErrShortRead))
}

func TestSequencer(t *testing.T) {
	a := assert.New(t)
	m := NewMemory(0x20, 0x21)
	s := NewSequencer(Tracer{Bus: m}, 4)
	defer s.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			addr := byte(0x20 + i%2)
			a.NoError(s.I2cWrite(addr, byte(i), byte(i)))
			v, err := s.I2cGet(addr, byte(i), 1)
			a.NoError(err)
			a.Equal([]byte{byte(i)}, v)
		}(i)
	}
	wg.Wait()
	a.Len(m.Writes(), 16)

	in := make([]byte, 1)
	a.NoError(s.I2cWriteRead(0x20, []byte{2}, in))
	a.Equal([]byte{2}, in)
	a.NoError(s.I2cRead(0x21, in))
	a.True(errors.Is(s.I2cWrite(0x22, 0, 0), ErrNoAck))

	req := &Request{Type: 99}
	s.Do(req)
	a.NoError(req.Error)
}

type fakeTx struct {
	addr  uint16
	out   []byte
	reply []byte
}

func (f *fakeTx) Tx(addr uint16, w, r []byte) error {
	f.addr = addr
	f.out = append([]byte(nil), w...)
	copy(r, f.reply)
	return nil
}

func (f *fakeTx) SetSpeed(physic.Frequency) error { return nil }
func (f *fakeTx) String() string                 { return "fake" }

func (f *fakeTx) ReadRegister(addr uint8, r uint8, buf []byte) error {
	return f.Tx(uint16(addr), []byte{r}, buf)
}

func (f *fakeTx) WriteRegister(addr uint8, r uint8, buf []byte) error {
	return f.Tx(uint16(addr), append([]byte{r}, buf...), nil)
}

func TestTxBus(t *testing.T) {
	a := assert.New(t)
	tx := &fakeTx{reply: []byte{0x42}}

	b := FromPeriph(tx)
	a.NoError(b.I2cWrite(0x20, 9, 1))
	a.Equal(uint16(0x20), tx.addr)
	a.Equal([]byte{9, 1}, tx.out)

	b = FromTinyGo(tx)
	v, err := b.I2cGet(0x21, 0x13, 1)
	a.NoError(err)
	a.Equal([]byte{0x42}, v)
	a.Equal(uint16(0x21), tx.addr)
	a.Equal([]byte{0x13}, tx.out)

	a.Error(b.I2cRead(0x81, v))
}
