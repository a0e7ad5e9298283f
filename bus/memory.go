package bus

import (
	"fmt"
	"sync"
)

type Transaction struct {
	Addr     byte
	Write    bool
	Register byte // First register of the transfer
	Data     []byte
}

func (t Transaction) String() string {
	dir := "read"
	if t.Write {
		dir = "write"
	}
	return fmt.Sprintf("%#02x %v %#02x: %#02x", t.Addr, dir, t.Register, t.Data)
}

type memoryDevice struct {
	registers [256]byte
	pointer   byte
}

// Memory simulates register based slaves. Every device has 256 registers and a register pointer
// that advances with each transferred byte, like a chip in sequential mode.
// The first byte of every write sets the pointer.
type Memory struct {
	lock         sync.Mutex
	devices      map[byte]*memoryDevice
	transactions []Transaction
}

func NewMemory(addrs ...byte) *Memory {
	m := &Memory{devices: make(map[byte]*memoryDevice)}
	for _, addr := range addrs {
		m.AddDevice(addr)
	}
	return m
}

func (m *Memory) AddDevice(addr byte) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if _, ok := m.devices[addr]; !ok {
		m.devices[addr] = new(memoryDevice)
	}
}

func (m *Memory) device(addr byte) (*memoryDevice, error) {
	if err := CheckAddress(addr); err != nil {
		return nil, err
	}
	dev, ok := m.devices[addr]
	if !ok {
		return nil, fmt.Errorf("Slave %#02x: %w", addr, ErrNoAck)
	}
	return dev, nil
}

// Register returns the content of one register without recording a transaction
func (m *Memory) Register(addr, reg byte) byte {
	m.lock.Lock()
	defer m.lock.Unlock()
	if dev, ok := m.devices[addr]; ok {
		return dev.registers[reg]
	}
	return 0
}

// SetRegister changes one register without recording a transaction, like the chip itself would
func (m *Memory) SetRegister(addr, reg, val byte) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if dev, ok := m.devices[addr]; ok {
		dev.registers[reg] = val
	}
}

func (m *Memory) Transactions() []Transaction {
	m.lock.Lock()
	defer m.lock.Unlock()
	return append([]Transaction(nil), m.transactions...)
}

// Writes returns only the write transactions that transferred register data
func (m *Memory) Writes() []Transaction {
	var result []Transaction
	for _, t := range m.Transactions() {
		if t.Write && len(t.Data) > 0 {
			result = append(result, t)
		}
	}
	return result
}

func (m *Memory) Reset() {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.transactions = nil
}

func (m *Memory) I2cWrite(addr byte, data ...byte) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	dev, err := m.device(addr)
	if err != nil {
		return err
	}
	m.write(addr, dev, data)
	return nil
}

func (m *Memory) write(addr byte, dev *memoryDevice, data []byte) {
	if len(data) == 0 {
		return
	}
	dev.pointer = data[0]
	t := Transaction{Addr: addr, Write: true, Register: dev.pointer, Data: append([]byte(nil), data[1:]...)}
	for _, b := range data[1:] {
		dev.registers[dev.pointer] = b
		dev.pointer++
	}
	m.transactions = append(m.transactions, t)
}

func (m *Memory) read(addr byte, dev *memoryDevice, data []byte) {
	t := Transaction{Addr: addr, Register: dev.pointer}
	for i := range data {
		data[i] = dev.registers[dev.pointer]
		dev.pointer++
	}
	t.Data = append([]byte(nil), data...)
	m.transactions = append(m.transactions, t)
}

func (m *Memory) I2cRead(addr byte, data []byte) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	dev, err := m.device(addr)
	if err != nil {
		return err
	}
	m.read(addr, dev, data)
	return nil
}

func (m *Memory) I2cWriteRead(addr byte, out, in []byte) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	dev, err := m.device(addr)
	if err != nil {
		return err
	}
	m.write(addr, dev, out)
	m.read(addr, dev, in)
	return nil
}

func (m *Memory) I2cGet(addr byte, registerAddr byte, size int) ([]byte, error) {
	result := make([]byte, size)
	return result, m.I2cWriteRead(addr, []byte{registerAddr}, result)
}
