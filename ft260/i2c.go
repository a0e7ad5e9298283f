package ft260

import (
	"fmt"

	"github.com/antongulenko/mcp23017/bus"
)

const (
	ReportID_I2CStatus    = 0xC0 // Feature In
	ReportID_I2CRead      = 0xC2 // Output
	ReportID_I2CInOut     = 0xD0 // 0xD0 - 0xDE, Input, Output
	ReportID_I2CInOut_Max = 0xDE
	// Max size of I2C write payload: (1 + Report ID - 0xD0) * 4 byte

	I2CMaxPayload = (1 + ReportID_I2CInOut_Max - ReportID_I2CInOut) * 4
)

const (
	I2C_MasterNone      = 0x0
	I2C_MasterStart     = 0x2
	I2C_MasterRepStart  = 0x3
	I2C_MasterStop      = 0x4
	I2C_MasterStartStop = 0x6
)

func I2cMasterCodeString(code byte) string {
	switch code {
	case I2C_MasterNone:
		return "Nothing"
	case I2C_MasterStart:
		return "Start"
	case I2C_MasterRepStart:
		return "Repeated Start"
	case I2C_MasterStop:
		return "Stop"
	case I2C_MasterStartStop:
		return "Start + Stop"
	default:
		return fmt.Sprintf("Unknown I2C Master code %v", code)
	}
}

// Data of ReportID_I2CInOut Interrupt Out
type OperationI2cWrite struct {
	SlaveAddr byte // 0..127
	Condition byte // I2C_Master...
	// 1 byte payload len
	Payload []byte
}

func (r *OperationI2cWrite) ReportID() byte {
	if len(r.Payload) == 0 {
		return ReportID_I2CInOut
	}
	return ReportID_I2CInOut + byte((len(r.Payload)-1)/4)
}

func (r *OperationI2cWrite) ReportLen() int {
	return len(r.Payload) + 3
}

func (r *OperationI2cWrite) Marshall(b []byte) error {
	if len(r.Payload) > I2CMaxPayload {
		return fmt.Errorf("Payload len %v exceeds maximum size of %v", len(r.Payload), I2CMaxPayload)
	}
	if err := bus.CheckAddress(r.SlaveAddr); err != nil {
		return err
	}
	b[0] = r.SlaveAddr
	b[1] = r.Condition
	b[2] = byte(len(r.Payload))
	copy(b[3:], r.Payload)
	return nil
}

// Data of ReportID_I2CRead Interrupt Out
type OperationI2cRead struct {
	SlaveAddr byte   // 0..127
	Condition byte   // I2C_Master...
	Len       uint16 // data length (little endian)
}

func (r *OperationI2cRead) ReportID() byte {
	return ReportID_I2CRead
}

func (r *OperationI2cRead) ReportLen() int {
	return 4
}

func (r *OperationI2cRead) Marshall(b []byte) error {
	if err := bus.CheckAddress(r.SlaveAddr); err != nil {
		return err
	}
	b[0] = r.SlaveAddr
	b[1] = r.Condition
	b[2], b[3] = byte(r.Len), byte(r.Len>>8)
	return nil
}

// i2cSplitTransaction splits data into chunks fitting into one report. The first chunk starts the
// transaction, the last one stops it if requested.
func i2cSplitTransaction(stop bool, data []byte) (payload [][]byte, conditions []byte) {
	for start := 0; start < len(data); start += I2CMaxPayload {
		end := start + I2CMaxPayload
		if end > len(data) {
			end = len(data)
		}
		payload = append(payload, data[start:end])
		conditions = append(conditions, I2C_MasterNone)
	}
	if len(conditions) > 0 {
		conditions[0] |= I2C_MasterStart
		if stop {
			conditions[len(conditions)-1] |= I2C_MasterStop
		}
	}
	return
}

func (f *Ft260) i2cWrite(addr byte, stop bool, data []byte) error {
	payload, conditions := i2cSplitTransaction(stop, data)
	for i, chunk := range payload {
		err := f.WriteReport(&OperationI2cWrite{
			SlaveAddr: addr,
			Condition: conditions[i],
			Payload:   chunk,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (f *Ft260) i2cRead(addr byte, condition byte, data []byte) error {
	if len(data) > 0xFFFF {
		return fmt.Errorf("ft260: I2C read of %v byte too large", len(data))
	}
	err := f.WriteReport(&OperationI2cRead{
		SlaveAddr: addr,
		Condition: condition,
		Len:       uint16(len(data)),
	})
	if err != nil {
		return err
	}
	for received := 0; received < len(data); {
		report, err := f.readReport()
		if err != nil {
			return err
		}
		if len(report) < 2 || report[0] < ReportID_I2CInOut || report[0] > ReportID_I2CInOut_Max {
			return fmt.Errorf("ft260: unexpected input report %#02x", report)
		}
		l := int(report[1])
		if l == 0 || len(report) < l+2 {
			return fmt.Errorf("ft260: received %v of %v byte from %#02x: %w", received, len(data), addr, bus.ErrShortRead)
		}
		received += copy(data[received:], report[2:2+l])
	}
	return nil
}

func (f *Ft260) I2cWrite(addr byte, data ...byte) error {
	return f.i2cWrite(addr, true, data)
}

func (f *Ft260) I2cRead(addr byte, data []byte) error {
	return f.i2cRead(addr, I2C_MasterStartStop, data)
}

func (f *Ft260) I2cWriteRead(addr byte, out, in []byte) error {
	if err := f.i2cWrite(addr, false, out); err != nil {
		return err
	}
	return f.i2cRead(addr, I2C_MasterRepStart|I2C_MasterStop, in)
}

func (f *Ft260) I2cGet(addr byte, registerAddr byte, size int) ([]byte, error) {
	result := make([]byte, size)
	if err := f.I2cWriteRead(addr, []byte{registerAddr}, result); err != nil {
		return nil, err
	}
	return result, nil
}
