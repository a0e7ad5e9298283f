package ft260

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

const (
	ReportID_SystemSetting = 0xA1 // Feature In/Out
)

// Requests for ReportID_SystemSetting Feature Out
const (
	SetSystemSetting_Clock       = 0x01 // Clock...
	SetSystemSetting_I2CReset    = 0x20 // <empty>
	SetSystemSetting_I2CSetClock = 0x22 // LSB+MSB of clock speed in kHz (60-3400)
)

const (
	Clock12MHz = byte(0)
	Clock24MHz = byte(1)
	Clock48MHz = byte(2)

	MinI2cFreq = 60
	MaxI2cFreq = 3400
)

type SetSystemSetting struct {
	Request byte
	Value   interface{}
}

func (r *SetSystemSetting) ReportID() byte {
	return ReportID_SystemSetting
}

func (r *SetSystemSetting) ReportLen() int {
	switch r.Request {
	case SetSystemSetting_Clock:
		return 2
	case SetSystemSetting_I2CSetClock:
		return 3
	default:
		return 1
	}
}

func (r *SetSystemSetting) Marshall(b []byte) error {
	b[0] = r.Request
	switch r.Request {
	case SetSystemSetting_I2CReset:
		// No payload
	case SetSystemSetting_Clock:
		val, ok := r.Value.(byte)
		if !ok {
			return fmt.Errorf("System Setting Request ID %02x expects type %T, but got value of type %T (%v)", r.Request, byte(0), r.Value, r.Value)
		}
		b[1] = val
	case SetSystemSetting_I2CSetClock:
		val, ok := r.Value.(uint16)
		if !ok {
			return fmt.Errorf("System Setting Request ID %02x expects type %T, but got value of type %T (%v)", r.Request, uint16(0), r.Value, r.Value)
		}
		b[1], b[2] = byte(val), byte(val>>8)
	default:
		return fmt.Errorf("Unknown system setting request ID: %v", r.Request)
	}
	return nil
}

// Configure sets the system clock, resets the I2C controller in case the bus was disturbed
// and sets the I2C bus frequency (kHz).
func (f *Ft260) Configure(i2cFreq uint) (err error) {
	if i2cFreq < MinI2cFreq || i2cFreq > MaxI2cFreq {
		return fmt.Errorf("I2C frequency %vkHz out of range (%v - %v)", i2cFreq, MinI2cFreq, MaxI2cFreq)
	}
	log.Debugf("Configuring FT260 for %vkHz I2C", i2cFreq)
	f.writeConfigValue(&err, SetSystemSetting_Clock, Clock48MHz)
	f.writeConfigValue(&err, SetSystemSetting_I2CReset, nil)
	f.writeConfigValue(&err, SetSystemSetting_I2CSetClock, uint16(i2cFreq))
	return
}

func (f *Ft260) writeConfigValue(outErr *error, request byte, val interface{}) {
	if *outErr == nil {
		*outErr = f.WriteReport(&SetSystemSetting{
			Request: request,
			Value:   val,
		})
	}
}
