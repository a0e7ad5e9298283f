package bus

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

const (
	I2cWrite = iota + 1
	I2cRead
	I2cWriteRead
	I2cGet
)

type Request struct {
	Type        int
	Addr        byte
	DataWrite   []byte
	DataRead    []byte
	GetRegister byte // Only for I2cGet
	GetSize     int  // Only for I2cGet
	Error       error

	done bool
	wait *sync.Cond
}

func (r *Request) init() {
	r.wait = &sync.Cond{L: new(sync.Mutex)}
}

func (r *Request) Wait() {
	r.wait.L.Lock()
	defer r.wait.L.Unlock()
	for !r.done {
		r.wait.Wait()
	}
}

func (r *Request) notifyDone() {
	r.wait.L.Lock()
	defer r.wait.L.Unlock()
	r.done = true
	r.wait.Broadcast()
}

// Sequencer executes the requests of multiple goroutines one after another on a single bus.
// Each request is one bus transaction. Sequences of requests (like read-modify-write) are not grouped.
type Sequencer struct {
	bus   I2cBus
	queue chan *Request
	stop  sync.Once
}

func NewSequencer(bus I2cBus, queueSize int) *Sequencer {
	s := &Sequencer{
		bus:   bus,
		queue: make(chan *Request, queueSize),
	}
	go s.handleRequests()
	return s
}

func (s *Sequencer) handleRequests() {
	for req := range s.queue {
		switch req.Type {
		case I2cWrite:
			req.Error = s.bus.I2cWrite(req.Addr, req.DataWrite...)
		case I2cRead:
			req.Error = s.bus.I2cRead(req.Addr, req.DataRead)
		case I2cWriteRead:
			req.Error = s.bus.I2cWriteRead(req.Addr, req.DataWrite, req.DataRead)
		case I2cGet:
			req.DataRead, req.Error = s.bus.I2cGet(req.Addr, req.GetRegister, req.GetSize)
		default:
			log.Errorln("Ignoring invalid I2C request with type", req.Type)
		}
		req.notifyDone()
	}
}

// Stop must only be called after all submitting goroutines have finished
func (s *Sequencer) Stop() {
	s.stop.Do(func() {
		close(s.queue)
	})
}

func (s *Sequencer) Queue(req *Request) {
	req.init()
	s.queue <- req
}

func (s *Sequencer) Do(req *Request) {
	s.Queue(req)
	req.Wait()
}

func (s *Sequencer) I2cWrite(addr byte, data ...byte) error {
	req := &Request{
		Type:      I2cWrite,
		Addr:      addr,
		DataWrite: data,
	}
	s.Do(req)
	return req.Error
}

func (s *Sequencer) I2cRead(addr byte, data []byte) error {
	req := &Request{
		Type:     I2cRead,
		Addr:     addr,
		DataRead: data,
	}
	s.Do(req)
	return req.Error
}

func (s *Sequencer) I2cWriteRead(addr byte, out, in []byte) error {
	req := &Request{
		Type:      I2cWriteRead,
		Addr:      addr,
		DataRead:  in,
		DataWrite: out,
	}
	s.Do(req)
	return req.Error
}

func (s *Sequencer) I2cGet(addr byte, registerAddr byte, size int) ([]byte, error) {
	req := &Request{
		Type:        I2cGet,
		Addr:        addr,
		GetRegister: registerAddr,
		GetSize:     size,
	}
	s.Do(req)
	return req.DataRead, req.Error
}
