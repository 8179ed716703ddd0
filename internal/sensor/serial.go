package sensor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"
	"go.uber.org/zap"
)

const (
	// DefaultBaudRate matches the bridge firmware.
	DefaultBaudRate = 115200

	// DefaultStaleAfter is how long a reading stays valid.
	DefaultStaleAfter = 2 * time.Second
)

// Serial reads temperatures streamed by the thermocouple bridge.
type Serial struct {
	port       string
	baudRate   int
	staleAfter time.Duration
	log        *zap.SugaredLogger
	now        func() time.Time

	mu        sync.RWMutex
	conn      io.ReadCloser
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool

	latest  float64
	at      time.Time
	lastErr error
}

// NewSerial creates a bridge reader. Zero values select the defaults.
func NewSerial(port string, baudRate int, staleAfter time.Duration, log *zap.SugaredLogger) *Serial {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if staleAfter == 0 {
		staleAfter = DefaultStaleAfter
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Serial{
		port:       port,
		baudRate:   baudRate,
		staleAfter: staleAfter,
		log:        log,
		now:        time.Now,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Connect opens the serial port and starts reading lines.
func (s *Serial) Connect() error {
	conn, err := serial.Open(s.port, &serial.Mode{BaudRate: s.baudRate})
	if err != nil {
		return fmt.Errorf("open serial port %s: %w", s.port, err)
	}
	return s.attach(conn)
}

// attach starts the reader on an already open stream.
func (s *Serial) attach(conn io.ReadCloser) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected {
		return fmt.Errorf("already connected")
	}
	s.conn = conn
	s.connected = true

	go s.readLines(conn)
	return nil
}

// Read returns the newest reading, or an error if none is fresh.
func (s *Serial) Read() (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.lastErr != nil {
		return s.latest, s.lastErr
	}
	if s.at.IsZero() {
		return 0, ErrNoReading
	}
	if age := s.now().Sub(s.at); age > s.staleAfter {
		return s.latest, fmt.Errorf("last reading %s ago: %w", age.Round(time.Millisecond), ErrStale)
	}
	return s.latest, nil
}

// Close stops the reader and closes the port.
func (s *Serial) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return nil
	}

	s.cancel()

	var err error
	if s.conn != nil {
		err = s.conn.Close()
		s.conn = nil
	}
	s.connected = false

	if err != nil {
		return fmt.Errorf("close serial port: %w", err)
	}
	return nil
}

func (s *Serial) readLines(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil && s.ctx.Err() == nil {
				s.log.Warnw("sensor read failed", "port", s.port, "error", err)
			}
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		temp, err := ParseLine(line)
		if err != nil && err != ErrOpenCircuit {
			s.log.Debugw("ignoring sensor line", "line", line, "error", err)
			continue
		}

		s.mu.Lock()
		s.lastErr = err
		if err == nil {
			s.latest = temp
			s.at = s.now()
		}
		s.mu.Unlock()
	}
}

// ParseLine parses one bridge line.
// Format: a decimal Celsius value, optionally prefixed with "T:" and
// suffixed with "C". The literal "OPEN" reports a missing thermocouple.
// Example: T:182.25C
func ParseLine(line string) (float64, error) {
	line = strings.TrimSpace(line)
	if strings.EqualFold(line, "OPEN") {
		return 0, ErrOpenCircuit
	}

	line = strings.TrimPrefix(line, "T:")
	line = strings.TrimSuffix(line, "C")
	line = strings.TrimSpace(line)

	v, err := strconv.ParseFloat(line, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid temperature: %w", err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid temperature: %v", v)
	}
	return v, nil
}
