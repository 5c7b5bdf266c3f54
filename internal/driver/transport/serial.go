package transport

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/tarm/serial"
)

// serialConn wraps an open serial port behind the same sink surface as USB.
type serialConn struct {
	port *serial.Port
	desc string
	mu   sync.Mutex
}

// serialCandidates lists ports worth probing on this platform. Only ports
// that actually exist are returned, so opening them is cheap.
func serialCandidates() []string {
	var patterns []string
	switch runtime.GOOS {
	case "windows":
		for i := 1; i <= 8; i++ {
			patterns = append(patterns, fmt.Sprintf("COM%d", i))
		}
		return patterns
	case "darwin":
		patterns = []string{"/dev/tty.usbserial*", "/dev/tty.usbmodem*", "/dev/cu.usbserial*"}
	default:
		patterns = []string{"/dev/ttyUSB*", "/dev/ttyACM*", "/dev/ttyS*"}
	}

	var ports []string
	for _, pattern := range patterns {
		matches, _ := filepath.Glob(pattern)
		ports = append(ports, matches...)
	}
	return ports
}

// detectSerialPrinter opens the first candidate port that accepts the
// standard thermal printer line settings.
func detectSerialPrinter(baud int) (*serialConn, error) {
	for _, name := range serialCandidates() {
		if runtime.GOOS != "windows" {
			if _, err := os.Stat(name); err != nil {
				continue
			}
		}
		port, err := serial.OpenPort(&serial.Config{
			Name:        name,
			Baud:        baud,
			ReadTimeout: time.Second,
		})
		if err != nil {
			continue
		}
		return &serialConn{
			port: port,
			desc: fmt.Sprintf("serial %s @ %d baud", name, baud),
		}, nil
	}
	return nil, fmt.Errorf("no serial printer port found")
}

func (c *serialConn) Write(data []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.port.Write(data)
}

func (c *serialConn) Read(p []byte) (int, error) {
	return c.port.Read(p)
}

func (c *serialConn) Description() string { return c.desc }

func (c *serialConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.port.Close()
}
