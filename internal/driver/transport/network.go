package transport

import (
	"fmt"
	"net"
	"sync"
	"time"
)

// networkDialTimeout bounds the TCP connect to a raw-port printer.
const networkDialTimeout = 5 * time.Second

// networkConn is a TCP connection to a printer's raw port, usually 9100.
type networkConn struct {
	conn net.Conn
	desc string
	mu   sync.Mutex
}

// dialNetworkPrinter connects to an explicitly configured network printer.
func dialNetworkPrinter(addr string) (*networkConn, error) {
	conn, err := net.DialTimeout("tcp", addr, networkDialTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to network printer: %w", err)
	}
	return &networkConn{
		conn: conn,
		desc: "network " + addr,
	}, nil
}

func (c *networkConn) Write(data []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Write(data)
}

func (c *networkConn) Read(p []byte) (int, error) {
	return c.conn.Read(p)
}

func (c *networkConn) Description() string { return c.desc }

func (c *networkConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
