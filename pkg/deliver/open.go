package deliver

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"strconv"

	"github.com/fatedier/pktgen/pkg/msg"

	"go.bug.st/serial"
)

const DefaultBaudRate = 115200

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// Open resolves a target:
//
//	-                          standard output
//	file://out.bin             a file, truncated
//	tcp://host:port            a TCP connection, opened with hello
//	serial:///dev/ttyUSB0?baud=9600
//
// hello may be nil for targets other than tcp.
func Open(ctx context.Context, target string, hello *msg.Hello, opts Options) (*Writer, error) {
	if IsStdout(target) {
		var w io.Writer = os.Stdout
		if opts.Stdout != nil {
			w = opts.Stdout
		}
		return NewWriter("stdout", nopCloser{w}, opts), nil
	}

	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("parse target %q: %w", target, err)
	}

	switch u.Scheme {
	case "file":
		path := u.Host + u.Path
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		return NewWriter(target, f, opts), nil
	case "tcp":
		conn, err := dialTCP(ctx, u.Host, hello)
		if err != nil {
			return nil, err
		}
		return NewWriter(target, conn, opts), nil
	case "serial":
		port, err := openSerial(u)
		if err != nil {
			return nil, err
		}
		return NewWriter(target, port, opts), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
}

func dialTCP(ctx context.Context, addr string, hello *msg.Hello) (net.Conn, error) {
	if hello == nil {
		return nil, fmt.Errorf("tcp target %s needs a hello message", addr)
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	if err = msg.WriteMsg(conn, hello); err != nil {
		conn.Close()
		return nil, fmt.Errorf("send hello to %s: %w", addr, err)
	}
	return conn, nil
}

// IsStdout reports whether target delivers frames on standard output.
func IsStdout(target string) bool {
	return target == "-" || target == "stdout"
}

// serialPortName joins host and path so serial://COM3 and
// serial:///dev/ttyUSB0 both resolve.
func serialPortName(u *url.URL) string {
	return u.Host + u.Path
}

func openSerial(u *url.URL) (serial.Port, error) {
	baud := DefaultBaudRate
	if v := u.Query().Get("baud"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid baud rate %q", v)
		}
		baud = n
	}

	name := serialPortName(u)
	port, err := serial.Open(name, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", name, err)
	}
	return port, nil
}
