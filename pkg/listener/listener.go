package listener

import (
	"context"
	"net"

	"f1telemetrydash/pkg/packet"
	"github.com/pkg/errors"
)

// bufferSize fits the largest F1 23 datagram.
const bufferSize = 2048

type Decoder interface {
	Decode(b []byte) (packet.Packet, error)
}

// Listener reads telemetry datagrams from a UDP socket and decodes them.
type Listener struct {
	conn    *net.UDPConn
	decoder Decoder
	buf     []byte
}

// Listen binds address. The socket is closed when ctx is done, which unblocks
// a pending Get.
func Listen(ctx context.Context, address string, decoder Decoder) (*Listener, error) {
	addr, err := net.ResolveUDPAddr("udp", address)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve %s", address)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listen %s", address)
	}
	l := &Listener{
		conn:    conn,
		decoder: decoder,
		buf:     make([]byte, bufferSize),
	}
	go func() {
		<-ctx.Done()
		l.Close()
	}()
	return l, nil
}

func (l *Listener) Addr() net.Addr {
	return l.conn.LocalAddr()
}

// Get blocks until the next datagram arrives and returns it decoded.
func (l *Listener) Get(ctx context.Context) (packet.Packet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n, _, err := l.conn.ReadFromUDP(l.buf)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(err, "read udp")
	}
	p, err := l.decoder.Decode(l.buf[:n])
	if err != nil {
		return nil, errors.Wrap(err, "decode")
	}
	return p, nil
}

func (l *Listener) Close() error {
	return l.conn.Close()
}
