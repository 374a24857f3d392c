package listener

import (
	"context"
	"net"
	"testing"
	"time"

	"f1telemetrydash/pkg/packet"
	"f1telemetrydash/pkg/record"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func send(t *testing.T, to net.Addr, b []byte) {
	t.Helper()
	conn, err := net.Dial("udp", to.String())
	require.NoError(t, err)
	defer conn.Close()
	_, err = conn.Write(b)
	require.NoError(t, err)
}

func newListener(t *testing.T, ctx context.Context) *Listener {
	t.Helper()
	d, err := packet.NewDecoder(packet.DefaultLayouts())
	require.NoError(t, err)
	l, err := Listen(ctx, "127.0.0.1:0", d)
	require.NoError(t, err)
	return l
}

func TestGetDecodesDatagram(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	l := newListener(t, ctx)

	cars := make([]record.Record, packet.NumCars)
	cars[0] = record.Record{"speed": 250}
	h := packet.Header{PacketFormat: 2023, PacketID: packet.IDCarTelemetry}
	send(t, l.Addr(), packet.Encode(h, packet.CarTelemetryLayout, cars, nil))

	p, err := l.Get(ctx)
	require.NoError(t, err)
	tp, ok := p.(*packet.CarTelemetry)
	require.True(t, ok, "got %T", p)
	assert.Equal(t, 250, tp.Cars()[0]["speed"])
}

func TestGetReportsDecodeErrors(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	l := newListener(t, ctx)

	send(t, l.Addr(), []byte{1, 2, 3})

	_, err := l.Get(ctx)
	assert.True(t, errors.Is(err, packet.ErrShortPacket))
}

func TestCancelUnblocksGet(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	l := newListener(t, ctx)

	done := make(chan error)
	go func() {
		_, err := l.Get(ctx)
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Get did not return after cancel")
	}
}

func TestListenBindFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l := newListener(t, ctx)

	d, err := packet.NewDecoder(nil)
	require.NoError(t, err)
	_, err = Listen(ctx, l.Addr().String(), d)
	assert.Error(t, err)
}
