package dashboard

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"f1telemetrydash/pkg/aggregator"
	"f1telemetrydash/pkg/caster"
	"f1telemetrydash/pkg/model"
	"f1telemetrydash/pkg/packet"
	"f1telemetrydash/pkg/pubsub"
	"f1telemetrydash/pkg/record"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) (*httptest.Server, *pubsub.PubSub[string], *Dashboard) {
	ps := pubsub.NewPubSub[string]()
	d := New(ps)
	r := mux.NewRouter()
	d.AddHandlers(r)
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		d.Close()
		srv.Close()
	})
	return srv, ps, d
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) caster.Message {
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var m caster.Message
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestPublisherEncodesFrame(t *testing.T) {
	ps := pubsub.NewPubSub[string]()
	sub := ps.Subscribe("update")
	p := NewPublisher(ps)

	require.NoError(t, p.Publish("update", map[string]any{"speed": 231}))

	select {
	case data := <-sub:
		assert.JSONEq(t, `{"type":"update","body":{"speed":231}}`, data)
	default:
		t.Fatal("nothing delivered")
	}
}

func TestPublisherEncodingError(t *testing.T) {
	p := NewPublisher(pubsub.NewPubSub[string]())
	err := p.Publish("update", map[string]any{"bad": make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encoding update message")
}

func TestNonFiniteValuesDoNotStopUpdates(t *testing.T) {
	ps := pubsub.NewPubSubWithMailbox[string](4)
	sub := ps.Subscribe(aggregator.UpdateChannel)
	agg := aggregator.New(aggregator.DefaultTags(), model.NewState(), NewPublisher(ps), nil)
	ctx := context.Background()

	status := make([]record.Record, packet.NumCars)
	for i := range status {
		status[i] = record.Record{}
	}
	status[0] = record.Record{"ersStoreEnergy": math.NaN(), "fuelInTank": math.Inf(1), "tyresWear": []float64{math.NaN(), 1, 1, 1}}
	require.NoError(t, agg.Process(ctx, packet.NewCarStatus(packet.Header{PacketID: 7}, status)))

	telemetry := make([]record.Record, packet.NumCars)
	for i := range telemetry {
		telemetry[i] = record.Record{}
	}
	telemetry[0] = record.Record{"speed": 288}
	require.NoError(t, agg.Process(ctx, packet.NewCarTelemetry(packet.Header{PacketID: 6}, telemetry, nil)))

	var frames []caster.Message
	for len(sub) > 0 {
		var m caster.Message
		require.NoError(t, json.Unmarshal([]byte(<-sub), &m))
		frames = append(frames, m)
	}
	require.Len(t, frames, 2)
	body := frames[1].Body.(map[string]any)
	assert.Equal(t, float64(288), body[model.Speed])
	assert.Equal(t, 0.0, body[model.ERSStoreEnergy])
	assert.Equal(t, 0.0, body[model.FuelInTank])
}

func TestViewerReceivesUpdates(t *testing.T) {
	srv, ps, _ := newServer(t)
	conn := dial(t, srv, "")
	require.Eventually(t, func() bool { return ps.Subscribers(aggregator.UpdateChannel) == 1 }, 5*time.Second, 10*time.Millisecond)

	state := model.NewState()
	state.Merge(model.Update{model.Speed: 231})
	require.NoError(t, NewPublisher(ps).Publish(aggregator.UpdateChannel, state.Snapshot()))

	m := readMessage(t, conn)
	assert.Equal(t, aggregator.UpdateChannel, m.Type)
	body, ok := m.Body.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(231), body[model.Speed])
	assert.Equal(t, "00:00:000", body[model.LastLapTime])
}

func TestViewerSubscribesToRequestedChannels(t *testing.T) {
	srv, ps, _ := newServer(t)
	conn := dial(t, srv, "?channel=packet_6&channel=packet_7")
	require.Eventually(t, func() bool { return ps.Subscribers("packet_7") == 1 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, ps.Subscribers(aggregator.UpdateChannel))

	p := NewPublisher(ps)
	require.NoError(t, p.Publish("packet_7", map[string]any{"packetId": 7}))

	m := readMessage(t, conn)
	assert.Equal(t, "packet_7", m.Type)
}

func TestViewerDisconnectUnsubscribes(t *testing.T) {
	srv, ps, _ := newServer(t)
	conn := dial(t, srv, "")
	require.Eventually(t, func() bool { return ps.Subscribers(aggregator.UpdateChannel) == 1 }, 5*time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return ps.Subscribers(aggregator.UpdateChannel) == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestCloseDisconnectsViewers(t *testing.T) {
	srv, ps, d := newServer(t)
	conn := dial(t, srv, "")
	require.Eventually(t, func() bool { return ps.Subscribers(aggregator.UpdateChannel) == 1 }, 5*time.Second, 10*time.Millisecond)

	d.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway))
}

func get(t *testing.T, url string) (int, string) {
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestPages(t *testing.T) {
	srv, _, _ := newServer(t)

	status, body := get(t, srv.URL+"/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `data-channel="update"`)
	assert.Contains(t, body, `id="ahead_ers_deploy_mode"`)

	status, body = get(t, srv.URL+"/lapdata")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `id="sector2_time"`)
	assert.NotContains(t, body, `id="speed"`)

	status, body = get(t, srv.URL+"/packet/6")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `data-channel="packet_6"`)

	status, _ = get(t, srv.URL+"/packet/abc")
	assert.Equal(t, http.StatusNotFound, status)

	status, body = get(t, srv.URL+"/packet/255")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `data-channel="packet_255"`)

	status, _ = get(t, srv.URL+"/packet/256")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = get(t, srv.URL+"/packet/999")
	assert.Equal(t, http.StatusNotFound, status)
}
