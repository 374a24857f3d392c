package dashboard

import (
	"fmt"
	"html/template"
	"log"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"f1telemetrydash/pkg/aggregator"
	"f1telemetrydash/pkg/model"
	"f1telemetrydash/pkg/pubsub"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second

	// packetIDPattern matches the decimal packet ids 0 to 255.
	packetIDPattern = `(?:25[0-5]|2[0-4][0-9]|1[0-9]{2}|[1-9]?[0-9])`
)

type Dashboard struct {
	ps       *pubsub.PubSub[string]
	upgrader websocket.Upgrader
	done     chan struct{}
	stop     sync.Once
}

func New(ps *pubsub.PubSub[string]) *Dashboard {
	return &Dashboard{
		ps:       ps,
		upgrader: websocket.Upgrader{HandshakeTimeout: writeWait},
		done:     make(chan struct{}),
	}
}

func (d *Dashboard) AddHandlers(r *mux.Router) {
	r.HandleFunc("/", d.serveState).Methods(http.MethodGet)
	r.HandleFunc("/lapdata", d.serveLapData).Methods(http.MethodGet)
	r.HandleFunc("/packet/{id:"+packetIDPattern+"}", d.servePacket).Methods(http.MethodGet)
	r.HandleFunc("/ws", d.serveWS).Methods(http.MethodGet)
}

// Close disconnects every viewer.
func (d *Dashboard) Close() {
	d.stop.Do(func() { close(d.done) })
}

type page struct {
	Title   string
	Channel string
	Keys    []string
	Raw     bool
}

func (d *Dashboard) serveState(w http.ResponseWriter, r *http.Request) {
	keys := []string{}
	for k := range model.Keys() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	d.render(w, page{Title: "Telemetry", Channel: aggregator.UpdateChannel, Keys: keys})
}

func (d *Dashboard) serveLapData(w http.ResponseWriter, r *http.Request) {
	d.render(w, page{Title: "Lap data", Channel: aggregator.UpdateChannel, Keys: model.KeysOf(model.CategoryLapData)})
}

func (d *Dashboard) servePacket(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 8)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	d.render(w, page{Title: fmt.Sprintf("Packet %d", id), Channel: aggregator.PacketChannel(uint8(id)), Raw: true})
}

func (d *Dashboard) render(w http.ResponseWriter, p page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, p); err != nil {
		log.Printf("Error rendering %s: %s\n", p.Title, err.Error())
	}
}

// serveWS streams the channels named by the repeatable channel query
// parameter, update by default, until the viewer goes away.
func (d *Dashboard) serveWS(w http.ResponseWriter, r *http.Request) {
	channels := r.URL.Query()["channel"]
	if len(channels) == 0 {
		channels = []string{aggregator.UpdateChannel}
	}

	conn, err := d.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Error upgrading websocket: %s\n", err.Error())
		return
	}
	defer conn.Close()

	sub := d.ps.Subscribe(channels...)
	defer d.ps.Unsubscribe(sub)

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case <-d.done:
			_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
			return
		case data, ok := <-sub:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(data)); err != nil {
				log.Printf("Error writing to viewer: %s\n", err.Error())
				return
			}
		}
	}
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: monospace; background: #15151e; color: #f0f0f0; }
table { border-collapse: collapse; }
td, th { padding: 2px 12px; border-bottom: 1px solid #38383f; text-align: left; }
</style>
</head>
<body data-channel="{{.Channel}}">
<h1>{{.Title}}</h1>
{{if .Raw}}<pre id="raw">waiting for {{.Channel}}</pre>
{{else}}<table>
<tr><th>metric</th><th>value</th></tr>
{{range .Keys}}<tr><td>{{.}}</td><td id="{{.}}">-</td></tr>
{{end}}</table>
{{end}}<script>
const channel = document.body.dataset.channel;
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws?channel=" + encodeURIComponent(channel));
ws.onmessage = (ev) => {
  const msg = JSON.parse(ev.data);
  const raw = document.getElementById("raw");
  if (raw) {
    raw.textContent = JSON.stringify(msg.body, null, 2);
    return;
  }
  for (const [k, v] of Object.entries(msg.body || {})) {
    const cell = document.getElementById(k);
    if (cell) cell.textContent = Array.isArray(v) ? v.map((x) => Number(x).toFixed(1)).join(" / ") : v;
  }
};
</script>
</body>
</html>
`))
