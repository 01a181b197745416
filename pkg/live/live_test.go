package live

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/retained/internal/config"
	"github.com/vango-dev/retained/pkg/dom"
	"github.com/vango-dev/retained/pkg/protocol"
	"github.com/vango-dev/retained/pkg/reconcile"
	"github.com/vango-dev/retained/pkg/vdom"
)

type clicker struct{ reconcile.Base }

func (c *clicker) Render(_ vdom.Props, s reconcile.State, _ vdom.Context) *vdom.VNode {
	n, _ := s["n"].(int)
	return vdom.Button(vdom.OnClick(func(*dom.Event) {
		c.SetState(reconcile.State{"n": n + 1})
	}), strconv.Itoa(n))
}

var clickerClass = reconcile.NewClass("Clicker", func(vdom.Props, vdom.Context) reconcile.Component {
	return &clicker{}
})

func newTestServer(t *testing.T, cfg *config.Config) (*Server, *httptest.Server) {
	t.Helper()
	if cfg == nil {
		cfg = config.New()
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := NewServer(cfg, func() *vdom.VNode { return vdom.H(clickerClass, nil) }, WithLogger(logger))
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return srv, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) *protocol.Frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	f, err := protocol.DecodeFrame(msg)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	return f
}

func readPatches(t *testing.T, conn *websocket.Conn) (uint64, []dom.Mutation) {
	t.Helper()
	f := readFrame(t, conn)
	if f.Type != protocol.FramePatches || !f.Flags.Has(protocol.FlagFinal) {
		t.Fatalf("frame = %v flags=%d, want final Patches", f.Type, f.Flags)
	}
	seq, muts, err := protocol.DecodePatches(f.Payload)
	if err != nil {
		t.Fatalf("DecodePatches: %v", err)
	}
	return seq, muts
}

func readError(t *testing.T, conn *websocket.Conn) *protocol.ErrorMessage {
	t.Helper()
	f := readFrame(t, conn)
	if f.Type != protocol.FrameError {
		t.Fatalf("frame = %v, want Error", f.Type)
	}
	em, err := protocol.DecodeError(f.Payload)
	if err != nil {
		t.Fatalf("DecodeError: %v", err)
	}
	return em
}

func sendEvent(t *testing.T, conn *websocket.Conn, ev *protocol.Event) {
	t.Helper()
	data, err := protocol.NewFrame(protocol.FrameEvent, protocol.EncodeEvent(ev)).Encode()
	if err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
}

func TestSessionRendersAndDispatches(t *testing.T) {
	srv, ts := newTestServer(t, nil)
	conn := dial(t, ts)

	f := readFrame(t, conn)
	if f.Type != protocol.FrameHello {
		t.Fatalf("first frame = %v, want Hello", f.Type)
	}
	hello, err := protocol.DecodeHello(f.Payload)
	if err != nil {
		t.Fatalf("DecodeHello: %v", err)
	}
	if hello.SessionID == "" {
		t.Error("hello has no session ID")
	}

	seq, muts := readPatches(t, conn)
	if seq != 1 {
		t.Errorf("seq = %d, want 1", seq)
	}
	var button uint64
	mountedOnRoot := false
	for _, m := range muts {
		if m.Kind == dom.MutCreateElement && m.Name == "button" {
			button = m.Node
		}
		if m.Kind == dom.MutInsert && m.Parent == hello.Root && m.Node == button {
			mountedOnRoot = true
		}
	}
	if button == 0 || !mountedOnRoot {
		t.Fatalf("initial batch does not mount a button on the root: %+v", muts)
	}
	if dom.CountMutations(muts, dom.MutListen) != 1 {
		t.Errorf("listeners = %d, want 1", dom.CountMutations(muts, dom.MutListen))
	}
	if srv.Sessions() != 1 {
		t.Errorf("Sessions() = %d, want 1", srv.Sessions())
	}

	sendEvent(t, conn, &protocol.Event{NodeID: button, Type: "click"})
	seq, muts = readPatches(t, conn)
	if seq != 2 {
		t.Errorf("seq = %d, want 2", seq)
	}
	if len(muts) != 1 || muts[0].Kind != dom.MutSetText || muts[0].Value != "1" {
		t.Errorf("update batch = %+v, want one SetText 1", muts)
	}
}

func TestSessionReportsBadInput(t *testing.T) {
	_, ts := newTestServer(t, nil)
	conn := dial(t, ts)
	readFrame(t, conn)
	readPatches(t, conn)

	sendEvent(t, conn, &protocol.Event{NodeID: 9999, Type: "click"})
	if em := readError(t, conn); em.Code != "L002" || em.Fatal {
		t.Errorf("unknown target error = %+v, want non-fatal L002", em)
	}

	conn.WriteMessage(websocket.BinaryMessage, []byte{0x01})
	if em := readError(t, conn); em.Code != "P001" {
		t.Errorf("malformed frame error = %+v, want P001", em)
	}

	data, _ := protocol.NewFrame(protocol.FrameHello, nil).Encode()
	conn.WriteMessage(websocket.BinaryMessage, data)
	if em := readError(t, conn); em.Code != "P002" {
		t.Errorf("unexpected frame error = %+v, want P002", em)
	}
}

func TestSessionSyncsInputValue(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	got := make(chan string, 1)
	root := func() *vdom.VNode {
		return vdom.Input(vdom.OnInput(func(e *dom.Event) {
			got <- e.Value + "|" + e.Target.Property("value").(string)
		}))
	}
	srv := NewServer(config.New(), root, WithLogger(logger))
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()
	conn := dial(t, ts)
	readFrame(t, conn)
	_, muts := readPatches(t, conn)

	var input uint64
	for _, m := range muts {
		if m.Kind == dom.MutCreateElement && m.Name == "input" {
			input = m.Node
		}
	}
	sendEvent(t, conn, &protocol.Event{NodeID: input, Type: "input", Value: "typed"})
	select {
	case v := <-got:
		if v != "typed|typed" {
			t.Errorf("handler saw %q, want typed|typed", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("handler not called")
	}
}

func TestRouterEndpoints(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "ok\n" {
		t.Errorf("/healthz = %d %q", resp.StatusCode, body)
	}

	resp, err = http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "retained_active_sessions") {
		t.Errorf("/metrics missing active_sessions:\n%s", body)
	}

	resp, err = http.Get(ts.URL + "/live")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("/live without upgrade = %d, want 400", resp.StatusCode)
	}
}

func TestMetricsDisabled(t *testing.T) {
	cfg := config.New()
	cfg.Metrics.Enabled = false
	srv, ts := newTestServer(t, cfg)
	if srv.Metrics() != nil {
		t.Error("Metrics() != nil with metrics disabled")
	}
	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("/metrics = %d, want 404", resp.StatusCode)
	}
}

func TestShutdownClosesSessions(t *testing.T) {
	srv, ts := newTestServer(t, nil)
	conn := dial(t, ts)
	readFrame(t, conn)
	readPatches(t, conn)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if srv.Sessions() != 0 {
		t.Errorf("Sessions() = %d after shutdown", srv.Sessions())
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("ReadMessage after shutdown = %v, want normal close", err)
	}
}

func TestShutdownRejectsNewSessions(t *testing.T) {
	srv, ts := newTestServer(t, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/live"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		conn.Close()
		t.Fatal("Dial after shutdown succeeded")
	}
	if resp == nil || resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Dial after shutdown = %v, want 503", err)
	}
	if srv.Sessions() != 0 {
		t.Errorf("Sessions() = %d, want 0", srv.Sessions())
	}
}

func TestOriginChecker(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{"no_origin", nil, "", true},
		{"same_host", nil, "http://example.com", true},
		{"cross_origin", nil, "http://evil.test", false},
		{"listed", []string{"http://app.test"}, "http://app.test", true},
		{"wildcard", []string{"*"}, "http://evil.test", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "http://example.com/live", nil)
			if tc.origin != "" {
				r.Header.Set("Origin", tc.origin)
			}
			if got := originChecker(tc.allowed)(r); got != tc.want {
				t.Errorf("check(%q) = %v, want %v", tc.origin, got, tc.want)
			}
		})
	}
}
