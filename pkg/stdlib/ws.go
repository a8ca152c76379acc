package stdlib

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"vela/pkg/registry"
	"vela/pkg/value"
)

// wsConn wraps a gorilla websocket connection with a write mutex, the
// same concurrent-write guard ws_helpers.go used, since gorilla forbids
// concurrent writers on one connection.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Origin checking is the embedding host's responsibility; a script
	// engine has no browser-origin policy of its own to enforce.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// installWS registers the `ws` module. A connection is exposed to
// scripts as a Variant wrapping *wsConn, since pkg/value has no
// dedicated connection kind — the same pattern pkg/value.VariantVal
// exists for.
func installWS(reg *registry.Registry) {
	mod := registry.NewModule()

	mod.Functions["upgrade"] = func(args []value.DynVal) (value.DynVal, error) {
		if len(args) != 2 {
			return nil, argError("ws::upgrade expects (request, response)")
		}
		w, ok1 := value.Unwrap(args[0]).(*value.VariantVal)
		r, ok2 := value.Unwrap(args[1]).(*value.VariantVal)
		if !ok1 || !ok2 {
			return nil, argError("ws::upgrade expects host-provided request/response handles")
		}
		rw, ok := w.V.(http.ResponseWriter)
		if !ok {
			return nil, argError("ws::upgrade first argument is not a ResponseWriter")
		}
		req, ok := r.V.(*http.Request)
		if !ok {
			return nil, argError("ws::upgrade second argument is not a *http.Request")
		}
		c, err := upgrader.Upgrade(rw, req, nil)
		if err != nil {
			return nil, err
		}
		c.SetReadLimit(512 * 1024)
		return value.NewVariant("ws.Conn", &wsConn{conn: c}), nil
	}

	mod.Functions["send"] = func(args []value.DynVal) (value.DynVal, error) {
		if len(args) != 2 {
			return nil, argError("ws::send expects (conn, message: String)")
		}
		wc, err := asWSConn(args[0])
		if err != nil {
			return nil, err
		}
		msg, mismatch := value.AsString(args[1])
		if mismatch != "" {
			return nil, argError("ws::send message must be String, got " + mismatch)
		}
		wc.mu.Lock()
		defer wc.mu.Unlock()
		if err := wc.conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			return nil, err
		}
		return value.NewUnit(), nil
	}

	mod.Functions["recv"] = func(args []value.DynVal) (value.DynVal, error) {
		if len(args) != 1 {
			return nil, argError("ws::recv expects (conn)")
		}
		wc, err := asWSConn(args[0])
		if err != nil {
			return nil, err
		}
		_, data, err := wc.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		return value.NewString(string(data)), nil
	}

	mod.Functions["set_read_deadline"] = func(args []value.DynVal) (value.DynVal, error) {
		if len(args) != 2 {
			return nil, argError("ws::set_read_deadline expects (conn, seconds: Int)")
		}
		wc, err := asWSConn(args[0])
		if err != nil {
			return nil, err
		}
		secs, mismatch := value.AsInt(args[1])
		if mismatch != "" {
			return nil, argError("ws::set_read_deadline seconds must be Int, got " + mismatch)
		}
		return value.NewUnit(), wc.conn.SetReadDeadline(time.Now().Add(time.Duration(secs) * time.Second))
	}

	mod.Functions["close"] = func(args []value.DynVal) (value.DynVal, error) {
		if len(args) != 1 {
			return nil, argError("ws::close expects (conn)")
		}
		wc, err := asWSConn(args[0])
		if err != nil {
			return nil, err
		}
		return value.NewUnit(), wc.conn.Close()
	}

	reg.DefineModule("ws", mod)
}

func asWSConn(v value.DynVal) (*wsConn, error) {
	vr, ok := value.Unwrap(v).(*value.VariantVal)
	if !ok || vr.TypeName != "ws.Conn" {
		return nil, fmt.Errorf("expected a ws connection, got %s", value.TypeName(v))
	}
	wc, ok := vr.V.(*wsConn)
	if !ok {
		return nil, fmt.Errorf("corrupt ws connection handle")
	}
	return wc, nil
}
