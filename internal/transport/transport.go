// Package transport owns the duplex connection to the session server. Open never
// blocks: it returns a Conn at once and reports progress as Events, so callers
// can drive their state machine from a single event stream.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/DoyleJ11/cube-draft/pkg/types"
)

var ErrNotOpen = errors.New("transport not open")
var ErrClosed = errors.New("transport closed")
var ErrBackpressure = errors.New("transport send queue full")

type EventKind int

const (
	EventOpen EventKind = iota + 1
	EventMessage
	EventClose
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventOpen:
		return "open"
	case EventMessage:
		return "message"
	case EventClose:
		return "close"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is tagged with the Conn that produced it so consumers can discard
// events from connections they have already replaced.
type Event struct {
	Kind EventKind
	Conn Conn
	Data []byte
	Err  error
}

type Conn interface {
	Send(data []byte) error
	Close() error
}

type Opener interface {
	Open(ctx context.Context, id types.Identity, emit func(Event)) Conn
}

// Endpoint builds the session URL for id from an http(s) or ws(s) base URL.
func Endpoint(base string, id types.Identity) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	q := u.Query()
	q.Set("room", id.RoomID)
	q.Set("seat", strconv.Itoa(id.Seat))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
