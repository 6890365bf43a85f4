// Package managesieve implements a client for the ManageSieve remote
// script-management protocol (RFC 5804): listing, fetching, uploading,
// activating and deleting Sieve scripts stored on a mail server.
//
// A Client owns exactly one connection for its lifetime. All operations
// are synchronous round trips with exactly one command in flight.
// Concurrent use of one Client is serialized internally; callers needing
// parallelism should open one Client per logical connection.
package managesieve

import (
	"bufio"
	"context"
	"errors"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sievekit/managesieve/wire"
)

// Config holds the session configuration.
type Config struct {
	// Host is the server hostname or IP address.
	Host string

	// Port is the server port. Zero means wire.DefaultPort (4190).
	Port int

	// Username is the authentication identity: the identity whose
	// credential is being verified.
	Username string

	// AuthorizationID is the identity on whose behalf the connection
	// acts (proxy authentication). Empty means Username.
	AuthorizationID string

	// Password is the credential for Username. It is discarded as soon
	// as the authentication exchange completes, whatever the outcome.
	Password string

	// Mechanism selects the authentication exchange: MechPlain,
	// MechLogin, or the default MechAnonymous which skips
	// authentication entirely.
	Mechanism string

	// Dialer is used to establish the connection. If nil, a default
	// net.Dialer is used.
	Dialer *net.Dialer

	// DialTimeout bounds connection establishment. Zero means no limit
	// beyond what Dialer and ctx impose.
	DialTimeout time.Duration
}

func (c Config) addr() string {
	port := c.Port
	if port == 0 {
		port = wire.DefaultPort
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(port))
}

func (c Config) authzID() string {
	if c.AuthorizationID != "" {
		return c.AuthorizationID
	}
	return c.Username
}

// Session lifecycle states. Transitions are strictly forward; no state
// is ever revisited.
type sessionState int

const (
	stateInit sessionState = iota
	stateCapabilitiesKnown
	stateAuthenticating
	stateReady
	stateClosed
)

// Client is a ManageSieve session bound to a single connection.
type Client struct {
	cfg    Config
	conn   net.Conn
	reader *bufio.Reader

	mu    sync.Mutex
	state sessionState
	caps  Capabilities

	stats *clientStatsCollector
}

// Dial connects to the server named in cfg, reads the capability
// greeting and runs the configured authentication exchange. The returned
// Client is ready to issue commands.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	dialer := cfg.Dialer
	if dialer == nil {
		dialer = &net.Dialer{}
	}
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}

	conn, err := dialer.DialContext(ctx, "tcp", cfg.addr())
	if err != nil {
		return nil, err
	}

	client, err := NewClient(ctx, conn, cfg)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return client, nil
}

// NewClient runs the session handshake over an already-established
// connection. It exists for custom transports; most callers use Dial.
//
// The Client takes ownership of conn: it is released by Logout. If
// NewClient fails the caller still owns conn and must close it.
func NewClient(ctx context.Context, conn net.Conn, cfg Config) (*Client, error) {
	c := &Client{
		cfg:    cfg,
		conn:   conn,
		reader: bufio.NewReader(conn),
		state:  stateInit,
		stats:  newClientStatsCollector(),
	}
	if err := c.handshake(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// handshake drives the session from Init to Ready: one greeting read,
// then the authentication exchange selected from the configured
// mechanism. The credential is dropped once the exchange returns,
// success or failure.
func (c *Client) handshake(ctx context.Context) error {
	c.applyDeadline(ctx)

	// The greeting is an unsolicited response sent on connect.
	greeting, err := wire.ReadResponse(c.reader)
	if err != nil {
		return err
	}
	c.caps = parseCapabilities(greeting)
	c.state = stateCapabilitiesKnown

	exchange, err := selectMechanism(c.cfg.Mechanism, c.caps)
	if err != nil {
		// Fails before any transport activity beyond the greeting.
		return err
	}

	if exchange != nil {
		c.state = stateAuthenticating
		err = exchange(ctx, c)
	}
	c.cfg.Password = ""
	if err != nil {
		return err
	}

	c.state = stateReady
	return nil
}

// Capabilities returns the capability set parsed from the greeting.
// It is populated exactly once, at session start, and immutable after.
func (c *Client) Capabilities() Capabilities {
	return c.caps
}

// Stats returns a snapshot of client operation statistics.
func (c *Client) Stats() ClientStats {
	return c.stats.snapshot()
}

// roundTrip writes one command and blocks until its terminal status line
// is consumed. The mutex guarantees a single command in flight: a new
// command is not encoded until the previous round trip has terminated.
func (c *Client) roundTrip(ctx context.Context, name string, args ...string) (*wire.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == stateClosed {
		return nil, ErrClientClosed
	}

	c.applyDeadline(ctx)

	if err := wire.WriteCommand(c.conn, name, args...); err != nil {
		c.stats.recordError()
		return nil, err
	}

	resp, err := wire.ReadResponse(c.reader)
	c.stats.recordRoundTrip()
	if err != nil {
		c.stats.recordError()
		return nil, err
	}
	return resp, nil
}

// send writes one line without consuming a reply. Only the LOGIN
// exchange uses this; every other interaction is a full round trip.
func (c *Client) send(ctx context.Context, line string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == stateClosed {
		return ErrClientClosed
	}

	c.applyDeadline(ctx)
	return wire.WriteCommand(c.conn, line)
}

// applyDeadline maps the context deadline onto the connection. The
// engine imposes no timeout of its own; blocking behavior follows the
// transport deadline.
func (c *Client) applyDeadline(ctx context.Context) {
	if deadline, ok := ctx.Deadline(); ok {
		c.conn.SetDeadline(deadline)
	} else {
		c.conn.SetDeadline(time.Time{})
	}
}

// Close releases the transport immediately, without a LOGOUT round
// trip. It is the abandon path: after a *wire.ParseError the stream
// position is no longer trustworthy and a further round trip could
// block until the deadline, so callers discard the session instead.
// Closing an already closed client is a no-op. For an orderly shutdown
// use Logout.
func (c *Client) Close() error {
	return c.close()
}

// close releases the transport and moves the session to its terminal
// state. Every subsequent operation fails with ErrClientClosed.
func (c *Client) close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == stateClosed {
		return nil
	}
	c.state = stateClosed
	return c.conn.Close()
}

// do runs one command round trip, wrapping protocol-level failures with
// the operation name.
func (c *Client) do(ctx context.Context, op, name string, args ...string) (*wire.Response, error) {
	resp, err := c.roundTrip(ctx, name, args...)
	if err != nil {
		var respErr *wire.ResponseError
		if errors.As(err, &respErr) {
			return nil, &CommandError{Op: op, Err: respErr}
		}
		return nil, err
	}
	return resp, nil
}

// parseCapabilities interprets greeting tuples by their leading keyword.
// Unrecognized keywords are ignored.
func parseCapabilities(resp *wire.Response) Capabilities {
	var caps Capabilities
	for _, tuple := range resp.Data {
		if len(tuple) == 0 {
			continue
		}
		var value string
		if len(tuple) > 1 {
			value = tuple[1]
		}
		switch strings.ToUpper(tuple[0]) {
		case wire.CapImplementation:
			caps.Implementation = value
		case wire.CapSASL:
			caps.Mechanisms = strings.Fields(value)
		case wire.CapSieve:
			caps.Extensions = strings.Fields(value)
		case wire.CapStartTLS:
			caps.StartTLS = true
		case wire.CapVersion:
			caps.Version = value
		case wire.CapMaxScriptSize:
			if n, err := strconv.ParseInt(value, 10, 64); err == nil {
				caps.MaxScriptSize = n
			}
		}
	}
	return caps
}
