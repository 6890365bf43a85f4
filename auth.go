package managesieve

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/emersion/go-sasl"

	"github.com/sievekit/managesieve/wire"
)

// Authentication mechanism names accepted in Config.Mechanism.
const (
	// MechAnonymous is the default: no credentials are required and no
	// AUTHENTICATE exchange is performed after the greeting.
	MechAnonymous = "anonymous"

	// MechPlain is SASL PLAIN: one round trip carrying the
	// base64-encoded authzid\0authcid\0password initial response.
	MechPlain = "PLAIN"

	// MechLogin is the legacy LOGIN exchange: three writes on the same
	// connection, the second of which is fired without consuming a
	// reply.
	MechLogin = "LOGIN"
)

// exchangeFunc drives one authentication mechanism to completion.
type exchangeFunc func(ctx context.Context, c *Client) error

// selectMechanism resolves the configured mechanism name to its exchange
// once, at session-establishment time. A nil exchange with nil error
// means no authentication is required.
//
// The configured name must be a member of the server's advertised set
// (case-sensitive, matching how servers advertise); mechanism selection
// itself is case-insensitive. A mechanism this client does not implement
// is rejected even when the server advertises it.
func selectMechanism(name string, caps Capabilities) (exchangeFunc, error) {
	if name == "" || strings.EqualFold(name, MechAnonymous) {
		return nil, nil
	}

	if !caps.HasMechanism(name) {
		return nil, &AuthError{Mechanism: name, Reason: "mechanism not advertised by server"}
	}

	switch strings.ToUpper(name) {
	case MechPlain:
		return plainExchange, nil
	case MechLogin:
		return loginExchange, nil
	default:
		return nil, &AuthError{Mechanism: name, Reason: "mechanism not implemented"}
	}
}

// plainExchange performs SASL PLAIN in a single round trip. The initial
// response bytes (authzid NUL authcid NUL password) come from the SASL
// client implementation; they travel base64-encoded and quoted.
func plainExchange(ctx context.Context, c *Client) error {
	saslClient := sasl.NewPlainClient(c.cfg.authzID(), c.cfg.Username, c.cfg.Password)
	_, initial, err := saslClient.Start()
	if err != nil {
		return &AuthError{Mechanism: MechPlain, Reason: err.Error()}
	}

	encoded := base64.StdEncoding.EncodeToString(initial)
	_, err = c.roundTrip(ctx, wire.CmdAuthenticate, wire.Quote(MechPlain), wire.Quote(encoded))
	if err != nil {
		return authRejected(MechPlain, err)
	}
	return nil
}

// loginExchange performs the legacy LOGIN mechanism: announce the
// mechanism and wait, send the username WITHOUT waiting for a reply,
// then send the password and wait for the terminal status that decides
// the outcome.
//
// The blind second write deviates from the one-command-one-round-trip
// discipline used everywhere else. It is a documented quirk of this
// exchange and is preserved exactly; do not turn it into a uniform
// wait-every-step pattern.
func loginExchange(ctx context.Context, c *Client) error {
	if _, err := c.roundTrip(ctx, wire.CmdAuthenticate, wire.Quote(MechLogin)); err != nil {
		return authRejected(MechLogin, err)
	}

	user := base64.StdEncoding.EncodeToString([]byte(c.cfg.Username))
	if err := c.send(ctx, wire.Quote(user)); err != nil {
		return authRejected(MechLogin, err)
	}

	pass := base64.StdEncoding.EncodeToString([]byte(c.cfg.Password))
	if _, err := c.roundTrip(ctx, wire.Quote(pass)); err != nil {
		return authRejected(MechLogin, err)
	}
	return nil
}

// authRejected shapes a round-trip failure during authentication:
// protocol-level rejections become AuthError, transport failures pass
// through untouched.
func authRejected(mechanism string, err error) error {
	if _, ok := asResponseError(err); ok {
		return &AuthError{Mechanism: mechanism, Err: err}
	}
	return err
}
