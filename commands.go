package managesieve

import (
	"context"
	"errors"
	"strconv"

	"github.com/sievekit/managesieve/wire"
)

// ScriptManager is the operation surface of a ManageSieve session.
// *Client is the only implementation in this package; the interface
// exists so tools can be tested against fakes.
type ScriptManager interface {
	ListScripts(ctx context.Context, fn func(Script) error) error
	GetScript(ctx context.Context, name string) (string, error)
	PutScript(ctx context.Context, name, content string) error
	DeleteScript(ctx context.Context, name string) error
	SetActive(ctx context.Context, name string) error
	HaveSpace(ctx context.Context, name string, size int64) (bool, error)
	Logout(ctx context.Context) error
	Close() error
}

var _ ScriptManager = (*Client)(nil)

// ListScripts retrieves the script listing and delivers each entry to
// fn, in server order. A script is active exactly when its status
// marker equals ACTIVE (case-sensitive); entries without a marker are
// inactive. The sequence is one-shot: iterating again means re-issuing
// the command. A non-nil error from fn stops delivery and is returned.
func (c *Client) ListScripts(ctx context.Context, fn func(Script) error) error {
	resp, err := c.do(ctx, "listscripts", wire.CmdListScripts)
	if err != nil {
		return err
	}
	c.stats.recordList()

	for _, tuple := range resp.Data {
		if len(tuple) == 0 {
			continue
		}
		entry := Script{Name: tuple[0]}
		if len(tuple) > 1 && tuple[1] == wire.ActiveIndicator {
			entry.Active = true
		}
		if err := fn(entry); err != nil {
			return err
		}
	}
	return nil
}

// Scripts is a convenience wrapper collecting the full listing.
func (c *Client) Scripts(ctx context.Context) ([]Script, error) {
	var scripts []Script
	err := c.ListScripts(ctx, func(s Script) error {
		scripts = append(scripts, s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return scripts, nil
}

// GetScript fetches the body of the named script. The body is the
// single literal token of the response, empty if absent.
func (c *Client) GetScript(ctx context.Context, name string) (string, error) {
	resp, err := c.do(ctx, "getscript", wire.CmdGetScript, wire.Quote(name))
	if err != nil {
		return "", err
	}
	c.stats.recordGet(int64(len(resp.First())))
	return resp.First(), nil
}

// PutScript uploads content under the given name, replacing any
// existing script of that name. The body travels as a length-prefixed
// literal, so it may contain quotes, CRLFs or any other bytes. Empty
// content sends the bare command without a literal block.
func (c *Client) PutScript(ctx context.Context, name, content string) error {
	args := []string{wire.Quote(name)}
	if content != "" {
		args = append(args, wire.Literal([]byte(content)))
	}
	if _, err := c.do(ctx, "putscript", wire.CmdPutScript, args...); err != nil {
		return err
	}
	c.stats.recordPut(int64(len(content)))
	return nil
}

// DeleteScript removes the named script. Servers refuse to delete the
// active script.
func (c *Client) DeleteScript(ctx context.Context, name string) error {
	if _, err := c.do(ctx, "deletescript", wire.CmdDeleteScript, wire.Quote(name)); err != nil {
		return err
	}
	c.stats.recordDelete()
	return nil
}

// SetActive marks the named script as the one the server executes on
// delivery, deactivating whichever script was active before.
func (c *Client) SetActive(ctx context.Context, name string) error {
	if _, err := c.do(ctx, "setactive", wire.CmdSetActive, wire.Quote(name)); err != nil {
		return err
	}
	c.stats.recordActivate()
	return nil
}

// DeactivateScript disables the active script without deleting it, by
// setting the empty script name active.
func (c *Client) DeactivateScript(ctx context.Context) error {
	if _, err := c.do(ctx, "deactivate", wire.CmdSetActive, wire.Quote("")); err != nil {
		return err
	}
	c.stats.recordActivate()
	return nil
}

// RenameScript renames a script, preserving its active status. Not
// every server implements RENAMESCRIPT; unsupporting servers answer NO.
func (c *Client) RenameScript(ctx context.Context, oldName, newName string) error {
	_, err := c.do(ctx, "renamescript", wire.CmdRenameScript, wire.Quote(oldName), wire.Quote(newName))
	return err
}

// CheckScript submits content for server-side validation without
// storing it. The returned warnings string is the server's optional
// free-text from the OK line (some servers flag it with a WARNINGS
// response code).
func (c *Client) CheckScript(ctx context.Context, content string) (warnings string, err error) {
	resp, err := c.do(ctx, "checkscript", wire.CmdCheckScript, wire.Literal([]byte(content)))
	if err != nil {
		return "", err
	}
	if resp.Code == "WARNINGS" {
		return resp.Message, nil
	}
	return "", nil
}

// HaveSpace asks whether a script of the given name and byte size would
// fit within the user's quota. Any protocol-level rejection — quota
// exceeded, size over limit, or any other NO — is deliberately
// converted to false rather than surfaced as an error; the server does
// not distinguish "no space" from other rejection reasons in a way this
// client can rely on. Transport failures are still returned as errors.
func (c *Client) HaveSpace(ctx context.Context, name string, size int64) (bool, error) {
	_, err := c.do(ctx, "havespace", wire.CmdHaveSpace, wire.Quote(name), strconv.FormatInt(size, 10))
	if err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Noop performs a server round trip with no effect. Useful to verify
// the session is still live and to reset server inactivity timers.
func (c *Client) Noop(ctx context.Context) error {
	_, err := c.do(ctx, "noop", wire.CmdNoop)
	return err
}

// Capability re-fetches the capability set with an explicit CAPABILITY
// command. The session's greeting-derived Capabilities are not mutated;
// the freshly parsed set is returned.
func (c *Client) Capability(ctx context.Context) (Capabilities, error) {
	resp, err := c.do(ctx, "capability", wire.CmdCapability)
	if err != nil {
		return Capabilities{}, err
	}
	return parseCapabilities(resp), nil
}

// Logout ends the session: one LOGOUT round trip, then the transport is
// released and the session enters its terminal Closed state. Every
// subsequent operation fails with ErrClientClosed. The transport is
// released even when the round trip fails.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, "logout", wire.CmdLogout)
	if closeErr := c.close(); err == nil {
		err = closeErr
	}
	return err
}
