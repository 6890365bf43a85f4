package wire

// Protocol delimiters
const (
	// CRLF is the line terminator for the ManageSieve protocol
	CRLF = "\r\n"

	// Space separates command tokens
	Space = " "
)

// DefaultPort is the IANA-assigned ManageSieve port.
const DefaultPort = 4190

// Outcome markers terminating a round trip.
//
// Every response ends with exactly one line starting with one of these
// markers, optionally followed by a parenthesized response code and a
// free-text message.
const (
	// OutcomeOK indicates the command completed successfully.
	OutcomeOK = "OK"

	// OutcomeNo indicates the command failed; the connection stays usable.
	OutcomeNo = "NO"

	// OutcomeBye indicates the server is closing the connection.
	OutcomeBye = "BYE"
)

// Client commands.
const (
	CmdCapability   = "CAPABILITY"
	CmdListScripts  = "LISTSCRIPTS"
	CmdGetScript    = "GETSCRIPT"
	CmdPutScript    = "PUTSCRIPT"
	CmdDeleteScript = "DELETESCRIPT"
	CmdSetActive    = "SETACTIVE"
	CmdRenameScript = "RENAMESCRIPT"
	CmdCheckScript  = "CHECKSCRIPT"
	CmdHaveSpace    = "HAVESPACE"
	CmdAuthenticate = "AUTHENTICATE"
	CmdNoop         = "NOOP"
	CmdLogout       = "LOGOUT"
)

// Capability keywords sent in the server greeting.
//
// Unrecognized keywords are ignored by the capability parser.
const (
	CapImplementation = "IMPLEMENTATION"
	CapSASL           = "SASL"
	CapSieve          = "SIEVE"
	CapStartTLS       = "STARTTLS"
	CapVersion        = "VERSION"
	CapMaxScriptSize  = "MAXSCRIPTSIZE"
)

// ActiveIndicator is the status marker the server attaches to the active
// script in a LISTSCRIPTS response. The match is case-sensitive.
const ActiveIndicator = "ACTIVE"
