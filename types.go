package managesieve

// Capabilities is the server capability set learned from the greeting.
// It is populated exactly once per session and immutable thereafter.
type Capabilities struct {
	// Implementation is the server's self-reported name. Informational.
	Implementation string

	// Mechanisms is the advertised SASL mechanism set. Order carries no
	// meaning; membership tests are case-sensitive.
	Mechanisms []string

	// Extensions is the advertised set of Sieve language extensions.
	Extensions []string

	// StartTLS reports whether the server advertises the secure
	// transport upgrade. The upgrade itself is not performed by this
	// client.
	StartTLS bool

	// Version is the advertised protocol version, when present.
	Version string

	// MaxScriptSize is the advertised upper bound on script size in
	// bytes, when present. Zero means not advertised.
	MaxScriptSize int64
}

// HasMechanism reports whether name is in the advertised mechanism set.
// The match is case-sensitive, as advertised sets are.
func (c Capabilities) HasMechanism(name string) bool {
	for _, m := range c.Mechanisms {
		if m == name {
			return true
		}
	}
	return false
}

// HasExtension reports whether ext is in the advertised extension set.
func (c Capabilities) HasExtension(ext string) bool {
	for _, e := range c.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Script is one entry of a script listing.
type Script struct {
	Name string

	// Active is true exactly when the server marked the entry with the
	// ACTIVE status token. At most one script is active at a time.
	Active bool
}
