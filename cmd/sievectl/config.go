package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/sievekit/managesieve"
)

// fileConfig is the optional TOML configuration file. Flags override
// file values; the password additionally falls back to the
// SIEVECTL_PASSWORD environment variable.
type fileConfig struct {
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
	User      string `toml:"user"`
	AuthzID   string `toml:"authzid"`
	Password  string `toml:"password"`
	Mechanism string `toml:"mechanism"`
}

func loadFileConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, fmt.Errorf("config file %s does not exist", path)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// merge applies file values underneath the flag values: a flag that was
// left at its zero value takes the file's value.
func (f fileConfig) merge(flags *rootFlags) {
	if flags.host == "" {
		flags.host = f.Host
	}
	if flags.port == 0 {
		flags.port = f.Port
	}
	if flags.user == "" {
		flags.user = f.User
	}
	if flags.authzID == "" {
		flags.authzID = f.AuthzID
	}
	if flags.mechanism == "" {
		flags.mechanism = f.Mechanism
	}
	if flags.password == "" {
		flags.password = f.Password
	}
}

// readPasswordFile returns the file's content without trailing line
// terminators, so a conventional one-line secret file works as-is.
func readPasswordFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// normalizeMechanism upper-cases a configured mechanism name so that
// lowercase spellings in config files match the server's advertised set,
// which is case-sensitive. The anonymous sentinel is left untouched.
func normalizeMechanism(name string) string {
	if name == "" || strings.EqualFold(name, managesieve.MechAnonymous) {
		return name
	}
	return strings.ToUpper(name)
}
