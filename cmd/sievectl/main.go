// sievectl is a command-line client for managing Sieve scripts over the
// ManageSieve protocol.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"github.com/sievekit/managesieve"
	"github.com/sievekit/managesieve/wire"
)

// passwordEnvVar is consulted when neither the config file nor the
// environment override carries a credential.
const passwordEnvVar = "SIEVECTL_PASSWORD"

type rootFlags struct {
	host         string
	port         int
	user         string
	authzID      string
	password     string
	passwordFile string
	mechanism    string
	configPath   string
	logLevel     string
	timeout      time.Duration
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "sievectl:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}
	logger := pslog.NoopLogger()

	cmd := &cobra.Command{
		Use:           "sievectl",
		Short:         "sievectl manages Sieve filtering scripts on a ManageSieve server",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			fileCfg, err := loadFileConfig(flags.configPath)
			if err != nil {
				return err
			}
			fileCfg.merge(flags)
			if flags.passwordFile != "" {
				password, err := readPasswordFile(flags.passwordFile)
				if err != nil {
					return err
				}
				flags.password = password
			}
			if flags.password == "" {
				flags.password = os.Getenv(passwordEnvVar)
			}
			flags.mechanism = normalizeMechanism(flags.mechanism)
			if flags.host == "" {
				return fmt.Errorf("no server host given (use --host or a config file)")
			}

			if level, ok := pslog.ParseLevel(flags.logLevel); ok && level != pslog.Disabled {
				logger = pslog.NewStructured(os.Stderr).LogLevel(level)
			}
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.host, "host", "H", "", "server hostname")
	pf.IntVarP(&flags.port, "port", "p", 0, "server port (default 4190)")
	pf.StringVarP(&flags.user, "user", "u", "", "authentication username")
	pf.StringVar(&flags.authzID, "authzid", "", "authorization identity (proxy auth)")
	pf.StringVar(&flags.passwordFile, "password-file", "", "file containing the password")
	pf.StringVarP(&flags.mechanism, "mech", "m", "", "authentication mechanism: PLAIN, LOGIN or anonymous")
	pf.StringVarP(&flags.configPath, "config", "c", "", "path to TOML config file")
	pf.StringVar(&flags.logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error, disabled)")
	pf.DurationVar(&flags.timeout, "timeout", 30*time.Second, "per-command timeout")

	cmd.AddCommand(
		newListCommand(flags, &logger),
		newGetCommand(flags, &logger),
		newPutCommand(flags, &logger),
		newRemoveCommand(flags, &logger),
		newActivateCommand(flags, &logger),
		newDeactivateCommand(flags, &logger),
		newRenameCommand(flags, &logger),
		newCheckCommand(flags, &logger),
		newSpaceCommand(flags, &logger),
		newCapsCommand(flags, &logger),
	)
	return cmd
}

// withClient dials a session, runs fn, and always logs out afterwards.
// Each invocation of sievectl is one session.
func withClient(cmd *cobra.Command, flags *rootFlags, logger pslog.Logger, fn func(ctx context.Context, client *managesieve.Client) error) error {
	ctx := cmd.Context()
	if flags.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flags.timeout)
		defer cancel()
	}

	cfg := managesieve.Config{
		Host:            flags.host,
		Port:            flags.port,
		Username:        flags.user,
		AuthorizationID: flags.authzID,
		Password:        flags.password,
		Mechanism:       flags.mechanism,
	}

	client, err := managesieve.Dial(ctx, cfg)
	if err != nil {
		return err
	}
	logger.Debug("session established",
		"host", flags.host,
		"mechanism", flags.mechanism,
		"implementation", client.Capabilities().Implementation,
	)

	opErr := fn(ctx, client)

	// After a framing failure the stream position is untrustworthy; a
	// LOGOUT round trip could block on it, so abandon the session.
	var parseErr *wire.ParseError
	if errors.As(opErr, &parseErr) {
		_ = client.Close()
		return opErr
	}

	if err := client.Logout(ctx); err != nil && opErr == nil {
		opErr = err
	}
	return opErr
}
