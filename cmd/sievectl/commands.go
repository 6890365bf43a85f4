package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/zeebo/xxh3"
	"pkt.systems/pslog"

	"github.com/sievekit/managesieve"
)

func newListCommand(flags *rootFlags, logger *pslog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored scripts, marking the active one with an asterisk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, flags, *logger, func(ctx context.Context, client *managesieve.Client) error {
				return client.ListScripts(ctx, func(s managesieve.Script) error {
					marker := " "
					if s.Active {
						marker = "*"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, s.Name)
					return nil
				})
			})
		},
	}
}

func newGetCommand(flags *rootFlags, logger *pslog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Print a script's content to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, flags, *logger, func(ctx context.Context, client *managesieve.Client) error {
				content, err := client.GetScript(ctx, args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), content)
				return err
			})
		},
	}
}

func newPutCommand(flags *rootFlags, logger *pslog.Logger) *cobra.Command {
	var ifChanged bool
	var activate bool

	cmd := &cobra.Command{
		Use:   "put <name> <file>",
		Short: "Upload a script from a local file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			content, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}

			return withClient(cmd, flags, *logger, func(ctx context.Context, client *managesieve.Client) error {
				if ifChanged {
					remote, err := client.GetScript(ctx, name)
					if err == nil && xxh3.Hash(content) == xxh3.HashString(remote) {
						(*logger).Info("script unchanged, skipping upload", "name", name)
						return nil
					}
					// A missing remote script just means upload.
				}

				if err := client.PutScript(ctx, name, string(content)); err != nil {
					return err
				}
				(*logger).Info("script uploaded", "name", name, "bytes", len(content))

				if activate {
					if err := client.SetActive(ctx, name); err != nil {
						return err
					}
					(*logger).Info("script activated", "name", name)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&ifChanged, "if-changed", false, "skip the upload when the remote content is identical")
	cmd.Flags().BoolVar(&activate, "activate", false, "activate the script after uploading")
	return cmd
}

func newRemoveCommand(flags *rootFlags, logger *pslog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <name>",
		Short: "Delete a stored script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, flags, *logger, func(ctx context.Context, client *managesieve.Client) error {
				return client.DeleteScript(ctx, args[0])
			})
		},
	}
}

func newActivateCommand(flags *rootFlags, logger *pslog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "activate <name>",
		Short: "Make a stored script the active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, flags, *logger, func(ctx context.Context, client *managesieve.Client) error {
				return client.SetActive(ctx, args[0])
			})
		},
	}
}

func newDeactivateCommand(flags *rootFlags, logger *pslog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate",
		Short: "Disable the active script without deleting it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, flags, *logger, func(ctx context.Context, client *managesieve.Client) error {
				return client.DeactivateScript(ctx)
			})
		},
	}
}

func newRenameCommand(flags *rootFlags, logger *pslog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a stored script",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, flags, *logger, func(ctx context.Context, client *managesieve.Client) error {
				return client.RenameScript(ctx, args[0], args[1])
			})
		},
	}
}

func newCheckCommand(flags *rootFlags, logger *pslog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Submit a local file for server-side validation without storing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			return withClient(cmd, flags, *logger, func(ctx context.Context, client *managesieve.Client) error {
				warnings, err := client.CheckScript(ctx, string(content))
				if err != nil {
					return err
				}
				if warnings != "" {
					fmt.Fprintln(cmd.OutOrStdout(), "warnings:", warnings)
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "ok")
				}
				return nil
			})
		},
	}
}

func newSpaceCommand(flags *rootFlags, logger *pslog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "space <name> <bytes>",
		Short: "Ask whether a script of the given size would fit within quota",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid size %q: %w", args[1], err)
			}
			return withClient(cmd, flags, *logger, func(ctx context.Context, client *managesieve.Client) error {
				ok, err := client.HaveSpace(ctx, args[0], size)
				if err != nil {
					return err
				}
				if ok {
					fmt.Fprintln(cmd.OutOrStdout(), "yes")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "no")
				}
				return nil
			})
		},
	}
}

func newCapsCommand(flags *rootFlags, logger *pslog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "caps",
		Short: "Print the server's advertised capabilities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, flags, *logger, func(ctx context.Context, client *managesieve.Client) error {
				caps := client.Capabilities()
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, "implementation:", caps.Implementation)
				if caps.Version != "" {
					fmt.Fprintln(out, "version:", caps.Version)
				}
				fmt.Fprintln(out, "mechanisms:", caps.Mechanisms)
				fmt.Fprintln(out, "extensions:", caps.Extensions)
				fmt.Fprintln(out, "starttls:", caps.StartTLS)
				if caps.MaxScriptSize > 0 {
					fmt.Fprintln(out, "maxscriptsize:", caps.MaxScriptSize)
				}
				return nil
			})
		},
	}
}
