package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/nominate/internal/nominate/app"
	"github.com/aussiebroadwan/nominate/pkg/cryptox"
)

func adminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
	}
	cmd.AddCommand(adminCreateCommand())
	cmd.AddCommand(adminPasswordCommand())
	return cmd
}

type adminFlags struct {
	username      string
	passwordStdin bool
}

func (f *adminFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.username, "username", "u", "", "admin username")
	cmd.Flags().BoolVar(&f.passwordStdin, "password-stdin", false, "read the password from stdin instead of generating one")
	_ = cmd.MarkFlagRequired("username")
}

func adminCreateCommand() *cobra.Command {
	var flags adminFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApplication(cmd.Context(), func(ctx context.Context, application *app.Application) error {
				password, generated, err := resolvePassword(cmd.InOrStdin(), flags.passwordStdin)
				if err != nil {
					return err
				}
				if err := application.CreateAdmin(ctx, flags.username, password); err != nil {
					return fmt.Errorf("create admin: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "admin %q created\n", flags.username)
				if generated {
					fmt.Fprintf(cmd.OutOrStdout(), "password: %s\n", password)
				}
				return nil
			})
		},
	}
	flags.bind(cmd)
	return cmd
}

func adminPasswordCommand() *cobra.Command {
	var flags adminFlags
	cmd := &cobra.Command{
		Use:   "set-password",
		Short: "Replace an admin's password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApplication(cmd.Context(), func(ctx context.Context, application *app.Application) error {
				password, generated, err := resolvePassword(cmd.InOrStdin(), flags.passwordStdin)
				if err != nil {
					return err
				}
				if err := application.SetAdminPassword(ctx, flags.username, password); err != nil {
					return fmt.Errorf("set password: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "password for %q updated\n", flags.username)
				if generated {
					fmt.Fprintf(cmd.OutOrStdout(), "password: %s\n", password)
				}
				return nil
			})
		},
	}
	flags.bind(cmd)
	return cmd
}

// resolvePassword reads one line from r, or generates a password when
// fromStdin is false.
func resolvePassword(r io.Reader, fromStdin bool) (password string, generated bool, err error) {
	if !fromStdin {
		password, err = cryptox.GeneratePassword()
		return password, true, err
	}

	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", false, fmt.Errorf("read password: %w", err)
	}
	password = strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", false, errors.New("read password: empty input")
	}
	return password, false, nil
}

// withApplication builds the application without starting the listener and
// closes it after fn returns.
func withApplication(ctx context.Context, fn func(context.Context, *app.Application) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	application, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer func() { _ = application.Close() }()

	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, application)
}
