package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"Exacldraw/internal/config"
	"Exacldraw/internal/net"
)

type credentialFlags struct {
	email         string
	password      string
	passwordStdin bool
}

func (f *credentialFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.email, "email", "", "account email")
	cmd.Flags().StringVar(&f.password, "password", "", "account password")
	cmd.Flags().BoolVar(&f.passwordStdin, "password-stdin", false, "read the password from stdin")
	_ = cmd.MarkFlagRequired("email")
}

func (f *credentialFlags) resolve(in io.Reader) (string, error) {
	if !f.passwordStdin {
		if f.password == "" {
			return "", errors.New("password required: pass --password or --password-stdin")
		}
		return f.password, nil
	}
	if f.password != "" {
		return "", errors.New("--password and --password-stdin are mutually exclusive")
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("empty password on stdin")
	}
	return password, nil
}

func newSignUpCmd(cfgPath *string) *cobra.Command {
	var (
		creds    credentialFlags
		username string
	)
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account on the drawing backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := creds.resolve(cmd.InOrStdin())
			if err != nil {
				return err
			}
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			client, tokens, err := openBackend(ctx, cfg, false)
			if err != nil {
				return err
			}
			token, err := client.SignUp(ctx, creds.email, password, username)
			if err != nil {
				return err
			}
			if err := storeToken(tokens, token); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "signed up as %s\n", creds.email)
			return err
		},
	}
	creds.register(cmd)
	cmd.Flags().StringVar(&username, "username", "", "display name")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newSignInCmd(cfgPath *string) *cobra.Command {
	var creds credentialFlags
	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in to the drawing backend and keep the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := creds.resolve(cmd.InOrStdin())
			if err != nil {
				return err
			}
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			client, tokens, err := openBackend(ctx, cfg, false)
			if err != nil {
				return err
			}
			token, err := client.SignIn(ctx, creds.email, password)
			if err != nil {
				return err
			}
			if err := storeToken(tokens, token); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s\n", creds.email)
			return err
		},
	}
	creds.register(cmd)
	return cmd
}

func newSignOutCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			tokens, err := net.NewTokenStore(cfg.Backend.TokenFile, pslog.Ctx(cmd.Context()))
			if err != nil {
				return err
			}
			if err := tokens.Clear(); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "signed out")
			return err
		},
	}
}
