package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Nishchay412/Social-Distribution/pkg/client"
)

func (a *app) registerCmd() *cobra.Command {
	var in client.RegisterInput
	cmd := &cobra.Command{
		Use:   "register USERNAME",
		Short: "Create an account and save the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Username = args[0]
			if in.Password == "" {
				pw, err := readPassword(cmd)
				if err != nil {
					return err
				}
				in.Password = pw
			}
			sess, _, err := a.client.Register(cmd.Context(), in)
			if err != nil {
				return err
			}
			if err := a.store.Save(sess); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registered as %s\n", sess.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "email address")
	cmd.Flags().StringVarP(&in.Password, "password", "p", "", "password (read from stdin when empty)")
	cmd.Flags().StringVar(&in.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&in.LastName, "last-name", "", "last name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (a *app) loginCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login USERNAME",
		Short: "Log in and save the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				pw, err := readPassword(cmd)
				if err != nil {
					return err
				}
				password = pw
			}
			sess, _, err := a.client.Login(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			if err := a.store.Save(sess); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", sess.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (read from stdin when empty)")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, sess.Username)
			if exp, ok := sess.ExpiresAt(); ok {
				state := "valid"
				if !time.Now().Before(exp) {
					state = "expired"
				}
				fmt.Fprintf(out, "access token %s until %s\n", state, exp.Local().Format(time.RFC3339))
			}
			return nil
		},
	}
}

// refreshCmd : le refresh n'est jamais implicite, il passe par cette commande.
func (a *app) refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the refresh token for a new session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}
			next, err := a.client.Refresh(cmd.Context(), sess)
			if err != nil {
				return err
			}
			if err := a.store.Save(next); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "session refreshed for %s\n", next.Username)
			return nil
		},
	}
}

func readPassword(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), "password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("empty password")
	}
	return line, nil
}
