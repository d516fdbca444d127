// Package commands contient l'arbre cobra de socialctl.
package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Nishchay412/Social-Distribution/pkg/client"
	"github.com/Nishchay412/Social-Distribution/services/cli/config"
	"github.com/Nishchay412/Social-Distribution/services/cli/internal/session"
)

// app porte les dépendances partagées par les sous-commandes.
type app struct {
	cfg    *config.Config
	client *client.Client
	store  *session.Store
}

// NewRootCmd construit socialctl. Le client est créé avant chaque commande,
// la session est relue du disque à chaque appel.
func NewRootCmd(cfg *config.Config) *cobra.Command {
	a := &app{cfg: cfg, store: session.NewStore(cfg.SessionPath)}

	root := &cobra.Command{
		Use:           "socialctl",
		Short:         "Command line client for a social node",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.New(cfg.BaseURL, client.WithTimeout(cfg.Timeout))
			if err != nil {
				return err
			}
			a.client = c
			return nil
		},
	}

	root.AddCommand(
		a.registerCmd(), a.loginCmd(), a.logoutCmd(), a.whoamiCmd(), a.refreshCmd(),
		a.relationCmd(),
		a.mutationCmd("follow", "Send a follow request", (*client.Client).SendFollowRequest),
		a.mutationCmd("cancel", "Cancel a pending follow request", (*client.Client).CancelFollowRequest),
		a.mutationCmd("accept", "Accept a follow request", (*client.Client).AcceptFollowRequest),
		a.mutationCmd("deny", "Deny a follow request", (*client.Client).DenyFollowRequest),
		a.mutationCmd("unfollow", "Stop following a user", (*client.Client).Unfollow),
		a.listCmd("followers", "List accepted followers", (*client.Client).Followers),
		a.listCmd("followees", "List accepted followees", (*client.Client).Followees),
		a.listCmd("friends", "List mutual follows", (*client.Client).Friends),
		a.requestsCmd(),
		a.usersCmd(),
		a.feedCmd(),
		a.postCmd(),
		a.likeCmd(),
		a.commentCmd(),
	)
	return root
}

// Execute lance la commande et rend l'erreur lisible.
func Execute(cmd *cobra.Command, stderr io.Writer) int {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(stderr, "error:", explain(err))
		return 1
	}
	return 0
}

func explain(err error) string {
	switch {
	case errors.Is(err, session.ErrNoSession), errors.Is(err, client.ErrAuthRequired):
		return "not logged in, run `socialctl login`"
	case errors.Is(err, client.ErrSessionExpired):
		return "session expired, run `socialctl refresh` or `socialctl login`"
	case errors.Is(err, client.ErrUnauthenticated):
		return fmt.Sprintf("%v (run `socialctl login`)", err)
	case client.IsRetryable(err):
		return fmt.Sprintf("%v (node unreachable, safe to retry)", err)
	}
	return err.Error()
}

// session charge la session obligatoire.
func (a *app) session() (*client.Session, error) {
	return a.store.Load()
}

// optionalSession : absence de session = lecture anonyme.
func (a *app) optionalSession() (*client.Session, error) {
	sess, err := a.store.Load()
	if errors.Is(err, session.ErrNoSession) {
		return nil, nil
	}
	return sess, err
}
