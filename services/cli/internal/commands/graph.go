package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Nishchay412/Social-Distribution/pkg/client"
	"github.com/Nishchay412/Social-Distribution/pkg/core/relation"
)

func (a *app) relationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "relation USERNAME",
		Short: "Show your relationship to a user and the available action",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.optionalSession()
			if err != nil {
				return err
			}
			state, err := a.client.GetRelationship(cmd.Context(), sess, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", state, relation.ActionFor(state))
			return nil
		},
	}
}

type mutation func(*client.Client, context.Context, *client.Session, string) error

// mutationCmd : une transition, puis relecture de l'état pour l'afficher.
func (a *app) mutationCmd(use, short string, op mutation) *cobra.Command {
	return &cobra.Command{
		Use:   use + " USERNAME",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}
			if err := op(a.client, cmd.Context(), sess, args[0]); err != nil {
				return err
			}
			state, err := a.client.GetRelationship(cmd.Context(), sess, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", state, relation.ActionFor(state))
			return nil
		},
	}
}

type userLister func(*client.Client, context.Context, *client.Session, string) ([]string, error)

func (a *app) listCmd(use, short string, list userLister) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [USERNAME]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}
			username := sess.Username
			if len(args) == 1 {
				username = args[0]
			}
			users, err := list(a.client, cmd.Context(), sess, username)
			if err != nil {
				return err
			}
			for _, u := range users {
				fmt.Fprintln(cmd.OutOrStdout(), u)
			}
			return nil
		},
	}
}

func (a *app) usersCmd() *cobra.Command {
	var (
		cursor string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List other users of the node",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}
			page, err := a.client.Users(cmd.Context(), sess, cursor, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, u := range page.Users {
				fmt.Fprintf(w, "%s\t%s\n", u.Username, u.DisplayName)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if page.Next != "" {
				fmt.Fprintf(out, "next: %s\n", page.Next)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&cursor, "cursor", "", "resume after this username")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size (server default when 0)")
	return cmd
}

func (a *app) requestsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "requests",
		Short: "List pending incoming follow requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}
			reqs, err := a.client.FollowRequests(cmd.Context(), sess)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, r := range reqs {
				fmt.Fprintf(w, "%s\t%s\n", r.Requester, r.CreatedAt.Local().Format(time.DateTime))
			}
			return w.Flush()
		},
	}
}
