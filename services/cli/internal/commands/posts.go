package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Nishchay412/Social-Distribution/pkg/client"
	"github.com/Nishchay412/Social-Distribution/pkg/core/domain"
	"github.com/Nishchay412/Social-Distribution/pkg/core/feed"
)

func (a *app) feedCmd() *cobra.Command {
	var (
		cursor string
		limit  int
		local  bool
	)
	cmd := &cobra.Command{
		Use:       "feed [public|friends|own|combined]",
		Short:     "Show a feed",
		Long:      "Show a feed. With --local the feed is rebuilt on this machine from the source lists and your relationships.",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"public", "friends", "own", "combined"},
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.optionalSession()
			if err != nil {
				return err
			}
			kind := feed.KindPublic
			if sess != nil {
				kind = feed.KindCombined
			}
			if len(args) == 1 {
				if kind, err = feed.ParseKind(args[0]); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if local {
				posts, err := a.client.Feed(cmd.Context(), sess, kind)
				if err != nil {
					return err
				}
				return writePosts(out, posts)
			}
			page, err := a.client.FeedPage(cmd.Context(), sess, kind, cursor, limit)
			if err != nil {
				return err
			}
			if err := writePosts(out, page.Posts); err != nil {
				return err
			}
			if page.Next != "" {
				fmt.Fprintf(out, "next: %s\n", page.Next)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&cursor, "cursor", "", "resume after this cursor")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size (server default when 0)")
	cmd.Flags().BoolVar(&local, "local", false, "rebuild the whole feed locally")
	return cmd
}

func (a *app) postCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Read and write posts",
	}
	cmd.AddCommand(a.postGetCmd(), a.postCreateCmd(), a.postDeleteCmd(), a.postDraftsCmd())
	return cmd
}

func (a *app) postGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get POST_ID",
		Short: "Show one post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}
			p, err := a.client.GetPost(cmd.Context(), sess, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s by %s [%s]\n", p.Title, p.Author, p.Visibility)
			fmt.Fprintf(out, "%s\n", p.CreatedAt.Local().Format(time.DateTime))
			if p.Content != "" {
				fmt.Fprintf(out, "\n%s\n", p.Content)
			}
			fmt.Fprintf(out, "\n%d like(s)\n", p.LikeCount)
			return nil
		},
	}
}

func (a *app) postCreateCmd() *cobra.Command {
	var (
		in         client.PostInput
		visibility string
	)
	cmd := &cobra.Command{
		Use:   "create TITLE",
		Short: "Publish a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}
			if visibility != "" {
				if in.Visibility, err = domain.ParseVisibility(visibility); err != nil {
					return err
				}
			}
			in.Title = args[0]
			p, err := a.client.CreatePost(cmd.Context(), sess, in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Content, "content", "", "post body")
	cmd.Flags().StringVar(&in.Image, "image", "", "image url")
	cmd.Flags().StringVar(&visibility, "visibility", "", "PUBLIC, UNLISTED, FRIENDS, PRIVATE or DRAFT")
	return cmd
}

func (a *app) postDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete POST_ID",
		Short: "Delete one of your posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}
			if err := a.client.DeletePost(cmd.Context(), sess, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted")
			return nil
		},
	}
}

func (a *app) postDraftsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drafts",
		Short: "List your drafts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}
			page, err := a.client.Drafts(cmd.Context(), sess, "", 0)
			if err != nil {
				return err
			}
			return writePosts(cmd.OutOrStdout(), page.Posts)
		},
	}
}

func (a *app) likeCmd() *cobra.Command {
	var comment string
	cmd := &cobra.Command{
		Use:   "like POST_ID",
		Short: "Toggle your like on a post or one of its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}
			var res struct {
				Liked     bool
				LikeCount int
			}
			if comment != "" {
				r, err := a.client.ToggleCommentLike(cmd.Context(), sess, args[0], comment)
				if err != nil {
					return err
				}
				res.Liked, res.LikeCount = r.Liked, r.LikeCount
			} else {
				r, err := a.client.TogglePostLike(cmd.Context(), sess, args[0])
				if err != nil {
					return err
				}
				res.Liked, res.LikeCount = r.Liked, r.LikeCount
			}
			verb := "unliked"
			if res.Liked {
				verb = "liked"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d)\n", verb, res.LikeCount)
			return nil
		},
	}
	cmd.Flags().StringVar(&comment, "comment", "", "like a comment of the post instead")
	return cmd
}

func (a *app) commentCmd() *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "comment POST_ID [TEXT]",
		Short: "Comment a post, or list its comments with --list",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if list || len(args) == 1 {
				comments, err := a.client.Comments(cmd.Context(), sess, args[0])
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				for _, c := range comments {
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", c.ID, c.Author, c.Text, c.LikeCount)
				}
				return w.Flush()
			}
			c, err := a.client.CreateComment(cmd.Context(), sess, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(out, c.ID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "list comments")
	return cmd
}

func writePosts(out io.Writer, posts []*client.Post) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, p := range posts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Author, p.Visibility, p.CreatedAt.Local().Format(time.DateTime), p.Title)
	}
	return w.Flush()
}

