package posts

import (
	"fmt"
	"strconv"
	"time"

	"github.com/crucial707/blog-api/cmd/cli/client"
	"github.com/crucial707/blog-api/cmd/cli/config"
	"github.com/crucial707/blog-api/cmd/cli/output"
	"github.com/spf13/cobra"
)

type comment struct {
	ID        int       `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	AuthorID  int       `json:"author_id"`
}

type post struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Comments  []comment `json:"comments"`
}

type created struct {
	Msg string `json:"msg"`
	ID  int    `json:"id"`
}

// ==========================
// Init Posts
// ==========================
func InitPosts(rootCmd *cobra.Command) {
	postsCmd := &cobra.Command{
		Use:   "posts",
		Short: "Read and write blog posts",
	}

	postsCmd.AddCommand(
		listPostsCmd(),
		getPostCmd(),
		createPostCmd(),
		commentCmd(),
	)

	rootCmd.AddCommand(postsCmd)
}

// ==========================
// LIST
// ==========================
func listPostsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			var posts []post
			if err := client.Do("GET", "/posts", "", nil, &posts); err != nil {
				return err
			}

			if jsonOutput {
				return output.PrintJSON(posts)
			}

			if len(posts) == 0 {
				fmt.Println("No posts yet.")
				return nil
			}
			rows := make([][]interface{}, 0, len(posts))
			for _, p := range posts {
				rows = append(rows, []interface{}{p.ID, p.Title, p.CreatedAt.Format(time.RFC3339), len(p.Comments)})
			}
			output.RenderTable([]string{"ID", "Title", "Created", "Comments"}, rows)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output raw JSON instead of a table")
	return cmd
}

// ==========================
// GET
// ==========================
func getPostCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "get [id]",
		Short: "Show a post with its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var p post
			if err := client.Do("GET", fmt.Sprintf("/posts/%d", id), "", nil, &p); err != nil {
				return err
			}

			if jsonOutput {
				return output.PrintJSON(p)
			}

			fmt.Printf("#%d %s\n", p.ID, p.Title)
			fmt.Printf("Created: %s\n\n", p.CreatedAt.Format(time.RFC3339))
			fmt.Println(p.Content)

			if len(p.Comments) == 0 {
				fmt.Println("\nNo comments yet.")
				return nil
			}
			fmt.Println()
			rows := make([][]interface{}, 0, len(p.Comments))
			for _, c := range p.Comments {
				rows = append(rows, []interface{}{c.ID, c.AuthorID, c.CreatedAt.Format(time.RFC3339), c.Content})
			}
			output.RenderTable([]string{"ID", "Author", "Created", "Comment"}, rows)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output raw JSON")
	return cmd
}

// ==========================
// CREATE
// ==========================
func createPostCmd() *cobra.Command {
	var title, content string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a post as the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := config.LoadToken()
			if err != nil {
				return err
			}

			var out created
			payload := map[string]string{"title": title, "content": content}
			if err := client.Do("POST", "/posts", token, payload, &out); err != nil {
				return err
			}

			fmt.Printf("Post created (id %d)\n", out.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Post title")
	cmd.Flags().StringVarP(&content, "content", "c", "", "Post content")
	return cmd
}

// ==========================
// COMMENT
// ==========================
func commentCmd() *cobra.Command {
	var content string

	cmd := &cobra.Command{
		Use:   "comment [post-id]",
		Short: "Comment on a post as the logged-in user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			token, err := config.LoadToken()
			if err != nil {
				return err
			}

			var out created
			payload := map[string]string{"content": content}
			if err := client.Do("POST", fmt.Sprintf("/posts/%d/comments", id), token, payload, &out); err != nil {
				return err
			}

			fmt.Printf("Comment added (id %d)\n", out.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&content, "content", "c", "", "Comment text")
	return cmd
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid post id %q", s)
	}
	return id, nil
}
