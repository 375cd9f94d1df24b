package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"scribe/internal/clix"
	"scribe/internal/fileingest"
	"scribe/internal/services"
)

var (
	articleCategory    string
	articleAuthor      string
	articleTitle       string
	articleContent     string
	articleContentFile string
	articleLimit       int
	articleDrafts      bool
	articleImageURL    string
)

// articleCmd represents the base article command
var articleCmd = &cobra.Command{
	Use:   "article",
	Short: "Manage articles",
	Long:  `Create, list, and delete articles from the command line.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var articleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent articles",
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		filter, err := clix.ParseArticleFilter(cmd.Flags())
		if err != nil {
			return err
		}

		articles, err := appInstance.ArticleService.List(cmd.Context(), filter)
		if err != nil {
			return fmt.Errorf("failed to list articles: %w", err)
		}
		if len(articles) == 0 {
			fmt.Println("No articles found.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "Title", "Category", "Views", "Shares", "Created At"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)

		for _, a := range articles {
			table.Append([]string{
				a.ID,
				a.Title,
				a.Category,
				fmt.Sprintf("%d", a.Views),
				fmt.Sprintf("%d", a.Shares),
				a.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		table.Render()
		return nil
	},
}

var articleCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an article",
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		if articleContent == "" && articleContentFile == "" {
			return fmt.Errorf("either --content or --file is required")
		}

		content := articleContent
		if articleContentFile != "" {
			content, err = fileingest.ReadArticleContent(articleContentFile)
			if err != nil {
				return err
			}
		}

		article, err := appInstance.ArticleService.Create(cmd.Context(), services.CreateArticleParams{
			Title:    articleTitle,
			Content:  content,
			Category: articleCategory,
			Author:   articleAuthor,
			ImageURL: articleImageURL,
		})
		if err != nil {
			return fmt.Errorf("failed to create article: %w", err)
		}

		fmt.Printf("%s Created article %s (%s)\n", color.GreenString("OK"), article.ID, article.Title)
		if article.Summary != "" {
			fmt.Printf("Summary: %s\n", article.Summary)
		} else {
			fmt.Println(color.YellowString("Summary pending (will be backfilled)."))
		}
		return nil
	},
}

var articleDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an article by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		if err := appInstance.ArticleService.Delete(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to delete article: %w", err)
		}
		fmt.Printf("%s Deleted article %s\n", color.GreenString("OK"), args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(articleCmd)
	articleCmd.AddCommand(articleListCmd)
	articleCmd.AddCommand(articleCreateCmd)
	articleCmd.AddCommand(articleDeleteCmd)

	articleListCmd.Flags().StringVar(&articleCategory, "category", "", "Filter by category name")
	articleListCmd.Flags().IntVar(&articleLimit, "limit", 20, "Maximum number of articles to list")
	articleListCmd.Flags().BoolVar(&articleDrafts, "include-drafts", false, "Include unpublished articles")

	articleCreateCmd.Flags().StringVar(&articleTitle, "title", "", "Article title (required)")
	articleCreateCmd.Flags().StringVar(&articleContent, "content", "", "Article content")
	articleCreateCmd.Flags().StringVar(&articleContentFile, "file", "", "Read article content from a file")
	articleCreateCmd.Flags().StringVar(&articleCategory, "category", "", "Category name")
	articleCreateCmd.Flags().StringVar(&articleAuthor, "author", "", "Author name")
	articleCreateCmd.Flags().StringVar(&articleImageURL, "image-url", "", "Cover image URL")
	articleCreateCmd.MarkFlagRequired("title")
}
