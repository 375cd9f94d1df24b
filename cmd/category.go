package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var categoryDescription string

// categoryCmd represents the base category command
var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage categories",
	Long:  `Create, list, and rename article categories.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		categories, err := appInstance.CategoryService.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list categories: %w", err)
		}
		if len(categories) == 0 {
			fmt.Println("No categories found.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "Name", "Slug", "Description", "Created At"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)

		for _, c := range categories {
			table.Append([]string{
				c.ID,
				c.Name,
				c.Slug,
				c.Description,
				c.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		table.Render()
		return nil
	},
}

var categoryCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		category, err := appInstance.CategoryService.Create(cmd.Context(), args[0], categoryDescription)
		if err != nil {
			return fmt.Errorf("failed to create category: %w", err)
		}
		fmt.Printf("%s Created category %q (slug %q)\n", color.GreenString("OK"), category.Name, category.Slug)
		return nil
	},
}

var categoryRenameCmd = &cobra.Command{
	Use:   "rename <old-name> <new-name>",
	Short: "Rename a category and update its articles",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		category, updated, err := appInstance.CategoryService.Rename(cmd.Context(), args[0], args[1])
		if err != nil {
			return fmt.Errorf("failed to rename category: %w", err)
		}
		fmt.Printf("%s Renamed category to %q (slug %q), %d article(s) updated\n",
			color.GreenString("OK"), category.Name, category.Slug, updated)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(categoryCmd)
	categoryCmd.AddCommand(categoryListCmd)
	categoryCmd.AddCommand(categoryCreateCmd)
	categoryCmd.AddCommand(categoryRenameCmd)

	categoryCreateCmd.Flags().StringVar(&categoryDescription, "description", "", "Category description")
}
