package cmd

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"text/tabwriter"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/yatube/yatube/internal/database"
	"gorm.io/gorm"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Manage post groups",
}

var groupCreateCmdFlags struct {
	Title       string
	Description string
}

var groupCreateCmd = &cobra.Command{
	Use:     "create <slug>",
	Short:   "Create a group",
	Example: `yatube group create cats --title "Cats" --description "Everything about cats"`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slug := args[0]
		if !slugPattern.MatchString(slug) {
			return fmt.Errorf("invalid slug %q: use letters, numbers, underscores or hyphens", slug)
		}
		title := groupCreateCmdFlags.Title
		if title == "" {
			title = slug
		}

		_, db, err := openDatabase()
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close() //nolint: errcheck

		group := &database.Group{
			Title:       title,
			Slug:        slug,
			Description: groupCreateCmdFlags.Description,
		}
		if err := db.CreateGroup(cmd.Context(), group); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("group %q already exists", slug)
			}
			return fmt.Errorf("failed to create group: %w", err)
		}

		log.Info("Group created", "slug", group.Slug, "id", group.ID)
		return nil
	},
}

var groupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all groups",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := openDatabase()
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close() //nolint: errcheck

		groups, err := db.GetGroups(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list groups: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSLUG\tTITLE") //nolint:errcheck
		for _, g := range groups {
			fmt.Fprintf(w, "%d\t%s\t%s\n", g.ID, g.Slug, g.Title) //nolint:errcheck
		}
		return w.Flush()
	},
}

func init() {
	groupCreateCmd.Flags().StringVar(&groupCreateCmdFlags.Title, "title", "", "Title of the group (default: the slug)")
	groupCreateCmd.Flags().StringVar(&groupCreateCmdFlags.Description, "description", "", "Description of the group")

	groupCmd.AddCommand(groupCreateCmd, groupListCmd)
	rootCmd.AddCommand(groupCmd)
}
