package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var dbStatsCmd = &cobra.Command{
	Use:   "db-stats",
	Short: "Show database statistics",
	Long:  `Display the number of users, groups and posts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := openDatabase()
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close() //nolint: errcheck

		ctx := cmd.Context()
		users, err := db.CountUsers(ctx)
		if err != nil {
			return fmt.Errorf("failed to count users: %w", err)
		}
		groups, err := db.CountGroups(ctx)
		if err != nil {
			return fmt.Errorf("failed to count groups: %w", err)
		}
		posts, err := db.CountPosts(ctx)
		if err != nil {
			return fmt.Errorf("failed to count posts: %w", err)
		}

		fmt.Println("Database Statistics:")
		fmt.Printf("Users: %s\n", humanize.Comma(users))
		fmt.Printf("Groups: %s\n", humanize.Comma(groups))
		fmt.Printf("Posts: %s\n", humanize.Comma(posts))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbStatsCmd)
}
