package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List project folders under the projects directory",
	Long: `List the folders Claude Code keeps under its projects directory.
Each folder name is a project path with separators replaced by "-".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := newStore()
		out := cmd.OutOrStdout()

		if !store.RootExists() {
			fmt.Fprintf(out, "Projects directory not found: %s\n", store.Root())
			return nil
		}

		projects, err := store.ListProjects()
		if err != nil {
			return fmt.Errorf("failed to list projects: %w", err)
		}
		if len(projects) == 0 {
			fmt.Fprintln(out, "No projects found")
			return nil
		}
		for _, name := range projects {
			fmt.Fprintln(out, name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(projectsCmd)
}
