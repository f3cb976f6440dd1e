package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/studioops/internal/cli/formatter"
	"github.com/alexanderramin/studioops/internal/dto"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}
	cmd.AddCommand(newProjectAddCmd(app), newProjectListCmd(app))
	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var client string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := dto.ProjectInput{Name: args[0], Client: client}.Project()
			if err := app.Projects.Create(context.Background(), p); err != nil {
				return err
			}
			return render(cmd, dto.FromProject(p), func() string {
				return fmt.Sprintf("Created project %s [%s]", p.Name, p.DisplayID())
			})
		},
	}
	cmd.Flags().StringVar(&client, "client", "", "Client name")
	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(context.Background(), all)
			if err != nil {
				return err
			}
			return render(cmd, dto.FromProjects(projects), func() string {
				if len(projects) == 0 {
					return "No projects found."
				}
				return formatter.FormatProjectList(projects, app.now())
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Include archived projects")
	return cmd
}
