package main

import (
	"errors"
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/jask/sshmgr/internal/database/repository"
	"github.com/jask/sshmgr/internal/prefs"
	"github.com/jask/sshmgr/internal/tui"
)

// newRootCmd builds the command tree. The returned func releases whatever
// the executed command opened.
func newRootCmd() (*cobra.Command, func()) {
	var a *app
	get := func() *app { return a }
	closeApp := func() {
		if a != nil {
			a.Close()
			a = nil
		}
	}

	root := &cobra.Command{
		Use:           "sshmgr",
		Short:         "Manage SSH/SFTP connection profiles",
		Long:          "sshmgr stores connection profiles in sqlite and opens them in your terminal or file manager.\nRun without arguments for the interactive interface.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = openApp(cmd.Context())
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			p := tea.NewProgram(tui.New(cmd.Context(), a.mgr, a.logger, a.cfg.UI.ColumnStep), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}

	root.AddCommand(
		newListCmd(get),
		newGroupsCmd(get),
		newAddCmd(get),
		newRmCmd(get),
		newGroupCmd(get),
		newConnectCmd(get),
		newFilesCmd(get),
		newBrowseCmd(get),
		newImportCmd(get),
		newExportCmd(get),
		newResetCmd(get),
	)
	return root, closeApp
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid profile id %q", s)
	}
	return id, nil
}

func newListCmd(get func() *app) *cobra.Command {
	var group string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := get().mgr.ListProfiles(cmd.Context(), group)
			if err != nil {
				return err
			}
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers(tui.Columns...)
			for _, p := range list {
				t.Row(strconv.FormatInt(p.ID, 10), p.GroupLabel(), p.Name, p.Address(), p.User, string(p.Protocol), p.LastUsed)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.String())
			return nil
		},
	}
	cmd.Flags().StringVarP(&group, "group", "g", "", "only list this group (All, (ungrouped) or a name)")
	return cmd
}

func newGroupsCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "List groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			groups, err := get().mgr.ListGroups(cmd.Context())
			if err != nil {
				return err
			}
			for _, g := range groups {
				fmt.Fprintln(cmd.OutOrStdout(), g)
			}
			return nil
		},
	}
}

func newAddCmd(get func() *app) *cobra.Command {
	var (
		f        repository.ProfileFields
		protocol string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := repository.ParseProtocol(protocol)
			if err != nil {
				return err
			}
			f.Protocol = p
			id, err := get().mgr.CreateProfile(cmd.Context(), f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added profile %d\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&f.Name, "name", "", "display name")
	cmd.Flags().StringVar(&f.Host, "host", "", "host name or address")
	cmd.Flags().IntVar(&f.Port, "port", repository.DefaultPort, "port")
	cmd.Flags().StringVar(&f.User, "user", "", "login user")
	cmd.Flags().StringVar(&f.Secret, "secret", "", "password, stored as-is")
	cmd.Flags().StringVar(&protocol, "protocol", "SSH", "SSH or SFTP")
	cmd.Flags().StringVar(&f.Group, "group", "", "group name")
	_ = cmd.MarkFlagRequired("host")
	return cmd
}

func newRmCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return get().mgr.DeleteProfile(cmd.Context(), id)
		},
	}
}

func newGroupCmd(get func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Create, delete or rename groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <name>",
			Short: "Register a group",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a := get()
				similar, err := a.mgr.SimilarGroups(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if err := a.mgr.CreateGroup(cmd.Context(), args[0]); err != nil {
					return err
				}
				if len(similar) > 0 {
					fmt.Fprintf(cmd.ErrOrStderr(), "note: similar groups exist: %v\n", similar)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm <name>",
			Short: "Delete a group and every profile in it",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := get().mgr.DeleteGroup(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted group %s and %d profiles\n", args[0], n)
				return nil
			},
		},
		&cobra.Command{
			Use:   "mv <from> <to>",
			Short: "Rename a group",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return get().mgr.RenameGroup(cmd.Context(), args[0], args[1])
			},
		},
	)
	return cmd
}

func newConnectCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "connect <id>",
		Short: "Open an ssh session in a terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return get().mgr.OpenTerminalSession(cmd.Context(), id)
		},
	}
}

func newFilesCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "files <id>",
		Short: "Open the profile in a graphical file manager",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return get().mgr.OpenFileBrowserSession(cmd.Context(), id)
		},
	}
}

func newBrowseCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse <id>",
		Short: "List the remote login directory of an SFTP profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			names, err := get().mgr.BrowseRemoteRoot(cmd.Context(), id)
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}

func newImportCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import-json <file>",
		Short: "Import profiles from a servers.json file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := prefs.LoadProfiles(args[0])
			if err != nil {
				return err
			}
			res, err := get().transfer.Import(cmd.Context(), entries)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d, skipped %d, errors %d\n", res.Imported, res.Skipped, len(res.Errors))
			for _, e := range res.Errors {
				fmt.Fprintln(cmd.ErrOrStderr(), e)
			}
			return nil
		},
	}
}

func newExportCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export-json <file>",
		Short: "Write every profile to a servers.json file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := get().transfer.Export(cmd.Context())
			if err != nil {
				return err
			}
			if err := prefs.SaveProfiles(args[0], entries); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d profiles\n", len(entries))
			return nil
		},
	}
}

func newResetCmd(get func() *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every profile, group and column width",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to reset without --yes")
			}
			return get().maintenance.Reset(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}
