package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/pokemon-catcher/internal/storage"
)

func newBackupCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Back up and restore the game database",
	}
	cmd.AddCommand(newBackupCreateCmd(opts), newBackupListCmd(opts), newBackupRestoreCmd(opts))
	return cmd
}

func newBackupCreateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "create [name]",
		Short: "Write a backup of the database",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, func(a *app) error {
				var name string
				if len(args) > 0 {
					name = args[0]
				}
				info, err := storage.NewBackupManager(a.db, a.cfg.Storage.BackupDir).Backup(cmd.Context(), name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s\n", info.Path)
				return nil
			})
		},
	}
}

func newBackupListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List backups, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), opts, func(a *app) error {
				backups, err := storage.NewBackupManager(a.db, a.cfg.Storage.BackupDir).List()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(backups) == 0 {
					fmt.Fprintln(out, "No backups yet.")
					return nil
				}
				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "NAME\tSIZE\tCREATED\tCHECKSUM")
				for _, b := range backups {
					fmt.Fprintf(tw, "%s\t%d\t%s\t%.12s\n", b.Name, b.Size, b.ModTime.Format("2006-01-02 15:04:05"), b.Checksum)
				}
				return tw.Flush()
			})
		},
	}
}

func newBackupRestoreCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <file>",
		Short: "Replace the database with a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, err := opts.cfg.GetDBPath()
			if err != nil {
				return err
			}
			if err := storage.RestoreBackup(cmd.Context(), dbPath, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %s from %s\n", dbPath, args[0])
			return nil
		},
	}
}
