package main

import (
	"github.com/spf13/cobra"
)

var (
	usersCmd = &cobra.Command{
		Use:   "users",
		Short: "List all users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sh, err := newShell(cmd)
			if err != nil {
				return err
			}
			sh.ListUsers(cmd.Context())
			return nil
		},
	}

	skillCmd = &cobra.Command{
		Use:   "skill <name>",
		Short: "Find users by skill",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, err := newShell(cmd)
			if err != nil {
				return err
			}
			sh.FindBySkill(cmd.Context(), args[0])
			return nil
		},
	}

	skillsCmd = &cobra.Command{
		Use:   "skills <userid>",
		Short: "List the skills of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, err := newShell(cmd)
			if err != nil {
				return err
			}
			sh.ListSkills(cmd.Context(), args[0])
			return nil
		},
	}

	uploadCmd = &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a PDF resume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, err := newShell(cmd)
			if err != nil {
				return err
			}
			sh.Upload(cmd.Context(), args[0])
			return nil
		},
	}

	downloadCmd = &cobra.Command{
		Use:   "download <userid>",
		Short: "Download the resume of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, err := newShell(cmd)
			if err != nil {
				return err
			}
			sh.Download(cmd.Context(), args[0])
			return nil
		},
	}
)

func init() {
	rootCmd.AddCommand(usersCmd, skillCmd, skillsCmd, uploadCmd, downloadCmd)
}
