// cmd/zipnav/ls_cmd.go

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/creativeyann17/go-zipnav/pkg/nav"
)

func init() {
	rootCmd.AddCommand(lsCmd())
}

func lsCmd() *cobra.Command {
	var zipPath string
	var recursive bool

	cmd := &cobra.Command{
		Use:   "ls [path]",
		Short: "List a directory inside the archive",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := nav.Open(zipPath)
			if err != nil {
				return err
			}
			defer n.Close()

			path := ""
			if len(args) == 1 {
				path = args[0]
			}

			entries, err := n.Ls(path, recursive)
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Println(e)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&zipPath, "zip", "z", "", "ZIP archive to open (required)")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "List all descendants")

	_ = cmd.MarkFlagRequired("zip")

	return cmd
}
