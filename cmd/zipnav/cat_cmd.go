// cmd/zipnav/cat_cmd.go

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/creativeyann17/go-zipnav/pkg/nav"
)

func init() {
	rootCmd.AddCommand(catCmd())
}

func catCmd() *cobra.Command {
	var zipPath string
	var hash bool

	cmd := &cobra.Command{
		Use:   "cat <path>",
		Short: "Print the content of an archive member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := nav.Open(zipPath)
			if err != nil {
				return err
			}
			defer n.Close()

			if hash {
				digest, err := n.Hash(args[0])
				if err != nil {
					return err
				}
				fmt.Printf("%s  %s\n", digest, args[0])
				return nil
			}

			data, err := n.Cat(args[0])
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&zipPath, "zip", "z", "", "ZIP archive to open (required)")
	cmd.Flags().BoolVar(&hash, "hash", false, "Print the BLAKE3 digest instead of the content")

	_ = cmd.MarkFlagRequired("zip")

	return cmd
}
