// cmd/zipnav/info_cmd.go

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/creativeyann17/go-zipnav/pkg/nav"
)

func init() {
	rootCmd.AddCommand(infoCmd())
}

func infoCmd() *cobra.Command {
	var zipPath string
	var hash bool

	cmd := &cobra.Command{
		Use:   "info <path>",
		Short: "Show metadata of an archive member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := nav.Open(zipPath)
			if err != nil {
				return err
			}
			defer n.Close()

			fi, err := n.Info(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Name:            %s\n", fi.Name)
			fmt.Printf("Size:            %d\n", fi.Size)
			fmt.Printf("Compressed size: %d\n", fi.CompressedSize)
			fmt.Printf("Modified:        %s\n", fi.Modified.Format("2006-01-02 15:04:05"))
			fmt.Printf("CRC32:           %08x\n", fi.CRC32)
			fmt.Printf("Method:          %s\n", fi.Method)

			if hash {
				digest, err := n.Hash(args[0])
				if err != nil {
					return err
				}
				fmt.Printf("BLAKE3:          %s\n", digest)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&zipPath, "zip", "z", "", "ZIP archive to open (required)")
	cmd.Flags().BoolVar(&hash, "hash", false, "Also compute the BLAKE3 digest of the content")

	_ = cmd.MarkFlagRequired("zip")

	return cmd
}
