// cmd/zipnav/status_cmd.go

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/creativeyann17/go-zipnav/pkg/extract"
	"github.com/creativeyann17/go-zipnav/pkg/nav"
)

func init() {
	rootCmd.AddCommand(statusCmd())
}

func statusCmd() *cobra.Command {
	var zipPath, outputDir, subdir string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the saved extraction state of an output directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := nav.Open(zipPath)
			if err != nil {
				return err
			}
			defer n.Close()

			ex := extract.New(n)
			if err := ex.Resume(outputDir, subdir); err != nil {
				return err
			}

			data, err := json.MarshalIndent(ex.Status(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&zipPath, "zip", "z", "", "ZIP archive the state belongs to (required)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Output directory")
	cmd.Flags().StringVar(&subdir, "subdir", extract.DefaultSubdir, "Extraction subdirectory name")

	_ = cmd.MarkFlagRequired("zip")

	return cmd
}
