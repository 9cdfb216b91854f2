package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var downloadOutputDir string

func newDownloadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download <artifact> [artifact ...]",
		Short: "Download result artifacts by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api := newAPIClient()
			for _, artifact := range args {
				path, err := downloadArtifact(cmd.Context(), api, artifact, downloadOutputDir)
				if err != nil {
					return err
				}
				fmt.Printf("wrote %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&downloadOutputDir, "output", "o", ".", "Directory to download artifacts into")

	return cmd
}
