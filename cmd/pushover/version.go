package main

import (
	"fmt"

	"github.com/darkkaiser/pushover/internal/pkg/version"
	"github.com/spf13/cobra"
)

func (a *app) versionCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:         "version",
		Short:       "빌드 정보를 출력합니다",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfigAnnotation: ""},
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			if asJSON {
				return printJSON(cmd.OutOrStdout(), info)
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", cmd.Root().Name(), info)
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "JSON 형식으로 출력")

	return cmd
}
