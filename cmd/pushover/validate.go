package main

import (
	"github.com/spf13/cobra"
)

func (a *app) validateCommand() *cobra.Command {
	var device string

	cmd := &cobra.Command{
		Use:   "validate USER",
		Short: "사용자/그룹 키가 유효한지 확인합니다",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.client.ValidateUserOrGroup(cmd.Context(), args[0], device)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().StringVarP(&device, "device", "d", "", "특정 디바이스로 한정하여 확인")

	return cmd
}
