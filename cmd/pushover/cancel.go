package main

import (
	apperrors "github.com/darkkaiser/pushover/internal/pkg/errors"
	"github.com/darkkaiser/pushover/pkg/pushover"
	"github.com/spf13/cobra"
)

func (a *app) cancelCommand() *cobra.Command {
	var tag string

	cmd := &cobra.Command{
		Use:   "cancel (RECEIPT | --tag KEY=VALUE)",
		Short: "긴급 메시지의 재전송을 중단합니다",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				resp *pushover.CancelRetriesResponse
				err  error
			)

			switch {
			case tag != "" && len(args) == 0:
				t, perr := pushover.ParseMessageTag(tag)
				if perr != nil {
					return perr
				}
				resp, err = a.client.CancelRetriesByTag(cmd.Context(), t)
			case tag == "" && len(args) == 1:
				resp, err = a.client.CancelRetries(cmd.Context(), args[0])
			default:
				return apperrors.New(apperrors.InvalidArgument, "영수증 ID와 --tag 중 하나만 지정해야 합니다")
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "중단할 메시지의 태그 KEY=VALUE")

	return cmd
}
