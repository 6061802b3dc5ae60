package main

import (
	"github.com/spf13/cobra"

	"github.com/yuriy-kovalchuk/porkbun-cli/internal/ssl"
)

func newCmdSSL() *cobra.Command {
	return &cobra.Command{
		Use:   "ssl <domain>",
		Short: "Retrieve the SSL certificate bundle for a domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			bundle, err := ssl.Retrieve(cmd.Context(), client, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, bundle)
		},
	}
}
