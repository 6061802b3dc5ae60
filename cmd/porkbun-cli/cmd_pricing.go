package main

import (
	"github.com/spf13/cobra"

	"github.com/yuriy-kovalchuk/porkbun-cli/internal/pricing"
)

func newCmdPricing() *cobra.Command {
	return &cobra.Command{
		Use:   "pricing",
		Short: "Retrieve default pricing for all supported TLDs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Pricing is a public endpoint; no credentials needed.
			client, err := newPublicClient()
			if err != nil {
				return err
			}
			prices, err := pricing.Get(cmd.Context(), client)
			if err != nil {
				return err
			}
			return printJSON(cmd, prices)
		},
	}
}
