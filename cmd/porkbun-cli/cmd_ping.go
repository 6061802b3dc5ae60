package main

import (
	"github.com/spf13/cobra"
)

func newCmdPing() *cobra.Command {
	var v4 bool
	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Poll the API and print your public IP address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			ip, err := client.Ping(cmd.Context(), v4)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]string{"yourIp": ip})
		},
	}
	cmd.Flags().BoolVar(&v4, "v4", false, "force the IPv4-only endpoint for this request")
	return cmd
}
