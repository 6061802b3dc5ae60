package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yuriy-kovalchuk/porkbun-cli/internal/dns"
)

func newCmdDNSBulk() *cobra.Command {
	var (
		mode      string
		includeNS bool
	)
	cmd := &cobra.Command{
		Use:   "bulk <domain> <input.json> <output.json>",
		Short: "Apply a JSON file of DNS records to a zone",
		Long: "Apply a JSON array of DNS records to a zone and write per-record\n" +
			"outcomes to the output file. Modes:\n" +
			"  add    create every input record unconditionally\n" +
			"  flush  delete all existing records, then create every input record\n" +
			"  merge  update records carrying an id, create records without one\n" +
			"NS records are skipped unless --include-ns is set.",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			domain, inPath, outPath := args[0], args[1], args[2]

			syncMode, err := parseMode(mode)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(inPath)
			if err != nil {
				return fmt.Errorf("read %s: %w", inPath, err)
			}
			desired, err := dns.ParseRecords(data, domain)
			if err != nil {
				return err
			}
			svc, err := newDNSService()
			if err != nil {
				return err
			}
			result, err := svc.Sync(cmd.Context(), domain, desired, syncMode, dns.SyncOptions{IncludeNS: includeNS})
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("encode results: %w", err)
			}
			out = append(out, '\n')
			if err := os.WriteFile(outPath, out, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "results written to %s\n", outPath)
			if result.Failed() {
				return fmt.Errorf("some records failed, see %s", outPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "merge", "sync mode: add, flush, or merge")
	cmd.Flags().BoolVar(&includeNS, "include-ns", false, "also manage NS records instead of skipping them")
	return cmd
}

func parseMode(s string) (dns.Mode, error) {
	switch s {
	case "add":
		return dns.ModeAdd, nil
	case "flush":
		return dns.ModeFlush, nil
	case "merge", "":
		return dns.ModeMerge, nil
	default:
		return "", fmt.Errorf("unknown mode %q: want add, flush, or merge", s)
	}
}
