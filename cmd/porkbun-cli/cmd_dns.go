package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yuriy-kovalchuk/porkbun-cli/internal/dns"
)

func newCmdDNS() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dns",
		Short: "Operate DNS records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newCmdDNSGet())
	cmd.AddCommand(newCmdDNSCreate())
	cmd.AddCommand(newCmdDNSEdit())
	cmd.AddCommand(newCmdDNSDelete())
	cmd.AddCommand(newCmdDNSBulk())
	return cmd
}

func newDNSService() (*dns.Service, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}
	return dns.NewService(client, root.log.WithName("dns")), nil
}

// recordFlags is the flag set shared by the record commands.
type recordFlags struct {
	id      string
	name    string
	rtype   string
	content string
	ttl     int
	prio    int
	notes   string
}

func (f *recordFlags) addSelectorFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.id, "id", "",
		"record ID; preferred over --name/--type, which may match several records")
	cmd.Flags().StringVar(&f.name, "name", "",
		"record name as a bare label; empty addresses the zone apex")
	cmd.Flags().StringVar(&f.rtype, "type", "",
		"record type (A, AAAA, MX, CNAME, ALIAS, TXT, NS, SRV, TLSA, CAA, HTTPS, SVCB)")
}

func (f *recordFlags) addFieldFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.content, "content", "", "record content (IP address, target host, text)")
	cmd.Flags().IntVar(&f.ttl, "ttl", 0, "time to live in seconds (registrar minimum 600)")
	cmd.Flags().IntVar(&f.prio, "prio", 0, "priority, for MX and SRV records")
	cmd.Flags().StringVar(&f.notes, "notes", "", "free-text note stored with the record")
}

func (f *recordFlags) selector() dns.Selector {
	return dns.Selector{ID: f.id, Name: f.name, Type: f.rtype}
}

// requireSelector enforces the --id OR --name/--type contract for edit and
// delete before any remote call is made.
func (f *recordFlags) requireSelector() error {
	if f.id == "" && f.rtype == "" {
		return fmt.Errorf("set either --id, or --name and --type, to identify the target record")
	}
	return nil
}

func newCmdDNSGet() *cobra.Command {
	var flags recordFlags
	cmd := &cobra.Command{
		Use:   "get <domain>",
		Short: "Get DNS records, optionally narrowed by ID or name and type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newDNSService()
			if err != nil {
				return err
			}
			var sel *dns.Selector
			if flags.id != "" || flags.rtype != "" {
				s := flags.selector()
				sel = &s
			}
			records, err := svc.List(cmd.Context(), args[0], sel)
			if err != nil {
				return err
			}
			return printJSON(cmd, records)
		},
	}
	flags.addSelectorFlags(cmd)
	return cmd
}

func newCmdDNSCreate() *cobra.Command {
	var flags recordFlags
	cmd := &cobra.Command{
		Use:   "create <domain>",
		Short: "Create a DNS record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newDNSService()
			if err != nil {
				return err
			}
			created, err := svc.Create(cmd.Context(), dns.Record{
				Domain:  args[0],
				Name:    flags.name,
				Type:    flags.rtype,
				Content: flags.content,
				TTL:     flags.ttl,
				Prio:    flags.prio,
				Notes:   flags.notes,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, created)
		},
	}
	cmd.Flags().StringVar(&flags.name, "name", "", "record name as a bare label; empty creates an apex record")
	cmd.Flags().StringVar(&flags.rtype, "type", "", "record type (required)")
	flags.addFieldFlags(cmd)
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}

func newCmdDNSEdit() *cobra.Command {
	var flags recordFlags
	cmd := &cobra.Command{
		Use:   "edit <domain>",
		Short: "Edit DNS records matched by --id, or by --name and --type",
		Long: "Edit DNS records. Identify targets with --id, or with --name and --type;\n" +
			"a name+type selector edits every matching record. Only the field flags\n" +
			"given on the command line change; other fields keep their current values.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.requireSelector(); err != nil {
				return err
			}
			changes := dns.Changes{}
			if cmd.Flags().Changed("content") {
				changes.Content = &flags.content
			}
			if cmd.Flags().Changed("ttl") {
				changes.TTL = &flags.ttl
			}
			if cmd.Flags().Changed("prio") {
				changes.Prio = &flags.prio
			}
			if cmd.Flags().Changed("notes") {
				changes.Notes = &flags.notes
			}
			svc, err := newDNSService()
			if err != nil {
				return err
			}
			outcomes, err := svc.Update(cmd.Context(), args[0], flags.selector(), changes)
			if err != nil {
				return err
			}
			if err := printJSON(cmd, outcomes); err != nil {
				return err
			}
			return failedTargets(outcomes)
		},
	}
	flags.addSelectorFlags(cmd)
	flags.addFieldFlags(cmd)
	return cmd
}

func newCmdDNSDelete() *cobra.Command {
	var flags recordFlags
	cmd := &cobra.Command{
		Use:   "delete <domain>",
		Short: "Delete DNS records matched by --id, or by --name and --type",
		Long: "Delete DNS records. Identify targets with --id, or with --name and --type;\n" +
			"a name+type selector deletes every matching record.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.requireSelector(); err != nil {
				return err
			}
			svc, err := newDNSService()
			if err != nil {
				return err
			}
			outcomes, err := svc.Delete(cmd.Context(), args[0], flags.selector())
			if err != nil {
				return err
			}
			if err := printJSON(cmd, outcomes); err != nil {
				return err
			}
			return failedTargets(outcomes)
		},
	}
	flags.addSelectorFlags(cmd)
	return cmd
}

// failedTargets turns per-target failures into a nonzero exit after the
// full outcome list has been printed.
func failedTargets(outcomes []dns.Outcome) error {
	failed := 0
	for _, out := range outcomes {
		if out.Err != nil && dns.KindOf(out.Err) != dns.KindNoChange {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d targets failed", failed, len(outcomes))
	}
	return nil
}
