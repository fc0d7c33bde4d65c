package cmd

import (
	"fmt"
	"strings"

	"github.com/pyama86/breachtracker/domain/entity"
	"github.com/pyama86/breachtracker/domain/repository"
	"github.com/pyama86/breachtracker/handler"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List incidents, PDPC risks first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		return run(cmd, func(h *handler.Handler) error { return h.List(!all) })
	},
}

var draftsCmd = &cobra.Command{
	Use:   "drafts",
	Short: "List drafts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(h *handler.Handler) error { return h.Drafts() })
	},
}

var showCmd = &cobra.Command{
	Use:   "show <incident>",
	Short: "Show an incident report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(h *handler.Handler) error { return h.Show(args[0]) })
	},
}

var nextIDCmd = &cobra.Command{
	Use:   "next-id",
	Short: "Print the code the next incident will get",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(h *handler.Handler) error { return h.NextID() })
	},
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a new incident or draft",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		draft, _ := f.GetBool("draft")
		input := entity.IncidentInput{}
		input.IncidentDate = entity.Date(mustString(cmd, "incident-date"))
		input.DiscoveredDate = entity.Date(mustString(cmd, "discovered"))
		input.ReportedDate = entity.Date(mustString(cmd, "reported"))
		input.ResolvedDate = entity.Date(mustString(cmd, "resolved"))
		input.BreachType = mustString(cmd, "breach-type")
		input.RootCause = mustString(cmd, "root-cause")
		input.Severity = entity.Severity(strings.ToUpper(mustString(cmd, "severity")))
		input.AffectedRecords, _ = f.GetInt("records")
		input.DataTypes, _ = f.GetStringSlice("data-type")
		input.BusinessUnit = mustString(cmd, "unit")
		input.Description = mustString(cmd, "description")
		input.RemediationActions = mustString(cmd, "remediation")
		input.DetectionMethod = mustString(cmd, "detection")
		input.ImmediateActions = mustString(cmd, "immediate")
		input.Status = entity.Status(strings.ToUpper(mustString(cmd, "status")))
		input.CreatedBy = mustString(cmd, "created-by")
		input.PDPCNotificationRequired, _ = f.GetBool("pdpc-required")
		return run(cmd, func(h *handler.Handler) error { return h.Add(input, draft) })
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <incident>",
	Short: "Edit incident fields; every change is recorded in its history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		var u repository.IncidentUpdate
		u.IncidentDate = changedDate(cmd, "incident-date")
		u.DiscoveredDate = changedDate(cmd, "discovered")
		u.ReportedDate = changedDate(cmd, "reported")
		u.ResolvedDate = changedDate(cmd, "resolved")
		u.BreachType = changedString(cmd, "breach-type")
		u.RootCause = changedString(cmd, "root-cause")
		if s := changedString(cmd, "severity"); s != nil {
			sev := entity.Severity(strings.ToUpper(*s))
			u.Severity = &sev
		}
		if f.Changed("records") {
			n, _ := f.GetInt("records")
			u.AffectedRecords = &n
		}
		if f.Changed("data-type") {
			types, _ := f.GetStringSlice("data-type")
			u.DataTypes = &types
		}
		u.BusinessUnit = changedString(cmd, "unit")
		u.Description = changedString(cmd, "description")
		u.RemediationActions = changedString(cmd, "remediation")
		u.DetectionMethod = changedString(cmd, "detection")
		u.ImmediateActions = changedString(cmd, "immediate")
		if s := changedString(cmd, "status"); s != nil {
			st := entity.Status(strings.ToUpper(*s))
			u.Status = &st
		}
		if f.Changed("pdpc-required") {
			b, _ := f.GetBool("pdpc-required")
			u.PDPCNotificationRequired = &b
		}
		return run(cmd, func(h *handler.Handler) error { return h.Update(args[0], u) })
	},
}

var promoteCmd = &cobra.Command{
	Use:   "promote <draft>",
	Short: "Submit a draft as an investigating incident",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(h *handler.Handler) error { return h.Promote(args[0]) })
	},
}

var discardCmd = &cobra.Command{
	Use:   "discard <draft>",
	Short: "Delete a draft",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(h *handler.Handler) error { return h.Discard(args[0]) })
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <incident>",
	Short: "Close an incident as of today",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res := repository.Resolution{
			LessonsLearned:     mustString(cmd, "lessons"),
			PreventiveMeasures: mustString(cmd, "preventive"),
			Improvements:       mustString(cmd, "improvements"),
		}
		return run(cmd, func(h *handler.Handler) error { return h.Resolve(args[0], res) })
	},
}

var complianceCmd = &cobra.Command{
	Use:   "compliance <incident>",
	Short: "Record the PDPC notification decision and who was notified",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		u := repository.ComplianceUpdate{
			Status:           entity.NotificationStatus(strings.ToUpper(mustString(cmd, "status"))),
			ReviewPerson:     mustString(cmd, "review-person"),
			PDPCNotifiedDate: entity.Date(mustString(cmd, "pdpc-date")),
			PDPCPerson:       mustString(cmd, "pdpc-person"),
			DPONotifiedDate:  entity.Date(mustString(cmd, "dpo-date")),
			DPOPerson:        mustString(cmd, "dpo-person"),
		}
		u.PDPCNotified, _ = f.GetBool("pdpc-notified")
		u.DPONotified, _ = f.GetBool("dpo-notified")
		return run(cmd, func(h *handler.Handler) error { return h.Compliance(args[0], u) })
	},
}

var attachCmd = &cobra.Command{
	Use:   "attach <incident> <name> [url]",
	Short: "Attach a file reference",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := entity.Attachment{Name: args[1]}
		if len(args) == 3 {
			a.URL = args[2]
		}
		return run(cmd, func(h *handler.Handler) error { return h.Attach(args[0], a) })
	},
}

func entryCmd(kind handler.EntryKind, short string) *cobra.Command {
	return &cobra.Command{
		Use:   fmt.Sprintf("%s <incident> <text>...", kind),
		Short: short,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args[1:], " ")
			return run(cmd, func(h *handler.Handler) error { return h.Append(args[0], kind, text) })
		},
	}
}

func mustString(cmd *cobra.Command, name string) string {
	s, _ := cmd.Flags().GetString(name)
	return strings.TrimSpace(s)
}

func changedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	s := mustString(cmd, name)
	return &s
}

func changedDate(cmd *cobra.Command, name string) *entity.Date {
	s := changedString(cmd, name)
	if s == nil {
		return nil
	}
	d := entity.Date(*s)
	return &d
}

func incidentFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("incident-date", "", "date the breach happened (YYYY-MM-DD)")
	f.String("discovered", "", "date the breach was discovered (YYYY-MM-DD)")
	f.String("reported", "", "date the breach was reported (YYYY-MM-DD)")
	f.String("resolved", "", "date the breach was resolved (YYYY-MM-DD)")
	f.String("breach-type", "", "breach type")
	f.String("root-cause", "", "root cause")
	f.String("severity", "", "CRITICAL, HIGH, MEDIUM or LOW (inferred when empty)")
	f.Int("records", 0, "number of affected records")
	f.StringSlice("data-type", nil, "affected data type, repeatable")
	f.String("unit", "", "business unit")
	f.String("description", "", "what happened")
	f.String("remediation", "", "remediation actions")
	f.String("detection", "", "how the breach was detected")
	f.String("immediate", "", "immediate actions taken")
	f.String("status", "", "DETECTED, INVESTIGATING, CONTAINED or RESOLVED")
	f.Bool("pdpc-required", false, "PDPC notification is required")
}

func init() {
	listCmd.Flags().Bool("all", false, "ignore the stored filters")

	incidentFlags(addCmd)
	addCmd.Flags().Bool("draft", false, "save as a draft")
	addCmd.Flags().String("created-by", "", "reporter name")
	incidentFlags(updateCmd)

	resolveCmd.Flags().String("lessons", "", "lessons learned")
	resolveCmd.Flags().String("preventive", "", "preventive measures")
	resolveCmd.Flags().String("improvements", "", "improvements")

	f := complianceCmd.Flags()
	f.String("status", "", "YES, NO or UNDER_REVIEW")
	f.String("review-person", "", "reviewer, required when UNDER_REVIEW")
	f.Bool("pdpc-notified", false, "PDPC has been notified")
	f.String("pdpc-date", "", "PDPC notification date (YYYY-MM-DD)")
	f.String("pdpc-person", "", "who notified PDPC")
	f.Bool("dpo-notified", false, "DPO guidance has been issued")
	f.String("dpo-date", "", "DPO notification date (YYYY-MM-DD)")
	f.String("dpo-person", "", "who notified the DPO")

	rootCmd.AddCommand(
		listCmd, draftsCmd, showCmd, nextIDCmd, addCmd, updateCmd,
		promoteCmd, discardCmd, resolveCmd, complianceCmd, attachCmd,
		entryCmd(handler.EntryNote, "Add a note"),
		entryCmd(handler.EntryActivity, "Log an activity"),
		entryCmd(handler.EntryTimeline, "Add a timeline event"),
		entryCmd(handler.EntryRemediation, "Add a remediation action"),
		entryCmd(handler.EntryFollowUp, "Add a follow-up action"),
	)
}
