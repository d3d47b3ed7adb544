// Company commands: add, update, delete, list, show.
package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/cadence/internal/validate"
	"github.com/mesh-intelligence/cadence/pkg/cadence"
	"github.com/mesh-intelligence/cadence/pkg/types"
)

// companyFlags holds the editable company fields.
type companyFlags struct {
	name        string
	location    string
	linkedIn    string
	emails      []string
	phones      []string
	comments    string
	periodicity int
}

func (f *companyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "company name")
	cmd.Flags().StringVar(&f.location, "location", "", "company location")
	cmd.Flags().StringVar(&f.linkedIn, "linkedin", "", "LinkedIn profile URL")
	cmd.Flags().StringSliceVar(&f.emails, "email", nil, "email address (repeatable)")
	cmd.Flags().StringSliceVar(&f.phones, "phone", nil, "phone number (repeatable)")
	cmd.Flags().StringVar(&f.comments, "comments", "", "free-form comments")
	cmd.Flags().IntVar(&f.periodicity, "periodicity", 0, "days between communications (default from config)")
}

// apply overrides the fields of in whose flags were set on cmd.
func (f *companyFlags) apply(cmd *cobra.Command, in *validate.CompanyInput) {
	changed := cmd.Flags().Changed
	if changed("name") {
		in.Name = f.name
	}
	if changed("location") {
		in.Location = f.location
	}
	if changed("linkedin") {
		in.LinkedInProfile = f.linkedIn
	}
	if changed("email") {
		in.Emails = f.emails
	}
	if changed("phone") {
		in.PhoneNumbers = f.phones
	}
	if changed("comments") {
		in.Comments = f.comments
	}
	if changed("periodicity") {
		in.Periodicity = f.periodicity
	}
}

func newCompanyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "company",
		Short: "Manage companies",
		Args:  usageArgs(cobra.NoArgs),
	}
	cmd.AddCommand(newCompanyAddCmd(a))
	cmd.AddCommand(newCompanyUpdateCmd(a))
	cmd.AddCommand(newCompanyDeleteCmd(a))
	cmd.AddCommand(newCompanyListCmd(a))
	cmd.AddCommand(newCompanyShowCmd(a))
	return cmd
}

func newCompanyAddCmd(a *app) *cobra.Command {
	var f companyFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a company",
		Long: `Add registers a company to keep in touch with.

Name, location, LinkedIn profile, at least one email, and at least one phone
number are required. Phone numbers without a country code are read in the
configured phone_region. The periodicity defaults to default_periodicity.

Example:
  cadence company add --name "Acme" --location "Berlin" \
    --linkedin https://www.linkedin.com/company/acme \
    --email hello@acme.example.com --phone "+49 30 901820" --periodicity 30`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := validate.CompanyInput{Periodicity: a.config.GetInt(cfgKeyDefaultPeriodicity)}
			f.apply(cmd, &in)

			c, err := a.validator.Company(uuid.Must(uuid.NewV7()).String(), in)
			if err != nil {
				return err
			}
			return a.withSession(func(s *cadence.Session) error {
				s.Store.AddCompany(c)
				return a.printCompanyResult(cmd.OutOrStdout(), "Created", c)
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newCompanyUpdateCmd(a *app) *cobra.Command {
	var f companyFlags
	cmd := &cobra.Command{
		Use:   "update <company>",
		Short: "Update a company",
		Long: `Update changes the fields given as flags and keeps the rest.

The company may be named by id, unique id prefix, or name.

Example:
  cadence company update acme --periodicity 7
  cadence company update 0190a1b2 --email a@acme.example.com --email b@acme.example.com`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(func(s *cadence.Session) error {
				existing, err := resolveCompany(s.Store.Companies(), args[0])
				if err != nil {
					return err
				}
				in := validate.CompanyInputFrom(existing)
				f.apply(cmd, &in)

				c, err := a.validator.Company(existing.ID, in)
				if err != nil {
					return err
				}
				s.Store.UpdateCompany(c)
				return a.printCompanyResult(cmd.OutOrStdout(), "Updated", c)
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newCompanyDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <company>",
		Short: "Delete a company",
		Long: `Delete removes a company. Communications already logged for it are kept.

Example:
  cadence company delete acme`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(func(s *cadence.Session) error {
				c, err := resolveCompany(s.Store.Companies(), args[0])
				if err != nil {
					return err
				}
				s.Store.DeleteCompany(c.ID)
				return a.printCompanyResult(cmd.OutOrStdout(), "Deleted", c)
			})
		},
	}
}

func newCompanyListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List companies",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(func(s *cadence.Session) error {
				companies := s.Store.Companies()
				out := cmd.OutOrStdout()
				if a.flags.jsonMode {
					return writeJSON(out, nonNilSlice(companies))
				}
				printCompanyTable(out, companies)
				return nil
			})
		},
	}
}

func newCompanyShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <company>",
		Short: "Show a company with its schedule",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(func(s *cadence.Session) error {
				c, err := resolveCompany(s.Store.Companies(), args[0])
				if err != nil {
					return err
				}
				next, _ := s.Store.NextScheduledCommunication(c.ID)
				status := types.Classify(next, a.now())
				recent := s.Store.LastFiveCommunications(c.ID)

				out := cmd.OutOrStdout()
				if a.flags.jsonMode {
					return writeJSON(out, companyDetail{
						Company: c,
						Next:    next.Format(types.DateLayout),
						Status:  status,
						Recent:  nonNilSlice(recent),
					})
				}
				printCompanyDetail(out, c, next, status)
				fmt.Fprintln(out)
				printHistory(out, recent, s.Store.Snapshot())
				return nil
			})
		},
	}
}

type companyDetail struct {
	Company types.Company         `json:"company"`
	Next    string                `json:"next"`
	Status  types.Status          `json:"status"`
	Recent  []types.Communication `json:"recent"`
}

func (a *app) printCompanyResult(w io.Writer, verb string, c types.Company) error {
	if a.flags.jsonMode {
		return writeJSON(w, c)
	}
	fmt.Fprintf(w, "%s company: %s (%s)\n", verb, c.Name, c.ID)
	return nil
}

func printCompanyTable(w io.Writer, companies []types.Company) {
	if len(companies) == 0 {
		fmt.Fprintln(w, "No companies found.")
		return
	}
	t := newTable("ID", "NAME", "LOCATION", "EVERY", "EMAIL")
	for _, c := range companies {
		email := ""
		if len(c.Emails) > 0 {
			email = c.Emails[0]
		}
		t.row(shortID(c.ID), truncate(c.Name, 40), truncate(c.Location, 24),
			strconv.Itoa(c.CommunicationPeriodicity)+"d", orDash(email))
	}
	t.print(w, nil)
	fmt.Fprintf(w, "Total: %d company(s)\n", len(companies))
}

func printCompanyDetail(w io.Writer, c types.Company, next time.Time, status types.Status) {
	fields := []struct{ label, value string }{
		{"ID", c.ID},
		{"Name", c.Name},
		{"Location", c.Location},
		{"LinkedIn", c.LinkedInProfile},
		{"Emails", strings.Join(c.Emails, ", ")},
		{"Phones", strings.Join(c.PhoneNumbers, ", ")},
		{"Comments", orDash(c.Comments)},
		{"Periodicity", fmt.Sprintf("every %d day(s)", c.CommunicationPeriodicity)},
	}
	for _, f := range fields {
		fmt.Fprintf(w, "%-12s %s\n", f.label+":", f.value)
	}
	fmt.Fprintf(w, "%-12s %s\n", "Next:", statusStyle(status).Render(formatDate(next)+" ("+status.Label()+")"))
}

// nonNilSlice returns an empty slice for nil so JSON output is [] not null.
func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
