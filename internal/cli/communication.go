// Communication commands: log, history, next.
package cli

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/cadence/internal/validate"
	"github.com/mesh-intelligence/cadence/pkg/cadence"
	"github.com/mesh-intelligence/cadence/pkg/types"
)

func newLogCmd(a *app) *cobra.Command {
	var (
		companyRef string
		methodRef  string
		date       string
		notes      string
	)
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log a communication with a company",
		Long: `Log records a communication. The date defaults to today.

Company and method may be named by id, unique id prefix, or name.

Example:
  cadence log --company acme --method Email --notes "sent pricing"
  cadence log --company acme --method "Phone Call" --date 2024-05-02`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := validate.CommunicationInput{Date: a.now(), Notes: notes}
			if cmd.Flags().Changed("date") {
				d, err := types.ParseDate(date)
				if err != nil {
					return usageErrorf("invalid --date %q: expected YYYY-MM-DD", date)
				}
				in.Date = d
			}

			return a.withSession(func(s *cadence.Session) error {
				snap := s.Store.Snapshot()
				if companyRef != "" {
					c, err := resolveCompany(snap.Companies, companyRef)
					if err != nil {
						return err
					}
					in.CompanyID = c.ID
				}
				if methodRef != "" {
					m, err := resolveMethod(snap.CommunicationMethods, methodRef)
					if err != nil {
						return err
					}
					in.MethodID = m.ID
				}

				comm, err := a.validator.Communication(uuid.Must(uuid.NewV7()).String(), in, snap)
				if err != nil {
					return err
				}
				s.Store.AddCommunication(comm)

				out := cmd.OutOrStdout()
				if a.flags.jsonMode {
					return writeJSON(out, comm)
				}
				next, _ := s.Store.NextScheduledCommunication(comm.CompanyID)
				fmt.Fprintf(out, "Logged communication: %s\n", comm.ID)
				fmt.Fprintf(out, "Next contact due: %s\n", formatDate(next))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&companyRef, "company", "", "company id, id prefix, or name")
	cmd.Flags().StringVar(&methodRef, "method", "", "communication method id or name")
	cmd.Flags().StringVar(&date, "date", "", "communication date, YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&notes, "notes", "", "notes about the communication")
	return cmd
}

func newHistoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history <company>",
		Short: "Show the five most recent communications with a company",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(func(s *cadence.Session) error {
				c, err := resolveCompany(s.Store.Companies(), args[0])
				if err != nil {
					return err
				}
				recent := s.Store.LastFiveCommunications(c.ID)
				out := cmd.OutOrStdout()
				if a.flags.jsonMode {
					return writeJSON(out, nonNilSlice(recent))
				}
				printHistory(out, recent, s.Store.Snapshot())
				return nil
			})
		},
	}
}

type nextResult struct {
	CompanyID string       `json:"company_id"`
	Next      string       `json:"next"`
	Status    types.Status `json:"status"`
}

func newNextCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "next <company>",
		Short: "Show when the next communication with a company is due",
		Long: `Next prints the next due date: the most recent communication plus the
company's periodicity. A company with no communications is due now.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(func(s *cadence.Session) error {
				c, err := resolveCompany(s.Store.Companies(), args[0])
				if err != nil {
					return err
				}
				next, ok := s.Store.NextScheduledCommunication(c.ID)
				if !ok {
					return fmt.Errorf("company %q: %w", args[0], types.ErrNotFound)
				}
				status := types.Classify(next, a.now())

				out := cmd.OutOrStdout()
				if a.flags.jsonMode {
					return writeJSON(out, nextResult{CompanyID: c.ID, Next: next.Format(types.DateLayout), Status: status})
				}
				fmt.Fprintf(out, "%s: %s\n", c.Name, statusStyle(status).Render(formatDate(next)+" ("+status.Label()+")"))
				return nil
			})
		},
	}
}

// printHistory lists communications newest first with method names from snap.
func printHistory(w io.Writer, comms []types.Communication, snap types.Snapshot) {
	if len(comms) == 0 {
		fmt.Fprintln(w, "No communications logged.")
		return
	}
	methods := make(map[string]string, len(snap.CommunicationMethods))
	for _, m := range snap.CommunicationMethods {
		if _, ok := methods[m.ID]; !ok {
			methods[m.ID] = m.Name
		}
	}
	t := newTable("DATE", "METHOD", "NOTES")
	for _, c := range comms {
		t.row(c.Date.Format(types.DateLayout), orDash(methods[c.MethodID]), truncate(orDash(c.Notes), 50))
	}
	t.print(w, nil)
}
