// Communication method commands: add, update, delete, list.
package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/cadence/internal/validate"
	"github.com/mesh-intelligence/cadence/pkg/cadence"
	"github.com/mesh-intelligence/cadence/pkg/types"
)

type methodFlags struct {
	name        string
	description string
	sequence    int
	mandatory   bool
}

func (f *methodFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "method name")
	cmd.Flags().StringVar(&f.description, "description", "", "method description")
	cmd.Flags().IntVar(&f.sequence, "sequence", 1, "position in the outreach sequence")
	cmd.Flags().BoolVar(&f.mandatory, "mandatory", false, "whether the method is mandatory")
}

func (f *methodFlags) apply(cmd *cobra.Command, in *validate.MethodInput) {
	changed := cmd.Flags().Changed
	if changed("name") {
		in.Name = f.name
	}
	if changed("description") {
		in.Description = f.description
	}
	if changed("sequence") {
		in.Sequence = f.sequence
	}
	if changed("mandatory") {
		in.Mandatory = f.mandatory
	}
}

func newMethodCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "method",
		Short: "Manage communication methods",
		Args:  usageArgs(cobra.NoArgs),
	}
	cmd.AddCommand(newMethodAddCmd(a))
	cmd.AddCommand(newMethodUpdateCmd(a))
	cmd.AddCommand(newMethodDeleteCmd(a))
	cmd.AddCommand(newMethodListCmd(a))
	return cmd
}

func newMethodAddCmd(a *app) *cobra.Command {
	var f methodFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a communication method",
		Long: `Add creates a communication method.

Example:
  cadence method add --name "Conference" --description "Meet at a trade show" --sequence 6`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := validate.MethodInput{Sequence: f.sequence}
			f.apply(cmd, &in)

			m, err := a.validator.Method(uuid.Must(uuid.NewV7()).String(), in)
			if err != nil {
				return err
			}
			return a.withSession(func(s *cadence.Session) error {
				s.Store.AddCommunicationMethod(m)
				return a.printMethodResult(cmd.OutOrStdout(), "Created", m)
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newMethodUpdateCmd(a *app) *cobra.Command {
	var f methodFlags
	cmd := &cobra.Command{
		Use:   "update <method>",
		Short: "Update a communication method",
		Long: `Update changes the fields given as flags and keeps the rest.

The method may be named by id, unique id prefix, or name.

Example:
  cadence method update "Phone Call" --mandatory=false`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(func(s *cadence.Session) error {
				existing, err := resolveMethod(s.Store.CommunicationMethods(), args[0])
				if err != nil {
					return err
				}
				in := validate.MethodInputFrom(existing)
				f.apply(cmd, &in)

				m, err := a.validator.Method(existing.ID, in)
				if err != nil {
					return err
				}
				s.Store.UpdateCommunicationMethod(m)
				return a.printMethodResult(cmd.OutOrStdout(), "Updated", m)
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newMethodDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <method>",
		Short: "Delete a communication method",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(func(s *cadence.Session) error {
				m, err := resolveMethod(s.Store.CommunicationMethods(), args[0])
				if err != nil {
					return err
				}
				s.Store.DeleteCommunicationMethod(m.ID)
				return a.printMethodResult(cmd.OutOrStdout(), "Deleted", m)
			})
		},
	}
}

func newMethodListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List communication methods",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(func(s *cadence.Session) error {
				methods := s.Store.CommunicationMethods()
				out := cmd.OutOrStdout()
				if a.flags.jsonMode {
					return writeJSON(out, nonNilSlice(methods))
				}
				printMethodTable(out, methods)
				return nil
			})
		},
	}
}

func (a *app) printMethodResult(w io.Writer, verb string, m types.CommunicationMethod) error {
	if a.flags.jsonMode {
		return writeJSON(w, m)
	}
	fmt.Fprintf(w, "%s method: %s (%s)\n", verb, m.Name, m.ID)
	return nil
}

func printMethodTable(w io.Writer, methods []types.CommunicationMethod) {
	if len(methods) == 0 {
		fmt.Fprintln(w, "No communication methods found.")
		return
	}
	t := newTable("ID", "SEQ", "NAME", "MANDATORY", "DESCRIPTION")
	for _, m := range methods {
		mandatory := "no"
		if m.Mandatory {
			mandatory = "yes"
		}
		t.row(shortID(m.ID), strconv.Itoa(m.Sequence), m.Name, mandatory, truncate(orDash(m.Description), 40))
	}
	t.print(w, nil)
	fmt.Fprintf(w, "Total: %d method(s)\n", len(methods))
}
