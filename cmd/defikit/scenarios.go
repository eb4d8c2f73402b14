package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"defikit/internal/model"
)

func scenariosCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "Manage saved calculator scenarios",
	}
	cmd.AddCommand(scenariosListCmd(a), scenariosShowCmd(a), scenariosDeleteCmd(a))
	return cmd
}

func scenariosListCmd(a *app) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			k := model.ScenarioKind(lower(kind))
			if k != "" && !k.Valid() {
				return fmt.Errorf("unknown scenario kind %q", kind)
			}
			repo, err := a.repository(cmd.Context())
			if err != nil {
				return err
			}
			defer repo.Close()

			list, err := repo.ListScenarios(cmd.Context(), k)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tKIND\tNAME\tUPDATED")
			for _, s := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, s.Kind, s.Name, s.UpdatedAt.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "only list clmm or ptyt scenarios")
	return cmd
}

func scenariosShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Print a saved scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid scenario id: %w", err)
			}
			repo, err := a.repository(cmd.Context())
			if err != nil {
				return err
			}
			defer repo.Close()

			s, err := repo.GetScenario(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), s)
		},
	}
}

func scenariosDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a saved scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid scenario id: %w", err)
			}
			repo, err := a.repository(cmd.Context())
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := repo.DeleteScenario(cmd.Context(), id); err != nil {
				return err
			}
			a.logger.Info("Scenario deleted", "id", id)
			return nil
		},
	}
}
