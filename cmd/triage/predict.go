package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/wolfman30/symptom-checker/internal/catalog"
	"github.com/wolfman30/symptom-checker/internal/compliance"
	"github.com/wolfman30/symptom-checker/internal/predictor"
)

func newPredictCmd(a *app) *cobra.Command {
	var symptoms []string
	var all bool
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Rank conditions for a set of symptom IDs",
		Example: `  triage predict --symptoms headache,fatigue,sleep_issues
  triage predict --symptoms chest_pain --all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, id := range symptoms {
				if _, ok := a.catalog.Symptom(id); !ok {
					return fmt.Errorf("predict: unknown symptom id %q", id)
				}
			}
			ranked := predictor.Rank(a.catalog, symptoms)
			if !all && len(ranked) > predictor.TopN {
				ranked = ranked[:predictor.TopN]
			}

			var table strings.Builder
			writeRanking(&table, ranked)
			a.metrics.ObserveAnalysis(len(ranked))

			disclaimer := compliance.NewDisclaimerService(a.audit, compliance.DisclaimerConfig{Level: compliance.DisclaimerShort})
			body := disclaimer.AddDisclaimer(cmd.Context(), table.String(), compliance.DisclaimerOptions{SessionID: uuid.NewString()})
			_, err := fmt.Fprintln(cmd.OutOrStdout(), body)
			return err
		},
	}
	cmd.Flags().StringSliceVar(&symptoms, "symptoms", nil, "comma-separated symptom IDs")
	cmd.Flags().BoolVar(&all, "all", false, "show every condition with a positive score")
	_ = cmd.MarkFlagRequired("symptoms")
	return cmd
}

func writeRanking(w io.Writer, ranked []predictor.Result) {
	if len(ranked) == 0 {
		fmt.Fprintln(w, "No condition matches the selected symptoms.")
		return
	}
	fmt.Fprintf(w, "%-4s %-6s %-8s %-26s %s\n", "RANK", "SCORE", "MATCHED", "CONDITION", "URGENCY")
	for i, r := range ranked {
		fmt.Fprintf(w, "%-4d %-6d %-8s %-26s %s\n",
			i+1, r.Score,
			fmt.Sprintf("%d/%d", r.MatchCount, len(r.Condition.Symptoms)),
			r.Condition.Name, r.Condition.Urgency.Label())
	}
}

func newCatalogCmd(a *app) *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print body areas, symptoms and conditions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if asYAML {
				data, err := catalog.Marshal(a.catalog)
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}
			writeCatalog(out, a.catalog)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print the catalog as a loadable YAML document")
	return cmd
}

func writeCatalog(w io.Writer, cat *catalog.Catalog) {
	fmt.Fprintln(w, "Body areas:")
	for _, area := range cat.BodyAreas() {
		fmt.Fprintf(w, "  %s (%s)\n", area.Name, area.ID)
		for _, sym := range area.Symptoms {
			fmt.Fprintf(w, "    - %s: %s\n", sym.ID, sym.Name)
		}
	}
	fmt.Fprintln(w, "Conditions:")
	for _, cond := range cat.Conditions() {
		fmt.Fprintf(w, "  %s (%s) [%s]\n", cond.Name, cond.ID, cond.Urgency)
		fmt.Fprintf(w, "    symptoms: %s\n", strings.Join(cond.Symptoms, ", "))
	}
}
