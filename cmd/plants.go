package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/santralytics/santralytics/config"
	"github.com/santralytics/santralytics/core/model"
	"github.com/santralytics/santralytics/infra/plantdir"
)

var plantsType string

var plantsCmd = &cobra.Command{
	Use:   "plants",
	Short: "List the plants known to the directory",
	RunE:  runPlants,
}

func init() {
	plantsCmd.Flags().StringVar(&plantsType, "type", "", "only show plants of this type (HES or RES)")
	rootCmd.AddCommand(plantsCmd)
}

func runPlants(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	dir, err := plantdir.Load(cfg.Plants)
	if err != nil {
		return fmt.Errorf("plant directory: %w", err)
	}

	filter := model.ParsePlantType(plantsType)
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPE\tORG\tUEVCB\tPLANT\tMW")
	for _, p := range dir.Plants() {
		if plantsType != "" && p.Type != filter {
			continue
		}
		mw := "-"
		if p.CapacityMW > 0 {
			mw = fmt.Sprintf("%g", p.CapacityMW)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n", p.Name, p.Type, p.OrganizationID, p.UEVCBID, p.PlantID, mw)
	}
	return w.Flush()
}
