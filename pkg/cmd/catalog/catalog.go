package catalog

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/bikechallenge/pkg/catalog"
	"github.com/mpapenbr/bikechallenge/pkg/cmd/cmdutil"
	"github.com/mpapenbr/bikechallenge/pkg/model"
)

var sections = []string{"route", "stations", "riders", "equipment", "events"}

func NewCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "catalog [" + strings.Join(sections, "|") + "]",
		Short:     "prints the built-in race data",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: sections,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdutil.SetupLogger()
			selected := sections
			if len(args) == 1 {
				selected = args
			}
			return printCatalog(cmd.OutOrStdout(), catalog.Default(), selected)
		},
	}
	return cmd
}

func printCatalog(w io.Writer, cat *catalog.Catalog, selected []string) error {
	if cmdutil.JSONOutput() {
		doc := map[string]any{}
		for _, s := range selected {
			doc[s] = section(cat, s)
		}
		return cmdutil.WriteJSON(w, doc, "")
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, s := range selected {
		fmt.Fprintf(tw, "== %s\n", s)
		switch s {
		case "route":
			fmt.Fprintln(tw, "id\tname\tkm\tterrain\televation\tdifficulty")
			for _, seg := range cat.Route().Segments {
				fmt.Fprintf(tw, "%s\t%s\t%.0f-%.0f\t%s\t%.0f\t%d\n",
					seg.ID, seg.Name, seg.StartKm, seg.EndKm, seg.Terrain,
					seg.Elevation, seg.Difficulty)
			}
		case "stations":
			fmt.Fprintln(tw, "km\tname\tsupplies")
			for _, st := range cat.Stations() {
				fmt.Fprintf(tw, "%.0f\t%s\t%v\n", st.Km, st.Name, st.Supplies)
			}
		case "riders":
			fmt.Fprintln(tw, "id\tname\ttype\tspeed\tstamina\tclimbing\tsprinting\tteamwork\trecovery\tcost")
			for _, c := range cat.Characters() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%.0f\t%.0f\t%.0f\t%.0f\t%.0f\t%.0f\t%d\n",
					c.ID, c.Name, c.Type, c.Stats.Speed, c.Stats.Stamina,
					c.Stats.Climbing, c.Stats.Sprinting, c.Stats.Teamwork,
					c.Stats.Recovery, c.Cost)
			}
		case "equipment":
			fmt.Fprintln(tw, "slot\tid\tname\tweight\taero\tcost")
			for _, slot := range []model.Slot{
				model.SlotFrame, model.SlotWheels, model.SlotGears, model.SlotAccessory,
			} {
				for _, it := range cat.Items(slot) {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f\t%.0f\t%d\n",
						slot, it.ID, it.Name, it.Weight, it.Aero, it.Cost)
				}
			}
		case "events":
			fmt.Fprintln(tw, "id\tcategory\tprobability\tmandatory\tdecision")
			for _, e := range cat.Events() {
				fmt.Fprintf(tw, "%s\t%s\t%.2f\t%v\t%v\n",
					e.ID, e.Category, e.Probability, e.Mandatory, e.HasDecision())
			}
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func section(cat *catalog.Catalog, name string) any {
	switch name {
	case "route":
		return cat.Route()
	case "stations":
		return cat.Stations()
	case "riders":
		return cat.Characters()
	case "equipment":
		return map[model.Slot][]model.EquipmentItem{
			model.SlotFrame:     cat.Items(model.SlotFrame),
			model.SlotWheels:    cat.Items(model.SlotWheels),
			model.SlotGears:     cat.Items(model.SlotGears),
			model.SlotAccessory: cat.Items(model.SlotAccessory),
		}
	default:
		return cat.Events()
	}
}
