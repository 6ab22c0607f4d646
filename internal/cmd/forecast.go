package cmd

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"ia-papeleria/internal/model"
	"ia-papeleria/internal/repository"
	"ia-papeleria/internal/service"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	forecastDays int
	rotationDays int
)

var forecastCmd = &cobra.Command{
	Use:   "forecast <product name or id>",
	Short: "Predict demand for one product",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		products, err := a.Inventory.GetAllProducts(ctx, repository.ProductFilter{})
		if err != nil {
			return err
		}
		p, err := findProduct(strings.Join(args, " "), products)
		if err != nil {
			return err
		}

		res, err := a.Forecast.PredictDemand(ctx, p.ID, forecastDays)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "🔮 %s\n", p.Name)
		fmt.Fprintf(out, "  Demanda predicha (%d días): %.1f unidades\n", res.DaysAhead, res.PredictedDemand)
		fmt.Fprintf(out, "  Stock actual: %d (mínimo %d)\n", p.Stock, p.MinStock)
		fmt.Fprintf(out, "  %s\n", res.Message)
		return nil
	},
}

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "List products whose predicted demand exceeds stock, plus low stock and low rotation",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		alerts, err := a.Forecast.DemandAlerts(ctx, forecastDays)
		if err != nil {
			return err
		}
		low, err := a.Forecast.LowStock(ctx)
		if err != nil {
			return err
		}
		idle, err := a.Forecast.LowRotation(ctx, rotationDays)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "🚨 Demanda crítica (%d días)\n", forecastDays)
		fmt.Fprintln(w, "PRODUCTO\tSTOCK\tDEMANDA\tFALTANTE")
		for _, al := range alerts {
			fmt.Fprintf(w, "%s\t%d\t%.1f\t%.1f\n", al.ProductName, al.CurrentStock, al.PredictedDemand, al.Shortfall)
		}
		fmt.Fprintln(w, "\n⚠️ Stock bajo")
		fmt.Fprintln(w, "PRODUCTO\tSTOCK\tMÍNIMO")
		for _, p := range low {
			fmt.Fprintf(w, "%s\t%d\t%d\n", p.Name, p.Stock, p.MinStock)
		}
		fmt.Fprintf(w, "\n💤 Sin ventas en %d días\n", rotationDays)
		for _, p := range idle {
			fmt.Fprintf(w, "%s\t%d\n", p.Name, p.Stock)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(forecastCmd, alertsCmd)
	for _, c := range []*cobra.Command{forecastCmd, alertsCmd} {
		c.Flags().IntVar(&forecastDays, "days", model.DefaultForecastDays, "Forecast horizon in days")
	}
	alertsCmd.Flags().IntVar(&rotationDays, "rotation-days", 60, "Window for the low rotation list")
}

// findProduct accepts an id or a name as typed in chat.
func findProduct(ref string, products []model.Product) (model.Product, error) {
	if id, err := uuid.Parse(ref); err == nil {
		for _, p := range products {
			if p.ID == id {
				return p, nil
			}
		}
		return model.Product{}, model.ErrProductNotFound
	}

	m := service.NewProductMatcher()
	if p, ok := m.ByFragment(ref, products); ok {
		return p, nil
	}
	if p, ok := m.ByName(ref, products); ok {
		return p, nil
	}
	return model.Product{}, errors.Join(model.ErrProductNotFound, fmt.Errorf("no product matches %q", ref))
}
