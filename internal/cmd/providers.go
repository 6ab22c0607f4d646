package cmd

import (
	"fmt"

	"ia-papeleria/internal/ai"
	"ia-papeleria/internal/app"

	"github.com/spf13/cobra"
)

var probeProviders bool

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Show which AI providers are configured",
	RunE: func(cmd *cobra.Command, args []string) error {
		gw := ai.NewGateway(app.GatewayConfig(cfg.AI), nil)
		out := cmd.OutOrStdout()

		for _, st := range gw.Available() {
			mark := "❌"
			if st.Configured {
				mark = "✅"
			}
			pref := ""
			if st.Preferred {
				pref = " (preferido)"
			}
			fmt.Fprintf(out, "%s %s%s\n", mark, st.Name, pref)
		}

		if !probeProviders {
			return nil
		}
		ans := gw.Ask(cmd.Context(), "Responde solo: OK", "Prueba de conectividad.", 10)
		if ans.Failure != ai.FailureNone {
			fmt.Fprintf(out, "\n🔌 Prueba fallida (%s): %s\n", ans.Failure, ans.Text)
			return nil
		}
		fmt.Fprintf(out, "\n🔌 %s respondió: %s\n", ans.Provider, ans.Text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(providersCmd)
	providersCmd.Flags().BoolVar(&probeProviders, "probe", false, "Send a short test prompt through the gateway")
}
