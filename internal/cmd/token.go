package cmd

import (
	"fmt"
	"time"

	"ia-papeleria/internal/model"
	"ia-papeleria/pkg/jwt"

	"github.com/spf13/cobra"
)

var (
	tokenOperator   string
	tokenPrivileges []string
	tokenTTL        time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an operator token for catalog writes",
	Long: `Mint a bearer token signed with JWT_SECRET. Catalog writes, sales and
dashboard endpoints require one; chat and catalog reads do not.`,
	Example: `  papelbot token --operator caja-1 --privileges product:create,stock:adjust --ttl 12h`,
	RunE: func(cmd *cobra.Command, args []string) error {
		privileges := tokenPrivileges
		if len(privileges) == 0 {
			privileges = model.DefaultPrivileges
		}
		token, err := jwt.NewManager(cfg.JWTSecret).GenerateToken(tokenOperator, privileges, tokenTTL)
		if err != nil {
			return fmt.Errorf("failed to sign token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().StringVar(&tokenOperator, "operator", "admin", "Operator name stored in the token")
	tokenCmd.Flags().StringSliceVar(&tokenPrivileges, "privileges", nil, "Privileges to grant (default: all)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")
}
