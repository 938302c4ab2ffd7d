package main

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"shopmate/internal/middleware"

	"github.com/spf13/cobra"
)

var (
	tokenUser   string
	tokenGroups []string
	tokenTTL    time.Duration
)

var knownGroups = []string{middleware.GroupAdmin, middleware.GroupProductManagers, middleware.GroupOrderers}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a signed API token for an operator",
	Example: "  storemgr token --user lisa --groups admin,product_managers\n" +
		"  storemgr token --user alex --groups orderers --ttl 1h",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.JWTSecret == "" {
			return errors.New("JWT_SECRET is not set")
		}
		for _, g := range tokenGroups {
			if !slices.Contains(knownGroups, g) {
				return fmt.Errorf("unknown group %q (known: %v)", g, knownGroups)
			}
		}
		ttl := tokenTTL
		if ttl == 0 {
			ttl = time.Duration(cfg.JWTExpirationHours) * time.Hour
		}
		tok, err := middleware.IssueToken(cfg.JWTSecret, tokenUser, tokenGroups, ttl)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "username carried in the token")
	tokenCmd.Flags().StringSliceVar(&tokenGroups, "groups", nil, "comma-separated groups: admin, product_managers, orderers")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (default JWT_EXPIRATION_HOURS)")
	_ = tokenCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(tokenCmd)
}
