package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	db "cellar/internal/database"
)

func newSeedCommand() *cobra.Command {
	var owner, file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import products for an owner from a YAML file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if owner == "" {
				return errors.New("--owner is required")
			}
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			seed, err := db.ParseSeed(f)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			DB, err := db.Connect(cfg.DB)
			if err != nil {
				return err
			}
			if err := db.Migrate(DB); err != nil {
				return err
			}

			created, err := db.SeedProducts(cmd.Context(), db.NewProductRepo(DB), owner, seed)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d of %d products\n", created, len(seed.Products))
			return nil
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "owner id")
	cmd.Flags().StringVar(&file, "file", "seed.yaml", "YAML file with products")
	return cmd
}
