package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	appRepos "github.com/yigit/edusponsor/internal/app/repositories"
	"github.com/yigit/edusponsor/internal/bootstrap"
	"github.com/yigit/edusponsor/internal/pkg/logger"
	"github.com/yigit/edusponsor/internal/seed"
	"github.com/yigit/edusponsor/internal/server"
)

var configPath string

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "edusponsor",
		Short:         "EduSponsor API server",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", filepath.Join("configs", "config.yaml"), "path to the YAML config file")

	serve := serveCmd()
	rootCmd.AddCommand(serve)
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	// serve is the default
	rootCmd.RunE = serve.RunE
	rootCmd.Flags().AddFlagSet(serve.Flags())

	return rootCmd
}

func serveCmd() *cobra.Command {
	var (
		migrate  bool
		seedData bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := server.NewServer(server.Options{
				ConfigPath: configPath,
				Migrate:    migrate,
				Seed:       seedData,
			})
			if err != nil {
				return err
			}

			if err := srv.Run(); err != nil {
				return err
			}
			logger.Info().Msg("Application finished gracefully.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", true, "apply pending migrations before serving")
	cmd.Flags().BoolVar(&seedData, "seed", true, "create the default admin user and demo school")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQL migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
			if err != nil {
				return err
			}
			database, err := bootstrap.SetupDatabase(cfg, lgr)
			if err != nil {
				return err
			}
			defer database.Close()

			return bootstrap.RunMigrations(cmd.Context(), cfg, database, lgr)
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default admin user and a demo school",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
			if err != nil {
				return err
			}
			database, err := bootstrap.SetupDatabase(cfg, lgr)
			if err != nil {
				return err
			}
			defer database.Close()

			return seed.CreateDefaultData(cmd.Context(), appRepos.NewRepositories(database.Gorm), lgr)
		},
	}
}
