package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cellar/internal/config"
)

var configFile string

// NewRootCommand - дерево команд cellar
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "cellar",
		Short:         "Personal wine and spirits inventory API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./cellar.yaml if present)")

	root.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newSeedCommand(),
		newReportCommand(),
		newTokenCommand(),
	)
	return root
}

// Execute разбирает os.Args и выполняет команду
func Execute() error {
	return NewRootCommand().Execute()
}

// loadConfig читает конфиг и настраивает логирование. Флаги команды перекрывают файл и окружение
func loadConfig(cmd *cobra.Command, bindings map[string]string) (*config.Config, error) {
	v, err := config.New(configFile)
	if err != nil {
		return nil, err
	}
	if err := bindFlags(v, cmd, bindings); err != nil {
		return nil, err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	if err := config.SetupLogging(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func bindFlags(v *viper.Viper, cmd *cobra.Command, bindings map[string]string) error {
	for key, flag := range bindings {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}
	return nil
}
