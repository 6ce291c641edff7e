package appstack

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/railwayapp/appstack/internal/chains"
	"github.com/railwayapp/appstack/internal/config"
	"github.com/railwayapp/appstack/internal/database"
	"github.com/railwayapp/appstack/internal/deploy"
	"github.com/railwayapp/appstack/internal/filesystems"
	"github.com/railwayapp/appstack/internal/logging"
	"github.com/railwayapp/appstack/internal/provision"
	"github.com/railwayapp/appstack/internal/registry"
	"github.com/railwayapp/appstack/internal/synthesis"
	"github.com/railwayapp/appstack/internal/tokens"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	settings *config.Settings
)

var rootCmd = &cobra.Command{
	Use:   "appstack",
	Short: "Provision and run explorer and portal apps for an ecosystem's chains",
	Long: `appstack manages the auxiliary apps of a multi-chain ecosystem:
1. Provision - create databases, ports and backend services for chains that have none
2. Synthesize - build each chain's app descriptor from its metadata
3. Aggregate - write the runtime config and compose document of the frontend
4. Deploy - start everything with docker compose

Every command can be re-run safely; existing artifacts are reused.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		if noDeploy, _ := cmd.Flags().GetBool("no-deploy"); noDeploy {
			s.Deploy.Enabled = false
		}
		settings = s
		logging.SetupLogger(s.Log.Debug, s.Log.Human)
		return nil
	},
	SilenceUsage: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.appstack.yaml)")
	flags.String("ecosystem", ".", "ecosystem root directory")
	flags.String("format", config.DefaultFormat, "format of preference and descriptor files (yaml, toml or json)")
	flags.Bool("debug", false, "enable debug logging")
	flags.Bool("human", true, "human readable log output")
	flags.Bool("no-deploy", false, "write artifacts without starting any services")

	cobra.CheckErr(viper.BindPFlag("ecosystem", flags.Lookup("ecosystem")))
	cobra.CheckErr(viper.BindPFlag("format", flags.Lookup("format")))
	cobra.CheckErr(viper.BindPFlag("log.debug", flags.Lookup("debug")))
	cobra.CheckErr(viper.BindPFlag("log.human", flags.Lookup("human")))
	config.SetDefaults(viper.GetViper())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".appstack")
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// .env of the ecosystem feeds the APPSTACK_* overrides
	if err := config.LoadDotEnv(viper.GetString("ecosystem")); err != nil {
		fmt.Fprintln(os.Stderr, "Ignoring .env:", err)
	}
}

func openStore(s *config.Settings) (*registry.Store, filesystems.FileSystem, string, error) {
	fsys, root, err := filesystems.NewFileSystem(s.Ecosystem)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to open ecosystem: %w", err)
	}
	format, err := registry.ParseFormat(s.Format)
	if err != nil {
		return nil, nil, "", err
	}
	return registry.NewStore(fsys, root, format), fsys, root, nil
}

func newProvisioner(s *config.Settings) (*provision.Provisioner, error) {
	store, fsys, root, err := openStore(s)
	if err != nil {
		return nil, err
	}
	eco, err := chains.LoadEcosystem(fsys, root)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("ecosystem", eco.Name).Str("root", root).Msg("ecosystem loaded")

	var deployer deploy.Deployer
	if s.Deploy.Enabled {
		deployer = deploy.NewDockerCompose(nil)
	}
	return provision.New(provision.Options{
		Store:             store,
		Chains:            eco,
		Synthesizer:       synthesis.New(tokens.NewERC20Fetcher(nil)),
		Database:          database.NewPostgres(),
		DatabaseServerURL: s.Database.URL,
		Deployer:          deployer,
	}), nil
}

// runOptions applies --port only when it was given explicitly, so the
// ecosystem preference wins otherwise.
func runOptions(cmd *cobra.Command) (provision.RunOptions, error) {
	var opts provision.RunOptions
	if !cmd.Flags().Changed("port") {
		return opts, nil
	}
	port, err := cmd.Flags().GetUint16("port")
	if err != nil {
		return opts, err
	}
	if port == 0 {
		return opts, fmt.Errorf("--port must be between 1 and 65535")
	}
	opts.Port = port
	return opts, nil
}

func printReport(report *provision.Report) {
	fmt.Printf("%s chains:\n", report.Kind)
	for _, c := range report.Chains {
		if c.Outcome == provision.Skipped {
			fmt.Printf("  - %s: skipped at %s: %v\n", c.Chain, c.Step, c.Err)
			continue
		}
		fmt.Printf("  - %s: %s\n", c.Chain, c.Outcome)
	}
	fmt.Printf("Runtime config: %s\n", report.RuntimePath)
	fmt.Printf("Compose file: %s\n", report.ComposePath)
}
