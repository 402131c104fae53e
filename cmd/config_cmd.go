package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

// secretSource describes where a secret comes from, masked.
func secretSource(value, env string) string {
	switch {
	case value == "":
		return "not configured"
	case os.Getenv(env) != "":
		return maskSecret(value) + " (from $" + env + ")"
	default:
		return maskSecret(value)
	}
}

func runConfig(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println(cli.RenderSection("General"))
	fmt.Println(cli.RenderKeyValue([][2]string{
		{"Currency", cfg.General.Currency},
	}))

	name := cfg.Profile.DisplayName
	if name == "" {
		name = "-"
	}
	fmt.Println(cli.RenderSection("Profile"))
	fmt.Println(cli.RenderKeyValue([][2]string{
		{"User id", userKey()},
		{"Name", name},
		{"Risk profile", cfg.Profile.RiskProfile},
		{"Current age", strconv.Itoa(cfg.Profile.CurrentAge)},
		{"Retirement age", strconv.Itoa(cfg.Profile.RetirementAge)},
	}))

	store := [][2]string{{"Backend", cfg.Store.Backend}}
	switch cfg.Store.Backend {
	case config.BackendSQLite, "":
		store = append(store, [2]string{"Database", config.DataPath(cfg)})
	case config.BackendMongo:
		store = append(store,
			[2]string{"URI", secretSource(config.GetMongoURI(cfg), config.EnvMongoURI)},
			[2]string{"Collection", cfg.Store.MongoDatabase + "." + cfg.Store.MongoCollection})
	case config.BackendPostgres:
		store = append(store, [2]string{"DSN", secretSource(config.GetPostgresDSN(cfg), config.EnvPostgresDSN)})
	}
	fmt.Println(cli.RenderSection("Store"))
	fmt.Println(cli.RenderKeyValue(store))

	fmt.Println(cli.RenderSection("Server"))
	fmt.Println(cli.RenderKeyValue([][2]string{
		{"Address", cfg.Server.Addr},
		{"Issuer", cfg.Server.Issuer},
		{"Token TTL", cfg.Server.TokenTTL},
		{"JWT secret", secretSource(config.GetJWTSecret(cfg), config.EnvJWTSecret)},
	}))

	fmt.Println(cli.RenderSection("Appearance & logging"))
	fmt.Println(cli.RenderKeyValue([][2]string{
		{"Theme", cfg.Appearance.Theme},
		{"Log level", cfg.Log.Level},
		{"Development", strconv.FormatBool(cfg.Log.Development)},
	}))

	fmt.Println("  Run `fintrack setup` to reconfigure.")
	return nil
}
