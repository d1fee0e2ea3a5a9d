package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/siatlabs/siat/agent"
	"github.com/siatlabs/siat/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type cfg struct {
	config.Config
}
type cli struct {
	cfg cfg
}

func setupFlags(cmd *cobra.Command) error {
	cmd.Flags().String("config-file", "", "Path to config file.")
	cmd.Flags().String("redis-addr", "localhost:6379", "comma separated list of redis host:port")
	cmd.Flags().String("namespace", "siat", "namespace used in storage")
	cmd.Flags().Int("http-port", 8080, "http port for rest endpoints")
	cmd.Flags().String("storage-impl", "redis", "implementation of underline storage")
	cmd.Flags().String("deploy-root", "./deployments", "root directory for flow deployments")
	cmd.Flags().Int("generator-capacity", 512, "generation worker queue capacity")
	cmd.Flags().Int("provider-timeout-ms", 1500, "simulated remote provider latency in milliseconds")
	cmd.Flags().String("tenant-header", "X-Tenant-Id", "header carrying the caller tenant id")
	cmd.Flags().String("user-header", "X-User-Id", "header carrying the caller user id")
	return viper.BindPFlags(cmd.Flags())
}

func (c *cli) setupConfig(cmd *cobra.Command, args []string) error {
	var err error

	configFile, err := cmd.Flags().GetString("config-file")
	if err != nil {
		return err
	}
	viper.SetConfigFile(configFile)

	if err = viper.ReadInConfig(); err != nil {
		// it's ok if config file doesn't exist
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	c.cfg.RedisConfig.Addrs = strings.Split(viper.GetString("redis-addr"), ",")
	c.cfg.RedisConfig.Namespace = viper.GetString("namespace")
	c.cfg.HttpPort = viper.GetInt("http-port")
	c.cfg.StorageType = config.StorageType(viper.GetString("storage-impl"))
	c.cfg.DeploymentRoot = viper.GetString("deploy-root")
	c.cfg.GeneratorCapacity = viper.GetInt("generator-capacity")
	c.cfg.ProviderTimeoutMs = viper.GetInt("provider-timeout-ms")
	c.cfg.TenantHeader = viper.GetString("tenant-header")
	c.cfg.UserHeader = viper.GetString("user-header")
	return nil
}

func (c *cli) run(cmd *cobra.Command, args []string) error {
	agent, err := agent.New(c.cfg.Config)
	if err != nil {
		panic(err)
	}
	err = agent.Start()
	if err != nil {
		panic(err)
	}
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	return agent.Shutdown()
}

func main() {
	cli := &cli{}

	cmd := &cobra.Command{
		Use:     "siat",
		PreRunE: cli.setupConfig,
		RunE:    cli.run,
	}

	if err := setupFlags(cmd); err != nil {
		log.Fatal(err)
	}

	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
