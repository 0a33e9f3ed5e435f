// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"time"

	"github.com/spf13/viper"
)

// Storage drivers supported by the application.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config stores all configuration of the application.
//
// The values are read by viper fron a config file or environement variables.
type Config struct {
	DBDriver                string        `mapstructure:"DB_DRIVER"`
	DBSource                string        `mapstructure:"DB_SOURCE"`
	ServerAddress           string        `mapstructure:"SERVER_ADDRESS"`
	TokenSymmetricKey       string        `mapstructure:"TOKEN_SYMMETRIC_KEY"`
	TokenKind               string        `mapstructure:"TOKEN_KIND"`
	AccessTokenDuration     time.Duration `mapstructure:"ACCESS_TOKEN_DURATION"`
	Environement            string        `mapstructure:"GO_ENV"`
	MinimumDepositAmount    string        `mapstructure:"MINIMUM_DEPOSIT_AMOUNT"`
	MinimumWithdrawalAmount string        `mapstructure:"MINIMUM_WITHDRAWAL_AMOUNT"`
	InterestWorkers         int           `mapstructure:"INTEREST_WORKERS"`
	InterestInterval        time.Duration `mapstructure:"INTEREST_INTERVAL"`
}

// Load read configuration from file or environment variables.
func Load(path string) (Config, error) {
	var c Config

	v := viper.New()

	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	v.SetDefault("TOKEN_KIND", "paseto")
	v.SetDefault("ACCESS_TOKEN_DURATION", 15*time.Minute)
	v.SetDefault("MINIMUM_DEPOSIT_AMOUNT", "10")
	v.SetDefault("MINIMUM_WITHDRAWAL_AMOUNT", "10")
	v.SetDefault("INTEREST_WORKERS", 4)
	v.SetDefault("INTEREST_INTERVAL", time.Duration(0))

	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		return c, err
	}

	err = v.Unmarshal(&c)
	if err != nil {
		return c, err
	}

	return c, nil
}
