package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/spf13/viper"
)

const (
	StoreMySQL  = "mysql"
	StoreMemory = "memory"
)

type Config struct {
	AppPort string
	Store   string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	AMQPURL        string
	EventsExchange string

	LogLevel string

	// protocol policy
	AdminAddresses         []string
	AttestorAddresses      []string
	EscrowAccount          string
	AuctionDurationSecs    int64
	MinBidBps              uint64
	BlacklistThreshold     uint64
	RepayPolicy            string
	AntiSnipeWindowSecs    int64
	AntiSnipeExtensionSecs int64
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("STORE", StoreMySQL)
	v.SetDefault("MYSQL_HOST", "mysql")
	v.SetDefault("MYSQL_PORT", "3306")
	v.SetDefault("MYSQL_DB", "auralend")
	v.SetDefault("MYSQL_USER", "auralend")
	v.SetDefault("MYSQL_PASS", "auralend")
	v.SetDefault("REDIS_ADDR", "redis:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("IDEMPOTENCY_TTL_SECONDS", 300)
	v.SetDefault("EVENTS_EXCHANGE", "lend.events")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ESCROW_ACCOUNT", "auction-escrow")
	v.SetDefault("AUCTION_DURATION_SECS", 259200)
	v.SetDefault("MIN_BID_BPS", 10000)
	v.SetDefault("BLACKLIST_DEFAULT_THRESHOLD", 2)
	v.SetDefault("REPAY_POLICY", "strict")
	v.SetDefault("ANTI_SNIPE_WINDOW_SECS", 0)
	v.SetDefault("ANTI_SNIPE_EXTENSION_SECS", 0)
}

// Load reads the environment, with an optional .env in the working directory.
func Load() (*Config, error) { return LoadFile(".env") }

// LoadFile is Load with an explicit env file. A missing file is not an
// error; environment variables override values from the file.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil && !isMissingFile(err) {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return &Config{
		AppPort: v.GetString("APP_PORT"),
		Store:   strings.ToLower(v.GetString("STORE")),

		MySQLHost: v.GetString("MYSQL_HOST"),
		MySQLPort: v.GetString("MYSQL_PORT"),
		MySQLDB:   v.GetString("MYSQL_DB"),
		MySQLUser: v.GetString("MYSQL_USER"),
		MySQLPass: v.GetString("MYSQL_PASS"),

		RedisAddr:    v.GetString("REDIS_ADDR"),
		RedisDB:      v.GetInt("REDIS_DB"),
		IdempTTLSecs: v.GetInt("IDEMPOTENCY_TTL_SECONDS"),

		AMQPURL:        v.GetString("AMQP_URL"),
		EventsExchange: v.GetString("EVENTS_EXCHANGE"),
		LogLevel:       v.GetString("LOG_LEVEL"),

		AdminAddresses:         splitList(v.GetString("ADMIN_ADDRESSES")),
		AttestorAddresses:      splitList(v.GetString("ATTESTOR_ADDRESSES")),
		EscrowAccount:          strings.TrimSpace(v.GetString("ESCROW_ACCOUNT")),
		AuctionDurationSecs:    v.GetInt64("AUCTION_DURATION_SECS"),
		MinBidBps:              v.GetUint64("MIN_BID_BPS"),
		BlacklistThreshold:     v.GetUint64("BLACKLIST_DEFAULT_THRESHOLD"),
		RepayPolicy:            strings.ToLower(v.GetString("REPAY_POLICY")),
		AntiSnipeWindowSecs:    v.GetInt64("ANTI_SNIPE_WINDOW_SECS"),
		AntiSnipeExtensionSecs: v.GetInt64("ANTI_SNIPE_EXTENSION_SECS"),
	}, nil
}

func isMissingFile(err error) bool {
	var nf viper.ConfigFileNotFoundError
	if errors.As(err, &nf) {
		return true
	}
	return strings.Contains(err.Error(), "no such file")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.Store {
	case StoreMemory:
	case StoreMySQL:
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	default:
		return fmt.Errorf("invalid STORE %q (want mysql or memory)", c.Store)
	}
	if c.IdempTTLSecs <= 0 {
		return fmt.Errorf("invalid IDEMPOTENCY_TTL_SECONDS %d", c.IdempTTLSecs)
	}
	if c.EscrowAccount == "" {
		return errors.New("missing ESCROW_ACCOUNT")
	}
	if c.AuctionDurationSecs <= 0 {
		return fmt.Errorf("invalid AUCTION_DURATION_SECS %d", c.AuctionDurationSecs)
	}
	if c.AntiSnipeWindowSecs < 0 || c.AntiSnipeExtensionSecs < 0 {
		return errors.New("anti-snipe window and extension must not be negative")
	}
	if c.RepayPolicy != "strict" && c.RepayPolicy != "until-default" {
		return fmt.Errorf("invalid REPAY_POLICY %q (want strict or until-default)", c.RepayPolicy)
	}
	if len(c.AttestorAddresses) > 0 && len(c.AdminAddresses) == 0 {
		return errors.New("ATTESTOR_ADDRESSES needs at least one ADMIN_ADDRESSES entry")
	}
	for _, a := range c.AdminAddresses {
		if a == c.EscrowAccount {
			return fmt.Errorf("escrow account %q cannot be an admin", a)
		}
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
