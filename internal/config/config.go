package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/atharv3903/campusnav/internal/model"
)

const (
	SourceMySQL = "mysql"
	SourceFile  = "file"
)

var ErrNoGraphSource = errors.New("config: no graph source configured")

type ServerConfig struct {
	Addr      string `toml:"addr"`
	Dev       bool   `toml:"dev"`
	MySQLDSN  string `toml:"mysql_dsn"`
	GraphFile string `toml:"graph_file"`

	RedisAddr    string `toml:"redis_addr"`
	RedisChannel string `toml:"redis_channel"`

	FanoutWorkers int `toml:"fanout_workers"`
	SendBuffer    int `toml:"send_buffer"`

	Region    model.Region     `toml:"region"`
	Locations []model.Location `toml:"locations"`
}

// Source reports where the graph is loaded from. A graph file wins over MySQL.
func (c ServerConfig) Source() (string, error) {
	switch {
	case c.GraphFile != "":
		return SourceFile, nil
	case c.MySQLDSN != "":
		return SourceMySQL, nil
	default:
		return "", ErrNoGraphSource
	}
}

func Default() ServerConfig {
	return ServerConfig{
		Addr:          ":8080",
		RedisChannel:  "campusnav:locations",
		FanoutWorkers: 64,
		SendBuffer:    32,
		Region:        CampusRegion,
		Locations:     CampusLocations(),
	}
}

// flagEnv names the environment variable backing each flag.
var flagEnv = map[string]string{
	"addr":           "ADDR",
	"dsn":            "DB_DSN",
	"graph":          "GRAPH_FILE",
	"redis":          "REDIS_ADDR",
	"redis-channel":  "REDIS_CHANNEL",
	"fanout-workers": "FANOUT_WORKERS",
}

func FromFlagsServer() (ServerConfig, error) {
	return ParseServer(flag.CommandLine, os.Args[1:])
}

// ParseServer builds the server config: defaults, then the TOML file given
// by -config, then any flag set explicitly on the command line. Flag defaults
// come from the environment.
func ParseServer(fs *flag.FlagSet, args []string) (ServerConfig, error) {
	def := Default()

	var (
		path          string
		flagCfg       ServerConfig
		fanoutWorkers = envInt("FANOUT_WORKERS", def.FanoutWorkers)
	)
	fs.StringVar(&path, "config", os.Getenv("CAMPUSNAV_CONFIG"), "TOML config file")
	fs.StringVar(&flagCfg.Addr, "addr", envStr("ADDR", def.Addr), "HTTP bind address")
	fs.BoolVar(&flagCfg.Dev, "dev", false, "development logging")
	fs.StringVar(&flagCfg.MySQLDSN, "dsn", os.Getenv("DB_DSN"), "MySQL DSN")
	fs.StringVar(&flagCfg.GraphFile, "graph", os.Getenv("GRAPH_FILE"), "graph file (.json or .fmi); overrides -dsn")
	fs.StringVar(&flagCfg.RedisAddr, "redis", os.Getenv("REDIS_ADDR"), "Redis address for cross-instance location relay")
	fs.StringVar(&flagCfg.RedisChannel, "redis-channel", envStr("REDIS_CHANNEL", def.RedisChannel), "Redis pub/sub channel")
	fs.IntVar(&flagCfg.FanoutWorkers, "fanout-workers", fanoutWorkers, "location fan-out worker pool size")
	fs.IntVar(&flagCfg.SendBuffer, "send-buffer", def.SendBuffer, "per-client outbound message buffer")

	if err := fs.Parse(args); err != nil {
		return ServerConfig{}, err
	}

	cfg := def
	if path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			return ServerConfig{}, err
		}
	}

	// a flag overrides the file when given on the command line or through
	// its environment variable
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	for name, env := range flagEnv {
		v := os.Getenv(env)
		if v == "" {
			continue
		}
		// an unparseable number falls back to the flag default, which must
		// not hide the file value
		if name == "fanout-workers" {
			if _, err := strconv.Atoi(v); err != nil {
				continue
			}
		}
		set[name] = true
	}

	if set["addr"] {
		cfg.Addr = flagCfg.Addr
	}
	if set["dev"] {
		cfg.Dev = flagCfg.Dev
	}
	if set["dsn"] {
		cfg.MySQLDSN = flagCfg.MySQLDSN
	}
	if set["graph"] {
		cfg.GraphFile = flagCfg.GraphFile
	}
	if set["redis"] {
		cfg.RedisAddr = flagCfg.RedisAddr
	}
	if set["redis-channel"] {
		cfg.RedisChannel = flagCfg.RedisChannel
	}
	if set["fanout-workers"] {
		cfg.FanoutWorkers = flagCfg.FanoutWorkers
	}
	if set["send-buffer"] {
		cfg.SendBuffer = flagCfg.SendBuffer
	}

	if err := cfg.Validate(); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

// LoadFile decodes a TOML file over cfg. Keys absent from the file keep their
// current value; a locations table in the file replaces the current one.
func LoadFile(path string, cfg *ServerConfig) error {
	locs := cfg.Locations
	cfg.Locations = nil

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		cfg.Locations = locs
		return fmt.Errorf("config %s: %w", path, err)
	}
	if !md.IsDefined("locations") {
		cfg.Locations = locs
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return fmt.Errorf("config %s: unknown key %q", path, undec[0].String())
	}
	return nil
}

func (c ServerConfig) Validate() error {
	if c.Addr == "" {
		return errors.New("config: empty addr")
	}
	if c.FanoutWorkers <= 0 {
		return fmt.Errorf("config: fanout_workers must be positive, got %d", c.FanoutWorkers)
	}
	if c.SendBuffer <= 0 {
		return fmt.Errorf("config: send_buffer must be positive, got %d", c.SendBuffer)
	}
	if len(c.Locations) == 0 {
		return errors.New("config: no locations")
	}
	if _, err := c.Source(); err != nil {
		return err
	}
	return nil
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}
