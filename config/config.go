package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/librisys/librisys/pkg/kafka"
	"github.com/librisys/librisys/pkg/logger"
	"github.com/librisys/librisys/pkg/postgres"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"30s"`
	WriteTimeout time.Duration
}

type Fines struct {
	RecalcInterval time.Duration `yaml:"recalcInterval" envconfig:"FINE_RECALC_INTERVAL" default:"24h"`
}

type JWT struct {
	Secret string `yaml:"secret" envconfig:"JWT_SECRET" default:"librisys-dev-secret" json:"-"`
}

type Config struct {
	Server   HTTPServer `yaml:"server"`
	Database postgres.Config
	Fines    Fines
	JWT      JWT
	Kafka    kafka.Config
	Log      logger.Log `yaml:"log"`
}

var (
	once sync.Once
	cfg  Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = config
		printConfig(cfg)
	})

	return &cfg
}

func printConfig(cfg Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
