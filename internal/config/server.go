package config

import "github.com/caarlos0/env/v11"

type ServerConfig struct {
	PostgresDSN string `env:"POSTGRES_DSN,required,notEmpty"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`

	ScreenshotDir    string `env:"SCREENSHOT_DIR" envDefault:"./data/screenshots"`
	JokerCatalogPath string `env:"JOKER_CATALOG_PATH" envDefault:"./data/jokers.json"`
	MaxUploadMB      int    `env:"MAX_UPLOAD_MB" envDefault:"10"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
