package configuration

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"media-gateway/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App        App        `json:"app"`
	Downloader Downloader `json:"downloader"`
	Cors       Cors       `json:"cors"`
}

type App struct {
	Port int `json:"port"`
}

type Downloader struct {
	YtDlpPath             string   `json:"ytDlpPath"`
	FfmpegPath            string   `json:"ffmpegPath"`
	SocketTimeoutSeconds  int      `json:"socketTimeoutSeconds"`
	ProcessTimeoutSeconds int      `json:"processTimeoutSeconds"`
	CacheTTLSeconds       int      `json:"cacheTTLSeconds"`
	UpdateIntervalHours   int      `json:"updateIntervalHours"`
	UpdateCommand         []string `json:"updateCommand"`
	FrontendDist          string   `json:"frontendDist"`
}

type Cors struct {
	AllowOrigins []string `json:"allowOrigins"`
}

var C Config

func init() {
	LoadConfig()
	initApp(&C)
	initDownloader(&C)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found, using defaults")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initApp(C *Config) {
	// Port resolution order (env overrides config): APP_PORT -> PORT -> config -> default 8000
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 8000
	}
}

func initDownloader(C *Config) {
	if v := os.Getenv("YT_DLP_PATH"); v != "" {
		C.Downloader.YtDlpPath = v
	}
	if C.Downloader.YtDlpPath == "" {
		C.Downloader.YtDlpPath = "yt-dlp"
	}
	if v := os.Getenv("FFMPEG_PATH"); v != "" {
		C.Downloader.FfmpegPath = v
	}
	if C.Downloader.FfmpegPath == "" {
		C.Downloader.FfmpegPath = "ffmpeg"
	}
	if C.Downloader.SocketTimeoutSeconds == 0 {
		C.Downloader.SocketTimeoutSeconds = 30
	}
	if C.Downloader.ProcessTimeoutSeconds == 0 {
		C.Downloader.ProcessTimeoutSeconds = 45
	}
	if C.Downloader.CacheTTLSeconds == 0 {
		C.Downloader.CacheTTLSeconds = 600
	}
	if C.Downloader.UpdateIntervalHours == 0 {
		C.Downloader.UpdateIntervalHours = 24
	}
	if len(C.Downloader.UpdateCommand) == 0 {
		C.Downloader.UpdateCommand = []string{"python3", "-m", "pip", "install", "--upgrade", "yt-dlp"}
	}
	if C.Downloader.FrontendDist == "" {
		C.Downloader.FrontendDist = "frontend/dist"
	}
	if len(C.Cors.AllowOrigins) == 0 {
		C.Cors.AllowOrigins = []string{"*"}
	}
}

// ProcessTimeout is the outer wall-clock limit for one bounded extraction call.
func (d Downloader) ProcessTimeout() time.Duration {
	return time.Duration(d.ProcessTimeoutSeconds) * time.Second
}

// CacheTTL is how long a resolved MediaInfo stays valid in the info cache.
func (d Downloader) CacheTTL() time.Duration {
	return time.Duration(d.CacheTTLSeconds) * time.Second
}

// UpdateInterval is the period between extractor self-update attempts.
func (d Downloader) UpdateInterval() time.Duration {
	return time.Duration(d.UpdateIntervalHours) * time.Hour
}
