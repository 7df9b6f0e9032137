package config

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server       Server
	Database     Database
	Redis        Redis
	SMTP         SMTP
	GeminiApiKey string
	Gemini       Gemini
	Assessment   Assessment
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type Redis struct {
	Addr string
}

type SMTP struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type Gemini struct {
	Model          string
	EmbeddingModel string
	Temperature    float32
	Timeout        time.Duration
}

// Assessment holds the pipeline thresholds and knobs. These were plain env
// constants in the legacy deployment, so they stay configuration here.
type Assessment struct {
	AptitudePassMark      float64
	AptitudeSetCount      int
	AptitudeSetSize       int
	CommunicationPassMark float64
	ResumeScoreThreshold  float64
	OTPLength             int
	OTPValidity           time.Duration
	CodingRunTimeout      time.Duration
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	viper.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	viper.SetDefault("GEMINI_EMBEDDING_MODEL", "text-embedding-004")
	viper.SetDefault("GEMINI_TEMPERATURE", 0.2)
	viper.SetDefault("GEMINI_TIMEOUT_SECONDS", 30)
	viper.SetDefault("SMTP_HOST", "smtp.gmail.com")
	viper.SetDefault("SMTP_PORT", 465)
	viper.SetDefault("APTITUDE_PASS_MARK", 15)
	viper.SetDefault("APTITUDE_SET_COUNT", 10)
	viper.SetDefault("APTITUDE_SET_SIZE", 25)
	viper.SetDefault("COMMUNICATION_PASS_MARK", 9)
	viper.SetDefault("RESUME_SCORE_THRESHOLD", 60.0)
	viper.SetDefault("OTP_LENGTH", 6)
	viper.SetDefault("OTP_VALIDITY_MINUTES", 5)
	viper.SetDefault("CODING_RUN_TIMEOUT_SECONDS", 5)

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Redis.Addr = viper.GetString("REDIS_ADDR")

	config.SMTP.Host = viper.GetString("SMTP_HOST")
	config.SMTP.Port = viper.GetInt("SMTP_PORT")
	config.SMTP.User = viper.GetString("SMTP_USER")
	config.SMTP.Password = viper.GetString("SMTP_PASSWORD")
	config.SMTP.From = viper.GetString("SMTP_FROM")
	if config.SMTP.From == "" {
		config.SMTP.From = config.SMTP.User
	}

	config.GeminiApiKey = viper.GetString("GEMINI_API_KEY")
	config.Gemini.Model = viper.GetString("GEMINI_MODEL")
	config.Gemini.EmbeddingModel = viper.GetString("GEMINI_EMBEDDING_MODEL")
	config.Gemini.Temperature = float32(viper.GetFloat64("GEMINI_TEMPERATURE"))
	config.Gemini.Timeout = time.Duration(viper.GetInt("GEMINI_TIMEOUT_SECONDS")) * time.Second

	config.Assessment.AptitudePassMark = viper.GetFloat64("APTITUDE_PASS_MARK")
	config.Assessment.AptitudeSetCount = viper.GetInt("APTITUDE_SET_COUNT")
	config.Assessment.AptitudeSetSize = viper.GetInt("APTITUDE_SET_SIZE")
	config.Assessment.CommunicationPassMark = viper.GetFloat64("COMMUNICATION_PASS_MARK")
	config.Assessment.ResumeScoreThreshold = viper.GetFloat64("RESUME_SCORE_THRESHOLD")
	config.Assessment.OTPLength = viper.GetInt("OTP_LENGTH")
	config.Assessment.OTPValidity = time.Duration(viper.GetInt("OTP_VALIDITY_MINUTES")) * time.Minute
	config.Assessment.CodingRunTimeout = time.Duration(viper.GetInt("CODING_RUN_TIMEOUT_SECONDS")) * time.Second

	log.Info().Str("port", config.Server.Port).Str("db_host", config.Database.Host).Msg("Config loaded")
	return &config, nil
}
