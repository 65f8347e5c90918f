package core

import (
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	Env       string // DEV (local; default), TEST, QA, PROD
	Build     string
	Debug     bool
	TestMode  bool
	AppName   string
	SecretKey string

	JWTExpirationDelta time.Duration
	DefaultFromEmail   mail.Address
	SendgridApiKey     string
	RollbarToken       string

	Server struct {
		Host            string
		Address         string
		DebugAddress    string
		ShutdownTimeout time.Duration
	}

	Signup struct {
		AckDelay      time.Duration
		CompleteDelay time.Duration
		// Retention is how long a finished registration stays queryable.
		Retention time.Duration
	}

	Session struct {
		Path string
	}

	Theme struct {
		Default string
	}

	Gemini struct {
		APIKey  string
		Model   string
		BaseURL string
		Timeout time.Duration
	}
}

// NewConfig reads the configuration from defaults, an optional `config/.env.<env>` file and the environment.
// Environment variables are prefixed with EDUMANAGE_ and nested keys use underscores (eg. EDUMANAGE_SERVER_ADDRESS).
func NewConfig() (*Config, error) {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("build", "dev")
	v.SetDefault("appName", "EduManage")
	v.SetDefault("secretKey", "8d#w(q2m1!edu-manage^k0r4z@x7v&t-dev-only")
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("mail.fromName", "EduManage")
	v.SetDefault("mail.from", "noreply@edumanage.com")
	v.SetDefault("mail.sendgridApiKey", "")
	v.SetDefault("rollbar.token", "")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugAddress", "")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("signup.ackDelay", 500*time.Millisecond)
	v.SetDefault("signup.completeDelay", 1500*time.Millisecond)
	v.SetDefault("signup.retention", 10*time.Minute)
	v.SetDefault("session.path", filepath.Join(os.TempDir(), "edumanage.db"))
	v.SetDefault("theme.default", "")
	v.SetDefault("gemini.apiKey", "")
	v.SetDefault("gemini.model", "gemini-3-flash-preview")
	v.SetDefault("gemini.baseURL", "https://generativelanguage.googleapis.com")
	v.SetDefault("gemini.timeout", 15*time.Second)

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}
	if env == "TEST" {
		v.SetDefault("testMode", true)
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "stat %s", dotEnvPath)
	}

	v.SetEnvPrefix("edumanage")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	conf := &Config{
		Env:                env,
		Build:              v.GetString("build"),
		Debug:              v.GetBool("debug"),
		TestMode:           v.GetBool("testMode"),
		AppName:            v.GetString("appName"),
		SecretKey:          v.GetString("secretKey"),
		JWTExpirationDelta: v.GetDuration("jwtExpirationDelta"),
		DefaultFromEmail: mail.Address{
			Name:    v.GetString("mail.fromName"),
			Address: v.GetString("mail.from"),
		},
		SendgridApiKey: v.GetString("mail.sendgridApiKey"),
		RollbarToken:   v.GetString("rollbar.token"),
	}
	conf.Server.Host = v.GetString("server.host")
	conf.Server.Address = v.GetString("server.address")
	conf.Server.DebugAddress = v.GetString("server.debugAddress")
	conf.Server.ShutdownTimeout = v.GetDuration("server.shutdownTimeout")
	conf.Signup.AckDelay = v.GetDuration("signup.ackDelay")
	conf.Signup.CompleteDelay = v.GetDuration("signup.completeDelay")
	conf.Signup.Retention = v.GetDuration("signup.retention")
	conf.Session.Path = v.GetString("session.path")
	conf.Theme.Default = v.GetString("theme.default")
	conf.Gemini.APIKey = v.GetString("gemini.apiKey")
	conf.Gemini.Model = v.GetString("gemini.model")
	conf.Gemini.BaseURL = v.GetString("gemini.baseURL")
	conf.Gemini.Timeout = v.GetDuration("gemini.timeout")
	return conf, nil
}
