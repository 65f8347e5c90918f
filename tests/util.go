package testutil

import (
	"io"
	"log"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/edumanage/core"
	"github.com/trezcool/edumanage/core/academy"
	"github.com/trezcool/edumanage/core/user"
	"github.com/trezcool/edumanage/services/email"
	"github.com/trezcool/edumanage/services/logger"
	"github.com/trezcool/edumanage/storage/inmem"
)

// Config returns a test configuration with short signup delays.
func Config() *core.Config {
	conf := &core.Config{
		Env:                "TEST",
		TestMode:           true,
		AppName:            "EduManage",
		SecretKey:          "test-secret",
		JWTExpirationDelta: time.Hour,
	}
	conf.DefaultFromEmail.Name = "EduManage"
	conf.DefaultFromEmail.Address = "noreply@edumanage.com"
	conf.Signup.AckDelay = 10 * time.Millisecond
	conf.Signup.CompleteDelay = 20 * time.Millisecond
	conf.Signup.Retention = time.Minute
	conf.Server.ShutdownTimeout = time.Second
	return conf
}

// NewValidator returns a validator with every app validator registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	academy.InitValidators(validate, translator)
	return validate, translator
}

// NewLogger returns a logger that discards everything.
func NewLogger(conf *core.Config) core.Logger {
	return logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
}

func OpenDB(t *testing.T) *inmemdb.DB {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("OpenDB() failed: %v", err)
	}
	return db
}

// Services wires the domain services on a fresh seeded DB.
type Services struct {
	Conf       *core.Config
	DB         *inmemdb.DB
	Validate   *validator.Validate
	Translator ut.Translator
	Mail       *emailsvc.ConsoleServiceMock
	Users      *user.Service
	Academy    *academy.Service
}

// NewServices applies opts to the test Config before wiring.
func NewServices(t *testing.T, opts ...func(*core.Config)) *Services {
	conf := Config()
	for _, opt := range opts {
		opt(conf)
	}
	db := OpenDB(t)
	validate, translator := NewValidator()
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	usrSvc := user.NewService(inmemdb.NewUserRepository(db), mailSvc, validate, translator, conf)
	return &Services{
		Conf:       conf,
		DB:         db,
		Validate:   validate,
		Translator: translator,
		Mail:       mailSvc,
		Users:      usrSvc,
		Academy:    academy.NewService(inmemdb.NewAcademyRepository(db), usrSvc, validate),
	}
}

func CreateUser(t *testing.T, repo user.Repository, name, email string, role user.Role) user.User {
	usr, err := repo.CreateUser(user.User{Name: name, Email: email, Role: role, Avatar: user.AvatarURL(name)}, "u")
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}
