package dig_container

import (
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/edumanage/apps/api/echo"
	"github.com/trezcool/edumanage/core"
	"github.com/trezcool/edumanage/core/academy"
	"github.com/trezcool/edumanage/core/insight"
	"github.com/trezcool/edumanage/core/stats"
	"github.com/trezcool/edumanage/core/user"
	emailsvc "github.com/trezcool/edumanage/services/email"
	logsvc "github.com/trezcool/edumanage/services/logger"
	"github.com/trezcool/edumanage/services/textgen"
	inmemdb "github.com/trezcool/edumanage/storage/inmem"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	return logger
}

func newDB(loggerParam DBLoggerParam) *inmemdb.DB {
	db, err := inmemdb.Open()
	if err != nil {
		loggerParam.Logger.Fatal("opening database", err)
	}
	loggerParam.Logger.Info("database loaded with seed data")
	return db
}

func newStatsSource(db *inmemdb.DB) stats.Source {
	return db
}

func newStudentDirectory(svc *user.Service) academy.StudentDirectory {
	return svc
}

// newValidator registers every app validator and translation.
func newValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	academy.InitValidators(validate, translator)
	return validate, translator
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(newStatsSource))
	must(c.Provide(inmemdb.NewUserRepository))
	must(c.Provide(inmemdb.NewAcademyRepository))
	must(c.Provide(newValidator))
	must(c.Provide(emailsvc.NewService))
	must(c.Provide(user.NewService))
	must(c.Provide(newStudentDirectory))
	must(c.Provide(academy.NewService))
	must(c.Provide(textgen.NewGenerator))
	must(c.Provide(insight.NewService))
	must(c.Provide(echoapi.NewServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
