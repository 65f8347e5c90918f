package user

import (
	"context"
	"net/mail"
	"strings"
	"sync"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/edumanage/core"
)

const (
	trainerIDPrefix = "tr"
	signupIDPrefix  = "u"
	tempIDPrefix    = "temp"

	welcomeTemplate = "welcome"
)

var (
	// errors
	ErrNotFound             = errors.New("user not found")
	ErrEmailExists          = errors.New("a user with this email already exists")
	ErrNotSubmittable       = errors.New("signup form is not ready to be submitted")
	ErrConfirmationRequired = errors.New("deletion must be confirmed")
	ErrCannotDeleteSelf     = errors.New("you cannot delete your own account")
	ErrRegistrationNotFound = errors.New("registration not found")
)

func init() {
	core.RegisterEmailTemplate(welcomeTemplate, `Hi {{.Name}},

Welcome to EduManage! Your {{.Role}} account is ready.
{{- if .CourseOrExpertise}}
Course / expertise: {{.CourseOrExpertise}}
{{- end}}

You can now sign in with {{.Email}}.
`)
}

type (
	Repository interface {
		// CreateUser assigns a fresh "<idPrefix>-<millis>" id to usr and stores it.
		CreateUser(usr User, idPrefix string) (User, error)
		QueryAllUsers() ([]User, error)
		GetUserByID(id ID) (User, error)
		GetUserByEmail(email string) (User, error)
		// FindUserByName does a case-insensitive exact match among users of role.
		// On a miss it returns a *NameNotFoundError with close matches.
		FindUserByName(name string, role Role) (User, error)
		// FilterUsers applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of User.Name or User.Email.
		FilterUsers(filter QueryFilter) ([]User, error)
		DeleteUser(id ID) error
	}

	// ConfirmFunc is asked before a user is deleted; returning false aborts the deletion.
	ConfirmFunc func(usr User) bool

	Service struct {
		repo       Repository
		mailSvc    core.EmailService
		validate   *validator.Validate
		translator ut.Translator
		ids        *core.IDGenerator

		ackDelay      time.Duration
		completeDelay time.Duration
		retention     time.Duration

		mu            sync.RWMutex
		registrations map[string]*Registration
	}
)

func NewService(
	repo Repository,
	mailSvc core.EmailService,
	validate *validator.Validate,
	translator ut.Translator,
	conf *core.Config,
) *Service {
	return &Service{
		repo:          repo,
		mailSvc:       mailSvc,
		validate:      validate,
		translator:    translator,
		ids:           core.NewIDGenerator(),
		ackDelay:      conf.Signup.AckDelay,
		completeDelay: conf.Signup.CompleteDelay,
		retention:     conf.Signup.Retention,
		registrations: make(map[string]*Registration),
	}
}

// Login returns the stored user for a known email. Unknown emails get a
// temporary user named after the email's local part, with the selected role.
func (svc *Service) Login(req LoginRequest) (User, error) {
	req.Email = core.CleanString(req.Email, true /* lower */)
	if err := svc.validate.Struct(req); err != nil {
		return User{}, err
	}

	usr, err := svc.repo.GetUserByEmail(req.Email)
	if err == nil {
		return usr, nil
	} else if errors.Cause(err) != ErrNotFound {
		return User{}, errors.Wrap(err, "getting user by email")
	}

	role := req.Role
	if role == "" {
		role = RoleStudent
	}
	if !role.IsValid() {
		return User{}, core.NewValidationError(ErrInvalidRole, core.FieldError{Field: "role", Error: signupRoleText})
	}
	name := req.Email[:strings.Index(req.Email, "@")]
	return User{
		ID:     ID(svc.ids.Next(tempIDPrefix)),
		Name:   name,
		Email:  req.Email,
		Role:   role,
		Avatar: AvatarURL(name),
	}, nil
}

// EvaluateSignup recomputes the signup form errors.
func (svc *Service) EvaluateSignup(form SignupForm) SignupResult {
	return form.Evaluate(svc.validate, svc.translator)
}

// Signup starts the registration of a submittable form and returns immediately.
// The registration is acknowledged after the ack delay, then the user is created,
// welcomed by email and passed to onComplete. Cancelling ctx, or the returned
// Registration, before then aborts it and onComplete is never called.
// A form that is not submittable returns a *core.ValidationError and starts nothing.
func (svc *Service) Signup(ctx context.Context, form SignupForm, onComplete func(User)) (*Registration, error) {
	res := svc.EvaluateSignup(form)
	if !res.Submittable {
		return nil, form.notSubmittableError(res)
	}

	ctx, cancel := context.WithCancel(ctx)
	reg := newRegistration(uuid.New().String(), cancel)

	svc.mu.Lock()
	svc.registrations[reg.ID] = reg
	svc.mu.Unlock()

	go svc.register(ctx, reg, form, onComplete)
	return reg, nil
}

func (svc *Service) register(ctx context.Context, reg *Registration, form SignupForm, onComplete func(User)) {
	defer svc.forgetAfter(reg.ID, svc.retention)
	defer close(reg.done)
	defer reg.cancel()

	if err := wait(ctx, svc.ackDelay); err != nil {
		reg.finish(RegistrationCancelled, User{}, err)
		return
	}
	reg.acknowledge()

	if err := wait(ctx, svc.completeDelay); err != nil {
		reg.finish(RegistrationCancelled, User{}, err)
		return
	}

	usr, err := svc.repo.CreateUser(form.user(), signupIDPrefix)
	if err != nil {
		reg.finish(RegistrationFailed, User{}, errors.Wrap(err, "creating user"))
		return
	}
	reg.finish(RegistrationCompleted, usr, nil)

	svc.sendWelcomeMail(usr)
	if onComplete != nil {
		onComplete(usr)
	}
}

// forgetAfter drops a finished registration once d has passed.
func (svc *Service) forgetAfter(id string, d time.Duration) {
	time.AfterFunc(d, func() {
		svc.mu.Lock()
		delete(svc.registrations, id)
		svc.mu.Unlock()
	})
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (svc *Service) sendWelcomeMail(usr User) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      "Welcome to EduManage",
		TemplateName: welcomeTemplate,
		TemplateData: usr,
	})
}

func (svc *Service) GetRegistration(id string) (*Registration, error) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	if reg, ok := svc.registrations[id]; ok {
		return reg, nil
	}
	return nil, ErrRegistrationNotFound
}

// CancelRegistration cancels a pending registration. Completed ones are left untouched.
func (svc *Service) CancelRegistration(id string) (*Registration, error) {
	reg, err := svc.GetRegistration(id)
	if err != nil {
		return nil, err
	}
	reg.Cancel()
	<-reg.Done()
	return reg, nil
}

func (svc *Service) AddTrainer(nt NewTrainer) (User, error) {
	nt.clean()
	if err := svc.validate.Struct(nt); err != nil {
		return User{}, err
	}

	if _, err := svc.repo.GetUserByEmail(nt.Email); err == nil {
		return User{}, core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
	} else if errors.Cause(err) != ErrNotFound {
		return User{}, errors.Wrap(err, "checking email uniqueness")
	}

	usr := User{
		Name:              nt.Name,
		Email:             nt.Email,
		Role:              RoleTrainer,
		Avatar:            AvatarURL(nt.Name),
		CourseOrExpertise: nt.Specialization,
	}
	return svc.repo.CreateUser(usr, trainerIDPrefix)
}

// Delete removes the user with id once confirm accepts it.
// A nil or declining confirm returns ErrConfirmationRequired and removes nothing.
func (svc *Service) Delete(actor User, id ID, confirm ConfirmFunc) error {
	if actor.ID == id {
		return ErrCannotDeleteSelf
	}
	usr, err := svc.repo.GetUserByID(id)
	if err != nil {
		return err
	}
	if confirm == nil || !confirm(usr) {
		return ErrConfirmationRequired
	}
	return svc.repo.DeleteUser(id)
}

func (svc *Service) QueryAll() ([]User, error) {
	return svc.repo.QueryAllUsers()
}

func (svc *Service) GetByID(id ID) (User, error) {
	return svc.repo.GetUserByID(id)
}

func (svc *Service) GetByEmail(email string) (User, error) {
	return svc.repo.GetUserByEmail(core.CleanString(email, true /* lower */))
}

// FindStudentByName resolves a student from a typed name.
func (svc *Service) FindStudentByName(name string) (User, error) {
	return svc.repo.FindUserByName(core.CleanString(name), RoleStudent)
}

func (svc *Service) Filter(filter QueryFilter) ([]User, error) {
	filter.Clean()
	if filter.Role != "" && !filter.Role.IsValid() {
		return nil, core.NewValidationError(ErrInvalidRole, core.FieldError{Field: "role", Error: signupRoleText})
	}
	return svc.repo.FilterUsers(filter)
}
