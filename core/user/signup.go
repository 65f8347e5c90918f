package user

import (
	"context"
	"sync"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/edumanage/core"
)

// SignupForm is the registration form as typed by the user.
// Values are evaluated as-is, nothing is trimmed.
type SignupForm struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	Phone             string `json:"phone" validate:"omitempty,phone_"`
	Password          string `json:"password" validate:"omitempty,pwdmin"`
	ConfirmPassword   string `json:"confirmPassword"`
	Role              Role   `json:"role" validate:"omitempty,signup_role"`
	CourseOrExpertise string `json:"courseOrExpertise"`
	Experience        string `json:"experience"`
	Address           string `json:"address"`
	TermsAccepted     bool   `json:"termsAccepted"`
}

// SignupResult is the outcome of evaluating a SignupForm.
type SignupResult struct {
	Errors      map[string]string `json:"errors"`
	Submittable bool              `json:"submittable"`
}

// SignupRole returns the role the form registers for; STUDENT when none was picked.
func (f SignupForm) SignupRole() Role {
	if f.Role == "" {
		return RoleStudent
	}
	return f.Role
}

func (f SignupForm) Validate(validate *validator.Validate) error {
	return validate.Struct(f)
}

// Evaluate recomputes the field errors and whether the form can be submitted.
func (f SignupForm) Evaluate(validate *validator.Validate, translator ut.Translator) SignupResult {
	errs := core.TranslateErrors(f.Validate(validate), translator)
	if errs == nil {
		errs = make(map[string]string)
	}
	return SignupResult{
		Errors:      errs,
		Submittable: len(errs) == 0 && len(f.MissingFields()) == 0 && f.Password == f.ConfirmPassword,
	}
}

// RequiredSignupFields returns the fields that must be filled for role, besides the terms.
func RequiredSignupFields(role Role) []string {
	common := []string{"name", "email", "phone", "password", "confirmPassword", "courseOrExpertise"}
	switch role {
	case RoleTrainer:
		return append(common, "experience")
	case RoleStudent, RoleAdmin:
		return common
	default:
		return nil
	}
}

// MissingFields lists the required fields left empty, in form order.
// An unknown role reports the role itself as missing.
func (f SignupForm) MissingFields() []string {
	fields := RequiredSignupFields(f.SignupRole())
	if fields == nil {
		return []string{"role"}
	}

	var missing []string
	for _, fld := range fields {
		if f.value(fld) == "" {
			missing = append(missing, fld)
		}
	}
	if !f.TermsAccepted {
		missing = append(missing, "termsAccepted")
	}
	return missing
}

func (f SignupForm) value(field string) string {
	switch field {
	case "name":
		return f.Name
	case "email":
		return f.Email
	case "phone":
		return f.Phone
	case "password":
		return f.Password
	case "confirmPassword":
		return f.ConfirmPassword
	case "courseOrExpertise":
		return f.CourseOrExpertise
	case "experience":
		return f.Experience
	case "address":
		return f.Address
	default:
		return ""
	}
}

func (f SignupForm) user() User {
	return User{
		Name:              f.Name,
		Email:             f.Email,
		Role:              f.SignupRole(),
		Avatar:            AvatarURL(f.Name),
		CourseOrExpertise: f.CourseOrExpertise,
	}
}

// notSubmittableError reports the field errors plus every missing required field.
func (f SignupForm) notSubmittableError(res SignupResult) error {
	fldErrs := make([]core.FieldError, 0, len(res.Errors))
	for _, fld := range append(RequiredSignupFields(RoleTrainer), "role", "termsAccepted") {
		if msg, ok := res.Errors[fld]; ok {
			fldErrs = append(fldErrs, core.FieldError{Field: fld, Error: msg})
		}
	}
	for _, fld := range f.MissingFields() {
		if _, ok := res.Errors[fld]; !ok {
			fldErrs = append(fldErrs, core.FieldError{Field: fld, Error: requiredText(fld)})
		}
	}
	return core.NewValidationError(ErrNotSubmittable, fldErrs...)
}

func requiredText(field string) string {
	switch field {
	case "termsAccepted":
		return "You must accept the terms and conditions"
	case "role":
		return signupRoleText
	default:
		return "this field is required"
	}
}

// Registration states
const (
	RegistrationPending   RegistrationState = "pending"
	RegistrationSuccess   RegistrationState = "success"
	RegistrationCompleted RegistrationState = "completed"
	RegistrationCancelled RegistrationState = "cancelled"
	RegistrationFailed    RegistrationState = "failed"
)

type RegistrationState string

// Registration tracks a submitted signup until the account is created.
type Registration struct {
	ID string

	mu    sync.RWMutex
	state RegistrationState
	user  User
	err   error

	acked  chan struct{}
	done   chan struct{}
	cancel context.CancelFunc
}

func newRegistration(id string, cancel context.CancelFunc) *Registration {
	return &Registration{
		ID:     id,
		state:  RegistrationPending,
		acked:  make(chan struct{}),
		done:   make(chan struct{}),
		cancel: cancel,
	}
}

func (r *Registration) State() RegistrationState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// User returns the created user once the registration has completed.
func (r *Registration) User() (User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.user, r.state == RegistrationCompleted
}

func (r *Registration) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.err
}

// Acknowledged is closed when the registration reaches the success state.
func (r *Registration) Acknowledged() <-chan struct{} { return r.acked }

// Done is closed once the registration has completed, failed or been cancelled.
func (r *Registration) Done() <-chan struct{} { return r.done }

// Cancel stops the registration if it has not completed yet.
func (r *Registration) Cancel() { r.cancel() }

func (r *Registration) acknowledge() {
	r.mu.Lock()
	r.state = RegistrationSuccess
	r.mu.Unlock()
	close(r.acked)
}

func (r *Registration) finish(state RegistrationState, usr User, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = state
	r.user = usr
	r.err = err
}
