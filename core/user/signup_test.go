package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/edumanage/core"
	"github.com/trezcool/edumanage/core/user"
	"github.com/trezcool/edumanage/tests"
)

func validForm() user.SignupForm {
	return user.SignupForm{
		Name:              "Ana",
		Email:             "ana@x.com",
		Phone:             "+1 555-123-4567",
		Password:          "secret1",
		ConfirmPassword:   "secret1",
		Role:              user.RoleStudent,
		CourseOrExpertise: "Java Full Stack",
		TermsAccepted:     true,
	}
}

func TestSignupForm_Evaluate(t *testing.T) {
	validate, translator := testutil.NewValidator()

	tests := []struct {
		name            string
		edit            func(f *user.SignupForm)
		wantErrors      map[string]string
		wantSubmittable bool
	}{
		{name: "valid", edit: func(f *user.SignupForm) {}, wantErrors: map[string]string{}, wantSubmittable: true},
		{
			name:            "empty form has no errors",
			edit:            func(f *user.SignupForm) { *f = user.SignupForm{} },
			wantErrors:      map[string]string{},
			wantSubmittable: false,
		},
		{
			name:            "passwords mismatch",
			edit:            func(f *user.SignupForm) { f.ConfirmPassword = "secret2" },
			wantErrors:      map[string]string{"confirmPassword": "Passwords do not match"},
			wantSubmittable: false,
		},
		{
			name:            "confirm not typed yet",
			edit:            func(f *user.SignupForm) { f.ConfirmPassword = "" },
			wantErrors:      map[string]string{},
			wantSubmittable: false,
		},
		{
			name: "short password",
			edit: func(f *user.SignupForm) { f.Password, f.ConfirmPassword = "abc", "abc" },
			wantErrors: map[string]string{
				"password": "Password must be at least 6 characters",
			},
			wantSubmittable: false,
		},
		{
			name:            "password counted in utf-16 units",
			edit:            func(f *user.SignupForm) { f.Password, f.ConfirmPassword = "😀😀😀", "😀😀😀" },
			wantErrors:      map[string]string{},
			wantSubmittable: true,
		},
		{
			name: "short accented password",
			edit: func(f *user.SignupForm) { f.Password, f.ConfirmPassword = "héllo", "héllo" },
			wantErrors: map[string]string{
				"password": "Password must be at least 6 characters",
			},
			wantSubmittable: false,
		},
		{
			name:            "phone too short",
			edit:            func(f *user.SignupForm) { f.Phone = "12345" },
			wantErrors:      map[string]string{"phone": "Invalid phone number"},
			wantSubmittable: false,
		},
		{
			name:            "phone with symbols",
			edit:            func(f *user.SignupForm) { f.Phone = "(555) 123-4567" },
			wantErrors:      map[string]string{"phone": "Invalid phone number"},
			wantSubmittable: false,
		},
		{
			name:            "terms not accepted",
			edit:            func(f *user.SignupForm) { f.TermsAccepted = false },
			wantErrors:      map[string]string{},
			wantSubmittable: false,
		},
		{
			name:            "no course",
			edit:            func(f *user.SignupForm) { f.CourseOrExpertise = "" },
			wantErrors:      map[string]string{},
			wantSubmittable: false,
		},
		{
			name:            "trainer without experience",
			edit:            func(f *user.SignupForm) { f.Role = user.RoleTrainer },
			wantErrors:      map[string]string{},
			wantSubmittable: false,
		},
		{
			name:            "trainer with experience",
			edit:            func(f *user.SignupForm) { f.Role, f.Experience = user.RoleTrainer, "5" },
			wantErrors:      map[string]string{},
			wantSubmittable: true,
		},
		{
			name:            "admin needs nothing extra",
			edit:            func(f *user.SignupForm) { f.Role = user.RoleAdmin },
			wantErrors:      map[string]string{},
			wantSubmittable: true,
		},
		{
			name:            "no role defaults to student",
			edit:            func(f *user.SignupForm) { f.Role = "" },
			wantErrors:      map[string]string{},
			wantSubmittable: true,
		},
		{
			name:            "unknown role",
			edit:            func(f *user.SignupForm) { f.Role = "JANITOR" },
			wantErrors:      map[string]string{"role": "Please select a valid role"},
			wantSubmittable: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.edit(&form)

			res := form.Evaluate(validate, translator)
			assert.Equal(t, tt.wantErrors, res.Errors)
			assert.Equal(t, tt.wantSubmittable, res.Submittable)
		})
	}
}

func TestSignupForm_Evaluate_phones(t *testing.T) {
	validate, translator := testutil.NewValidator()

	for phone, valid := range map[string]bool{
		"+1 555-123-4567":  true,
		"5551234567":       true,
		"+243 81 234 5678": true,
		"555-123-456":      true,
		"555123456":        false,
		"+1 555.123.4567":  false,
		"phone number":     false,
		"+1 (555) 1234567": false,
	} {
		form := validForm()
		form.Phone = phone
		res := form.Evaluate(validate, translator)
		_, hasErr := res.Errors["phone"]
		assert.Equalf(t, !valid, hasErr, "phone %q", phone)
	}
}

func TestSignupForm_Evaluate_recomputes(t *testing.T) {
	validate, translator := testutil.NewValidator()

	form := validForm()
	form.ConfirmPassword = "secret2"
	res := form.Evaluate(validate, translator)
	assert.Contains(t, res.Errors, "confirmPassword")
	assert.False(t, res.Submittable)

	form.ConfirmPassword = form.Password
	res = form.Evaluate(validate, translator)
	assert.NotContains(t, res.Errors, "confirmPassword")
	assert.True(t, res.Submittable)
}

func TestSignupForm_MissingFields(t *testing.T) {
	form := user.SignupForm{Role: user.RoleTrainer, Name: "Ana"}
	assert.Equal(t, []string{
		"email", "phone", "password", "confirmPassword", "courseOrExpertise", "experience", "termsAccepted",
	}, form.MissingFields())

	form.Role = "JANITOR"
	assert.Equal(t, []string{"role"}, form.MissingFields())
}

func TestService_Signup(t *testing.T) {
	svcs := testutil.NewServices(t)
	before, err := svcs.Users.QueryAll()
	require.NoError(t, err)

	completed := make(chan user.User, 1)
	reg, err := svcs.Users.Signup(context.Background(), validForm(), func(usr user.User) { completed <- usr })
	require.NoError(t, err)
	assert.NotEmpty(t, reg.ID)

	select {
	case <-reg.Acknowledged():
	case <-time.After(time.Second):
		t.Fatal("registration was never acknowledged")
	}

	var usr user.User
	select {
	case usr = <-completed:
	case <-time.After(time.Second):
		t.Fatal("onComplete was never called")
	}
	<-reg.Done()

	assert.Equal(t, user.RegistrationCompleted, reg.State())
	assert.Regexp(t, `^u-\d+$`, usr.ID)
	assert.Equal(t, "Ana", usr.Name)
	assert.Equal(t, "ana@x.com", usr.Email)
	assert.Equal(t, user.RoleStudent, usr.Role)
	assert.Equal(t, "Java Full Stack", usr.CourseOrExpertise)
	assert.Equal(t, "https://ui-avatars.com/api/?name=Ana&background=random", usr.Avatar)

	regUsr, ok := reg.User()
	assert.True(t, ok)
	assert.Equal(t, usr, regUsr)

	after, err := svcs.Users.QueryAll()
	require.NoError(t, err)
	assert.Len(t, after, len(before)+1)
	stored, err := svcs.Users.GetByID(usr.ID)
	require.NoError(t, err)
	assert.Equal(t, usr, stored)

	sent := svcs.Mail.Sent()
	if assert.Len(t, sent, 1) {
		assert.Equal(t, "ana@x.com", sent[0].To[0].Address)
		assert.Contains(t, sent[0].TextContent, "Hi Ana")
	}
}

func TestService_Signup_notSubmittable(t *testing.T) {
	svcs := testutil.NewServices(t)
	before, err := svcs.Users.QueryAll()
	require.NoError(t, err)

	form := validForm()
	form.TermsAccepted = false
	form.Phone = "123"

	reg, err := svcs.Users.Signup(context.Background(), form, func(user.User) { t.Error("onComplete called") })
	assert.Nil(t, reg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, user.ErrNotSubmittable))

	var vErr *core.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, map[string]string{
		"phone":         "Invalid phone number",
		"termsAccepted": "You must accept the terms and conditions",
	}, vErr.FieldErrors())

	after, err := svcs.Users.QueryAll()
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Empty(t, svcs.Mail.Sent())
}

func TestService_Signup_cancel(t *testing.T) {
	tests := []struct {
		name   string
		cancel func(reg *user.Registration, ctxCancel context.CancelFunc)
	}{
		{name: "context", cancel: func(_ *user.Registration, ctxCancel context.CancelFunc) { ctxCancel() }},
		{name: "registration", cancel: func(reg *user.Registration, _ context.CancelFunc) { reg.Cancel() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svcs := testutil.NewServices(t)
			before, err := svcs.Users.QueryAll()
			require.NoError(t, err)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			called := make(chan struct{}, 1)
			reg, err := svcs.Users.Signup(ctx, validForm(), func(user.User) { called <- struct{}{} })
			require.NoError(t, err)

			tt.cancel(reg, cancel)
			<-reg.Done()

			assert.Equal(t, user.RegistrationCancelled, reg.State())
			assert.True(t, errors.Is(reg.Err(), context.Canceled))
			_, ok := reg.User()
			assert.False(t, ok)

			select {
			case <-called:
				t.Error("onComplete called after cancellation")
			case <-time.After(3 * svcs.Conf.Signup.CompleteDelay):
			}
			after, err := svcs.Users.QueryAll()
			require.NoError(t, err)
			assert.Equal(t, before, after)
		})
	}
}

func TestService_CancelRegistration(t *testing.T) {
	svcs := testutil.NewServices(t)

	_, err := svcs.Users.CancelRegistration("nope")
	assert.Equal(t, user.ErrRegistrationNotFound, err)

	reg, err := svcs.Users.Signup(context.Background(), validForm(), nil)
	require.NoError(t, err)
	got, err := svcs.Users.GetRegistration(reg.ID)
	require.NoError(t, err)
	assert.Same(t, reg, got)

	got, err = svcs.Users.CancelRegistration(reg.ID)
	require.NoError(t, err)
	assert.Equal(t, user.RegistrationCancelled, got.State())
}

func TestService_Signup_retention(t *testing.T) {
	svcs := testutil.NewServices(t, func(conf *core.Config) { conf.Signup.Retention = 10 * time.Millisecond })

	reg, err := svcs.Users.Signup(context.Background(), validForm(), nil)
	require.NoError(t, err)
	_, err = svcs.Users.GetRegistration(reg.ID)
	require.NoError(t, err, "pending registrations are kept")

	<-reg.Done()
	assert.Eventually(t, func() bool {
		_, err := svcs.Users.GetRegistration(reg.ID)
		return err == user.ErrRegistrationNotFound
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, user.RegistrationCompleted, reg.State())
}
