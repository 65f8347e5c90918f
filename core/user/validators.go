package user

import (
	"fmt"
	"regexp"
	"unicode/utf16"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/edumanage/core"
)

var (
	phoneTag   = "phone_"
	phoneText  = "Invalid phone number"
	phoneRegex = regexp.MustCompile(`^\+?[\d\s-]{10,}$`)

	// password policy
	pwdMinLen     = 6
	pwdMinLenTag  = "pwdmin"
	pwdMinLenText = fmt.Sprintf("Password must be at least %d characters", pwdMinLen)

	pwdMatchTag  = "pwdmatch"
	pwdMatchText = "Passwords do not match"

	signupRoleTag  = "signup_role"
	signupRoleText = "Please select a valid role"
)

// InitValidators registers the user validators and their translations.
// core.InitValidators must have been called on validate first.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(phoneTag, phoneValidation)
	core.RegisterCustomTranslation(validate, translator, phoneTag, phoneText)

	_ = validate.RegisterValidation(pwdMinLenTag, pwdMinLenValidation)
	core.RegisterCustomTranslation(validate, translator, pwdMinLenTag, pwdMinLenText)

	_ = validate.RegisterValidation(signupRoleTag, signupRoleValidation)
	core.RegisterCustomTranslation(validate, translator, signupRoleTag, signupRoleText)

	validate.RegisterStructValidation(signupStructValidation, SignupForm{})
	core.RegisterCustomTranslation(validate, translator, pwdMatchTag, pwdMatchText)
}

// Custom Validators

func phoneValidation(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

// pwdMinLenValidation counts UTF-16 code units, so a character outside the BMP counts twice.
func pwdMinLenValidation(fl validator.FieldLevel) bool {
	return len(utf16.Encode([]rune(fl.Field().String()))) >= pwdMinLen
}

func signupRoleValidation(fl validator.FieldLevel) bool {
	return Role(fl.Field().String()).IsValid()
}

// signupStructValidation reports a mismatch once both passwords are typed.
func signupStructValidation(sl validator.StructLevel) {
	form := sl.Current().Interface().(SignupForm)
	if form.Password != "" && form.ConfirmPassword != "" && form.Password != form.ConfirmPassword {
		sl.ReportError(form.ConfirmPassword, "confirmPassword", "ConfirmPassword", pwdMatchTag, "")
	}
}
