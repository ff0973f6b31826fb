package form

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// RegisterForm is submitted by the sign up page.
type RegisterForm struct {
	Username  string `form:"username" json:"username"`
	Email     string `form:"email" json:"email"`
	Password1 string `form:"password1" json:"password1"`
	Password2 string `form:"password2" json:"password2"`
}

// Normalize trims the text inputs. Passwords are kept verbatim.
func (f *RegisterForm) Normalize() {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)
}

// Validate checks every field and the password confirmation.
func (f RegisterForm) Validate() Errors {
	return fromValidation(validation.ValidateStruct(&f,
		validation.Field(&f.Username,
			validation.Required.Error("This field is required."),
			validation.Length(1, 150).Error("Ensure this value has at most 150 characters."),
			validation.Match(usernamePattern).Error("Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."),
		),
		validation.Field(&f.Email,
			is.EmailFormat.Error("Enter a valid email address."),
			validation.Length(0, 254),
		),
		validation.Field(&f.Password1, passwordRules()...),
		validation.Field(&f.Password2,
			validation.Required.Error("This field is required."),
			matches(f.Password1),
		),
	))
}

// LoginForm is submitted by the login page.
type LoginForm struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
	Next     string `form:"next" json:"next"`
}

func (f LoginForm) Validate() Errors {
	return fromValidation(validation.ValidateStruct(&f,
		validation.Field(&f.Username, notBlank),
		validation.Field(&f.Password, validation.Required.Error("This field is required.")),
	))
}

// PasswordResetForm asks for the address the reset link is sent to.
type PasswordResetForm struct {
	Email string `form:"email" json:"email"`
}

func (f PasswordResetForm) Validate() Errors {
	f.Email = strings.TrimSpace(f.Email)
	return fromValidation(validation.ValidateStruct(&f,
		validation.Field(&f.Email,
			validation.Required.Error("This field is required."),
			is.EmailFormat.Error("Enter a valid email address."),
		),
	))
}

// SetPasswordForm is shown behind a valid reset link.
type SetPasswordForm struct {
	NewPassword1 string `form:"new_password1" json:"new_password1"`
	NewPassword2 string `form:"new_password2" json:"new_password2"`
}

func (f SetPasswordForm) Validate() Errors {
	return fromValidation(validation.ValidateStruct(&f,
		validation.Field(&f.NewPassword1, passwordRules()...),
		validation.Field(&f.NewPassword2,
			validation.Required.Error("This field is required."),
			matches(f.NewPassword1),
		),
	))
}
