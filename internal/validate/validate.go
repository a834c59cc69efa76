package validate

import (
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	v *validator.Validate

	phoneRegex = regexp.MustCompile(`^[0-9]{10}$`)
	otpRegex   = regexp.MustCompile(`^[0-9]{6}$`)
)

func init() {
	v = validator.New()

	// Use JSON tag names for errors instead of Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("otp", func(fl validator.FieldLevel) bool {
		return otpRegex.MatchString(fl.Field().String())
	})

	v.RegisterStructValidation(changePasswordValidation, ChangePassword{})
}

// Login is the login form. Role is fixed at login time.
type Login struct {
	Phone    string `json:"phone" validate:"required,phone"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=admin teacher student"`
}

// Registration is the send-otp form. Admins are provisioned, never
// self-registered, so the role choice is teacher or student only.
type Registration struct {
	Phone string `json:"phone" validate:"required,phone"`
	Role  string `json:"role" validate:"required,oneof=teacher student"`
}

// OTPVerification is the verify-otp form.
type OTPVerification struct {
	Code            string `json:"otp" validate:"required,otp"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

// ChangePassword covers both the forced first-login rotation and a
// voluntary one. FirstLogin is set by the caller, not the form.
type ChangePassword struct {
	OldPassword     string `json:"oldPassword"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
	FirstLogin      bool   `json:"-"`
}

func changePasswordValidation(sl validator.StructLevel) {
	cp, ok := sl.Current().Interface().(ChangePassword)
	if !ok || cp.FirstLogin {
		return
	}
	if cp.OldPassword == "" {
		sl.ReportError(cp.OldPassword, "oldPassword", "OldPassword", "required", "")
		return
	}
	if cp.OldPassword == cp.NewPassword {
		sl.ReportError(cp.NewPassword, "newPassword", "NewPassword", "nefield", "OldPassword")
	}
}

// Error is a local validation failure, keyed by form field. It never
// reaches the network.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+" "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Struct validates a form struct and returns *Error on failure.
func Struct(form interface{}) error {
	err := v.Struct(form)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		fields[fe.Field()] = message(fe)
	}
	return &Error{Fields: fields}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "phone":
		return "must be exactly 10 digits"
	case "otp":
		return "must be exactly 6 digits"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "eqfield":
		return "does not match the new password"
	case "nefield":
		return "must differ from the current password"
	case "oneof":
		return "is not a valid role"
	default:
		return "is invalid"
	}
}
