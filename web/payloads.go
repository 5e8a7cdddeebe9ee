package web

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// MaxUploadSize caps financial statement uploads at 10MB.
const MaxUploadSize = 10 << 20

var allowedUploadExtensions = []string{".csv", ".xlsx", ".xls", ".pdf"}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// SignupRequest is the registration form payload
type SignupRequest struct {
	Email           string `form:"email" json:"email"`
	FullName        string `form:"full_name" json:"full_name"`
	BusinessName    string `form:"business_name" json:"business_name"`
	Industry        string `form:"industry" json:"industry"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}

// Validate will validate the payload
func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.FullName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.BusinessName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Industry, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.Length(8, 100),
			validation.By(ValidateStringEquals(r.Password)),
		),
	)
}

// InsightsRequest selects the narrative language for AI generation.
type InsightsRequest struct {
	Lang string `form:"lang" json:"lang" query:"lang"`
}

// UploadRequest references a local statement file to push to the API.
type UploadRequest struct {
	FilePath string `form:"file_path" json:"file_path"`
}

// Validate will validate the payload
func (r UploadRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FilePath, validation.Required),
	)
}

// ValidateUploadFile checks the statement name and size before any bytes
// are sent upstream.
func ValidateUploadFile(filename string, size int64) error {
	ext := strings.ToLower(filepath.Ext(filename))

	ok := false
	for _, allowed := range allowedUploadExtensions {
		if ext == allowed {
			ok = true
			break
		}
	}

	if !ok {
		return fmt.Errorf("unsupported file type %q, expected one of: %s",
			ext,
			strings.Join(allowedUploadExtensions, ", "),
		)
	}

	if size > MaxUploadSize {
		return fmt.Errorf("file exceeds the %dMB upload limit", MaxUploadSize>>20)
	}

	return nil
}

// ValidateStringEquals will check that both values match
func ValidateStringEquals(str string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return errors.New("values must match")
		}
		return nil
	}
}

// FormatValidationErrorToMap flattens ozzo field errors into view-friendly
// key/message pairs.
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, ferr := range verrs {
			out[field] = ferr.Error()
		}
		return out
	}

	out["payload"] = err.Error()
	return out
}
