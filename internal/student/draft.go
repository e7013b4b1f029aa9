package student

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Draft is a snapshot of the student form.
// ID is zero in create mode and set in edit mode.
type Draft struct {
	ID        int64
	Name      string `label:"Name" validate:"required"`
	BirthDate string `label:"Birth Date" validate:"required,datetime=2006-01-02"`
	MobileNo  string `label:"Mobile Number" validate:"required"`
	Photo     *string
}

// FieldError is a client-side validation failure for a single form field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
	return v
}

// DraftFromRecord fills a draft from a fetched record, carrying its photo over.
func DraftFromRecord(r Record) Draft {
	d := Draft{
		ID:        r.ID,
		Name:      r.Name,
		BirthDate: r.BirthDate.String(),
		MobileNo:  r.MobileNo,
	}
	if r.PhotoBase64 != "" {
		photo := r.PhotoBase64
		d.Photo = &photo
	}
	return d
}

// IsUpdate reports whether saving the draft updates an existing record.
func (d Draft) IsUpdate() bool {
	return d.ID != 0
}

// Trimmed returns a copy with surrounding whitespace removed from text fields.
func (d Draft) Trimmed() Draft {
	d.Name = strings.TrimSpace(d.Name)
	d.BirthDate = strings.TrimSpace(d.BirthDate)
	d.MobileNo = strings.TrimSpace(d.MobileNo)
	return d
}

// Validate checks required fields in form order (name, birth date, mobile
// number) and returns the first failure as a *FieldError.
func (d Draft) Validate() error {
	err := validate.Struct(d.Trimmed())
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	first := verrs[0]
	return &FieldError{Field: first.StructField(), Message: fieldMessage(first)}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "datetime":
		return fe.Field() + " must be a valid date (YYYY-MM-DD)"
	default:
		return fe.Field() + " is invalid"
	}
}

// Payload converts a validated draft into the request body.
func (d Draft) Payload() (Payload, error) {
	t := d.Trimmed()
	date, err := ParseDate(t.BirthDate)
	if err != nil {
		return Payload{}, err
	}
	p := Payload{Name: t.Name, BirthDate: date, MobileNo: t.MobileNo}
	if d.Photo != nil && *d.Photo != "" {
		photo := *d.Photo
		p.PhotoBase64 = &photo
	}
	return p, nil
}
