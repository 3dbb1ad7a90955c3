// Package forms binds and validates HTML form submissions.
package forms

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldKind describes how a field is rendered and validated.
type FieldKind string

const (
	CharField     FieldKind = "CharField"
	ChoiceField   FieldKind = "ChoiceField"
	ImageField    FieldKind = "ImageField"
	EmailField    FieldKind = "EmailField"
	PasswordField FieldKind = "PasswordField"
)

const (
	msgRequired      = "This field is required."
	msgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
)

// Choice is a single option of a ChoiceField.
type Choice struct {
	Value string
	Label string
}

// Field is a form field together with its bound value and errors.
type Field struct {
	Name     string
	Label    string
	HelpText string
	Kind     FieldKind
	Required bool
	Value    string
	Choices  []Choice
	Errors   []string
}

// Selected reports whether value is the field's current value.
func (f *Field) Selected(value string) bool {
	return f.Value == value
}

// Form is an ordered set of fields.
type Form struct {
	Fields         map[string]*Field
	order          []string
	NonFieldErrors []string
}

func newForm(fields ...*Field) Form {
	f := Form{Fields: make(map[string]*Field, len(fields))}
	for _, field := range fields {
		f.Fields[field.Name] = field
		f.order = append(f.order, field.Name)
	}
	return f
}

// Ordered returns the fields in declaration order.
func (f *Form) Ordered() []*Field {
	fields := make([]*Field, 0, len(f.order))
	for _, name := range f.order {
		fields = append(fields, f.Fields[name])
	}
	return fields
}

// AddError attaches an error to the named field, or to the form if no such field exists.
func (f *Form) AddError(name, msg string) {
	if field, ok := f.Fields[name]; ok {
		field.Errors = append(field.Errors, msg)
		return
	}
	f.NonFieldErrors = append(f.NonFieldErrors, msg)
}

// Valid reports whether the form has no errors.
func (f *Form) Valid() bool {
	if len(f.NonFieldErrors) > 0 {
		return false
	}
	for _, field := range f.Fields {
		if len(field.Errors) > 0 {
			return false
		}
	}
	return true
}

// addBindError translates errors returned by gin's binding into field errors.
func (f *Form) addBindError(err error, names map[string]string) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		f.NonFieldErrors = append(f.NonFieldErrors, "Invalid form submission.")
		return
	}
	for _, fe := range verrs {
		name, ok := names[fe.Field()]
		if !ok {
			name = strings.ToLower(fe.Field())
		}
		f.AddError(name, validationMessage(fe))
	}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgRequired
	case "email":
		return "Enter a valid email address."
	case "eqfield":
		return "The two password fields didn't match."
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	default:
		return "Enter a valid value."
	}
}
