package user

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	pkgerrors "user-directory/pkg/errors"
)

// Payload is the client supplied part of a user record.
// It is the single rule set shared by the REST API and the HTML form.
type Payload struct {
	Name      string   `json:"name" validate:"required,notblank,min=2"`
	Email     string   `json:"email" validate:"required,email"`
	Age       *int64   `json:"age" validate:"required,gt=0"`
	Mobile    *int64   `json:"mobile" validate:"required,gt=0"`
	Interests []string `json:"interests"`

	// decodeErrs holds per-field shape failures found while decoding the wire form.
	decodeErrs map[string]string
}

// fieldOrder is the order in which violations are reported.
var fieldOrder = []string{"name", "email", "age", "mobile", "interests"}

type ruleSet struct {
	validate   *validator.Validate
	translator ut.Translator
}

var rules = newRuleSet()

func newRuleSet() *ruleSet {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// required only rejects "", not whitespace
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}

	english := en.New()
	uni := ut.New(english, english)
	trans, found := uni.GetTranslator("en")
	if !found {
		panic("translator en not found")
	}

	if err := en_translations.RegisterDefaultTranslations(v, trans); err != nil {
		panic(err)
	}

	overrides := map[string]string{
		"required": "{0} is required",
		"notblank": "{0} must not be blank",
		"min":      "{0} must be at least {1} characters",
		"email":    "{0} must be a valid email address",
		"gt":       "{0} must be a positive integer",
	}
	for tag, text := range overrides {
		if err := v.RegisterTranslation(tag, trans, registerText(tag, text), translateText(tag)); err != nil {
			panic(err)
		}
	}

	return &ruleSet{validate: v, translator: trans}
}

func registerText(tag, text string) validator.RegisterTranslationsFunc {
	return func(ut ut.Translator) error {
		return ut.Add(tag, text, true)
	}
}

func translateText(tag string) validator.TranslationFunc {
	return func(ut ut.Translator, fe validator.FieldError) string {
		t, err := ut.T(tag, fe.Field(), fe.Param())
		if err != nil {
			return fe.Field() + " is invalid"
		}
		return t
	}
}

// Validate checks a payload against the user rules.
// It returns nil or a *errors.ValidationError whose message is the first violated field's message.
func Validate(p Payload) error {
	found := make(map[string]string, len(fieldOrder))
	for field, msg := range p.decodeErrs {
		found[field] = msg
	}

	if err := rules.validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return pkgerrors.NewInternalError("failed to validate user payload", err)
		}
		for _, fe := range verrs {
			// a shape failure is more specific than a rule failure on the same field
			if _, ok := found[fe.Field()]; ok {
				continue
			}
			found[fe.Field()] = fe.Translate(rules.translator)
		}
	}

	if len(found) == 0 {
		return nil
	}

	violations := make([]pkgerrors.Violation, 0, len(found))
	for _, field := range fieldOrder {
		if msg, ok := found[field]; ok {
			violations = append(violations, pkgerrors.Violation{Field: field, Message: msg})
		}
	}
	return pkgerrors.NewValidationErrors(violations)
}

// Apply copies a validated payload onto a user record. The id is left untouched.
func (p Payload) Apply(u *User) {
	u.Name = p.Name
	u.Email = p.Email
	if p.Age != nil {
		u.Age = *p.Age
	}
	if p.Mobile != nil {
		u.Mobile = *p.Mobile
	}
	u.Interests = normalizeInterests(p.Interests)
}

// SplitInterests turns a comma delimited string into trimmed tags, dropping empty entries.
func SplitInterests(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// JoinInterests renders tags back into the form's delimited representation.
func JoinInterests(tags []string) string {
	return strings.Join(tags, ", ")
}

func normalizeInterests(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}

func (p *Payload) addDecodeErr(field, msg string) {
	if p.decodeErrs == nil {
		p.decodeErrs = make(map[string]string)
	}
	p.decodeErrs[field] = msg
}
