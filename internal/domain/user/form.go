package user

import (
	"strconv"
	"strings"
)

// Form is the raw HTML form submission for a user.
type Form struct {
	Name      string `form:"name"`
	Email     string `form:"email"`
	Age       string `form:"age"`
	Mobile    string `form:"mobile"`
	Interests string `form:"interests"`
}

// FormFromUser pre-populates an edit form.
func FormFromUser(u *User) Form {
	return Form{
		Name:      u.Name,
		Email:     u.Email,
		Age:       strconv.FormatInt(u.Age, 10),
		Mobile:    strconv.FormatInt(u.Mobile, 10),
		Interests: JoinInterests(u.Interests),
	}
}

// Payload converts the form into a payload. Interests are split on commas;
// numbers that do not parse are carried as violations for Validate.
func (f Form) Payload() Payload {
	p := Payload{
		Name:      f.Name,
		Email:     f.Email,
		Interests: SplitInterests(f.Interests),
	}
	p.Age = parseFormInt(&p, "age", f.Age)
	p.Mobile = parseFormInt(&p, "mobile", f.Mobile)
	return p
}

func parseFormInt(p *Payload, field, raw string) *int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return invalidInt(p, field)
	}
	return &v
}
