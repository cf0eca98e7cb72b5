package common

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks v against its `validate` struct tags. The first failing
// field is reported as a ValidationError whose message is looked up in
// messages under "Field.tag", then "Field". Slice elements report the
// slice's field name.
func Validate(v any, messages map[string]string) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	field := fe.StructField()
	if i := strings.IndexByte(field, '['); i >= 0 {
		field = field[:i]
	}
	if msg, ok := messages[field+"."+fe.Tag()]; ok {
		return Invalid(msg)
	}
	if msg, ok := messages[field]; ok {
		return Invalid(msg)
	}
	return Invalid(fe.Error())
}
