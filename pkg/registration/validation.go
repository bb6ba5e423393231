package registration

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf16"
)

// Rule kinds mirror the validation descriptors renderers consume.
const (
	RuleRequired  = "required"
	RuleMinLength = "minLength"
	RulePattern   = "pattern"
	RuleDate      = "date"
	RuleNotPast   = "notPast"
	RuleOneOf     = "oneOf"
)

// DateLayout is the wire format of dateOfJoining (an HTML date input value).
const DateLayout = "2006-01-02"

// Error messages shown to the user.
const (
	MsgFullNameRequired = "Full name is required"
	MsgFullNameTooShort = "Full name must be at least 2 characters"
	MsgFullNameInvalid  = "Full name can only contain letters and spaces"
	MsgEmailRequired    = "Email is required"
	MsgEmailInvalid     = "Please enter a valid email address"
	MsgPhoneRequired    = "Phone number is required"
	MsgPhoneInvalid     = "Please enter a valid phone number"
	MsgLocationRequired = "Location is required"
	MsgLocationTooShort = "Please enter a valid location"
	MsgDateRequired     = "Date of joining is required"
	MsgDateInvalid      = "Please enter a valid date"
	MsgDateInPast       = "Date of joining cannot be in the past"
	MsgTimeSlotRequired = "Time slot is required"
	MsgTimeSlotInvalid  = "Please select a valid time slot"
)

// WhitespaceClass is the body of a regular expression character class listing
// the white space the field patterns and trimming recognise. It is wider than
// RE2's \s: vertical tab, no-break space, the Unicode space separators and the
// byte order mark all count.
const WhitespaceClass = `\t\n\v\f\r \x{a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}`

// Field patterns, shared with the exported contract.
const (
	FullNamePattern = `^[a-zA-Z` + WhitespaceClass + `]+$`
	EmailPattern    = `^[^` + WhitespaceClass + `@]+@[^` + WhitespaceClass + `@]+\.[^` + WhitespaceClass + `@]+$`
	PhonePattern    = `^[+]?[1-9]\d{0,15}$`
)

var (
	fullNamePattern = regexp.MustCompile(FullNamePattern)
	emailPattern    = regexp.MustCompile(EmailPattern)
	phonePattern    = regexp.MustCompile(PhonePattern)
	phoneSeparators = regexp.MustCompile(`[` + WhitespaceClass + `\-()]`)
)

// Rule is one (predicate, message) row of a field's validation table. Params
// carries the descriptor values (length, pattern) renderers and the contract
// exporter surface; the predicate itself stays private.
type Rule struct {
	Kind    string            `json:"kind"`
	Params  map[string]string `json:"params,omitempty"`
	Message string            `json:"message"`
	check   func(value string, now time.Time) bool
}

// Passes evaluates the rule against value at the supplied instant.
func (r Rule) Passes(value string, now time.Time) bool {
	if r.check == nil {
		return true
	}
	return r.check(value, now)
}

var ruleTable = map[FieldName][]Rule{
	FieldFullName: {
		required(MsgFullNameRequired, true),
		minLength(2, MsgFullNameTooShort),
		pattern(fullNamePattern, MsgFullNameInvalid, nil),
	},
	FieldEmail: {
		required(MsgEmailRequired, false),
		pattern(emailPattern, MsgEmailInvalid, nil),
	},
	FieldPhoneNumber: {
		required(MsgPhoneRequired, false),
		pattern(phonePattern, MsgPhoneInvalid, NormalizePhone),
	},
	FieldLocation: {
		required(MsgLocationRequired, true),
		minLength(2, MsgLocationTooShort),
	},
	FieldDateOfJoining: {
		required(MsgDateRequired, false),
		{
			Kind:    RuleDate,
			Params:  map[string]string{"layout": DateLayout},
			Message: MsgDateInvalid,
			check: func(value string, now time.Time) bool {
				_, ok := ParseDate(value, now.Location())
				return ok
			},
		},
		{
			Kind:    RuleNotPast,
			Message: MsgDateInPast,
			check: func(value string, now time.Time) bool {
				date, ok := ParseDate(value, now.Location())
				if !ok {
					return false
				}
				return !date.Before(StartOfDay(now))
			},
		},
	},
	FieldTimeSlot: {
		required(MsgTimeSlotRequired, false),
		{
			Kind:    RuleOneOf,
			Params:  map[string]string{"values": strings.Join(TimeSlotValues(), ",")},
			Message: MsgTimeSlotInvalid,
			check: func(value string, _ time.Time) bool {
				return IsTimeSlot(value)
			},
		},
	},
}

func required(message string, trim bool) Rule {
	params := map[string]string{}
	if trim {
		params["trim"] = "true"
	}
	return Rule{
		Kind:    RuleRequired,
		Params:  params,
		Message: message,
		check: func(value string, _ time.Time) bool {
			if trim {
				value = TrimSpace(value)
			}
			return value != ""
		},
	}
}

func minLength(n int, message string) Rule {
	return Rule{
		Kind:    RuleMinLength,
		Params:  map[string]string{"value": strconv.Itoa(n), "trim": "true", "unit": "utf16"},
		Message: message,
		check: func(value string, _ time.Time) bool {
			return Length(TrimSpace(value)) >= n
		},
	}
}

func pattern(re *regexp.Regexp, message string, normalize func(string) string) Rule {
	params := map[string]string{"pattern": re.String()}
	if normalize != nil {
		params["normalize"] = "strip-separators"
	}
	return Rule{
		Kind:    RulePattern,
		Params:  params,
		Message: message,
		check: func(value string, _ time.Time) bool {
			if normalize != nil {
				value = normalize(value)
			}
			return re.MatchString(value)
		},
	}
}

// Rules returns a copy of the validation table for name.
func Rules(name FieldName) []Rule {
	rules := ruleTable[name]
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// NormalizePhone removes spaces, hyphens and parentheses.
func NormalizePhone(value string) string {
	return phoneSeparators.ReplaceAllString(value, "")
}

// TrimSpace removes leading and trailing white space as listed by
// WhitespaceClass.
func TrimSpace(value string) string {
	return strings.TrimFunc(value, isSpace)
}

func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', 0xa0, 0x1680, 0x2028, 0x2029, 0x202f, 0x205f, 0x3000, 0xfeff:
		return true
	}
	return r >= 0x2000 && r <= 0x200a
}

// Length counts value in UTF-16 code units, the unit input length limits use.
func Length(value string) int {
	return len(utf16.Encode([]rune(value)))
}

// ParseDate parses a YYYY-MM-DD value as local midnight in loc. Surrounding
// white space is not accepted.
func ParseDate(value string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	parsed, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// StartOfDay truncates t to 00:00:00 in its own location.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// Option configures a Validator.
type Option func(*Validator)

// WithClock overrides the wall clock used for date rules.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		if now != nil {
			v.now = now
		}
	}
}

// Validator evaluates the rule table. The zero value is not usable; construct
// with NewValidator.
type Validator struct {
	now func() time.Time
}

// NewValidator constructs a validator reading time.Now by default.
func NewValidator(options ...Option) *Validator {
	v := &Validator{now: time.Now}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(v)
	}
	return v
}

// Now exposes the validator clock.
func (v *Validator) Now() time.Time {
	if v == nil || v.now == nil {
		return time.Now()
	}
	return v.now()
}

// ValidateField returns the message of the first failing rule for name, or ""
// when value is acceptable. Unknown fields always pass.
func (v *Validator) ValidateField(name FieldName, value string) string {
	now := v.Now()
	for _, rule := range ruleTable[name] {
		if !rule.Passes(value, now) {
			return rule.Message
		}
	}
	return ""
}

// ValidateAll validates every field of data and returns only the failures.
func (v *Validator) ValidateAll(data FormData) FieldErrors {
	errs := make(FieldErrors)
	for _, name := range fieldOrder {
		if msg := v.ValidateField(name, data.Get(name)); msg != "" {
			errs[name] = msg
		}
	}
	return errs
}
