package registration

import "strings"

// FieldName identifies one input of the registration form.
type FieldName string

const (
	FieldFullName      FieldName = "fullName"
	FieldEmail         FieldName = "email"
	FieldPhoneNumber   FieldName = "phoneNumber"
	FieldLocation      FieldName = "location"
	FieldDateOfJoining FieldName = "dateOfJoining"
	FieldTimeSlot      FieldName = "timeSlot"
)

var fieldOrder = []FieldName{
	FieldFullName,
	FieldEmail,
	FieldPhoneNumber,
	FieldLocation,
	FieldDateOfJoining,
	FieldTimeSlot,
}

// Fields returns the field names in canonical form order.
func Fields() []FieldName {
	out := make([]FieldName, len(fieldOrder))
	copy(out, fieldOrder)
	return out
}

// ParseFieldName resolves a raw input name into a known field.
func ParseFieldName(raw string) (FieldName, bool) {
	name := FieldName(strings.TrimSpace(raw))
	return name, name.Valid()
}

// Valid reports whether the name is one of the form fields.
func (n FieldName) Valid() bool {
	for _, field := range fieldOrder {
		if field == n {
			return true
		}
	}
	return false
}

func (n FieldName) String() string {
	return string(n)
}

// FormData holds the raw string values of every field.
type FormData struct {
	FullName      string `json:"fullName" yaml:"fullName"`
	Email         string `json:"email" yaml:"email"`
	PhoneNumber   string `json:"phoneNumber" yaml:"phoneNumber"`
	Location      string `json:"location" yaml:"location"`
	DateOfJoining string `json:"dateOfJoining" yaml:"dateOfJoining"`
	TimeSlot      string `json:"timeSlot" yaml:"timeSlot"`
}

// Get returns the value stored for name; unknown names yield "".
func (d FormData) Get(name FieldName) string {
	switch name {
	case FieldFullName:
		return d.FullName
	case FieldEmail:
		return d.Email
	case FieldPhoneNumber:
		return d.PhoneNumber
	case FieldLocation:
		return d.Location
	case FieldDateOfJoining:
		return d.DateOfJoining
	case FieldTimeSlot:
		return d.TimeSlot
	default:
		return ""
	}
}

// Set writes value into the named field. It reports false for unknown names
// and leaves the data untouched.
func (d *FormData) Set(name FieldName, value string) bool {
	switch name {
	case FieldFullName:
		d.FullName = value
	case FieldEmail:
		d.Email = value
	case FieldPhoneNumber:
		d.PhoneNumber = value
	case FieldLocation:
		d.Location = value
	case FieldDateOfJoining:
		d.DateOfJoining = value
	case FieldTimeSlot:
		d.TimeSlot = value
	default:
		return false
	}
	return true
}

// Values flattens the data into a map keyed by field name.
func (d FormData) Values() map[string]string {
	out := make(map[string]string, len(fieldOrder))
	for _, name := range fieldOrder {
		out[string(name)] = d.Get(name)
	}
	return out
}

// IsZero reports whether every field is empty.
func (d FormData) IsZero() bool {
	return d == FormData{}
}

// FieldErrors maps a field to its current error message. A missing key or an
// empty message means the field has no error.
type FieldErrors map[FieldName]string

// Has reports whether name carries a non-empty message.
func (e FieldErrors) Has(name FieldName) bool {
	return e[name] != ""
}

// Fields lists the fields with a non-empty message in canonical order.
func (e FieldErrors) Fields() []FieldName {
	var out []FieldName
	for _, name := range fieldOrder {
		if e.Has(name) {
			out = append(out, name)
		}
	}
	return out
}

// Clone copies the map, dropping empty messages.
func (e FieldErrors) Clone() FieldErrors {
	out := make(FieldErrors, len(e))
	for name, msg := range e {
		if msg == "" {
			continue
		}
		out[name] = msg
	}
	return out
}
