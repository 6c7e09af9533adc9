package surveycompletion

import (
	"fmt"
	"strings"
)

const (
	defaultFirstName = "Contact"
	defaultLastName  = "Person"
)

// Candidate keys per canonical field, in priority order.
var (
	BusinessNameFields = []string{
		"business name",
		"business_name",
		"businessName",
		"company",
		"companyName",
		"Provider Name",
		"Legal Company Name",
	}
	FirstNameFields  = []string{"first_name", "firstName", "fname", "Patient First Name"}
	LastNameFields   = []string{"last_name", "lastName", "lname", "Patient Last Name"}
	EmailFields      = []string{"email", "emailAddress", "Email", "Patient Email"}
	PhoneFields      = []string{"phone", "phoneNumber", "mobile", "Phone", "Patient Phone"}
	PostalCodeFields = []string{"zip_code", "postal_code", "postalCode"}

	combinedNameField = "name"
	honorifics        = []string{"Dr. ", "Mr. ", "Ms. ", "Mrs. "}
)

// ValidationFailure lists the required canonical fields a payload did not supply.
type ValidationFailure struct {
	Missing         []string
	CheckedFields   []string
	AvailableFields []string
}

func (f *ValidationFailure) Error() string {
	parts := make([]string, 0, len(f.Missing))
	for _, field := range f.Missing {
		switch field {
		case "businessName":
			parts = append(parts, fmt.Sprintf("Missing business name. Checked fields: [%s]", strings.Join(f.CheckedFields, ", ")))
		case "email":
			parts = append(parts, fmt.Sprintf("Missing email. Available fields: [%s]", strings.Join(f.AvailableFields, ", ")))
		default:
			parts = append(parts, fmt.Sprintf("Missing %s", field))
		}
	}
	return strings.Join(parts, "; ")
}

// Normalize maps a webhook payload onto a CanonicalRecord. It fails only when
// the business name or email cannot be found; missing names get defaults.
func Normalize(payload Payload) (*CanonicalRecord, error) {
	record := &CanonicalRecord{Matches: make(map[string]string)}

	record.BusinessName = firstMatch(payload, BusinessNameFields, "businessName", record.Matches)
	record.FirstName = firstMatch(payload, FirstNameFields, "firstName", record.Matches)
	record.LastName = firstMatch(payload, LastNameFields, "lastName", record.Matches)

	if record.FirstName == "" && record.LastName == "" {
		if full, ok := payload.Lookup(combinedNameField); ok && full != "" {
			record.FirstName, record.LastName = ParseCombinedName(full)
			record.Matches["firstName"] = combinedNameField
			record.Matches["lastName"] = combinedNameField
		}
	}

	record.Email = firstMatch(payload, EmailFields, "email", record.Matches)
	record.Phone = CleanPhone(firstMatch(payload, PhoneFields, "phone", record.Matches))

	var missing []string
	if record.BusinessName == "" {
		missing = append(missing, "businessName")
	}
	if record.Email == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return nil, &ValidationFailure{
			Missing:         missing,
			CheckedFields:   BusinessNameFields,
			AvailableFields: payload.Keys(),
		}
	}

	if record.FirstName == "" {
		record.FirstName = defaultFirstName
	}
	if record.LastName == "" {
		record.LastName = defaultLastName
	}

	record.Address, _ = payload.Lookup("address")
	record.City, _ = payload.Lookup("city")
	record.State, _ = payload.Lookup("state")
	record.PostalCode = firstMatch(payload, PostalCodeFields, "postalCode", record.Matches)
	record.Website, _ = payload.Lookup("website")

	return record, nil
}

// firstMatch returns the first non-empty value among candidates and records
// which key supplied it.
func firstMatch(payload Payload, candidates []string, field string, matches map[string]string) string {
	for _, key := range candidates {
		if value, ok := payload.Lookup(key); ok && value != "" {
			if matches != nil {
				matches[field] = key
			}
			return value
		}
	}
	return ""
}

// ParseCombinedName strips leading honorifics and splits on the first space.
// The last name is empty for single-word names.
func ParseCombinedName(full string) (first, last string) {
	name := strings.TrimSpace(full)
	for stripped := true; stripped; {
		stripped = false
		for _, prefix := range honorifics {
			if strings.HasPrefix(name, prefix) {
				name = strings.TrimSpace(strings.TrimPrefix(name, prefix))
				stripped = true
			}
		}
	}
	if name == "" {
		return "", ""
	}

	parts := strings.SplitN(name, " ", 2)
	first = parts[0]
	if len(parts) > 1 {
		last = strings.TrimSpace(parts[1])
	}
	return first, last
}

var phoneReplacer = strings.NewReplacer("-", "", "(", "", ")", "", " ", "")

// CleanPhone drops a leading +1 and strips hyphens, parentheses and spaces.
func CleanPhone(phone string) string {
	phone = strings.TrimSpace(phone)
	phone = strings.TrimPrefix(phone, "+1")
	return phoneReplacer.Replace(phone)
}

// FormatPhone renders a cleaned phone number for the CRM.
func FormatPhone(cleaned string) string {
	if cleaned == "" {
		return ""
	}
	return "+1" + cleaned
}
