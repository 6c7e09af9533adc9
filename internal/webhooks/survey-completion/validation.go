package surveycompletion

import "survey-subaccounts/internal/common/validation"

// GetLocationRequestSchema describes the body sent to POST /locations/.
func GetLocationRequestSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"name", "country", "timezone", "prospectInfo", "settings"},
		Properties: map[string]validation.Property{
			"name": {
				Type:        "string",
				Description: "Business name of the sub-account",
				MinLength:   validation.IntPtr(1),
			},
			"companyId":  {Type: "string"},
			"address":    {Type: "string"},
			"city":       {Type: "string"},
			"state":      {Type: "string"},
			"postalCode": {Type: "string"},
			"country": {
				Type:      "string",
				MinLength: validation.IntPtr(2),
				MaxLength: validation.IntPtr(2),
			},
			"phone": {
				Type:        "string",
				Description: "E.164 style phone with +1 prefix, or empty",
				Pattern:     `^(\+1.+)?$`,
			},
			"website": {Type: "string"},
			"timezone": {
				Type:      "string",
				MinLength: validation.IntPtr(1),
			},
			"prospectInfo": {
				Type:     "object",
				Required: []string{"firstName", "lastName", "email"},
				Properties: map[string]validation.Property{
					"firstName": {Type: "string", MinLength: validation.IntPtr(1)},
					"lastName":  {Type: "string", MinLength: validation.IntPtr(1)},
					"email":     {Type: "string", MinLength: validation.IntPtr(1)},
				},
			},
			"settings": {
				Type: "object",
				Required: []string{
					"allowDuplicateContact",
					"allowDuplicateOpportunity",
					"allowFacebookNameMerge",
					"disableContactTimezone",
				},
				Properties: map[string]validation.Property{
					"allowDuplicateContact":     {Type: "boolean"},
					"allowDuplicateOpportunity": {Type: "boolean"},
					"allowFacebookNameMerge":    {Type: "boolean"},
					"disableContactTimezone":    {Type: "boolean"},
				},
			},
		},
		AdditionalProperties: false,
	}
}
