package models

// ContactField is one of the fixed set of fields the extractor is allowed
// to produce
type ContactField string

const (
	FieldFirstName     ContactField = "first_name"
	FieldLastName      ContactField = "last_name"
	FieldEmail         ContactField = "email"
	FieldPhoneNumber   ContactField = "phone_number"
	FieldCity          ContactField = "city"
	FieldState         ContactField = "state"
	FieldCountry       ContactField = "country"
	FieldPostalCode    ContactField = "postal_code"
	FieldJobTitle      ContactField = "job_title"
	FieldCompanyName   ContactField = "company_name"
	FieldDateOfBirth   ContactField = "date_of_birth"
	FieldMaritalStatus ContactField = "marital_status"
	FieldTimeZone      ContactField = "time_zone"
)

// FieldCategory groups contact fields for the selection UI
type FieldCategory string

const (
	CategoryIdentity     FieldCategory = "identity"
	CategoryContactInfo  FieldCategory = "contact_information"
	CategoryLocation     FieldCategory = "location"
	CategoryProfession   FieldCategory = "profession"
	CategoryPersonalInfo FieldCategory = "personal_information"
)

// CategoryOrder is the canonical display order of field categories
var CategoryOrder = []FieldCategory{
	CategoryIdentity,
	CategoryContactInfo,
	CategoryLocation,
	CategoryProfession,
	CategoryPersonalInfo,
}

// CategoryFields maps each category to its fields, in display order
var CategoryFields = map[FieldCategory][]ContactField{
	CategoryIdentity:     {FieldFirstName, FieldLastName},
	CategoryContactInfo:  {FieldEmail, FieldPhoneNumber},
	CategoryLocation:     {FieldCity, FieldState, FieldCountry, FieldPostalCode},
	CategoryProfession:   {FieldJobTitle, FieldCompanyName},
	CategoryPersonalInfo: {FieldDateOfBirth, FieldMaritalStatus, FieldTimeZone},
}

// HubSpotProperties maps internal field names to HubSpot contact property keys
var HubSpotProperties = map[ContactField]string{
	FieldFirstName:     "firstname",
	FieldLastName:      "lastname",
	FieldEmail:         "email",
	FieldPhoneNumber:   "phone",
	FieldCity:          "city",
	FieldState:         "state",
	FieldCountry:       "country",
	FieldPostalCode:    "zip",
	FieldJobTitle:      "jobtitle",
	FieldCompanyName:   "company",
	FieldDateOfBirth:   "date_of_birth",
	FieldMaritalStatus: "marital_status",
	FieldTimeZone:      "hs_timezone",
}

// AllContactFields returns the full field vocabulary in category order
func AllContactFields() []ContactField {
	var fields []ContactField
	for _, category := range CategoryOrder {
		fields = append(fields, CategoryFields[category]...)
	}
	return fields
}

// IsContactField reports whether name is part of the field vocabulary
func IsContactField(name string) bool {
	_, ok := HubSpotProperties[ContactField(name)]
	return ok
}
