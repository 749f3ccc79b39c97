package booking

// fieldMessages maps field → failing tag → message shown next to the input.
var fieldMessages = map[string]map[string]string{
	"bookingKind": {
		"required": "Please choose what you need from us",
		"oneof":    "Please choose what you need from us",
	},
	"propertyType": {"required": "Please select your property type"},
	"bedroomsBand": {"required": "Please select the number of bedrooms"},
	"frequency": {
		"required": "Please choose how often you would like a clean",
		"oneof":    "Please choose how often you would like a clean",
	},
	"name": {
		"required":    "Please enter your full name",
		"min":         "Name must be at least 2 characters",
		"max":         "Name must be 100 characters or fewer",
		"person_name": "Name can only contain letters, spaces, hyphens and apostrophes",
	},
	"email": {
		"required":     "Please enter your email address",
		"simple_email": "Please enter a valid email address",
	},
	"mobile": {
		"required":  "Please enter your mobile number",
		"uk_mobile": "Please enter a valid UK mobile number",
	},
	"landline":     {"uk_phone": "Please enter a valid UK phone number"},
	"addressLine1": {"required": "Please enter the first line of your address", "min": "Address must be at least 5 characters"},
	"townCity":     {"required": "Please enter your town or city"},
	"postcode": {
		"required":    "Please enter your postcode",
		"uk_postcode": "Please enter a valid UK postcode",
	},
	"preferredContactMethod": {"oneof": "Please choose phone, email or text"},
	"antiAutomationToken":    {"required": "Please complete the security check"},

	"customResidential.exactBedrooms":       {"required": "Please enter the number of bedrooms", "min": "Please enter the number of bedrooms"},
	"customResidential.approxWindows":       {"required": "Please estimate the number of windows", "min": "Please estimate the number of windows"},
	"customResidential.propertyStyle":       {"required": "Please describe your property style"},
	"customResidential.frequencyPreference": {"required": "Please choose how often you would like a clean"},
	"customResidential.services":            {"required": "Please select at least one service"},

	"commercial.companyName":  {"required": "Please enter your company or business name"},
	"commercial.propertyType": {"required": "Please describe the property type or size"},
	"commercial.services":     {"required": "Please select at least one service"},

	"generalEnquiry.services":           {"required": "Please select at least one service"},
	"generalEnquiry.requestedFrequency": {"required": "Please tell us how often you need the service"},

	"accessNotes":  {"max": "Access notes must be 500 characters or fewer"},
	"bookingNotes": {"max": "Booking notes must be 500 characters or fewer"},
}

func messageFor(field, tag string) string {
	if byTag, ok := fieldMessages[field]; ok {
		if msg, ok := byTag[tag]; ok {
			return msg
		}
	}
	return "This field is invalid"
}
