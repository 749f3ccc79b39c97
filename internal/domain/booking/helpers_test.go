package booking

func residentialDraft() BookingDraft {
	d := NewDraft()
	d.Kind = KindResidential
	d.Service = &ServiceSelection{
		PropertyType: "semi-detached",
		BedroomsBand: "3",
		Frequency:    FrequencyEightWeekly,
		BasePrice:    2300,
	}
	d.Contact = validContact()
	d.AntiAutomationToken = "token-123"
	return d
}

func validContact() ContactDetails {
	return ContactDetails{
		Name:                   "Mary O'Neil-Smith",
		Email:                  "mary@example.co.uk",
		Mobile:                 "07700 900123",
		AddressLine1:           "12 High Street",
		TownCity:               "Leeds",
		Postcode:               "LS1 4AB",
		PreferredContactMethod: ContactByEmail,
	}
}

func commercialDraft() BookingDraft {
	d := NewDraft()
	d.Kind = KindCommercial
	d.Commercial = &CommercialDetails{
		CompanyName:  "Acme Offices Ltd",
		PropertyType: "office block",
		Services:     CommercialServices{WindowCleaning: true},
	}
	d.Contact = validContact()
	d.AntiAutomationToken = "token-123"
	return d
}
