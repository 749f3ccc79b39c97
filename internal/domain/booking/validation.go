package booking

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	personNameRegex = regexp.MustCompile(`^[\p{L}\s'’-]+$`)
	emailRegex      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	ukMobileRegex   = regexp.MustCompile(`^(?:\+44\s?7|07)\d{3}\s?\d{3}\s?\d{3}$`)
	ukPhoneRegex    = regexp.MustCompile(`^(?:\+44\s?|0)\d{2,4}\s?\d{3,4}\s?\d{3,4}$`)
	ukPostcodeRegex = regexp.MustCompile(`(?i)^[A-Z]{1,2}\d[A-Z\d]?\s?\d[A-Z]{2}$`)
)

// ValidationResult is the outcome of validating a step or the whole form.
type ValidationResult struct {
	IsValid bool              `json:"is_valid"`
	Errors  map[string]string `json:"errors"`
}

func newResult() ValidationResult {
	return ValidationResult{IsValid: true, Errors: map[string]string{}}
}

func (r *ValidationResult) add(field, msg string) {
	if _, exists := r.Errors[field]; exists {
		return
	}
	r.Errors[field] = msg
	r.IsValid = false
}

// FormValidator applies the per-step and per-kind rules.
type FormValidator struct {
	v *validator.Validate
}

// NewFormValidator creates a FormValidator with the UK contact rules registered.
func NewFormValidator() *FormValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("field")
	})

	mustRegister(v, "person_name", personNameRegex)
	mustRegister(v, "simple_email", emailRegex)
	mustRegister(v, "uk_mobile", ukMobileRegex)
	mustRegister(v, "uk_phone", ukPhoneRegex)
	mustRegister(v, "uk_postcode", ukPostcodeRegex)

	return &FormValidator{v: v}
}

func mustRegister(v *validator.Validate, tag string, re *regexp.Regexp) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		return re.MatchString(value)
	})
	if err != nil {
		panic(err)
	}
}

// ValidateStep validates the inputs belonging to one step.
func (fv *FormValidator) ValidateStep(step int, draft BookingDraft) ValidationResult {
	result := newResult()
	switch step {
	case StepService:
		fv.validateService(&result, draft)
	case StepContact:
		fv.validateContact(&result, draft)
		fv.validateKindDetails(&result, draft)
	}
	return result
}

// ValidateForSubmission validates everything needed before the draft can be sent.
func (fv *FormValidator) ValidateForSubmission(draft BookingDraft) ValidationResult {
	result := newResult()
	fv.validateService(&result, draft)
	fv.validateContact(&result, draft)
	fv.validateKindDetails(&result, draft)
	fv.check(&result, notesInput{
		AccessNotes:  draft.Notes.AccessNotes,
		BookingNotes: draft.Notes.BookingNotes,
	})
	return result
}

type kindInput struct {
	Kind string `field:"bookingKind" validate:"required,oneof=residential custom_quote commercial general_enquiry"`
}

type residentialServiceInput struct {
	PropertyType string `field:"propertyType" validate:"required"`
	BedroomsBand string `field:"bedroomsBand" validate:"required"`
	Frequency    string `field:"frequency" validate:"required,oneof=4_weekly 8_weekly 12_weekly adhoc"`
}

type contactInput struct {
	Name                   string `field:"name" validate:"required,min=2,max=100,person_name"`
	Email                  string `field:"email" validate:"required,simple_email"`
	Mobile                 string `field:"mobile" validate:"required,uk_mobile"`
	Landline               string `field:"landline" validate:"omitempty,uk_phone"`
	AddressLine1           string `field:"addressLine1" validate:"required,min=5"`
	TownCity               string `field:"townCity" validate:"required"`
	Postcode               string `field:"postcode" validate:"required,uk_postcode"`
	PreferredContactMethod string `field:"preferredContactMethod" validate:"omitempty,oneof=phone email text"`
	AntiAutomationToken    string `field:"antiAutomationToken" validate:"required"`
}

type customQuoteInput struct {
	ExactBedrooms       int    `field:"customResidential.exactBedrooms" validate:"required,min=1"`
	ApproxWindows       int    `field:"customResidential.approxWindows" validate:"required,min=1"`
	PropertyStyle       string `field:"customResidential.propertyStyle" validate:"required"`
	FrequencyPreference string `field:"customResidential.frequencyPreference" validate:"required"`
	HasService          bool   `field:"customResidential.services" validate:"required"`
}

type commercialInput struct {
	CompanyName        string `field:"commercial.companyName" validate:"required"`
	PropertyDescriptor string `field:"commercial.propertyType" validate:"required"`
	HasService         bool   `field:"commercial.services" validate:"required"`
}

type generalEnquiryInput struct {
	HasService         bool   `field:"generalEnquiry.services" validate:"required"`
	RequestedFrequency string `field:"generalEnquiry.requestedFrequency" validate:"required"`
}

type notesInput struct {
	AccessNotes  string `field:"accessNotes" validate:"max=500"`
	BookingNotes string `field:"bookingNotes" validate:"max=500"`
}

func (fv *FormValidator) validateService(result *ValidationResult, draft BookingDraft) {
	fv.check(result, kindInput{Kind: string(draft.Kind)})
	if !draft.IsStandardResidential() {
		return
	}
	in := residentialServiceInput{}
	if draft.Service != nil {
		in.PropertyType = strings.TrimSpace(draft.Service.PropertyType)
		in.BedroomsBand = strings.TrimSpace(draft.Service.BedroomsBand)
		in.Frequency = string(draft.Service.Frequency)
	}
	fv.check(result, in)
}

func (fv *FormValidator) validateContact(result *ValidationResult, draft BookingDraft) {
	c := draft.Contact
	fv.check(result, contactInput{
		Name:                   strings.TrimSpace(c.Name),
		Email:                  strings.TrimSpace(c.Email),
		Mobile:                 strings.TrimSpace(c.Mobile),
		Landline:               strings.TrimSpace(c.Landline),
		AddressLine1:           strings.TrimSpace(c.AddressLine1),
		TownCity:               strings.TrimSpace(c.TownCity),
		Postcode:               strings.TrimSpace(c.Postcode),
		PreferredContactMethod: string(c.PreferredContactMethod),
		AntiAutomationToken:    strings.TrimSpace(draft.AntiAutomationToken),
	})
}

func (fv *FormValidator) validateKindDetails(result *ValidationResult, draft BookingDraft) {
	switch draft.EffectiveKind() {
	case KindCustomQuote:
		d := CustomResidentialDetails{}
		if draft.CustomResidential != nil {
			d = *draft.CustomResidential
		}
		fv.check(result, customQuoteInput{
			ExactBedrooms:       d.ExactBedrooms,
			ApproxWindows:       d.ApproxWindows,
			PropertyStyle:       strings.TrimSpace(d.PropertyStyle),
			FrequencyPreference: strings.TrimSpace(d.FrequencyPreference),
			HasService:          d.Services.Any(),
		})
	case KindCommercial:
		d := CommercialDetails{}
		if draft.Commercial != nil {
			d = *draft.Commercial
		}
		descriptor := strings.TrimSpace(d.PropertyType)
		if descriptor == "" {
			descriptor = strings.TrimSpace(d.PropertySize)
		}
		fv.check(result, commercialInput{
			CompanyName:        strings.TrimSpace(d.CompanyName),
			PropertyDescriptor: descriptor,
			HasService:         d.Services.Any(),
		})
	case KindGeneralEnquiry:
		d := GeneralEnquiryDetails{}
		if draft.GeneralEnquiry != nil {
			d = *draft.GeneralEnquiry
		}
		fv.check(result, generalEnquiryInput{
			HasService:         d.Services.Any(),
			RequestedFrequency: strings.TrimSpace(d.RequestedFrequency),
		})
	}
}

// check runs the struct rules and records the first failure for each field.
func (fv *FormValidator) check(result *ValidationResult, in any) {
	err := fv.v.Struct(in)
	if err == nil {
		return
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		result.add("form", "Please check the form and try again")
		return
	}
	for _, fe := range errs {
		result.add(fe.Field(), messageFor(fe.Field(), fe.Tag()))
	}
}
