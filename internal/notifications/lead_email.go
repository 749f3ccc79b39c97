package notifications

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/Sparkle-Window-Cleaning/service-booking/internal/domain/booking"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/domain/lead"
)

const leadNotificationTemplate = `<!DOCTYPE html>
<html>
<body>
  <h3>New {{.KindLabel}}</h3>
  <p><strong>Reference:</strong> {{.Reference}}</p>
  <p><strong>Submitted:</strong> {{.SubmittedAt}}</p>
  <h4>Contact</h4>
  <p><strong>Name:</strong> {{.Contact.Name}}</p>
  <p><strong>Email:</strong> {{.Contact.Email}}</p>
  <p><strong>Mobile:</strong> {{.Contact.Mobile}}</p>
  {{if .Contact.Landline}}<p><strong>Landline:</strong> {{.Contact.Landline}}</p>{{end}}
  <p><strong>Address:</strong> {{.Address}}</p>
  <p><strong>Preferred contact:</strong> {{.ContactMethod}}{{if .Contact.PreferredContactTime}} ({{.Contact.PreferredContactTime}}){{end}}</p>
  {{if .Details}}<h4>Details</h4>
  <ul>{{range .Details}}
    <li><strong>{{.Label}}:</strong> {{.Value}}</li>{{end}}
  </ul>{{end}}
  {{if .PriceLines}}<h4>Price</h4>
  <ul>{{range .PriceLines}}
    <li>{{.Label}}: {{.Value}}</li>{{end}}
  </ul>{{end}}
  {{if .Notes.AccessNotes}}<p><strong>Access notes:</strong><br/>{{.Notes.AccessNotes}}</p>{{end}}
  {{if .Notes.BookingNotes}}<p><strong>Booking notes:</strong><br/>{{.Notes.BookingNotes}}</p>{{end}}
</body>
</html>`

const customerConfirmationTemplate = `<!DOCTYPE html>
<html>
<body>
  <p>Hi {{.Contact.Name}},</p>
  <p>Thanks for getting in touch. We have received your {{.KindLower}} and will be in contact shortly.</p>
  <p><strong>Your reference: {{.Reference}}</strong></p>
  {{if .Details}}<ul>{{range .Details}}
    <li>{{.Label}}: {{.Value}}</li>{{end}}
  </ul>{{end}}
  {{if .IsPriced}}<p>Estimated price per clean: <strong>{{.GrandTotal}}</strong></p>{{end}}
  <p>Sparkle Window Cleaning</p>
</body>
</html>`

var (
	leadNotificationTmpl     = template.Must(template.New("lead_notification").Parse(leadNotificationTemplate))
	customerConfirmationTmpl = template.Must(template.New("customer_confirmation").Parse(customerConfirmationTemplate))
)

type line struct {
	Label string
	Value string
}

type leadView struct {
	Reference     string
	KindLabel     string
	KindLower     string
	SubmittedAt   string
	Contact       booking.ContactDetails
	Address       string
	ContactMethod string
	Details       []line
	PriceLines    []line
	IsPriced      bool
	GrandTotal    string
	Notes         booking.Notes
}

// SendLeadNotification emails the business about a new lead.
func (c *EmailClient) SendLeadNotification(ctx context.Context, l *lead.Lead) (string, error) {
	if c == nil {
		return "", ErrNotConfigured
	}
	if c.businessEmail == "" {
		return "", errors.New("business email is not configured")
	}
	view := newLeadView(l)
	body, err := render(leadNotificationTmpl, view)
	if err != nil {
		return "", err
	}
	subject := fmt.Sprintf("New %s - %s (%s)", strings.ToLower(view.KindLabel), view.Contact.Name, view.Reference)
	return c.sendHTML(ctx, c.businessEmail, "", subject, body, view.Contact.Email)
}

// SendCustomerConfirmation emails the customer their reference.
func (c *EmailClient) SendCustomerConfirmation(ctx context.Context, l *lead.Lead) (string, error) {
	if c == nil {
		return "", ErrNotConfigured
	}
	view := newLeadView(l)
	body, err := render(customerConfirmationTmpl, view)
	if err != nil {
		return "", err
	}
	subject := fmt.Sprintf("We've received your request - %s", view.Reference)
	return c.sendHTML(ctx, view.Contact.Email, view.Contact.Name, subject, body, c.businessEmail)
}

func render(tmpl *template.Template, view leadView) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

func newLeadView(l *lead.Lead) leadView {
	d := l.Draft()
	c := d.Contact

	view := leadView{
		Reference:     l.Reference(),
		KindLabel:     l.Kind().Label(),
		KindLower:     strings.ToLower(l.Kind().Label()),
		SubmittedAt:   l.SubmittedAt().Format("02 Jan 2006 15:04 MST"),
		Contact:       c,
		Address:       joinNonEmpty(", ", c.AddressLine1, c.AddressLine2, c.TownCity, c.County, c.Postcode),
		ContactMethod: string(c.PreferredContactMethod),
		Notes:         d.Notes,
		GrandTotal:    l.GrandTotal().String(),
	}

	switch l.Kind() {
	case booking.KindResidential:
		view.IsPriced = true
		view.Details = residentialDetails(d)
		view.PriceLines = priceLines(d.Pricing)
	case booking.KindCustomQuote:
		view.Details = customDetails(d)
	case booking.KindCommercial:
		view.Details = commercialDetails(d)
	case booking.KindGeneralEnquiry:
		view.Details = enquiryDetails(d)
	}
	return view
}

func residentialDetails(d booking.BookingDraft) []line {
	var out []line
	if s := d.Service; s != nil {
		out = append(out,
			line{"Property", s.PropertyType},
			line{"Bedrooms", s.BedroomsBand},
			line{"Frequency", s.Frequency.Label()},
		)
	}
	if d.Features.HasConservatory {
		out = append(out, line{"Conservatory", "Yes"})
	}
	if d.Features.HasExtension {
		out = append(out, line{"Extension", "Yes"})
	}
	var extras []string
	if d.AddOns.GutterClearing.Selected {
		extras = append(extras, "Gutter clearing")
	}
	if d.AddOns.FasciaSoffitGutter.Selected {
		extras = append(extras, "Fascia, soffit and gutter clean")
	}
	if d.AddOns.ConservatoryRoof.Selected {
		extras = append(extras, "Conservatory roof (quote)")
	}
	if len(extras) > 0 {
		out = append(out, line{"Add-ons", strings.Join(extras, ", ")})
	}
	return out
}

func customDetails(d booking.BookingDraft) []line {
	out := []line{}
	if s := d.Service; s != nil && s.PropertyType != "" {
		out = append(out, line{"Property", s.PropertyType})
	}
	if c := d.CustomResidential; c != nil {
		out = append(out,
			line{"Bedrooms", strconv.Itoa(c.ExactBedrooms)},
			line{"Approx. windows", strconv.Itoa(c.ApproxWindows)},
			line{"Property style", c.PropertyStyle},
			line{"Frequency", c.FrequencyPreference},
			line{"Services", interestLabels(c.Services)},
		)
		if c.AdditionalInfo != "" {
			out = append(out, line{"Additional info", c.AdditionalInfo})
		}
	}
	return out
}

func commercialDetails(d booking.BookingDraft) []line {
	c := d.Commercial
	if c == nil {
		return nil
	}
	out := []line{{"Company", c.CompanyName}}
	if c.ContactRole != "" {
		out = append(out, line{"Role", c.ContactRole})
	}
	out = append(out, line{"Property", joinNonEmpty(", ", c.PropertyType, c.PropertySize)})
	out = append(out, line{"Services", commercialLabels(c.Services)})
	if c.Frequency != "" {
		out = append(out, line{"Frequency", c.Frequency})
	}
	if c.Requirements != "" {
		out = append(out, line{"Requirements", c.Requirements})
	}
	return out
}

func enquiryDetails(d booking.BookingDraft) []line {
	g := d.GeneralEnquiry
	if g == nil {
		return nil
	}
	out := []line{
		{"Services", interestLabels(g.Services)},
		{"Frequency", g.RequestedFrequency},
	}
	if g.PropertyType != "" {
		out = append(out, line{"Property", g.PropertyType})
	}
	if g.Message != "" {
		out = append(out, line{"Message", g.Message})
	}
	return out
}

func priceLines(p booking.PricingResult) []line {
	out := []line{}
	if p.ConservatorySurcharge > 0 {
		out = append(out, line{"Conservatory surcharge", p.ConservatorySurcharge.String()})
	}
	if p.ExtensionSurcharge > 0 {
		out = append(out, line{"Extension surcharge", p.ExtensionSurcharge.String()})
	}
	out = append(out, line{"Subtotal", p.SubtotalBeforeDiscount.String()})
	if p.Discount > 0 {
		out = append(out, line{"Bundle discount", "-" + p.Discount.String()})
	}
	return append(out, line{"Total", p.GrandTotal.String()})
}

func interestLabels(s booking.ServiceInterests) string {
	return labels([]labelled{
		{s.WindowCleaning, "Window cleaning"},
		{s.GutterClearing, "Gutter clearing"},
		{s.FasciaSoffitGutter, "Fascia, soffit and gutter"},
		{s.ConservatoryCleaning, "Conservatory cleaning"},
		{s.SolarPanelCleaning, "Solar panel cleaning"},
		{s.Other, "Other"},
	})
}

func commercialLabels(s booking.CommercialServices) string {
	return labels([]labelled{
		{s.WindowCleaning, "Window cleaning"},
		{s.GutterClearing, "Gutter clearing"},
		{s.CladdingCleaning, "Cladding cleaning"},
		{s.SignageCleaning, "Signage cleaning"},
		{s.SolarPanelCleaning, "Solar panel cleaning"},
		{s.Other, "Other"},
	})
}

type labelled struct {
	on    bool
	label string
}

func labels(items []labelled) string {
	var out []string
	for _, it := range items {
		if it.on {
			out = append(out, it.label)
		}
	}
	if len(out) == 0 {
		return "None selected"
	}
	return strings.Join(out, ", ")
}

func joinNonEmpty(sep string, parts ...string) string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
