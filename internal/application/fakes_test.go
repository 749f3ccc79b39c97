package application

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Sparkle-Window-Cleaning/service-booking/internal/captcha"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/domain"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/domain/booking"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/domain/lead"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/kafka"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/session"
)

type memoryLeadRepo struct {
	mu      sync.Mutex
	leads   map[uuid.UUID]*lead.Lead
	order   []uuid.UUID
	saveErr error
}

func newMemoryLeadRepo() *memoryLeadRepo {
	return &memoryLeadRepo{leads: map[uuid.UUID]*lead.Lead{}}
}

func (r *memoryLeadRepo) FindByID(_ context.Context, id uuid.UUID) (*lead.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.leads[id]
	if !ok {
		return nil, domain.NewNotFoundError("lead", id.String())
	}
	return l, nil
}

func (r *memoryLeadRepo) FindByReference(_ context.Context, reference string) (*lead.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.leads {
		if l.Reference() == reference {
			return l, nil
		}
	}
	return nil, domain.NewNotFoundError("lead", reference)
}

func (r *memoryLeadRepo) List(_ context.Context, filter lead.ListFilter, page, limit int) ([]*lead.Lead, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*lead.Lead
	for _, id := range r.order {
		l := r.leads[id]
		if filter.Status != "" && l.Status() != filter.Status {
			continue
		}
		if filter.Kind != "" && l.Kind() != filter.Kind {
			continue
		}
		out = append(out, l)
	}
	total := int64(len(out))
	start := (page - 1) * limit
	if start >= len(out) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func (r *memoryLeadRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int64{}
	for _, l := range r.leads {
		counts[l.Status().String()]++
	}
	return counts, nil
}

func (r *memoryLeadRepo) Save(_ context.Context, l *lead.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.leads[l.ID()] = l
	r.order = append(r.order, l.ID())
	return nil
}

func (r *memoryLeadRepo) Update(_ context.Context, l *lead.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.leads[l.ID()]; !ok {
		return domain.NewNotFoundError("lead", l.ID().String())
	}
	r.leads[l.ID()] = l
	return nil
}

type publishedEvent struct {
	topic string
	event kafka.CloudEvent
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic string, event kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{topic: topic, event: event})
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.event.Type
	}
	sort.Strings(out)
	return out
}

type fakeNotifier struct {
	mu            sync.Mutex
	notifications []string
	confirmations []string
	err           error
}

func (n *fakeNotifier) SendLeadNotification(_ context.Context, l *lead.Lead) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return "", n.err
	}
	n.notifications = append(n.notifications, l.Reference())
	return "msg-" + l.Reference(), nil
}

func (n *fakeNotifier) SendCustomerConfirmation(_ context.Context, l *lead.Lead) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return "", n.err
	}
	n.confirmations = append(n.confirmations, l.Reference())
	return "msg-" + l.Reference(), nil
}

type stubVerifier struct {
	err       error
	lastToken string
}

func (v *stubVerifier) Verify(_ context.Context, token, _ string) error {
	v.lastToken = token
	return v.err
}

var errVerifierDown = errors.New("siteverify unreachable")

var _ TokenVerifier = captcha.PresenceVerifier{}

type memoryDraftStore struct {
	saved map[string]session.SavedDraft
}

func newMemoryDraftStore() *memoryDraftStore {
	return &memoryDraftStore{saved: map[string]session.SavedDraft{}}
}

func (m *memoryDraftStore) Save(_ context.Context, key string, saved session.SavedDraft) error {
	m.saved[key] = saved
	return nil
}

func (m *memoryDraftStore) Load(_ context.Context, key string) (*session.SavedDraft, error) {
	s, ok := m.saved[key]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memoryDraftStore) Clear(_ context.Context, key string) error {
	delete(m.saved, key)
	return nil
}

func residentialDraft() booking.BookingDraft {
	d := booking.NewDraft()
	d.Kind = booking.KindResidential
	d.Service = &booking.ServiceSelection{
		PropertyType: "semi-detached",
		BedroomsBand: "3",
		Frequency:    booking.FrequencyFourWeekly,
		BasePrice:    2300,
	}
	d.Features.HasConservatory = true
	d.AddOns.GutterClearing = booking.PricedAddOn{Selected: true, Price: 4000}
	d.Contact = booking.ContactDetails{
		Name:                   "Jane Doe",
		Email:                  " Jane@Example.com ",
		Mobile:                 "07700 900123",
		AddressLine1:           "4 Mill Road",
		TownCity:               "Leeds",
		Postcode:               "ls2 9jt",
		PreferredContactMethod: booking.ContactByEmail,
	}
	d.AntiAutomationToken = "browser-token"
	return d
}
