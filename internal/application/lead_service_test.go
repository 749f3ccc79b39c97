package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Sparkle-Window-Cleaning/service-booking/internal/domain"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/domain/booking"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/domain/lead"
)

func seedLead(t *testing.T, repo *memoryLeadRepo, reference string, d booking.BookingDraft) *lead.Lead {
	t.Helper()
	d = booking.Sanitize(d)
	l, err := lead.NewLead(reference, d, time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), l))
	return l
}

func newLeadFixture() (*LeadService, *memoryLeadRepo, *recordingPublisher, *fakeNotifier) {
	repo := newMemoryLeadRepo()
	pub := &recordingPublisher{}
	notifier := &fakeNotifier{}
	return NewLeadService(repo, notifier, pub, zap.NewNop()), repo, pub, notifier
}

func TestListLeads_Filters(t *testing.T) {
	svc, repo, _, _ := newLeadFixture()
	seedLead(t, repo, "SWC-1718000000001-0000000A", residentialDraft())
	commercial := residentialDraft()
	commercial.Kind = booking.KindCommercial
	commercial.Commercial = &booking.CommercialDetails{CompanyName: "Acme", PropertyType: "office"}
	seedLead(t, repo, "SWC-1718000000002-0000000B", commercial)

	all, total, err := svc.ListLeads(context.Background(), "", "", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	onlyCommercial, total, err := svc.ListLeads(context.Background(), "new", "commercial", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "SWC-1718000000002-0000000B", onlyCommercial[0].BookingReference)

	_, _, err = svc.ListLeads(context.Background(), "archived", "", 1, 20)
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
	_, _, err = svc.ListLeads(context.Background(), "", "villa", 1, 20)
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
}

func TestGetLead_NotFound(t *testing.T) {
	svc, _, _, _ := newLeadFixture()
	_, err := svc.GetLead(context.Background(), uuid.New())
	assert.Equal(t, domain.CodeNotFound, domain.CodeOf(err))
}

func TestUpdateLeadStatus(t *testing.T) {
	svc, repo, pub, _ := newLeadFixture()
	l := seedLead(t, repo, "SWC-1718000000001-0000000A", residentialDraft())

	got, err := svc.UpdateLeadStatus(context.Background(), l.ID(), UpdateLeadStatusRequest{Status: "contacted", Note: "left voicemail"})
	require.NoError(t, err)
	assert.Equal(t, "contacted", got.Status)
	assert.Equal(t, "left voicemail", got.StatusNote)
	assert.Equal(t, int64(2), got.Version)
	assert.Equal(t, []string{EventLeadStatusChanged}, pub.types())

	_, err = svc.UpdateLeadStatus(context.Background(), l.ID(), UpdateLeadStatusRequest{Status: "booked"})
	assert.Equal(t, domain.CodeInvalidState, domain.CodeOf(err))

	_, err = svc.UpdateLeadStatus(context.Background(), l.ID(), UpdateLeadStatusRequest{Status: "nope"})
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
}

func TestGetLeadStats(t *testing.T) {
	svc, repo, _, _ := newLeadFixture()
	seedLead(t, repo, "SWC-1718000000001-0000000A", residentialDraft())
	l := seedLead(t, repo, "SWC-1718000000002-0000000B", residentialDraft())
	_, err := svc.UpdateLeadStatus(context.Background(), l.ID(), UpdateLeadStatusRequest{Status: "spam"})
	require.NoError(t, err)

	stats, err := svc.GetLeadStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalLeads)
	assert.Equal(t, int64(1), stats.ByStatus["new"])
	assert.Equal(t, int64(1), stats.ByStatus["spam"])
}

func TestNotifyCustomer_SendsOnce(t *testing.T) {
	svc, repo, _, notifier := newLeadFixture()
	l := seedLead(t, repo, "SWC-1718000000001-0000000A", residentialDraft())

	require.NoError(t, svc.NotifyCustomer(context.Background(), l.Reference()))
	require.NoError(t, svc.NotifyCustomer(context.Background(), l.Reference()))

	assert.Equal(t, []string{l.Reference()}, notifier.confirmations)
	stored, err := repo.FindByReference(context.Background(), l.Reference())
	require.NoError(t, err)
	assert.NotNil(t, stored.NotifiedAt())
}

func TestNotifyCustomer_SendFailureLeavesLeadUnnotified(t *testing.T) {
	svc, repo, _, notifier := newLeadFixture()
	notifier.err = errors.New("relay down")
	l := seedLead(t, repo, "SWC-1718000000001-0000000A", residentialDraft())

	assert.Error(t, svc.NotifyCustomer(context.Background(), l.Reference()))
	assert.Nil(t, l.NotifiedAt())
}

func TestNotifyCustomer_UnknownReference(t *testing.T) {
	svc, _, _, _ := newLeadFixture()
	err := svc.NotifyCustomer(context.Background(), "SWC-1718000000001-FFFFFFFF")
	assert.Equal(t, domain.CodeNotFound, domain.CodeOf(err))
}
