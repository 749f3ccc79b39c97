package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Sparkle-Window-Cleaning/service-booking/internal/domain"
	"github.com/Sparkle-Window-Cleaning/service-booking/internal/domain/booking"
	leadDomain "github.com/Sparkle-Window-Cleaning/service-booking/internal/domain/lead"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&LeadModel{}))
	return db
}

func newTestLead(t *testing.T, kind booking.BookingKind, email string) *leadDomain.Lead {
	t.Helper()
	d := booking.NewDraft()
	d.Kind = kind
	if kind == booking.KindResidential {
		d.Service = &booking.ServiceSelection{PropertyType: "terraced", BedroomsBand: "2", Frequency: booking.FrequencyFourWeekly, BasePrice: 1800}
		d.Pricing = booking.PricingResult{SubtotalBeforeDiscount: 1800, GrandTotal: 1800}
	}
	if kind == booking.KindCommercial {
		d.Commercial = &booking.CommercialDetails{CompanyName: "Acme", PropertyType: "office"}
	}
	d.Contact = booking.ContactDetails{Name: "Jo Bloggs", Email: email, Postcode: "LS1 4AB"}

	ref, err := booking.GenerateBookingReference(time.Now())
	require.NoError(t, err)
	l, err := leadDomain.NewLead(ref, d, time.Now())
	require.NoError(t, err)
	return l
}

func TestGormLeadRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewGormLeadRepository(newTestDB(t))

	l := newTestLead(t, booking.KindResidential, "jo@example.com")
	require.NoError(t, repo.Save(ctx, l))

	found, err := repo.FindByID(ctx, l.ID())
	require.NoError(t, err)
	assert.Equal(t, l.Reference(), found.Reference())
	assert.Equal(t, booking.KindResidential, found.Kind())
	assert.Equal(t, leadDomain.StatusNew, found.Status())
	assert.Equal(t, booking.Money(1800), found.GrandTotal())
	assert.Equal(t, "terraced", found.Draft().Service.PropertyType)
	assert.Equal(t, "jo@example.com", found.Contact().Email)

	byRef, err := repo.FindByReference(ctx, l.Reference())
	require.NoError(t, err)
	assert.Equal(t, l.ID(), byRef.ID())
}

func TestGormLeadRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewGormLeadRepository(newTestDB(t))

	_, err := repo.FindByID(ctx, uuid.New())
	assert.Equal(t, domain.CodeNotFound, domain.CodeOf(err))

	_, err = repo.FindByReference(ctx, "SWC-1-00000000")
	assert.Equal(t, domain.CodeNotFound, domain.CodeOf(err))
}

func TestGormLeadRepository_UpdateWithOptimisticLocking(t *testing.T) {
	ctx := context.Background()
	repo := NewGormLeadRepository(newTestDB(t))

	l := newTestLead(t, booking.KindCommercial, "ops@acme.test")
	require.NoError(t, repo.Save(ctx, l))

	first, err := repo.FindByID(ctx, l.ID())
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, l.ID())
	require.NoError(t, err)

	require.NoError(t, first.UpdateStatus(leadDomain.StatusContacted, "left voicemail"))
	first.IncrementVersion()
	require.NoError(t, repo.Update(ctx, first))

	require.NoError(t, second.UpdateStatus(leadDomain.StatusSpam, ""))
	second.IncrementVersion()
	err = repo.Update(ctx, second)
	assert.Equal(t, domain.CodeConflict, domain.CodeOf(err))

	stored, err := repo.FindByID(ctx, l.ID())
	require.NoError(t, err)
	assert.Equal(t, leadDomain.StatusContacted, stored.Status())
	assert.Equal(t, "left voicemail", stored.StatusNote())
	assert.Equal(t, int64(2), stored.Version())
}

func TestGormLeadRepository_ListAndCount(t *testing.T) {
	ctx := context.Background()
	repo := NewGormLeadRepository(newTestDB(t))

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Save(ctx, newTestLead(t, booking.KindResidential, fmt.Sprintf("r%d@example.com", i))))
	}
	commercial := newTestLead(t, booking.KindCommercial, "c@example.com")
	require.NoError(t, commercial.UpdateStatus(leadDomain.StatusSpam, ""))
	require.NoError(t, repo.Save(ctx, commercial))

	all, total, err := repo.List(ctx, leadDomain.ListFilter{}, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, all, 2)

	residential, total, err := repo.List(ctx, leadDomain.ListFilter{Kind: booking.KindResidential}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, residential, 3)

	spam, total, err := repo.List(ctx, leadDomain.ListFilter{Status: leadDomain.StatusSpam}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, commercial.ID(), spam[0].ID())

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts["new"])
	assert.Equal(t, int64(1), counts["spam"])
}

func TestGormLeadRepository_DuplicateReference(t *testing.T) {
	ctx := context.Background()
	repo := NewGormLeadRepository(newTestDB(t))

	l := newTestLead(t, booking.KindResidential, "dup@example.com")
	require.NoError(t, repo.Save(ctx, l))

	clone := leadDomain.ReconstructLead(uuid.New(), l.Reference(), l.Kind(), l.Status(), l.Draft(), "",
		l.GrandTotal(), l.Currency(), l.SubmittedAt(), nil, 1, l.CreatedAt(), l.UpdatedAt())
	err := repo.Save(ctx, clone)
	assert.Equal(t, domain.CodeConflict, domain.CodeOf(err))
}
