package scheduledb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"timetable.transitboard.org/internal/models"
)

func TestTimeInfoCRUD(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	a := &models.TimeAnnotation{Symbol: "d", Description: "Express service"}
	require.NoError(t, client.CreateTimeInfo(ctx, a))
	assert.Equal(t, "d", a.ID, "symbol doubles as id")

	require.NoError(t, client.CreateTimeInfo(ctx, &models.TimeAnnotation{Symbol: "a", Description: "School terms"}))
	infos, err := client.ListTimeInfos(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "a", infos[0].Symbol)

	a.Description = "Express, limited stops"
	require.NoError(t, client.UpdateTimeInfo(ctx, a))
	got, err := client.GetTimeInfo(ctx, "d")
	require.NoError(t, err)
	assert.Equal(t, "Express, limited stops", got.Description)

	require.NoError(t, client.DeleteTimeInfo(ctx, "d"))
	_, err = client.GetTimeInfo(ctx, "d")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, client.UpdateTimeInfo(ctx, a), ErrNotFound)
}

func TestHolidayCRUD(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	h := &models.PublicHoliday{Title: "Christmas Day", Date: mustDate(t, "2024-12-25")}
	require.NoError(t, client.CreateHoliday(ctx, h))
	require.NoError(t, client.CreateHoliday(ctx, &models.PublicHoliday{Title: "New Year", Date: mustDate(t, "2024-01-01")}))

	holidays, err := client.ListHolidays(ctx)
	require.NoError(t, err)
	require.Len(t, holidays, 2)
	assert.Equal(t, "New Year", holidays[0].Title, "holidays are ordered by date")
	assert.Equal(t, mustDate(t, "2024-12-25"), holidays[1].Date)

	h.Description = "Observed"
	require.NoError(t, client.UpdateHoliday(ctx, h))
	got, err := client.GetHoliday(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, "Observed", got.Description)

	require.NoError(t, client.DeleteHoliday(ctx, h.ID))
	assert.ErrorIs(t, client.DeleteHoliday(ctx, h.ID), ErrNotFound)
	assert.Error(t, client.CreateHoliday(ctx, &models.PublicHoliday{Title: "No date"}))
}

func TestAnnouncementCRUD(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	from := mustDate(t, "2024-03-01")
	a := &models.Announcement{Title: "Works", Content: "Buses replace trains", EffectiveFrom: &from}
	require.NoError(t, client.CreateAnnouncement(ctx, a))
	assert.Equal(t, models.UrgencyInfo, a.Urgency)

	got, err := client.GetAnnouncement(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got.EffectiveFrom)
	assert.Equal(t, from, *got.EffectiveFrom)
	assert.Nil(t, got.EffectiveUntil)
	assert.Empty(t, got.RouteID)

	got.Urgency = models.UrgencyUrgent
	require.NoError(t, client.UpdateAnnouncement(ctx, got))

	list, err := client.ListAnnouncements(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.UrgencyUrgent, list[0].Urgency)

	require.NoError(t, client.DeleteAnnouncement(ctx, a.ID))
	_, err = client.GetAnnouncement(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Error(t, client.CreateAnnouncement(ctx, &models.Announcement{Title: "x", Content: "y", Urgency: "panic"}))
}
