package service

import (
	"GlucoTrack/internal/model"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func newGlucoseService(records *mockGlucoseRepo, users *mockUserRepo, alerts *mockAlertRepo) *GlucoseService {
	return NewGlucoseService(records, users, alerts, zap.NewNop().Sugar())
}

func TestGlucoseService_Create(t *testing.T) {
	ctx := context.Background()
	user := &model.User{ID: 7, TargetGlucoseMin: 70, TargetGlucoseMax: 180, Active: true}

	t.Run("duplicate date and period rejected", func(t *testing.T) {
		records := new(mockGlucoseRepo)
		records.On("FindByDatePeriod", mock.Anything, int64(7), "2026-08-01", model.PeriodFasting).
			Return(&model.GlucoseRecord{ID: 1}, nil).Once()

		svc := newGlucoseService(records, new(mockUserRepo), new(mockAlertRepo))
		rec, err := svc.Create(ctx, 7, CreateGlucoseRequest{Date: "2026-08-01", Period: model.PeriodFasting, Value: 100})
		assert.Nil(t, rec)
		assert.ErrorIs(t, err, ErrDuplicateRecord)
		records.AssertExpectations(t)
	})

	t.Run("in-range value creates no alert", func(t *testing.T) {
		records := new(mockGlucoseRepo)
		users := new(mockUserRepo)
		alerts := new(mockAlertRepo)
		records.On("FindByDatePeriod", mock.Anything, int64(7), "2026-08-01", model.PeriodFasting).
			Return((*model.GlucoseRecord)(nil), nil).Once()
		records.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
		users.On("GetUserByID", mock.Anything, int64(7)).Return(user, nil).Once()

		svc := newGlucoseService(records, users, alerts)
		rec, err := svc.Create(ctx, 7, CreateGlucoseRequest{Date: "2026-08-01", Period: model.PeriodFasting, Value: 120})
		assert.NoError(t, err)
		assert.Equal(t, 120, rec.Value)
		alerts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("low value raises hypoglycemia alert", func(t *testing.T) {
		records := new(mockGlucoseRepo)
		users := new(mockUserRepo)
		alerts := new(mockAlertRepo)
		records.On("FindByDatePeriod", mock.Anything, int64(7), "2026-08-01", model.PeriodFasting).
			Return((*model.GlucoseRecord)(nil), nil).Once()
		records.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
		users.On("GetUserByID", mock.Anything, int64(7)).Return(user, nil).Once()
		alerts.On("Create", mock.Anything, mock.MatchedBy(func(a *model.Alert) bool {
			return a.Type == model.AlertLowGlucose &&
				a.Title == "Hypoglycemia Detected" &&
				a.GlucoseValue != nil && *a.GlucoseValue == 55
		})).Return(nil).Once()

		svc := newGlucoseService(records, users, alerts)
		_, err := svc.Create(ctx, 7, CreateGlucoseRequest{Date: "2026-08-01", Period: model.PeriodFasting, Value: 55})
		assert.NoError(t, err)
		alerts.AssertExpectations(t)
	})

	t.Run("high value raises hyperglycemia alert", func(t *testing.T) {
		records := new(mockGlucoseRepo)
		users := new(mockUserRepo)
		alerts := new(mockAlertRepo)
		records.On("FindByDatePeriod", mock.Anything, int64(7), "2026-08-01", model.PeriodBedtime).
			Return((*model.GlucoseRecord)(nil), nil).Once()
		records.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
		users.On("GetUserByID", mock.Anything, int64(7)).Return(user, nil).Once()
		alerts.On("Create", mock.Anything, mock.MatchedBy(func(a *model.Alert) bool {
			return a.Type == model.AlertHighGlucose && a.Title == "Hyperglycemia Detected"
		})).Return(nil).Once()

		svc := newGlucoseService(records, users, alerts)
		_, err := svc.Create(ctx, 7, CreateGlucoseRequest{Date: "2026-08-01", Period: model.PeriodBedtime, Value: 300})
		assert.NoError(t, err)
		alerts.AssertExpectations(t)
	})

	t.Run("alert failure does not fail the request", func(t *testing.T) {
		records := new(mockGlucoseRepo)
		users := new(mockUserRepo)
		alerts := new(mockAlertRepo)
		records.On("FindByDatePeriod", mock.Anything, int64(7), "2026-08-01", model.PeriodFasting).
			Return((*model.GlucoseRecord)(nil), nil).Once()
		records.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
		users.On("GetUserByID", mock.Anything, int64(7)).Return(user, nil).Once()
		alerts.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

		svc := newGlucoseService(records, users, alerts)
		rec, err := svc.Create(ctx, 7, CreateGlucoseRequest{Date: "2026-08-01", Period: model.PeriodFasting, Value: 55})
		assert.NoError(t, err)
		assert.NotNil(t, rec)
	})
}

func TestGlucoseService_List(t *testing.T) {
	ctx := context.Background()
	records := new(mockGlucoseRepo)
	f := model.RecordFilter{StartDate: "2026-08-01"}

	page := []model.GlucoseRecord{{ID: 2, Value: 100}, {ID: 1, Value: 120}}
	all := []model.GlucoseRecord{{Value: 100}, {Value: 120}, {Value: 140}}
	records.On("List", mock.Anything, int64(7), f, 30, 0).Return(page, nil).Once()
	records.On("Count", mock.Anything, int64(7), f).Return(int64(3), nil).Once()
	records.On("ListAll", mock.Anything, int64(7), f).Return(all, nil).Once()

	svc := newGlucoseService(records, new(mockUserRepo), new(mockAlertRepo))
	res, err := svc.List(ctx, 7, f, 1, 30)
	assert.NoError(t, err)
	assert.Len(t, res.Records, 2)
	assert.EqualValues(t, 3, res.Total)
	// сводка считается по всей выборке, не по странице
	assert.Equal(t, 120, res.Stats.Average)
	assert.Equal(t, 3, res.Stats.Count)
	records.AssertExpectations(t)
}

func TestGlucoseService_UpdateDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("update of missing record", func(t *testing.T) {
		records := new(mockGlucoseRepo)
		v := 100
		records.On("Update", mock.Anything, int64(7), int64(42), mock.Anything).Return(int64(0), nil).Once()

		svc := newGlucoseService(records, new(mockUserRepo), new(mockAlertRepo))
		_, err := svc.Update(ctx, 7, 42, &v, nil)
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("delete of missing record", func(t *testing.T) {
		records := new(mockGlucoseRepo)
		records.On("Delete", mock.Anything, int64(7), int64(42)).Return(int64(0), nil).Once()

		svc := newGlucoseService(records, new(mockUserRepo), new(mockAlertRepo))
		err := svc.Delete(ctx, 7, 42)
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})
}
