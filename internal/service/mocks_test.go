package service

import (
	"context"
	"mime/multipart"
	"time"

	"car_catalog/internal/model"

	"github.com/stretchr/testify/mock"
)

type mockUserRepo struct{ mock.Mock }

func userOrNil(args mock.Arguments) (*model.User, error) {
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = 1
	}
	return args.Error(0)
}
func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return userOrNil(m.Called(ctx, email))
}
func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return userOrNil(m.Called(ctx, username))
}
func (m *mockUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return userOrNil(m.Called(ctx, id))
}
func (m *mockUserRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	args := m.Called(ctx, username, email)
	return args.Bool(0), args.Error(1)
}
func (m *mockUserRepo) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.User), args.Error(1)
}
func (m *mockUserRepo) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	args := m.Called(ctx, role)
	return args.Get(0).([]model.User), args.Error(1)
}
func (m *mockUserRepo) Update(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *mockUserRepo) UpdateRole(ctx context.Context, id int64, role model.Role) error {
	return m.Called(ctx, id, role).Error(0)
}
func (m *mockUserRepo) SetCaptchaEnabled(ctx context.Context, id int64, enabled bool) (bool, error) {
	args := m.Called(ctx, id, enabled)
	return args.Bool(0), args.Error(1)
}
func (m *mockUserRepo) Suspend(ctx context.Context, id int64, until time.Time, warning *model.Warning) error {
	return m.Called(ctx, id, until, warning).Error(0)
}
func (m *mockUserRepo) AddWarning(ctx context.Context, id int64, warning model.Warning) error {
	return m.Called(ctx, id, warning).Error(0)
}
func (m *mockUserRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockUserRepo) DeleteAccountData(ctx context.Context, id int64, username string) error {
	return m.Called(ctx, id, username).Error(0)
}
func (m *mockUserRepo) CountByRole(ctx context.Context, role model.Role) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}
func (m *mockUserRepo) CountSuspended(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockOpinionRepo struct{ mock.Mock }

func (m *mockOpinionRepo) Create(ctx context.Context, o *model.Opinion) error {
	return m.Called(ctx, o).Error(0)
}
func (m *mockOpinionRepo) List(ctx context.Context) ([]model.Opinion, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Opinion), args.Error(1)
}
func (m *mockOpinionRepo) ListHighlighted(ctx context.Context) ([]model.Opinion, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Opinion), args.Error(1)
}
func (m *mockOpinionRepo) Update(ctx context.Context, id int64, u model.OpinionUpdate, editor string, at time.Time) (*model.Opinion, error) {
	args := m.Called(ctx, id, u, editor, at)
	o, _ := args.Get(0).(*model.Opinion)
	return o, args.Error(1)
}
func (m *mockOpinionRepo) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
func (m *mockOpinionRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *mockOpinionRepo) CountHighlighted(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *mockOpinionRepo) CountByState(ctx context.Context, state model.OpinionState) (int64, error) {
	args := m.Called(ctx, state)
	return args.Get(0).(int64), args.Error(1)
}
func (m *mockOpinionRepo) CountByDaySince(ctx context.Context, since time.Time) ([]model.DayCount, error) {
	args := m.Called(ctx, since)
	return args.Get(0).([]model.DayCount), args.Error(1)
}

type mockCarRepo struct{ mock.Mock }

func carOrNil(args mock.Arguments) (*model.Car, error) {
	c, _ := args.Get(0).(*model.Car)
	return c, args.Error(1)
}

func (m *mockCarRepo) Create(ctx context.Context, c *model.Car) error {
	return m.Called(ctx, c).Error(0)
}
func (m *mockCarRepo) List(ctx context.Context) ([]model.Car, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Car), args.Error(1)
}
func (m *mockCarRepo) IncrementViews(ctx context.Context, id int64) (*model.Car, error) {
	return carOrNil(m.Called(ctx, id))
}
func (m *mockCarRepo) Update(ctx context.Context, c *model.Car) (bool, error) {
	args := m.Called(ctx, c)
	return args.Bool(0), args.Error(1)
}
func (m *mockCarRepo) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
func (m *mockCarRepo) ResetViews(ctx context.Context, id int64) (*model.Car, error) {
	return carOrNil(m.Called(ctx, id))
}
func (m *mockCarRepo) MostVisited(ctx context.Context, limit int) ([]model.CarSummary, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]model.CarSummary), args.Error(1)
}
func (m *mockCarRepo) ViewStats(ctx context.Context) (*model.CarViewStats, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(*model.CarViewStats)
	return s, args.Error(1)
}
func (m *mockCarRepo) ViewCounts(ctx context.Context) ([]model.Car, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Car), args.Error(1)
}

type mockAnnouncementRepo struct{ mock.Mock }

func (m *mockAnnouncementRepo) Create(ctx context.Context, a *model.Announcement) error {
	return m.Called(ctx, a).Error(0)
}
func (m *mockAnnouncementRepo) ListActive(ctx context.Context, at time.Time) ([]model.Announcement, error) {
	args := m.Called(ctx, at)
	return args.Get(0).([]model.Announcement), args.Error(1)
}
func (m *mockAnnouncementRepo) List(ctx context.Context) ([]model.Announcement, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Announcement), args.Error(1)
}
func (m *mockAnnouncementRepo) Update(ctx context.Context, a *model.Announcement) (bool, error) {
	args := m.Called(ctx, a)
	return args.Bool(0), args.Error(1)
}
func (m *mockAnnouncementRepo) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type mockVerifier struct{ mock.Mock }

func (m *mockVerifier) Verify(ctx context.Context, response string) (bool, error) {
	args := m.Called(ctx, response)
	return args.Bool(0), args.Error(1)
}

type mockUploader struct{ mock.Mock }

func (m *mockUploader) SaveImage(ctx context.Context, kind string, fh *multipart.FileHeader) (string, error) {
	args := m.Called(ctx, kind, fh)
	return args.String(0), args.Error(1)
}
func (m *mockUploader) Remove(ctx context.Context, publicPath string) error {
	return m.Called(ctx, publicPath).Error(0)
}
