package handler

import (
	"context"
	"encoding/json"

	"github.com/mindgames-dev/mindgames/internal/domain"
)

type MockHealthChecker struct {
	PingFunc func(ctx context.Context) error
}

func (m *MockHealthChecker) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

type MockAuthService struct {
	MockLogin                func(identifier, password string) (string, domain.User, error)
	MockRequestPasswordReset func(email domain.Email) error
	MockResetPassword        func(email domain.Email, code, newPassword string) error
	MockChangePassword       func(userId domain.UserId, oldPassword, newPassword string) error
	MockMe                   func(userId domain.UserId) (domain.User, error)
}

func (m *MockAuthService) Login(identifier, password string) (string, domain.User, error) {
	if m.MockLogin != nil {
		return m.MockLogin(identifier, password)
	}
	return "test_token", domain.User{Id: 1}, nil
}

func (m *MockAuthService) RequestPasswordReset(email domain.Email) error {
	if m.MockRequestPasswordReset != nil {
		return m.MockRequestPasswordReset(email)
	}
	return nil
}

func (m *MockAuthService) ResetPassword(email domain.Email, code, newPassword string) error {
	if m.MockResetPassword != nil {
		return m.MockResetPassword(email, code, newPassword)
	}
	return nil
}

func (m *MockAuthService) ChangePassword(userId domain.UserId, oldPassword, newPassword string) error {
	if m.MockChangePassword != nil {
		return m.MockChangePassword(userId, oldPassword, newPassword)
	}
	return nil
}

func (m *MockAuthService) Me(userId domain.UserId) (domain.User, error) {
	if m.MockMe != nil {
		return m.MockMe(userId)
	}
	return domain.User{Id: userId}, nil
}

type MockPatientService struct {
	MockCreate func(actor *domain.User, user domain.User, password string, p domain.Patient) (domain.Patient, error)
	MockGet    func(actor *domain.User, id domain.UserId) (domain.Patient, error)
	MockList   func(actor *domain.User, q domain.PatientQuery) (domain.List[domain.Patient], error)
	MockUpdate func(actor *domain.User, id domain.UserId, upd domain.PatientUpdate, userUpd domain.UserUpdate) (domain.Patient, error)
	MockDelete func(actor *domain.User, id domain.UserId) error
}

func (m *MockPatientService) Create(actor *domain.User, user domain.User, password string, p domain.Patient) (domain.Patient, error) {
	if m.MockCreate != nil {
		return m.MockCreate(actor, user, password, p)
	}
	return p, nil
}

func (m *MockPatientService) Get(actor *domain.User, id domain.UserId) (domain.Patient, error) {
	if m.MockGet != nil {
		return m.MockGet(actor, id)
	}
	return domain.Patient{Id: id}, nil
}

func (m *MockPatientService) List(actor *domain.User, q domain.PatientQuery) (domain.List[domain.Patient], error) {
	if m.MockList != nil {
		return m.MockList(actor, q)
	}
	return domain.List[domain.Patient]{Items: []domain.Patient{}}, nil
}

func (m *MockPatientService) Update(actor *domain.User, id domain.UserId, upd domain.PatientUpdate, userUpd domain.UserUpdate) (domain.Patient, error) {
	if m.MockUpdate != nil {
		return m.MockUpdate(actor, id, upd, userUpd)
	}
	return domain.Patient{Id: id}, nil
}

func (m *MockPatientService) Delete(actor *domain.User, id domain.UserId) error {
	if m.MockDelete != nil {
		return m.MockDelete(actor, id)
	}
	return nil
}

type MockGameService struct {
	MockSettings        func(actor *domain.User, patientId domain.UserId) ([]domain.GameSetting, error)
	MockSetting         func(actor *domain.User, patientId domain.UserId, game domain.Game) (domain.GameSetting, error)
	MockSaveSetting     func(actor *domain.User, patientId domain.UserId, game domain.Game, settings json.RawMessage) (domain.GameSetting, error)
	MockDeleteSetting   func(actor *domain.User, patientId domain.UserId, game domain.Game) error
	MockRecordStatistic func(actor *domain.User, st domain.Statistic) (domain.Statistic, error)
	MockStatistic       func(actor *domain.User, id int64) (domain.Statistic, error)
	MockStatistics      func(actor *domain.User, q domain.StatisticQuery) (domain.List[domain.Statistic], error)
	MockSummary         func(actor *domain.User, q domain.StatisticQuery) ([]domain.StatisticSummary, error)
	MockUpdateStatistic func(actor *domain.User, id int64, upd domain.StatisticUpdate) (domain.Statistic, error)
	MockDeleteStatistic func(actor *domain.User, id int64) error
}

func (m *MockGameService) Settings(actor *domain.User, patientId domain.UserId) ([]domain.GameSetting, error) {
	if m.MockSettings != nil {
		return m.MockSettings(actor, patientId)
	}
	return []domain.GameSetting{}, nil
}

func (m *MockGameService) Setting(actor *domain.User, patientId domain.UserId, game domain.Game) (domain.GameSetting, error) {
	if m.MockSetting != nil {
		return m.MockSetting(actor, patientId, game)
	}
	return domain.GameSetting{PatientId: patientId, Game: game}, nil
}

func (m *MockGameService) SaveSetting(actor *domain.User, patientId domain.UserId, game domain.Game, settings json.RawMessage) (domain.GameSetting, error) {
	if m.MockSaveSetting != nil {
		return m.MockSaveSetting(actor, patientId, game, settings)
	}
	return domain.GameSetting{PatientId: patientId, Game: game, Settings: settings}, nil
}

func (m *MockGameService) DeleteSetting(actor *domain.User, patientId domain.UserId, game domain.Game) error {
	if m.MockDeleteSetting != nil {
		return m.MockDeleteSetting(actor, patientId, game)
	}
	return nil
}

func (m *MockGameService) RecordStatistic(actor *domain.User, st domain.Statistic) (domain.Statistic, error) {
	if m.MockRecordStatistic != nil {
		return m.MockRecordStatistic(actor, st)
	}
	st.Id = 1
	return st, nil
}

func (m *MockGameService) Statistic(actor *domain.User, id int64) (domain.Statistic, error) {
	if m.MockStatistic != nil {
		return m.MockStatistic(actor, id)
	}
	return domain.Statistic{Id: id}, nil
}

func (m *MockGameService) Statistics(actor *domain.User, q domain.StatisticQuery) (domain.List[domain.Statistic], error) {
	if m.MockStatistics != nil {
		return m.MockStatistics(actor, q)
	}
	return domain.List[domain.Statistic]{Items: []domain.Statistic{}}, nil
}

func (m *MockGameService) Summary(actor *domain.User, q domain.StatisticQuery) ([]domain.StatisticSummary, error) {
	if m.MockSummary != nil {
		return m.MockSummary(actor, q)
	}
	return []domain.StatisticSummary{}, nil
}

func (m *MockGameService) UpdateStatistic(actor *domain.User, id int64, upd domain.StatisticUpdate) (domain.Statistic, error) {
	if m.MockUpdateStatistic != nil {
		return m.MockUpdateStatistic(actor, id, upd)
	}
	return domain.Statistic{Id: id}, nil
}

func (m *MockGameService) DeleteStatistic(actor *domain.User, id int64) error {
	if m.MockDeleteStatistic != nil {
		return m.MockDeleteStatistic(actor, id)
	}
	return nil
}

type MockErrortextService struct {
	MockList   func(q domain.ErrortextQuery) ([]domain.Errortext, error)
	MockGet    func(id int64) (domain.Errortext, error)
	MockCreate func(e domain.Errortext) (domain.Errortext, error)
	MockUpdate func(id int64, e domain.Errortext) (domain.Errortext, error)
	MockDelete func(id int64) error
}

func (m *MockErrortextService) List(q domain.ErrortextQuery) ([]domain.Errortext, error) {
	if m.MockList != nil {
		return m.MockList(q)
	}
	return []domain.Errortext{}, nil
}

func (m *MockErrortextService) Get(id int64) (domain.Errortext, error) {
	if m.MockGet != nil {
		return m.MockGet(id)
	}
	return domain.Errortext{Id: id}, nil
}

func (m *MockErrortextService) Create(e domain.Errortext) (domain.Errortext, error) {
	if m.MockCreate != nil {
		return m.MockCreate(e)
	}
	e.Id = 1
	return e, nil
}

func (m *MockErrortextService) Update(id int64, e domain.Errortext) (domain.Errortext, error) {
	if m.MockUpdate != nil {
		return m.MockUpdate(id, e)
	}
	e.Id = id
	return e, nil
}

func (m *MockErrortextService) Delete(id int64) error {
	if m.MockDelete != nil {
		return m.MockDelete(id)
	}
	return nil
}

type MockLogService struct {
	MockRecord      func(e domain.LogEntry) (domain.LogEntry, error)
	MockServerError func(userId *domain.UserId, method, url, message string)
	MockList        func(q domain.LogQuery) (domain.List[domain.LogEntry], error)
	MockSmtpLogs    func(q domain.SmtpLogQuery) (domain.List[domain.SmtpLog], error)
}

func (m *MockLogService) Record(e domain.LogEntry) (domain.LogEntry, error) {
	if m.MockRecord != nil {
		return m.MockRecord(e)
	}
	e.Id = 1
	return e, nil
}

func (m *MockLogService) ServerError(userId *domain.UserId, method, url, message string) {
	if m.MockServerError != nil {
		m.MockServerError(userId, method, url, message)
	}
}

func (m *MockLogService) List(q domain.LogQuery) (domain.List[domain.LogEntry], error) {
	if m.MockList != nil {
		return m.MockList(q)
	}
	return domain.List[domain.LogEntry]{Items: []domain.LogEntry{}}, nil
}

func (m *MockLogService) SmtpLogs(q domain.SmtpLogQuery) (domain.List[domain.SmtpLog], error) {
	if m.MockSmtpLogs != nil {
		return m.MockSmtpLogs(q)
	}
	return domain.List[domain.SmtpLog]{Items: []domain.SmtpLog{}}, nil
}

type MockUserService struct {
	MockGet    func(actor *domain.User, id domain.UserId) (domain.User, error)
	MockList   func(q domain.UserQuery) (domain.List[domain.User], error)
	MockUpdate func(actor *domain.User, id domain.UserId, upd domain.UserUpdate) (domain.User, error)
	MockDelete func(actor *domain.User, id domain.UserId) error
}

func (m *MockUserService) Get(actor *domain.User, id domain.UserId) (domain.User, error) {
	if m.MockGet != nil {
		return m.MockGet(actor, id)
	}
	return domain.User{Id: id}, nil
}

func (m *MockUserService) List(q domain.UserQuery) (domain.List[domain.User], error) {
	if m.MockList != nil {
		return m.MockList(q)
	}
	return domain.List[domain.User]{Items: []domain.User{}}, nil
}

func (m *MockUserService) Update(actor *domain.User, id domain.UserId, upd domain.UserUpdate) (domain.User, error) {
	if m.MockUpdate != nil {
		return m.MockUpdate(actor, id, upd)
	}
	return domain.User{Id: id}, nil
}

func (m *MockUserService) Delete(actor *domain.User, id domain.UserId) error {
	if m.MockDelete != nil {
		return m.MockDelete(actor, id)
	}
	return nil
}

type MockTherapistService struct {
	MockRegister func(user domain.User, password string, t domain.Therapist) (domain.Therapist, error)
	MockGet      func(actor *domain.User, id domain.UserId) (domain.Therapist, error)
	MockList     func(q domain.TherapistQuery) (domain.List[domain.Therapist], error)
	MockUpdate   func(actor *domain.User, id domain.UserId, upd domain.TherapistUpdate, userUpd domain.UserUpdate) (domain.Therapist, error)
	MockDelete   func(id domain.UserId) error
}

func (m *MockTherapistService) Register(user domain.User, password string, t domain.Therapist) (domain.Therapist, error) {
	if m.MockRegister != nil {
		return m.MockRegister(user, password, t)
	}
	return t, nil
}

func (m *MockTherapistService) Get(actor *domain.User, id domain.UserId) (domain.Therapist, error) {
	if m.MockGet != nil {
		return m.MockGet(actor, id)
	}
	return domain.Therapist{Id: id}, nil
}

func (m *MockTherapistService) List(q domain.TherapistQuery) (domain.List[domain.Therapist], error) {
	if m.MockList != nil {
		return m.MockList(q)
	}
	return domain.List[domain.Therapist]{Items: []domain.Therapist{}}, nil
}

func (m *MockTherapistService) Update(actor *domain.User, id domain.UserId, upd domain.TherapistUpdate, userUpd domain.UserUpdate) (domain.Therapist, error) {
	if m.MockUpdate != nil {
		return m.MockUpdate(actor, id, upd, userUpd)
	}
	return domain.Therapist{Id: id}, nil
}

func (m *MockTherapistService) Delete(id domain.UserId) error {
	if m.MockDelete != nil {
		return m.MockDelete(id)
	}
	return nil
}
