package service

import (
	"time"

	"github.com/mindgames-dev/mindgames/internal/config"
	"github.com/mindgames-dev/mindgames/internal/domain"
	"github.com/mindgames-dev/mindgames/internal/errors"
)

// --- Mocks ---

// MockStorage implements every storage interface of this package. Unset
// funcs return a zero value and no error, lookups return not found.
type MockStorage struct {
	UserFunc              func(id domain.UserId) (domain.User, error)
	UserByEmailFunc       func(email domain.Email) (domain.User, error)
	UserByLoginFunc       func(identifier string) (domain.User, error)
	UsersFunc             func(q domain.UserQuery) (domain.List[domain.User], error)
	UserEmailsByRoleFunc  func(role domain.Role) ([]domain.Email, error)
	UpdateUserFunc        func(id domain.UserId, upd domain.UserUpdate) error
	DeleteUserFunc        func(id domain.UserId) error
	AccountsFunc          func() ([]domain.Account, error)
	AccountFunc           func(id domain.UserId) (domain.Account, error)
	SaveLoginFunc         func(id domain.UserId, at time.Time) error
	RecordFailedLoginFunc func(id domain.UserId, maxFailed int) (domain.LoginFailure, error)
	SaveResetDataFunc     func(data domain.ResetData) error
	ResetDataFunc         func(id domain.UserId) (domain.ResetData, error)
	SetPasswordFunc       func(id domain.UserId, hash string) error

	CreateTherapistFunc func(user domain.User, t domain.Therapist) (domain.UserId, error)
	TherapistFunc       func(id domain.UserId) (domain.Therapist, error)
	TherapistsFunc      func(q domain.TherapistQuery) (domain.List[domain.Therapist], error)
	UpdateTherapistFunc func(id domain.UserId, upd domain.TherapistUpdate, user domain.UserUpdate) error
	CreatePatientFunc   func(user domain.User, p domain.Patient) (domain.UserId, error)
	PatientFunc         func(id domain.UserId) (domain.Patient, error)
	PatientsFunc        func(q domain.PatientQuery) (domain.List[domain.Patient], error)
	UpdatePatientFunc   func(id domain.UserId, upd domain.PatientUpdate, user domain.UserUpdate) error

	GameSettingsFunc      func(patientId domain.UserId) ([]domain.GameSetting, error)
	GameSettingFunc       func(patientId domain.UserId, game domain.Game) (domain.GameSetting, error)
	SaveGameSettingFunc   func(gs domain.GameSetting) error
	DeleteGameSettingFunc func(patientId domain.UserId, game domain.Game) error
	CreateStatisticFunc   func(st domain.Statistic) (int64, error)
	StatisticFunc         func(id int64) (domain.Statistic, error)
	StatisticsFunc        func(q domain.StatisticQuery) (domain.List[domain.Statistic], error)
	StatisticSummaryFunc  func(q domain.StatisticQuery) ([]domain.StatisticSummary, error)
	UpdateStatisticFunc   func(id int64, upd domain.StatisticUpdate) error
	DeleteStatisticFunc   func(id int64) error

	CreateErrortextFunc func(e domain.Errortext) (int64, error)
	ErrortextFunc       func(id int64) (domain.Errortext, error)
	ErrortextsFunc      func(q domain.ErrortextQuery) ([]domain.Errortext, error)
	UpdateErrortextFunc func(e domain.Errortext) error
	DeleteErrortextFunc func(id int64) error
	CreateHelptextFunc  func(h domain.Helptext) (int64, error)
	HelptextFunc        func(id int64) (domain.Helptext, error)
	HelptextsFunc       func(q domain.HelptextQuery) ([]domain.Helptext, error)
	UpdateHelptextFunc  func(h domain.Helptext) error
	DeleteHelptextFunc  func(id int64) error

	CreateLogFunc        func(e domain.LogEntry) (int64, error)
	LogsFunc             func(q domain.LogQuery) (domain.List[domain.LogEntry], error)
	DeleteLogsBeforeFunc func(t time.Time) (int64, error)
	SmtpLogsFunc         func(q domain.SmtpLogQuery) (domain.List[domain.SmtpLog], error)
}

func (m *MockStorage) User(id domain.UserId) (domain.User, error) {
	if m.UserFunc != nil {
		return m.UserFunc(id)
	}
	return domain.User{}, errors.NotFound("User not found")
}

func (m *MockStorage) UserByEmail(email domain.Email) (domain.User, error) {
	if m.UserByEmailFunc != nil {
		return m.UserByEmailFunc(email)
	}
	return domain.User{}, errors.NotFound("User not found")
}

func (m *MockStorage) UserByLogin(identifier string) (domain.User, error) {
	if m.UserByLoginFunc != nil {
		return m.UserByLoginFunc(identifier)
	}
	return domain.User{}, errors.NotFound("User not found")
}

func (m *MockStorage) Users(q domain.UserQuery) (domain.List[domain.User], error) {
	if m.UsersFunc != nil {
		return m.UsersFunc(q)
	}
	return domain.List[domain.User]{}, nil
}

func (m *MockStorage) UserEmailsByRole(role domain.Role) ([]domain.Email, error) {
	if m.UserEmailsByRoleFunc != nil {
		return m.UserEmailsByRoleFunc(role)
	}
	return nil, nil
}

func (m *MockStorage) UpdateUser(id domain.UserId, upd domain.UserUpdate) error {
	if m.UpdateUserFunc != nil {
		return m.UpdateUserFunc(id, upd)
	}
	return nil
}

func (m *MockStorage) DeleteUser(id domain.UserId) error {
	if m.DeleteUserFunc != nil {
		return m.DeleteUserFunc(id)
	}
	return nil
}

func (m *MockStorage) Accounts() ([]domain.Account, error) {
	if m.AccountsFunc != nil {
		return m.AccountsFunc()
	}
	return nil, nil
}

func (m *MockStorage) Account(id domain.UserId) (domain.Account, error) {
	if m.AccountFunc != nil {
		return m.AccountFunc(id)
	}
	return domain.Account{}, errors.NotFound("User not found")
}

func (m *MockStorage) SaveLogin(id domain.UserId, at time.Time) error {
	if m.SaveLoginFunc != nil {
		return m.SaveLoginFunc(id, at)
	}
	return nil
}

func (m *MockStorage) RecordFailedLogin(id domain.UserId, maxFailed int) (domain.LoginFailure, error) {
	if m.RecordFailedLoginFunc != nil {
		return m.RecordFailedLoginFunc(id, maxFailed)
	}
	return domain.LoginFailure{FailedLogins: 1}, nil
}

func (m *MockStorage) SaveResetData(data domain.ResetData) error {
	if m.SaveResetDataFunc != nil {
		return m.SaveResetDataFunc(data)
	}
	return nil
}

func (m *MockStorage) ResetData(id domain.UserId) (domain.ResetData, error) {
	if m.ResetDataFunc != nil {
		return m.ResetDataFunc(id)
	}
	return domain.ResetData{}, errors.NotFound("Reset request not found")
}

func (m *MockStorage) SetPassword(id domain.UserId, hash string) error {
	if m.SetPasswordFunc != nil {
		return m.SetPasswordFunc(id, hash)
	}
	return nil
}

func (m *MockStorage) CreateTherapist(user domain.User, t domain.Therapist) (domain.UserId, error) {
	if m.CreateTherapistFunc != nil {
		return m.CreateTherapistFunc(user, t)
	}
	return 1, nil
}

func (m *MockStorage) Therapist(id domain.UserId) (domain.Therapist, error) {
	if m.TherapistFunc != nil {
		return m.TherapistFunc(id)
	}
	return domain.Therapist{}, errors.NotFound("Therapist not found")
}

func (m *MockStorage) Therapists(q domain.TherapistQuery) (domain.List[domain.Therapist], error) {
	if m.TherapistsFunc != nil {
		return m.TherapistsFunc(q)
	}
	return domain.List[domain.Therapist]{}, nil
}

func (m *MockStorage) UpdateTherapist(id domain.UserId, upd domain.TherapistUpdate, user domain.UserUpdate) error {
	if m.UpdateTherapistFunc != nil {
		return m.UpdateTherapistFunc(id, upd, user)
	}
	return nil
}

func (m *MockStorage) CreatePatient(user domain.User, p domain.Patient) (domain.UserId, error) {
	if m.CreatePatientFunc != nil {
		return m.CreatePatientFunc(user, p)
	}
	return 1, nil
}

func (m *MockStorage) Patient(id domain.UserId) (domain.Patient, error) {
	if m.PatientFunc != nil {
		return m.PatientFunc(id)
	}
	return domain.Patient{}, errors.NotFound("Patient not found")
}

func (m *MockStorage) Patients(q domain.PatientQuery) (domain.List[domain.Patient], error) {
	if m.PatientsFunc != nil {
		return m.PatientsFunc(q)
	}
	return domain.List[domain.Patient]{}, nil
}

func (m *MockStorage) UpdatePatient(id domain.UserId, upd domain.PatientUpdate, user domain.UserUpdate) error {
	if m.UpdatePatientFunc != nil {
		return m.UpdatePatientFunc(id, upd, user)
	}
	return nil
}

func (m *MockStorage) GameSettings(patientId domain.UserId) ([]domain.GameSetting, error) {
	if m.GameSettingsFunc != nil {
		return m.GameSettingsFunc(patientId)
	}
	return nil, nil
}

func (m *MockStorage) GameSetting(patientId domain.UserId, game domain.Game) (domain.GameSetting, error) {
	if m.GameSettingFunc != nil {
		return m.GameSettingFunc(patientId, game)
	}
	return domain.GameSetting{}, errors.NotFound("Game setting not found")
}

func (m *MockStorage) SaveGameSetting(gs domain.GameSetting) error {
	if m.SaveGameSettingFunc != nil {
		return m.SaveGameSettingFunc(gs)
	}
	return nil
}

func (m *MockStorage) DeleteGameSetting(patientId domain.UserId, game domain.Game) error {
	if m.DeleteGameSettingFunc != nil {
		return m.DeleteGameSettingFunc(patientId, game)
	}
	return nil
}

func (m *MockStorage) CreateStatistic(st domain.Statistic) (int64, error) {
	if m.CreateStatisticFunc != nil {
		return m.CreateStatisticFunc(st)
	}
	return 1, nil
}

func (m *MockStorage) Statistic(id int64) (domain.Statistic, error) {
	if m.StatisticFunc != nil {
		return m.StatisticFunc(id)
	}
	return domain.Statistic{}, errors.NotFound("Statistic not found")
}

func (m *MockStorage) Statistics(q domain.StatisticQuery) (domain.List[domain.Statistic], error) {
	if m.StatisticsFunc != nil {
		return m.StatisticsFunc(q)
	}
	return domain.List[domain.Statistic]{}, nil
}

func (m *MockStorage) StatisticSummary(q domain.StatisticQuery) ([]domain.StatisticSummary, error) {
	if m.StatisticSummaryFunc != nil {
		return m.StatisticSummaryFunc(q)
	}
	return nil, nil
}

func (m *MockStorage) UpdateStatistic(id int64, upd domain.StatisticUpdate) error {
	if m.UpdateStatisticFunc != nil {
		return m.UpdateStatisticFunc(id, upd)
	}
	return nil
}

func (m *MockStorage) DeleteStatistic(id int64) error {
	if m.DeleteStatisticFunc != nil {
		return m.DeleteStatisticFunc(id)
	}
	return nil
}

func (m *MockStorage) CreateErrortext(e domain.Errortext) (int64, error) {
	if m.CreateErrortextFunc != nil {
		return m.CreateErrortextFunc(e)
	}
	return 1, nil
}

func (m *MockStorage) Errortext(id int64) (domain.Errortext, error) {
	if m.ErrortextFunc != nil {
		return m.ErrortextFunc(id)
	}
	return domain.Errortext{}, errors.NotFound("Errortext not found")
}

func (m *MockStorage) Errortexts(q domain.ErrortextQuery) ([]domain.Errortext, error) {
	if m.ErrortextsFunc != nil {
		return m.ErrortextsFunc(q)
	}
	return nil, nil
}

func (m *MockStorage) UpdateErrortext(e domain.Errortext) error {
	if m.UpdateErrortextFunc != nil {
		return m.UpdateErrortextFunc(e)
	}
	return nil
}

func (m *MockStorage) DeleteErrortext(id int64) error {
	if m.DeleteErrortextFunc != nil {
		return m.DeleteErrortextFunc(id)
	}
	return nil
}

func (m *MockStorage) CreateHelptext(h domain.Helptext) (int64, error) {
	if m.CreateHelptextFunc != nil {
		return m.CreateHelptextFunc(h)
	}
	return 1, nil
}

func (m *MockStorage) Helptext(id int64) (domain.Helptext, error) {
	if m.HelptextFunc != nil {
		return m.HelptextFunc(id)
	}
	return domain.Helptext{}, errors.NotFound("Helptext not found")
}

func (m *MockStorage) Helptexts(q domain.HelptextQuery) ([]domain.Helptext, error) {
	if m.HelptextsFunc != nil {
		return m.HelptextsFunc(q)
	}
	return nil, nil
}

func (m *MockStorage) UpdateHelptext(h domain.Helptext) error {
	if m.UpdateHelptextFunc != nil {
		return m.UpdateHelptextFunc(h)
	}
	return nil
}

func (m *MockStorage) DeleteHelptext(id int64) error {
	if m.DeleteHelptextFunc != nil {
		return m.DeleteHelptextFunc(id)
	}
	return nil
}

func (m *MockStorage) CreateLog(e domain.LogEntry) (int64, error) {
	if m.CreateLogFunc != nil {
		return m.CreateLogFunc(e)
	}
	return 1, nil
}

func (m *MockStorage) Logs(q domain.LogQuery) (domain.List[domain.LogEntry], error) {
	if m.LogsFunc != nil {
		return m.LogsFunc(q)
	}
	return domain.List[domain.LogEntry]{}, nil
}

func (m *MockStorage) DeleteLogsBefore(t time.Time) (int64, error) {
	if m.DeleteLogsBeforeFunc != nil {
		return m.DeleteLogsBeforeFunc(t)
	}
	return 0, nil
}

func (m *MockStorage) SmtpLogs(q domain.SmtpLogQuery) (domain.List[domain.SmtpLog], error) {
	if m.SmtpLogsFunc != nil {
		return m.SmtpLogsFunc(q)
	}
	return domain.List[domain.SmtpLog]{}, nil
}

type sentMail struct {
	To, Subject, Body string
}

type MockEmail struct {
	SendFunc func(recipientEmail, subject, body string) error
	Sent     []sentMail
}

func (m *MockEmail) Send(recipientEmail, subject, body string) error {
	m.Sent = append(m.Sent, sentMail{recipientEmail, subject, body})
	if m.SendFunc != nil {
		return m.SendFunc(recipientEmail, subject, body)
	}
	return nil
}

type MockJwt struct {
	NewTokenFunc func(user domain.User) (string, error)
}

func (m *MockJwt) NewToken(user domain.User) (string, error) {
	if m.NewTokenFunc != nil {
		return m.NewTokenFunc(user)
	}
	return "test_token", nil
}

func testConfig() *config.Public {
	return &config.Public{
		JwtTTL:          time.Hour,
		ResetCodeLen:    6,
		ResetCodeTTL:    30 * time.Minute,
		MaxFailedLogins: 3,
		DefaultPageSize: 50,
		MaxPageSize:     500,
		DefaultLanguage: "de",
		LogRetention:    24 * time.Hour,
	}
}

var (
	admin     = &domain.User{Id: 1, Role: domain.RoleAdmin, Status: domain.UserActive}
	therapist = &domain.User{Id: 10, Role: domain.RoleTherapist, Status: domain.UserActive}
	other     = &domain.User{Id: 11, Role: domain.RoleTherapist, Status: domain.UserActive}
	patient   = &domain.User{Id: 20, Role: domain.RolePatient, Status: domain.UserActive}
)

// ownedPatient returns patient 20 owned by therapist 10.
func ownedPatient(id domain.UserId) (domain.Patient, error) {
	if id != patient.Id {
		return domain.Patient{}, errors.NotFound("Patient not found")
	}
	return domain.Patient{Id: patient.Id, TherapistId: therapist.Id, Firstname: "Pia"}, nil
}
