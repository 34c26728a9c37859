package service

import (
	"bytes"
	"encoding/json"
	"regexp"
	"time"

	"github.com/mindgames-dev/mindgames/internal/config"
	"github.com/mindgames-dev/mindgames/internal/domain"
	"github.com/mindgames-dev/mindgames/internal/errors"
	"github.com/mindgames-dev/mindgames/internal/middleware/metrics"
	"github.com/mindgames-dev/mindgames/internal/schema"
)

type GameService interface {
	Settings(actor *domain.User, patientId domain.UserId) ([]domain.GameSetting, error)
	Setting(actor *domain.User, patientId domain.UserId, game domain.Game) (domain.GameSetting, error)
	SaveSetting(actor *domain.User, patientId domain.UserId, game domain.Game, settings json.RawMessage) (domain.GameSetting, error)
	DeleteSetting(actor *domain.User, patientId domain.UserId, game domain.Game) error

	RecordStatistic(actor *domain.User, st domain.Statistic) (domain.Statistic, error)
	Statistic(actor *domain.User, id int64) (domain.Statistic, error)
	Statistics(actor *domain.User, q domain.StatisticQuery) (domain.List[domain.Statistic], error)
	Summary(actor *domain.User, q domain.StatisticQuery) ([]domain.StatisticSummary, error)
	UpdateStatistic(actor *domain.User, id int64, upd domain.StatisticUpdate) (domain.Statistic, error)
	DeleteStatistic(actor *domain.User, id int64) error
}

type GameStorage interface {
	Patient(id domain.UserId) (domain.Patient, error)

	GameSettings(patientId domain.UserId) ([]domain.GameSetting, error)
	GameSetting(patientId domain.UserId, game domain.Game) (domain.GameSetting, error)
	SaveGameSetting(gs domain.GameSetting) error
	DeleteGameSetting(patientId domain.UserId, game domain.Game) error

	CreateStatistic(st domain.Statistic) (int64, error)
	Statistic(id int64) (domain.Statistic, error)
	Statistics(q domain.StatisticQuery) (domain.List[domain.Statistic], error)
	StatisticSummary(q domain.StatisticQuery) ([]domain.StatisticSummary, error)
	UpdateStatistic(id int64, upd domain.StatisticUpdate) error
	DeleteStatistic(id int64) error
}

type SchemaValidator interface {
	Validate(id string, doc []byte) error
}

type Games struct {
	storage GameStorage
	schema  SchemaValidator
	cfg     *config.Public
	now     func() time.Time
}

func NewGames(storage GameStorage, schema SchemaValidator, cfg *config.Public) *Games {
	return &Games{
		storage: storage,
		schema:  schema,
		cfg:     cfg,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

var gameNameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

func validGame(game domain.Game) error {
	if !gameNameRe.MatchString(game) {
		return errors.BadRequest("Invalid game name")
	}
	return nil
}

func isJSONNull(doc json.RawMessage) bool {
	return len(bytes.TrimSpace(doc)) == 0 || bytes.Equal(bytes.TrimSpace(doc), []byte("null"))
}

func (s *Games) Settings(actor *domain.User, patientId domain.UserId) ([]domain.GameSetting, error) {
	if _, err := loadPatient(s.storage, actor, patientId, true); err != nil {
		return nil, err
	}
	return s.storage.GameSettings(patientId)
}

func (s *Games) Setting(actor *domain.User, patientId domain.UserId, game domain.Game) (domain.GameSetting, error) {
	if _, err := loadPatient(s.storage, actor, patientId, true); err != nil {
		return domain.GameSetting{}, err
	}
	return s.storage.GameSetting(patientId, game)
}

// SaveSetting inserts or replaces the settings of one game. Patients cannot
// change their own settings.
func (s *Games) SaveSetting(actor *domain.User, patientId domain.UserId, game domain.Game, settings json.RawMessage) (domain.GameSetting, error) {
	if err := validGame(game); err != nil {
		return domain.GameSetting{}, err
	}
	if _, err := loadPatient(s.storage, actor, patientId, false); err != nil {
		return domain.GameSetting{}, err
	}
	if isJSONNull(settings) {
		return domain.GameSetting{}, errors.BadRequest("Settings are required")
	}
	if err := s.schema.Validate(schema.GameSettings, settings); err != nil {
		return domain.GameSetting{}, err
	}

	gs := domain.GameSetting{PatientId: patientId, Game: game, Settings: settings}
	if err := s.storage.SaveGameSetting(gs); err != nil {
		return domain.GameSetting{}, err
	}
	return s.storage.GameSetting(patientId, game)
}

func (s *Games) DeleteSetting(actor *domain.User, patientId domain.UserId, game domain.Game) error {
	if _, err := loadPatient(s.storage, actor, patientId, false); err != nil {
		return err
	}
	return s.storage.DeleteGameSetting(patientId, game)
}

func (s *Games) validateData(data json.RawMessage) (json.RawMessage, error) {
	if isJSONNull(data) {
		return nil, nil
	}
	if err := s.schema.Validate(schema.StatisticData, data); err != nil {
		return nil, err
	}
	return data, nil
}

// RecordStatistic stores a played game. Patients record for themselves,
// therapists for their own patients.
func (s *Games) RecordStatistic(actor *domain.User, st domain.Statistic) (domain.Statistic, error) {
	if actor == nil {
		return domain.Statistic{}, errAccessDenied
	}
	if actor.Role == domain.RolePatient {
		st.PatientId = actor.Id
	}
	if st.PatientId == 0 {
		return domain.Statistic{}, errors.BadRequest("Patient is required")
	}
	if err := validGame(st.Game); err != nil {
		return domain.Statistic{}, err
	}
	if st.Level < 0 || st.DurationMs < 0 {
		return domain.Statistic{}, errors.BadRequest("Level and duration must not be negative")
	}
	if _, err := loadPatient(s.storage, actor, st.PatientId, true); err != nil {
		return domain.Statistic{}, err
	}

	var err error
	if st.Data, err = s.validateData(st.Data); err != nil {
		return domain.Statistic{}, err
	}
	if st.PlayedAt.IsZero() {
		st.PlayedAt = s.now()
	}
	if err := s.checkPlayedAt(st.PlayedAt); err != nil {
		return domain.Statistic{}, err
	}

	id, err := s.storage.CreateStatistic(st)
	if err != nil {
		return domain.Statistic{}, err
	}
	metrics.StatisticsRecorded.WithLabelValues(st.Game).Inc()
	return s.storage.Statistic(id)
}

// statistic loads a statistic visible to actor.
func (s *Games) statistic(actor *domain.User, id int64) (domain.Statistic, error) {
	st, err := s.storage.Statistic(id)
	if err != nil {
		return domain.Statistic{}, err
	}
	if actor != nil && actor.Role == domain.RolePatient && st.PatientId != actor.Id {
		// same answer as for ids that don't exist
		return domain.Statistic{}, errors.NotFound("Statistic not found")
	}
	if _, err := loadPatient(s.storage, actor, st.PatientId, true); err != nil {
		return domain.Statistic{}, err
	}
	return st, nil
}

func (s *Games) Statistic(actor *domain.User, id int64) (domain.Statistic, error) {
	return s.statistic(actor, id)
}

// scope restricts a query to what actor may see.
func (s *Games) scope(actor *domain.User, q domain.StatisticQuery) (domain.StatisticQuery, error) {
	switch {
	case actor == nil:
		return q, errAccessDenied
	case actor.Role == domain.RolePatient:
		if q.PatientId != 0 && q.PatientId != actor.Id {
			return q, errAccessDenied
		}
		q.PatientId = actor.Id
	case actor.Role == domain.RoleTherapist:
		q.TherapistId = actor.Id
	case !actor.IsAdmin():
		return q, errAccessDenied
	}
	if q.Game != "" {
		if err := validGame(q.Game); err != nil {
			return q, err
		}
	}
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return q, errors.BadRequest("from must not be after to")
	}
	return q, nil
}

func (s *Games) Statistics(actor *domain.User, q domain.StatisticQuery) (domain.List[domain.Statistic], error) {
	q, err := s.scope(actor, q)
	if err != nil {
		return domain.List[domain.Statistic]{}, err
	}
	q.Page = normalizePage(q.Page, s.cfg)
	return s.storage.Statistics(q)
}

func (s *Games) Summary(actor *domain.User, q domain.StatisticQuery) ([]domain.StatisticSummary, error) {
	q, err := s.scope(actor, q)
	if err != nil {
		return nil, err
	}
	return s.storage.StatisticSummary(q)
}

func (s *Games) UpdateStatistic(actor *domain.User, id int64, upd domain.StatisticUpdate) (domain.Statistic, error) {
	if _, err := s.statistic(actor, id); err != nil {
		return domain.Statistic{}, err
	}
	if (upd.Level != nil && *upd.Level < 0) || (upd.DurationMs != nil && *upd.DurationMs < 0) {
		return domain.Statistic{}, errors.BadRequest("Level and duration must not be negative")
	}
	if upd.PlayedAt != nil {
		if err := s.checkPlayedAt(*upd.PlayedAt); err != nil {
			return domain.Statistic{}, err
		}
	}
	var err error
	if upd.Data, err = s.validateData(upd.Data); err != nil {
		return domain.Statistic{}, err
	}
	if err := s.storage.UpdateStatistic(id, upd); err != nil {
		return domain.Statistic{}, err
	}
	return s.storage.Statistic(id)
}

// checkPlayedAt allows a minute of clock skew between client and server.
func (s *Games) checkPlayedAt(playedAt time.Time) error {
	if playedAt.After(s.now().Add(time.Minute)) {
		return errors.BadRequest("Played at lies in the future")
	}
	return nil
}

func (s *Games) DeleteStatistic(actor *domain.User, id int64) error {
	if _, err := s.statistic(actor, id); err != nil {
		return err
	}
	return s.storage.DeleteStatistic(id)
}
