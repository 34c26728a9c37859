package storage

import (
	"database/sql"
	"fmt"

	"github.com/mindgames-dev/mindgames/internal/domain"
	"github.com/mindgames-dev/mindgames/internal/storage/facade"
	"github.com/mindgames-dev/mindgames/internal/storage/sqldb"
)

// =========================================================================
// Game settings
// =========================================================================

func (s *Storage) GameSettings(patientId domain.UserId) ([]domain.GameSetting, error) {
	ctx, cancel := timeout()
	defer cancel()
	return all(ctx, s.db, s.f.settings, facade.NewFilter().Eq("g.patient_id", patientId),
		[]facade.Order{facade.Asc("g.game")}, domain.Page{}, scanGameSetting)
}

func (s *Storage) GameSetting(patientId domain.UserId, game domain.Game) (domain.GameSetting, error) {
	ctx, cancel := timeout()
	defer cancel()
	filter := facade.NewFilter().Eq("g.patient_id", patientId).Eq("g.game", game)
	return one(ctx, s.db, s.f.settings, filter, "Game setting", scanGameSetting)
}

// SaveGameSetting inserts the settings of a game or replaces existing ones.
func (s *Storage) SaveGameSetting(gs domain.GameSetting) error {
	ctx, cancel := timeout()
	defer cancel()
	now := s.now()
	attrs := facade.NewAttributes().
		Set("patient_id", gs.PatientId).
		Set("game", gs.Game).
		Set("settings", jsonArg(gs.Settings)).
		Set("created", now).
		Set("modified", now)
	query, args, err := s.f.settings.UpsertQuery(attrs, []string{"patient_id", "game"}, []string{"settings", "modified"})
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return sqldb.MapError(fmt.Errorf("failed to save game setting: %w", err), "Game setting")
	}
	return nil
}

func (s *Storage) DeleteGameSetting(patientId domain.UserId, game domain.Game) error {
	ctx, cancel := timeout()
	defer cancel()
	query, args, err := s.f.settings.DeleteQuery(facade.NewFilter().Eq("patient_id", patientId).Eq("game", game))
	return exec(ctx, s.db, query, args, err, "Game setting")
}

func scanGameSetting(r scanner) (domain.GameSetting, error) {
	var (
		gs       domain.GameSetting
		settings []byte
	)
	if err := r.Scan(&gs.Id, &gs.PatientId, &gs.Game, &settings, &gs.Created, &gs.Modified); err != nil {
		return domain.GameSetting{}, err
	}
	gs.Settings = settings
	gs.Created = gs.Created.UTC()
	gs.Modified = gs.Modified.UTC()
	return gs, nil
}

// =========================================================================
// Statistics
// =========================================================================

func (s *Storage) CreateStatistic(st domain.Statistic) (int64, error) {
	ctx, cancel := timeout()
	defer cancel()
	now := s.now()
	attrs := facade.NewAttributes().
		Set("patient_id", st.PatientId).
		Set("game", st.Game).
		Set("level", st.Level).
		Set("score", st.Score).
		Set("duration_ms", st.DurationMs).
		Set("played_at", st.PlayedAt.UTC()).
		Set("data", jsonArg(st.Data)).
		Set("created", now).
		Set("modified", now)
	id, err := insert(ctx, s.db, s.f.statistics, attrs)
	if err != nil {
		return 0, sqldb.MapError(fmt.Errorf("failed to insert statistic: %w", err), "Statistic")
	}
	return id, nil
}

func (s *Storage) Statistic(id int64) (domain.Statistic, error) {
	ctx, cancel := timeout()
	defer cancel()
	return one(ctx, s.db, s.f.statistics, facade.NewFilter().Eq("s.id", id), "Statistic", scanStatistic)
}

// statisticSource picks the facade and filter for a query. Therapist scoped
// queries need the patients join.
func (s *Storage) statisticSource(q domain.StatisticQuery) (*facade.Facade, *facade.Filter) {
	f := s.f.statistics
	filter := facade.NewFilter()
	if q.TherapistId != 0 {
		f = s.f.patientStatistics
		filter.Eq("p.therapist_id", q.TherapistId)
	}
	if q.PatientId != 0 {
		filter.Eq("s.patient_id", q.PatientId)
	}
	if q.Game != "" {
		filter.Eq("s.game", q.Game)
	}
	if q.From != nil {
		filter.Gte("s.played_at", q.From.UTC())
	}
	if q.To != nil {
		filter.Lte("s.played_at", q.To.UTC())
	}
	return f, filter
}

func (s *Storage) Statistics(q domain.StatisticQuery) (domain.List[domain.Statistic], error) {
	ctx, cancel := timeout()
	defer cancel()
	f, filter := s.statisticSource(q)
	order := []facade.Order{facade.Desc("s.played_at"), facade.Desc("s.id")}
	if q.Ascending {
		order = []facade.Order{facade.Asc("s.played_at"), facade.Asc("s.id")}
	}
	return list(ctx, s.db, f, filter, order, q.Page, scanStatistic)
}

// StatisticSummary aggregates the matching statistics per game.
func (s *Storage) StatisticSummary(q domain.StatisticQuery) ([]domain.StatisticSummary, error) {
	ctx, cancel := timeout()
	defer cancel()
	f, filter := s.statisticSource(q)
	query, args := f.AggregateQuery(
		[]string{"s.game", "COUNT(*)", "AVG(s.score)", "MAX(s.score)", "SUM(s.duration_ms)"},
		filter, []string{"s.game"}, []facade.Order{facade.Asc("s.game")})

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query statistic summary: %w", err)
	}
	defer rows.Close()

	summary := make([]domain.StatisticSummary, 0)
	for rows.Next() {
		var (
			item     domain.StatisticSummary
			avgScore sql.NullFloat64
			maxScore sql.NullInt64
			duration sql.NullInt64
		)
		if err := rows.Scan(&item.Game, &item.Count, &avgScore, &maxScore, &duration); err != nil {
			return nil, fmt.Errorf("failed to scan statistic summary: %w", err)
		}
		item.AvgScore = avgScore.Float64
		item.MaxScore = maxScore.Int64
		item.TotalDurationMs = duration.Int64
		summary = append(summary, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return summary, nil
}

func (s *Storage) UpdateStatistic(id int64, upd domain.StatisticUpdate) error {
	ctx, cancel := timeout()
	defer cancel()
	attrs := facade.NewAttributes()
	if upd.Level != nil {
		attrs.Set("level", *upd.Level)
	}
	if upd.Score != nil {
		attrs.Set("score", *upd.Score)
	}
	if upd.DurationMs != nil {
		attrs.Set("duration_ms", *upd.DurationMs)
	}
	if upd.PlayedAt != nil {
		attrs.Set("played_at", upd.PlayedAt.UTC())
	}
	if len(upd.Data) > 0 {
		attrs.Set("data", jsonArg(upd.Data))
	}
	if attrs.Len() == 0 {
		return nil
	}
	attrs.Set("modified", s.now())
	query, args, err := s.f.statistics.UpdateQuery(attrs, facade.NewFilter().Eq("id", id))
	return exec(ctx, s.db, query, args, err, "Statistic")
}

func (s *Storage) DeleteStatistic(id int64) error {
	ctx, cancel := timeout()
	defer cancel()
	query, args, err := s.f.statistics.DeleteQuery(facade.NewFilter().Eq("id", id))
	return exec(ctx, s.db, query, args, err, "Statistic")
}

func scanStatistic(r scanner) (domain.Statistic, error) {
	var (
		st   domain.Statistic
		data []byte
	)
	if err := r.Scan(&st.Id, &st.PatientId, &st.Game, &st.Level, &st.Score, &st.DurationMs,
		&st.PlayedAt, &data, &st.Created, &st.Modified); err != nil {
		return domain.Statistic{}, err
	}
	if len(data) > 0 {
		st.Data = data
	}
	st.PlayedAt = st.PlayedAt.UTC()
	st.Created = st.Created.UTC()
	st.Modified = st.Modified.UTC()
	return st, nil
}
