package storage

import "github.com/mindgames-dev/mindgames/internal/storage/facade"

var userColumns = []string{
	"u.id", "u.email", "u.username", "u.password", "u.role", "u.status", "u.language",
	"u.last_login", "u.failed_logins", "u.created", "u.modified",
}

// facades holds the table and composite facades of every entity.
type facades struct {
	users      *facade.Facade
	therapists *facade.Facade // therapists joined with users
	patients   *facade.Facade // patients joined with users and therapists
	settings   *facade.Facade
	statistics *facade.Facade
	// statistics joined with patients, for therapist scoped reads
	patientStatistics *facade.Facade
	errortexts        *facade.Facade
	helptexts         *facade.Facade
	logs              *facade.Facade
	smtpLogs          *facade.Facade

	therapistTable *facade.Facade
	patientTable   *facade.Facade
}

func newFacades(d facade.Dialect) facades {
	users := facade.New(d, "users", "u").Key("id").Select(userColumns...)

	therapistTable := facade.New(d, "therapists", "t").
		Select("t.user_id", "t.firstname", "t.lastname", "t.phone", "t.institution", "t.status")
	therapists := therapistTable.Join(facade.Join{
		Kind: facade.InnerJoin, Table: "users", Alias: "u", Left: "u.id", Right: "t.user_id",
	}, userColumns...)

	patientTable := facade.New(d, "patients", "p").
		Select("p.user_id", "p.therapist_id", "p.firstname", "p.lastname", "p.birthdate", "p.info")
	patients := patientTable.
		Join(facade.Join{Kind: facade.InnerJoin, Table: "users", Alias: "u", Left: "u.id", Right: "p.user_id"}, userColumns...).
		Join(facade.Join{Kind: facade.LeftJoin, Table: "therapists", Alias: "t", Left: "t.user_id", Right: "p.therapist_id"}, "t.firstname", "t.lastname")

	statistics := facade.New(d, "statistics", "s").Key("id").
		Select("s.id", "s.patient_id", "s.game", "s.level", "s.score", "s.duration_ms", "s.played_at", "s.data", "s.created", "s.modified")

	return facades{
		users:          users,
		therapists:     therapists,
		patients:       patients,
		therapistTable: therapistTable,
		patientTable:   patientTable,
		settings: facade.New(d, "game_settings", "g").Key("id").
			Select("g.id", "g.patient_id", "g.game", "g.settings", "g.created", "g.modified"),
		statistics: statistics,
		patientStatistics: statistics.Join(facade.Join{
			Kind: facade.InnerJoin, Table: "patients", Alias: "p", Left: "p.user_id", Right: "s.patient_id",
		}),
		errortexts: facade.New(d, "errortexts", "e").Key("id").
			Select("e.id", "e.code", "e.language", "e.text", "e.severity", "e.created", "e.modified"),
		helptexts: facade.New(d, "helptexts", "h").Key("id").
			Select("h.id", "h.name", "h.page", "h.language", "h.markdown", "h.created", "h.modified"),
		logs: facade.New(d, "logs", "l").Key("id").
			Select("l.id", "l.user_id", "l.level", "l.source", "l.method", "l.url", "l.message", "l.created"),
		smtpLogs: facade.New(d, "smtp_logs", "m").Key("id").
			Select("m.id", "m.recipient", "m.subject", "m.status", "m.error", "m.created"),
	}
}
