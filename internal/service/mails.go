package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/mindgames-dev/mindgames/internal/domain"
	"github.com/mindgames-dev/mindgames/internal/logger"
)

type mail struct {
	subject string
	body    string
}

type mailTemplate struct {
	subject string
	body    string
}

// Bodies are fmt formats, arguments are listed per template.
var mailTemplates = map[string]map[domain.Language]mailTemplate{
	// code, minutes valid
	"reset_code": {
		"de": {"Passwort zurücksetzen", "Hallo,\n\nIhr Code zum Zurücksetzen des Passworts lautet:\n\n%s\n\nDer Code ist %d Minuten gültig. Wenn Sie das nicht angefordert haben, ignorieren Sie diese E-Mail.\n"},
		"en": {"Reset your password", "Hello,\n\nyour password reset code is:\n\n%s\n\nThe code is valid for %d minutes. If you did not request this, please ignore this email.\n"},
	},
	// firstname, lastname, email, institution
	"therapist_registered": {
		"de": {"Neue Therapeuten-Registrierung", "Neue Registrierung:\n\n%s %s <%s>\nEinrichtung: %s\n\nBitte prüfen und freischalten.\n"},
		"en": {"New therapist registration", "New registration:\n\n%s %s <%s>\nInstitution: %s\n\nPlease review and accept.\n"},
	},
	// firstname
	"registration_received": {
		"de": {"Registrierung eingegangen", "Hallo %s,\n\nvielen Dank für Ihre Registrierung. Sie erhalten eine Nachricht, sobald Ihr Zugang freigeschaltet ist.\n"},
		"en": {"Registration received", "Hello %s,\n\nthank you for registering. You will be notified as soon as your account is activated.\n"},
	},
	// firstname
	"therapist_accepted": {
		"de": {"Zugang freigeschaltet", "Hallo %s,\n\nIhr Zugang wurde freigeschaltet. Sie können sich jetzt anmelden.\n"},
		"en": {"Account activated", "Hello %s,\n\nyour account has been activated. You can log in now.\n"},
	},
	// firstname, username, password line
	"patient_created": {
		"de": {"Ihr Zugang", "Hallo %s,\n\nfür Sie wurde ein Zugang angelegt.\n\nBenutzername: %s\n%s\n"},
		"en": {"Your account", "Hello %s,\n\nan account has been created for you.\n\nUsername: %s\n%s\n"},
	},
}

var passwordLine = map[domain.Language]string{
	"de": "Passwort: %s",
	"en": "Password: %s",
}

func buildMail(name string, lang domain.Language, args ...any) mail {
	byLang := mailTemplates[name]
	t, ok := byLang[strings.ToLower(lang)]
	if !ok {
		t = byLang["de"]
	}
	return mail{subject: t.subject, body: fmt.Sprintf(t.body, args...)}
}

func resetCodeMail(lang domain.Language, code string, ttl time.Duration) mail {
	return buildMail("reset_code", lang, code, int(ttl.Minutes()))
}

func patientCreatedMail(lang domain.Language, firstname, username, password string) mail {
	line := ""
	if password != "" {
		f, ok := passwordLine[strings.ToLower(lang)]
		if !ok {
			f = passwordLine["de"]
		}
		line = fmt.Sprintf(f, password)
	}
	return buildMail("patient_created", lang, firstname, username, line)
}

// notify sends a mail whose failure must not fail the surrounding operation.
func notify(sender Email, to domain.Email, m mail) {
	if err := sender.Send(to, m.subject, m.body); err != nil {
		logger.Log.Warn("notification not delivered", "recipient", to, "subject", m.subject, "error", err)
	}
}
