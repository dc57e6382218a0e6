package schemas

import (
	"database/sql"
	"strings"
	"time"
)

// LegacyProspect is a row of the previous CRM's prospects table.
type LegacyProspect struct {
	ID          int64
	Company     sql.NullString
	ContactName sql.NullString
	Email       sql.NullString
	Phone       sql.NullString
	Source      sql.NullString
	Status      sql.NullString
	Notes       sql.NullString
	CreatedAt   sql.NullTime
}

var legacyStatuses = map[string]string{
	"nouveau":  PROSPECT_STATUS_NEW,
	"new":      PROSPECT_STATUS_NEW,
	"contacte": PROSPECT_STATUS_CONTACTED,
	"contacté": PROSPECT_STATUS_CONTACTED,
	"qualifie": PROSPECT_STATUS_QUALIFIED,
	"qualifié": PROSPECT_STATUS_QUALIFIED,
	"perdu":    PROSPECT_STATUS_LOST,
	"lost":     PROSPECT_STATUS_LOST,
}

// ToProspect maps the row to a prospect. Unknown legacy statuses become
// Nouveau; a legacy conversion is not carried over since the client
// record does not exist here.
func (l LegacyProspect) ToProspect(now time.Time) Prospect {
	status, ok := legacyStatuses[strings.ToLower(strings.TrimSpace(l.Status.String))]
	if !ok {
		status = PROSPECT_STATUS_NEW
	}

	createdAt := now
	if l.CreatedAt.Valid {
		createdAt = l.CreatedAt.Time
	}

	source := strings.TrimSpace(l.Source.String)
	if source == "" {
		source = "legacy"
	}

	return Prospect{
		LegacyID:    l.ID,
		Company:     strings.TrimSpace(l.Company.String),
		ContactName: strings.TrimSpace(l.ContactName.String),
		Email:       strings.ToLower(strings.TrimSpace(l.Email.String)),
		Phone:       strings.TrimSpace(l.Phone.String),
		Source:      source,
		Status:      status,
		Notes:       l.Notes.String,
		CreatedAt:   createdAt,
		UpdatedAt:   now,
	}
}
