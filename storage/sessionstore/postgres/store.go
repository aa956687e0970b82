package pgstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/walimu/walimu/core"
	"github.com/walimu/walimu/core/session"
)

// store persists sessions in the one table this service owns (see
// migrations/00001_create_sessions.sql). The token and profile columns are the
// row's two entries: written in a single statement, dropped together, and
// filtered out once expires_at passes.
type store struct {
	db  *sqlx.DB
	ttl time.Duration
}

var _ session.Store = (*store)(nil)

func New(db *sql.DB, conf *core.Config) *store {
	return &store{
		db:  sqlx.NewDb(db, conf.Database.Engine),
		ttl: conf.Session.TTL,
	}
}

func (s *store) Save(ctx context.Context, sid string, sess session.Session) error {
	data, err := json.Marshal(sess.User)
	if err != nil {
		return errors.Wrap(err, "encoding profile")
	}

	const q = `
		INSERT INTO sessions (sid, token, profile, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (sid) DO UPDATE
		SET token = EXCLUDED.token, profile = EXCLUDED.profile, expires_at = EXCLUDED.expires_at`
	if _, err = s.db.ExecContext(ctx, q, sid, sess.Token, data, time.Now().UTC().Add(s.ttl)); err != nil {
		if errors.Cause(err) == sql.ErrConnDone {
			return core.NewShutdownError("database connection gone")
		}
		return errors.Wrap(err, "saving session")
	}
	return nil
}

func (s *store) Get(ctx context.Context, sid string) (session.Session, error) {
	var row struct {
		Token   string `db:"token"`
		Profile []byte `db:"profile"`
	}
	const q = `SELECT token, profile FROM sessions WHERE sid = $1 AND expires_at > NOW()`
	if err := s.db.GetContext(ctx, &row, q, sid); err != nil {
		if err == sql.ErrNoRows {
			return session.Session{}, session.ErrNotFound
		}
		if err == sql.ErrConnDone {
			return session.Session{}, core.NewShutdownError("database connection gone")
		}
		return session.Session{}, errors.Wrap(err, "loading session")
	}
	if row.Token == "" {
		return session.Session{}, session.ErrNotFound
	}

	var profile session.UserProfile
	if err := json.Unmarshal(row.Profile, &profile); err != nil {
		return session.Session{}, errors.Wrap(err, "decoding profile")
	}
	return session.Session{SID: sid, Token: row.Token, User: &profile}, nil
}

func (s *store) Delete(ctx context.Context, sid string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE sid = $1`, sid)
	return errors.Wrap(err, "deleting session")
}

// PurgeExpired removes sessions past their TTL; called from the admin CLI.
func (s *store) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, errors.Wrap(err, "purging sessions")
	}
	return res.RowsAffected()
}
