// Package history records reduction traces into a local sqlite database,
// one session per engine handle.
package history

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	file       TEXT NOT NULL,
	started_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS steps (
	session_id TEXT    NOT NULL REFERENCES sessions(id),
	step       INTEGER NOT NULL,
	redex      TEXT    NOT NULL,
	contractum TEXT    NOT NULL,
	result     TEXT    NOT NULL,
	PRIMARY KEY (session_id, step)
);
`

// Recorder appends reduction steps for one session.
type Recorder struct {
	db      *sql.DB
	session string
	step    int
}

// Open opens (creating if needed) the trace database at path and starts a
// session.
func Open(path, sessionID, file string) (*Recorder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	_, err = db.Exec(`INSERT INTO sessions (id, file, started_at) VALUES (?, ?, ?)`,
		sessionID, file, time.Now().Unix())
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Recorder{db: db, session: sessionID}, nil
}

// Record appends one reduction step: the redex picked, its contractum,
// and the main expression after the rewrite.
func (r *Recorder) Record(redex, contractum, result string) error {
	r.step++
	_, err := r.db.Exec(
		`INSERT INTO steps (session_id, step, redex, contractum, result) VALUES (?, ?, ?, ?, ?)`,
		r.session, r.step, redex, contractum, result)
	return err
}

// Steps returns how many steps have been recorded this session.
func (r *Recorder) Steps() int { return r.step }

func (r *Recorder) Close() error { return r.db.Close() }
