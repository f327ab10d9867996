package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// User is an account on the lint dashboard. Role is either "admin",
// which may create and revoke waivers, or "viewer", which is read-only.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func tsNow() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func parseTS(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// CreateUser inserts an account with an already-hashed password and
// returns its id. Duplicate usernames fail on the unique constraint.
func (db *DB) CreateUser(username, passHash, role string) (int64, error) {
	res, err := db.conn.Exec(
		`INSERT INTO users(username, pass_hash, role, created_at) VALUES(?,?,?,?)`,
		username, passHash, role, tsNow())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetUserByUsername returns the account and its password hash. The hash
// stays out of the User struct so it never reaches a JSON response.
func (db *DB) GetUserByUsername(username string) (User, string, error) {
	row := db.conn.QueryRow(
		`SELECT id, username, role, created_at, pass_hash FROM users WHERE username=?`,
		username)
	var u User
	var passHash, created string
	if err := row.Scan(&u.ID, &u.Username, &u.Role, &created, &passHash); err != nil {
		return User{}, "", err
	}
	u.CreatedAt = parseTS(created)
	return u, passHash, nil
}

// CreateSession records a login token with its expiry.
func (db *DB) CreateSession(userID int64, token string, expires time.Time) error {
	return execOne(db.conn,
		`INSERT INTO sessions(token, user_id, expires_at, created_at) VALUES(?,?,?,?)`,
		token, userID, expires.UTC().Format(time.RFC3339Nano), tsNow())
}

// GetSession resolves a token to its user. Expired tokens are treated
// the same as unknown ones; cleanup of stale rows is left to the
// database, a miss here is the only contract.
func (db *DB) GetSession(token string) (User, error) {
	row := db.conn.QueryRow(`
SELECT u.id, u.username, u.role, u.created_at
FROM sessions s JOIN users u ON s.user_id=u.id
WHERE s.token=? AND s.expires_at > ?`, token, tsNow())
	var u User
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.Role, &created); err != nil {
		return User{}, err
	}
	u.CreatedAt = parseTS(created)
	return u, nil
}

// DeleteSession invalidates a token on logout.
func (db *DB) DeleteSession(token string) error {
	return execOne(db.conn, `DELETE FROM sessions WHERE token=?`, token)
}

// LogAudit appends one row to the audit trail. Waiver mutations go
// through here so suppressed lint findings stay attributable.
func (db *DB) LogAudit(username, action, resource string, meta map[string]any) error {
	metaJSON, _ := json.Marshal(meta)
	_, err := db.conn.Exec(
		`INSERT INTO audit(ts, username, action, resource, meta_json) VALUES(?,?,?,?,?)`,
		tsNow(), username, action, resource, string(metaJSON))
	return err
}

// execOne runs a statement that must touch at least one row.
func execOne(db *sql.DB, q string, args ...any) error {
	res, err := db.Exec(q, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New("no rows affected")
	}
	return nil
}
