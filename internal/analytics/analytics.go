package analytics

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

type CtxKey string

const ctxUserIDKey CtxKey = "analytics_user_id"

// Envelope is what we store with every event.
type Envelope struct {
	UserID int
}

// Execer is the slice of *sql.DB that Log needs.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, ctxUserIDKey, userID)
}

func UserIDFromContext(ctx context.Context) (int, bool) {
	v := ctx.Value(ctxUserIDKey)
	if v == nil {
		return 0, false
	}
	uid, ok := v.(int)
	return uid, ok
}

// Log inserts one analytics event.
// Never logs sensitive raw text; caller passes sanitized props.
// Analytics must never break the core flow, so errors are swallowed.
func Log(ctx context.Context, db Execer, env Envelope, eventName string, props any) {
	if eventName == "" {
		return
	}

	userID := env.UserID
	if userID == 0 {
		uid, ok := UserIDFromContext(ctx)
		if !ok {
			// no user => skip
			return
		}
		userID = uid
	}

	b, err := json.Marshal(props)
	if err != nil {
		return
	}

	_, _ = db.ExecContext(ctx, `
		INSERT INTO analytics_events (event_name, event_time, user_id, properties)
		VALUES ($1, $2, $3, $4::jsonb)
	`, eventName, time.Now().UTC(), userID, string(b))
}
