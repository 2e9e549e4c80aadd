package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dmchat/internal/app/db"
	"dmchat/internal/app/model"
)

// Postgres implements Store on top of a pgx connection pool. Schema is owned
// by the goose migrations embedded in the db package.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps an initialized pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const userColumns = `id, username, email, first_name, last_name, password_hash,
	COALESCE(profile_photo, ''), is_online, last_seen, created_at`

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName,
		&u.PasswordHash, &u.ProfilePhoto, &u.IsOnline, &u.LastSeen, &u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

func (p *Postgres) GetUser(ctx context.Context, id string) (model.User, error) {
	return scanUser(p.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (p *Postgres) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	return scanUser(p.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return scanUser(p.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (p *Postgres) CreateUser(ctx context.Context, nu NewUser) (model.User, error) {
	u, err := scanUser(p.pool.QueryRow(ctx,
		`INSERT INTO users (username, email, first_name, last_name, password_hash, profile_photo)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
		 RETURNING `+userColumns,
		nu.Username, nu.Email, nu.FirstName, nu.LastName, nu.PasswordHash, nu.ProfilePhoto))
	if db.IsUniqueViolation(err) {
		return model.User{}, ErrDuplicate
	}
	return u, err
}

func (p *Postgres) UpdateUser(ctx context.Context, id string, upd UserUpdate) (model.User, error) {
	u, err := scanUser(p.pool.QueryRow(ctx,
		`UPDATE users SET
			first_name    = COALESCE($2, first_name),
			last_name     = COALESCE($3, last_name),
			email         = COALESCE($4, email),
			profile_photo = COALESCE($5, profile_photo)
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, upd.FirstName, upd.LastName, upd.Email, upd.ProfilePhoto))
	if db.IsUniqueViolation(err) {
		return model.User{}, ErrDuplicate
	}
	return u, err
}

const conversationColumns = `id, participant1_id, participant2_id, last_message_at, created_at`

func scanConversation(row pgx.Row) (model.Conversation, error) {
	var c model.Conversation
	err := row.Scan(&c.ID, &c.Participant1ID, &c.Participant2ID, &c.LastMessageAt, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Conversation{}, ErrNotFound
	}
	return c, err
}

func (p *Postgres) GetConversation(ctx context.Context, userAID, userBID string) (model.Conversation, error) {
	return scanConversation(p.pool.QueryRow(ctx,
		`SELECT `+conversationColumns+` FROM conversations
		 WHERE (participant1_id = $1 AND participant2_id = $2)
		    OR (participant1_id = $2 AND participant2_id = $1)`,
		userAID, userBID))
}

func (p *Postgres) CreateConversation(ctx context.Context, userAID, userBID string) (model.Conversation, error) {
	c, err := scanConversation(p.pool.QueryRow(ctx,
		`INSERT INTO conversations (participant1_id, participant2_id)
		 VALUES ($1, $2)
		 RETURNING `+conversationColumns,
		userAID, userBID))
	if db.IsUniqueViolation(err) {
		return model.Conversation{}, ErrDuplicate
	}
	return c, err
}

func (p *Postgres) ListUserConversations(ctx context.Context, userID string) ([]model.ConversationSummary, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT c.id, c.participant1_id, c.participant2_id, c.last_message_at, c.created_at,
		        u.id, u.username, u.email, u.first_name, u.last_name,
		        COALESCE(u.profile_photo, ''), u.is_online, u.last_seen, u.created_at,
		        m.id, m.conversation_id, m.sender_id,
		        COALESCE(m.content, ''), COALESCE(m.image_url, ''), m.created_at
		 FROM conversations c
		 JOIN users u
		   ON u.id = CASE WHEN c.participant1_id = $1 THEN c.participant2_id ELSE c.participant1_id END
		 LEFT JOIN LATERAL (
			SELECT id, conversation_id, sender_id, content, image_url, created_at
			FROM messages
			WHERE conversation_id = c.id
			ORDER BY created_at DESC
			LIMIT 1
		 ) m ON TRUE
		 WHERE c.participant1_id = $1 OR c.participant2_id = $1
		 ORDER BY c.last_message_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]model.ConversationSummary, 0)
	for rows.Next() {
		var s model.ConversationSummary
		var msgID, msgConvID, msgSenderID, msgContent, msgImageURL *string
		var msgTimestamp *time.Time

		err := rows.Scan(
			&s.ID, &s.Participant1ID, &s.Participant2ID, &s.LastMessageAt, &s.CreatedAt,
			&s.OtherUser.ID, &s.OtherUser.Username, &s.OtherUser.Email,
			&s.OtherUser.FirstName, &s.OtherUser.LastName, &s.OtherUser.ProfilePhoto,
			&s.OtherUser.IsOnline, &s.OtherUser.LastSeen, &s.OtherUser.CreatedAt,
			&msgID, &msgConvID, &msgSenderID, &msgContent, &msgImageURL, &msgTimestamp,
		)
		if err != nil {
			return nil, err
		}

		if msgID != nil {
			s.LastMessage = &model.Message{
				ID:             *msgID,
				ConversationID: *msgConvID,
				SenderID:       *msgSenderID,
				Content:        *msgContent,
				ImageURL:       *msgImageURL,
				Timestamp:      *msgTimestamp,
			}
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

const messageColumns = `id, conversation_id, sender_id,
	COALESCE(content, ''), COALESCE(image_url, ''), created_at`

func scanMessage(row pgx.Row) (model.Message, error) {
	var m model.Message
	err := row.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.ImageURL, &m.Timestamp)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Message{}, ErrNotFound
	}
	return m, err
}

func (p *Postgres) ListMessages(ctx context.Context, conversationID string) ([]model.Message, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT `+messageColumns+` FROM messages
		 WHERE conversation_id = $1
		 ORDER BY created_at ASC`,
		conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]model.Message, 0)
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.ImageURL, &m.Timestamp); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (p *Postgres) CreateMessage(ctx context.Context, nm NewMessage) (model.Message, error) {
	// The insert and the conversation activity bump commit together so the
	// sidebar ordering never lags a persisted message.
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return model.Message{}, err
	}
	defer tx.Rollback(ctx)

	m, err := scanMessage(tx.QueryRow(ctx,
		`INSERT INTO messages (conversation_id, sender_id, content, image_url)
		 VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''))
		 RETURNING `+messageColumns,
		nm.ConversationID, nm.SenderID, nm.Content, nm.ImageURL))
	if err != nil {
		return model.Message{}, err
	}

	_, err = tx.Exec(ctx,
		`UPDATE conversations SET last_message_at = $2 WHERE id = $1`,
		nm.ConversationID, m.Timestamp)
	if err != nil {
		return model.Message{}, err
	}

	return m, tx.Commit(ctx)
}

func (p *Postgres) listUsers(ctx context.Context, query string) ([]model.User, error) {
	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		err := rows.Scan(
			&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName,
			&u.PasswordHash, &u.ProfilePhoto, &u.IsOnline, &u.LastSeen, &u.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (p *Postgres) ListUsers(ctx context.Context) ([]model.User, error) {
	return p.listUsers(ctx, `SELECT `+userColumns+` FROM users ORDER BY username ASC`)
}

func (p *Postgres) ListOnlineUsers(ctx context.Context) ([]model.User, error) {
	return p.listUsers(ctx, `SELECT `+userColumns+` FROM users WHERE is_online ORDER BY username ASC`)
}

func (p *Postgres) SetUserOnlineStatus(ctx context.Context, userID string, online bool) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE users SET is_online = $2, last_seen = now() WHERE id = $1`,
		userID, online)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
