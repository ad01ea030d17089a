package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"secure-notes/models"
	"secure-notes/result"
)

type NoteResult = result.Result[models.Note, Failure]

// GetNoteByID returns the note only when it exists and belongs to userID.
// Another user's note is reported exactly like a missing one.
func (s *Store) GetNoteByID(ctx context.Context, noteID, userID int64) NoteResult {
	var n models.Note
	err := s.conn.QueryRowContext(ctx,
		s.dialect.Rebind("SELECT id, user_id, content FROM notes WHERE id = ? AND user_id = ?"),
		noteID, userID,
	).Scan(&n.ID, &n.UserID, &n.Content)
	if errors.Is(err, sql.ErrNoRows) {
		return result.Failure[models.Note](notFound(MsgNoteNotFound))
	}
	if err != nil {
		return result.Failure[models.Note](s.fault(ctx, "get_note_by_id", err))
	}
	return result.Success[models.Note, Failure](n)
}

// GetNotesForUser lists the user's notes in creation order. No notes is an
// empty, non-nil slice.
func (s *Store) GetNotesForUser(ctx context.Context, userID int64) result.Result[[]models.Note, Failure] {
	rows, err := s.conn.QueryContext(ctx,
		s.dialect.Rebind("SELECT id, user_id, content FROM notes WHERE user_id = ? ORDER BY id ASC"),
		userID,
	)
	if err != nil {
		return result.Failure[[]models.Note](s.fault(ctx, "get_notes_for_user", err))
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.UserID, &n.Content); err != nil {
			return result.Failure[[]models.Note](s.fault(ctx, "get_notes_for_user", err))
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return result.Failure[[]models.Note](s.fault(ctx, "get_notes_for_user", err))
	}
	return result.Success[[]models.Note, Failure](notes)
}

func (s *Store) CreateNoteForUser(ctx context.Context, userID int64, content string) NoteResult {
	if strings.TrimSpace(content) == "" {
		return result.Failure[models.Note](Failure{Kind: KindEmptyInput, Message: MsgNoteEmpty})
	}

	id, err := s.insert(ctx, "INSERT INTO notes (user_id, content) VALUES (?, ?)", userID, content)
	if err != nil {
		return result.Failure[models.Note](s.fault(ctx, "create_note_for_user", err))
	}
	return result.Success[models.Note, Failure](models.Note{ID: id, UserID: userID, Content: content})
}

// EditNote replaces the content of a note owned by userID. Zero affected
// rows means the note is missing or belongs to someone else.
func (s *Store) EditNote(ctx context.Context, noteID, userID int64, content string) NoteResult {
	if strings.TrimSpace(content) == "" {
		return result.Failure[models.Note](Failure{Kind: KindEmptyInput, Message: MsgNoteEmpty})
	}

	n, err := s.exec(ctx, "UPDATE notes SET content = ? WHERE id = ? AND user_id = ?", content, noteID, userID)
	if err != nil {
		return result.Failure[models.Note](s.fault(ctx, "edit_note", err))
	}
	if n == 0 {
		return result.Failure[models.Note](notFound(MsgNoteNotOwned))
	}
	return result.Success[models.Note, Failure](models.Note{ID: noteID, UserID: userID, Content: content})
}

func (s *Store) DeleteNote(ctx context.Context, noteID, userID int64) result.Result[struct{}, Failure] {
	n, err := s.exec(ctx, "DELETE FROM notes WHERE id = ? AND user_id = ?", noteID, userID)
	if err != nil {
		return result.Failure[struct{}](s.fault(ctx, "delete_note", err))
	}
	if n == 0 {
		return result.Failure[struct{}](notFound(MsgNoteNotOwned))
	}
	return result.Success[struct{}, Failure](struct{}{})
}
