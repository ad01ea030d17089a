package store

// Kind classifies a Failure so callers can decide what is safe to show.
type Kind string

const (
	KindNotFound           Kind = "NOT_FOUND"
	KindAlreadyExists      Kind = "ALREADY_EXISTS"
	KindEmptyInput         Kind = "EMPTY_INPUT"
	KindInvalidInput       Kind = "INVALID_INPUT"
	KindInvalidCredentials Kind = "INVALID_CREDENTIALS"
	KindStorageFault       Kind = "STORAGE_FAULT"
)

const (
	MsgUserNotFound     = "User not found."
	MsgUsernameTaken    = "This username is already taken."
	MsgNewPasswordEmpty = "New password cannot be empty."
	MsgWrongPassword    = "Current password is incorrect."
	MsgPasswordTooLong  = "Password must be at most 72 bytes long."
	MsgNoteNotFound     = "Note not found."
	MsgNoteNotOwned     = "No note with that id owned by this user."
	MsgNoteEmpty        = "Note content cannot be empty."
	MsgStorageFault     = "A database error occurred."
)

// Failure is the failure payload of every store operation. Message is
// user-facing; for KindStorageFault it is deliberately generic and the
// driver error is only logged.
type Failure struct {
	Kind    Kind
	Message string
}

func (f Failure) Error() string { return f.Message }

func (f Failure) IsKind(kind Kind) bool { return f.Kind == kind }

func notFound(msg string) Failure { return Failure{Kind: KindNotFound, Message: msg} }
