package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Repos bundles every repository bound to the same connection. Inside
// Transactor.WithinTx all of them share one transaction.
type Repos struct {
	Users         UserRepo
	Trips         TripRepo
	Days          DayRepo
	Activities    ActivityRepo
	Transports    TransportRepo
	Checklist     ChecklistRepo
	Expenses      ExpenseRepo
	Friends       FriendRepo
	Blogs         BlogRepo
	Posts         PostRepo
	Comments      CommentRepo
	Photos        PhotoRepo
	Tags          TagRepo
	Notifications NotificationRepo
}

// New builds all repositories on top of db.
func New(db db) Repos {
	return Repos{
		Users:         NewUserRepo(db),
		Trips:         NewTripRepo(db),
		Days:          NewDayRepo(db),
		Activities:    NewActivityRepo(db),
		Transports:    NewTransportRepo(db),
		Checklist:     NewChecklistRepo(db),
		Expenses:      NewExpenseRepo(db),
		Friends:       NewFriendRepo(db),
		Blogs:         NewBlogRepo(db),
		Posts:         NewPostRepo(db),
		Comments:      NewCommentRepo(db),
		Photos:        NewPhotoRepo(db),
		Tags:          NewTagRepo(db),
		Notifications: NewNotificationRepo(db),
	}
}

// Transactor runs a unit of work atomically. Services that write more than
// one row depend on it rather than on a pool.
type Transactor interface {
	// WithinTx calls fn with repositories bound to a fresh transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(Repos) error) error
}

// beginner is satisfied by *pgxpool.Pool and pgx.Tx (nested calls become
// savepoints).
type beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type pgTransactor struct {
	db beginner
}

// NewTransactor constructs a Transactor that opens transactions on db.
func NewTransactor(db beginner) Transactor {
	return &pgTransactor{db: db}
}

// WithinTx returns errors from fn unchanged; begin and commit failures are
// wrapped.
func (t *pgTransactor) WithinTx(ctx context.Context, fn func(Repos) error) error {
	var fnErr error
	err := pgx.BeginFunc(ctx, t.db, func(tx pgx.Tx) error {
		fnErr = fn(New(tx))
		return fnErr
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return fmt.Errorf("repo.Transactor.WithinTx: %w", err)
	}
	return nil
}
