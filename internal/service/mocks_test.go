package service_test

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/travelhub/backend/internal/domain"
	"github.com/travelhub/backend/internal/repo"
)

// The mocks below are hand-written test doubles for the repo interfaces.
// Each method is a function field: set only the ones your test needs. A call
// to an unset field panics, which points straight at the unexpected call.

// ---- users -------------------------------------------------------------------

type mockUserRepo struct {
	create     func(ctx context.Context, u domain.User) (domain.User, error)
	getByID    func(ctx context.Context, id uuid.UUID) (domain.User, error)
	getByEmail func(ctx context.Context, email string) (domain.User, error)
	search     func(ctx context.Context, prefix string, p domain.PaginationParams) ([]domain.User, int64, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	return m.create(ctx, u)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getByID(ctx, id)
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return m.getByEmail(ctx, email)
}
func (m *mockUserRepo) Search(ctx context.Context, prefix string, p domain.PaginationParams) ([]domain.User, int64, error) {
	return m.search(ctx, prefix, p)
}

var _ repo.UserRepo = (*mockUserRepo)(nil)

// ---- trips -------------------------------------------------------------------

type mockTripRepo struct {
	create            func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID           func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listForUser       func(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error)
	update            func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete            func(ctx context.Context, id uuid.UUID) error
	addParticipant    func(ctx context.Context, tripID, userID uuid.UUID, role domain.ParticipantRole) error
	removeParticipant func(ctx context.Context, tripID, userID uuid.UUID) error
	listParticipants  func(ctx context.Context, tripID uuid.UUID) ([]domain.TripParticipant, error)
	isParticipant     func(ctx context.Context, tripID, userID uuid.UUID) (bool, error)
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) ListForUser(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listForUser(ctx, userID, p)
}
func (m *mockTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, trip)
}
func (m *mockTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockTripRepo) AddParticipant(ctx context.Context, tripID, userID uuid.UUID, role domain.ParticipantRole) error {
	return m.addParticipant(ctx, tripID, userID, role)
}
func (m *mockTripRepo) RemoveParticipant(ctx context.Context, tripID, userID uuid.UUID) error {
	return m.removeParticipant(ctx, tripID, userID)
}
func (m *mockTripRepo) ListParticipants(ctx context.Context, tripID uuid.UUID) ([]domain.TripParticipant, error) {
	return m.listParticipants(ctx, tripID)
}
func (m *mockTripRepo) IsParticipant(ctx context.Context, tripID, userID uuid.UUID) (bool, error) {
	return m.isParticipant(ctx, tripID, userID)
}

var _ repo.TripRepo = (*mockTripRepo)(nil)

// memberTrips returns a trip repo serving trip with the given participants.
// The first member is the owner.
func memberTrips(trip domain.Trip, members ...uuid.UUID) *mockTripRepo {
	return &mockTripRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Trip, error) {
			if id != trip.ID {
				return domain.Trip{}, domain.ErrNotFound
			}
			return trip, nil
		},
		isParticipant: func(_ context.Context, _, userID uuid.UUID) (bool, error) {
			for _, m := range members {
				if m == userID {
					return true, nil
				}
			}
			return false, nil
		},
		listParticipants: func(_ context.Context, tripID uuid.UUID) ([]domain.TripParticipant, error) {
			out := make([]domain.TripParticipant, len(members))
			for i, m := range members {
				role := domain.RoleMember
				if i == 0 {
					role = domain.RoleOwner
				}
				out[i] = domain.TripParticipant{TripID: tripID, UserID: m, Role: role, UserName: "user" + m.String()[:4]}
			}
			return out, nil
		},
	}
}

// ---- itinerary ---------------------------------------------------------------

type mockDayRepo struct {
	create     func(ctx context.Context, day domain.Day) (domain.Day, error)
	getByID    func(ctx context.Context, tripID, dayID uuid.UUID) (domain.Day, error)
	listByTrip func(ctx context.Context, tripID uuid.UUID) ([]domain.Day, error)
	update     func(ctx context.Context, day domain.Day) (domain.Day, error)
	delete     func(ctx context.Context, tripID, dayID uuid.UUID) error
	renumber   func(ctx context.Context, days []domain.Day) error
	isEmpty    func(ctx context.Context, dayID uuid.UUID) (bool, error)
}

func (m *mockDayRepo) Create(ctx context.Context, day domain.Day) (domain.Day, error) {
	return m.create(ctx, day)
}
func (m *mockDayRepo) GetByID(ctx context.Context, tripID, dayID uuid.UUID) (domain.Day, error) {
	return m.getByID(ctx, tripID, dayID)
}
func (m *mockDayRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Day, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockDayRepo) Update(ctx context.Context, day domain.Day) (domain.Day, error) {
	return m.update(ctx, day)
}
func (m *mockDayRepo) Delete(ctx context.Context, tripID, dayID uuid.UUID) error {
	return m.delete(ctx, tripID, dayID)
}
func (m *mockDayRepo) Renumber(ctx context.Context, days []domain.Day) error {
	return m.renumber(ctx, days)
}
func (m *mockDayRepo) IsEmpty(ctx context.Context, dayID uuid.UUID) (bool, error) {
	return m.isEmpty(ctx, dayID)
}

var _ repo.DayRepo = (*mockDayRepo)(nil)

type mockActivityRepo struct {
	create             func(ctx context.Context, a domain.Activity) (domain.Activity, error)
	getByID            func(ctx context.Context, tripID, activityID uuid.UUID) (domain.Activity, error)
	listByTrip         func(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error)
	listByDay          func(ctx context.Context, tripID uuid.UUID, dayID *uuid.UUID) ([]domain.Activity, error)
	listAccommodations func(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error)
	update             func(ctx context.Context, a domain.Activity) (domain.Activity, error)
	delete             func(ctx context.Context, tripID, activityID uuid.UUID) error
	applyOrder         func(ctx context.Context, changes []domain.OrderChange) error
}

func (m *mockActivityRepo) Create(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	return m.create(ctx, a)
}
func (m *mockActivityRepo) GetByID(ctx context.Context, tripID, activityID uuid.UUID) (domain.Activity, error) {
	return m.getByID(ctx, tripID, activityID)
}
func (m *mockActivityRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockActivityRepo) ListByDay(ctx context.Context, tripID uuid.UUID, dayID *uuid.UUID) ([]domain.Activity, error) {
	return m.listByDay(ctx, tripID, dayID)
}
func (m *mockActivityRepo) ListAccommodations(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error) {
	return m.listAccommodations(ctx, tripID)
}
func (m *mockActivityRepo) Update(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	return m.update(ctx, a)
}
func (m *mockActivityRepo) Delete(ctx context.Context, tripID, activityID uuid.UUID) error {
	return m.delete(ctx, tripID, activityID)
}
func (m *mockActivityRepo) ApplyOrder(ctx context.Context, changes []domain.OrderChange) error {
	return m.applyOrder(ctx, changes)
}

var _ repo.ActivityRepo = (*mockActivityRepo)(nil)

type mockTransportRepo struct {
	create     func(ctx context.Context, t domain.Transport) (domain.Transport, error)
	listByTrip func(ctx context.Context, tripID uuid.UUID) ([]domain.Transport, error)
	delete     func(ctx context.Context, tripID, transportID uuid.UUID) error
}

func (m *mockTransportRepo) Create(ctx context.Context, t domain.Transport) (domain.Transport, error) {
	return m.create(ctx, t)
}
func (m *mockTransportRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Transport, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockTransportRepo) Delete(ctx context.Context, tripID, transportID uuid.UUID) error {
	return m.delete(ctx, tripID, transportID)
}

var _ repo.TransportRepo = (*mockTransportRepo)(nil)

type mockChecklistRepo struct {
	create     func(ctx context.Context, item domain.ChecklistItem) (domain.ChecklistItem, error)
	listByTrip func(ctx context.Context, tripID uuid.UUID) ([]domain.ChecklistItem, error)
	setDone    func(ctx context.Context, tripID, itemID uuid.UUID, done bool) (domain.ChecklistItem, error)
	delete     func(ctx context.Context, tripID, itemID uuid.UUID) error
}

func (m *mockChecklistRepo) Create(ctx context.Context, item domain.ChecklistItem) (domain.ChecklistItem, error) {
	return m.create(ctx, item)
}
func (m *mockChecklistRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.ChecklistItem, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockChecklistRepo) SetDone(ctx context.Context, tripID, itemID uuid.UUID, done bool) (domain.ChecklistItem, error) {
	return m.setDone(ctx, tripID, itemID, done)
}
func (m *mockChecklistRepo) Delete(ctx context.Context, tripID, itemID uuid.UUID) error {
	return m.delete(ctx, tripID, itemID)
}

var _ repo.ChecklistRepo = (*mockChecklistRepo)(nil)

// ---- expenses ----------------------------------------------------------------

type mockExpenseRepo struct {
	create     func(ctx context.Context, e domain.Expense) (domain.Expense, error)
	getByID    func(ctx context.Context, tripID, expenseID uuid.UUID) (domain.Expense, error)
	listByTrip func(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error)
	update     func(ctx context.Context, e domain.Expense) (domain.Expense, error)
	delete     func(ctx context.Context, tripID, expenseID uuid.UUID) error
}

func (m *mockExpenseRepo) Create(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	return m.create(ctx, e)
}
func (m *mockExpenseRepo) GetByID(ctx context.Context, tripID, expenseID uuid.UUID) (domain.Expense, error) {
	return m.getByID(ctx, tripID, expenseID)
}
func (m *mockExpenseRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockExpenseRepo) Update(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	return m.update(ctx, e)
}
func (m *mockExpenseRepo) Delete(ctx context.Context, tripID, expenseID uuid.UUID) error {
	return m.delete(ctx, tripID, expenseID)
}

var _ repo.ExpenseRepo = (*mockExpenseRepo)(nil)

// ---- social ------------------------------------------------------------------

type mockFriendRepo struct {
	createRequest  func(ctx context.Context, from, to uuid.UUID) (domain.FriendRequest, error)
	getRequest     func(ctx context.Context, id uuid.UUID) (domain.FriendRequest, error)
	resolve        func(ctx context.Context, id uuid.UUID, status domain.FriendRequestStatus) (domain.FriendRequest, error)
	accept         func(ctx context.Context, id uuid.UUID) (domain.FriendRequest, error)
	hasPending     func(ctx context.Context, a, b uuid.UUID) (bool, error)
	areFriends     func(ctx context.Context, a, b uuid.UUID) (bool, error)
	friendsWithAny func(ctx context.Context, viewer uuid.UUID, users []uuid.UUID) (bool, error)
	listPending    func(ctx context.Context, userID uuid.UUID, incoming bool) ([]domain.FriendRequest, error)
	listFriends    func(ctx context.Context, userID uuid.UUID) ([]domain.User, error)
	unfriend       func(ctx context.Context, a, b uuid.UUID) error
}

func (m *mockFriendRepo) CreateRequest(ctx context.Context, from, to uuid.UUID) (domain.FriendRequest, error) {
	return m.createRequest(ctx, from, to)
}
func (m *mockFriendRepo) GetRequest(ctx context.Context, id uuid.UUID) (domain.FriendRequest, error) {
	return m.getRequest(ctx, id)
}
func (m *mockFriendRepo) Resolve(ctx context.Context, id uuid.UUID, status domain.FriendRequestStatus) (domain.FriendRequest, error) {
	return m.resolve(ctx, id, status)
}
func (m *mockFriendRepo) Accept(ctx context.Context, id uuid.UUID) (domain.FriendRequest, error) {
	return m.accept(ctx, id)
}
func (m *mockFriendRepo) HasPending(ctx context.Context, a, b uuid.UUID) (bool, error) {
	return m.hasPending(ctx, a, b)
}
func (m *mockFriendRepo) AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error) {
	return m.areFriends(ctx, a, b)
}
func (m *mockFriendRepo) FriendsWithAny(ctx context.Context, viewer uuid.UUID, users []uuid.UUID) (bool, error) {
	return m.friendsWithAny(ctx, viewer, users)
}
func (m *mockFriendRepo) ListPending(ctx context.Context, userID uuid.UUID, incoming bool) ([]domain.FriendRequest, error) {
	return m.listPending(ctx, userID, incoming)
}
func (m *mockFriendRepo) ListFriends(ctx context.Context, userID uuid.UUID) ([]domain.User, error) {
	return m.listFriends(ctx, userID)
}
func (m *mockFriendRepo) Unfriend(ctx context.Context, a, b uuid.UUID) error {
	return m.unfriend(ctx, a, b)
}

var _ repo.FriendRepo = (*mockFriendRepo)(nil)

type mockBlogRepo struct {
	create    func(ctx context.Context, b domain.Blog) (domain.Blog, error)
	getByTrip func(ctx context.Context, tripID uuid.UUID) (domain.Blog, error)
	update    func(ctx context.Context, b domain.Blog) (domain.Blog, error)
}

func (m *mockBlogRepo) Create(ctx context.Context, b domain.Blog) (domain.Blog, error) {
	return m.create(ctx, b)
}
func (m *mockBlogRepo) GetByTrip(ctx context.Context, tripID uuid.UUID) (domain.Blog, error) {
	return m.getByTrip(ctx, tripID)
}
func (m *mockBlogRepo) Update(ctx context.Context, b domain.Blog) (domain.Blog, error) {
	return m.update(ctx, b)
}

var _ repo.BlogRepo = (*mockBlogRepo)(nil)

type mockPostRepo struct {
	create     func(ctx context.Context, p domain.Post) (domain.Post, error)
	getByID    func(ctx context.Context, blogID, postID uuid.UUID) (domain.Post, error)
	listByBlog func(ctx context.Context, blogID uuid.UUID, p domain.PaginationParams) ([]domain.Post, int64, error)
	update     func(ctx context.Context, p domain.Post) (domain.Post, error)
	delete     func(ctx context.Context, blogID, postID uuid.UUID) error
}

func (m *mockPostRepo) Create(ctx context.Context, p domain.Post) (domain.Post, error) {
	return m.create(ctx, p)
}
func (m *mockPostRepo) GetByID(ctx context.Context, blogID, postID uuid.UUID) (domain.Post, error) {
	return m.getByID(ctx, blogID, postID)
}
func (m *mockPostRepo) ListByBlog(ctx context.Context, blogID uuid.UUID, p domain.PaginationParams) ([]domain.Post, int64, error) {
	return m.listByBlog(ctx, blogID, p)
}
func (m *mockPostRepo) Update(ctx context.Context, p domain.Post) (domain.Post, error) {
	return m.update(ctx, p)
}
func (m *mockPostRepo) Delete(ctx context.Context, blogID, postID uuid.UUID) error {
	return m.delete(ctx, blogID, postID)
}

var _ repo.PostRepo = (*mockPostRepo)(nil)

type mockCommentRepo struct {
	create     func(ctx context.Context, c domain.Comment) (domain.Comment, error)
	getByID    func(ctx context.Context, postID, commentID uuid.UUID) (domain.Comment, error)
	listByPost func(ctx context.Context, postID uuid.UUID) ([]domain.Comment, error)
	delete     func(ctx context.Context, postID, commentID uuid.UUID) error
}

func (m *mockCommentRepo) Create(ctx context.Context, c domain.Comment) (domain.Comment, error) {
	return m.create(ctx, c)
}
func (m *mockCommentRepo) GetByID(ctx context.Context, postID, commentID uuid.UUID) (domain.Comment, error) {
	return m.getByID(ctx, postID, commentID)
}
func (m *mockCommentRepo) ListByPost(ctx context.Context, postID uuid.UUID) ([]domain.Comment, error) {
	return m.listByPost(ctx, postID)
}
func (m *mockCommentRepo) Delete(ctx context.Context, postID, commentID uuid.UUID) error {
	return m.delete(ctx, postID, commentID)
}

var _ repo.CommentRepo = (*mockCommentRepo)(nil)

type mockPhotoRepo struct {
	create     func(ctx context.Context, p domain.Photo) (domain.Photo, error)
	listByPost func(ctx context.Context, postID uuid.UUID) ([]domain.Photo, error)
	delete     func(ctx context.Context, postID, photoID uuid.UUID) (domain.Photo, error)
}

func (m *mockPhotoRepo) Create(ctx context.Context, p domain.Photo) (domain.Photo, error) {
	return m.create(ctx, p)
}
func (m *mockPhotoRepo) ListByPost(ctx context.Context, postID uuid.UUID) ([]domain.Photo, error) {
	return m.listByPost(ctx, postID)
}
func (m *mockPhotoRepo) Delete(ctx context.Context, postID, photoID uuid.UUID) (domain.Photo, error) {
	return m.delete(ctx, postID, photoID)
}

var _ repo.PhotoRepo = (*mockPhotoRepo)(nil)

type mockTagRepo struct {
	upsert         func(ctx context.Context, name, slug string) (domain.Tag, error)
	listPaged      func(ctx context.Context, prefix string, p domain.PaginationParams) ([]domain.Tag, int64, error)
	addToPost      func(ctx context.Context, postID, tagID uuid.UUID) error
	removeFromPost func(ctx context.Context, postID uuid.UUID, slug string) error
	listByPost     func(ctx context.Context, postID uuid.UUID) ([]domain.Tag, error)
}

func (m *mockTagRepo) Upsert(ctx context.Context, name, slug string) (domain.Tag, error) {
	return m.upsert(ctx, name, slug)
}
func (m *mockTagRepo) ListPaged(ctx context.Context, prefix string, p domain.PaginationParams) ([]domain.Tag, int64, error) {
	return m.listPaged(ctx, prefix, p)
}
func (m *mockTagRepo) AddToPost(ctx context.Context, postID, tagID uuid.UUID) error {
	return m.addToPost(ctx, postID, tagID)
}
func (m *mockTagRepo) RemoveFromPost(ctx context.Context, postID uuid.UUID, slug string) error {
	return m.removeFromPost(ctx, postID, slug)
}
func (m *mockTagRepo) ListByPost(ctx context.Context, postID uuid.UUID) ([]domain.Tag, error) {
	return m.listByPost(ctx, postID)
}

var _ repo.TagRepo = (*mockTagRepo)(nil)

type mockNotificationRepo struct {
	create      func(ctx context.Context, n domain.Notification) (domain.Notification, error)
	list        func(ctx context.Context, userID uuid.UUID, unreadOnly bool, p domain.PaginationParams) ([]domain.Notification, int64, error)
	unreadCount func(ctx context.Context, userID uuid.UUID) (int64, error)
	markRead    func(ctx context.Context, userID, id uuid.UUID) (domain.Notification, error)
	markAllRead func(ctx context.Context, userID uuid.UUID) (int64, error)
}

func (m *mockNotificationRepo) Create(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	return m.create(ctx, n)
}
func (m *mockNotificationRepo) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, p domain.PaginationParams) ([]domain.Notification, int64, error) {
	return m.list(ctx, userID, unreadOnly, p)
}
func (m *mockNotificationRepo) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return m.unreadCount(ctx, userID)
}
func (m *mockNotificationRepo) MarkRead(ctx context.Context, userID, id uuid.UUID) (domain.Notification, error) {
	return m.markRead(ctx, userID, id)
}
func (m *mockNotificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return m.markAllRead(ctx, userID)
}

var _ repo.NotificationRepo = (*mockNotificationRepo)(nil)

// ---- transaction and side effects ------------------------------------------

// fakeTx runs fn directly against the same mock repos. calls counts units of
// work so tests can assert that a write was grouped.
type fakeTx struct {
	repos repo.Repos
	calls int
}

func (f *fakeTx) WithinTx(_ context.Context, fn func(repo.Repos) error) error {
	f.calls++
	return fn(f.repos)
}

var _ repo.Transactor = (*fakeTx)(nil)

// recordingNotifier collects every notification it is asked to deliver.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *recordingNotifier) recipients() []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]uuid.UUID, len(r.sent))
	for i, n := range r.sent {
		out[i] = n.UserID
	}
	return out
}
