package handler_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/travelhub/backend/internal/domain"
	"github.com/travelhub/backend/internal/handler"
	"github.com/travelhub/backend/internal/service"
)

// Test doubles for the handler.*Servicer interfaces.
// Set only the method fields your test needs.

type mockUsers struct {
	register func(ctx context.Context, email, userName, displayName, password string) (domain.User, error)
	login    func(ctx context.Context, email, password string) (service.Session, error)
	get      func(ctx context.Context, id uuid.UUID) (domain.User, error)
	search   func(ctx context.Context, prefix string, p domain.PaginationParams) ([]domain.User, int64, error)
}

func (m *mockUsers) Register(ctx context.Context, email, userName, displayName, password string) (domain.User, error) {
	return m.register(ctx, email, userName, displayName, password)
}
func (m *mockUsers) Login(ctx context.Context, email, password string) (service.Session, error) {
	return m.login(ctx, email, password)
}
func (m *mockUsers) Get(ctx context.Context, id uuid.UUID) (domain.User, error) { return m.get(ctx, id) }
func (m *mockUsers) Search(ctx context.Context, prefix string, p domain.PaginationParams) ([]domain.User, int64, error) {
	return m.search(ctx, prefix, p)
}

type mockTrips struct {
	create            func(ctx context.Context, actor uuid.UUID, trip domain.Trip) (domain.Trip, error)
	get               func(ctx context.Context, actor, tripID uuid.UUID) (domain.Trip, error)
	list              func(ctx context.Context, actor uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error)
	update            func(ctx context.Context, actor uuid.UUID, trip domain.Trip) (domain.Trip, error)
	delete            func(ctx context.Context, actor, tripID uuid.UUID) error
	listParticipants  func(ctx context.Context, actor, tripID uuid.UUID) ([]domain.TripParticipant, error)
	addParticipant    func(ctx context.Context, actor, tripID, userID uuid.UUID) error
	removeParticipant func(ctx context.Context, actor, tripID, userID uuid.UUID) error
	mapCenter         func(ctx context.Context, actor, tripID uuid.UUID, dayID *uuid.UUID) (domain.Coordinate, error)
}

func (m *mockTrips) Create(ctx context.Context, actor uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, actor, trip)
}
func (m *mockTrips) Get(ctx context.Context, actor, tripID uuid.UUID) (domain.Trip, error) {
	return m.get(ctx, actor, tripID)
}
func (m *mockTrips) List(ctx context.Context, actor uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.list(ctx, actor, p)
}
func (m *mockTrips) Update(ctx context.Context, actor uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, actor, trip)
}
func (m *mockTrips) Delete(ctx context.Context, actor, tripID uuid.UUID) error {
	return m.delete(ctx, actor, tripID)
}
func (m *mockTrips) ListParticipants(ctx context.Context, actor, tripID uuid.UUID) ([]domain.TripParticipant, error) {
	return m.listParticipants(ctx, actor, tripID)
}
func (m *mockTrips) AddParticipant(ctx context.Context, actor, tripID, userID uuid.UUID) error {
	return m.addParticipant(ctx, actor, tripID, userID)
}
func (m *mockTrips) RemoveParticipant(ctx context.Context, actor, tripID, userID uuid.UUID) error {
	return m.removeParticipant(ctx, actor, tripID, userID)
}
func (m *mockTrips) MapCenter(ctx context.Context, actor, tripID uuid.UUID, dayID *uuid.UUID) (domain.Coordinate, error) {
	return m.mapCenter(ctx, actor, tripID, dayID)
}

type mockItinerary struct {
	listDays          func(ctx context.Context, actor, tripID uuid.UUID) ([]domain.Day, error)
	addDay            func(ctx context.Context, actor, tripID uuid.UUID, title, notes string) (domain.Day, error)
	updateDay         func(ctx context.Context, actor uuid.UUID, day domain.Day) (domain.Day, error)
	deleteDay         func(ctx context.Context, actor, tripID, dayID uuid.UUID) error
	listActivities    func(ctx context.Context, actor, tripID uuid.UUID) ([]domain.Activity, error)
	listDayActivities func(ctx context.Context, actor, tripID uuid.UUID, dayID *uuid.UUID) ([]domain.Activity, error)
	getActivity       func(ctx context.Context, actor, tripID, activityID uuid.UUID) (domain.Activity, error)
	createActivity    func(ctx context.Context, actor uuid.UUID, a domain.Activity) (domain.Activity, error)
	updateActivity    func(ctx context.Context, actor uuid.UUID, a domain.Activity) (domain.Activity, error)
	deleteActivity    func(ctx context.Context, actor, tripID, activityID uuid.UUID) error
	moveActivity      func(ctx context.Context, actor, tripID, activityID uuid.UUID, targetDay *uuid.UUID, position int) (domain.Activity, error)
	listTransports    func(ctx context.Context, actor, tripID uuid.UUID) ([]domain.Transport, error)
	createTransport   func(ctx context.Context, actor uuid.UUID, t domain.Transport) (domain.Transport, error)
	deleteTransport   func(ctx context.Context, actor, tripID, transportID uuid.UUID) error
}

func (m *mockItinerary) ListDays(ctx context.Context, actor, tripID uuid.UUID) ([]domain.Day, error) {
	return m.listDays(ctx, actor, tripID)
}
func (m *mockItinerary) AddDay(ctx context.Context, actor, tripID uuid.UUID, title, notes string) (domain.Day, error) {
	return m.addDay(ctx, actor, tripID, title, notes)
}
func (m *mockItinerary) UpdateDay(ctx context.Context, actor uuid.UUID, day domain.Day) (domain.Day, error) {
	return m.updateDay(ctx, actor, day)
}
func (m *mockItinerary) DeleteDay(ctx context.Context, actor, tripID, dayID uuid.UUID) error {
	return m.deleteDay(ctx, actor, tripID, dayID)
}
func (m *mockItinerary) ListActivities(ctx context.Context, actor, tripID uuid.UUID) ([]domain.Activity, error) {
	return m.listActivities(ctx, actor, tripID)
}
func (m *mockItinerary) ListDayActivities(ctx context.Context, actor, tripID uuid.UUID, dayID *uuid.UUID) ([]domain.Activity, error) {
	return m.listDayActivities(ctx, actor, tripID, dayID)
}
func (m *mockItinerary) GetActivity(ctx context.Context, actor, tripID, activityID uuid.UUID) (domain.Activity, error) {
	return m.getActivity(ctx, actor, tripID, activityID)
}
func (m *mockItinerary) CreateActivity(ctx context.Context, actor uuid.UUID, a domain.Activity) (domain.Activity, error) {
	return m.createActivity(ctx, actor, a)
}
func (m *mockItinerary) UpdateActivity(ctx context.Context, actor uuid.UUID, a domain.Activity) (domain.Activity, error) {
	return m.updateActivity(ctx, actor, a)
}
func (m *mockItinerary) DeleteActivity(ctx context.Context, actor, tripID, activityID uuid.UUID) error {
	return m.deleteActivity(ctx, actor, tripID, activityID)
}
func (m *mockItinerary) MoveActivity(ctx context.Context, actor, tripID, activityID uuid.UUID, targetDay *uuid.UUID, position int) (domain.Activity, error) {
	return m.moveActivity(ctx, actor, tripID, activityID, targetDay, position)
}
func (m *mockItinerary) ListTransports(ctx context.Context, actor, tripID uuid.UUID) ([]domain.Transport, error) {
	return m.listTransports(ctx, actor, tripID)
}
func (m *mockItinerary) CreateTransport(ctx context.Context, actor uuid.UUID, t domain.Transport) (domain.Transport, error) {
	return m.createTransport(ctx, actor, t)
}
func (m *mockItinerary) DeleteTransport(ctx context.Context, actor, tripID, transportID uuid.UUID) error {
	return m.deleteTransport(ctx, actor, tripID, transportID)
}

type mockChecklist struct {
	list    func(ctx context.Context, actor, tripID uuid.UUID) ([]domain.ChecklistItem, error)
	create  func(ctx context.Context, actor, tripID uuid.UUID, title string) (domain.ChecklistItem, error)
	setDone func(ctx context.Context, actor, tripID, itemID uuid.UUID, done bool) (domain.ChecklistItem, error)
	delete  func(ctx context.Context, actor, tripID, itemID uuid.UUID) error
}

func (m *mockChecklist) List(ctx context.Context, actor, tripID uuid.UUID) ([]domain.ChecklistItem, error) {
	return m.list(ctx, actor, tripID)
}
func (m *mockChecklist) Create(ctx context.Context, actor, tripID uuid.UUID, title string) (domain.ChecklistItem, error) {
	return m.create(ctx, actor, tripID, title)
}
func (m *mockChecklist) SetDone(ctx context.Context, actor, tripID, itemID uuid.UUID, done bool) (domain.ChecklistItem, error) {
	return m.setDone(ctx, actor, tripID, itemID, done)
}
func (m *mockChecklist) Delete(ctx context.Context, actor, tripID, itemID uuid.UUID) error {
	return m.delete(ctx, actor, tripID, itemID)
}

type mockExpenses struct {
	list       func(ctx context.Context, actor, tripID uuid.UUID) ([]domain.Expense, error)
	get        func(ctx context.Context, actor, tripID, expenseID uuid.UUID) (domain.Expense, error)
	create     func(ctx context.Context, actor uuid.UUID, e domain.Expense) (domain.Expense, error)
	update     func(ctx context.Context, actor uuid.UUID, e domain.Expense) (domain.Expense, error)
	delete     func(ctx context.Context, actor, tripID, expenseID uuid.UUID) error
	balances   func(ctx context.Context, actor, tripID uuid.UUID) ([]domain.Balance, error)
	settlement func(ctx context.Context, actor, tripID uuid.UUID) ([]domain.Debt, error)
	settle     func(ctx context.Context, actor, tripID, from, to uuid.UUID, amount decimal.Decimal) (domain.Expense, error)
}

func (m *mockExpenses) List(ctx context.Context, actor, tripID uuid.UUID) ([]domain.Expense, error) {
	return m.list(ctx, actor, tripID)
}
func (m *mockExpenses) Get(ctx context.Context, actor, tripID, expenseID uuid.UUID) (domain.Expense, error) {
	return m.get(ctx, actor, tripID, expenseID)
}
func (m *mockExpenses) Create(ctx context.Context, actor uuid.UUID, e domain.Expense) (domain.Expense, error) {
	return m.create(ctx, actor, e)
}
func (m *mockExpenses) Update(ctx context.Context, actor uuid.UUID, e domain.Expense) (domain.Expense, error) {
	return m.update(ctx, actor, e)
}
func (m *mockExpenses) Delete(ctx context.Context, actor, tripID, expenseID uuid.UUID) error {
	return m.delete(ctx, actor, tripID, expenseID)
}
func (m *mockExpenses) Balances(ctx context.Context, actor, tripID uuid.UUID) ([]domain.Balance, error) {
	return m.balances(ctx, actor, tripID)
}
func (m *mockExpenses) Settlement(ctx context.Context, actor, tripID uuid.UUID) ([]domain.Debt, error) {
	return m.settlement(ctx, actor, tripID)
}
func (m *mockExpenses) Settle(ctx context.Context, actor, tripID, from, to uuid.UUID, amount decimal.Decimal) (domain.Expense, error) {
	return m.settle(ctx, actor, tripID, from, to, amount)
}

type mockExport struct {
	export func(ctx context.Context, actor, tripID uuid.UUID) ([]domain.ExpenseExportRow, error)
}

func (m *mockExport) Export(ctx context.Context, actor, tripID uuid.UUID) ([]domain.ExpenseExportRow, error) {
	return m.export(ctx, actor, tripID)
}

type mockFriends struct {
	sendRequest  func(ctx context.Context, actor, to uuid.UUID) (domain.FriendRequest, error)
	accept       func(ctx context.Context, actor, requestID uuid.UUID) (domain.FriendRequest, error)
	decline      func(ctx context.Context, actor, requestID uuid.UUID) (domain.FriendRequest, error)
	cancel       func(ctx context.Context, actor, requestID uuid.UUID) (domain.FriendRequest, error)
	listIncoming func(ctx context.Context, actor uuid.UUID) ([]domain.FriendRequest, error)
	listOutgoing func(ctx context.Context, actor uuid.UUID) ([]domain.FriendRequest, error)
	listFriends  func(ctx context.Context, actor uuid.UUID) ([]domain.User, error)
	unfriend     func(ctx context.Context, actor, friend uuid.UUID) error
}

func (m *mockFriends) SendRequest(ctx context.Context, actor, to uuid.UUID) (domain.FriendRequest, error) {
	return m.sendRequest(ctx, actor, to)
}
func (m *mockFriends) Accept(ctx context.Context, actor, requestID uuid.UUID) (domain.FriendRequest, error) {
	return m.accept(ctx, actor, requestID)
}
func (m *mockFriends) Decline(ctx context.Context, actor, requestID uuid.UUID) (domain.FriendRequest, error) {
	return m.decline(ctx, actor, requestID)
}
func (m *mockFriends) Cancel(ctx context.Context, actor, requestID uuid.UUID) (domain.FriendRequest, error) {
	return m.cancel(ctx, actor, requestID)
}
func (m *mockFriends) ListIncoming(ctx context.Context, actor uuid.UUID) ([]domain.FriendRequest, error) {
	return m.listIncoming(ctx, actor)
}
func (m *mockFriends) ListOutgoing(ctx context.Context, actor uuid.UUID) ([]domain.FriendRequest, error) {
	return m.listOutgoing(ctx, actor)
}
func (m *mockFriends) ListFriends(ctx context.Context, actor uuid.UUID) ([]domain.User, error) {
	return m.listFriends(ctx, actor)
}
func (m *mockFriends) Unfriend(ctx context.Context, actor, friend uuid.UUID) error {
	return m.unfriend(ctx, actor, friend)
}

type mockBlog struct {
	get                func(ctx context.Context, viewer, tripID uuid.UUID) (domain.Blog, error)
	update             func(ctx context.Context, actor uuid.UUID, b domain.Blog) (domain.Blog, error)
	listPosts          func(ctx context.Context, viewer, tripID uuid.UUID, p domain.PaginationParams) ([]domain.Post, int64, error)
	getPost            func(ctx context.Context, viewer, tripID, postID uuid.UUID) (domain.Post, error)
	createPost         func(ctx context.Context, actor, tripID uuid.UUID, p domain.Post) (domain.Post, error)
	updatePost         func(ctx context.Context, actor, tripID uuid.UUID, p domain.Post) (domain.Post, error)
	deletePost         func(ctx context.Context, actor, tripID, postID uuid.UUID) error
	listComments       func(ctx context.Context, viewer, tripID, postID uuid.UUID) ([]domain.Comment, error)
	addComment         func(ctx context.Context, viewer, tripID, postID uuid.UUID, content string) (domain.Comment, error)
	deleteComment      func(ctx context.Context, actor, tripID, postID, commentID uuid.UUID) error
	listPhotos         func(ctx context.Context, viewer, tripID, postID uuid.UUID) ([]domain.Photo, error)
	requestPhotoUpload func(ctx context.Context, actor, tripID, postID uuid.UUID, contentType, caption string) (domain.PhotoUpload, error)
	deletePhoto        func(ctx context.Context, actor, tripID, postID, photoID uuid.UUID) error
	listPostTags       func(ctx context.Context, viewer, tripID, postID uuid.UUID) ([]domain.Tag, error)
	addPostTag         func(ctx context.Context, actor, tripID, postID uuid.UUID, name string) (domain.Tag, error)
	removePostTag      func(ctx context.Context, actor, tripID, postID uuid.UUID, slug string) error
}

func (m *mockBlog) Get(ctx context.Context, viewer, tripID uuid.UUID) (domain.Blog, error) {
	return m.get(ctx, viewer, tripID)
}
func (m *mockBlog) Update(ctx context.Context, actor uuid.UUID, b domain.Blog) (domain.Blog, error) {
	return m.update(ctx, actor, b)
}
func (m *mockBlog) ListPosts(ctx context.Context, viewer, tripID uuid.UUID, p domain.PaginationParams) ([]domain.Post, int64, error) {
	return m.listPosts(ctx, viewer, tripID, p)
}
func (m *mockBlog) GetPost(ctx context.Context, viewer, tripID, postID uuid.UUID) (domain.Post, error) {
	return m.getPost(ctx, viewer, tripID, postID)
}
func (m *mockBlog) CreatePost(ctx context.Context, actor, tripID uuid.UUID, p domain.Post) (domain.Post, error) {
	return m.createPost(ctx, actor, tripID, p)
}
func (m *mockBlog) UpdatePost(ctx context.Context, actor, tripID uuid.UUID, p domain.Post) (domain.Post, error) {
	return m.updatePost(ctx, actor, tripID, p)
}
func (m *mockBlog) DeletePost(ctx context.Context, actor, tripID, postID uuid.UUID) error {
	return m.deletePost(ctx, actor, tripID, postID)
}
func (m *mockBlog) ListComments(ctx context.Context, viewer, tripID, postID uuid.UUID) ([]domain.Comment, error) {
	return m.listComments(ctx, viewer, tripID, postID)
}
func (m *mockBlog) AddComment(ctx context.Context, viewer, tripID, postID uuid.UUID, content string) (domain.Comment, error) {
	return m.addComment(ctx, viewer, tripID, postID, content)
}
func (m *mockBlog) DeleteComment(ctx context.Context, actor, tripID, postID, commentID uuid.UUID) error {
	return m.deleteComment(ctx, actor, tripID, postID, commentID)
}
func (m *mockBlog) ListPhotos(ctx context.Context, viewer, tripID, postID uuid.UUID) ([]domain.Photo, error) {
	return m.listPhotos(ctx, viewer, tripID, postID)
}
func (m *mockBlog) RequestPhotoUpload(ctx context.Context, actor, tripID, postID uuid.UUID, contentType, caption string) (domain.PhotoUpload, error) {
	return m.requestPhotoUpload(ctx, actor, tripID, postID, contentType, caption)
}
func (m *mockBlog) DeletePhoto(ctx context.Context, actor, tripID, postID, photoID uuid.UUID) error {
	return m.deletePhoto(ctx, actor, tripID, postID, photoID)
}
func (m *mockBlog) ListPostTags(ctx context.Context, viewer, tripID, postID uuid.UUID) ([]domain.Tag, error) {
	return m.listPostTags(ctx, viewer, tripID, postID)
}
func (m *mockBlog) AddPostTag(ctx context.Context, actor, tripID, postID uuid.UUID, name string) (domain.Tag, error) {
	return m.addPostTag(ctx, actor, tripID, postID, name)
}
func (m *mockBlog) RemovePostTag(ctx context.Context, actor, tripID, postID uuid.UUID, slug string) error {
	return m.removePostTag(ctx, actor, tripID, postID, slug)
}

type mockTags struct {
	list func(ctx context.Context, prefix string, p domain.PaginationParams) ([]domain.Tag, int64, error)
}

func (m *mockTags) List(ctx context.Context, prefix string, p domain.PaginationParams) ([]domain.Tag, int64, error) {
	return m.list(ctx, prefix, p)
}

type mockNotifications struct {
	list        func(ctx context.Context, actor uuid.UUID, unreadOnly bool, p domain.PaginationParams) ([]domain.Notification, int64, error)
	unreadCount func(ctx context.Context, actor uuid.UUID) (int64, error)
	markRead    func(ctx context.Context, actor, id uuid.UUID) (domain.Notification, error)
	markAllRead func(ctx context.Context, actor uuid.UUID) (int64, error)
}

func (m *mockNotifications) List(ctx context.Context, actor uuid.UUID, unreadOnly bool, p domain.PaginationParams) ([]domain.Notification, int64, error) {
	return m.list(ctx, actor, unreadOnly, p)
}
func (m *mockNotifications) UnreadCount(ctx context.Context, actor uuid.UUID) (int64, error) {
	return m.unreadCount(ctx, actor)
}
func (m *mockNotifications) MarkRead(ctx context.Context, actor, id uuid.UUID) (domain.Notification, error) {
	return m.markRead(ctx, actor, id)
}
func (m *mockNotifications) MarkAllRead(ctx context.Context, actor uuid.UUID) (int64, error) {
	return m.markAllRead(ctx, actor)
}

// compile-time checks: the mocks and the real services satisfy the handler interfaces.
var (
	_ handler.UserServicer         = (*mockUsers)(nil)
	_ handler.TripServicer         = (*mockTrips)(nil)
	_ handler.ItineraryServicer    = (*mockItinerary)(nil)
	_ handler.ChecklistServicer    = (*mockChecklist)(nil)
	_ handler.ExpenseServicer      = (*mockExpenses)(nil)
	_ handler.ExportServicer       = (*mockExport)(nil)
	_ handler.FriendServicer       = (*mockFriends)(nil)
	_ handler.BlogServicer         = (*mockBlog)(nil)
	_ handler.TagServicer          = (*mockTags)(nil)
	_ handler.NotificationServicer = (*mockNotifications)(nil)

	_ handler.UserServicer         = (*service.UserService)(nil)
	_ handler.TripServicer         = (*service.TripService)(nil)
	_ handler.ItineraryServicer    = (*service.ItineraryService)(nil)
	_ handler.ChecklistServicer    = (*service.ChecklistService)(nil)
	_ handler.ExpenseServicer      = (*service.ExpenseService)(nil)
	_ handler.ExportServicer       = (*service.ExportService)(nil)
	_ handler.FriendServicer       = (*service.FriendService)(nil)
	_ handler.BlogServicer         = (*service.BlogService)(nil)
	_ handler.TagServicer          = (*service.TagService)(nil)
	_ handler.NotificationServicer = (*service.NotificationService)(nil)
)
