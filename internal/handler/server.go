// Package handler implements the HTTP handlers for the TravelHub API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (trip.go, expense.go, etc.) but share the same Server struct so they
// can reach its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/travelhub/backend/internal/domain"
	"github.com/travelhub/backend/internal/metrics"
	"github.com/travelhub/backend/internal/middleware"
	"github.com/travelhub/backend/internal/service"
	"github.com/travelhub/backend/spec"
)

// The interfaces below are the business operations each handler file
// depends on. They live in the consumer package so handler tests can inject
// mocks without touching the database or the service layer.

// UserServicer covers registration, login and user lookup.
type UserServicer interface {
	Register(ctx context.Context, email, userName, displayName, password string) (domain.User, error)
	Login(ctx context.Context, email, password string) (service.Session, error)
	Get(ctx context.Context, id uuid.UUID) (domain.User, error)
	Search(ctx context.Context, prefix string, p domain.PaginationParams) ([]domain.User, int64, error)
}

// TripServicer covers trips, participants and the map center.
type TripServicer interface {
	Create(ctx context.Context, actor uuid.UUID, trip domain.Trip) (domain.Trip, error)
	Get(ctx context.Context, actor, tripID uuid.UUID) (domain.Trip, error)
	List(ctx context.Context, actor uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error)
	Update(ctx context.Context, actor uuid.UUID, trip domain.Trip) (domain.Trip, error)
	Delete(ctx context.Context, actor, tripID uuid.UUID) error
	ListParticipants(ctx context.Context, actor, tripID uuid.UUID) ([]domain.TripParticipant, error)
	AddParticipant(ctx context.Context, actor, tripID, userID uuid.UUID) error
	RemoveParticipant(ctx context.Context, actor, tripID, userID uuid.UUID) error
	MapCenter(ctx context.Context, actor, tripID uuid.UUID, dayID *uuid.UUID) (domain.Coordinate, error)
}

// ItineraryServicer covers days, activities and transports.
type ItineraryServicer interface {
	ListDays(ctx context.Context, actor, tripID uuid.UUID) ([]domain.Day, error)
	AddDay(ctx context.Context, actor, tripID uuid.UUID, title, notes string) (domain.Day, error)
	UpdateDay(ctx context.Context, actor uuid.UUID, day domain.Day) (domain.Day, error)
	DeleteDay(ctx context.Context, actor, tripID, dayID uuid.UUID) error

	ListActivities(ctx context.Context, actor, tripID uuid.UUID) ([]domain.Activity, error)
	ListDayActivities(ctx context.Context, actor, tripID uuid.UUID, dayID *uuid.UUID) ([]domain.Activity, error)
	GetActivity(ctx context.Context, actor, tripID, activityID uuid.UUID) (domain.Activity, error)
	CreateActivity(ctx context.Context, actor uuid.UUID, a domain.Activity) (domain.Activity, error)
	UpdateActivity(ctx context.Context, actor uuid.UUID, a domain.Activity) (domain.Activity, error)
	DeleteActivity(ctx context.Context, actor, tripID, activityID uuid.UUID) error
	MoveActivity(ctx context.Context, actor, tripID, activityID uuid.UUID, targetDay *uuid.UUID, position int) (domain.Activity, error)

	ListTransports(ctx context.Context, actor, tripID uuid.UUID) ([]domain.Transport, error)
	CreateTransport(ctx context.Context, actor uuid.UUID, t domain.Transport) (domain.Transport, error)
	DeleteTransport(ctx context.Context, actor, tripID, transportID uuid.UUID) error
}

// ChecklistServicer covers a trip's checklist.
type ChecklistServicer interface {
	List(ctx context.Context, actor, tripID uuid.UUID) ([]domain.ChecklistItem, error)
	Create(ctx context.Context, actor, tripID uuid.UUID, title string) (domain.ChecklistItem, error)
	SetDone(ctx context.Context, actor, tripID, itemID uuid.UUID, done bool) (domain.ChecklistItem, error)
	Delete(ctx context.Context, actor, tripID, itemID uuid.UUID) error
}

// ExpenseServicer covers expenses, balances and settlement.
type ExpenseServicer interface {
	List(ctx context.Context, actor, tripID uuid.UUID) ([]domain.Expense, error)
	Get(ctx context.Context, actor, tripID, expenseID uuid.UUID) (domain.Expense, error)
	Create(ctx context.Context, actor uuid.UUID, e domain.Expense) (domain.Expense, error)
	Update(ctx context.Context, actor uuid.UUID, e domain.Expense) (domain.Expense, error)
	Delete(ctx context.Context, actor, tripID, expenseID uuid.UUID) error
	Balances(ctx context.Context, actor, tripID uuid.UUID) ([]domain.Balance, error)
	Settlement(ctx context.Context, actor, tripID uuid.UUID) ([]domain.Debt, error)
	Settle(ctx context.Context, actor, tripID, from, to uuid.UUID, amount decimal.Decimal) (domain.Expense, error)
}

// ExportServicer flattens a trip's expenses for export.
type ExportServicer interface {
	Export(ctx context.Context, actor, tripID uuid.UUID) ([]domain.ExpenseExportRow, error)
}

// FriendServicer covers friend requests and friendships.
type FriendServicer interface {
	SendRequest(ctx context.Context, actor, to uuid.UUID) (domain.FriendRequest, error)
	Accept(ctx context.Context, actor, requestID uuid.UUID) (domain.FriendRequest, error)
	Decline(ctx context.Context, actor, requestID uuid.UUID) (domain.FriendRequest, error)
	Cancel(ctx context.Context, actor, requestID uuid.UUID) (domain.FriendRequest, error)
	ListIncoming(ctx context.Context, actor uuid.UUID) ([]domain.FriendRequest, error)
	ListOutgoing(ctx context.Context, actor uuid.UUID) ([]domain.FriendRequest, error)
	ListFriends(ctx context.Context, actor uuid.UUID) ([]domain.User, error)
	Unfriend(ctx context.Context, actor, friend uuid.UUID) error
}

// BlogServicer covers the trip blog with its posts, comments, photos and
// post tags.
type BlogServicer interface {
	Get(ctx context.Context, viewer, tripID uuid.UUID) (domain.Blog, error)
	Update(ctx context.Context, actor uuid.UUID, b domain.Blog) (domain.Blog, error)

	ListPosts(ctx context.Context, viewer, tripID uuid.UUID, p domain.PaginationParams) ([]domain.Post, int64, error)
	GetPost(ctx context.Context, viewer, tripID, postID uuid.UUID) (domain.Post, error)
	CreatePost(ctx context.Context, actor, tripID uuid.UUID, p domain.Post) (domain.Post, error)
	UpdatePost(ctx context.Context, actor, tripID uuid.UUID, p domain.Post) (domain.Post, error)
	DeletePost(ctx context.Context, actor, tripID, postID uuid.UUID) error

	ListComments(ctx context.Context, viewer, tripID, postID uuid.UUID) ([]domain.Comment, error)
	AddComment(ctx context.Context, viewer, tripID, postID uuid.UUID, content string) (domain.Comment, error)
	DeleteComment(ctx context.Context, actor, tripID, postID, commentID uuid.UUID) error

	ListPhotos(ctx context.Context, viewer, tripID, postID uuid.UUID) ([]domain.Photo, error)
	RequestPhotoUpload(ctx context.Context, actor, tripID, postID uuid.UUID, contentType, caption string) (domain.PhotoUpload, error)
	DeletePhoto(ctx context.Context, actor, tripID, postID, photoID uuid.UUID) error

	ListPostTags(ctx context.Context, viewer, tripID, postID uuid.UUID) ([]domain.Tag, error)
	AddPostTag(ctx context.Context, actor, tripID, postID uuid.UUID, name string) (domain.Tag, error)
	RemovePostTag(ctx context.Context, actor, tripID, postID uuid.UUID, slug string) error
}

// TagServicer lists the global tag vocabulary.
type TagServicer interface {
	List(ctx context.Context, prefix string, p domain.PaginationParams) ([]domain.Tag, int64, error)
}

// NotificationServicer covers a user's inbox.
type NotificationServicer interface {
	List(ctx context.Context, actor uuid.UUID, unreadOnly bool, p domain.PaginationParams) ([]domain.Notification, int64, error)
	UnreadCount(ctx context.Context, actor uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, actor, id uuid.UUID) (domain.Notification, error)
	MarkAllRead(ctx context.Context, actor uuid.UUID) (int64, error)
}

// Services bundles every dependency of Server. Tests set only the fields
// their routes reach.
type Services struct {
	Users         UserServicer
	Trips         TripServicer
	Itinerary     ItineraryServicer
	Checklist     ChecklistServicer
	Expenses      ExpenseServicer
	Export        ExportServicer
	Friends       FriendServicer
	Blog          BlogServicer
	Tags          TagServicer
	Notifications NotificationServicer
}

// Server holds the handler dependencies. Wire it in main.go via Routes.
type Server struct {
	svc    Services
	tokens middleware.TokenParser
	log    *slog.Logger
}

// NewServer constructs the Server. tokens validates bearer tokens on the
// authenticated routes; log receives unexpected (500) errors.
func NewServer(svc Services, tokens middleware.TokenParser, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Server{svc: svc, tokens: tokens, log: log}
}

// Routes returns the API router. Global middleware (request IDs, logging,
// metrics, CORS, body limits) is applied by the caller; Routes only adds
// authentication to the /api routes that need it.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, http.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	r.Get("/healthz", s.GetHealth)
	r.Handle("/metrics", metrics.Handler())
	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(spec.OpenAPI)
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.Register)
		r.Post("/auth/login", s.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.NewAuth(s.tokens))

			r.Get("/users/me", s.GetMe)
			r.Get("/users", s.SearchUsers)
			r.Get("/tags", s.ListTags)

			r.Route("/friends", func(r chi.Router) {
				r.Get("/", s.ListFriends)
				r.Delete("/{userID}", s.Unfriend)
				r.Get("/requests/incoming", s.ListIncomingRequests)
				r.Get("/requests/outgoing", s.ListOutgoingRequests)
				r.Post("/requests", s.SendFriendRequest)
				r.Post("/requests/{requestID}/accept", s.AcceptFriendRequest)
				r.Post("/requests/{requestID}/decline", s.DeclineFriendRequest)
				r.Post("/requests/{requestID}/cancel", s.CancelFriendRequest)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", s.ListNotifications)
				r.Get("/unread-count", s.UnreadNotificationCount)
				r.Post("/read", s.MarkAllNotificationsRead)
				r.Post("/{notificationID}/read", s.MarkNotificationRead)
			})

			r.Route("/trips", func(r chi.Router) {
				r.Get("/", s.ListTrips)
				r.Post("/", s.CreateTrip)

				r.Route("/{tripID}", func(r chi.Router) {
					r.Get("/", s.GetTrip)
					r.Put("/", s.UpdateTrip)
					r.Delete("/", s.DeleteTrip)
					r.Get("/map-center", s.GetMapCenter)

					r.Get("/participants", s.ListParticipants)
					r.Post("/participants", s.AddParticipant)
					r.Delete("/participants/{userID}", s.RemoveParticipant)

					r.Get("/days", s.ListDays)
					r.Post("/days", s.AddDay)
					r.Put("/days/{dayID}", s.UpdateDay)
					r.Delete("/days/{dayID}", s.DeleteDay)

					r.Get("/activities", s.ListActivities)
					r.Post("/activities", s.CreateActivity)
					r.Get("/activities/{activityID}", s.GetActivity)
					r.Put("/activities/{activityID}", s.UpdateActivity)
					r.Delete("/activities/{activityID}", s.DeleteActivity)
					r.Post("/activities/{activityID}/move", s.MoveActivity)

					r.Get("/transports", s.ListTransports)
					r.Post("/transports", s.CreateTransport)
					r.Delete("/transports/{transportID}", s.DeleteTransport)

					r.Get("/checklist", s.ListChecklist)
					r.Post("/checklist", s.CreateChecklistItem)
					r.Patch("/checklist/{itemID}", s.SetChecklistItemDone)
					r.Delete("/checklist/{itemID}", s.DeleteChecklistItem)

					r.Get("/expenses", s.ListExpenses)
					r.Post("/expenses", s.CreateExpense)
					r.Get("/expenses/export", s.ExportExpenses)
					r.Get("/expenses/{expenseID}", s.GetExpense)
					r.Put("/expenses/{expenseID}", s.UpdateExpense)
					r.Delete("/expenses/{expenseID}", s.DeleteExpense)
					r.Get("/balances", s.GetBalances)
					r.Get("/settlement", s.GetSettlement)
					r.Post("/settle", s.Settle)

					r.Get("/blog", s.GetBlog)
					r.Put("/blog", s.UpdateBlog)
					r.Get("/posts", s.ListPosts)
					r.Post("/posts", s.CreatePost)
					r.Route("/posts/{postID}", func(r chi.Router) {
						r.Get("/", s.GetPost)
						r.Put("/", s.UpdatePost)
						r.Delete("/", s.DeletePost)
						r.Get("/comments", s.ListComments)
						r.Post("/comments", s.AddComment)
						r.Delete("/comments/{commentID}", s.DeleteComment)
						r.Get("/photos", s.ListPhotos)
						r.Post("/photos", s.RequestPhotoUpload)
						r.Delete("/photos/{photoID}", s.DeletePhoto)
						r.Get("/tags", s.ListPostTags)
						r.Post("/tags", s.AddPostTag)
						r.Delete("/tags/{slug}", s.RemovePostTag)
					})
				})
			})
		})
	})
	return r
}
