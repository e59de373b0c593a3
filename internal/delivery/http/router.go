package http

import (
	"net/http"

	"repairmate-backend/internal/delivery/http/handler"
	"repairmate-backend/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	authHandler         *handler.AuthHandler
	bookingHandler      *handler.BookingHandler
	jobHandler          *handler.JobHandler
	adminBookingHandler *handler.AdminBookingHandler
	earningHandler      *handler.EarningHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	bookingHandler *handler.BookingHandler,
	jobHandler *handler.JobHandler,
	adminBookingHandler *handler.AdminBookingHandler,
	earningHandler *handler.EarningHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		authHandler:         authHandler,
		bookingHandler:      bookingHandler,
		jobHandler:          jobHandler,
		adminBookingHandler: adminBookingHandler,
		earningHandler:      earningHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register/customer", r.authHandler.RegisterCustomer).Methods(http.MethodPost)
	auth.HandleFunc("/register/technician", r.authHandler.RegisterTechnician).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Booking routes (protected). Roles differ per route, so the role
	// check wraps each handler instead of the subrouter. Literal paths
	// are registered before /{id} so mux does not swallow them.
	bookings := api.PathPrefix("/bookings").Subrouter()
	bookings.Use(r.authMiddleware.Authenticate)

	bookings.Handle("", middleware.RequireCustomer(http.HandlerFunc(r.bookingHandler.CreateBooking))).Methods(http.MethodPost)
	bookings.Handle("", middleware.RequireAdmin(http.HandlerFunc(r.adminBookingHandler.ListBookings))).Methods(http.MethodGet)
	bookings.Handle("/my", middleware.RequireCustomer(http.HandlerFunc(r.bookingHandler.GetMyBookings))).Methods(http.MethodGet)
	bookings.Handle("/my/active", middleware.RequireCustomer(http.HandlerFunc(r.bookingHandler.GetActiveBooking))).Methods(http.MethodGet)
	bookings.Handle("/open", middleware.RequireTechnician(http.HandlerFunc(r.jobHandler.GetOpenJobs))).Methods(http.MethodGet)
	bookings.Handle("/assigned/me", middleware.RequireTechnician(http.HandlerFunc(r.jobHandler.GetMyJobs))).Methods(http.MethodGet)
	bookings.HandleFunc("/{id}", r.bookingHandler.GetBooking).Methods(http.MethodGet)

	bookings.Handle("/{id}/accept", middleware.RequireTechnician(http.HandlerFunc(r.jobHandler.AcceptJob))).Methods(http.MethodPatch)
	bookings.Handle("/{id}/reject-assignment", middleware.RequireTechnician(http.HandlerFunc(r.jobHandler.RejectAssignment))).Methods(http.MethodPatch)
	bookings.Handle("/{id}/start", middleware.RequireTechnician(http.HandlerFunc(r.jobHandler.StartJob))).Methods(http.MethodPatch)
	bookings.Handle("/{id}/complete", middleware.RequireTechnician(http.HandlerFunc(r.jobHandler.CompleteJob))).Methods(http.MethodPatch)
	bookings.Handle("/{id}/cancel", middleware.RequireCustomer(http.HandlerFunc(r.bookingHandler.CancelBooking))).Methods(http.MethodPatch)
	bookings.Handle("/{id}/admin-cancel", middleware.RequireAdmin(http.HandlerFunc(r.adminBookingHandler.CancelBooking))).Methods(http.MethodPatch)
	bookings.Handle("/{id}/assign", middleware.RequireAdmin(http.HandlerFunc(r.adminBookingHandler.AssignTechnician))).Methods(http.MethodPatch)
	bookings.Handle("/{id}/reschedule", middleware.RequireAdmin(http.HandlerFunc(r.adminBookingHandler.RescheduleBooking))).Methods(http.MethodPatch)

	// Earnings routes (protected - technician only)
	earnings := api.PathPrefix("/earnings").Subrouter()
	earnings.Use(r.authMiddleware.Authenticate)
	earnings.Use(middleware.RequireTechnician)
	earnings.HandleFunc("/me", r.earningHandler.GetMyEarnings).Methods(http.MethodGet)
	earnings.HandleFunc("/me/summary", r.earningHandler.GetMySummary).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
