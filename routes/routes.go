package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	_ "p9e.in/combustibles/docs"
	"p9e.in/combustibles/handlers"
	"p9e.in/combustibles/middleware"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	// =====================================================
	// Public Routes (no authentication)
	// =====================================================
	r.HandleFunc("/login", handlers.Login).Methods("POST")
	r.Handle("/token", middleware.JWTMiddleware(
		http.HandlerFunc(handlers.GetCurrentUser))).Methods("GET")
	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir("./uploads"))),
	)

	// =====================================================
	// Protected API Routes (require JWT authentication)
	// =====================================================
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.JWTMiddleware)

	// Field staff: own latest snapshots and new readings
	api.HandleFunc("/stations", handlers.GetMyStations).Methods("GET")
	api.HandleFunc("/stations", handlers.UpdateStation).Methods("POST")

	// Password management
	api.HandleFunc("/change-password", handlers.ChangePassword).Methods("POST")

	// =====================================================
	// Admin Routes (require admin role)
	// =====================================================
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireAdmin)

	// Dashboard
	admin.HandleFunc("/dashboard", handlers.GetDashboard).Methods("GET")

	// User management
	admin.HandleFunc("/users", handlers.GetAllUsers).Methods("GET")
	admin.HandleFunc("/users", handlers.CreateUser).Methods("POST")
	admin.HandleFunc("/users/{id}", handlers.UpdateUser).Methods("PUT")
	admin.HandleFunc("/users/{id}", handlers.DeleteUser).Methods("DELETE")

	// Bulk import / export
	admin.HandleFunc("/upload", handlers.UploadFile).Methods("POST")
	admin.HandleFunc("/export/csv", handlers.ExportCSV).Methods("GET")
	admin.HandleFunc("/export/xlsx", handlers.ExportXLSX).Methods("GET")
	admin.HandleFunc("/imports", handlers.ListImportJobs).Methods("GET")

	return r
}
