package router

import (
	"net/http"

	"contract-registry-api/config"
	"contract-registry-api/handler"

	_ "contract-registry-api/docs"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// NewRouter builds the full HTTP handler chain. The authorization gate wraps
// the whole router so every request, including ones that match no route, is
// classified against the route policy before anything else runs.
func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	profileHandler *handler.ProfileHandler,
	contractHandler *handler.ContractHandler,
	uploadHandler *handler.UploadHandler,
) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", handler.HealthCheck).Methods(http.MethodGet)
	r.PathPrefix("/swagger/").Handler(httpSwagger.Handler())

	// Public auth endpoints.
	r.Handle("/api/login", handler.ErrorHandlingMiddleware(authHandler.Login)).Methods(http.MethodPost)
	r.Handle("/api/signup", handler.ErrorHandlingMiddleware(authHandler.Signup)).Methods(http.MethodPost)
	r.Handle("/api/forgot-password", handler.ErrorHandlingMiddleware(authHandler.ForgotPassword)).Methods(http.MethodPost)
	r.Handle("/api/verify-reset-token", handler.ErrorHandlingMiddleware(authHandler.VerifyResetToken)).Methods(http.MethodGet)
	r.Handle("/api/reset-password", handler.ErrorHandlingMiddleware(authHandler.ResetPassword)).Methods(http.MethodPost)

	// Authenticated endpoints. The gate has already verified the token and
	// injected the caller's identity by the time these run.
	r.Handle("/api/logout", handler.ErrorHandlingMiddleware(authHandler.Logout)).Methods(http.MethodPost)
	r.Handle("/api/profile", handler.ErrorHandlingMiddleware(profileHandler.GetProfile)).Methods(http.MethodGet)
	r.Handle("/api/profile", handler.ErrorHandlingMiddleware(profileHandler.UpdateProfile)).Methods(http.MethodPut)
	r.Handle("/api/contracts", handler.ErrorHandlingMiddleware(contractHandler.ListContracts)).Methods(http.MethodGet)
	r.Handle("/api/contracts/{id:[0-9]+}", handler.ErrorHandlingMiddleware(contractHandler.GetContract)).Methods(http.MethodGet)

	// Admin-gated endpoints.
	r.Handle("/api/contracts", handler.ErrorHandlingMiddleware(contractHandler.CreateContract)).Methods(http.MethodPost)
	r.Handle("/api/contracts/{id:[0-9]+}", handler.ErrorHandlingMiddleware(contractHandler.UpdateContract)).Methods(http.MethodPut)
	r.Handle("/api/contracts/{id:[0-9]+}", handler.ErrorHandlingMiddleware(contractHandler.DeleteContract)).Methods(http.MethodDelete)
	r.Handle("/api/contracts/{id:[0-9]+}/upload", handler.ErrorHandlingMiddleware(uploadHandler.UploadFiles)).Methods(http.MethodPost)
	r.Handle("/api/admin/users", handler.ErrorHandlingMiddleware(userHandler.ListUsers)).Methods(http.MethodGet)
	r.Handle("/api/admin/users", handler.ErrorHandlingMiddleware(userHandler.UpdateUserStatus)).Methods(http.MethodPut)
	r.Handle("/api/admin/users/role", handler.ErrorHandlingMiddleware(userHandler.UpdateUserRole)).Methods(http.MethodPut)
	r.Handle("/api/admin/users/{id:[0-9]+}", handler.ErrorHandlingMiddleware(userHandler.DeactivateUser)).Methods(http.MethodDelete)

	// Uploaded contract documents, served to authenticated callers only.
	uploadDir := config.AppConfig.Server.UploadDir
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	r.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir))))

	return handler.RequestID(handler.AccessLog(handler.Recoverer(handler.AuthorizationGate(r))))
}
