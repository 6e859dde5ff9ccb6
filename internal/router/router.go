package router

import (
	"fmt"
	"net/http"

	"humsafar/internal/handlers"
	"humsafar/internal/middleware"
	"humsafar/internal/models"

	"github.com/go-chi/chi/v5"
)

func RegisterRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORSMiddleware)
	r.Use(middleware.LoggingMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})

	// Public: auth and the published directory
	r.Post("/api/v1/auth/login", handlers.Login)
	r.Post("/api/v1/auth/register", handlers.RegisterMember)
	r.Get("/api/v1/profiles", handlers.PublicProfiles)
	r.Get("/api/v1/profiles/{no}", handlers.PublicProfileByNo)
	r.Get("/api/v1/profiles/{no}/qrcode", handlers.GetProfileQRCode)
	// Contact reveal via share token in query param
	r.Get("/api/v1/profiles/{no}/contact", handlers.GetProfileContact)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware)

		r.Get("/api/v1/auth/me", handlers.AuthMe)

		r.Post("/api/v1/biodata/parse", handlers.ParseBiodata)
		r.Post("/api/v1/biodata/ocr", handlers.OCRBiodata)
		r.Post("/api/v1/biodata/parse-llm", handlers.ParseBiodataLLM)

		r.Post("/api/v1/profiles", handlers.CreateProfile)
		r.Get("/api/v1/group/profiles", handlers.MyProfiles)
		r.Put("/api/v1/profiles/{no}", handlers.UpdateProfile)
		r.Delete("/api/v1/profiles/{no}", handlers.DeleteProfile)
		r.Post("/api/v1/profiles/{no}/publish", handlers.PublishProfile)
		r.Post("/api/v1/profiles/{no}/share-link", handlers.GenerateShareLink)
		r.Post("/api/v1/profiles/check-duplicate", handlers.CheckDuplicate)
		// Bulk CSV upload for group admins
		r.Post("/api/v1/profiles/bulk-upload", handlers.BulkUploadProfiles)

		r.Post("/api/v1/claims", handlers.CreateClaim)
		r.Get("/api/v1/claims", handlers.ListClaimsForGroup)
		r.Patch("/api/v1/claims/approve", handlers.ApproveClaim)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleSuper))
			r.Post("/api/v1/admin/group-admins", handlers.CreateGroupAdmin)
			r.Get("/api/v1/admin/groups", handlers.AllGroups)
			r.Get("/api/v1/admin/stats", handlers.DirectoryStats)
		})
	})
	return r
}
