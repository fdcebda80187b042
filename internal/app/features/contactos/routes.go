// internal/app/features/contactos/routes.go
package contactos

import "github.com/go-chi/chi/v5"

// Routes returns the subrouter mounted under /api/contactos.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Post("/importar", h.Importar)
	r.Get("/comercial/{id}", h.ListByComercial)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	return r
}
