// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"strings"

	colegiosfeature "github.com/grupovertice/captacion/internal/app/features/colegios"
	configfeature "github.com/grupovertice/captacion/internal/app/features/configuracion"
	contactosfeature "github.com/grupovertice/captacion/internal/app/features/contactos"
	graduacionesfeature "github.com/grupovertice/captacion/internal/app/features/graduaciones"
	healthfeature "github.com/grupovertice/captacion/internal/app/features/health"
	jerarquiafeature "github.com/grupovertice/captacion/internal/app/features/jerarquia"
	permisosfeature "github.com/grupovertice/captacion/internal/app/features/permisos"
	productosfeature "github.com/grupovertice/captacion/internal/app/features/productos"
	usuariosfeature "github.com/grupovertice/captacion/internal/app/features/usuarios"
	"github.com/grupovertice/captacion/internal/app/store/audit"
	jerarquiastore "github.com/grupovertice/captacion/internal/app/store/jerarquia"
	permisostore "github.com/grupovertice/captacion/internal/app/store/permisos"
	"github.com/grupovertice/captacion/internal/app/system/auditlog"
	"github.com/grupovertice/captacion/internal/app/system/auth"
	"github.com/grupovertice/captacion/internal/app/system/permits"
	"github.com/grupovertice/captacion/internal/app/system/visibility"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and the Startup hook have completed. The health endpoint is public;
// everything under /api requires a bearer token. The colegios router is
// mounted twice: /api/universidades is the path older clients still use.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	verifier := auth.NewVerifier(appCfg.JWTSecret)
	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{Destination: appCfg.AuditLog})
	vis := visibility.NewResolver(jerarquiastore.New(db), logger)
	checker := permits.NewChecker(permisostore.New(db), logger)

	corsMW := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(appCfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	r := chi.NewRouter()
	r.Use(corsMW.Handler)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Get("/health", healthHandler.Serve)

	r.Route("/api", func(api chi.Router) {
		api.Use(verifier.RequireBearer)

		contactosHandler := contactosfeature.NewHandler(db, vis, checker, auditLog, logger)
		api.Mount("/contactos", contactosfeature.Routes(contactosHandler))

		graduacionesHandler := graduacionesfeature.NewHandler(db, checker, auditLog, logger)
		api.Mount("/graduaciones", graduacionesfeature.Routes(graduacionesHandler))

		colegiosHandler := colegiosfeature.NewHandler(db, checker, auditLog, logger)
		api.Mount("/colegios", colegiosfeature.Routes(colegiosHandler))
		api.Mount("/universidades", colegiosfeature.Routes(colegiosHandler))

		productosHandler := productosfeature.NewHandler(db, auditLog, logger)
		api.Mount("/productos", productosfeature.Routes(productosHandler))

		configHandler := configfeature.NewHandler(db, checker, auditLog, logger)
		api.Mount("/configuracion", configfeature.Routes(configHandler))

		permisosHandler := permisosfeature.NewHandler(db, auditLog, logger)
		api.Mount("/permisos", permisosfeature.Routes(permisosHandler))

		usuariosHandler := usuariosfeature.NewHandler(db, logger)
		api.Mount("/usuarios", usuariosfeature.Routes(usuariosHandler))

		jerarquiaHandler := jerarquiafeature.NewHandler(db, auditLog, logger)
		api.Mount("/jerarquia", jerarquiafeature.Routes(jerarquiaHandler))
	})

	return r, nil
}
