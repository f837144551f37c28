package router

import (
	"context"
	"net/http"
	"time"

	"github.com/Josmarcito/sistema-durtron/internal/config"
	"github.com/Josmarcito/sistema-durtron/internal/handler"
	"github.com/Josmarcito/sistema-durtron/internal/infra"
	"github.com/Josmarcito/sistema-durtron/internal/middleware"
	"github.com/Josmarcito/sistema-durtron/internal/model"
	"github.com/Josmarcito/sistema-durtron/internal/repository"
	"github.com/Josmarcito/sistema-durtron/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Services groups the business services the HTTP layer depends on.
type Services struct {
	Auth        service.AuthService
	Equipo      service.EquipoService
	Categoria   service.CategoriaService
	Inventario  service.InventarioService
	Venta       service.VentaService
	Serie       service.SerieService
	Cotizacion  service.CotizacionService
	Proveedor   service.ProveedorService
	Requisicion service.RequisicionService
	Reporte     service.ReporteService
}

// Infra carries the shared clients used by health, cache and metrics.
type Infra struct {
	DB       *gorm.DB
	Redis    *redis.Client
	Metrics  *middleware.Metrics
	Breakers []*infra.CircuitBreaker
}

// NewServices wires repositories into services.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func NewServices(cfg *config.Config, db *gorm.DB, rdb *redis.Client, notificador service.Notificador) Services {
	// ── Repositories ─────────────────────────────────────────────────────────
	equipoRepo := repository.NewEquipoRepository(db)
	historialRepo := repository.NewHistorialPrecioRepository(db)
	inventarioRepo := repository.NewInventarioRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	serieRepo := repository.NewSerieRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	cotizacionRepo := repository.NewCotizacionRepository(db)
	proveedorRepo := repository.NewProveedorRepository(db)
	requisicionRepo := repository.NewRequisicionRepository(db)
	reporteRepo := repository.NewReporteRepository(db)

	// ── Collaborators ────────────────────────────────────────────────────────
	renderer := infra.NewPDFRenderer(infra.EmpresaInfo{
		Nombre:    cfg.EmpresaNombre,
		Direccion: cfg.EmpresaDireccion,
		Telefono:  cfg.EmpresaTelefono,
	})
	autorizador := service.NewAutorizadorGerente(cfg.Gerentes())

	// ── Services ─────────────────────────────────────────────────────────────
	serieSvc := service.NewSerieService(serieRepo)
	return Services{
		Auth:        service.NewAuthService(cfg),
		Equipo:      service.NewEquipoService(equipoRepo, historialRepo, inventarioRepo, redisOrNil(rdb)),
		Categoria:   service.NewCategoriaService(categoriaRepo),
		Inventario:  service.NewInventarioService(inventarioRepo, equipoRepo, serieSvc, renderer),
		Venta:       service.NewVentaService(ventaRepo, inventarioRepo, equipoRepo, autorizador, notificador),
		Serie:       serieSvc,
		Cotizacion:  service.NewCotizacionService(cotizacionRepo, equipoRepo, serieSvc, renderer, notificador, cfg.EmpresaNombre),
		Proveedor:   service.NewProveedorService(proveedorRepo),
		Requisicion: service.NewRequisicionService(requisicionRepo, proveedorRepo, serieSvc, renderer, notificador, cfg.EmpresaNombre),
		Reporte:     service.NewReporteService(reporteRepo, equipoRepo, categoriaRepo),
	}
}

// New returns the configured Gin engine. ctx bounds the rate limiter
// housekeeping goroutines.
func New(ctx context.Context, cfg *config.Config, svcs Services, inf Infra) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	apiLimiter := middleware.NewRateLimiter(1000, time.Minute, "Demasiadas solicitudes. Intente nuevamente en un momento.")
	loginLimiter := middleware.LoginRateLimiter()
	precioLimiter := middleware.NewRateLimiter(120, time.Minute, "Demasiadas consultas de precio.")
	for _, l := range []*middleware.RateLimiter{apiLimiter, loginLimiter, precioLimiter} {
		l.StartPurge(ctx, 5*time.Minute)
	}

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.SecureHeaders(cfg.Env == "production"))
	r.Use(middleware.CORS(cfg.Origins()))
	r.Use(middleware.ErrorHandler())
	if inf.Metrics != nil {
		r.Use(inf.Metrics.Middleware())
	}
	r.Use(apiLimiter.Middleware())

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(svcs.Auth)
	equiposH := handler.NewEquiposHandler(svcs.Equipo)
	categoriasH := handler.NewCategoriasHandler(svcs.Categoria)
	inventarioH := handler.NewInventarioHandler(svcs.Inventario)
	ventasH := handler.NewVentasHandler(svcs.Venta)
	seriesH := handler.NewSeriesHandler(svcs.Serie)
	cotizacionesH := handler.NewCotizacionesHandler(svcs.Cotizacion)
	proveedoresH := handler.NewProveedoresHandler(svcs.Proveedor)
	requisicionesH := handler.NewRequisicionesHandler(svcs.Requisicion)
	reportesH := handler.NewReportesHandler(svcs.Reporte)
	consultaH := handler.NewConsultaPreciosHandler(svcs.Equipo, redisOrNil(inf.Redis), time.Duration(cfg.PrecioCacheTTLMinuto)*time.Minute)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	if inf.DB != nil && inf.Redis != nil {
		r.GET("/health", handler.Health(inf.DB, inf.Redis, inf.Breakers...))
	}
	if inf.Metrics != nil {
		r.GET("/metrics", gin.WrapH(inf.Metrics.Handler()))
	}
	r.POST("/v1/auth/login", loginLimiter.Middleware(), authH.Login)
	r.GET("/v1/precio/:codigo", precioLimiter.Middleware(), consultaH.GetPrecio)

	admin := middleware.RequireRole(model.RolAdministrador)

	// Protected routes: both roles unless marked admin.
	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret), middleware.RequireRole(model.RolAdministrador, model.RolVendedor))
	{
		eq := v1.Group("/equipos")
		{
			eq.GET("", equiposH.Listar)
			eq.GET("/:id", equiposH.Obtener)
			eq.GET("/:id/historial-precios", equiposH.HistorialPrecios)
			eq.POST("", admin, equiposH.Crear)
			eq.PUT("/:id", admin, equiposH.Actualizar)
			eq.DELETE("/:id", admin, equiposH.Eliminar)
		}

		cat := v1.Group("/categorias")
		{
			cat.GET("", categoriasH.Listar)
			cat.POST("", admin, categoriasH.Crear)
			cat.PUT("/:id", admin, categoriasH.Actualizar)
			cat.DELETE("/:id", admin, categoriasH.Desactivar)
		}

		inv := v1.Group("/inventario")
		{
			inv.GET("", inventarioH.Listar)
			inv.POST("", inventarioH.Crear)
			inv.GET("/:id", inventarioH.Obtener)
			inv.DELETE("/:id", admin, inventarioH.Eliminar)
			inv.PATCH("/:id/estado", inventarioH.CambiarEstado)
			inv.GET("/:id/etiqueta", inventarioH.Etiqueta)
			inv.GET("/:id/movimientos", inventarioH.Movimientos)
			inv.POST("/:id/vender", ventasH.Vender)
		}

		ventas := v1.Group("/ventas")
		{
			ventas.GET("", ventasH.Listar)
			ventas.GET("/:id", ventasH.Obtener)
			ventas.DELETE("/:id", admin, ventasH.Anular)
			ventas.GET("/:id/anticipos", ventasH.ListarAnticipos)
			ventas.POST("/:id/anticipos", ventasH.RegistrarAnticipo)
		}
		v1.DELETE("/anticipos/:id", ventasH.EliminarAnticipo)

		v1.GET("/series/:codigo", seriesH.Actual)
		v1.POST("/series/:codigo/siguiente", seriesH.Siguiente)
		v1.POST("/admin/series/:codigo/liberar", admin, seriesH.Liberar)

		cot := v1.Group("/cotizaciones")
		{
			cot.GET("", cotizacionesH.Listar)
			cot.POST("", cotizacionesH.Crear)
			cot.GET("/:id", cotizacionesH.Obtener)
			cot.DELETE("/:id", cotizacionesH.Eliminar)
			cot.GET("/:id/pdf", cotizacionesH.PDF)
			cot.POST("/:id/enviar-email", cotizacionesH.EnviarEmail)
		}

		prov := v1.Group("/proveedores")
		{
			prov.GET("", proveedoresH.Listar)
			prov.GET("/:id", proveedoresH.ObtenerPorID)
			prov.POST("", admin, proveedoresH.Crear)
			prov.PUT("/:id", admin, proveedoresH.Actualizar)
			prov.DELETE("/:id", admin, proveedoresH.Eliminar)
		}

		req := v1.Group("/requisiciones")
		{
			req.GET("", requisicionesH.Listar)
			req.POST("", requisicionesH.Crear)
			req.GET("/:id", requisicionesH.Obtener)
			req.DELETE("/:id", requisicionesH.Eliminar)
			req.PATCH("/:id/estado", requisicionesH.CambiarEstado)
			req.GET("/:id/pdf", requisicionesH.PDF)
			req.POST("/:id/enviar-email", requisicionesH.Enviar)
			req.GET("/:id/whatsapp-url", requisicionesH.WhatsAppURL)
		}

		v1.GET("/dashboard", reportesH.Dashboard)
		v1.GET("/vendedores", reportesH.Vendedores)
		v1.GET("/config", reportesH.Config)
	}

	// Swagger UI, only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Ruta no encontrada"})
	})

	return r
}

// redisOrNil avoids storing a typed nil *redis.Client in the Cmdable interface.
func redisOrNil(rdb *redis.Client) redis.Cmdable {
	if rdb == nil {
		return nil
	}
	return rdb
}
