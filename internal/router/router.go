package router

import (
	"time"

	"drinkeo/internal/config"
	"drinkeo/internal/handler"
	"drinkeo/internal/middleware"
	"drinkeo/internal/repository"
	"drinkeo/internal/service"
	"drinkeo/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	insumoRepo := repository.NewInsumoRepository(db)
	movimientoRepo := repository.NewMovimientoRepository(db)
	recetaRepo := repository.NewRecetaRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	empleadoRepo := repository.NewEmpleadoRepository(db)
	clienteRepo := repository.NewClienteRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	stockSvc := service.NewStockService(insumoRepo, movimientoRepo)
	inventarioSvc := service.NewInventarioService(stockSvc, recetaRepo, insumoRepo, movimientoRepo, dispatcher)
	insumoSvc := service.NewInsumoService(insumoRepo, stockSvc)
	ventaSvc := service.NewVentaService(ventaRepo, inventarioSvc, empleadoRepo, clienteRepo, productoRepo, cfg.PermitirEliminarVentas)

	// ── Handlers ─────────────────────────────────────────────────────────────
	ventasH := handler.NewVentasHandler(ventaSvc, ventaRepo, cfg.PDFStoragePath)
	inventarioH := handler.NewInventarioHandler(inventarioSvc)
	insumosH := handler.NewInsumosHandler(insumoSvc)
	productosH := handler.NewProductosHandler(productoRepo, recetaRepo)
	consultaH := handler.NewConsultaPreciosHandler(productoRepo, rdb)
	reportesH := handler.NewReportesHandler(ventaRepo)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	{
		v1.POST("/ventas", ventasH.RegistrarVenta)
		v1.GET("/ventas", ventasH.ListarVentas)
		v1.GET("/ventas/:id", ventasH.ObtenerVenta)
		v1.PATCH("/ventas/:id/anular", ventasH.AnularVenta)
		v1.DELETE("/ventas/:id", ventasH.EliminarVenta)
		v1.GET("/ventas/:id/ticket", ventasH.Ticket)

		inv := v1.Group("/inventario")
		{
			inv.POST("/movimientos", inventarioH.RegistrarMovimiento)
			inv.GET("/movimientos", inventarioH.ListarMovimientos)
			inv.GET("/alertas", inventarioH.Alertas)
		}

		v1.POST("/insumos", insumosH.CrearInsumo)
		v1.GET("/insumos", insumosH.ListarInsumos)
		v1.GET("/insumos/:id", insumosH.ObtenerInsumo)

		v1.GET("/productos", productosH.ListarProductos)
		v1.GET("/productos/:id/receta", productosH.Receta)

		v1.GET("/precios/:id", consultaH.GetPrecio)

		v1.GET("/reportes/ventas.xlsx", reportesH.VentasXLSX)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
