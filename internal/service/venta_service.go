package service

import (
	"context"
	"errors"
	"fmt"

	"drinkeo/internal/dto"
	"drinkeo/internal/metrics"
	"drinkeo/internal/model"
	"drinkeo/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VentaService interface {
	RegistrarVenta(ctx context.Context, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	ObtenerVenta(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
	ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
	AnularVenta(ctx context.Context, id uuid.UUID, motivo string) (*dto.VentaResponse, error)
	EliminarVenta(ctx context.Context, id uuid.UUID) error
}

type ventaService struct {
	repo       repository.VentaRepository
	inventario InventarioService
	empleados  repository.EmpleadoRepository
	clientes   repository.ClienteRepository
	productos  repository.ProductoRepository
	// permitirEliminar gates EliminarVenta (PERMITIR_ELIMINAR_VENTAS).
	permitirEliminar bool
}

func NewVentaService(
	repo repository.VentaRepository,
	inventario InventarioService,
	empleados repository.EmpleadoRepository,
	clientes repository.ClienteRepository,
	productos repository.ProductoRepository,
	permitirEliminar bool,
) VentaService {
	return &ventaService{
		repo:             repo,
		inventario:       inventario,
		empleados:        empleados,
		clientes:         clientes,
		productos:        productos,
		permitirEliminar: permitirEliminar,
	}
}

// ── RegistrarVenta ────────────────────────────────────────────────────────────
// The highest-level atomic operation in the system:
//   1. Pre-flight (outside TX): resolve empleado/cliente/productos, compute
//      subtotales and total in decimal.
//   2. BEGIN TX: create venta + detalles, consume receta ingredients per
//      detalle in input order.
//   3. COMMIT — or roll back everything: a failed sale leaves no header, no
//      detalles and no stock deductions.
//   4. (post-commit) enqueue low-stock alert mails.

func (s *ventaService) RegistrarVenta(ctx context.Context, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	empleadoID, err := uuid.Parse(req.EmpleadoID)
	if err != nil {
		return nil, fmt.Errorf("id_empleado inválido: %w", err)
	}
	empleado, err := s.empleados.FindByID(ctx, empleadoID)
	if err != nil {
		return nil, ErrEmpleadoNoEncontrado
	}

	var clienteID *uuid.UUID
	var clienteNombre *string
	if req.ClienteID != nil {
		cid, err := uuid.Parse(*req.ClienteID)
		if err != nil {
			return nil, fmt.Errorf("id_cliente inválido: %w", err)
		}
		cliente, err := s.clientes.FindByID(ctx, cid)
		if err != nil {
			return nil, ErrClienteNoEncontrado
		}
		clienteID = &cid
		clienteNombre = &cliente.Nombre
	}

	// Resolve products and compute totals (pre-flight, outside TX). The precio
	// unitario comes from the request — snapshot semantics, not a live lookup.
	type resolvedDetalle struct {
		productoID uuid.UUID
		nombre     string
		categoria  string
		cantidad   int
		precio     decimal.Decimal
		subtotal   decimal.Decimal
	}

	var resolved []resolvedDetalle
	total := decimal.Zero
	for _, d := range req.Detalles {
		pid, err := uuid.Parse(d.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("id_producto inválido: %w", err)
		}
		p, err := s.productos.FindByID(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrProductoNoEncontrado, d.ProductoID)
		}
		if !p.Activo {
			return nil, fmt.Errorf("el producto %s está inactivo y no puede venderse", p.Nombre)
		}
		subtotal := d.PrecioUnitario.Mul(decimal.NewFromInt(int64(d.Cantidad)))
		total = total.Add(subtotal)
		categoria := ""
		if p.Categoria != nil {
			categoria = p.Categoria.Nombre
		}
		resolved = append(resolved, resolvedDetalle{
			productoID: pid,
			nombre:     p.Nombre,
			categoria:  categoria,
			cantidad:   d.Cantidad,
			precio:     d.PrecioUnitario,
			subtotal:   subtotal,
		})
	}

	// ACID transaction: header, detalles and every stock deduction commit or
	// roll back as one unit.
	var venta model.Venta
	var consumos []dto.StockResult
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		venta = model.Venta{
			ClienteID:  clienteID,
			EmpleadoID: empleadoID,
			Total:      total,
			MetodoPago: req.MetodoPago,
			Estado:     model.VentaCompletada,
		}
		for _, r := range resolved {
			venta.Detalles = append(venta.Detalles, model.DetalleVenta{
				ProductoID:     r.productoID,
				Cantidad:       r.cantidad,
				PrecioUnitario: r.precio,
				Subtotal:       r.subtotal,
			})
		}
		if err := s.repo.Create(ctx, tx, &venta); err != nil {
			return err
		}

		motivoPrefix := fmt.Sprintf("Venta %s", venta.ID)
		for _, r := range resolved {
			res, err := s.inventario.ConsumirIngredientesProductoTx(ctx, tx, r.productoID, r.cantidad, motivoPrefix)
			if err != nil {
				return fmt.Errorf("error descontando ingredientes de %s: %w", r.nombre, err)
			}
			consumos = append(consumos, res...)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	metrics.VentasRegistradas.WithLabelValues(req.MetodoPago).Inc()
	registrarMetricas(consumos)
	s.inventario.NotificarAlertas(ctx, consumos)

	// Build response from the resolved slice — the names were already fetched.
	resp := &dto.VentaResponse{
		ID:         venta.ID.String(),
		Empleado:   empleado.Nombre,
		Cliente:    clienteNombre,
		Total:      venta.Total,
		MetodoPago: venta.MetodoPago,
		Estado:     venta.Estado,
		CreatedAt:  venta.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	for _, r := range resolved {
		resp.Detalles = append(resp.Detalles, dto.DetalleVentaResponse{
			Producto:       r.nombre,
			Categoria:      r.categoria,
			Cantidad:       r.cantidad,
			PrecioUnitario: r.precio,
			Subtotal:       r.subtotal,
		})
	}
	return resp, nil
}

// ── AnularVenta ───────────────────────────────────────────────────────────────
// State machine: completada → anulada, nothing else. The consumed ingredients
// are restored inside the same transaction — a voided sale leaves the
// inventory as if it had never happened, with entrada movements as the trail.

func (s *ventaService) AnularVenta(ctx context.Context, id uuid.UUID, motivo string) (*dto.VentaResponse, error) {
	var reposiciones []dto.StockResult
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Lock the header: two concurrent voids must not both see "completada".
		venta, err := s.repo.FindByIDForUpdateTx(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVentaNoEncontrada
			}
			return err
		}
		if venta.Estado == model.VentaAnulada {
			return ErrVentaYaAnulada
		}

		motivoPrefix := fmt.Sprintf("Anulación venta %s", id)
		if motivo != "" {
			motivoPrefix = fmt.Sprintf("%s (%s)", motivoPrefix, motivo)
		}
		for _, d := range venta.Detalles {
			res, err := s.inventario.ReponerIngredientesProductoTx(ctx, tx, d.ProductoID, d.Cantidad, motivoPrefix)
			if err != nil {
				return fmt.Errorf("error restaurando ingredientes: %w", err)
			}
			reposiciones = append(reposiciones, res...)
		}

		var motivoPtr *string
		if motivo != "" {
			motivoPtr = &motivo
		}
		return s.repo.UpdateEstadoTx(tx, id, model.VentaAnulada, motivoPtr)
	})
	if txErr != nil {
		return nil, txErr
	}

	metrics.VentasAnuladas.Inc()
	registrarMetricas(reposiciones)
	return s.ObtenerVenta(ctx, id)
}

// ── EliminarVenta ─────────────────────────────────────────────────────────────
// Administrative escape hatch: hard delete, detalles cascade, stock is NOT
// reverted. Disabled unless PERMITIR_ELIMINAR_VENTAS is set — normal operation
// should void instead.

func (s *ventaService) EliminarVenta(ctx context.Context, id uuid.UUID) error {
	if !s.permitirEliminar {
		return ErrEliminarDeshabilitado
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVentaNoEncontrada
		}
		return err
	}
	log.Warn().Str("venta_id", id.String()).Msg("eliminando venta sin revertir stock")
	return s.repo.Delete(ctx, id)
}

func (s *ventaService) ObtenerVenta(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVentaNoEncontrada
		}
		return nil, err
	}
	return ventaToResponse(venta), nil
}

func (s *ventaService) ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	ventas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VentaListItem, 0, len(ventas))
	for _, v := range ventas {
		empleado := ""
		if v.Empleado != nil {
			empleado = v.Empleado.Nombre
		}
		var cliente *string
		if v.Cliente != nil {
			cliente = &v.Cliente.Nombre
		}
		items = append(items, dto.VentaListItem{
			ID:            v.ID.String(),
			Empleado:      empleado,
			Cliente:       cliente,
			Total:         v.Total,
			MetodoPago:    v.MetodoPago,
			Estado:        v.Estado,
			CantidadItems: len(v.Detalles),
			Fecha:         v.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return &dto.VentaListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	detalles := make([]dto.DetalleVentaResponse, 0, len(v.Detalles))
	for _, d := range v.Detalles {
		nombre := ""
		categoria := ""
		if d.Producto != nil {
			nombre = d.Producto.Nombre
			if d.Producto.Categoria != nil {
				categoria = d.Producto.Categoria.Nombre
			}
		}
		detalles = append(detalles, dto.DetalleVentaResponse{
			Producto:       nombre,
			Categoria:      categoria,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			Subtotal:       d.Subtotal,
		})
	}
	empleado := ""
	if v.Empleado != nil {
		empleado = v.Empleado.Nombre
	}
	var cliente *string
	if v.Cliente != nil {
		cliente = &v.Cliente.Nombre
	}
	return &dto.VentaResponse{
		ID:              v.ID.String(),
		Empleado:        empleado,
		Cliente:         cliente,
		Detalles:        detalles,
		Total:           v.Total,
		MetodoPago:      v.MetodoPago,
		Estado:          v.Estado,
		MotivoAnulacion: v.MotivoAnulacion,
		CreatedAt:       v.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
