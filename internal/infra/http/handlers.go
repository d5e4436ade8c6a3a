package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Spok95/print-stock/internal/accounting"
	"github.com/Spok95/print-stock/internal/apperr"
	"github.com/Spok95/print-stock/internal/domain/agencies"
	"github.com/Spok95/print-stock/internal/domain/customers"
	"github.com/Spok95/print-stock/internal/domain/materials"
	"github.com/Spok95/print-stock/internal/domain/orders"
	"github.com/Spok95/print-stock/internal/domain/products"
	"github.com/Spok95/print-stock/internal/domain/rolls"
	"github.com/Spok95/print-stock/internal/infra/db"
	"github.com/Spok95/print-stock/internal/ordering"
	"github.com/Spok95/print-stock/internal/reports"
)

// Handlers — JSON-обвязка для UI. Вся логика в движке и сервисах,
// здесь только декодирование, орг-скоуп из заголовка и коды ответов.
type Handlers struct {
	log       *slog.Logger
	engine    *accounting.Engine
	ordering  *ordering.Service
	reports   *reports.Service
	rolls     *rolls.Repo
	agencies  *agencies.Repo
	customers *customers.Repo
	materials *materials.Repo
	products  *products.Repo
	orders    *orders.Repo
}

func NewHandlers(
	log *slog.Logger,
	engine *accounting.Engine,
	orderingSvc *ordering.Service,
	reportsSvc *reports.Service,
	rollsRepo *rolls.Repo,
	agenciesRepo *agencies.Repo,
	customersRepo *customers.Repo,
	materialsRepo *materials.Repo,
	productsRepo *products.Repo,
	ordersRepo *orders.Repo,
) *Handlers {
	return &Handlers{
		log:       log.With("component", "http"),
		engine:    engine,
		ordering:  orderingSvc,
		reports:   reportsSvc,
		rolls:     rollsRepo,
		agencies:  agenciesRepo,
		customers: customersRepo,
		materials: materialsRepo,
		products:  productsRepo,
		orders:    ordersRepo,
	}
}

func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/rolls", h.registerRoll)
	mux.HandleFunc("GET /api/rolls", h.listRolls)
	mux.HandleFunc("GET /api/rolls/{id}", h.getRoll)
	mux.HandleFunc("DELETE /api/rolls/{id}", h.deleteRoll)
	mux.HandleFunc("POST /api/rolls/{id}/assignments", h.assignToAgency)
	mux.HandleFunc("POST /api/rolls/{id}/assignments/{assignmentID}/receipts", h.receivePrinted)

	mux.HandleFunc("POST /api/agencies", h.createAgency)
	mux.HandleFunc("GET /api/agencies", h.listAgencies)

	mux.HandleFunc("POST /api/customers", h.createCustomer)
	mux.HandleFunc("GET /api/customers", h.listCustomers)

	mux.HandleFunc("POST /api/materials", h.createMaterial)
	mux.HandleFunc("GET /api/materials", h.listMaterials)
	mux.HandleFunc("POST /api/materials/{id}/supply", h.supplyMaterial)
	mux.HandleFunc("POST /api/materials/{id}/consume", h.consumeMaterial)

	mux.HandleFunc("POST /api/categories", h.createCategory)
	mux.HandleFunc("GET /api/categories", h.listCategories)
	mux.HandleFunc("POST /api/products", h.createProduct)
	mux.HandleFunc("GET /api/products", h.listProducts)

	mux.HandleFunc("POST /api/orders/validate", h.validateOrder)
	mux.HandleFunc("POST /api/orders", h.createOrder)
	mux.HandleFunc("GET /api/orders", h.listOrders)
	mux.HandleFunc("PATCH /api/orders/{id}/status", h.updateOrderStatus)

	mux.HandleFunc("GET /api/reports/sales", h.salesReport)
	mux.HandleFunc("GET /api/reports/sales/xlsx", h.salesReportXlsx)
}

/* Рулоны и бумага */

func (h *Handlers) registerRoll(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.orgID(w, r)
	if !ok {
		return
	}
	var req struct {
		Name    string  `json:"name"`
		TotalKg float64 `json:"total_kg"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	roll, err := h.engine.RegisterRoll(r.Context(), orgID, req.Name, req.TotalKg)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, roll)
}

func (h *Handlers) listRolls(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.orgID(w, r)
	if !ok {
		return
	}
	list, err := h.rolls.List(r.Context(), orgID)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	type item struct {
		rolls.Roll
		LowStock bool `json:"low_stock"`
	}
	out := make([]item, 0, len(list))
	for _, roll := range list {
		out = append(out, item{Roll: roll, LowStock: roll.LowStock()})
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) getRoll(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.orgID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	roll, err := h.rolls.GetByID(r.Context(), orgID, id)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	if roll == nil {
		h.writeErr(w, apperr.NotFound("roll %d not found", id))
		return
	}
	asgs, err := h.rolls.ListAssignments(r.Context(), orgID, id)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"roll": roll, "assignments": asgs})
}

func (h *Handlers) deleteRoll(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.orgID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.engine.DeleteRoll(r.Context(), orgID, id); err != nil {
		h.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) assignToAgency(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.orgID(w, r)
	if !ok {
		return
	}
	rollID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		AgencyID int64   `json:"agency_id"`
		AmountKg float64 `json:"amount_kg"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	asg, err := h.engine.AssignToAgency(r.Context(), orgID, rollID, req.AgencyID, req.AmountKg)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, asg)
}

func (h *Handlers) receivePrinted(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.orgID(w, r)
	if !ok {
		return
	}
	rollID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	assignmentID, ok := h.pathID(w, r, "assignmentID")
	if !ok {
		return
	}
	var req struct {
		CustomerID     int64      `json:"customer_id"`
		AmountKg       float64    `json:"amount_kg"`
		ReceivedAt     *time.Time `json:"received_at"`
		IdempotencyKey *uuid.UUID `json:"idempotency_key"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	receivedAt := time.Time{}
	if req.ReceivedAt != nil {
		receivedAt = *req.ReceivedAt
	}
	rec, err := h.engine.ReceivePrinted(r.Context(), orgID, rollID, assignmentID, req.CustomerID, req.AmountKg, receivedAt, req.IdempotencyKey)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, rec)
}

/* Справочники */

func (h *Handlers) createAgency(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.orgID(w, r)
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		h.writeErr(w, apperr.Invalid("agency name must not be empty"))
		return
	}
	a, err := h.agencies.Create(r.Context(), orgID, req.Name)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, a)
}

func (h *Handlers) listAgencies(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.orgID(w, r)
	if !ok {
		return
	}
	list, err := h.agencies.List(r.Context(), orgID)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, list)
}

func (h *Handlers) createCustomer(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.orgID(w, r)
	if !ok {
		return
	}
	var req struct {
		Brand       string `json:"brand"`
		CompanyName string `json:"company_name"`
		ContactName string `json:"contact_name"`
		Phone       string `json:"phone"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	if req.Brand == "" {
		h.writeErr(w, apperr.Invalid("customer brand must not be empty"))
		return
	}
	c, err := h.customers.Create(r.Context(), orgID, req.Brand, req.CompanyName, req.ContactName, req.Phone)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, c)
}

func (h *Handlers) listCustomers(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.orgID(w, r)
	if !ok {
		return
	}
	list, err := h.customers.List(r.Context(), orgID)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, list)
}

func (h *Handlers) createMaterial(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.orgID(w, r)
	if !ok {
		return
	}
	var req struct {
		Name    string  `json:"name"`
		TotalKg float64 `json:"total_kg"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		h.writeErr(w, apperr.Invalid("material name must not be empty"))
		return
	}
	if req.TotalKg < 0 {
		h.writeErr(w, apperr.Invalid("material stock must be >= 0, got %v", req.TotalKg))
		return
	}
	m, err := h.materials.Create(r.Context(), orgID, req.Name, req.TotalKg)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, m)
}

func (h *Handlers) listMaterials(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.orgID(w, r)
	if !ok {
		return
	}
	list, err := h.materials.List(r.Context(), orgID)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	type item struct {
		materials.Material
		AvailableKg float64 `json:"available_kg"`
		LowStock    bool    `json:"low_stock"`
	}
	out := make([]item, 0, len(list))
	for _, m := range list {
		out = append(out, item{Material: m, AvailableKg: m.AvailableKg(), LowStock: m.LowStock()})
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) supplyMaterial(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.orgID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		AmountKg float64 `json:"amount_kg"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	m, err := h.engine.SupplyMaterial(r.Context(), orgID, id, req.AmountKg)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, m)
}

func (h *Handlers) consumeMaterial(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.orgID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		AmountKg float64 `json:"amount_kg"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.engine.ConsumeMaterial(r.Context(), orgID, id, req.AmountKg); err != nil {
		h.writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) createCategory(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.orgID(w, r)
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		h.writeErr(w, apperr.Invalid("category name must not be empty"))
		return
	}
	c, err := h.products.CreateCategory(r.Context(), orgID, req.Name)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, c)
}

func (h *Handlers) listCategories(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.orgID(w, r)
	if !ok {
		return
	}
	list, err := h.products.ListCategories(r.Context(), orgID)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, list)
}

func (h *Handlers) createProduct(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.orgID(w, r)
	if !ok {
		return
	}
	var req struct {
		CategoryID            int64   `json:"category_id"`
		Title                 string  `json:"title"`
		Price                 string  `json:"price"`
		MaterialID            int64   `json:"material_id"`
		MaterialUsageG        float64 `json:"material_usage_g"`
		RequiredPaperGPer1000 float64 `json:"required_paper_g_per_1000"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	if req.Title == "" {
		h.writeErr(w, apperr.Invalid("product title must not be empty"))
		return
	}
	price, err := parsePrice(req.Price)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	if req.MaterialUsageG < 0 || req.RequiredPaperGPer1000 < 0 {
		h.writeErr(w, apperr.Invalid("usage norms must be >= 0"))
		return
	}
	p, err := h.products.Create(r.Context(), orgID, req.CategoryID, req.Title, price,
		req.MaterialID, req.MaterialUsageG, req.RequiredPaperGPer1000)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, p)
}

func (h *Handlers) listProducts(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.orgID(w, r)
	if !ok {
		return
	}
	list, err := h.products.List(r.Context(), orgID)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, list)
}

/* Заказы */

func (h *Handlers) validateOrder(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.orgID(w, r)
	if !ok {
		return
	}
	var req struct {
		CustomerID int64 `json:"customer_id"`
		ProductID  int64 `json:"product_id"`
		Quantity   int64 `json:"quantity"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	reqs, err := h.ordering.Validate(r.Context(), orgID, req.CustomerID, req.ProductID, req.Quantity)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"paper_required_kg":    reqs.PaperKg,
		"material_required_kg": reqs.MaterialKg,
	})
}

func (h *Handlers) createOrder(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.orgID(w, r)
	if !ok {
		return
	}
	var req struct {
		CustomerID int64 `json:"customer_id"`
		ProductID  int64 `json:"product_id"`
		Quantity   int64 `json:"quantity"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	o, err := h.ordering.Create(r.Context(), orgID, req.CustomerID, req.ProductID, req.Quantity)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, o)
}

func (h *Handlers) listOrders(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.orgID(w, r)
	if !ok {
		return
	}
	list, err := h.orders.List(r.Context(), orgID)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, list)
}

func (h *Handlers) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.orgID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	status, err := orders.ParseStatus(req.Status)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	o, err := h.orders.UpdateStatus(r.Context(), orgID, id, status)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, o)
}

/* Отчёты */

func (h *Handlers) salesReport(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.orgID(w, r)
	if !ok {
		return
	}
	summary, err := h.reports.Sales(r.Context(), orgID)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

func (h *Handlers) salesReportXlsx(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.orgID(w, r)
	if !ok {
		return
	}
	summary, err := h.reports.Sales(r.Context(), orgID)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	data, err := reports.ExportXlsx(summary)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+reports.FileName(time.Now())+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

/* Вспомогательное */

// orgID достаёт организацию из X-Org-ID. Без неё запрос не обслуживается.
func (h *Handlers) orgID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := r.Header.Get("X-Org-ID")
	if raw == "" {
		h.writeErr(w, apperr.Invalid("X-Org-ID header is required"))
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		h.writeErr(w, apperr.Invalid("X-Org-ID must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handlers) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		h.writeErr(w, apperr.Invalid("path parameter %q must be a positive integer", name))
		return 0, false
	}
	return id, true
}

func parsePrice(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, apperr.Invalid("price is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, apperr.Invalid("price must be a decimal number, got %q", s)
	}
	if d.IsNegative() {
		return decimal.Zero, apperr.Invalid("price must be >= 0")
	}
	return d, nil
}

func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeErr(w, apperr.Wrap(apperr.KindInvalidInput, err, "malformed request body"))
		return false
	}
	return true
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("response encode failed", "err", err)
	}
}

func (h *Handlers) writeErr(w http.ResponseWriter, err error) {
	// чтения и одиночные запросы идут мимо WithTx — типизируем здесь
	err = db.Translate(err)
	kind, ok := apperr.KindOf(err)
	if !ok {
		h.log.Error("internal error", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	status := http.StatusInternalServerError
	switch kind {
	case apperr.KindInvalidInput:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindInsufficientStock:
		status = http.StatusUnprocessableEntity
	case apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindTimeout:
		status = http.StatusGatewayTimeout
	case apperr.KindUnavailable:
		status = http.StatusServiceUnavailable
	}

	body := map[string]any{"error": err.Error(), "kind": kind.String()}
	if maxQty, ok := apperr.MaxFeasible(err); ok {
		body["max_feasible_quantity"] = maxQty
	}
	h.writeJSON(w, status, body)
}
