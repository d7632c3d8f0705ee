package handler

import (
	"time"

	housingapp "github.com/boardinghouse/backend/internal/application/housing"
	"github.com/boardinghouse/backend/internal/domain/housing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HousingHandler handles room and tenant API endpoints
type HousingHandler struct {
	BaseHandler
	registry          *housingapp.RegistryService
	occupancy         *housingapp.OccupancyService
	archivalRetention time.Duration
}

// NewHousingHandler creates a new HousingHandler
func NewHousingHandler(
	registry *housingapp.RegistryService,
	occupancy *housingapp.OccupancyService,
	archivalRetention time.Duration,
) *HousingHandler {
	return &HousingHandler{
		registry:          registry,
		occupancy:         occupancy,
		archivalRetention: archivalRetention,
	}
}

// CreateRoomRequest represents a request to register a room
type CreateRoomRequest struct {
	Number          string `json:"number" binding:"required,min=1,max=32"`
	Capacity        int    `json:"capacity" binding:"required,min=1,max=4"`
	MonthlyRent     string `json:"monthly_rent" binding:"required"`
	SecurityDeposit string `json:"security_deposit" binding:"required"`
}

// CreateTenantRequest represents a request to register a tenant
type CreateTenantRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=255"`
	Phone string `json:"phone" binding:"max=32"`
	Email string `json:"email" binding:"omitempty,email,max=255"`
}

// AssignTenantRequest represents a request to move a tenant into a room
type AssignTenantRequest struct {
	TenantID        string  `json:"tenant_id" binding:"required,uuid"`
	LeaseStart      string  `json:"lease_start" binding:"required"`
	LeaseEnd        *string `json:"lease_end"`
	RentOverride    *string `json:"rent_override"`
	DepositOverride *string `json:"deposit_override"`
}

// RoomResponse represents a room in API responses
type RoomResponse struct {
	ID              string    `json:"id"`
	Number          string    `json:"number"`
	Capacity        int       `json:"capacity"`
	Occupancy       int       `json:"occupancy"`
	Status          string    `json:"status"`
	Tenants         []string  `json:"tenants"`
	MonthlyRent     string    `json:"monthly_rent"`
	SecurityDeposit string    `json:"security_deposit"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TenantResponse represents a tenant in API responses
type TenantResponse struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Phone           string     `json:"phone,omitempty"`
	Email           string     `json:"email,omitempty"`
	RoomID          *string    `json:"room_id,omitempty"`
	LeaseStartDate  *time.Time `json:"lease_start_date,omitempty"`
	LeaseEndDate    *time.Time `json:"lease_end_date,omitempty"`
	MonthlyRent     string     `json:"monthly_rent,omitempty"`
	SecurityDeposit string     `json:"security_deposit,omitempty"`
	Status          string     `json:"status"`
	Archived        bool       `json:"archived"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func toRoomResponse(r *housing.Room) RoomResponse {
	tenants := make([]string, 0, len(r.Tenants))
	for _, id := range r.Tenants {
		tenants = append(tenants, id.String())
	}
	return RoomResponse{
		ID:              r.ID.String(),
		Number:          r.Number,
		Capacity:        r.Capacity,
		Occupancy:       r.Occupancy,
		Status:          r.Status.String(),
		Tenants:         tenants,
		MonthlyRent:     r.MonthlyRent.StringFixed(2),
		SecurityDeposit: r.SecurityDeposit.StringFixed(2),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func toTenantResponse(t *housing.Tenant) TenantResponse {
	resp := TenantResponse{
		ID:             t.ID.String(),
		Name:           t.Name,
		Phone:          t.Phone,
		Email:          t.Email,
		LeaseStartDate: t.LeaseStartDate,
		LeaseEndDate:   t.LeaseEndDate,
		Status:         t.Status.String(),
		Archived:       t.Archived,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
	if t.RoomID != nil {
		roomID := t.RoomID.String()
		resp.RoomID = &roomID
	}
	if t.MonthlyRent.Valid {
		resp.MonthlyRent = t.MonthlyRent.Decimal.StringFixed(2)
	}
	if t.SecurityDeposit.Valid {
		resp.SecurityDeposit = t.SecurityDeposit.Decimal.StringFixed(2)
	}
	return resp
}

// CreateRoom registers a room
func (h *HousingHandler) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	rent, err := decimal.NewFromString(req.MonthlyRent)
	if err != nil {
		h.BadRequest(c, "Invalid monthly rent")
		return
	}
	deposit, err := decimal.NewFromString(req.SecurityDeposit)
	if err != nil {
		h.BadRequest(c, "Invalid security deposit")
		return
	}

	room, err := h.registry.CreateRoom(c.Request.Context(), housingapp.CreateRoomInput{
		Number:          req.Number,
		Capacity:        req.Capacity,
		MonthlyRent:     rent,
		SecurityDeposit: deposit,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toRoomResponse(room))
}

// GetRoom returns a single room
func (h *HousingHandler) GetRoom(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid room ID")
		return
	}

	room, err := h.registry.GetRoom(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toRoomResponse(room))
}

// ListRooms returns all rooms ordered by room number
func (h *HousingHandler) ListRooms(c *gin.Context) {
	rooms, err := h.registry.ListRooms(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		responses = append(responses, toRoomResponse(room))
	}
	h.Success(c, responses)
}

// CreateTenant registers a tenant
func (h *HousingHandler) CreateTenant(c *gin.Context) {
	var req CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tenant, err := h.registry.CreateTenant(c.Request.Context(), housingapp.CreateTenantInput{
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toTenantResponse(tenant))
}

// GetTenant returns a single tenant
func (h *HousingHandler) GetTenant(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	tenant, err := h.registry.GetTenant(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toTenantResponse(tenant))
}

// ListTenants returns tenants; pass ?include_archived=true for all
func (h *HousingHandler) ListTenants(c *gin.Context) {
	includeArchived := c.Query("include_archived") == "true"

	tenants, err := h.registry.ListTenants(c.Request.Context(), includeArchived)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]TenantResponse, 0, len(tenants))
	for _, tenant := range tenants {
		responses = append(responses, toTenantResponse(tenant))
	}
	h.Success(c, responses)
}

// AssignTenant moves a tenant into a room and raises the deposit charge
func (h *HousingHandler) AssignTenant(c *gin.Context) {
	roomID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid room ID")
		return
	}

	var req AssignTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tenantID, err := uuid.Parse(req.TenantID)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	terms, err := parseLeaseTerms(req)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	room, err := h.occupancy.AssignTenant(c.Request.Context(), roomID, tenantID, terms)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toRoomResponse(room))
}

// RemoveTenant moves a tenant out of a room
func (h *HousingHandler) RemoveTenant(c *gin.Context) {
	roomID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid room ID")
		return
	}
	tenantID, err := uuid.Parse(c.Param("tenantId"))
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	room, err := h.occupancy.RemoveTenant(c.Request.Context(), roomID, tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toRoomResponse(room))
}

// ArchiveTenant archives a tenant, releasing their room first
func (h *HousingHandler) ArchiveTenant(c *gin.Context) {
	tenantID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	tenant, err := h.occupancy.ArchiveTenant(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toTenantResponse(tenant))
}

// VerifyIntegrity reports room/tenant reference drift without repairing it
func (h *HousingHandler) VerifyIntegrity(c *gin.Context) {
	report, err := h.occupancy.VerifyIntegrity(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// Reconcile strips archived tenants out of room occupancy lists
func (h *HousingHandler) Reconcile(c *gin.Context) {
	summary, err := h.occupancy.RemoveArchivedTenants(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// RunArchivalSweep archives long-departed tenants
func (h *HousingHandler) RunArchivalSweep(c *gin.Context) {
	summary, err := h.occupancy.RunArchivalSweep(c.Request.Context(), h.archivalRetention)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// RunLeaseExpirySweep emits lease expiry notices for leases ending soon
func (h *HousingHandler) RunLeaseExpirySweep(c *gin.Context) {
	if err := h.occupancy.RunLeaseExpirySweep(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func parseLeaseTerms(req AssignTenantRequest) (housing.LeaseTerms, error) {
	start, err := time.ParseInLocation("2006-01-02", req.LeaseStart, time.Local)
	if err != nil {
		return housing.LeaseTerms{}, err
	}
	terms := housing.LeaseTerms{StartDate: start}

	if req.LeaseEnd != nil && *req.LeaseEnd != "" {
		end, err := time.ParseInLocation("2006-01-02", *req.LeaseEnd, time.Local)
		if err != nil {
			return housing.LeaseTerms{}, err
		}
		terms.EndDate = &end
	}
	if req.RentOverride != nil && *req.RentOverride != "" {
		rent, err := decimal.NewFromString(*req.RentOverride)
		if err != nil {
			return housing.LeaseTerms{}, err
		}
		terms.RentOverride = &rent
	}
	if req.DepositOverride != nil && *req.DepositOverride != "" {
		deposit, err := decimal.NewFromString(*req.DepositOverride)
		if err != nil {
			return housing.LeaseTerms{}, err
		}
		terms.DepositOverride = &deposit
	}
	return terms, nil
}

// RegisterRoutes registers housing routes
func (h *HousingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/housing")
	{
		group.POST("/rooms", h.CreateRoom)
		group.GET("/rooms", h.ListRooms)
		group.GET("/rooms/:id", h.GetRoom)
		group.POST("/rooms/:id/tenants", h.AssignTenant)
		group.DELETE("/rooms/:id/tenants/:tenantId", h.RemoveTenant)

		group.POST("/tenants", h.CreateTenant)
		group.GET("/tenants", h.ListTenants)
		group.GET("/tenants/:id", h.GetTenant)
		group.POST("/tenants/:id/archive", h.ArchiveTenant)

		group.GET("/integrity", h.VerifyIntegrity)
		group.POST("/reconcile", h.Reconcile)
		group.POST("/sweeps/archival", h.RunArchivalSweep)
		group.POST("/sweeps/lease-expiry", h.RunLeaseExpirySweep)
	}
}
