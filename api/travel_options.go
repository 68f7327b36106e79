package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/service/catalog"
	"github.com/gin-gonic/gin"
)

type TravelOptionHandler struct {
	service catalog.CatalogUseCase
}

type createTravelOptionRequest struct {
	Title          string       `json:"title" binding:"required,max=100"`
	Type           string       `json:"type" binding:"required,travel_type"`
	Source         string       `json:"source" binding:"required,max=100"`
	Destination    string       `json:"destination" binding:"required,max=100"`
	DepartureTime  time.Time    `json:"departure_time" binding:"required"`
	ArrivalTime    time.Time    `json:"arrival_time" binding:"required"`
	PricePerSeat   domain.Money `json:"price_per_seat" binding:"gte=0,lte=9999999999"`
	AvailableSeats int          `json:"available_seats" binding:"gte=0"`
}

func NewTravelOptionHandler(service catalog.CatalogUseCase) *TravelOptionHandler {
	registerValidators()
	return &TravelOptionHandler{service: service}
}

func (h *TravelOptionHandler) Register(router *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	router.GET("", h.search)
	router.GET("/:id", h.get)
	router.POST("", requireAuth, h.create)
}

func (h *TravelOptionHandler) search(c *gin.Context) {
	criteria, page, err := parseSearchQuery(c)
	if err != nil {
		writeError(c, err)
		return
	}

	options, err := h.service.Search(c.Request.Context(), criteria, page)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, options)
}

func (h *TravelOptionHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid id")
		return
	}
	option, err := h.service.GetOption(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, option)
}

func (h *TravelOptionHandler) create(c *gin.Context) {
	var req createTravelOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	option, err := h.service.CreateOption(c.Request.Context(), domain.CreateTravelOptionInput{
		Title:          req.Title,
		Type:           domain.TravelType(req.Type),
		Source:         req.Source,
		Destination:    req.Destination,
		DepartureTime:  req.DepartureTime,
		ArrivalTime:    req.ArrivalTime,
		PricePerSeat:   req.PricePerSeat,
		AvailableSeats: req.AvailableSeats,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, option)
}

// parseSearchQuery reads filters and paging. A malformed date is kept as is
// and later ignored; malformed prices or paging are rejected.
func parseSearchQuery(c *gin.Context) (domain.SearchCriteria, domain.Page, error) {
	criteria := domain.SearchCriteria{
		Type:        c.Query("type"),
		Source:      c.Query("source"),
		Destination: c.Query("destination"),
		Date:        c.Query("date"),
	}

	var err error
	if criteria.MinPrice, err = queryMoney(c, "min_price"); err != nil {
		return criteria, domain.Page{}, err
	}
	if criteria.MaxPrice, err = queryMoney(c, "max_price"); err != nil {
		return criteria, domain.Page{}, err
	}

	var page domain.Page
	if page.Skip, err = queryInt(c, "skip"); err != nil {
		return criteria, page, err
	}
	if page.Limit, err = queryInt(c, "limit"); err != nil {
		return criteria, page, err
	}
	return criteria, page, nil
}

func queryMoney(c *gin.Context, name string) (*domain.Money, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, nil
	}
	m, err := domain.ParseMoney(raw)
	if err != nil {
		return nil, domain.InvalidArgumentf("%s: %v", name, err)
	}
	return &m, nil
}

func queryInt(c *gin.Context, name string) (int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.InvalidArgumentf("%s must be an integer", name)
	}
	return n, nil
}
