package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/core/service"
)

// Storefront is the state store the HTTP API drives.
type Storefront interface {
	Dispatch(a service.Action) (service.State, error)
	Snapshot() service.State
}

type HTTPHandler struct {
	store Storefront
	log   *zap.Logger
}

type CategoryRequest struct {
	Category string `json:"category"`
}

type SearchRequest struct {
	Query string `json:"query"`
}

type AddItemRequest struct {
	ProductID *int `json:"productId"`
}

type CartResponse struct {
	Open      bool              `json:"open"`
	Lines     []domain.CartLine `json:"lines"`
	ItemCount int               `json:"itemCount"`
	Total     string            `json:"total"`
}

type StorefrontResponse struct {
	Loading        bool             `json:"loading"`
	Categories     []string         `json:"categories"`
	ActiveCategory string           `json:"activeCategory"`
	SearchQuery    string           `json:"searchQuery"`
	Products       []domain.Product `json:"products"`
	Cart           CartResponse     `json:"cart"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func NewHTTPHandler(store Storefront, log *zap.Logger) *HTTPHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTPHandler{store: store, log: log}
}

// NewEcho returns an echo instance with the storefront routes registered.
func NewEcho(h *HTTPHandler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = SonicSerializer{}
	h.Register(e)
	return e
}

func (h *HTTPHandler) Register(e *echo.Echo) {
	e.GET("/healthz", h.HealthCheck)

	api := e.Group("/api")
	api.GET("/storefront", h.GetStorefront)
	api.GET("/products", h.GetProducts)
	api.GET("/categories", h.GetCategories)
	api.PUT("/filter/category", h.SelectCategory)
	api.PUT("/filter/search", h.SetSearchQuery)
	api.GET("/cart", h.GetCart)
	api.POST("/cart/items", h.AddItem)
	api.POST("/cart/lines/:index/increase", h.IncreaseQuantity)
	api.POST("/cart/lines/:index/decrease", h.DecreaseQuantity)
	api.DELETE("/cart/lines/:index", h.RemoveItem)
	api.POST("/cart/toggle", h.ToggleCart)
	api.POST("/cart/checkout", h.Checkout)
}

func (h *HTTPHandler) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) GetStorefront(c echo.Context) error {
	return c.JSON(http.StatusOK, storefrontResponse(h.store.Snapshot()))
}

func (h *HTTPHandler) GetProducts(c echo.Context) error {
	return c.JSON(http.StatusOK, nonNil(h.store.Snapshot().FilteredProducts()))
}

func (h *HTTPHandler) GetCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Snapshot().View().Categories)
}

func (h *HTTPHandler) GetCart(c echo.Context) error {
	return c.JSON(http.StatusOK, cartResponse(h.store.Snapshot()))
}

func (h *HTTPHandler) SelectCategory(c echo.Context) error {
	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, MessageResponse{Message: "invalid request body"})
	}
	return h.dispatch(c, service.SelectCategory{Category: req.Category}, storefrontResponse)
}

func (h *HTTPHandler) SetSearchQuery(c echo.Context) error {
	var req SearchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, MessageResponse{Message: "invalid request body"})
	}
	return h.dispatch(c, service.SetSearchQuery{Query: req.Query}, storefrontResponse)
}

func (h *HTTPHandler) AddItem(c echo.Context) error {
	var req AddItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, MessageResponse{Message: "invalid request body"})
	}
	if req.ProductID == nil {
		return c.JSON(http.StatusBadRequest, MessageResponse{Message: "missing productId"})
	}
	return h.dispatch(c, service.AddToCart{ProductID: *req.ProductID}, cartResponse)
}

func (h *HTTPHandler) IncreaseQuantity(c echo.Context) error {
	return h.dispatchLine(c, func(index int) service.Action { return service.IncreaseQuantity{Index: index} })
}

func (h *HTTPHandler) DecreaseQuantity(c echo.Context) error {
	return h.dispatchLine(c, func(index int) service.Action { return service.DecreaseQuantity{Index: index} })
}

func (h *HTTPHandler) RemoveItem(c echo.Context) error {
	return h.dispatchLine(c, func(index int) service.Action { return service.RemoveItem{Index: index} })
}

func (h *HTTPHandler) ToggleCart(c echo.Context) error {
	return h.dispatch(c, service.ToggleCart{}, cartResponse)
}

// Checkout is accepted and changes nothing.
func (h *HTTPHandler) Checkout(c echo.Context) error {
	return h.dispatch(c, service.Checkout{}, cartResponse)
}

func (h *HTTPHandler) dispatch(c echo.Context, a service.Action, render func(service.State) interface{}) error {
	s, err := h.store.Dispatch(a)
	if err != nil {
		status, message := errorStatus(err)
		if status == http.StatusInternalServerError {
			h.log.Error("dispatch failed", zap.String("action", a.Name()), zap.Error(err))
		}
		return c.JSON(status, MessageResponse{Message: message})
	}
	return c.JSON(http.StatusOK, render(s))
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrUnknownProduct):
		return http.StatusNotFound, "product not found"
	case errors.Is(err, domain.ErrLineOutOfRange):
		return http.StatusNotFound, "cart line not found"
	case errors.Is(err, service.ErrUnknownCategory):
		return http.StatusBadRequest, "unknown category"
	case errors.Is(err, service.ErrCatalogLoading):
		return http.StatusServiceUnavailable, "catalog is still loading"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func (h *HTTPHandler) dispatchLine(c echo.Context, action func(index int) service.Action) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, MessageResponse{Message: "invalid line index"})
	}
	return h.dispatch(c, action(index), cartResponse)
}

func storefrontResponse(s service.State) interface{} {
	v := s.View()
	return StorefrontResponse{
		Loading:        v.Loading,
		Categories:     v.Categories,
		ActiveCategory: v.ActiveCategory,
		SearchQuery:    v.SearchQuery,
		Products:       nonNil(v.Products),
		Cart:           cartResponse(s).(CartResponse),
	}
}

func cartResponse(s service.State) interface{} {
	lines := s.Cart.Lines()
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return CartResponse{
		Open:      s.CartOpen,
		Lines:     lines,
		ItemCount: s.Cart.TotalItemCount(),
		Total:     s.Cart.FormattedTotal(),
	}
}

func nonNil(products []domain.Product) []domain.Product {
	if products == nil {
		return []domain.Product{}
	}
	return products
}
