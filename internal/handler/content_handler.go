package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/usecase"
)

// CMS・マーケティング系の公開API
type ContentHandler struct {
	uc *usecase.ContentUsecase
}

// DI
func NewContentHandler(uc *usecase.ContentUsecase) *ContentHandler {
	return &ContentHandler{uc: uc}
}

func (h *ContentHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/newsletter/subscribe", h.subscribe)
	e.GET("/featured-products", h.featuredProducts)
	e.GET("/testimonials", h.testimonials)
	e.GET("/blogs", h.blogs)
	e.GET("/blogs/:slug", h.blogDetail)
	e.GET("/pages/:slug", h.infoPage)
	e.POST("/contact", h.contact)
	e.GET("/site-config", h.siteConfig)
}

type SubscribeRequest struct {
	Email string `json:"email"`
}

func (h *ContentHandler) subscribe(c echo.Context) error {
	var req SubscribeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.SubscribeNewsletter(c.Request().Context(), req.Email)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ContentHandler) featuredProducts(c echo.Context) error {
	out, err := h.uc.ListFeaturedProducts(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ContentHandler) testimonials(c echo.Context) error {
	out, err := h.uc.ListTestimonials(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ContentHandler) blogs(c echo.Context) error {
	out, err := h.uc.ListBlogPosts(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ContentHandler) blogDetail(c echo.Context) error {
	out, err := h.uc.GetBlogPost(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ContentHandler) infoPage(c echo.Context) error {
	out, err := h.uc.GetInfoPage(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ContentHandler) contact(c echo.Context) error {
	var req usecase.ContactMessageInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.SubmitContactMessage(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *ContentHandler) siteConfig(c echo.Context) error {
	out, err := h.uc.GetSiteConfig(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
