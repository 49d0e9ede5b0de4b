package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gharseva/gharseva-api/internal/domain"
	"github.com/gharseva/gharseva-api/internal/middleware"
)

// PortfolioHandler handles the partner's before/after image collection
type PortfolioHandler struct {
	portfolio domain.PortfolioService
}

// NewPortfolioHandler creates a new portfolio handler
func NewPortfolioHandler(portfolio domain.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{portfolio: portfolio}
}

// AddImages handles POST /v1/partners/me/portfolio.
// Multipart form: repeated "images" files plus parallel "kinds", "captions"
// and "locations" values addressed by index.
func (h *PortfolioHandler) AddImages(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid multipart form: "+err.Error())
	}

	headers := form.File["images"]
	if len(headers) == 0 {
		return fail(c, fiber.StatusBadRequest, "missing 'images' field in form data")
	}

	files := make([]domain.UploadFile, 0, len(headers))
	for _, fh := range headers {
		file, rerr := readFileHeader(fh)
		if rerr != nil {
			return fail(c, fiber.StatusBadRequest, rerr.Error())
		}
		files = append(files, file)
	}

	items, err := h.portfolio.AddBatch(
		c.Context(),
		middleware.GetAccountID(c),
		files,
		form.Value["kinds"],
		form.Value["captions"],
		form.Value["locations"],
	)
	if err != nil {
		return failErr(c, err)
	}
	return okList(c, items, len(items))
}

type portfolioPatchRequest struct {
	Kind     *string          `json:"kind"`
	Caption  *string          `json:"caption"`
	Location *domain.GeoPoint `json:"loc"`
}

// UpdateImage handles PATCH /v1/partners/me/portfolio/:id
func (h *PortfolioHandler) UpdateImage(c *fiber.Ctx) error {
	var req portfolioPatchRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}

	patch := domain.PortfolioPatch{
		Caption:  req.Caption,
		Location: req.Location,
	}
	if req.Kind != nil {
		kind := domain.PortfolioKind(*req.Kind)
		patch.Kind = &kind
	}

	item, err := h.portfolio.UpdateItem(c.Context(), middleware.GetAccountID(c), c.Params("id"), patch)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, "portfolio image updated", item)
}

// DeleteImage handles DELETE /v1/partners/me/portfolio/:id
func (h *PortfolioHandler) DeleteImage(c *fiber.Ctx) error {
	if err := h.portfolio.DeleteItem(c.Context(), middleware.GetAccountID(c), c.Params("id")); err != nil {
		return failErr(c, err)
	}
	return ok(c, fiber.StatusOK, "portfolio image deleted", nil)
}
