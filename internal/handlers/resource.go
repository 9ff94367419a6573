package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/tree-api/internal/constants"
	"github.com/yukikurage/tree-api/internal/dto"
	apierrors "github.com/yukikurage/tree-api/internal/errors"
	"github.com/yukikurage/tree-api/internal/services"
	"github.com/yukikurage/tree-api/internal/utils"
)

// EntityService is the service contract a Resource serves over HTTP
type EntityService[T any] interface {
	EntityName() string
	Create(ctx context.Context, payloadID *uint64, ent *T) (*T, error)
	Update(ctx context.Context, pathID uint64, payloadID *uint64, ent *T) (*T, error)
	PartialUpdate(ctx context.Context, pathID uint64, payloadID *uint64, patch *T) (*T, error)
	List(ctx context.Context, eager bool, sort utils.Sort) ([]T, error)
	ListPage(ctx context.Context, eager bool, page utils.Pageable) ([]T, int64, error)
	Get(ctx context.Context, id uint64) (*T, error)
	Delete(ctx context.Context, id uint64) error
}

// Resource exposes create, update, partial update, list, get and delete for
// one entity. D is the wire payload of the entity.
type Resource[T any, D dto.Payload[T]] struct {
	service     EntityService[T]
	toDTO       func(T) D
	basePath    string
	sortColumns map[string]string
	reporter    *apierrors.Reporter
}

// NewResource creates a Resource served under basePath. sortColumns maps the
// JSON fields clients may sort by to their columns.
func NewResource[T any, D dto.Payload[T]](service EntityService[T], toDTO func(T) D, basePath string, sortColumns map[string]string, reporter *apierrors.Reporter) *Resource[T, D] {
	return &Resource[T, D]{
		service:     service,
		toDTO:       toDTO,
		basePath:    basePath,
		sortColumns: sortColumns,
		reporter:    reporter,
	}
}

// RegisterRoutes mounts the resource on rg. PATCH bodies must be JSON or
// JSON merge patch.
func (h *Resource[T, D]) RegisterRoutes(rg gin.IRoutes, patchGuard gin.HandlerFunc) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.PATCH("/:id", patchGuard, h.PartialUpdate)
	rg.DELETE("/:id", h.Delete)
}

// Create persists a new entity and returns it with its Location
func (h *Resource[T, D]) Create(c *gin.Context) {
	var body D
	if !h.bind(c, &body) {
		return
	}

	saved, err := h.service.Create(c.Request.Context(), body.Identity(), body.ToModel())
	if err != nil {
		h.respondError(c, err)
		return
	}

	out := h.toDTO(*saved)
	c.Header("Location", fmt.Sprintf("%s/%d", h.basePath, *out.Identity()))
	c.JSON(http.StatusCreated, out)
}

// Update replaces the entity at /:id
func (h *Resource[T, D]) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var body D
	if !h.bind(c, &body) {
		return
	}

	saved, err := h.service.Update(c.Request.Context(), id, body.Identity(), body.ToModel())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.toDTO(*saved))
}

// PartialUpdate merges the non-null fields of the body into the entity at /:id
func (h *Resource[T, D]) PartialUpdate(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var body D
	if !h.bind(c, &body) {
		return
	}

	merged, err := h.service.PartialUpdate(c.Request.Context(), id, body.Identity(), body.ToModel())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.toDTO(*merged))
}

// List returns the entities, joined with their user when eagerload=true.
// A page is returned when page or size is given.
func (h *Resource[T, D]) List(c *gin.Context) {
	eager := false
	if raw := c.Query(constants.QueryEagerLoad); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid eagerload flag")
			return
		}
		eager = v
	}

	page, paged, err := utils.GetPageable(c, h.sortColumns)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	var (
		items []T
		total int64
	)
	if paged {
		items, total, err = h.service.ListPage(c.Request.Context(), eager, page)
	} else {
		items, err = h.service.List(c.Request.Context(), eager, page.Sort)
		total = int64(len(items))
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header(constants.HeaderTotalCount, strconv.FormatInt(total, 10))
	c.JSON(http.StatusOK, dto.ToDTOs(items, h.toDTO))
}

// Get returns the entity at /:id joined with its user
func (h *Resource[T, D]) Get(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	ent, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.toDTO(*ent))
}

// Delete removes the entity at /:id. Missing ids still answer 204.
func (h *Resource[T, D]) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Resource[T, D]) bind(c *gin.Context, body *D) bool {
	if err := c.ShouldBindJSON(body); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return false
	}
	return true
}

func (h *Resource[T, D]) pathID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid id")
		return 0, false
	}
	return id, true
}

// respondError maps service errors to HTTP responses
func (h *Resource[T, D]) respondError(c *gin.Context, err error) {
	entity := h.service.EntityName()

	switch {
	case errors.Is(err, services.ErrIDExists):
		apierrors.BadRequestAlert(c, fmt.Sprintf("A new %s cannot already have an ID", entity), entity, apierrors.KeyIDExists)
	case errors.Is(err, services.ErrIDNull):
		apierrors.BadRequestAlert(c, "Invalid id", entity, apierrors.KeyIDNull)
	case errors.Is(err, services.ErrIDInvalid):
		apierrors.BadRequestAlert(c, "Invalid ID", entity, apierrors.KeyIDInvalid)
	case errors.Is(err, services.ErrIDNotFound):
		apierrors.BadRequestAlert(c, "Entity not found", entity, apierrors.KeyIDNotFound)
	case errors.Is(err, services.ErrUnknownUser):
		apierrors.BadRequestAlert(c, "Assigned user does not exist", entity, apierrors.KeyUserInvalid)
	case errors.Is(err, services.ErrUserAlreadyAssigned):
		apierrors.ConflictAlert(c, fmt.Sprintf("User already has a %s", entity), entity, apierrors.KeyUserExists)
	case errors.Is(err, services.ErrNotFound):
		apierrors.NotFound(c, "")
	default:
		h.reporter.Internal(c, err)
	}
}
