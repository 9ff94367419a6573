package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/tree-api/internal/constants"
	"github.com/yukikurage/tree-api/internal/dto"
	apierrors "github.com/yukikurage/tree-api/internal/errors"
	"github.com/yukikurage/tree-api/internal/services"
	"github.com/yukikurage/tree-api/internal/utils"
)

var userSortColumns = map[string]string{
	"id":    "id",
	"login": "login",
}

type UserHandler struct {
	userService *services.UserService
	reporter    *apierrors.Reporter
}

func NewUserHandler(userService *services.UserService, reporter *apierrors.Reporter) *UserHandler {
	return &UserHandler{
		userService: userService,
		reporter:    reporter,
	}
}

// ListUsers returns one page of users, 20 per page unless size is given
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, _, err := utils.GetPageable(c, userSortColumns)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	if page.Size == 0 {
		page.Size = constants.DefaultPageSize
	}

	users, total, err := h.userService.List(c.Request.Context(), page)
	if err != nil {
		h.reporter.Internal(c, err)
		return
	}

	c.Header(constants.HeaderTotalCount, strconv.FormatInt(total, 10))
	c.JSON(http.StatusOK, dto.ToUserDTOs(users))
}

// GetUser returns a single user
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid id")
		return
	}

	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			apierrors.NotFound(c, "User not found")
			return
		}
		h.reporter.Internal(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}
