package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/tree-api/internal/constants"
)

// Sort orders a listing by a single column.
type Sort struct {
	Column string
	Desc   bool
}

// Pageable selects one zero-based page of a listing.
type Pageable struct {
	Page int
	Size int
	Sort Sort
}

// Offset returns the number of rows to skip.
func (p Pageable) Offset() int {
	return p.Page * p.Size
}

// GetSort parses the "sort" query parameter ("field" or "field,asc|desc").
// Only fields present in columns are accepted; columns maps the JSON field
// name to the database column.
func GetSort(c *gin.Context, columns map[string]string) (Sort, error) {
	raw := strings.TrimSpace(c.Query(constants.QuerySort))
	if raw == "" {
		return Sort{}, nil
	}

	field, direction, _ := strings.Cut(raw, ",")
	column, ok := columns[strings.TrimSpace(field)]
	if !ok {
		return Sort{}, fmt.Errorf("cannot sort by %q", field)
	}

	switch strings.ToLower(strings.TrimSpace(direction)) {
	case "", "asc":
		return Sort{Column: column}, nil
	case "desc":
		return Sort{Column: column, Desc: true}, nil
	default:
		return Sort{}, fmt.Errorf("invalid sort direction %q", direction)
	}
}

// GetPageable extracts page, size and sort from the request. The second
// return value is false when the client did not ask for a page, in which
// case the whole collection is expected.
func GetPageable(c *gin.Context, columns map[string]string) (Pageable, bool, error) {
	sort, err := GetSort(c, columns)
	if err != nil {
		return Pageable{}, false, err
	}

	pageStr, hasPage := c.GetQuery(constants.QueryPage)
	sizeStr, hasSize := c.GetQuery(constants.QuerySize)
	if !hasPage && !hasSize {
		return Pageable{Sort: sort}, false, nil
	}

	page := 0
	if hasPage {
		page, err = strconv.Atoi(pageStr)
		if err != nil || page < 0 {
			return Pageable{}, false, fmt.Errorf("invalid page %q", pageStr)
		}
	}

	size := constants.DefaultPageSize
	if hasSize {
		size, err = strconv.Atoi(sizeStr)
		if err != nil || size < 1 {
			return Pageable{}, false, fmt.Errorf("invalid size %q", sizeStr)
		}
		if size > constants.MaxPageSize {
			size = constants.MaxPageSize
		}
	}

	if page > math.MaxInt/size {
		return Pageable{}, false, fmt.Errorf("page %d is out of range", page)
	}

	return Pageable{Page: page, Size: size, Sort: sort}, true, nil
}
