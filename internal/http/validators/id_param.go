package validators

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// IDParam parses the :id path parameter. A non-integer id can never name an
// owned row, so it maps to the caller-supplied not-found error rather than
// a 400; existence and malformedness stay indistinguishable.
func IDParam(c echo.Context, notFound error) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, notFound
	}
	return id, nil
}
