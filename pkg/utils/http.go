package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

var (
	ErrEmptyParameter = errors.New("empty parameter")
	ErrInvalidID      = errors.New("invalid id")
)

// ParseIDParam reads a positive numeric path parameter.
func ParseIDParam(c *gin.Context, param string) (uint, error) {
	idStr := c.Param(param)
	if idStr == "" {
		return 0, ErrEmptyParameter
	}
	idUint64, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || idUint64 == 0 {
		return 0, ErrInvalidID
	}
	return uint(idUint64), nil
}

func ParseQueryUintParam(c *gin.Context, param string) (uint, error) {
	valStr := c.Query(param)
	if valStr == "" {
		return 0, ErrEmptyParameter
	}
	valUint64, err := strconv.ParseUint(valStr, 10, 64)
	return uint(valUint64), err
}

// QueryIntInRange reads an integer query parameter, falling back to def
// when it is missing or unparsable and clamping it to [min, max].
func QueryIntInRange(c *gin.Context, param string, def, min, max int) int {
	v, err := strconv.Atoi(c.Query(param))
	if err != nil {
		v = def
	}
	if v < min {
		v = min
	}
	if v > max {
		v = max
	}
	return v
}
