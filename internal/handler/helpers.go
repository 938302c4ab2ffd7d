package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"shopmate/internal/apierror"
	"shopmate/internal/ident"
	"shopmate/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/google/uuid"
)

var validate = validator.New()

func init() {
	// Report fields by their JSON/query names rather than Go field names.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	// Names are stored trimmed, so whitespace alone counts as missing.
	_ = validate.RegisterValidation("notblank", validators.NotBlank)
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

// bindQuery binds query parameters (filters and pagination) and validates them.
func bindQuery(c *gin.Context, filter interface{}) bool {
	if err := c.ShouldBindQuery(filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid query: "+err.Error()))
		return false
	}
	return validateStruct(c, filter)
}

func validateStruct(c *gin.Context, v interface{}) bool {
	err := validate.Struct(v)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return false
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
	return false
}

// uuidParam parses a UUID path parameter, answering 400 when it is malformed.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

// identParam validates a SKU-/CU-/OR- path parameter of the given kind.
func identParam(c *gin.Context, name string, kind ident.Kind) (string, bool) {
	v := c.Param(name)
	if _, err := ident.Parse(kind, v); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid "+name+": expected "+kind.Prefix()+"########"))
		return "", false
	}
	return v, true
}

// respondError maps service errors to status codes. Anything unrecognised is
// handed to middleware.ErrorHandler, which logs it and answers 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrInvalidReference), errors.Is(err, service.ErrUnprocessable):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
	default:
		_ = c.Error(err)
	}
}
