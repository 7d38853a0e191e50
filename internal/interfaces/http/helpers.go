package http

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/comercializacion-api/internal/application/dto"
	"github.com/jhoicas/comercializacion-api/internal/domain"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// decimal.Decimal se valida como float64 para que min/gt funcionen.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// bindAndValidate parsea el body JSON y aplica los tags de validación.
// Si devuelve false la respuesta de error ya fue escrita.
func bindAndValidate(c *fiber.Ctx, req interface{}) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Namespace()[strings.Index(fe.Namespace(), ".")+1:]] = fe.Tag()
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos", Fields: fields})
	}
	return true, nil
}

// pageParams lee limit/offset de la query aplicando los límites del listado.
func pageParams(c *fiber.Ctx, def, max int) (int, int) {
	limit := c.QueryInt("limit", def)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// dateQuery acepta YYYY-MM-DD o RFC3339. Con endOfDay una fecha sin hora cubre el día completo.
func dateQuery(c *fiber.Ctx, key string, endOfDay bool) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, domain.Invalid(key, "formato esperado YYYY-MM-DD")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// periodQuery lee el rango obligatorio desde/hasta de los resúmenes por período.
func periodQuery(c *fiber.Ctx) (time.Time, time.Time, error) {
	from, err := dateQuery(c, "desde", false)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := dateQuery(c, "hasta", true)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if from == nil {
		return time.Time{}, time.Time{}, domain.Invalid("desde", "requerido")
	}
	if to == nil {
		return time.Time{}, time.Time{}, domain.Invalid("hasta", "requerido")
	}
	return *from, *to, nil
}

// requireID valida el parámetro :id de la ruta.
func requireID(c *fiber.Ctx) (string, error) {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return "", domain.Invalid("id", "requerido")
	}
	return id, nil
}
