package http

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// parseBody decodifica el JSON del cuerpo y aplica las etiquetas validate.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return badRequest("INVALID_BODY", "cuerpo inválido")
	}
	if err := validate.Struct(out); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return badRequest("VALIDATION", err.Error())
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
	}
	return badRequest("VALIDATION", "campos inválidos: "+strings.Join(fields, ", "))
}

// paramID lee un parámetro de ruta entero positivo.
func paramID(c *fiber.Ctx, name string) (int64, error) {
	raw := c.Params(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("INVALID_ID", fmt.Sprintf("%s debe ser un entero positivo", name))
	}
	return id, nil
}

// queryID lee un filtro entero opcional; ausente = 0.
func queryID(c *fiber.Ctx, name string) (int64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, badRequest("INVALID_QUERY", fmt.Sprintf("%s debe ser un entero", name))
	}
	return id, nil
}

// sendFile responde un archivo descargable.
func sendFile(c *fiber.Ctx, contentType, filename string, content []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(content)
}
