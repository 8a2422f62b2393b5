package http

import (
	"bytes"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/domain"
)

// imageField nombre del campo multipart con la imagen.
const imageField = "image"

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm)
}

// formImage lee el archivo "image" del formulario. Sin multipart o sin archivo devuelve nil.
func formImage(c *fiber.Ctx) (*dto.FileUpload, error) {
	if !isMultipart(c) {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, domain.NewValidationError("formulario multipart inválido")
	}
	files := form.File[imageField]
	if len(files) == 0 {
		return nil, nil
	}
	fh := files[0]
	f, err := fh.Open()
	if err != nil {
		return nil, domain.NewValidationError("no se pudo leer la imagen")
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return nil, domain.NewValidationError("no se pudo leer la imagen")
	}
	return &dto.FileUpload{Filename: fh.Filename, Content: bytes.NewReader(content)}, nil
}
