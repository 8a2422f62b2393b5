package dto

import "io"

// FileUpload archivo recibido en un formulario multipart.
type FileUpload struct {
	Filename string
	Content  io.Reader
}
