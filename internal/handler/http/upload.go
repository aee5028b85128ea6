package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/storeline/products/internal/domain"
	"github.com/storeline/products/internal/service"
	"github.com/storeline/products/internal/storage"
	"github.com/storeline/products/pkg/validator"
)

// maxFieldBytes bounds a single text field of the product form.
const maxFieldBytes = 64 << 10

// maxNameAttempts bounds how many upload times are tried when a generated
// image name is already taken.
const maxNameAttempts = 16

// readProductForm streams the product form. Text fields are collected and the
// optional image is type-checked from its part headers before it is written to
// storage. Any upload rejection removes an image stored earlier in the same
// request.
func (h *ProductHandler) readProductForm(w http.ResponseWriter, r *http.Request) (_ *service.CreateProductInput, err error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+maxBodyBytes)

	input := &service.CreateProductInput{}
	defer func() {
		if err != nil && input.ImageName != nil {
			if derr := h.images.Delete(r.Context(), *input.ImageName); derr != nil {
				h.logger.WarnContext(r.Context(), "failed to remove rejected image",
					slog.String("file", *input.ImageName),
					slog.String("error", derr.Error()),
				)
			}
			input.ImageName = nil
		}
	}()

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		// Forms without a file may still arrive urlencoded or as JSON.
		fields, err := decodeBody(w, r)
		if err != nil {
			return nil, err
		}
		for name, v := range fields {
			setProductField(input, name, stringField(v))
		}
		return input, nil
	}

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, bodyError(err)
	}

	seen := make(map[string]bool)
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return input, nil
		}
		if err != nil {
			return nil, uploadReadError(err)
		}

		name := part.FormName()
		if part.FileName() == "" {
			value, err := io.ReadAll(io.LimitReader(part, maxFieldBytes+1))
			_ = part.Close()
			if err != nil {
				return nil, uploadReadError(err)
			}
			if len(value) > maxFieldBytes {
				return nil, validator.New(validator.Violation{
					Msg:      "Field value too long",
					Param:    name,
					Location: validator.LocationBody,
				})
			}
			if !seen[name] {
				seen[name] = true
				setProductField(input, name, string(value))
			}
			continue
		}

		err = h.storeImage(r, part.FormName(), part.FileName(), part.Header.Get("Content-Type"), part, input)
		_ = part.Close()
		if err != nil {
			return nil, err
		}
	}
}

func (h *ProductHandler) storeImage(r *http.Request, field, filename, contentType string, content io.Reader, input *service.CreateProductInput) error {
	if field != domain.ImageField || input.ImageName != nil {
		return imageViolation(domain.ErrUnexpectedField)
	}
	if err := domain.CheckImageType(filename, contentType); err != nil {
		return imageViolation(err)
	}

	name, size, err := h.saveImage(r, filename, content)
	if errors.Is(err, storage.ErrTooLarge) {
		return imageViolation(domain.ErrImageTooLarge)
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return imageViolation(domain.ErrImageTooLarge)
		}
		return fmt.Errorf("store image: %w", err)
	}
	if err := domain.CheckImageSize(size, h.maxUpload); err != nil {
		_ = h.images.Delete(r.Context(), name)
		return imageViolation(err)
	}

	input.ImageName = &name
	h.logger.DebugContext(r.Context(), "image stored",
		slog.String("file", name),
		slog.String("url", h.images.URL(name)),
		slog.Int64("bytes", size),
	)
	return nil
}

// saveImage stores content under a name derived from the upload time. A name
// taken by a concurrent upload in the same millisecond moves on to the next
// millisecond.
func (h *ProductHandler) saveImage(r *http.Request, filename string, content io.Reader) (string, int64, error) {
	at := h.now()
	for attempt := 1; ; attempt++ {
		name := domain.ImageFileName(filename, at)
		size, err := h.images.Save(r.Context(), name, content, h.maxUpload)
		if !errors.Is(err, storage.ErrExists) || attempt == maxNameAttempts {
			return name, size, err
		}
		at = at.Add(time.Millisecond)
	}
}

func setProductField(input *service.CreateProductInput, name, value string) {
	switch name {
	case "name":
		input.Name = value
	case "description":
		input.Description = value
	case "categoryid":
		input.CategoryID = value
	case "brand":
		input.Brand = value
	case "price":
		input.Price = value
	case "img_src":
		input.ImgSrc = &value
	}
}

func imageViolation(err error) error {
	return validator.New(validator.Violation{
		Msg:      err.Error(),
		Param:    domain.ImageField,
		Location: validator.LocationFile,
	})
}

func uploadReadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return imageViolation(domain.ErrImageTooLarge)
	}
	if strings.Contains(err.Error(), "multipart") || errors.Is(err, io.ErrUnexpectedEOF) {
		return bodyError(err)
	}
	return fmt.Errorf("read multipart body: %w", err)
}
