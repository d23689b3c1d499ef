package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-playground/validator/v10"

	"github.com/trunov/imgconvert/internal/config"
	"github.com/trunov/imgconvert/internal/entities"
)

type UseCase interface {
	ConvertImage(ctx context.Context, req entities.ConversionRequest) (entities.ConversionResult, error)
}

type Handler struct {
	useCase   UseCase
	cfg       *config.Config
	validator *validator.Validate
	apiDoc    *openapi3.T
	logger    *slog.Logger
}

func New(useCase UseCase, cfg *config.Config, apiDoc *openapi3.T, logger *slog.Logger) *Handler {
	return &Handler{
		useCase:   useCase,
		cfg:       cfg,
		validator: validator.New(),
		apiDoc:    apiDoc,
		logger:    logger,
	}
}

// Convert handles POST /api/convert: one image in, the converted image out.
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.Upload.MaxRequestBodyMB<<20)

	maxMultipartMem := h.cfg.Upload.MaxMultipartMemoryMB
	if err := r.ParseMultipartForm(maxMultipartMem << 20); err != nil {
		h.logger.Debug("invalid multipart body", "error", err)
		writeMultipartError(w, err)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	params, err := h.readParams(r)
	if err != nil {
		writeMultipartError(w, err)
		return
	}

	if err := h.validator.Struct(params); err != nil {
		writeError(w, validationError(err))
		return
	}

	res, err := h.useCase.ConvertImage(r.Context(), params.Request())
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", res.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, outputBasename, params.ConvertTo))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Data)
}

func (h *Handler) readParams(r *http.Request) (ConvertParams, error) {
	params := ConvertParams{
		ConvertTo: r.PostFormValue(fieldConvertTo),
		Quality:   parseQuality(r.PostFormValue(fieldQuality)),
	}
	if params.Quality == nil {
		params.Quality = parseQuality(r.PostFormValue(fieldQualityAlt))
	}

	file, fh, err := r.FormFile(fieldFile)
	if errors.Is(err, http.ErrMissingFile) {
		return params, nil
	}
	if err != nil {
		return params, err
	}
	defer file.Close()

	params.SourceName = fh.Filename
	params.Source, err = io.ReadAll(file)
	if err != nil {
		return params, fmt.Errorf("failed to read upload: %w", err)
	}
	return params, nil
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// OpenAPI serves the API document of this service.
func (h *Handler) OpenAPI(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.apiDoc)
}
