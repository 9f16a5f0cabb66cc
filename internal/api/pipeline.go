package api

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/JaimeStill/wraith/internal/collaborators"
	"github.com/JaimeStill/wraith/internal/pipeline"
	"github.com/JaimeStill/wraith/pkg/handlers"
	"github.com/JaimeStill/wraith/pkg/routes"
)

type pipelineHandler struct {
	runtime       *pipeline.Runtime
	logger        *slog.Logger
	maxUploadSize int64
}

func newPipelineHandler(
	runtime *pipeline.Runtime,
	logger *slog.Logger,
	maxUploadSize int64,
) *pipelineHandler {
	return &pipelineHandler{
		runtime:       runtime,
		logger:        logger.With("handler", "pipeline"),
		maxUploadSize: maxUploadSize,
	}
}

func (h *pipelineHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/pipeline",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.run},
		},
	}
}

// run executes the full rendering pipeline against an uploaded garment image.
// The multipart form accepts a required "garment" file, an optional "on_model"
// reference file, and an optional "clean" flag marking the garment image as
// already background-free.
func (h *pipelineHandler) run(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, err)
		return
	}

	garment, err := formImage(r, "garment")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	input := pipeline.Input{Garment: *garment}

	if onModel, err := formImage(r, "on_model"); err == nil {
		input.OnModel = onModel
	} else if !errors.Is(err, http.ErrMissingFile) {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if v := r.FormValue("clean"); v != "" {
		clean, err := strconv.ParseBool(v)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
			return
		}
		input.Clean = clean
	}

	result, err := pipeline.Execute(r.Context(), h.runtime, input)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, pipeline.ErrEmptyGarment) {
			status = http.StatusBadRequest
		}
		handlers.RespondError(w, h.logger, status, err)
		return
	}

	status := http.StatusCreated
	if result.Status == pipeline.StatusFailed {
		status = http.StatusUnprocessableEntity
	}

	handlers.RespondJSON(w, status, result)
}

func formImage(r *http.Request, field string) (*collaborators.ImagePayload, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &collaborators.ImagePayload{
		Data:        data,
		ContentType: imageContentType(header, data),
	}, nil
}

func imageContentType(header *multipart.FileHeader, data []byte) string {
	if ct := header.Header.Get("Content-Type"); ct != "" && ct != "application/octet-stream" {
		return ct
	}
	return http.DetectContentType(data)
}
