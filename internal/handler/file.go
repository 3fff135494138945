package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/clementroume/holbertonschool-files-manager/internal/ctxkeys"
	"github.com/clementroume/holbertonschool-files-manager/internal/model"
	"github.com/clementroume/holbertonschool-files-manager/internal/service"
)

type fileHandler struct {
	fileService *service.FileService
}

func NewFileHandler(fileService *service.FileService) *fileHandler {
	return &fileHandler{fileService: fileService}
}

type uploadRequest struct {
	Name     string          `json:"name"`
	Type     model.FileType  `json:"type"`
	ParentID model.ParentRef `json:"parentId"`
	IsPublic bool            `json:"isPublic"`
	Data     string          `json:"data"`
}

func (h *fileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.fileService.Upload(r.Context(), ctxkeys.Token(r.Context()), service.UploadInput{
		Name:     req.Name,
		Type:     req.Type,
		ParentID: req.ParentID,
		IsPublic: req.IsPublic,
		Data:     req.Data,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}

	if res.Warning != "" {
		w.Header().Set("Warning", fmt.Sprintf("199 - %q", res.Warning))
	}
	writeJSON(w, http.StatusCreated, res.File)
}

func (h *fileHandler) Get(w http.ResponseWriter, r *http.Request) {
	file, err := h.fileService.Get(r.Context(), ctxkeys.Token(r.Context()), r.PathValue("id"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, file)
}

// List serves GET /files?parentId=&page=
func (h *fileHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	parent := model.ParseParentRef(q.Get("parentId"))
	page := service.ParsePage(q.Get("page"))

	files, err := h.fileService.List(r.Context(), ctxkeys.Token(r.Context()), parent, page)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, files)
}

func (h *fileHandler) Publish(w http.ResponseWriter, r *http.Request) {
	h.setVisibility(w, r, true)
}

func (h *fileHandler) Unpublish(w http.ResponseWriter, r *http.Request) {
	h.setVisibility(w, r, false)
}

func (h *fileHandler) setVisibility(w http.ResponseWriter, r *http.Request, public bool) {
	file, err := h.fileService.SetVisibility(r.Context(), ctxkeys.Token(r.Context()), r.PathValue("id"), public)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, file)
}

// Data serves the raw content of a file, or of one of its thumbnails with ?size=.
func (h *fileHandler) Data(w http.ResponseWriter, r *http.Request) {
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))

	content, err := h.fileService.ReadContent(r.Context(), ctxkeys.Token(r.Context()), r.PathValue("id"), size)
	if err != nil {
		handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", content.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(content.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content.Data)
}
