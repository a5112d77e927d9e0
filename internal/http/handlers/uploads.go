package handlers

import (
	"net/http"

	"github.com/MustSel/blog-api/internal/httperr"
	"github.com/MustSel/blog-api/internal/service"
)

// multipart-форма держится в памяти до этого порога, дальше — temp-файлы.
const uploadMemoryLimit = 4 << 20

type uploadResponse struct {
	URL string `json:"url"`
}

// UploadImage — POST /upload. Принимает multipart-поле "image" и
// возвращает публичный URL загруженного объекта. Ограничения на тип и
// размер применяет сервис.
func (h *Handlers) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(uploadMemoryLimit); err != nil {
		httperr.Write(w, r, service.ErrInvalidArgument)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		httperr.Write(w, r, service.ErrInvalidArgument)
		return
	}
	defer file.Close()

	url, err := h.svc.UploadImage(r.Context(), header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		httperr.Write(w, r, err)
		return
	}

	writeData(w, http.StatusCreated, uploadResponse{URL: url})
}
