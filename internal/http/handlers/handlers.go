// handlers — HTTP-обработчики REST API поверх service.
//
// Конверты ответов: успех {error:false, data, details?},
// ошибка {error:true, message} (см. internal/httperr).
// Статусы: 200 чтение/список/лайк, 201 создание, 202 обновление,
// 204 удаление.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/MustSel/blog-api/internal/httperr"
	"github.com/MustSel/blog-api/internal/models"
	"github.com/MustSel/blog-api/internal/service"
)

// Handlers агрегирует зависимости обработчиков.
type Handlers struct {
	svc *service.Service
}

func New(svc *service.Service) *Handlers {
	return &Handlers{svc: svc}
}

// decode — JSON-декодер тела запроса. Неизвестные поля молча
// игнорируются: наружу применяется только allow-list входной структуры.
func decode(r *http.Request, value any) error {
	return json.NewDecoder(r.Body).Decode(value)
}

// writeData — успешный ответ в конверте.
func writeData(w http.ResponseWriter, status int, data any) {
	httperr.WriteData(w, status, data, nil)
}

// writeList — успешный ответ списка с метаданными пагинации.
func writeList(w http.ResponseWriter, status int, data any, details *models.ListDetails) {
	httperr.WriteData(w, status, data, details)
}
