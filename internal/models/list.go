package models

// ListDetails — метаданные постраничной выдачи.
// TotalCount считается по непагинированному фильтру,
// PageCount = ceil(TotalCount / Limit).
type ListDetails struct {
	TotalCount  int64 `json:"totalCount"`
	PageCount   int64 `json:"pageCount"`
	CurrentPage int64 `json:"currentPage"`
	Limit       int64 `json:"limit"`
}
