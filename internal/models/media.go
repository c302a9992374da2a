package models

import "time"

// MediaObject — файл в объектном хранилище: фото посевов или
// синтезированный голосовой ответ.
type MediaObject struct {
	Key         string    `json:"key"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	UploadedBy  string    `json:"uploadedBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
