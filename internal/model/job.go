package model

const (
	QueueFiles = "fileQueue"
	QueueUsers = "userQueue"
)

// FileJob asks the worker to generate thumbnails for an uploaded image.
type FileJob struct {
	FileID string `json:"fileId"`
	UserID string `json:"userId"`
}

// UserJob asks the worker to welcome a newly created user.
type UserJob struct {
	UserID string `json:"userId"`
}

type Stats struct {
	Users int64 `json:"users"`
	Files int64 `json:"files"`
}

type Status struct {
	Redis bool `json:"redis"`
	DB    bool `json:"db"`
}
