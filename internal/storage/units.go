package storage

type Unit struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Cell string `json:"cell"`
}
