package dto

type LiberarSerieRequest struct {
	// Objetivo resets the counter to this value; nil decrements by one.
	Objetivo *int `json:"objetivo" validate:"omitempty,min=0"`
}

type SerieResponse struct {
	Codigo   string `json:"codigo"`
	Contador int    `json:"contador"`
	Serie    string `json:"serie,omitempty"`
}
