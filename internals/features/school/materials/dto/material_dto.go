package dto

type CreateSectionRequest struct {
	Title    string `json:"title"    validate:"required,max=200"`
	Position *int   `json:"position" validate:"omitempty,min=0"`
}

type UpdateSectionRequest struct {
	Title    *string `json:"title"    validate:"omitempty,max=200"`
	Position *int    `json:"position" validate:"omitempty,min=0"`
}

type CreateMaterialRequest struct {
	Title    string `json:"title"     validate:"required,max=200"`
	FileName string `json:"file_name" validate:"required,max=255"`
	// base64 (boleh data-URL); alternatifnya kirim file_url yang sudah jadi
	FileContent *string `json:"file_content" validate:"omitempty"`
	FileURL     *string `json:"file_url"     validate:"omitempty,url,max=500"`
	Position    *int    `json:"position"     validate:"omitempty,min=0"`
}
