package dto

// CreateStudentRequest: admin membuat siswa sekaligus akun user-nya.
// Password opsional; default "student<NIS>".
type CreateStudentRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	NIS      string `json:"nis"      validate:"required"`
	Class    string `json:"class"    validate:"required"`
	Password string `json:"password" validate:"omitempty,min=6"`
}

// UpdateStudentRequest: partial merge, field kosong = tidak diubah.
type UpdateStudentRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"omitempty,email"`
	NIS   string `json:"nis"`
	Class string `json:"class"`
}
