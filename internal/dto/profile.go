package dto

// UpsertSkillRequest adds or updates a skill on a profile. The skill name is
// the natural key so repeated submissions update the same row.
type UpsertSkillRequest struct {
	Name      string   `json:"name" validate:"required,max=60"`
	Level     int      `json:"level" validate:"required,min=1,max=5"`
	YearsUsed *float64 `json:"years_used" validate:"omitempty,gte=0,lte=60"`
}

// UploadDocumentRequest carries document metadata alongside the file part.
type UploadDocumentRequest struct {
	Title    string `form:"title" validate:"required,max=120"`
	Category string `form:"category" validate:"required,oneof=contract identification certificate other"`
}

// PayslipExportRequest asks for an asynchronous payslip PDF.
type PayslipExportRequest struct {
	Year  int `json:"year" validate:"required,min=2000,max=2100"`
	Month int `json:"month" validate:"required,min=1,max=12"`
}
