package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/raffayuda/lesson-app/internals/constants"
	"github.com/raffayuda/lesson-app/internals/features/school/materials/dto"
	"github.com/raffayuda/lesson-app/internals/features/school/materials/model"
	scheduleModel "github.com/raffayuda/lesson-app/internals/features/school/schedules/model"
	helper "github.com/raffayuda/lesson-app/internals/helpers"
	"github.com/raffayuda/lesson-app/internals/helpers/oss"
)

type MaterialController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	// nil kalau OSS tidak dikonfigurasi; upload base64 akan ditolak 503
	OSS *oss.Service
}

func NewMaterialController(db *gorm.DB, ossService *oss.Service) *MaterialController {
	return &MaterialController{DB: db, Validate: validator.New(), OSS: ossService}
}

/* ===================== SECTIONS ===================== */

// GET /api/schedules/:id/sections
func (ctrl *MaterialController) ListSections(c *fiber.Ctx) error {
	scheduleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid schedule ID")
	}

	if err := ctrl.DB.First(&scheduleModel.ScheduleModel{}, "schedule_id = ?", scheduleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Schedule not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	var sections []model.MaterialSectionModel
	err = ctrl.DB.
		Where("material_section_schedule_id = ?", scheduleID).
		Preload("Materials", func(db *gorm.DB) *gorm.DB {
			return db.Order("material_position ASC, material_created_at ASC")
		}).
		Order("material_section_position ASC, material_section_created_at ASC").
		Find(&sections).Error
	if err != nil {
		log.Println("[ERROR] gagal ambil sections:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch sections")
	}

	return helper.JsonOK(c, sections)
}

// POST /api/schedules/:id/sections (admin)
func (ctrl *MaterialController) CreateSection(c *fiber.Ctx) error {
	scheduleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid schedule ID")
	}

	var req dto.CreateSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	if err := ctrl.DB.First(&scheduleModel.ScheduleModel{}, "schedule_id = ?", scheduleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Schedule not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	section := model.MaterialSectionModel{
		MaterialSectionScheduleID: scheduleID,
		MaterialSectionTitle:      req.Title,
	}
	if req.Position != nil {
		section.MaterialSectionPosition = *req.Position
	} else {
		// default: taruh di urutan paling belakang
		var maxPos int
		ctrl.DB.Model(&model.MaterialSectionModel{}).
			Where("material_section_schedule_id = ?", scheduleID).
			Select("COALESCE(MAX(material_section_position), -1) + 1").
			Scan(&maxPos)
		section.MaterialSectionPosition = maxPos
	}

	if err := ctrl.DB.Create(&section).Error; err != nil {
		log.Println("[ERROR] gagal buat section:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create section")
	}

	return helper.JsonCreated(c, section)
}

// PUT /api/sections/:id (admin)
func (ctrl *MaterialController) UpdateSection(c *fiber.Ctx) error {
	sectionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid section ID")
	}

	var req dto.UpdateSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var section model.MaterialSectionModel
	if err := ctrl.DB.First(&section, "material_section_id = ?", sectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Section not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	if req.Title != nil {
		section.MaterialSectionTitle = *req.Title
	}
	if req.Position != nil {
		section.MaterialSectionPosition = *req.Position
	}

	if err := ctrl.DB.Save(&section).Error; err != nil {
		log.Println("[ERROR] gagal update section:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update section")
	}

	return helper.JsonOK(c, section)
}

// DELETE /api/sections/:id (admin)
// Ikut menghapus materials di dalamnya; file OSS dibersihkan best-effort.
func (ctrl *MaterialController) DeleteSection(c *fiber.Ctx) error {
	sectionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid section ID")
	}

	var section model.MaterialSectionModel
	if err := ctrl.DB.Preload("Materials").First(&section, "material_section_id = ?", sectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Section not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	txErr := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("material_section_id = ?", sectionID).
			Delete(&model.MaterialModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&section).Error
	})
	if txErr != nil {
		log.Println("[ERROR] gagal hapus section:", txErr)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete section")
	}

	if ctrl.OSS != nil {
		for _, m := range section.Materials {
			if err := ctrl.OSS.DeleteByURL(m.MaterialFileURL); err != nil {
				log.Println("[WARN] gagal hapus file OSS:", err)
			}
		}
	}

	return helper.JsonMessage(c, fiber.StatusOK, "Section deleted")
}

/* ===================== MATERIALS ===================== */

// GET /api/materials?schedule_id=
func (ctrl *MaterialController) ListMaterials(c *fiber.Ctx) error {
	q := ctrl.DB.Model(&model.MaterialModel{}).Preload("Section")

	if raw := c.Query("schedule_id"); raw != "" {
		scheduleID, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid schedule_id")
		}
		q = q.Joins("JOIN material_sections ON material_sections.material_section_id = materials.material_section_id").
			Where("material_sections.material_section_schedule_id = ?", scheduleID)
	}

	var materials []model.MaterialModel
	if err := q.Order("material_position ASC, material_created_at ASC").Find(&materials).Error; err != nil {
		log.Println("[ERROR] gagal ambil materials:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch materials")
	}

	return helper.JsonOK(c, materials)
}

// POST /api/sections/:id/materials (admin)
// Konten dikirim base64 → diunggah ke OSS, atau langsung berupa file_url.
func (ctrl *MaterialController) CreateMaterial(c *fiber.Ctx) error {
	sectionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid section ID")
	}

	var req dto.CreateMaterialRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if req.FileContent == nil && req.FileURL == nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Either file_content or file_url is required")
	}

	var section model.MaterialSectionModel
	if err := ctrl.DB.First(&section, "material_section_id = ?", sectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Section not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	fileURL := ""
	if req.FileContent != nil {
		if ctrl.OSS == nil {
			return helper.JsonError(c, fiber.StatusServiceUnavailable, "File storage is not configured")
		}
		data, mime, err := oss.DecodeBase64Payload(*req.FileContent)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid file content")
		}
		url, err := ctrl.OSS.UploadBytes("materials", req.FileName, mime, data)
		if err != nil {
			log.Println("[ERROR] gagal upload materi ke OSS:", err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to upload file")
		}
		fileURL = url
	} else {
		fileURL = *req.FileURL
	}

	material := model.MaterialModel{
		MaterialSectionID: sectionID,
		MaterialTitle:     req.Title,
		MaterialFileName:  req.FileName,
		MaterialFileType:  constants.DetectFileTypeFromExt(req.FileName),
		MaterialFileURL:   fileURL,
	}
	if req.Position != nil {
		material.MaterialPosition = *req.Position
	} else {
		var maxPos int
		ctrl.DB.Model(&model.MaterialModel{}).
			Where("material_section_id = ?", sectionID).
			Select("COALESCE(MAX(material_position), -1) + 1").
			Scan(&maxPos)
		material.MaterialPosition = maxPos
	}

	if err := ctrl.DB.Create(&material).Error; err != nil {
		log.Println("[ERROR] gagal simpan materi:", err)
		// file sudah terlanjur naik, bersihkan
		if ctrl.OSS != nil && req.FileContent != nil {
			_ = ctrl.OSS.DeleteByURL(fileURL)
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create material")
	}

	return helper.JsonCreated(c, material)
}

// GET /api/materials/:id/download — redirect ke URL file
func (ctrl *MaterialController) Download(c *fiber.Ctx) error {
	materialID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid material ID")
	}

	var material model.MaterialModel
	if err := ctrl.DB.First(&material, "material_id = ?", materialID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Material not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	return c.Redirect(material.MaterialFileURL, fiber.StatusFound)
}

// DELETE /api/materials/:id (admin)
func (ctrl *MaterialController) DeleteMaterial(c *fiber.Ctx) error {
	materialID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid material ID")
	}

	var material model.MaterialModel
	if err := ctrl.DB.First(&material, "material_id = ?", materialID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Material not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	if err := ctrl.DB.Delete(&material).Error; err != nil {
		log.Println("[ERROR] gagal hapus materi:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete material")
	}

	if ctrl.OSS != nil {
		if err := ctrl.OSS.DeleteByURL(material.MaterialFileURL); err != nil {
			log.Println("[WARN] gagal hapus file OSS:", err)
		}
	}

	return helper.JsonMessage(c, fiber.StatusOK, "Material deleted")
}
