package validation

import (
	"github.com/clementroume/holbertonschool-files-manager/internal/model"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ValidateUpload checks the upload fields in order and returns the first
// failure: name, then type, then data.
func ValidateUpload(name string, kind model.FileType, data string) error {
	if err := validation.Validate(name,
		validation.Required.Error("Missing name"),
		validation.RuneLength(1, 255).Error("Name is too long"),
	); err != nil {
		return err
	}

	if err := validation.Validate(kind,
		validation.Required.Error("Missing type"),
		validation.In(model.FileTypeFolder, model.FileTypeFile, model.FileTypeImage).Error("Missing type"),
	); err != nil {
		return err
	}

	return validation.Validate(data,
		validation.When(kind != model.FileTypeFolder, validation.Required.Error("Missing data")),
	)
}
