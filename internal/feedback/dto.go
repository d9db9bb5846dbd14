package feedback

import (
	"strings"

	"github.com/frahmantamala/performance-tracker/internal"
	"github.com/frahmantamala/performance-tracker/internal/core/common/validation"
)

const MaxCommentLength = 2000

type CreateFeedbackDTO struct {
	EmployeeID int64   `json:"employee_id"`
	Comments   string  `json:"comments"`
	Rating     float64 `json:"rating"`
}

func (dto CreateFeedbackDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("employee_id", dto.EmployeeID).MinInt(1, internal.ErrCodeValidationFailed)
	v.Field("rating", dto.Rating).Custom(func(interface{}) *internal.AppError {
		return validation.ValidateRating(dto.Rating)
	})
	v.Field("comments", dto.Comments).MaxLength(MaxCommentLength)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (dto CreateFeedbackDTO) normalized() CreateFeedbackDTO {
	dto.Comments = strings.TrimSpace(dto.Comments)
	return dto
}
